package feedback

// #region category

// Category identifies a feedback vocabulary and its exploration polarity.
type Category string

const (
	CategoryWings      Category = "wings"
	CategoryEngine     Category = "engine"
	CategoryBrakes     Category = "brakes"
	CategoryGearbox    Category = "gearbox"
	CategorySuspension Category = "suspension"
)

// Categories lists every category in a stable order.
func Categories() []Category {
	return []Category{
		CategoryWings,
		CategoryEngine,
		CategoryBrakes,
		CategoryGearbox,
		CategorySuspension,
	}
}

// #endregion

// #region parameter

// Parameter identifies one tunable setting on the car.
type Parameter string

const (
	ParamFrontWing  Parameter = "frontWing"
	ParamRearWing   Parameter = "rearWing"
	ParamEngine     Parameter = "engine"
	ParamBrakes     Parameter = "brakes"
	ParamGearbox    Parameter = "gearbox"
	ParamSuspension Parameter = "suspension"
)

// #endregion

// #region definition

// Definition is one immutable row of a category catalog.
type Definition struct {
	Message    string `json:"msg"`
	IsOK       bool   `json:"isOk"`
	Direction  int    `json:"direction"`  // sign to add to move toward the target
	Severity   int    `json:"severity"`   // 0 = ok, 1 = normal, 2 = extreme
	SignedRank int    `json:"signedRank"` // >0 value too high, <0 too low; tie-break only
}

// #endregion
