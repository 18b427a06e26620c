package tuning

import "math"

// #region round-half-up
// zoneLimit bounds raw step sizes so float to int conversion cannot overflow.
const zoneLimit = math.MaxInt32

// RoundHalfUp rounds to the nearest integer with ties going up: floor(n + 0.5).
// NaN gives 0 and magnitudes beyond zoneLimit saturate.
func RoundHalfUp(n float64) int {
	r := math.Floor(n + 0.5)
	switch {
	case math.IsNaN(r):
		return 0
	case r > zoneLimit:
		return zoneLimit
	case r < -zoneLimit:
		return -zoneLimit
	}
	return int(r)
}
// #endregion round-half-up

// #region compute-zone
// ComputeZone derives the satisfaction zone from driver experience and
// technical knowledge. The result is not clamped to the value range.
// Non-finite skills count as 0.
func ComputeZone(xp, ct float64) Zone {
	xp, ct = orZero(xp), orZero(ct)
	raw := 136 - 0.11555*xp - 0.29895*ct
	total := RoundHalfUp(raw)
	return Zone{
		Total: total,
		Half:  RoundHalfUp(float64(total) / 2),
	}
}

func orZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
// #endregion compute-zone

// #region clamp
func clamp(v int) int {
	if v < MinValue {
		return MinValue
	}
	if v > MaxValue {
		return MaxValue
	}
	return v
}
// #endregion clamp
