package eval

// #region eval-config
// EvalConfig holds the bounds a round response must respect.
type EvalConfig struct {
	MinValue int // lowest value a suggestion or estimate may take
	MaxValue int // highest value a suggestion or estimate may take
}

// DefaultEvalConfig returns the [1,1000] tuning range.
func DefaultEvalConfig() EvalConfig {
	return EvalConfig{
		MinValue: 1,
		MaxValue: 1000,
	}
}

// #endregion eval-config

// #region eval-metric
// EvalMetric captures a single validation check result.
type EvalMetric struct {
	Name  string
	Value float32
	Pass  bool
}

// #endregion eval-metric

// #region eval-result
// EvalResult is the output of response validation.
type EvalResult struct {
	Passed  bool
	Metrics []EvalMetric
	Reason  string
}

// #endregion eval-result
