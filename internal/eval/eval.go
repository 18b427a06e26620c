package eval

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/danielpatrickdp/setup-tuner/internal/feedback"
	"github.com/danielpatrickdp/setup-tuner/internal/round"
	"github.com/danielpatrickdp/setup-tuner/internal/tuning"
)

var marginPattern = regexp.MustCompile(`^(0|N/A|±\d+)$`)

// #region eval-harness
// EvalHarness validates the shape and bounds of round responses.
type EvalHarness struct {
	config EvalConfig
}

// NewEvalHarness creates an eval harness with the given configuration.
func NewEvalHarness(config EvalConfig) *EvalHarness {
	return &EvalHarness{config: config}
}

// Run checks every parameter of a response and reports one metric per check.
func (h *EvalHarness) Run(resp round.Response) EvalResult {
	var metrics []EvalMetric
	var failReasons []string

	params := make([]feedback.Parameter, 0, len(resp.ProcessedLap))
	for p := range resp.ProcessedLap {
		params = append(params, p)
	}
	sort.Slice(params, func(i, j int) bool { return params[i] < params[j] })

	record := func(name string, value float32, pass bool, reason string) {
		metrics = append(metrics, EvalMetric{Name: name, Value: value, Pass: pass})
		if !pass {
			failReasons = append(failReasons, reason)
		}
	}

	for _, p := range params {
		category, _ := feedback.CategoryOf(p)

		// 1. Suggestion bounds
		next, ok := resp.NextSuggestions[p]
		record(fmt.Sprintf("%s_suggestion", p), float32(next),
			ok && h.inRange(next),
			fmt.Sprintf("%s suggestion %d outside [%d,%d]", p, next, h.config.MinValue, h.config.MaxValue))

		// 2. Estimate bounds and margin format
		est, ok := resp.FinalAnalysis[p]
		finalPass := ok && (!est.Known || h.inRange(est.Final))
		record(fmt.Sprintf("%s_final", p), float32(est.Final), finalPass,
			fmt.Sprintf("%s final %d outside [%d,%d]", p, est.Final, h.config.MinValue, h.config.MaxValue))

		margin := est.Margin
		if !est.Known {
			margin = tuning.NotAvailable
		}
		record(fmt.Sprintf("%s_margin", p), 0, marginPattern.MatchString(margin),
			fmt.Sprintf("%s margin %q malformed", p, margin))

		// 3. Allowed options always offer OK
		opts := resp.AllowedOptions[p]
		record(fmt.Sprintf("%s_allowed", p), float32(len(opts)), containsString(opts, feedback.OK(category).Message),
			fmt.Sprintf("%s allowed options miss the ok statement", p))
	}

	reason := "all checks passed"
	if len(failReasons) == 1 {
		reason = fmt.Sprintf("eval failed: %s", failReasons[0])
	} else if len(failReasons) > 1 {
		reason = fmt.Sprintf("eval failed: %d checks: %s", len(failReasons), failReasons[0])
	}

	return EvalResult{
		Passed:  len(failReasons) == 0,
		Metrics: metrics,
		Reason:  reason,
	}
}

// #endregion eval-harness

// #region helpers
func (h *EvalHarness) inRange(v int) bool {
	return v >= h.config.MinValue && v <= h.config.MaxValue
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// #endregion helpers
