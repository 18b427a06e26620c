package round

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/danielpatrickdp/setup-tuner/internal/feedback"
	"github.com/danielpatrickdp/setup-tuner/internal/tuning"
)

// #region errors
var (
	// ErrMalformedRequest wraps every input error a round can reject.
	ErrMalformedRequest = errors.New("malformed round request")
	// ErrUnknownParameter is returned for a parameter id outside the catalog.
	ErrUnknownParameter = errors.New("unknown parameter")
)
// #endregion errors

// #region lenient-number
// LenientNumber decodes a JSON number, a numeric string, or anything else as 0.
type LenientNumber float64

// UnmarshalJSON never fails; non-numeric and non-finite input is coerced to 0.
func (n *LenientNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*n = finite(f)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if v, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			*n = finite(v)
			return nil
		}
	}
	*n = 0
	return nil
}

func finite(v float64) LenientNumber {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return LenientNumber(v)
}
// #endregion lenient-number

// #region request
// Driver carries the skill inputs for the round.
type Driver struct {
	XP LenientNumber `json:"xp"`
	CT LenientNumber `json:"ct"`
}

// LapInput is the value tried for one parameter and the statement received.
type LapInput struct {
	Acerto int    `json:"acerto"`
	Msg    string `json:"msg"`
}

// ProcessedEntry is a classified observation as it travels on the wire.
type ProcessedEntry struct {
	Acerto     int    `json:"acerto"`
	Msg        string `json:"msg"`
	IsOK       bool   `json:"isOk"`
	Direction  int    `json:"direction"`
	Severity   int    `json:"severity"`
	SignedRank int    `json:"signedRank"`
}

// Lap maps parameter ids to their classified entries for one round.
type Lap map[feedback.Parameter]ProcessedEntry

// Request is one round: skill inputs, the full prior history and the lap just driven.
type Request struct {
	Driver         Driver                          `json:"driver"`
	History        []Lap                           `json:"history"`
	CurrentLapData map[feedback.Parameter]LapInput `json:"currentLapData"`
}
// #endregion request

// #region response
// Response carries every derived output for the round.
type Response struct {
	ProcessedLap    Lap                                    `json:"processedLap"`
	NextSuggestions map[feedback.Parameter]int             `json:"nextSuggestions"`
	FinalAnalysis   map[feedback.Parameter]tuning.Estimate `json:"finalAnalysis"`
	AllowedOptions  map[feedback.Parameter][]string        `json:"allowedOptions"`
	Zone            tuning.Zone                            `json:"zs"`
	Phases          map[feedback.Parameter]tuning.Phase    `json:"-"`
}
// #endregion response

// #region conversions
// Observation converts a wire entry into an engine observation.
func (e ProcessedEntry) Observation() tuning.Observation {
	return tuning.Observation{
		TriedValue: e.Acerto,
		Feedback: feedback.Definition{
			Message:    e.Msg,
			IsOK:       e.IsOK,
			Direction:  e.Direction,
			Severity:   e.Severity,
			SignedRank: e.SignedRank,
		},
	}
}

// NewProcessedEntry pairs a tried value with its classification.
func NewProcessedEntry(acerto int, d feedback.Definition) ProcessedEntry {
	return ProcessedEntry{
		Acerto:     acerto,
		Msg:        d.Message,
		IsOK:       d.IsOK,
		Direction:  d.Direction,
		Severity:   d.Severity,
		SignedRank: d.SignedRank,
	}
}
// #endregion conversions
