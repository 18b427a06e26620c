package round

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/danielpatrickdp/setup-tuner/internal/feedback"
	"github.com/danielpatrickdp/setup-tuner/internal/logging"
	"github.com/danielpatrickdp/setup-tuner/internal/tuning"
)

// #region decode
// Decode parses a JSON round request.
func Decode(data []byte) (Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return Request{}, fmt.Errorf("%w: %v", ErrMalformedRequest, err)
	}
	return req, nil
}
// #endregion decode

// #region validate
// ValidateLap rejects a missing lap or one naming a parameter outside the catalog.
func ValidateLap(lap map[feedback.Parameter]LapInput) error {
	if lap == nil {
		return fmt.Errorf("%w: missing currentLapData", ErrMalformedRequest)
	}
	for p := range lap {
		if _, ok := feedback.CategoryOf(p); !ok {
			return fmt.Errorf("%w: %w %q", ErrMalformedRequest, ErrUnknownParameter, p)
		}
	}
	return nil
}
// #endregion validate

// #region process
// Process classifies the current lap, extends each parameter's history and
// derives the next suggestion, allowed statements and final estimate per
// parameter. It keeps no state between calls.
func Process(req Request) (Response, error) {
	if err := ValidateLap(req.CurrentLapData); err != nil {
		return Response{}, err
	}

	params := make([]feedback.Parameter, 0, len(req.CurrentLapData))
	for p := range req.CurrentLapData {
		params = append(params, p)
	}
	sort.Slice(params, func(i, j int) bool { return params[i] < params[j] })

	zone := tuning.ComputeZone(float64(req.Driver.XP), float64(req.Driver.CT))

	resp := Response{
		ProcessedLap:    make(Lap, len(params)),
		NextSuggestions: make(map[feedback.Parameter]int, len(params)),
		FinalAnalysis:   make(map[feedback.Parameter]tuning.Estimate, len(params)),
		AllowedOptions:  make(map[feedback.Parameter][]string, len(params)),
		Zone:            zone,
		Phases:          make(map[feedback.Parameter]tuning.Phase, len(params)),
	}

	for _, p := range params {
		category, _ := feedback.CategoryOf(p)
		input := req.CurrentLapData[p]

		def := feedback.Classify(category, input.Msg)
		entry := NewProcessedEntry(input.Acerto, def)

		log := HistoryFor(p, req.History)
		log = append(log, entry.Observation())

		resp.ProcessedLap[p] = entry
		resp.NextSuggestions[p] = tuning.Suggest(category, log, zone)
		resp.AllowedOptions[p] = tuning.AllowedMessages(category, log)
		resp.FinalAnalysis[p] = tuning.EstimateFinal(category, log, zone)
		resp.Phases[p] = tuning.PhaseOf(log)

		logging.Debug().
			Add(logging.Component("round")).
			Add(logging.Parameter(string(p))).
			Add(logging.Phase(string(resp.Phases[p]))).
			Add(logging.Suggestion(resp.NextSuggestions[p])).
			Add(logging.Count("observations", len(log))).
			Msg("parameter processed")
	}

	return resp, nil
}
// #endregion process

// #region history
// HistoryFor extracts one parameter's observation log from prior laps.
// Laps that did not evaluate the parameter are skipped.
func HistoryFor(p feedback.Parameter, history []Lap) tuning.Log {
	log := make(tuning.Log, 0, len(history)+1)
	for _, lap := range history {
		if e, ok := lap[p]; ok {
			log = append(log, e.Observation())
		}
	}
	return log
}
// #endregion history
