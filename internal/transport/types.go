package transport

import (
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/danielpatrickdp/setup-tuner/internal/feedback"
	"github.com/danielpatrickdp/setup-tuner/internal/round"
)

// #region method-names
const (
	ServiceName = "tuning.v1.SetupTuner"

	roundMethod = "/tuning.v1.SetupTuner/Round"
	playMethod  = "/tuning.v1.SetupTuner/Play"
)
// #endregion method-names

// #region play-types
// PlayRequest plays one round for a stored session. An empty SessionID
// starts a new session labelled with Label.
type PlayRequest struct {
	SessionID      string                                `json:"sessionId"`
	Label          string                                `json:"label,omitempty"`
	Driver         round.Driver                          `json:"driver"`
	CurrentLapData map[feedback.Parameter]round.LapInput `json:"currentLapData"`
}

// PlayResponse is the engine output plus the stored round identity.
type PlayResponse struct {
	SessionID  string         `json:"sessionId"`
	RoundID    string         `json:"roundId"`
	Seq        int            `json:"seq"`
	GateAction string         `json:"gateAction"`
	GateReason string         `json:"gateReason"`
	Result     round.Response `json:"result"`
}
// #endregion play-types

// #region struct-codec
// Messages travel as google.protobuf.Struct so the JSON contract stays the
// single source of truth for field names.

func toStruct(v any) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal message: %w", err)
	}
	s := &structpb.Struct{}
	if err := protojson.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("encode struct: %w", err)
	}
	return s, nil
}

func fromStruct(s *structpb.Struct, v any) error {
	data, err := protojson.Marshal(s)
	if err != nil {
		return fmt.Errorf("decode struct: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("unmarshal message: %w", err)
	}
	return nil
}
// #endregion struct-codec
