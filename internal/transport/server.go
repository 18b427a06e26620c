package transport

import (
	"context"
	"errors"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/danielpatrickdp/setup-tuner/internal/logging"
	"github.com/danielpatrickdp/setup-tuner/internal/round"
	"github.com/danielpatrickdp/setup-tuner/internal/session"
)

// #region service-desc
// TunerServer is the server side of the SetupTuner service.
type TunerServer interface {
	Round(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	Play(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*TunerServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Round", Handler: roundHandler},
		{MethodName: "Play", Handler: playHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "tuning/v1/tuner.proto",
}

func roundHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(TunerServer).Round(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: roundMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(TunerServer).Round(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func playHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(TunerServer).Play(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: playMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(TunerServer).Play(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// Register attaches the tuner and a health service to a gRPC server.
func Register(s *grpc.Server, srv TunerServer) {
	s.RegisterService(&serviceDesc, srv)

	hs := health.NewServer()
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(s, hs)
}
// #endregion service-desc

// #region server
// Server answers Round statelessly and Play against a session service.
// svc may be nil, in which case Play is unimplemented.
type Server struct {
	svc *session.Service
}

// NewServer creates a Server.
func NewServer(svc *session.Service) *Server {
	return &Server{svc: svc}
}

// Round runs one stateless round from a full request.
func (s *Server) Round(_ context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req round.Request
	if err := fromStruct(in, &req); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	resp, err := round.Process(req)
	if err != nil {
		return nil, toStatus(err)
	}
	out, err := toStruct(resp)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}

// Play runs one round against stored session history.
func (s *Server) Play(_ context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	if s.svc == nil {
		return nil, status.Error(codes.Unimplemented, "no session store configured")
	}
	var req PlayRequest
	if err := fromStruct(in, &req); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	if err := round.ValidateLap(req.CurrentLapData); err != nil {
		return nil, toStatus(err)
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sess, err := s.svc.Store().CreateSession(req.Label)
		if err != nil {
			return nil, status.Error(codes.Internal, err.Error())
		}
		sessionID = sess.ID
	}

	outcome, err := s.svc.Play(sessionID, req.Driver, req.CurrentLapData)
	if err != nil {
		logging.Warn().
			Add(logging.Component("transport")).
			Add(logging.SessionID(sessionID)).
			Add(logging.ErrorField(err)).
			Msg("play failed")
		return nil, toStatus(err)
	}

	out, err := toStruct(PlayResponse{
		SessionID:  sessionID,
		RoundID:    outcome.Round.ID,
		Seq:        outcome.Round.Seq,
		GateAction: outcome.Gate.Action,
		GateReason: outcome.Gate.Reason,
		Result:     outcome.Response,
	})
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}

func toStatus(err error) error {
	switch {
	case errors.Is(err, round.ErrMalformedRequest):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, session.ErrSessionNotFound):
		return status.Error(codes.NotFound, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
// #endregion server
