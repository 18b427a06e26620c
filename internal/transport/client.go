package transport

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/danielpatrickdp/setup-tuner/internal/round"
)

// #region client-struct
// Client wraps a gRPC connection to a tuner server.
type Client struct {
	conn *grpc.ClientConn
}
// #endregion client-struct

// #region constructor
// NewClient connects to a tuner server.
func NewClient(addr string) (*Client, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("grpc dial %s: %w", addr, err)
	}
	return &Client{conn: conn}, nil
}

// NewClientWithConn wraps an existing connection.
func NewClientWithConn(conn *grpc.ClientConn) *Client {
	return &Client{conn: conn}
}

// Close shuts down the gRPC connection.
func (c *Client) Close() error {
	return c.conn.Close()
}
// #endregion constructor

// #region round
// Round sends a full stateless round request.
func (c *Client) Round(ctx context.Context, req round.Request) (round.Response, error) {
	in, err := toStruct(req)
	if err != nil {
		return round.Response{}, err
	}
	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, roundMethod, in, out); err != nil {
		return round.Response{}, fmt.Errorf("round rpc: %w", err)
	}
	var resp round.Response
	if err := fromStruct(out, &resp); err != nil {
		return round.Response{}, err
	}
	return resp, nil
}
// #endregion round

// #region play
// Play plays a round against the server's session store.
func (c *Client) Play(ctx context.Context, req PlayRequest) (PlayResponse, error) {
	in, err := toStruct(req)
	if err != nil {
		return PlayResponse{}, err
	}
	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, playMethod, in, out); err != nil {
		return PlayResponse{}, fmt.Errorf("play rpc: %w", err)
	}
	var resp PlayResponse
	if err := fromStruct(out, &resp); err != nil {
		return PlayResponse{}, err
	}
	return resp, nil
}
// #endregion play
