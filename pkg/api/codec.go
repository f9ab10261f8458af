// Package api defines the wire messages of the barnight RPC services.
//
// Messages are plain Go structs carried over the Connect protocol with a
// JSON codec, so browsers can call the services with fetch and
// Content-Type application/json.
package api

import (
	"encoding/json"
	"fmt"

	"connectrpc.com/connect"
)

// CodecName is the Connect codec name; it maps to application/json.
const CodecName = "json"

type jsonCodec struct{}

var _ connect.Codec = jsonCodec{}

func (jsonCodec) Name() string { return CodecName }

func (jsonCodec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

func (jsonCodec) Unmarshal(data []byte, msg any) error {
	// An empty body is a valid empty message
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, msg); err != nil {
		return fmt.Errorf("invalid %T: %w", msg, err)
	}
	return nil
}

// WithCodec returns the Connect option that installs the JSON codec on
// handlers and clients.
func WithCodec() connect.Option {
	return connect.WithCodec(jsonCodec{})
}
