package protocol

import (
	"encoding/json"
	"errors"

	"github.com/gantrylabs/gantry/internal/errx"
)

var ErrProtocol = errors.New("protocol error")

// Names a request or response on the wire.
type Command string

const (
	CmdBuild           Command = "build"
	CmdUp              Command = "up"
	CmdTest            Command = "test"
	CmdDown            Command = "down"
	CmdContainerStatus Command = "container-status"
	CmdStatus          Command = "status"
	CmdShutdown        Command = "shutdown"

	CmdOK    Command = "ok"
	CmdError Command = "error"
)

// One message on the wire.
type Envelope struct {
	Command Command         `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Serializes a command and payload into an envelope.
//
// A nil payload produces an envelope without a payload field.
func Encode(cmd Command, payload any) ([]byte, error) {
	env := Envelope{Command: cmd}

	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, errx.Wrap(ErrProtocol, err)
		}
		env.Payload = raw
	}

	data, err := json.Marshal(env)
	if err != nil {
		return nil, errx.Wrap(ErrProtocol, err)
	}
	return data, nil
}

// Parses an envelope, returning it along with its raw payload.
func Decode(data []byte) (Envelope, json.RawMessage, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Envelope{}, nil, errx.Wrap(ErrProtocol, err)
	}
	if env.Command == "" {
		return Envelope{}, nil, errx.Wrapf(ErrProtocol, "missing command")
	}
	return env, env.Payload, nil
}

// Unmarshals a raw payload into a concrete request or result type.
func DecodePayload[T any](payload json.RawMessage) (*T, error) {
	var v T
	if len(payload) == 0 {
		return &v, nil
	}
	if err := json.Unmarshal(payload, &v); err != nil {
		return nil, errx.Wrap(ErrProtocol, err)
	}
	return &v, nil
}
