// Package protocol defines the wire format spoken over the daemon
// socket.
//
// Messages are newline-delimited JSON envelopes carrying a command name
// and an optional payload. Each connection performs one request and
// receives one response: CmdOK with a result payload on success, or
// CmdError with an [ErrorResult] on failure. The payload types are
// plain structs shared by the client and the server so both sides
// marshal the same shapes.
package protocol
