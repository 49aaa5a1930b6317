// Package netserver is pplme's bespoke request/response transport: a
// single-shot-per-connection TCP server and client exchanging
// length-prefixed bodies, grounded on the original libpplmenet
// message/single_shot_server/client/connection sources. The framing
// itself is not HTTP and has no third-party equivalent anywhere in the
// example pack, so it is implemented directly on net and
// encoding/binary (see DESIGN.md).
package netserver

import (
	"encoding/binary"
	"fmt"
	"io"
)

// MaxBodyLength caps an incoming message body, matching the original
// Message::kMaxBodyLength. Without this bound a peer could claim an
// enormous body length and force an equally enormous allocation.
const MaxBodyLength = 1048576

const headerLength = 4

// writeMessage writes a 4-byte big-endian length header followed by
// body, mirroring Connection::SendMessage's header-then-body framing.
func writeMessage(w io.Writer, body []byte) error {
	var header [headerLength]byte
	binary.BigEndian.PutUint32(header[:], uint32(len(body)))
	if _, err := w.Write(header[:]); err != nil {
		return fmt.Errorf("netserver: write header: %w", err)
	}
	if _, err := w.Write(body); err != nil {
		return fmt.Errorf("netserver: write body: %w", err)
	}
	return nil
}

// readMessage reads a 4-byte big-endian length header and then exactly
// that many body bytes, mirroring Connection::ReceiveMessage, rejecting
// any body claiming to exceed MaxBodyLength before allocating for it.
func readMessage(r io.Reader) ([]byte, error) {
	var header [headerLength]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, fmt.Errorf("netserver: read header: %w", err)
	}
	bodyLength := binary.BigEndian.Uint32(header[:])
	if bodyLength > MaxBodyLength {
		return nil, fmt.Errorf("netserver: body length %d exceeds max %d", bodyLength, MaxBodyLength)
	}
	body := make([]byte, bodyLength)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, fmt.Errorf("netserver: read body: %w", err)
	}
	return body, nil
}
