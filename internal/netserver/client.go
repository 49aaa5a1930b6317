package netserver

import (
	"fmt"
	"net"
)

// Client is a single-request TCP client: Connect, SendRequest once,
// then Disconnect, mirroring pplme::net::Client's
// single-request/single-response contract. Server answers exactly one
// request per connection and then closes it, so a second SendRequest
// on the same connection fails. Not safe for concurrent use.
type Client struct {
	addr string
	conn net.Conn
}

// NewClient builds a client that will dial addr on Connect.
func NewClient(addr string) *Client {
	return &Client{addr: addr}
}

// Connect dials the server.
func (c *Client) Connect() error {
	conn, err := net.Dial("tcp", c.addr)
	if err != nil {
		return fmt.Errorf("netserver: connect to %s: %w", c.addr, err)
	}
	c.conn = conn
	return nil
}

// SendRequest sends request and blocks for the matching response.
func (c *Client) SendRequest(request []byte) ([]byte, error) {
	if err := writeMessage(c.conn, request); err != nil {
		return nil, fmt.Errorf("netserver: send request: %w", err)
	}
	response, err := readMessage(c.conn)
	if err != nil {
		return nil, fmt.Errorf("netserver: receive response: %w", err)
	}
	return response, nil
}

// Disconnect closes the connection.
func (c *Client) Disconnect() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}
