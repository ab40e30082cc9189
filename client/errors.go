package client

import "errors"

var (
	// ErrMalformedMessage is returned when an inbound frame can not be parsed
	ErrMalformedMessage = errors.New("malformed message")
	// ErrNotConnected is returned when sending without an open connection
	ErrNotConnected = errors.New("not connected")
	// ErrTransportClosed is returned by Start when the connection drops
	ErrTransportClosed = errors.New("transport closed")
)
