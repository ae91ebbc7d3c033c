package network

// ErrConnectionClosedByServer is returned when the server closes the websocket normally
type ErrConnectionClosedByServer struct{}

func (e *ErrConnectionClosedByServer) Error() string {
	return "connection closed by server"
}

// ErrNotConnected is returned when a message is emitted without an open connection
type ErrNotConnected struct{}

func (e *ErrNotConnected) Error() string {
	return "not connected to server"
}

func IsNotConnected(err error) bool {
	_, ok := err.(*ErrNotConnected)
	return ok
}
