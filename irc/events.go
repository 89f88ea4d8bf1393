package irc

type Event interface{}

// RegisteredEvent is sent when the server welcomes us.
type RegisteredEvent struct {
	Nick string
}

// CapabilitiesReadyEvent is sent once, when the capabilities advertised by
// the server are final.
type CapabilitiesReadyEvent struct {
	Capabilities *Capabilities
}

// ErrorEvent is sent when the server closes the connection with ERROR.
type ErrorEvent struct {
	Message string
}
