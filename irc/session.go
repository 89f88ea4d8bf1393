package irc

import (
	"strings"

	"go.uber.org/zap"
)

// SessionParams defines how to register to an IRC server.
type SessionParams struct {
	Nickname string
	Username string
	RealName string
	Password string // sent with PASS if not empty.

	Capabilities CapabilitiesParams

	Logger *zap.Logger
}

// Session registers to an IRC server and records the capabilities it
// advertises.  It does not join channels nor track users.
type Session struct {
	out        chan<- Message
	closed     bool
	registered bool
	logger     *zap.Logger

	nick string
	user string
	real string

	caps *Capabilities
}

// NewSession sends the registration commands to out and returns the
// session that handles the server replies.
func NewSession(out chan<- Message, params SessionParams) *Session {
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	capsParams := params.Capabilities
	if capsParams.Logger == nil {
		capsParams.Logger = logger
	}

	s := &Session{
		out:    out,
		logger: logger,
		nick:   params.Nickname,
		user:   params.Username,
		real:   params.RealName,
		caps:   NewCapabilities(capsParams),
	}
	if s.user == "" {
		s.user = s.nick
	}
	if s.real == "" {
		s.real = s.nick
	}

	if params.Password != "" {
		s.send(NewMessage("PASS", params.Password))
	}
	s.send(NewMessage("NICK", s.nick))
	s.send(NewMessage("USER", s.user, "0", "*", s.real))

	return s
}

func (s *Session) Close() {
	if s.closed {
		return
	}
	s.closed = true
	close(s.out)
}

func (s *Session) send(msg Message) {
	if s.closed {
		return
	}
	s.out <- msg
}

func (s *Session) Nick() string {
	return s.nick
}

// Registered reports whether the server has welcomed us.
func (s *Session) Registered() bool {
	return s.registered
}

// Capabilities returns what the server advertised so far.
func (s *Session) Capabilities() *Capabilities {
	return s.caps
}

// HandleMessage updates the session with a message from the server and
// returns the resulting event, or nil.
//
// When a single message both welcomes us and makes capabilities ready, the
// CapabilitiesReadyEvent is returned; Registered reports the former.
func (s *Session) HandleMessage(msg Message) Event {
	if err := msg.Validate(); err != nil {
		s.logger.Debug("ignoring invalid message", zap.Error(err))
		return nil
	}

	var ready bool
	if msg.IsReply() {
		ready = s.caps.Ingest(msg.Code(), msg.Text())
	}

	var ev Event
	switch msg.Command {
	case rplWelcome:
		s.nick = msg.Params[0]
		s.registered = true
		s.logger.Debug("registered", zap.String("nick", s.nick))
		ev = RegisteredEvent{Nick: s.nick}
	case errNicknameinuse:
		if !s.registered {
			s.nick = msg.Params[1] + "_"
			s.send(NewMessage("NICK", s.nick))
		}
	case "PING":
		s.send(NewMessage("PONG", msg.Params[0]))
	case "ERROR":
		s.Close()
		ev = ErrorEvent{Message: strings.Join(msg.Params, " ")}
	}

	if ready {
		return CapabilitiesReadyEvent{Capabilities: s.caps}
	}
	return ev
}
