package irc

import (
	"sort"
	"strings"

	"go.uber.org/zap"
)

// CapabilitiesParams defines which numerics feed a Capabilities store.
type CapabilitiesParams struct {
	ISupport int // numeric of capability lines, usually RPL_ISUPPORT.
	Ready    int // numeric after which capabilities are final, usually RPL_LUSERCLIENT.

	// OnReady is called once, from the Ingest call that sees the Ready
	// numeric.
	OnReady func(c *Capabilities)

	Logger *zap.Logger
}

// Capabilities accumulates the RPL_ISUPPORT tokens sent by a server and
// answers questions about them.
//
// One Capabilities must be used per connection.  It does no locking: if it
// is shared between goroutines, callers must serialize all calls.
type Capabilities struct {
	isupportCode int
	readyCode    int
	onReady      func(c *Capabilities)
	logger       *zap.Logger

	supported map[string]Value
	ready     bool
}

func NewCapabilities(params CapabilitiesParams) *Capabilities {
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Capabilities{
		isupportCode: params.ISupport,
		readyCode:    params.Ready,
		onReady:      params.OnReady,
		logger:       logger,
		supported:    map[string]Value{},
	}
}

// Ingest handles a numeric reply.  text is the payload after the target,
// including the ":" of the trailing parameter.
//
// It reports whether capabilities became ready during this call.
func (c *Capabilities) Ingest(code int, text string) (becameReady bool) {
	switch code {
	case c.isupportCode:
		c.Merge(ParseTokens(text))
	case c.readyCode:
		if c.ready {
			return
		}
		c.ready = true
		c.logger.Debug("capabilities ready", zap.Int("count", len(c.supported)))
		if c.onReady != nil {
			c.onReady(c)
		}
		becameReady = true
	}
	return
}

// Merge adds tokens to the store, in order.  A token replaces any previous
// value of the same name.
func (c *Capabilities) Merge(tokens []Token) {
	for _, t := range tokens {
		if t.Negate {
			delete(c.supported, t.Name)
			c.logger.Debug("capability removed", zap.String("name", t.Name))
			continue
		}
		c.supported[t.Name] = t.Value
		c.logger.Debug("capability set",
			zap.String("name", t.Name),
			zap.String("kind", t.Value.kind()))
	}
}

// Ready reports whether the Ready numeric has been received.
func (c *Capabilities) Ready() bool {
	return c.ready
}

// Value returns the raw value of the given capability.
func (c *Capabilities) Value(name string) (v Value, ok bool) {
	v, ok = c.supported[strings.ToUpper(name)]
	return
}

// Names returns the sorted list of advertised capability names.
func (c *Capabilities) Names() []string {
	names := make([]string, 0, len(c.supported))
	for name := range c.supported {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (c *Capabilities) has(name string) bool {
	_, ok := c.supported[name]
	return ok
}

func (c *Capabilities) scalar(name string) (s string, ok bool) {
	v, ok := c.supported[name].(Scalar)
	s = string(v)
	return
}

func (c *Capabilities) list(name string) (l List, ok bool) {
	l, ok = c.supported[name].(List)
	return
}

func (c *Capabilities) keyed(name string) (k Keyed, ok bool) {
	k, ok = c.supported[name].(Keyed)
	return
}
