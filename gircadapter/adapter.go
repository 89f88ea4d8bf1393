// Package gircadapter feeds the numerics received by a girc client into an
// irc.Capabilities store.
package gircadapter

import (
	"strconv"
	"strings"
	"sync"

	"github.com/lrstanley/girc"

	"git.sr.ht/~taiite/servercaps/irc"
)

// Binding owns the Capabilities of one girc client.  girc calls handlers from
// its own goroutines, so access to the store goes through a mutex.
type Binding struct {
	mu   sync.Mutex
	caps *irc.Capabilities
	cuid string
}

// New returns a Binding that is not attached to any client yet.
//
// params.OnReady is called with the lock held: it must use its argument and
// not call Query.
func New(params irc.CapabilitiesParams) *Binding {
	return &Binding{caps: irc.NewCapabilities(params)}
}

// Attach returns a Binding fed by every numeric client receives.
func Attach(client *girc.Client, params irc.CapabilitiesParams) *Binding {
	b := New(params)
	b.cuid = client.Handlers.Add(girc.ALL_EVENTS, func(_ *girc.Client, e girc.Event) {
		b.Handle(e)
	})
	return b
}

// Detach stops feeding the binding.
func (b *Binding) Detach(client *girc.Client) {
	if b.cuid != "" {
		client.Handlers.Remove(b.cuid)
		b.cuid = ""
	}
}

// Handle ingests e if it is a numeric reply.  It reports whether
// capabilities became ready.
func (b *Binding) Handle(e girc.Event) bool {
	code, ok := numeric(e.Command)
	if !ok {
		return false
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	return b.caps.Ingest(code, Text(e))
}

// Query calls f with the capabilities, with the lock held.
func (b *Binding) Query(f func(c *irc.Capabilities)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	f(b.caps)
}

func numeric(command string) (int, bool) {
	if len(command) != 3 || strings.Trim(command, "0123456789") != "" {
		return 0, false
	}
	code, err := strconv.Atoi(command)
	return code, err == nil
}

// Text rebuilds the payload of a numeric, after the target.  girc does not
// say whether the last param was trailing, so it is assumed to be when the
// reply has at least one other param after the target.
func Text(e girc.Event) string {
	if len(e.Params) < 2 {
		return ""
	}
	params := e.Params[1:]
	if len(params) == 1 {
		return params[0]
	}
	last := len(params) - 1
	return strings.Join(params[:last], " ") + " :" + params[last]
}
