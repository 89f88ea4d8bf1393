package servercaps

import (
	"context"
	"crypto/tls"
	"net"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"git.sr.ht/~taiite/servercaps/irc"
)

// ErrTimeout is returned by Probe when the server has not finished
// advertising its capabilities in time.
var ErrTimeout = errors.New("timed out waiting for capabilities")

// App connects to a server and collects its capabilities.
type App struct {
	cfg    Config
	logger *zap.Logger

	// Dial opens the connection.  It defaults to a TCP (and TLS) dial of
	// cfg.Addr and can be replaced in tests.
	Dial func(ctx context.Context) (net.Conn, error)
}

func NewApp(cfg Config, logger *zap.Logger) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	app := &App{
		cfg:    cfg,
		logger: logger,
	}
	app.Dial = app.dial
	return app
}

// Probe registers to the server and returns its capabilities once they are
// ready.  On timeout, the capabilities received so far are returned along
// with ErrTimeout.
func (app *App) Probe(ctx context.Context) (*irc.Capabilities, error) {
	if app.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, app.cfg.Timeout)
		defer cancel()
	}

	app.logger.Info("connecting", zap.String("address", app.cfg.Addr))
	conn, err := app.Dial(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "connecting to %s", app.cfg.Addr)
	}

	var limit *rate.Limiter
	if app.cfg.Rate > 0 && app.cfg.Rate != rate.Inf {
		burst := app.cfg.Burst
		if burst < 1 {
			burst = 1
		}
		limit = rate.NewLimiter(app.cfg.Rate, burst)
	}
	in, out := irc.ChanInOut(ctx, conn, limit)
	if app.cfg.Debug {
		out = app.debugOutputMessages(out)
	}

	session := irc.NewSession(out, irc.SessionParams{
		Nickname: app.cfg.Nick,
		Username: app.cfg.User,
		RealName: app.cfg.Real,
		Password: app.cfg.Password,
		Capabilities: irc.CapabilitiesParams{
			ISupport: app.cfg.ISupportNumeric,
			Ready:    app.cfg.ReadyNumeric,
		},
		Logger: app.logger,
	})
	defer func() {
		session.Close()
		for range in {
		}
	}()

	for {
		select {
		case <-ctx.Done():
			_ = conn.Close()
			return session.Capabilities(), ErrTimeout
		case msg, ok := <-in:
			if !ok {
				return session.Capabilities(), errors.New("connection closed before capabilities were ready")
			}
			if app.cfg.Debug {
				app.logger.Debug("in", zap.String("line", msg.String()))
			}
			switch ev := session.HandleMessage(msg).(type) {
			case irc.RegisteredEvent:
				app.logger.Info("registered", zap.String("nick", ev.Nick))
			case irc.CapabilitiesReadyEvent:
				app.logger.Info("capabilities ready", zap.Int("count", len(ev.Capabilities.Names())))
				return ev.Capabilities, nil
			case irc.ErrorEvent:
				return session.Capabilities(), errors.Newf("server error: %s", ev.Message)
			}
		}
	}
}

func (app *App) dial(ctx context.Context) (conn net.Conn, err error) {
	addr := app.cfg.Addr
	colonIdx := strings.LastIndexByte(addr, ':')
	bracketIdx := strings.LastIndexByte(addr, ']')
	if colonIdx <= bracketIdx {
		// either colonIdx < 0, or the last colon is before a ']' (end
		// of IPv6 address. -> missing port
		if app.cfg.TLS {
			addr += ":6697"
		} else {
			addr += ":6667"
		}
	}

	dialer := net.Dialer{Timeout: 30 * time.Second}
	conn, err = dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return
	}

	if app.cfg.TLS {
		host, _, _ := net.SplitHostPort(addr) // should succeed since the dial did.
		tlsConn := tls.Client(conn, &tls.Config{
			ServerName: host,
			NextProtos: []string{"irc"},
		})
		err = tlsConn.HandshakeContext(ctx)
		if err != nil {
			conn.Close()
			return nil, err
		}
		conn = tlsConn
	}

	return
}

func (app *App) debugOutputMessages(out chan<- irc.Message) chan<- irc.Message {
	debugOut := make(chan irc.Message, cap(out))
	go func() {
		for msg := range debugOut {
			app.logger.Debug("out", zap.String("line", msg.String()))
			out <- msg
		}
		close(out)
	}()
	return debugOut
}
