package servercaps

import (
	"bytes"
	"os"
	"strconv"
	"strings"
	"time"

	"git.sr.ht/~emersion/go-scfg"
	"github.com/cockroachdb/errors"
	"golang.org/x/time/rate"

	"git.sr.ht/~taiite/servercaps/irc"
)

type Config struct {
	Addr     string
	TLS      bool
	Nick     string
	User     string
	Real     string
	Password string

	// Numerics of capability lines and of the reply after which
	// capabilities are final.
	ISupportNumeric int
	ReadyNumeric    int

	Timeout time.Duration // how long to wait for capabilities.

	// Outgoing messages per second.  The zero value, like rate.Inf,
	// disables the limit.  Burst is raised to 1 when lower.
	Rate  rate.Limit
	Burst int

	Debug bool
}

// Validate checks that the configuration can be used to connect.
func (cfg *Config) Validate() error {
	if cfg.Addr == "" {
		return errors.New("address is required")
	}
	if cfg.Nick == "" {
		return errors.New("nickname is required")
	}
	return nil
}

// Defaults returns the configuration used for directives absent from the
// configuration file.
func Defaults() Config {
	return Config{
		TLS:             true,
		Nick:            "servercaps",
		User:            "servercaps",
		Real:            "servercaps",
		ISupportNumeric: irc.DefaultISupportNumeric,
		ReadyNumeric:    irc.DefaultReadyNumeric,
		Timeout:         30 * time.Second,
		Rate:            2,
		Burst:           5,
	}
}

func ParseConfig(buf []byte) (cfg Config, err error) {
	block, err := scfg.Read(bytes.NewReader(buf))
	if err != nil {
		return cfg, errors.Wrap(err, "parsing configuration")
	}
	return unmarshal(block)
}

func LoadConfigFile(filename string) (cfg Config, err error) {
	buf, err := os.ReadFile(filename)
	if err != nil {
		return cfg, errors.Wrap(err, "reading configuration")
	}
	return ParseConfig(buf)
}

func unmarshal(block scfg.Block) (cfg Config, err error) {
	cfg = Defaults()

	for _, d := range block {
		switch d.Name {
		case "address":
			err = stringParam(d, &cfg.Addr)
		case "tls":
			var s string
			if err = stringParam(d, &s); err == nil {
				cfg.TLS, err = strconv.ParseBool(s)
			}
		case "nickname":
			err = stringParam(d, &cfg.Nick)
		case "username":
			err = stringParam(d, &cfg.User)
		case "realname":
			err = stringParam(d, &cfg.Real)
		case "password":
			err = stringParam(d, &cfg.Password)
		case "numerics":
			err = unmarshalNumerics(d.Children, &cfg)
		case "timeout":
			var s string
			if err = stringParam(d, &s); err == nil {
				cfg.Timeout, err = time.ParseDuration(s)
			}
		case "rate":
			cfg.Rate, cfg.Burst, err = parseRate(d.Params, cfg.Burst)
		case "debug":
			var s string
			if err = stringParam(d, &s); err == nil {
				cfg.Debug, err = strconv.ParseBool(s)
			}
		default:
			err = errors.Newf("unknown directive %q", d.Name)
		}
		if err != nil {
			return cfg, errors.Wrapf(err, "directive %q", d.Name)
		}
	}

	if !hasDirective(block, "username") {
		cfg.User = cfg.Nick
	}
	if !hasDirective(block, "realname") {
		cfg.Real = cfg.Nick
	}

	return cfg, nil
}

func hasDirective(block scfg.Block, name string) bool {
	for _, d := range block {
		if d.Name == name {
			return true
		}
	}
	return false
}

func unmarshalNumerics(block scfg.Block, cfg *Config) (err error) {
	for _, d := range block {
		var s string
		if err = stringParam(d, &s); err != nil {
			return err
		}
		switch d.Name {
		case "isupport":
			cfg.ISupportNumeric, err = irc.LookupNumeric(s)
		case "ready":
			cfg.ReadyNumeric, err = irc.LookupNumeric(s)
		default:
			err = errors.Newf("unknown directive %q", d.Name)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func stringParam(d *scfg.Directive, dst *string) error {
	if len(d.Params) != 1 {
		return errors.Newf("expected exactly one parameter, got %d", len(d.Params))
	}
	*dst = d.Params[0]
	return nil
}

// parseRate parses "off", "<n>/s" or "<n>/s burst <m>".
func parseRate(params []string, burst int) (limit rate.Limit, _ int, err error) {
	if len(params) == 1 && params[0] == "off" {
		return rate.Inf, burst, nil
	}
	if len(params) != 1 && len(params) != 3 {
		return 0, 0, errors.New("expected \"<n>/s [burst <m>]\"")
	}

	n, err := strconv.ParseFloat(strings.TrimSuffix(params[0], "/s"), 64)
	if err != nil || n <= 0 {
		return 0, 0, errors.Newf("invalid rate %q", params[0])
	}
	limit = rate.Limit(n)

	if len(params) == 3 {
		if params[1] != "burst" {
			return 0, 0, errors.Newf("unexpected %q", params[1])
		}
		burst, err = strconv.Atoi(params[2])
		if err != nil || burst <= 0 {
			return 0, 0, errors.Newf("invalid burst %q", params[2])
		}
	}
	return limit, burst, nil
}
