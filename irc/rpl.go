package irc

import (
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// IRC replies read by the Session.
const (
	rplWelcome       = "001" // :Welcome message
	rplIsupport      = "005" // 1*13<TOKEN[=value]> :are supported by this server
	rplLuserclient   = "251" // :<int> users and <int> services on <int> servers
	errNicknameinuse = "433" // <nick> :Nickname in use
)

// Numerics maps reply names to their numeric.
var Numerics = map[string]int{
	"RPL_WELCOME":  1,
	"RPL_YOURHOST": 2,
	"RPL_CREATED":  3,
	"RPL_MYINFO":   4,
	"RPL_ISUPPORT": 5,

	"RPL_UMODEIS":       221,
	"RPL_LUSERCLIENT":   251,
	"RPL_LUSEROP":       252,
	"RPL_LUSERUNKNOWN":  253,
	"RPL_LUSERCHANNELS": 254,
	"RPL_LUSERME":       255,
	"RPL_ADMINME":       256,
	"RPL_LOCALUSERS":    265,
	"RPL_GLOBALUSERS":   266,

	"RPL_MOTD":      372,
	"RPL_MOTDSTART": 375,
	"RPL_ENDOFMOTD": 376,

	"ERR_NOMOTD":         422,
	"ERR_NICKNAMEINUSE":  433,
	"ERR_NOTREGISTERED":  451,
	"ERR_PASSWDMISMATCH": 464,
}

// Defaults for CapabilitiesParams.
var (
	DefaultISupportNumeric = Numerics["RPL_ISUPPORT"]
	DefaultReadyNumeric    = Numerics["RPL_LUSERCLIENT"]
)

// LookupNumeric resolves a reply name such as "RPL_ISUPPORT" (case
// insensitive) or a decimal numeric such as "005".
func LookupNumeric(s string) (int, error) {
	if code, ok := Numerics[strings.ToUpper(s)]; ok {
		return code, nil
	}
	code, err := strconv.Atoi(s)
	if err != nil || code < 0 || 999 < code {
		return 0, errors.Newf("unknown numeric %q", s)
	}
	return code, nil
}
