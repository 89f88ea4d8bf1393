package irc

import (
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const hybridISupport = "CMDS=KNOCK,MAP,DCCALLOW,USERIP NAMESX SAFELIST HCN " +
	"MAXCHANNELS=20 CHANLIMIT=#:20 MAXLIST=b:60,e:60,I:60 " +
	"NICKLEN=30 CHANNELLEN=32 TOPICLEN=307 KICKLEN=307 " +
	"AWAYLEN=307 MAXTARGETS=20 :are supported by this server"

func TestHybridServer(t *testing.T) {
	c := newTestCapabilities(hybridISupport)

	assert.False(t, c.HasListExtension(ElistMask))
	assert.True(t, c.HasExtendedNames())
	assert.False(t, c.HasUserHostNames())
	assert.False(t, c.HasExtraPenalty())
	assert.False(t, c.HasForcedNickChange())
	assert.True(t, c.HasHybridConnectNotice())
	assert.True(t, c.HasSafeList())
	assert.False(t, c.HasSecureList())
	assert.False(t, c.HasStartTLS())

	for _, cmd := range []string{"knock", "map", "dccallow", "userip", "KNOCK"} {
		assert.True(t, c.HasCommand(cmd), cmd)
	}
	assert.False(t, c.HasCommand("inexistent"))

	for _, status := range []string{"@", "%", "+", "!", "~"} {
		ok, err := c.HasStatusMsg(status)
		require.NoError(t, err)
		assert.False(t, ok, status)
	}

	assert.True(t, c.IsChannel("#foo"))
	assert.False(t, c.IsChannel("&foo"))
	assert.False(t, c.IsChannel("!foo"))

	size, ok, err := c.MaxListSize(ListBans)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 60, size)

	_, ok, err = c.MaxListSize(ListSilences)
	require.NoError(t, err)
	assert.False(t, ok)

	limit, err := c.ChanLimit("#foo")
	require.NoError(t, err)
	assert.Equal(t, 20, limit)

	for text, expected := range map[TextType]int{
		TextNickname: 30,
		TextChanName: 32,
		TextTopic:    307,
		TextKick:     307,
		TextAway:     307,
	} {
		n, err := c.MaxTextLen(text)
		require.NoError(t, err)
		assert.Equal(t, expected, n, text.String())
	}

	assert.Equal(t, 20, c.MaxTargets("PRIVMSG"))
}

func TestEmptyDefaults(t *testing.T) {
	c := newTestCapabilities()

	assert.Equal(t, 12, c.MaxParams())
	assert.Equal(t, 3, c.MaxVariableModes())
	assert.Equal(t, -1, c.MaxTargets("PRIVMSG"))
	assert.Equal(t, "rfc1459", c.CaseMapping())
	assert.Equal(t, "#&+!", c.ChanTypes())

	for text, expected := range map[TextType]int{
		TextNickname: 9,
		TextChanName: 200,
		TextTopic:    -1,
		TextKick:     -1,
		TextAway:     -1,
	} {
		n, err := c.MaxTextLen(text)
		require.NoError(t, err)
		assert.Equal(t, expected, n, text.String())
	}

	_, err := c.SSL()
	assert.True(t, errors.Is(err, ErrNotFound))
	_, err = c.Charset()
	assert.True(t, errors.Is(err, ErrNotFound))
	_, err = c.NetworkName()
	assert.True(t, errors.Is(err, ErrNotFound))
	_, err = c.IDLength("!")
	assert.True(t, errors.Is(err, ErrNotFound))
	_, err = c.ExtendedBanPrefix()
	assert.True(t, errors.Is(err, ErrNotFound))
	_, err = c.ExtendedBanModes()
	assert.True(t, errors.Is(err, ErrNotFound))
	_, err = c.QualifyChannelMode("b")
	assert.True(t, errors.Is(err, ErrNotFound))
	_, err = c.ChanListMode(ListExcepts)
	assert.True(t, errors.Is(err, ErrNotFound))
	_, err = c.ChanListMode(ListInvites)
	assert.True(t, errors.Is(err, ErrNotFound))

	for _, list := range []ListType{ListBans, ListExcepts, ListInvites, ListSilences, ListWatches} {
		_, ok, err := c.MaxListSize(list)
		require.NoError(t, err)
		assert.False(t, ok, list.String())
	}

	limit, err := c.ChanLimit("#foo")
	require.NoError(t, err)
	assert.Equal(t, -1, limit)
}

func TestInvalidSelectors(t *testing.T) {
	c := newTestCapabilities(hybridISupport)

	_, _, err := c.MaxListSize(ListType(42))
	assert.True(t, errors.Is(err, ErrInvalidArgument))
	_, err = c.MaxTextLen(TextType(-1))
	assert.True(t, errors.Is(err, ErrInvalidArgument))
	_, err = c.ChanListMode(ListSilences)
	assert.True(t, errors.Is(err, ErrInvalidArgument))
	_, err = c.ChanListMode(ListWatches)
	assert.True(t, errors.Is(err, ErrInvalidArgument))

	for _, arg := range []string{"", "ov", "@+"} {
		_, err = c.HasStatusMsg(arg)
		assert.True(t, errors.Is(err, ErrInvalidArgument), arg)
		_, err = c.IsChannelPrivilege(arg)
		assert.True(t, errors.Is(err, ErrInvalidArgument), arg)
		_, err = c.ChanPrefixForMode(arg)
		assert.True(t, errors.Is(err, ErrInvalidArgument), arg)
		_, err = c.ChanModeForPrefix(arg)
		assert.True(t, errors.Is(err, ErrInvalidArgument), arg)
		_, err = c.QualifyChannelMode(arg)
		assert.True(t, errors.Is(err, ErrInvalidArgument), arg)
		_, err = c.IDLength(arg)
		assert.True(t, errors.Is(err, ErrInvalidArgument), arg)
	}
}

func TestHasListExtension(t *testing.T) {
	c := newTestCapabilities("ELIST=MNUCT :are supported")

	for _, ext := range []string{ElistMask, ElistNegMask, ElistUsers, ElistCreation, ElistTopic} {
		assert.True(t, c.HasListExtension(ext), ext)
	}
	assert.False(t, c.HasListExtension("X"))
	assert.False(t, c.HasListExtension("MN"))
	assert.False(t, c.HasListExtension(""))
}

func TestHasCommand(t *testing.T) {
	c := newTestCapabilities("KNOCK CMDS=USERIP :are supported")
	assert.True(t, c.HasCommand("knock"))
	assert.True(t, c.HasCommand("userip"))
	assert.False(t, c.HasCommand("wallops"))
	assert.False(t, c.HasCommand(""))

	c = newTestCapabilities("RFC2812 :are supported")
	for _, cmd := range rfc2812Commands {
		assert.True(t, c.HasCommand(strings.ToLower(cmd)), cmd)
	}
	assert.False(t, c.HasCommand("KNOCK"))

	c = newTestCapabilities("STD=rfc1459;RFC2812 :are supported")
	assert.True(t, c.HasCommand("ison"))
}

func TestHasStatusMsg(t *testing.T) {
	c := newTestCapabilities("STATUSMSG=@% WALLVOICES :are supported")

	for status, expected := range map[string]bool{"@": true, "%": true, "+": true, "~": false} {
		ok, err := c.HasStatusMsg(status)
		require.NoError(t, err)
		assert.Equal(t, expected, ok, status)
	}

	c = newTestCapabilities("WALLCHOPS :are supported")
	ok, err := c.HasStatusMsg("@")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestIsChannel(t *testing.T) {
	c := newTestCapabilities()
	for _, name := range []string{"#go", "&local", "+modeless", "!ABCDEsafe"} {
		assert.True(t, c.IsChannel(name), name)
	}
	for _, name := range []string{"", "go", "#a b", "#a,b", "#a\x07", "#a:b", "#" + strings.Repeat("a", 50)} {
		assert.False(t, c.IsChannel(name), name)
	}
	assert.True(t, c.IsChannel("#"+strings.Repeat("a", 49)))

	c = newTestCapabilities("CHANTYPES=#& CHANLIMIT=+:5 :are supported")
	assert.Equal(t, "#&", c.ChanTypes())

	c = newTestCapabilities("CHANLIMIT=#&:100,+:5 :are supported")
	assert.Equal(t, "#&+", c.ChanTypes())
	assert.False(t, c.IsChannel("!foo"))
}

func TestMaxListSize(t *testing.T) {
	c := newTestCapabilities("EXCEPTS INVEX=J MAXLIST=b:100,e:50,I:50 SILENCE=15 WATCH=128 :are supported")

	for list, expected := range map[ListType]int{
		ListBans:     100,
		ListExcepts:  50,
		ListInvites:  0, // mode J is not in MAXLIST
		ListSilences: 15,
		ListWatches:  128,
	} {
		size, ok, err := c.MaxListSize(list)
		require.NoError(t, err)
		if expected == 0 {
			assert.False(t, ok, list.String())
		} else {
			assert.True(t, ok, list.String())
			assert.Equal(t, expected, size, list.String())
		}
	}

	c = newTestCapabilities("MAXBANS=25 :are supported")
	size, ok, err := c.MaxListSize(ListBans)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 25, size)

	_, ok, err = c.MaxListSize(ListExcepts)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestChanLimit(t *testing.T) {
	c := newTestCapabilities("CHANTYPES=#&+ CHANLIMIT=#&:100,+: :are supported")

	for channel, expected := range map[string]int{"#a": 100, "&a": 100, "+a": -1} {
		limit, err := c.ChanLimit(channel)
		require.NoError(t, err)
		assert.Equal(t, expected, limit, channel)
	}

	for _, channel := range []string{"!a", "a", "", "#a b"} {
		_, err := c.ChanLimit(channel)
		assert.True(t, errors.Is(err, ErrInvalidArgument), channel)
	}

	c = newTestCapabilities("CHANTYPES=#& CHANLIMIT=#:20 MAXCHANNELS=10 :are supported")
	limit, err := c.ChanLimit("&a")
	require.NoError(t, err)
	assert.Equal(t, 10, limit)
}

func TestChanListMode(t *testing.T) {
	c := newTestCapabilities("EXCEPTS INVEX :are supported")
	for list, expected := range map[ListType]string{ListBans: "b", ListExcepts: "e", ListInvites: "I"} {
		mode, err := c.ChanListMode(list)
		require.NoError(t, err)
		assert.Equal(t, expected, mode, list.String())
	}

	c = newTestCapabilities("EXCEPTS=E INVEX=J :are supported")
	mode, err := c.ChanListMode(ListExcepts)
	require.NoError(t, err)
	assert.Equal(t, "E", mode)
	mode, err = c.ChanListMode(ListInvites)
	require.NoError(t, err)
	assert.Equal(t, "J", mode)

	c = newTestCapabilities("EXCEPTS=e,E :are supported")
	_, err = c.ChanListMode(ListExcepts)
	assert.True(t, errors.Is(err, ErrInvalidValue))
}

func TestPrefix(t *testing.T) {
	c := newTestCapabilities()

	for mode, expected := range map[string]bool{"o": true, "v": true, "h": false, "b": false} {
		ok, err := c.IsChannelPrivilege(mode)
		require.NoError(t, err)
		assert.Equal(t, expected, ok, mode)
	}

	prefix, err := c.ChanPrefixForMode("o")
	require.NoError(t, err)
	assert.Equal(t, "@", prefix)
	mode, err := c.ChanModeForPrefix("+")
	require.NoError(t, err)
	assert.Equal(t, "v", mode)

	c = newTestCapabilities("PREFIX=(qaohv)~&@%+ :are supported")
	modes, symbols, ok := c.Prefix()
	require.True(t, ok)
	for i := 0; i < len(modes); i++ {
		prefix, err := c.ChanPrefixForMode(modes[i : i+1])
		require.NoError(t, err)
		assert.Equal(t, symbols[i:i+1], prefix)

		mode, err := c.ChanModeForPrefix(symbols[i : i+1])
		require.NoError(t, err)
		assert.Equal(t, modes[i:i+1], mode)
	}
	for _, mode := range []string{"b", "x", "@", "(", ")"} {
		_, err := c.ChanPrefixForMode(mode)
		assert.True(t, errors.Is(err, ErrNotFound), mode)
	}
	_, err = c.ChanModeForPrefix("!")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestMalformedPrefix(t *testing.T) {
	for _, line := range []string{"PREFIX :are supported", "PREFIX=ov@+ :are supported", "PREFIX=()@+ :are supported"} {
		c := newTestCapabilities(line)

		ok, err := c.IsChannelPrivilege("o")
		require.NoError(t, err, line)
		assert.False(t, ok, line)

		_, err = c.ChanPrefixForMode("o")
		assert.True(t, errors.Is(err, ErrNotFound), line)
	}

	// More modes than prefixes.
	c := newTestCapabilities("PREFIX=(ohv)@+ :are supported")
	_, err := c.ChanPrefixForMode("v")
	assert.True(t, errors.Is(err, ErrNotFound))
	mode, err := c.ChanModeForPrefix("+")
	require.NoError(t, err)
	assert.Equal(t, "h", mode)
}

func TestQualifyChannelMode(t *testing.T) {
	c := newTestCapabilities("CHANMODES=beI,k,l,imnpst,XYZ :are supported")

	for mode, expected := range map[string]ModeType{
		"b": ModeTypeA,
		"I": ModeTypeA,
		"k": ModeTypeB,
		"l": ModeTypeC,
		"m": ModeTypeD,
		"t": ModeTypeD,
	} {
		typ, err := c.QualifyChannelMode(mode)
		require.NoError(t, err)
		assert.Equal(t, expected, typ, mode)
	}

	for _, mode := range []string{"X", "q"} {
		_, err := c.QualifyChannelMode(mode)
		assert.True(t, errors.Is(err, ErrNotFound), mode)
	}

	assert.Equal(t, "A", ModeTypeA.String())
	assert.Equal(t, "D", ModeTypeD.String())
}

func TestMaxTargets(t *testing.T) {
	c := newTestCapabilities("TARGMAX=PRIVMSG:4,NOTICE:,KICK:x MAXTARGETS=7 :are supported")

	assert.Equal(t, 4, c.MaxTargets("privmsg"))
	assert.Equal(t, -1, c.MaxTargets("NOTICE"))
	assert.Equal(t, -1, c.MaxTargets("KICK"))
	assert.Equal(t, 7, c.MaxTargets("WHOIS"))
}

func TestMaxVariableModes(t *testing.T) {
	assert.Equal(t, 6, newTestCapabilities("MODES=6 :are supported").MaxVariableModes())
	assert.Equal(t, -1, newTestCapabilities("MODES= :are supported").MaxVariableModes())
	assert.Equal(t, -1, newTestCapabilities("MODES :are supported").MaxVariableModes())
	assert.Equal(t, 3, newTestCapabilities("MODES=lots :are supported").MaxVariableModes())
}

func TestMaxParams(t *testing.T) {
	assert.Equal(t, 15, newTestCapabilities("MAXPARA=15 :are supported").MaxParams())
	assert.Equal(t, 12, newTestCapabilities("MAXPARA=-1 :are supported").MaxParams())
}

func TestNetworkAndCharset(t *testing.T) {
	c := newTestCapabilities("NETWORK=Libera.Chat CHARSET=utf-8 CASEMAPPING=ASCII :are supported")

	network, err := c.NetworkName()
	require.NoError(t, err)
	assert.Equal(t, "Libera.Chat", network)

	charset, err := c.Charset()
	require.NoError(t, err)
	assert.Equal(t, "utf-8", charset)

	assert.Equal(t, "ascii", c.CaseMapping())
}

func assertSSL(t *testing.T, line string, expected map[string]int) {
	t.Helper()
	ssl, err := newTestCapabilities(line).SSL()
	require.NoError(t, err, line)
	assert.Equal(t, expected, ssl, line)
}

func TestSSL(t *testing.T) {
	assertSSL(t, "SSL=", map[string]int{})
	assertSSL(t, "SSL", map[string]int{})
	assertSSL(t, "SSL=127.0.0.1:7002", map[string]int{"127.0.0.1": 7002})
	assertSSL(t, "SSL=1.2.3.4:6668;4.3.2.1:6669;*:6660;", map[string]int{
		"1.2.3.4": 6668,
		"4.3.2.1": 6669,
		"*":       6660,
	})
	assertSSL(t, "SSL=1.2.3.4:6697,*:6698", map[string]int{"1.2.3.4": 6697, "*": 6698})

	_, err := newTestCapabilities("").SSL()
	assert.True(t, errors.Is(err, ErrNotFound))

	for _, line := range []string{
		"SSL=1.2.3.4:0",
		"SSL=1.2.3.4:65536",
		"SSL=1.2.3.4:https",
		"SSL=1.2.3.4:",
		"SSL=1.2.3.4",
		"SSL=a,b",
	} {
		_, err := newTestCapabilities(line).SSL()
		assert.True(t, errors.Is(err, ErrInvalidValue), line)
	}
}

func TestIDLength(t *testing.T) {
	c := newTestCapabilities("IDCHAN=!:5 CHIDLEN=4 :are supported")
	n, err := c.IDLength("!")
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	n, err = c.IDLength("#")
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	c = newTestCapabilities("IDCHAN=!:5 :are supported")
	_, err = c.IDLength("#")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestSupportsStandard(t *testing.T) {
	c := newTestCapabilities("STD=i-d :are supported")
	assert.True(t, c.SupportsStandard("I-D"))
	assert.False(t, c.SupportsStandard("rfc2812"))

	c = newTestCapabilities("STD=rfc1459,rfc2812 :are supported")
	assert.True(t, c.SupportsStandard("RFC1459"))
	assert.True(t, c.SupportsStandard("rfc2812"))

	c = newTestCapabilities("RFC2812 :are supported")
	assert.True(t, c.SupportsStandard("Rfc2812"))
	assert.False(t, c.SupportsStandard("rfc1459"))
}

func TestExtendedBans(t *testing.T) {
	c := newTestCapabilities("EXTBAN=~,cqnr :are supported")

	prefix, err := c.ExtendedBanPrefix()
	require.NoError(t, err)
	assert.Equal(t, "~", prefix)

	modes, err := c.ExtendedBanModes()
	require.NoError(t, err)
	assert.Equal(t, "cqnr", modes)

	list, err := c.ExtendedBanModeList()
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "q", "n", "r"}, list)

	for _, line := range []string{"EXTBAN=~ :are supported", "EXTBAN :are supported", "EXTBAN=~~,a :are supported"} {
		c := newTestCapabilities(line)
		_, err := c.ExtendedBanPrefix()
		assert.True(t, errors.Is(err, ErrNotFound), line)
	}
}
