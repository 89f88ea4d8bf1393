package irc

import (
	"sort"
	"strconv"
	"strings"
)

// ListType identifies a server-side list of masks or nicknames.
type ListType int

const (
	ListBans ListType = iota
	ListSilences
	ListExcepts
	ListInvites
	ListWatches
)

func (l ListType) String() string {
	switch l {
	case ListBans:
		return "bans"
	case ListSilences:
		return "silences"
	case ListExcepts:
		return "excepts"
	case ListInvites:
		return "invites"
	case ListWatches:
		return "watches"
	}
	return "list(" + strconv.Itoa(int(l)) + ")"
}

// TextType identifies a length-limited piece of text.
type TextType int

const (
	TextChanName TextType = iota
	TextNickname
	TextTopic
	TextKick
	TextAway
)

func (t TextType) String() string {
	switch t {
	case TextChanName:
		return "channel name"
	case TextNickname:
		return "nickname"
	case TextTopic:
		return "topic"
	case TextKick:
		return "kick"
	case TextAway:
		return "away"
	}
	return "text(" + strconv.Itoa(int(t)) + ")"
}

// ModeType is the class of a channel mode, as given by CHANMODES.
type ModeType int

const (
	ModeTypeA ModeType = iota // adds or removes an address to a list, always has a parameter.
	ModeTypeB                 // changes a setting, always has a parameter.
	ModeTypeC                 // changes a setting, has a parameter only when set.
	ModeTypeD                 // changes a setting, never has a parameter.
)

func (m ModeType) String() string {
	if ModeTypeA <= m && m <= ModeTypeD {
		return string(rune('A' + m))
	}
	return "mode(" + strconv.Itoa(int(m)) + ")"
}

// ELIST extensions.
const (
	ElistMask     = "M"
	ElistNegMask  = "N"
	ElistUsers    = "U"
	ElistCreation = "C"
	ElistTopic    = "T"
)

const (
	defaultChanTypes   = "#&+!"
	defaultPrefix      = "(ov)@+"
	defaultCaseMapping = "rfc1459"
	maxChannelLen      = 50
)

// Commands that RFC2812 servers have even when CMDS does not say so.
var rfc2812Commands = []string{
	"AWAY",
	"REHASH",
	"DIE",
	"RESTART",
	"SUMMON",
	"USERS",
	"WALLOPS",
	"USERHOST",
	"ISON",
}

// number parses a non-negative decimal integer made of digits only.
func number(s string) (n int, ok bool) {
	if s == "" {
		return
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || '9' < s[i] {
			return
		}
	}
	n, err := strconv.Atoi(s)
	ok = err == nil
	return
}

func (c *Capabilities) number(name string) (n int, ok bool) {
	s, ok := c.scalar(name)
	if !ok {
		return
	}
	return number(s)
}

// HasListExtension reports whether LIST supports the given ELIST extension,
// which must be a single letter such as ElistMask.
func (c *Capabilities) HasListExtension(extension string) bool {
	elist, ok := c.scalar("ELIST")
	if !ok || len(extension) != 1 {
		return false
	}
	return strings.Contains(elist, extension)
}

// HasExtendedNames reports whether NAMES can list all prefixes of a member.
func (c *Capabilities) HasExtendedNames() bool {
	return c.has("NAMESX")
}

// HasUserHostNames reports whether NAMES can list full user masks.
func (c *Capabilities) HasUserHostNames() bool {
	return c.has("UHNAMES")
}

// HasExtraPenalty reports whether the server applies extra flood penalties
// on some commands.
func (c *Capabilities) HasExtraPenalty() bool {
	return c.has("PENALTY")
}

// HasForcedNickChange reports whether the server may change our nickname
// without us asking.
func (c *Capabilities) HasForcedNickChange() bool {
	return c.has("FNC")
}

func (c *Capabilities) HasHybridConnectNotice() bool {
	return c.has("HCN")
}

func (c *Capabilities) HasSafeList() bool {
	return c.has("SAFELIST")
}

func (c *Capabilities) HasSecureList() bool {
	return c.has("SECURELIST")
}

func (c *Capabilities) HasStartTLS() bool {
	return c.has("STARTTLS")
}

// HasCommand reports whether the server supports the given command.
func (c *Capabilities) HasCommand(name string) bool {
	name = strings.ToUpper(name)
	if name == "" {
		return false
	}

	if c.SupportsStandard("RFC2812") {
		for _, cmd := range rfc2812Commands {
			if cmd == name {
				return true
			}
		}
	}

	if c.has(name) {
		return true
	}

	switch cmds := c.supported["CMDS"].(type) {
	case List:
		for _, cmd := range cmds {
			if strings.EqualFold(cmd, name) {
				return true
			}
		}
	case Scalar:
		return strings.EqualFold(string(cmds), name)
	}
	return false
}

// HasStatusMsg reports whether messages can be sent to the members of a
// channel that have the given status prefix, e.g. "@".
func (c *Capabilities) HasStatusMsg(status string) (bool, error) {
	if len(status) != 1 {
		return false, invalidArgument("invalid status %q", status)
	}

	if statusmsg, ok := c.scalar("STATUSMSG"); ok && strings.Contains(statusmsg, status) {
		return true, nil
	}
	if status == "+" && c.has("WALLVOICES") {
		return true, nil
	}
	if status == "@" && c.has("WALLCHOPS") {
		return true, nil
	}
	return false, nil
}

// ChanTypes returns the characters that start channel names.
func (c *Capabilities) ChanTypes() string {
	if chantypes, ok := c.scalar("CHANTYPES"); ok {
		return chantypes
	}
	if chanlimit, ok := c.keyed("CHANLIMIT"); ok && len(chanlimit) != 0 {
		var sb strings.Builder
		for _, prefixes := range sortedKeys(chanlimit) {
			sb.WriteString(prefixes)
		}
		return sb.String()
	}
	return defaultChanTypes
}

// IsChannel reports whether name is a valid channel name on this server.
func (c *Capabilities) IsChannel(name string) bool {
	if name == "" || maxChannelLen < len(name) {
		return false
	}
	if strings.ContainsAny(name, " ,\x07:") {
		return false
	}
	return strings.IndexByte(c.ChanTypes(), name[0]) >= 0
}

// MaxListSize returns how many entries the given list can hold.  ok is false
// when the server does not say.
func (c *Capabilities) MaxListSize(list ListType) (size int, ok bool, err error) {
	switch list {
	case ListBans, ListExcepts, ListInvites:
		if mode, modeErr := c.ChanListMode(list); modeErr == nil {
			if maxlist, found := c.keyed("MAXLIST"); found {
				if size, ok = number(maxlist[mode]); ok {
					return size, ok, nil
				}
			}
		}
		if list == ListBans {
			size, ok = c.number("MAXBANS")
		}
	case ListSilences:
		size, ok = c.number("SILENCE")
	case ListWatches:
		size, ok = c.number("WATCH")
	default:
		err = invalidArgument("invalid list type %d", int(list))
	}
	return
}

// ChanLimit returns how many channels starting with the same prefix as
// channel can be joined at once, or -1 if there is no known limit.
func (c *Capabilities) ChanLimit(channel string) (int, error) {
	if !c.IsChannel(channel) {
		return 0, invalidArgument("invalid channel prefix %q", channel)
	}
	prefix := channel[:1]

	if chanlimit, ok := c.keyed("CHANLIMIT"); ok {
		for _, prefixes := range sortedKeys(chanlimit) {
			if !strings.Contains(prefixes, prefix) {
				continue
			}
			limit := chanlimit[prefixes]
			if limit == "" {
				return -1, nil
			}
			if n, ok := number(limit); ok {
				return n, nil
			}
		}
	}

	if n, ok := c.number("MAXCHANNELS"); ok {
		return n, nil
	}
	return -1, nil
}

// MaxTextLen returns the maximum length of the given kind of text, or -1 if
// there is no known limit.
func (c *Capabilities) MaxTextLen(text TextType) (int, error) {
	var name string
	fallback := -1

	switch text {
	case TextAway:
		name = "AWAYLEN"
	case TextChanName:
		name = "CHANNELLEN"
		fallback = 200
	case TextKick:
		name = "KICKLEN"
	case TextNickname:
		name = "NICKLEN"
		fallback = 9
	case TextTopic:
		name = "TOPICLEN"
	default:
		return 0, invalidArgument("invalid text type %d", int(text))
	}

	if n, ok := c.number(name); ok {
		return n, nil
	}
	return fallback, nil
}

// CaseMapping returns the lowercased name of the casemapping used by the
// server for nicknames and channel names.
func (c *Capabilities) CaseMapping() string {
	if casemapping, ok := c.scalar("CASEMAPPING"); ok {
		return strings.ToLower(casemapping)
	}
	return defaultCaseMapping
}

func (c *Capabilities) Charset() (string, error) {
	if charset, ok := c.scalar("CHARSET"); ok {
		return charset, nil
	}
	return "", notFound("no charset specified")
}

func (c *Capabilities) NetworkName() (string, error) {
	if network, ok := c.scalar("NETWORK"); ok {
		return network, nil
	}
	return "", notFound("no network declared")
}

// ChanListMode returns the channel mode letter used to manage the given
// list.  Only ListBans, ListExcepts and ListInvites are channel lists.
func (c *Capabilities) ChanListMode(list ListType) (string, error) {
	var name, fallback string

	switch list {
	case ListBans:
		return "b", nil
	case ListExcepts:
		name, fallback = "EXCEPTS", "e"
	case ListInvites:
		name, fallback = "INVEX", "I"
	default:
		return "", invalidArgument("invalid channel list %s", list)
	}

	switch v := c.supported[name].(type) {
	case nil:
		return "", notFound("%s are not available on this server", list)
	case Present:
		return fallback, nil
	case Scalar:
		return string(v), nil
	}
	return "", invalidValue("%s is not a mode letter", name)
}

// Prefix returns the channel privilege modes and their prefixes, as
// advertised by PREFIX, e.g. "ov" and "@+".  ok is false if PREFIX is
// malformed.
func (c *Capabilities) Prefix() (modes, symbols string, ok bool) {
	prefix := defaultPrefix
	if v, found := c.supported["PREFIX"]; found {
		s, isScalar := v.(Scalar)
		if !isScalar {
			return
		}
		prefix = string(s)
	}
	return parsePrefix(prefix)
}

// parsePrefix splits a PREFIX value of the form "(modes)symbols".
func parsePrefix(prefix string) (modes, symbols string, ok bool) {
	if !strings.HasPrefix(prefix, "(") {
		return
	}
	end := strings.IndexByte(prefix, ')')
	if end < 2 {
		return
	}
	return prefix[1:end], prefix[end+1:], true
}

// IsChannelPrivilege reports whether mode gives a status to a channel member,
// like "o" or "v".
func (c *Capabilities) IsChannelPrivilege(mode string) (bool, error) {
	if len(mode) != 1 {
		return false, invalidArgument("invalid mode %q", mode)
	}
	modes, _, ok := c.Prefix()
	if !ok {
		return false, nil
	}
	return strings.Contains(modes, mode), nil
}

// ChanPrefixForMode returns the prefix shown in front of members that have
// the given channel privilege mode, e.g. "@" for "o".
func (c *Capabilities) ChanPrefixForMode(mode string) (string, error) {
	if len(mode) != 1 {
		return "", invalidArgument("invalid mode %q", mode)
	}
	if modes, symbols, ok := c.Prefix(); ok {
		i := strings.Index(modes, mode)
		if 0 <= i && i < len(symbols) {
			return symbols[i : i+1], nil
		}
	}
	return "", notFound("no such mode %q", mode)
}

// ChanModeForPrefix is the reverse of ChanPrefixForMode.
func (c *Capabilities) ChanModeForPrefix(prefix string) (string, error) {
	if len(prefix) != 1 {
		return "", invalidArgument("invalid prefix %q", prefix)
	}
	if modes, symbols, ok := c.Prefix(); ok {
		i := strings.Index(symbols, prefix)
		if 0 <= i && i < len(modes) {
			return modes[i : i+1], nil
		}
	}
	return "", notFound("no such prefix %q", prefix)
}

// QualifyChannelMode returns the type of the given channel mode.
func (c *Capabilities) QualifyChannelMode(mode string) (ModeType, error) {
	if len(mode) != 1 {
		return 0, invalidArgument("invalid mode %q", mode)
	}
	chanmodes, ok := c.list("CHANMODES")
	if !ok {
		return 0, notFound("no such mode %q", mode)
	}
	for i, modes := range chanmodes {
		t := ModeType(i)
		if ModeTypeD < t {
			break
		}
		if strings.Contains(modes, mode) {
			return t, nil
		}
	}
	return 0, notFound("no such mode %q", mode)
}

// MaxTargets returns how many targets the given command accepts, or -1 if
// there is no known limit.
func (c *Capabilities) MaxTargets(command string) int {
	command = strings.ToUpper(command)
	if targmax, ok := c.keyed("TARGMAX"); ok {
		if limit, found := targmax[command]; found {
			if n, ok := number(limit); ok {
				return n
			}
			return -1
		}
	}
	if n, ok := c.number("MAXTARGETS"); ok {
		return n
	}
	return -1
}

// MaxVariableModes returns how many modes with a parameter can be set in a
// single MODE command, or -1 if there is no limit.
func (c *Capabilities) MaxVariableModes() int {
	switch v := c.supported["MODES"].(type) {
	case Present:
		return -1
	case Scalar:
		if n, ok := number(string(v)); ok {
			return n
		}
	}
	return 3
}

// MaxParams returns how many parameters a command can have.
func (c *Capabilities) MaxParams() int {
	if n, ok := c.number("MAXPARA"); ok {
		return n
	}
	return 12
}

// SSL returns the addresses and ports the server listens to with TLS.
func (c *Capabilities) SSL() (map[string]int, error) {
	var endpoints Keyed

	switch v := c.supported["SSL"].(type) {
	case nil:
		return nil, notFound("no SSL information available")
	case Present:
		return map[string]int{}, nil
	case Scalar:
		kv := strings.SplitN(string(v), ":", 3)
		if len(kv) < 2 {
			return nil, invalidValue("not a valid port in %q", string(v))
		}
		endpoints = Keyed{kv[0]: kv[1]}
	case Keyed:
		endpoints = v
	default:
		return nil, invalidValue("invalid SSL data received")
	}

	res := make(map[string]int, len(endpoints))
	for addr, p := range endpoints {
		port, ok := number(p)
		if !ok || port <= 0 || 65535 < port {
			return nil, invalidValue("not a valid port %q for %q", p, addr)
		}
		res[addr] = port
	}
	return res, nil
}

// IDLength returns the length of the ID of safe channels with the given
// prefix.
func (c *Capabilities) IDLength(prefix string) (int, error) {
	if len(prefix) != 1 {
		return 0, invalidArgument("invalid prefix %q", prefix)
	}
	if idchan, ok := c.keyed("IDCHAN"); ok {
		if n, ok := number(idchan[prefix]); ok {
			return n, nil
		}
	}
	if n, ok := c.number("CHIDLEN"); ok {
		return n, nil
	}
	return 0, notFound("safe channels are not available on this server")
}

// SupportsStandard reports, case-insensitively, whether the server follows
// the given standard, such as "rfc2812".
func (c *Capabilities) SupportsStandard(standard string) bool {
	var standards []string
	switch v := c.supported["STD"].(type) {
	case Scalar:
		standards = []string{string(v)}
	case List:
		standards = v
	}
	for _, std := range standards {
		if strings.EqualFold(std, standard) {
			return true
		}
	}
	return strings.EqualFold(standard, "rfc2812") && c.has("RFC2812")
}

func (c *Capabilities) extban() (List, error) {
	extban, ok := c.list("EXTBAN")
	if !ok || len(extban) < 2 {
		return nil, notFound("extended bans are not supported on this server")
	}
	return extban, nil
}

// ExtendedBanPrefix returns the character that starts extended ban masks.
func (c *Capabilities) ExtendedBanPrefix() (string, error) {
	extban, err := c.extban()
	if err != nil {
		return "", err
	}
	if len(extban[0]) != 1 {
		return "", notFound("extended bans are not supported on this server")
	}
	return extban[0], nil
}

// ExtendedBanModes returns the extended ban types, as a string of letters.
func (c *Capabilities) ExtendedBanModes() (string, error) {
	extban, err := c.extban()
	if err != nil {
		return "", err
	}
	return extban[1], nil
}

// ExtendedBanModeList is like ExtendedBanModes but returns one entry per
// letter.
func (c *Capabilities) ExtendedBanModeList() ([]string, error) {
	modes, err := c.ExtendedBanModes()
	if err != nil {
		return nil, err
	}
	list := make([]string, 0, len(modes))
	for i := 0; i < len(modes); i++ {
		list = append(list, modes[i:i+1])
	}
	return list, nil
}

func sortedKeys(k Keyed) []string {
	keys := make([]string, 0, len(k))
	for key := range k {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
