package servercaps

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	"git.sr.ht/~taiite/servercaps/irc"
	"git.sr.ht/~taiite/servercaps/ui"
)

// Row is one answer of the query engine.
type Row struct {
	Section string
	Label   string
	Value   string
	Err     error
}

// Report is the answer to every query about a server's capabilities.
type Report struct {
	Rows []Row
}

type reportBuilder struct {
	section string
	rows    []Row
}

func (b *reportBuilder) add(label, value string, err error) {
	if err != nil {
		value = err.Error()
	}
	b.rows = append(b.rows, Row{Section: b.section, Label: label, Value: value, Err: err})
}

func (b *reportBuilder) addBool(label string, v bool) {
	b.add(label, strconv.FormatBool(v), nil)
}

func (b *reportBuilder) addInt(label string, n int) {
	if n < 0 {
		b.add(label, "unlimited", nil)
	} else {
		b.add(label, strconv.Itoa(n), nil)
	}
}

func (b *reportBuilder) addIntErr(label string, n int, err error) {
	if err != nil {
		b.add(label, "", err)
		return
	}
	b.addInt(label, n)
}

// NewReport evaluates all queries on c.
func NewReport(c *irc.Capabilities) *Report {
	var b reportBuilder

	b.section = "Network"
	network, err := c.NetworkName()
	b.add("name", network, err)
	charset, err := c.Charset()
	b.add("charset", charset, err)
	b.add("casemapping", c.CaseMapping(), nil)
	b.addBool("rfc2812", c.SupportsStandard("rfc2812"))
	b.addBool("ready", c.Ready())

	b.section = "Features"
	b.addBool("extended names", c.HasExtendedNames())
	b.addBool("userhost names", c.HasUserHostNames())
	b.addBool("extra penalty", c.HasExtraPenalty())
	b.addBool("forced nick change", c.HasForcedNickChange())
	b.addBool("hybrid connect notice", c.HasHybridConnectNotice())
	b.addBool("safe list", c.HasSafeList())
	b.addBool("secure list", c.HasSecureList())
	b.addBool("starttls", c.HasStartTLS())
	var elist []string
	for _, ext := range []string{irc.ElistMask, irc.ElistNegMask, irc.ElistUsers, irc.ElistCreation, irc.ElistTopic} {
		if c.HasListExtension(ext) {
			elist = append(elist, ext)
		}
	}
	b.add("list extensions", strings.Join(elist, ""), nil)
	var statusmsg []string
	for _, status := range []string{"~", "&", "@", "%", "+"} {
		if ok, _ := c.HasStatusMsg(status); ok {
			statusmsg = append(statusmsg, status)
		}
	}
	b.add("status messages", strings.Join(statusmsg, ""), nil)

	b.section = "Limits"
	for _, text := range []irc.TextType{irc.TextNickname, irc.TextChanName, irc.TextTopic, irc.TextKick, irc.TextAway} {
		n, err := c.MaxTextLen(text)
		b.addIntErr(text.String()+" length", n, err)
	}
	b.addInt("parameters", c.MaxParams())
	b.addInt("variable modes", c.MaxVariableModes())
	for _, cmd := range []string{"PRIVMSG", "NOTICE", "JOIN", "KICK", "WHOIS"} {
		b.addInt(strings.ToLower(cmd)+" targets", c.MaxTargets(cmd))
	}
	for _, prefix := range c.ChanTypes() {
		n, err := c.ChanLimit(string(prefix))
		b.addIntErr(fmt.Sprintf("%c channels", prefix), n, err)
	}

	b.section = "Lists"
	for _, list := range []irc.ListType{irc.ListBans, irc.ListExcepts, irc.ListInvites, irc.ListSilences, irc.ListWatches} {
		size, ok, err := c.MaxListSize(list)
		switch {
		case err != nil:
			b.add(list.String()+" size", "", err)
		case ok:
			b.addInt(list.String()+" size", size)
		default:
			b.add(list.String()+" size", "unknown", nil)
		}
	}
	for _, list := range []irc.ListType{irc.ListBans, irc.ListExcepts, irc.ListInvites} {
		mode, err := c.ChanListMode(list)
		b.add(list.String()+" mode", mode, err)
	}

	b.section = "Modes"
	if modes, _, ok := c.Prefix(); ok {
		for i := 0; i < len(modes); i++ {
			mode := modes[i : i+1]
			prefix, err := c.ChanPrefixForMode(mode)
			b.add("+"+mode+" prefix", prefix, err)
		}
	} else {
		b.add("prefixes", "", errors.New("malformed PREFIX"))
	}
	if v, ok := c.Value("CHANMODES"); ok {
		byType := map[irc.ModeType][]string{}
		modes := irc.FormatValue(v)
		for i := 0; i < len(modes); i++ {
			mode := modes[i : i+1]
			if t, err := c.QualifyChannelMode(mode); err == nil {
				byType[t] = append(byType[t], mode)
			}
		}
		for t := irc.ModeTypeA; t <= irc.ModeTypeD; t++ {
			b.add("type "+t.String(), strings.Join(byType[t], ""), nil)
		}
	}
	extbanPrefix, err := c.ExtendedBanPrefix()
	b.add("extban prefix", extbanPrefix, err)
	extbanModes, err := c.ExtendedBanModes()
	b.add("extban modes", extbanModes, err)

	b.section = "SSL"
	ssl, err := c.SSL()
	if err != nil {
		b.add("endpoints", "", err)
	} else {
		addrs := make([]string, 0, len(ssl))
		for addr := range ssl {
			addrs = append(addrs, addr)
		}
		sort.Strings(addrs)
		for _, addr := range addrs {
			b.addInt(addr, ssl[addr])
		}
		if len(addrs) == 0 {
			b.add("endpoints", "none listed", nil)
		}
	}

	b.section = "Raw"
	for _, name := range c.Names() {
		v, _ := c.Value(name)
		b.add(name, irc.FormatValue(v), nil)
	}

	return &Report{Rows: b.rows}
}

// Get returns the row with the given section and label.
func (r *Report) Get(section, label string) (row Row, ok bool) {
	for _, row := range r.Rows {
		if row.Section == section && row.Label == label {
			return row, true
		}
	}
	return
}

// Table lays out the report for the terminal.
func (r *Report) Table(width int, colored bool) *ui.Table {
	t := ui.NewTable(width, colored)
	section := ""
	for _, row := range r.Rows {
		if row.Section != section {
			section = row.Section
			t.Section(section)
		}
		t.Row(row.Label, row.Value, row.Err != nil)
	}
	return t
}
