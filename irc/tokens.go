package irc

import (
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

func word(s string) (w, rest string) {
	split := strings.SplitN(s, " ", 2)

	if len(split) < 2 {
		w = split[0]
		rest = ""
	} else {
		w = split[0]
		rest = split[1]
	}

	return
}

func tagEscape(c rune) (escape rune) {
	switch c {
	case ':':
		escape = ';'
	case 's':
		escape = ' '
	case 'r':
		escape = '\r'
	case 'n':
		escape = '\n'
	default:
		escape = c
	}

	return
}

func unescapeTagValue(escaped string) string {
	var builder strings.Builder
	builder.Grow(len(escaped))
	escape := false

	for _, c := range escaped {
		if c == '\\' && !escape {
			escape = true
			continue
		}
		if escape {
			c = tagEscape(c)
		}
		builder.WriteRune(c)
		escape = false
	}

	return builder.String()
}

func parseTags(s string) (tags map[string]string) {
	s = s[1:]
	tags = map[string]string{}

	for _, item := range strings.Split(s, ";") {
		if item == "" || item == "=" || item == "+" || item == "+=" {
			continue
		}

		kv := strings.SplitN(item, "=", 2)
		if len(kv) < 2 {
			tags[kv[0]] = ""
		} else {
			tags[kv[0]] = unescapeTagValue(kv[1])
		}
	}

	return
}

var (
	errEmptyMessage      = errors.New("empty message")
	errIncompleteMessage = errors.New("message is incomplete")
	errNotEnoughParams   = errors.New("not enough params")
)

// Message is an IRC line.
type Message struct {
	Tags    map[string]string
	Prefix  string
	Command string
	Params  []string

	trailing bool // whether the last param was given with a leading ":".
}

func NewMessage(command string, params ...string) Message {
	return Message{Command: command, Params: params}
}

// Tokenize parses an IRC line, without its CRLF.
func Tokenize(line string) (msg Message, err error) {
	line = strings.TrimLeft(line, " ")
	if line == "" {
		err = errEmptyMessage
		return
	}

	if line[0] == '@' {
		var tags string

		tags, line = word(line)
		msg.Tags = parseTags(tags)
	}

	line = strings.TrimLeft(line, " ")
	if line == "" {
		err = errIncompleteMessage
		return
	}

	if line[0] == ':' {
		var prefix string

		prefix, line = word(line)
		msg.Prefix = prefix[1:]
	}

	line = strings.TrimLeft(line, " ")
	if line == "" {
		err = errIncompleteMessage
		return
	}

	msg.Command, line = word(line)
	msg.Command = strings.ToUpper(msg.Command)

	msg.Params = make([]string, 0, 15)
	for line != "" {
		if line[0] == ':' {
			msg.Params = append(msg.Params, line[1:])
			msg.trailing = true
			break
		}

		var param string
		param, line = word(line)
		msg.Params = append(msg.Params, param)
	}

	return
}

// Validate checks that the commands the Session reads have enough params.
func (msg *Message) Validate() (err error) {
	switch msg.Command {
	case rplWelcome, "PING", "ERROR":
		if len(msg.Params) < 1 {
			err = errNotEnoughParams
		}
	case rplIsupport, errNicknameinuse:
		if len(msg.Params) < 2 {
			err = errNotEnoughParams
		}
	}
	if err != nil {
		err = errors.Wrapf(err, "%s", msg.Command)
	}
	return
}

// IsReply reports whether the message is a numeric reply.
func (msg *Message) IsReply() bool {
	if len(msg.Command) != 3 {
		return false
	}
	for _, r := range msg.Command {
		if !('0' <= r && r <= '9') {
			return false
		}
	}
	return true
}

// Code returns the numeric of a reply, or -1 if msg is not a reply.
func (msg *Message) Code() int {
	if !msg.IsReply() {
		return -1
	}
	code, _ := strconv.Atoi(msg.Command)
	return code
}

// Text returns the params after the target, as they appeared on the line.
// The last param is prefixed with ":" if it was sent as a trailing param.
func (msg *Message) Text() string {
	if len(msg.Params) < 2 {
		return ""
	}
	params := msg.Params[1:]
	if !msg.trailing {
		return strings.Join(params, " ")
	}
	last := len(params) - 1
	if last == 0 {
		return ":" + params[last]
	}
	return strings.Join(params[:last], " ") + " :" + params[last]
}

// String formats the message for the wire, without CRLF.
func (msg *Message) String() string {
	var sb strings.Builder

	if msg.Prefix != "" {
		sb.WriteRune(':')
		sb.WriteString(msg.Prefix)
		sb.WriteRune(' ')
	}
	sb.WriteString(msg.Command)

	if len(msg.Params) != 0 {
		for _, p := range msg.Params[:len(msg.Params)-1] {
			sb.WriteRune(' ')
			sb.WriteString(p)
		}
		last := msg.Params[len(msg.Params)-1]
		sb.WriteRune(' ')
		if last == "" || strings.ContainsRune(last, ' ') || last[0] == ':' {
			sb.WriteRune(':')
		}
		sb.WriteString(last)
	}

	return sb.String()
}
