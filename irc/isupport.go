package irc

import (
	"strconv"
	"strings"
)

// Value is the value of an RPL_ISUPPORT token.  It is one of Present, Scalar,
// List or Keyed.  The same capability can take any of these shapes depending
// on the server, so callers must switch on the concrete type.
type Value interface {
	kind() string
}

// Present is the value of a token without "=" or with an empty value.
type Present struct{}

// Scalar is a value without list or key separators.
type Scalar string

// List is a value made of items separated by "," or ";".
type List []string

// Keyed is a value made of "key:value" items.
type Keyed map[string]string

func (Present) kind() string { return "present" }
func (Scalar) kind() string  { return "scalar" }
func (List) kind() string    { return "list" }
func (Keyed) kind() string   { return "keyed" }

// Token is one parsed RPL_ISUPPORT token.
type Token struct {
	Name   string // uppercased
	Value  Value
	Negate bool // the token was "-NAME"
}

// ParseToken parses a single RPL_ISUPPORT token, such as "NICKLEN=30",
// "MAXLIST=b:60,e:60" or "SAFELIST".
//
// It never fails: a malformed token degrades into a Present or Scalar value.
func ParseToken(token string) (t Token) {
	if strings.HasPrefix(token, "-") {
		t.Negate = true
		t.Name = strings.ToUpper(strings.SplitN(token[1:], "=", 2)[0])
		t.Value = Present{}
		return
	}

	kv := strings.SplitN(token, "=", 2)
	t.Name = strings.ToUpper(kv[0])
	if len(kv) < 2 || kv[1] == "" {
		t.Value = Present{}
		return
	}
	value := kv[1]

	// Servers use either "," or ";" to separate items.  Guess which one from
	// the position of the first ":" and ";".
	subs := strings.Split(value, ",")
	if len(subs) == 1 {
		trimmed := strings.Trim(subs[0], ";")
		colon := strings.IndexByte(subs[0], ':')
		semicolon := strings.IndexByte(trimmed, ';')
		if colon < 0 {
			subs = strings.Split(value, ";")
			if len(subs) == 1 {
				t.Value = Scalar(value)
				return
			}
		} else if semicolon >= 0 && semicolon > colon {
			subs = strings.Split(trimmed, ";")
		}
	}

	t.Value = itemsValue(subs)
	return
}

// itemsValue turns separated items into a List, or a Keyed value if any of
// them is a "key:value" pair.  In the latter case plain items are keyed by
// their index among plain items.
func itemsValue(subs []string) Value {
	var list List
	var keyed Keyed

	for _, sub := range subs {
		kv := strings.SplitN(sub, ":", 3)
		if len(kv) < 2 {
			list = append(list, sub)
			continue
		}
		if keyed == nil {
			keyed = Keyed{}
		}
		keyed[kv[0]] = kv[1]
	}

	if keyed == nil {
		return list
	}
	for i, item := range list {
		key := strconv.Itoa(i)
		if _, ok := keyed[key]; !ok {
			keyed[key] = item
		}
	}
	return keyed
}

// ParseTokens parses the tokens of an RPL_ISUPPORT text payload, stopping at
// the first token starting with ":" (the human readable trailer).  Empty
// tokens and the meaningless tokens "-", "=" and "-=" are skipped.
func ParseTokens(text string) (tokens []Token) {
	for _, f := range strings.Split(text, " ") {
		if strings.HasPrefix(f, ":") {
			break
		}
		if f == "" || f == "-" || f == "=" || f == "-=" {
			continue
		}
		tokens = append(tokens, ParseToken(f))
	}
	return
}

// FormatValue formats v back into RPL_ISUPPORT syntax.  Keyed items are
// sorted by key.
func FormatValue(v Value) string {
	switch v := v.(type) {
	case Scalar:
		return string(v)
	case List:
		return strings.Join(v, ",")
	case Keyed:
		keys := sortedKeys(v)
		items := make([]string, len(keys))
		for i, key := range keys {
			items[i] = key + ":" + v[key]
		}
		return strings.Join(items, ",")
	}
	return ""
}
