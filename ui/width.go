package ui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

var condition = runewidth.Condition{}

func isDigit(b byte) bool {
	return '0' <= b && b <= '9'
}

// Strip removes IRC formatting codes (bold, colors, ...) and other control
// characters from s.
func Strip(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))

	for i := 0; i < len(s); i++ {
		b := s[i]
		if b == 0x03 {
			// \x03[fg[,bg]], with fg and bg of one or two digits.
			j := i + 1
			for n := 0; n < 2 && j < len(s) && isDigit(s[j]); n++ {
				j++
			}
			if i+1 < j && j+1 < len(s) && s[j] == ',' && isDigit(s[j+1]) {
				j += 2
				if j < len(s) && isDigit(s[j]) {
					j++
				}
			}
			i = j - 1
			continue
		}
		if b < 0x20 || b == 0x7f {
			continue
		}
		sb.WriteByte(b)
	}

	return sb.String()
}

// StringWidth returns the number of cells s takes once formatting codes are
// removed.
func StringWidth(s string) int {
	return condition.StringWidth(Strip(s))
}

// Truncate strips s and cuts it so that it takes at most w cells, tail
// included.
func Truncate(s string, w int, tail string) string {
	return condition.Truncate(Strip(s), w, tail)
}
