package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

const (
	ellipsis = "…"
	gutter   = "  "
)

type row struct {
	heading bool
	label   string
	value   string
	failed  bool
}

// Table writes labelled values in two aligned columns, grouped in sections.
type Table struct {
	width int // 0 means unlimited.
	rows  []row

	heading *color.Color
	failure *color.Color
}

// NewTable returns an empty table.  Values are cut to fit width cells per
// line, unless width is 0.
func NewTable(width int, colored bool) *Table {
	t := &Table{
		width:   width,
		heading: color.New(color.Bold, color.Underline),
		failure: color.New(color.FgRed),
	}
	if colored {
		t.heading.EnableColor()
		t.failure.EnableColor()
	} else {
		t.heading.DisableColor()
		t.failure.DisableColor()
	}
	return t
}

func (t *Table) Section(title string) {
	t.rows = append(t.rows, row{heading: true, label: title})
}

// Row adds a line.  failed values are shown in red.
func (t *Table) Row(label, value string, failed bool) {
	t.rows = append(t.rows, row{label: label, value: value, failed: failed})
}

func (t *Table) labelWidth() (w int) {
	for _, r := range t.rows {
		if r.heading {
			continue
		}
		if lw := StringWidth(Strip(r.label)); w < lw {
			w = lw
		}
	}
	return
}

func (t *Table) WriteTo(w io.Writer) (n int64, err error) {
	lw := t.labelWidth()
	vw := 0
	if t.width != 0 {
		vw = t.width - lw - len(gutter)
		if vw < 1 {
			vw = 1
		}
	}

	var sb strings.Builder
	for i, r := range t.rows {
		if r.heading {
			if i != 0 {
				sb.WriteByte('\n')
			}
			sb.WriteString(t.heading.Sprint(Strip(r.label)))
			sb.WriteByte('\n')
			continue
		}

		label := Strip(r.label)
		sb.WriteString(label)
		sb.WriteString(strings.Repeat(" ", lw-StringWidth(label)))
		sb.WriteString(gutter)

		value := Strip(r.value)
		if vw != 0 {
			value = Truncate(value, vw, ellipsis)
		}
		if r.failed {
			value = t.failure.Sprint(value)
		}
		sb.WriteString(value)
		sb.WriteByte('\n')
	}

	written, err := fmt.Fprint(w, sb.String())
	return int64(written), err
}
