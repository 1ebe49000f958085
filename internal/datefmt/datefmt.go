// Package datefmt translates Oracle-style date format masks (DD-MON-YYYY,
// HH24:MI:SS, ...) into Go time layouts.
//
// The mask is caller-trusted input: tokens the translator does not recognize
// are copied into the layout verbatim, exactly as legacy callers expect.
// Nothing here validates or sanitizes the mask.
package datefmt

import "strings"

// Default is the format mask applied when the caller supplies none.
const Default = "DD-MON-YYYY HH24:MI:SS"

// tokens are matched longest-first, case-insensitively; the first column is
// the mask token, the second the Go layout fragment it maps to.
var tokens = [][2]string{
	{"HH24", "15"},
	{"HH12", "03"},
	{"MONTH", "January"},
	{"MON", "Jan"},
	{"YYYY", "2006"},
	{"DAY", "Monday"},
	{"HH", "03"},
	{"MI", "04"},
	{"SS", "05"},
	{"YY", "06"},
	{"MM", "01"},
	{"DY", "Mon"},
	{"DD", "02"},
	{"AM", "PM"},
	{"PM", "PM"},
	{"TZ", "MST"},
}

// Layout converts an Oracle-style mask into a Go reference layout. An empty
// mask yields the layout for Default.
func Layout(mask string) string {
	if mask == "" {
		mask = Default
	}
	var b strings.Builder
	b.Grow(len(mask))
	for i := 0; i < len(mask); {
		matched := false
		for _, tok := range tokens {
			name := tok[0]
			if len(mask)-i < len(name) {
				continue
			}
			if strings.EqualFold(mask[i:i+len(name)], name) {
				b.WriteString(tok[1])
				i += len(name)
				matched = true
				break
			}
		}
		if !matched {
			b.WriteByte(mask[i])
			i++
		}
	}
	return b.String()
}
