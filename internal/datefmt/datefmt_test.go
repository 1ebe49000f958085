package datefmt

import (
	"testing"
	"time"
)

func TestLayout(t *testing.T) {
	t.Parallel()

	cases := []struct {
		mask string
		want string
	}{
		{"", "02-Jan-2006 15:04:05"}, // default mask
		{"DD-MON-YYYY HH24:MI:SS", "02-Jan-2006 15:04:05"},
		{"YYYY-MM-DD", "2006-01-02"},
		{"YYYY/MM/DD HH12:MI AM", "2006/01/02 03:04 PM"},
		{"DY DD MONTH YYYY", "Mon 02 January 2006"},
		{"yyyy-mm-dd", "2006-01-02"}, // tokens are case-insensitive
		{"HH24MISS", "150405"},
		{"DD.MM.YY", "02.01.06"},
		// Unrecognized characters pass through verbatim.
		{"YYYY-MM-DDTHH24:MI:SS", "2006-01-02T15:04:05"},
	}
	for _, tc := range cases {
		if got := Layout(tc.mask); got != tc.want {
			t.Errorf("Layout(%q) = %q, want %q", tc.mask, got, tc.want)
		}
	}
}

func TestLayout_RendersKnownInstant(t *testing.T) {
	t.Parallel()

	ts := time.Date(2024, time.January, 5, 13, 7, 9, 0, time.UTC)

	cases := []struct {
		mask string
		want string
	}{
		{"YYYY-MM-DD", "2024-01-05"},
		{"DD-MON-YYYY HH24:MI:SS", "05-Jan-2024 13:07:09"},
		{"HH12:MI PM", "01:07 PM"},
	}
	for _, tc := range cases {
		if got := ts.Format(Layout(tc.mask)); got != tc.want {
			t.Errorf("format with mask %q = %q, want %q", tc.mask, got, tc.want)
		}
	}
}
