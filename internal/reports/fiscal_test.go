package reports

import (
	"testing"
	"time"
)

func TestFiscalYearStart(t *testing.T) {
	cases := []struct {
		asOn time.Time
		want time.Time
	}{
		{date(2025, time.April, 1), date(2025, time.April, 1)},
		{date(2025, time.December, 31), date(2025, time.April, 1)},
		{date(2026, time.January, 15), date(2025, time.April, 1)},
		{date(2026, time.March, 31), date(2025, time.April, 1)},
	}
	for _, tc := range cases {
		if got := FiscalYearStart(tc.asOn); !got.Equal(tc.want) {
			t.Fatalf("as on %s: expected %s got %s", tc.asOn, tc.want, got)
		}
	}
}
