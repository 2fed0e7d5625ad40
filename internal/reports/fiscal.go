package reports

import "time"

// FiscalYearStart returns April 1 of the fiscal year containing the date.
// Dates in January through March belong to the fiscal year that started the
// previous April.
func FiscalYearStart(asOn time.Time) time.Time {
	year := asOn.Year()
	if asOn.Month() < time.April {
		year--
	}
	return time.Date(year, time.April, 1, 0, 0, 0, 0, asOn.Location())
}
