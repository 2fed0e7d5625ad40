package http

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/khata-erp/khata-erp/internal/reports"
)

const (
	csvFlushEvery = 200
	csvBufferSize = 32 * 1024
)

type csvStreamer struct {
	buf          *bufio.Writer
	csv          *csv.Writer
	flushEvery   int
	pendingLines int
}

func newCSVStreamer(w io.Writer) *csvStreamer {
	buf := bufio.NewWriterSize(w, csvBufferSize)
	writer := csv.NewWriter(buf)
	writer.UseCRLF = true
	return &csvStreamer{buf: buf, csv: writer, flushEvery: csvFlushEvery}
}

func (s *csvStreamer) writeComment(line string) error {
	if s == nil || s.buf == nil {
		return fmt.Errorf("csv streamer not initialised")
	}
	if !strings.HasSuffix(line, "\r\n") {
		line = strings.TrimSuffix(line, "\n")
		line += "\r\n"
	}
	_, err := s.buf.WriteString(line)
	return err
}

func (s *csvStreamer) writeRow(row []string) error {
	if s == nil || s.csv == nil {
		return fmt.Errorf("csv streamer not initialised")
	}
	if err := s.csv.Write(row); err != nil {
		return err
	}
	s.pendingLines++
	if s.flushEvery > 0 && s.pendingLines >= s.flushEvery {
		return s.Flush()
	}
	return nil
}

func (s *csvStreamer) Flush() error {
	if s == nil || s.csv == nil || s.buf == nil {
		return fmt.Errorf("csv streamer not initialised")
	}
	s.csv.Flush()
	if err := s.csv.Error(); err != nil {
		return err
	}
	if err := s.buf.Flush(); err != nil {
		return err
	}
	s.pendingLines = 0
	return nil
}

func (s *csvStreamer) Close() error {
	return s.Flush()
}

// writeTrialBalanceCSV streams the trial balance with group subtotals and
// the column totals at the end.
func writeTrialBalanceCSV(w io.Writer, tb reports.TrialBalanceVM) error {
	streamer := newCSVStreamer(w)
	if err := streamer.writeComment("# Report: Trial Balance"); err != nil {
		return err
	}
	window := "As on " + tb.AsOnDate
	if tb.FromDate != "" {
		window = "From " + tb.FromDate + " to " + tb.AsOnDate
	}
	if err := streamer.writeComment("# " + window); err != nil {
		return err
	}
	if err := streamer.writeRow([]string{"Ledger Code", "Ledger Name", "Group", "Debit", "Credit"}); err != nil {
		return err
	}
	for _, grp := range tb.Groups {
		for _, row := range tb.TrialBalance {
			if row.GroupCode != grp.GroupCode {
				continue
			}
			if err := streamer.writeRow([]string{
				row.LedgerCode,
				row.LedgerName,
				row.GroupName,
				formatDecimal(row.Debit),
				formatDecimal(row.Credit),
			}); err != nil {
				return err
			}
		}
		if err := streamer.writeRow([]string{
			"",
			"Subtotal",
			grp.GroupName,
			formatDecimal(grp.Debit),
			formatDecimal(grp.Credit),
		}); err != nil {
			return err
		}
	}
	if err := streamer.writeRow([]string{"", "", "", "", ""}); err != nil {
		return err
	}
	totalsRows := [][]string{
		{"Totals", "", "Debit", formatDecimal(tb.Totals.TotalDebit), ""},
		{"Totals", "", "Credit", "", formatDecimal(tb.Totals.TotalCredit)},
		{"Totals", "", "Difference", formatDecimal(tb.Totals.Difference), ""},
	}
	for _, row := range totalsRows {
		if err := streamer.writeRow(row); err != nil {
			return err
		}
	}
	return streamer.Close()
}

func formatDecimal(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
