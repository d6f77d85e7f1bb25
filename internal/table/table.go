// Package table builds the chat table: normalized records plus the calendar
// columns every aggregation groups by.
package table

import (
	"sort"
	"time"

	"github.com/strrl/chatpulse/internal/parser"
)

// Overall is the pseudo-participant selecting the whole conversation.
const Overall = "Overall"

// HourBlockLayout formats hour blocks. Lexical order equals time order.
const HourBlockLayout = "2006-01-02 15:00"

// Row is a record with its derived calendar columns.
type Row struct {
	parser.Record

	Year      int
	MonthName string
	MonthNum  int
	Day       int
	Hour      int
	Minute    int
	DayName   string
	OnlyDate  time.Time
	HourBlock string
}

// Table is the ordered chat table. Row order is the order of appearance in
// the export; out-of-order timestamps are kept as they are.
type Table struct {
	rows []Row
}

// Build derives the calendar columns for every record. An empty input
// yields an empty table.
func Build(records []parser.Record) *Table {
	rows := make([]Row, 0, len(records))
	for _, rec := range records {
		rows = append(rows, NewRow(rec))
	}
	return &Table{rows: rows}
}

// NewRow derives the calendar columns of one record.
func NewRow(rec parser.Record) Row {
	ts := rec.Timestamp
	return Row{
		Record:    rec,
		Year:      ts.Year(),
		MonthName: ts.Month().String(),
		MonthNum:  int(ts.Month()),
		Day:       ts.Day(),
		Hour:      ts.Hour(),
		Minute:    ts.Minute(),
		DayName:   ts.Weekday().String(),
		OnlyDate:  time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, ts.Location()),
		HourBlock: ts.Format(HourBlockLayout),
	}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Empty reports whether the table has no rows.
func (t *Table) Empty() bool {
	return len(t.rows) == 0
}

// Rows returns the rows in table order. Callers must not modify the slice.
func (t *Table) Rows() []Row {
	return t.rows[:len(t.rows):len(t.rows)]
}

// Senders returns the distinct senders, sorted, including the group
// notification sentinel when present.
func (t *Table) Senders() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, r := range t.rows {
		if _, ok := seen[r.Sender]; ok {
			continue
		}
		seen[r.Sender] = struct{}{}
		out = append(out, r.Sender)
	}
	sort.Strings(out)
	return out
}

// Participants returns the selector choices: Overall first, then every
// human sender in alphabetical order.
func (t *Table) Participants() []string {
	out := []string{Overall}
	for _, s := range t.Senders() {
		if s == parser.GroupNotification {
			continue
		}
		out = append(out, s)
	}
	return out
}

// Filter returns the rows sent by participant, or every row for Overall.
// The group notification sentinel is a valid participant.
func (t *Table) Filter(participant string) View {
	if participant == Overall {
		return View{Participant: Overall, rows: t.Rows()}
	}

	var rows []Row
	for _, r := range t.rows {
		if r.Sender == participant {
			rows = append(rows, r)
		}
	}
	return View{Participant: participant, rows: rows}
}

// View is a read-only subset of a Table.
type View struct {
	Participant string
	rows        []Row
}

// NewView wraps rows as an Overall view. Intended for tests and callers that
// assemble rows by hand.
func NewView(rows []Row) View {
	return View{Participant: Overall, rows: rows}
}

// Len returns the number of rows in the view.
func (v View) Len() int {
	return len(v.rows)
}

// Rows returns the rows in table order. Callers must not modify the slice.
func (v View) Rows() []Row {
	return v.rows[:len(v.rows):len(v.rows)]
}
