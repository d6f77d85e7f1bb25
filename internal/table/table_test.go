package table

import (
	"reflect"
	"testing"
	"time"

	"github.com/strrl/chatpulse/internal/parser"
)

func rec(ts time.Time, sender, body string) parser.Record {
	return parser.Record{Timestamp: ts, Sender: sender, Body: body}
}

func TestBuild_DerivedColumns(t *testing.T) {
	ts := time.Date(2023, 12, 31, 22, 15, 0, 0, time.UTC)
	tbl := Build([]parser.Record{rec(ts, "Alice", "hi")})
	if tbl.Len() != 1 {
		t.Fatalf("expected 1 row")
	}
	r := tbl.Rows()[0]
	if r.Year != 2023 || r.MonthName != "December" || r.MonthNum != 12 || r.Day != 31 {
		t.Fatalf("date columns wrong: %+v", r)
	}
	if r.Hour != 22 || r.Minute != 15 || r.DayName != "Sunday" {
		t.Fatalf("time columns wrong: %+v", r)
	}
	if !r.OnlyDate.Equal(time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("OnlyDate = %v", r.OnlyDate)
	}
	if r.HourBlock != "2023-12-31 22:00" {
		t.Fatalf("HourBlock = %q", r.HourBlock)
	}
}

func TestBuild_HourBlockSameHourAndOrdering(t *testing.T) {
	a := NewRow(rec(time.Date(2024, 1, 9, 9, 1, 0, 0, time.UTC), "A", ""))
	b := NewRow(rec(time.Date(2024, 1, 9, 9, 59, 0, 0, time.UTC), "A", ""))
	c := NewRow(rec(time.Date(2024, 1, 9, 10, 0, 0, 0, time.UTC), "A", ""))
	d := NewRow(rec(time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), "A", ""))

	if a.HourBlock != b.HourBlock {
		t.Fatalf("same hour mapped to different blocks: %q %q", a.HourBlock, b.HourBlock)
	}
	if !(b.HourBlock < c.HourBlock && c.HourBlock < d.HourBlock) {
		t.Fatalf("hour blocks not increasing: %q %q %q", b.HourBlock, c.HourBlock, d.HourBlock)
	}
}

func TestBuild_EmptyAndOrderPreserved(t *testing.T) {
	if !Build(nil).Empty() {
		t.Fatalf("expected empty table")
	}

	later := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	earlier := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tbl := Build([]parser.Record{rec(later, "A", "1"), rec(earlier, "B", "2")})
	if tbl.Rows()[0].Body != "1" || tbl.Rows()[1].Body != "2" {
		t.Fatalf("rows were reordered")
	}
}

func TestParticipantsAndFilter(t *testing.T) {
	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tbl := Build([]parser.Record{
		rec(ts, "zoe", "a"),
		rec(ts, parser.GroupNotification, "joined"),
		rec(ts, "Bob", "b"),
		rec(ts, "zoe", "c"),
	})

	want := []string{Overall, "Bob", "zoe"}
	if got := tbl.Participants(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Participants = %v, want %v", got, want)
	}

	if v := tbl.Filter(Overall); v.Len() != 4 {
		t.Fatalf("Overall view has %d rows", v.Len())
	}
	if v := tbl.Filter("zoe"); v.Len() != 2 || v.Participant != "zoe" {
		t.Fatalf("zoe view = %d rows", v.Len())
	}
	if v := tbl.Filter(parser.GroupNotification); v.Len() != 1 {
		t.Fatalf("sentinel view = %d rows", v.Len())
	}
	if v := tbl.Filter("nobody"); v.Len() != 0 {
		t.Fatalf("unknown participant view = %d rows", v.Len())
	}
	if tbl.Len() != 4 {
		t.Fatalf("filter mutated the table")
	}
}
