package parser

import (
	"time"
)

// GroupNotification is the sender assigned to system lines that have no
// human author ("Alice added Bob", encryption notices, ...).
const GroupNotification = "group_notification"

// RawLine is one message as cut out of the export, before any of its
// strings are interpreted.
type RawLine struct {
	Date   string
	Time   string
	Sender string // empty for system notifications
	Body   string
}

// HasSender reports whether the line carried a "sender: " delimiter.
func (l RawLine) HasSender() bool {
	return l.Sender != ""
}

// Record is a normalized chat message.
type Record struct {
	Timestamp time.Time
	Sender    string
	Body      string

	IsMedia   bool
	IsDeleted bool
	// URLs holds every link occurrence in Body, in order. Duplicates are kept.
	URLs []string
}

// IsSystem reports whether the record is a group notification.
func (r Record) IsSystem() bool {
	return r.Sender == GroupNotification
}
