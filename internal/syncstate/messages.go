package syncstate

import (
	"strconv"
	"strings"
)

const (
	// CountMarker is replaced by the missed count in an unsynced template.
	CountMarker = "%"

	DefaultSyncedMessage   = "synced"
	DefaultUnsyncedMessage = "unsynced (" + CountMarker + ")"
)

// Messages controls how a Record is displayed. Neither field affects the
// record itself.
type Messages struct {
	// Synced is printed verbatim for a synced record.
	Synced string
	// Unsynced is a template; every CountMarker in it becomes the missed count.
	Unsynced string
}

func DefaultMessages() Messages {
	return Messages{
		Synced:   DefaultSyncedMessage,
		Unsynced: DefaultUnsyncedMessage,
	}
}

// Render returns the status line for r.
func (m Messages) Render(r Record) string {
	if r.IsSynced() {
		return m.Synced
	}
	return strings.ReplaceAll(m.Unsynced, CountMarker, strconv.FormatUint(uint64(r.Missed), 10))
}
