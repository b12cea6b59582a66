// Package syncstate holds the missed-update record, the transition that
// advances it after each check and its on-disk encoding.
package syncstate

import (
	"fmt"
	"math"
)

// Status is the variant tag of a Record. The numeric values are part of the
// on-disk encoding.
type Status uint8

const (
	StatusSynced   Status = 0
	StatusUnsynced Status = 1
)

func (s Status) String() string {
	switch s {
	case StatusSynced:
		return "synced"
	case StatusUnsynced:
		return "unsynced"
	default:
		return fmt.Sprintf("status(%d)", uint8(s))
	}
}

// Record is the persisted sync state.
//
// A synced record carries no payload. An unsynced record carries the number
// of remote publications missed so far (always >= 1) and the remote revision
// seen when it was last written.
type Record struct {
	Status   Status
	Missed   uint32
	Revision string
}

// Synced returns the synced record. It is also the default when no prior
// state is available.
func Synced() Record {
	return Record{Status: StatusSynced}
}

// Unsynced returns an unsynced record with the given missed count and last
// seen remote revision.
func Unsynced(missed uint32, revision string) Record {
	return Record{Status: StatusUnsynced, Missed: missed, Revision: revision}
}

func (r Record) IsSynced() bool {
	return r.Status == StatusSynced
}

// Valid reports whether r is a constructible record.
func (r Record) Valid() bool {
	switch r.Status {
	case StatusSynced:
		return r.Missed == 0 && r.Revision == ""
	case StatusUnsynced:
		return r.Missed >= 1
	default:
		return false
	}
}

// String renders r with the default messages.
func (r Record) String() string {
	return DefaultMessages().Render(r)
}

// Transition computes the record that follows prev after observing the remote
// and local revisions. changed is false when the record stays as it was, in
// which case nothing needs to be written.
//
// The counter only advances when the remote revision moves while the system
// is still behind. Repeated checks against the same remote revision leave the
// record untouched. Catching up discards the counter.
func Transition(prev Record, remote, local string) (next Record, changed bool) {
	unsynced := remote != local

	switch {
	case prev.IsSynced() && unsynced:
		return Unsynced(1, remote), true
	case !prev.IsSynced() && unsynced && remote != prev.Revision:
		missed := prev.Missed
		if missed < math.MaxUint32 {
			missed++
		}
		return Unsynced(missed, remote), true
	case !prev.IsSynced() && !unsynced:
		return Synced(), true
	default:
		return prev, false
	}
}
