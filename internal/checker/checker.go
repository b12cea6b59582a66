// Package checker runs one sync check: it fetches both revisions, advances
// the persisted record and writes it back when it changed.
package checker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nixstatus/nixstatus/internal/syncstate"
)

// ChannelSource returns the latest revision published on a channel.
type ChannelSource interface {
	Revision(ctx context.Context, channel string) (string, error)
}

// SystemSource returns the revision of the running system.
type SystemSource interface {
	Revision(ctx context.Context) (string, error)
}

// StateStore loads and saves the sync record. Load never fails; missing or
// unreadable state is reported as synced.
type StateStore interface {
	Load() syncstate.Record
	Save(rec syncstate.Record) error
}

// Result describes the outcome of a check.
type Result struct {
	Record   syncstate.Record
	Previous syncstate.Record
	Remote   string
	Local    string
	// Changed is set when Record differs from Previous and was written.
	Changed bool
}

type Checker struct {
	channel ChannelSource
	system  SystemSource
	store   StateStore
}

func New(channel ChannelSource, system SystemSource, store StateStore) *Checker {
	return &Checker{
		channel: channel,
		system:  system,
		store:   store,
	}
}

// Check compares the channel's latest revision with the system's and updates
// the stored record. Nothing is read from or written to the store unless both
// revisions were obtained.
func (c *Checker) Check(ctx context.Context, channelName string) (*Result, error) {
	remote, err := c.channel.Revision(ctx, channelName)
	if err != nil {
		return nil, fmt.Errorf("getting latest channel version: %w", err)
	}
	slog.Debug("channel revision", "channel", channelName, "revision", remote)

	local, err := c.system.Revision(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting current system version: %w", err)
	}
	slog.Debug("system revision", "revision", local)

	prev := c.store.Load()
	next, changed := syncstate.Transition(prev, remote, local)

	if changed {
		if err := c.store.Save(next); err != nil {
			return nil, fmt.Errorf("saving sync state: %w", err)
		}
	}
	slog.Debug("check done", "from", prev.Status, "to", next.Status, "missed", next.Missed, "changed", changed)

	return &Result{
		Record:   next,
		Previous: prev,
		Remote:   remote,
		Local:    local,
		Changed:  changed,
	}, nil
}
