// Package history keeps summaries of past audit runs in a pebble database.
package history

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cockroachdb/pebble"
	"github.com/segmentio/ksuid"

	"github.com/ssargent/pwaudit/pkg/audit"
)

var runPrefix = []byte("run:")

// ErrNotFound is returned when no run exists for an id
var ErrNotFound = errors.New("run not found")

// Store persists audit summaries keyed by their ksuid, so iteration order is
// creation order.
type Store struct {
	db *pebble.DB
}

// Open opens or creates the history database in dir
func Open(dir string) (*Store, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to open history at %s: %w", dir, err)
	}
	return &Store{db: db}, nil
}

func runKey(id ksuid.KSUID) []byte {
	key := make([]byte, 0, len(runPrefix)+len(ksuid.KSUID{}))
	key = append(key, runPrefix...)
	return append(key, id.Bytes()...)
}

// Save stores s under its run id
func (s *Store) Save(summary *audit.Summary) error {
	if summary.ID.IsNil() {
		return fmt.Errorf("summary has no run id")
	}
	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}
	return s.db.Set(runKey(summary.ID), data, pebble.Sync)
}

// Get loads the summary for id
func (s *Store) Get(id ksuid.KSUID) (*audit.Summary, error) {
	data, closer, err := s.db.Get(runKey(id))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	defer closer.Close()

	var summary audit.Summary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, fmt.Errorf("failed to decode run %s: %w", id, err)
	}
	return &summary, nil
}

// List returns up to limit summaries, newest first. A limit <= 0 returns all.
func (s *Store) List(limit int) ([]*audit.Summary, error) {
	upper := append([]byte{}, runPrefix...)
	upper[len(upper)-1]++

	iter, err := s.db.NewIter(&pebble.IterOptions{LowerBound: runPrefix, UpperBound: upper})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	summaries := []*audit.Summary{}
	for valid := iter.Last(); valid; valid = iter.Prev() {
		var summary audit.Summary
		if err := json.Unmarshal(iter.Value(), &summary); err != nil {
			return nil, fmt.Errorf("failed to decode run at key %x: %w", iter.Key(), err)
		}
		summaries = append(summaries, &summary)
		if limit > 0 && len(summaries) >= limit {
			break
		}
	}
	return summaries, iter.Error()
}

// Delete removes the run with id
func (s *Store) Delete(id ksuid.KSUID) error {
	return s.db.Delete(runKey(id), pebble.Sync)
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}
