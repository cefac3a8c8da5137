// Package schemamigrationsrepo reports which shipped migrations a database
// has applied.
package schemamigrationsrepo

import (
	"context"
	"fmt"
	"sort"

	"github.com/jrazmi/flowdesk/sdk/logger"
)

type Storer interface {
	// List returns every recorded migration. A database that has never been
	// migrated yields an empty list.
	List(ctx context.Context) ([]SchemaMigration, error)
}

type Repository struct {
	log    *logger.Logger
	storer Storer
}

func NewRepository(log *logger.Logger, storer Storer) *Repository {
	return &Repository{
		log:    log,
		storer: storer,
	}
}

// Status compares files against the recorded migrations. Recorded versions
// with no matching file are reported as orphaned. Results are sorted by
// version.
func (r *Repository) Status(ctx context.Context, files []Migration) ([]Status, error) {
	applied, err := r.storer.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list applied migrations: %w", err)
	}

	byVersion := make(map[string]SchemaMigration, len(applied))
	for _, m := range applied {
		byVersion[m.Version] = m
	}

	out := make([]Status, 0, len(files)+len(applied))
	for _, f := range files {
		rec, ok := byVersion[f.Version]
		if !ok {
			out = append(out, Status{Version: f.Version, State: StatePending})
			continue
		}
		delete(byVersion, f.Version)

		at := rec.AppliedAt
		state := StateApplied
		if rec.Checksum != f.Checksum {
			state = StateModified
		}
		out = append(out, Status{Version: f.Version, State: state, AppliedAt: &at})
	}

	for _, rec := range byVersion {
		at := rec.AppliedAt
		out = append(out, Status{Version: rec.Version, State: StateOrphaned, AppliedAt: &at})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out, nil
}

// Pending counts the files not yet applied.
func Pending(statuses []Status) int {
	n := 0
	for _, s := range statuses {
		if s.State == StatePending {
			n++
		}
	}
	return n
}
