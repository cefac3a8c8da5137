package schemamigrationsrepo

import "time"

// SchemaMigration is one applied migration as recorded in schema_migrations.
type SchemaMigration struct {
	Version   string    `db:"version" json:"version"`
	Checksum  string    `db:"checksum" json:"checksum"`
	AppliedAt time.Time `db:"applied_at" json:"applied_at"`
}

// Migration is a migration file shipped with the binary.
type Migration struct {
	Version  string
	Checksum string
}

// State of a migration file relative to the database.
type State string

const (
	StatePending  State = "pending"
	StateApplied  State = "applied"
	StateModified State = "modified"
	StateOrphaned State = "orphaned"
)

// Status pairs a version with its state. AppliedAt is nil for pending files.
type Status struct {
	Version   string     `json:"version"`
	State     State      `json:"state"`
	AppliedAt *time.Time `json:"applied_at,omitempty"`
}
