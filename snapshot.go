package distill

import (
	"context"
	"time"
)

// StoredSnapshot is a persisted page capture, kept for replay and
// debugging. Persistence is an opt-in sink driven by the caller; the
// core pipeline itself holds no state across requests.
type StoredSnapshot struct {
	ID          string    `json:"id"`
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	HTML        string    `json:"html"`
	ContentHash string    `json:"contentHash"`
	FetchedAt   time.Time `json:"fetchedAt"`
}

// Validate returns an error if the snapshot contains invalid fields.
func (s *StoredSnapshot) Validate() error {
	if s.URL == "" {
		return Errorf(EINVALID, "snapshot URL required")
	}
	return nil
}

// SnapshotFilter selects stored snapshots for FindSnapshots.
type SnapshotFilter struct {
	URL *string `json:"url"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// SnapshotService persists and retrieves page snapshots.
type SnapshotService interface {
	// CreateSnapshot stores a new snapshot, assigning its ID,
	// content hash and fetch time.
	CreateSnapshot(ctx context.Context, snap *StoredSnapshot) error

	// FindSnapshotByID retrieves a snapshot by ID.
	// Returns ENOTFOUND if it does not exist.
	FindSnapshotByID(ctx context.Context, id string) (*StoredSnapshot, error)

	// FindSnapshots retrieves snapshots matching the filter, newest first.
	FindSnapshots(ctx context.Context, filter SnapshotFilter) ([]*StoredSnapshot, error)

	// DeleteSnapshot permanently removes a snapshot.
	// Returns ENOTFOUND if it does not exist.
	DeleteSnapshot(ctx context.Context, id string) error
}
