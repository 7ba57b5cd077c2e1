package sqlite

import (
	"context"
	"database/sql"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/distill"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ distill.SnapshotService = (*SnapshotService)(nil)

// SnapshotService implements distill.SnapshotService using SQLite.
type SnapshotService struct {
	db *DB
}

// NewSnapshotService creates a new SnapshotService.
func NewSnapshotService(db *DB) *SnapshotService {
	return &SnapshotService{db: db}
}

// hashContent computes xxHash of content and returns a hex string.
func hashContent(content string) string {
	h := xxhash.Sum64String(content)
	b := make([]byte, 8)
	for i := 0; i < 8; i++ {
		b[i] = byte(h >> (56 - 8*i))
	}
	return hex.EncodeToString(b)
}

// CreateSnapshot stores a new snapshot, assigning ID, hash and time.
func (s *SnapshotService) CreateSnapshot(ctx context.Context, snap *distill.StoredSnapshot) error {
	if err := snap.Validate(); err != nil {
		return err
	}

	snap.ID = uuid.New().String()
	snap.FetchedAt = time.Now().UTC()
	snap.ContentHash = hashContent(snap.HTML)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO snapshots (id, url, title, html, content_hash, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, snap.ID, snap.URL, snap.Title, snap.HTML, snap.ContentHash,
		snap.FetchedAt.Format(time.RFC3339))

	return err
}

// FindSnapshotByID retrieves a snapshot by ID.
func (s *SnapshotService) FindSnapshotByID(ctx context.Context, id string) (*distill.StoredSnapshot, error) {
	var snap distill.StoredSnapshot
	var fetchedAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT id, url, title, html, content_hash, fetched_at
		FROM snapshots
		WHERE id = ?
	`, id).Scan(&snap.ID, &snap.URL, &snap.Title, &snap.HTML, &snap.ContentHash, &fetchedAt)

	if err == sql.ErrNoRows {
		return nil, distill.Errorf(distill.ENOTFOUND, "snapshot not found")
	}
	if err != nil {
		return nil, err
	}

	snap.FetchedAt, err = parseRFC3339(fetchedAt, "fetched_at")
	if err != nil {
		return nil, err
	}

	return &snap, nil
}

// FindSnapshots retrieves snapshots matching the filter, newest first.
func (s *SnapshotService) FindSnapshots(ctx context.Context, filter distill.SnapshotFilter) ([]*distill.StoredSnapshot, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, url, title, html, content_hash, fetched_at FROM snapshots WHERE 1=1")

	if filter.URL != nil {
		query.WriteString(" AND url = ?")
		args = append(args, *filter.URL)
	}

	query.WriteString(" ORDER BY fetched_at DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snaps []*distill.StoredSnapshot
	for rows.Next() {
		var snap distill.StoredSnapshot
		var fetchedAt string
		if err := rows.Scan(&snap.ID, &snap.URL, &snap.Title, &snap.HTML, &snap.ContentHash, &fetchedAt); err != nil {
			return nil, err
		}
		snap.FetchedAt, err = parseRFC3339(fetchedAt, "fetched_at")
		if err != nil {
			return nil, err
		}
		snaps = append(snaps, &snap)
	}

	return snaps, rows.Err()
}

// DeleteSnapshot permanently removes a snapshot.
func (s *SnapshotService) DeleteSnapshot(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM snapshots WHERE id = ?`, id)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return distill.Errorf(distill.ENOTFOUND, "snapshot not found")
	}
	return nil
}

// parseRFC3339 parses an RFC3339 timestamp with a field name for errors.
func parseRFC3339(value, fieldName string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse %s: %w", fieldName, err)
	}
	return t, nil
}

// appendPagination appends LIMIT and OFFSET clauses if values are > 0.
func appendPagination(query *strings.Builder, args *[]any, limit, offset int) {
	if limit > 0 {
		query.WriteString(" LIMIT ?")
		*args = append(*args, limit)
	}
	if offset > 0 {
		query.WriteString(" OFFSET ?")
		*args = append(*args, offset)
	}
}
