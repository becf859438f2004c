package store

import (
	"context"
	"fmt"
)

// ParseRecord is one parse log entry. Exactly one of Query and Code is
// meaningful: Query and Fingerprint for accepted filters, Code for
// rejected ones.
type ParseRecord struct {
	// Seq is assigned by the store on write.
	Seq         int64
	ID          string
	Filter      string
	Query       string
	Fingerprint string
	Code        string
}

// WriteParse appends a parse record to the log.
// Uses ON CONFLICT(id) DO NOTHING for idempotency - rewriting a parse ID
// is silently ignored.
func (s *Store) WriteParse(ctx context.Context, rec ParseRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO parses (id, filter, query, fingerprint, code)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, rec.ID, rec.Filter, rec.Query, rec.Fingerprint, rec.Code)
	if err != nil {
		return fmt.Errorf("write parse: %w", err)
	}
	return nil
}

// ReadParses returns the parse log in write order.
// Returns an empty slice (not nil) if the log is empty.
func (s *Store) ReadParses(ctx context.Context) ([]ParseRecord, error) {
	return s.readParses(ctx, "", nil)
}

// ReadParsesByFingerprint returns every accepted parse whose tree has the
// given fingerprint, in write order.
func (s *Store) ReadParsesByFingerprint(ctx context.Context, fingerprint string) ([]ParseRecord, error) {
	return s.readParses(ctx, "WHERE fingerprint = ?", []any{fingerprint})
}

func (s *Store) readParses(ctx context.Context, where string, args []any) ([]ParseRecord, error) {
	// seq is unique; the id key only pins the collation.
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, id, filter, query, fingerprint, code
		FROM parses
		`+where+`
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("query parses: %w", err)
	}
	defer rows.Close()

	records := []ParseRecord{}
	for rows.Next() {
		var rec ParseRecord
		if err := rows.Scan(&rec.Seq, &rec.ID, &rec.Filter, &rec.Query, &rec.Fingerprint, &rec.Code); err != nil {
			return nil, fmt.Errorf("scan parse: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate parses: %w", err)
	}
	return records, nil
}
