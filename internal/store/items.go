package store

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/roach88/filterql/internal/queryir"
	"github.com/roach88/filterql/internal/querysql"
	"github.com/roach88/filterql/internal/schema"
)

// Item is one row of an item table, keyed by attribute name.
// Missing attributes are stored as NULL.
type Item struct {
	ID     int64
	Values map[string]any
}

// CreateItems creates an item table with an INTEGER PRIMARY KEY id column
// and one column per attribute. It fails if the table already exists.
func (s *Store) CreateItems(ctx context.Context, table string, attrs []schema.Attribute) error {
	cols := make([]string, 0, len(attrs)+1)
	cols = append(cols, `"id" INTEGER PRIMARY KEY`)
	for _, a := range attrs {
		if a.Name == "id" {
			return fmt.Errorf("create items %s: attribute name %q is reserved", table, a.Name)
		}
		cols = append(cols, quoteIdent(a.Name)+" "+columnType(a.Type))
	}

	stmt := fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdent(table), strings.Join(cols, ", "))
	if _, err := s.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("create items %s: %w", table, err)
	}
	return nil
}

func columnType(t schema.ValueType) string {
	switch t {
	case schema.TypeInt:
		return "INTEGER"
	case schema.TypeBool:
		return "BOOLEAN"
	default:
		return "TEXT"
	}
}

// InsertItems writes items to table in one transaction, checking every
// value against the attribute resolver. Nothing is written on error.
func (s *Store) InsertItems(ctx context.Context, table string, resolver schema.Resolver, items []Item) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("insert items: %w", err)
	}
	defer tx.Rollback()

	for i, item := range items {
		names := make([]string, 0, len(item.Values))
		for name := range item.Values {
			names = append(names, name)
		}
		sort.Strings(names)

		cols := []string{`"id"`}
		marks := []string{"?"}
		args := []any{item.ID}
		for _, name := range names {
			attr, err := resolver.Resolve(name)
			if err != nil {
				return fmt.Errorf("insert items: item %d: %w", i, err)
			}
			v, err := itemValue(attr, item.Values[name])
			if err != nil {
				return fmt.Errorf("insert items: item %d: %w", i, err)
			}
			cols = append(cols, quoteIdent(attr.Name))
			marks = append(marks, "?")
			args = append(args, v)
		}

		stmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
			quoteIdent(table), strings.Join(cols, ", "), strings.Join(marks, ", "))
		if _, err := tx.ExecContext(ctx, stmt, args...); err != nil {
			return fmt.Errorf("insert items: item %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("insert items: %w", err)
	}
	return nil
}

// itemValue converts a decoded value (YAML or JSON scalars) to a SQL
// parameter of the attribute's type. nil stays NULL.
func itemValue(attr schema.Attribute, v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	switch attr.Type {
	case schema.TypeString:
		if s, ok := v.(string); ok {
			return s, nil
		}
	case schema.TypeInt:
		if n, ok := ItemID(v); ok {
			return n, nil
		}
	case schema.TypeBool:
		if b, ok := v.(bool); ok {
			return b, nil
		}
	}
	return nil, fmt.Errorf("attribute %q wants %s, got %T", attr.Name, attr.Type, v)
}

// ItemID converts a decoded integer of any width to int64.
func ItemID(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int64:
		return n, true
	case int32:
		return int64(n), true
	case uint64:
		if n > 1<<63-1 {
			return 0, false
		}
		return int64(n), true
	default:
		return 0, false
	}
}

// SelectIDs returns the ids of the items in table matching q.
// Results are in id order; returns an empty slice (not nil)
// when nothing matches.
func (s *Store) SelectIDs(ctx context.Context, table string, q queryir.Query) ([]int64, error) {
	query, params, err := querysql.NewSQLCompiler().Select(table, []string{"id"}, q)
	if err != nil {
		return nil, fmt.Errorf("select ids: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("select ids: %w", err)
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ids: %w", err)
	}
	return ids, nil
}
