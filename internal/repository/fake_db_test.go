package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	"skill-swap/internal/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type fakeCall struct {
	query string
	args  []any
}

// fakeDB answers queries by the first registered prefix match, recording
// every call so tests can assert on the SQL arguments.
type fakeDB struct {
	mu sync.Mutex

	calls    []fakeCall
	rows     map[string][][]any
	affected map[string]int64
}

func newFakeDB() *fakeDB {
	return &fakeDB{rows: map[string][][]any{}, affected: map[string]int64{}}
}

func (db *fakeDB) on(contains string, rows ...[]any) {
	db.rows[strings.ToLower(contains)] = rows
}

func (db *fakeDB) lookup(query string) ([][]any, bool) {
	q := strings.ToLower(query)
	for k, v := range db.rows {
		if strings.Contains(q, k) {
			return v, true
		}
	}
	return nil, false
}

func (db *fakeDB) record(query string, args []any) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.calls = append(db.calls, fakeCall{query: query, args: args})
}

func (db *fakeDB) lastCall() fakeCall {
	db.mu.Lock()
	defer db.mu.Unlock()
	if len(db.calls) == 0 {
		return fakeCall{}
	}
	return db.calls[len(db.calls)-1]
}

func (db *fakeDB) Ping(ctx context.Context) error { return nil }
func (db *fakeDB) Close() error                   { return nil }
func (db *fakeDB) SQLDB() *sql.DB                 { return nil }

func (db *fakeDB) Begin(ctx context.Context) (database.Tx, error) {
	return nil, fmt.Errorf("not implemented")
}

func (db *fakeDB) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	db.record(query, args)
	q := strings.ToLower(query)
	for k, v := range db.affected {
		if strings.Contains(q, k) {
			return v, nil
		}
	}
	return 1, nil
}

func (db *fakeDB) Query(ctx context.Context, query string, args ...any) (database.Rows, error) {
	db.record(query, args)
	rows, _ := db.lookup(query)
	return &fakeRows{vals: rows, idx: -1}, nil
}

func (db *fakeDB) QueryRow(ctx context.Context, query string, args ...any) database.Row {
	db.record(query, args)
	rows, ok := db.lookup(query)
	if !ok || len(rows) == 0 {
		return fakeRow{err: pgx.ErrNoRows}
	}
	return fakeRow{vals: rows[0]}
}

type fakeRows struct {
	vals [][]any
	idx  int
}

func (r *fakeRows) Close()     {}
func (r *fakeRows) Err() error { return nil }

func (r *fakeRows) Next() bool {
	r.idx++
	return r.idx < len(r.vals)
}

func (r *fakeRows) Scan(dest ...any) error {
	return scanValues(r.vals[r.idx], dest)
}

type fakeRow struct {
	vals []any
	err  error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	return scanValues(r.vals, dest)
}

func scanValues(vals []any, dest []any) error {
	if len(dest) != len(vals) {
		return fmt.Errorf("scan dest mismatch: %d != %d", len(dest), len(vals))
	}
	for i := range dest {
		switch d := dest[i].(type) {
		case *uuid.UUID:
			v, ok := vals[i].(uuid.UUID)
			if !ok {
				return fmt.Errorf("scan type mismatch uuid at %d", i)
			}
			*d = v
		case *string:
			v, ok := vals[i].(string)
			if !ok {
				return fmt.Errorf("scan type mismatch string at %d", i)
			}
			*d = v
		case **string:
			if vals[i] == nil {
				*d = nil
				continue
			}
			v, ok := vals[i].(string)
			if !ok {
				return fmt.Errorf("scan type mismatch *string at %d", i)
			}
			*d = &v
		case *[]string:
			if vals[i] == nil {
				*d = nil
				continue
			}
			v, ok := vals[i].([]string)
			if !ok {
				return fmt.Errorf("scan type mismatch []string at %d", i)
			}
			*d = v
		case *time.Time:
			v, ok := vals[i].(time.Time)
			if !ok {
				return fmt.Errorf("scan type mismatch time at %d", i)
			}
			*d = v
		default:
			return fmt.Errorf("unsupported scan type %T", dest[i])
		}
	}
	return nil
}
