// Package dbtest provides an in-memory database.Querier for unit tests.
package dbtest

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type Call struct {
	SQL  string
	Args []any
}

// Querier records every statement and answers Query with QueryFunc.
type Querier struct {
	mu sync.Mutex

	Execs   []Call
	Queries []Call

	QueryFunc func(sql string, args []any) ([][]any, error)
	ExecErr   error
	PingErr   error
}

func (q *Querier) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.Execs = append(q.Execs, Call{SQL: sql, Args: args})
	if q.ExecErr != nil {
		return pgconn.CommandTag{}, q.ExecErr
	}
	return pgconn.NewCommandTag("OK"), nil
}

func (q *Querier) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	q.mu.Lock()
	q.Queries = append(q.Queries, Call{SQL: sql, Args: args})
	fn := q.QueryFunc
	q.mu.Unlock()

	if fn == nil {
		return &Rows{}, nil
	}
	data, err := fn(sql, args)
	if err != nil {
		return nil, err
	}
	return &Rows{Data: data}, nil
}

func (q *Querier) Ping(context.Context) error {
	return q.PingErr
}

func (q *Querier) ExecCalls() []Call {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]Call(nil), q.Execs...)
}

// Returning answers every query with the same rows.
func Returning(rows ...[]any) func(string, []any) ([][]any, error) {
	return func(string, []any) ([][]any, error) {
		return rows, nil
	}
}

// Rows is a pgx.Rows over literal values. Scan assigns each value to the
// matching destination by reflection, so values must have the dest type.
type Rows struct {
	Data [][]any
	pos  int
	err  error
}

func (r *Rows) Close() {}

func (r *Rows) Err() error { return r.err }

func (r *Rows) CommandTag() pgconn.CommandTag {
	return pgconn.NewCommandTag(fmt.Sprintf("SELECT %d", len(r.Data)))
}

func (r *Rows) FieldDescriptions() []pgconn.FieldDescription { return nil }

func (r *Rows) Next() bool {
	if r.err != nil || r.pos >= len(r.Data) {
		return false
	}
	r.pos++
	return true
}

func (r *Rows) Scan(dest ...any) error {
	row := r.Data[r.pos-1]
	if len(dest) != len(row) {
		return fmt.Errorf("dbtest: scan %d columns into %d destinations", len(row), len(dest))
	}
	for i, d := range dest {
		dv := reflect.ValueOf(d)
		if dv.Kind() != reflect.Pointer || dv.IsNil() {
			return fmt.Errorf("dbtest: destination %d is not a pointer", i)
		}
		if row[i] == nil {
			dv.Elem().SetZero()
			continue
		}
		sv := reflect.ValueOf(row[i])
		if !sv.Type().AssignableTo(dv.Elem().Type()) {
			return fmt.Errorf("dbtest: column %d: cannot assign %s to %s", i, sv.Type(), dv.Elem().Type())
		}
		dv.Elem().Set(sv)
	}
	return nil
}

func (r *Rows) Values() ([]any, error) {
	return r.Data[r.pos-1], nil
}

func (r *Rows) RawValues() [][]byte { return nil }

func (r *Rows) Conn() *pgx.Conn { return nil }
