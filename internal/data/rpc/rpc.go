// Package rpc calls the named Postgres procedures that own pointer, tracker and phase state.
//
// Every store call goes through Caller so that logging and failure conversion happen in one
// place. A call has three outcomes: rows (found), no rows (a nil value and nil error), or a
// *CallError describing a collaborator failure.
package rpc

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/hummingbird-backend/internal/platform/dbctx"
	"github.com/yungbote/hummingbird-backend/internal/platform/logger"
)

type Arg struct {
	Name  string
	Value any
}

// A is shorthand for building an Arg.
func A(name string, value any) Arg { return Arg{Name: name, Value: value} }

type CallError struct {
	Procedure string
	SQLState  string
	Err       error
}

func (e *CallError) Error() string {
	if e.SQLState != "" {
		return fmt.Sprintf("rpc %s failed (sqlstate %s): %v", e.Procedure, e.SQLState, e.Err)
	}
	return fmt.Sprintf("rpc %s failed: %v", e.Procedure, e.Err)
}

func (e *CallError) Unwrap() error { return e.Err }

var identRe = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

type Caller struct {
	db  *gorm.DB
	log *logger.Logger
}

func New(db *gorm.DB, log *logger.Logger) *Caller {
	return &Caller{db: db, log: log.With("component", "rpc")}
}

// Query runs a set-returning procedure and scans its rows into out, a pointer to a slice.
// It reports whether any row came back.
func (c *Caller) Query(dbc dbctx.Context, name string, out any, args ...Arg) (bool, error) {
	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Pointer || rv.Elem().Kind() != reflect.Slice {
		return false, &CallError{Procedure: name, Err: fmt.Errorf("out must be a pointer to a slice, got %T", out)}
	}
	sql, named, err := buildCall(name, args, true)
	if err != nil {
		return false, &CallError{Procedure: name, Err: err}
	}
	start := time.Now()
	c.log.Info("Executing RPC", "procedure", name, "payload", logPayload(args))
	if err := dbc.DB(c.db).Raw(sql, named).Scan(out).Error; err != nil {
		return false, c.fail(name, err, start)
	}
	n := rv.Elem().Len()
	c.log.Debug("RPC done", "procedure", name, "rows", n, "duration_ms", time.Since(start).Milliseconds())
	return n > 0, nil
}

// Exec runs a procedure for its side effect.
func (c *Caller) Exec(dbc dbctx.Context, name string, args ...Arg) error {
	sql, named, err := buildCall(name, args, false)
	if err != nil {
		return &CallError{Procedure: name, Err: err}
	}
	start := time.Now()
	c.log.Info("Executing RPC", "procedure", name, "payload", logPayload(args))
	if err := dbc.DB(c.db).Exec(sql, named).Error; err != nil {
		return c.fail(name, err, start)
	}
	c.log.Debug("RPC done", "procedure", name, "duration_ms", time.Since(start).Milliseconds())
	return nil
}

// First returns the first row of a set-returning procedure, or nil when it returned none.
func First[T any](c *Caller, dbc dbctx.Context, name string, args ...Arg) (*T, error) {
	var rows []T
	found, err := c.Query(dbc, name, &rows, args...)
	if err != nil || !found {
		return nil, err
	}
	return &rows[0], nil
}

func (c *Caller) fail(name string, err error, start time.Time) error {
	ce := &CallError{Procedure: name, Err: err}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		ce.SQLState = pgErr.Code
	}
	c.log.Error("RPC failed",
		"procedure", name,
		"sqlstate", ce.SQLState,
		"duration_ms", time.Since(start).Milliseconds(),
		"error", err,
	)
	return ce
}

// buildCall renders a named-notation call, e.g.
// SELECT * FROM get_pointer_status(p_student_id => @p_student_id, p_chapter_id => @p_chapter_id)
func buildCall(name string, args []Arg, set bool) (string, map[string]any, error) {
	if !identRe.MatchString(name) {
		return "", nil, fmt.Errorf("invalid procedure name %q", name)
	}
	named := make(map[string]any, len(args))
	parts := make([]string, 0, len(args))
	for _, a := range args {
		if !identRe.MatchString(a.Name) {
			return "", nil, fmt.Errorf("invalid argument name %q", a.Name)
		}
		if _, dup := named[a.Name]; dup {
			return "", nil, fmt.Errorf("duplicate argument %q", a.Name)
		}
		named[a.Name] = a.Value
		parts = append(parts, a.Name+" => @"+a.Name)
	}
	call := name + "(" + strings.Join(parts, ", ") + ")"
	if set {
		return "SELECT * FROM " + call, named, nil
	}
	return "SELECT " + call, named, nil
}

func logPayload(args []Arg) map[string]interface{} {
	out := make(map[string]interface{}, len(args))
	for _, a := range args {
		switch v := a.Value.(type) {
		case datatypes.JSON:
			out[a.Name] = fmt.Sprintf("<%d bytes>", len(v))
		case json.RawMessage:
			out[a.Name] = fmt.Sprintf("<%d bytes>", len(v))
		default:
			out[a.Name] = deref(a.Value)
		}
	}
	return out
}

func deref(v any) any {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		return rv.Elem().Interface()
	}
	return v
}
