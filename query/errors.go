package query

import (
	"errors"
	"fmt"
	"strings"
)

// QueryBuildError reports a statement that cannot be rendered, for example
// one that references a column its tables do not declare.
type QueryBuildError struct {
	Op     string // select, insert, update, delete
	Table  string
	Reason string
}

func (e *QueryBuildError) Error() string {
	return fmt.Sprintf("build %s on %s: %s", e.Op, e.Table, e.Reason)
}

// IsQueryBuildError reports whether err, or an error it wraps, is a
// QueryBuildError.
func IsQueryBuildError(err error) bool {
	var e *QueryBuildError
	return errors.As(err, &e)
}

// collect joins the reasons recorded while a builder was assembled.
func collect(op, table string, reasons []string) error {
	if len(reasons) == 0 {
		return nil
	}
	return &QueryBuildError{Op: op, Table: table, Reason: strings.Join(reasons, "; ")}
}
