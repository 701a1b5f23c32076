package parser

import (
	"fmt"
	"strings"

	"github.com/pable/go-fab-history/internal/model"
)

// ValidationError reports a missing or malformed field. Row 0 means the header.
type ValidationError struct {
	Row    int
	Fields []string
	Reason string
}

func (e *ValidationError) Error() string {
	where := "header"
	if e.Row > 0 {
		where = fmt.Sprintf("row %d", e.Row)
	}
	return fmt.Sprintf("%s: %s: %s", where, e.Reason, strings.Join(e.Fields, ", "))
}

// LoadError aborts a load and lists every offending row.
type LoadError struct {
	Errors []*ValidationError
}

// maxListed caps how many rows Error() spells out.
const maxListed = 10

func (e *LoadError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d invalid row(s)", len(e.Errors))
	for i, ve := range e.Errors {
		if i == maxListed {
			fmt.Fprintf(&b, "; and %d more", len(e.Errors)-maxListed)
			break
		}
		b.WriteString("; ")
		b.WriteString(ve.Error())
	}
	return b.String()
}

// Rows returns the data row numbers that failed validation.
func (e *LoadError) Rows() []int {
	rows := make([]int, len(e.Errors))
	for i, ve := range e.Errors {
		rows[i] = ve.Row
	}
	return rows
}

func (e *LoadError) Unwrap() []error {
	errs := make([]error, len(e.Errors))
	for i, ve := range e.Errors {
		errs[i] = ve
	}
	return errs
}

// UnknownResultError describes a kept row whose result names no clear
// winner. It matches model.ErrUnknownResult under errors.Is.
type UnknownResultError struct {
	Row  int
	Text string
}

func (e *UnknownResultError) Error() string {
	return fmt.Sprintf("row %d: %v: %q", e.Row, model.ErrUnknownResult, e.Text)
}

func (e *UnknownResultError) Unwrap() error { return model.ErrUnknownResult }
