// Package finder scans Python source trees for try/except statements that
// are candidates for rewriting as except-expressions, and keeps statistics
// on how except clauses are used in the wild.
package finder

import (
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Candidate is one try/except statement that could be rewritten as an
// except-expression.
type Candidate struct {
	// File is the path of the file containing the statement.
	File string `yaml:"file"`
	// Line is the 1-based line of the try statement.
	Line int `yaml:"line"`
	// Kind is the statement kind shared by the try body and the handlers
	// (e.g. "assignment", "return_statement").
	Kind string `yaml:"kind"`
	// Key is the comparison key that made the statements compatible.
	Key string `yaml:"key"`
}

func (c Candidate) String() string {
	return fmt.Sprintf("%s:%d: %s: %s", c.File, c.Line, c.Kind, c.Key)
}

// Stats aggregates except-clause usage across a scan.
type Stats struct {
	// Excepts counts every except clause seen.
	Excepts int `yaml:"excepts"`
	// ExceptsWithAs counts except clauses that bind the failure with `as`.
	ExceptsWithAs int `yaml:"excepts_with_as"`
	// SimpleExcepts counts handlers belonging to candidate statements.
	SimpleExcepts int `yaml:"simple_excepts"`
	// SimpleExceptsWithAs counts candidate handlers that use `as`.
	SimpleExceptsWithAs int `yaml:"simple_excepts_with_as"`
}

func (s *Stats) add(other Stats) {
	s.Excepts += other.Excepts
	s.ExceptsWithAs += other.ExceptsWithAs
	s.SimpleExcepts += other.SimpleExcepts
	s.SimpleExceptsWithAs += other.SimpleExceptsWithAs
}

// Report is the result of one finder run.
type Report struct {
	RunID      string      `yaml:"run_id"`
	StartedAt  time.Time   `yaml:"started_at"`
	Files      int         `yaml:"files"`
	Skipped    int         `yaml:"skipped"`
	Candidates []Candidate `yaml:"candidates"`
	Stats      Stats       `yaml:"stats"`
}

// NewReport creates an empty report tagged with a fresh run ID.
func NewReport() *Report {
	return &Report{RunID: uuid.NewString(), StartedAt: time.Now().UTC()}
}

// WriteText renders the report the way find_except_expr.py printed it:
// one line per candidate, then the usage summary.
func (r *Report) WriteText(w io.Writer) error {
	for _, c := range r.Candidates {
		if _, err := fmt.Fprintln(w, c.String()); err != nil {
			return err
		}
	}
	if r.Stats.Excepts > 0 {
		pct := float64(r.Stats.ExceptsWithAs) * 100 / float64(r.Stats.Excepts)
		if _, err := fmt.Fprintf(w, "Of %d except clauses, %d use the 'as' clause: %.1f%%\n",
			r.Stats.Excepts, r.Stats.ExceptsWithAs, pct); err != nil {
			return err
		}
	}
	if r.Stats.SimpleExcepts > 0 {
		pct := float64(r.Stats.SimpleExceptsWithAs) * 100 / float64(r.Stats.SimpleExcepts)
		if _, err := fmt.Fprintf(w, "Simple excepts: %d / %d = %.1f%%\n",
			r.Stats.SimpleExceptsWithAs, r.Stats.SimpleExcepts, pct); err != nil {
			return err
		}
	}
	return nil
}

// WriteYAML renders the report in machine-readable form.
func (r *Report) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}
