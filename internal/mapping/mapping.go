// Package mapping exposes the externally supplied account/project mapping
// dataset as a read-only resolver. The dataset is materialized before the run
// (spreadsheet export or YAML snapshot) and never re-fetched mid-pipeline.
package mapping

import (
	"strconv"
	"strings"
)

// Program classifies a project for holding-account selection.
type Program string

const (
	// ProgramNone means no special classification; ordinary invoiceable
	// handling applies.
	ProgramNone Program = ""
	// ProgramTowards marks projects under the long-term research program.
	ProgramTowards Program = "towards"
	// ProgramAssignment marks externally assigned jobs.
	ProgramAssignment Program = "assignment"
)

// HoldingKey returns the band-table key for the program.
func (p Program) HoldingKey() string {
	if p == ProgramNone {
		return "ordinary"
	}
	return string(p)
}

// Row is one row of the mapping dataset. Cells are carried as exported;
// numeric coercion happens once when the resolver is built.
type Row struct {
	Account    string `yaml:"account"`
	Task       string `yaml:"task"`
	Towards    string `yaml:"towards"`
	Assignment string `yaml:"assignment"`
	ProjectVAT string `yaml:"project_vat"`
}

// Resolver provides the three pure lookups derived from the mapping dataset.
// It is immutable for the duration of a run.
type Resolver struct {
	tasks    map[int]string
	vat      map[int]struct{}
	programs map[int]Program
}

// NewResolver indexes the dataset once. Rows with a non-numeric account
// simply contribute no task mapping; the classification columns tolerate the
// ".0" decimal tails the spreadsheet export produces.
func NewResolver(rows []Row) *Resolver {
	r := &Resolver{
		tasks:    make(map[int]string),
		vat:      make(map[int]struct{}),
		programs: make(map[int]Program),
	}
	for _, row := range rows {
		if acct, ok := cellInt(row.Account); ok {
			if task := strings.TrimSpace(row.Task); task != "" {
				if _, dup := r.tasks[acct]; !dup {
					r.tasks[acct] = task
				}
			}
		}
		if p, ok := cellInt(row.Towards); ok {
			r.programs[p] = ProgramTowards
		}
		if p, ok := cellInt(row.Assignment); ok {
			r.programs[p] = ProgramAssignment
		}
		if p, ok := cellInt(row.ProjectVAT); ok {
			r.vat[p] = struct{}{}
		}
	}
	return r
}

// TaskForAccount returns the task mapped to an account, if any.
func (r *Resolver) TaskForAccount(account int) (string, bool) {
	task, ok := r.tasks[account]
	return task, ok
}

// VATEligible reports whether the project appears in the VAT-eligible list.
func (r *Resolver) VATEligible(project int) bool {
	_, ok := r.vat[project]
	return ok
}

// ProgramFor returns the project's special-program classification, or
// ProgramNone when the project is not flagged.
func (r *Resolver) ProgramFor(project int) Program {
	return r.programs[project]
}

// cellInt coerces a spreadsheet cell to an integer. Empty, non-numeric and
// "nan" cells are absent; a trailing decimal part is discarded.
func cellInt(raw string) (int, bool) {
	s := strings.TrimSpace(raw)
	if s == "" || strings.EqualFold(s, "nan") {
		return 0, false
	}
	if i := strings.IndexByte(s, '.'); i >= 0 {
		s = s[:i]
	}
	v, err := strconv.Atoi(s)
	if err != nil || v == 0 {
		return 0, false
	}
	return v, true
}
