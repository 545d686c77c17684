package engine

import (
	"fmt"

	"github.com/piwi3910/KnitPlan/internal/model"
)

// IssueKind identifies a problem found in a stitch plan.
type IssueKind int

const (
	IssueEmptyPlan IssueKind = iota
	IssueNegativeStitches
	IssueNoStitches
	IssueSteepShaping
)

func (k IssueKind) String() string {
	switch k {
	case IssueEmptyPlan:
		return "empty-plan"
	case IssueNegativeStitches:
		return "negative-stitches"
	case IssueNoStitches:
		return "no-stitches"
	default:
		return "steep-shaping"
	}
}

// PlanIssue describes one problem with a plan row.
type PlanIssue struct {
	Kind   IssueKind
	Row    int // machine row, 0 for plan-wide issues
	Edge   string
	Change int
}

// Lint checks a plan for rows that cannot be knitted as written: negative
// stitch counts, rows without stitches, and edges that change by more than
// maxPerRow stitches in one row. maxPerRow <= 0 disables the last check.
func Lint(plan *StitchPlan, maxPerRow int) []PlanIssue {
	if plan == nil || plan.Empty() {
		return []PlanIssue{{Kind: IssueEmptyPlan}}
	}

	var issues []PlanIssue
	prev := plan.Rows[0]
	for i, r := range plan.Rows {
		if r.LeftStitchesInWork < 0 || r.RightStitchesInWork < 0 {
			issues = append(issues, PlanIssue{Kind: IssueNegativeStitches, Row: r.RowNumber})
		} else if r.Total() == 0 {
			issues = append(issues, PlanIssue{Kind: IssueNoStitches, Row: r.RowNumber})
		}
		if i > 0 && maxPerRow > 0 {
			if d := r.LeftStitchesInWork - prev.LeftStitchesInWork; abs(d) > maxPerRow {
				issues = append(issues, PlanIssue{Kind: IssueSteepShaping, Row: r.RowNumber, Edge: "left", Change: d})
			}
			if d := r.RightStitchesInWork - prev.RightStitchesInWork; abs(d) > maxPerRow {
				issues = append(issues, PlanIssue{Kind: IssueSteepShaping, Row: r.RowNumber, Edge: "right", Change: d})
			}
		}
		prev = r
	}
	return issues
}

// LintPanel lints every knitted section of the panel with the row numbers
// the walker would give them.
func LintPanel(p *model.Panel, maxPerRow int) []PlanIssue {
	if p == nil || p.Shape == nil {
		return []PlanIssue{{Kind: IssueEmptyPlan}}
	}
	var issues []PlanIssue
	var visit func(t *model.Trapezoid, startRow int)
	visit = func(t *model.Trapezoid, startRow int) {
		plan := CompileStitchPlan(t, p.Gauge, p.SizeModifier, startRow)
		if plan.Empty() {
			issues = append(issues, PlanIssue{Kind: IssueEmptyPlan, Row: startRow})
		} else {
			issues = append(issues, Lint(plan, maxPerRow)...)
		}
		next := startRow
		if last, ok := plan.LastRow(); ok {
			next = last.RowNumber + 1
		}
		for _, s := range nonNil(t.Successors) {
			if s.ScaledHeight() > 0 {
				visit(s, next)
			}
		}
	}
	visit(p.Shape, 1)
	return issues
}

// FormatIssues produces human-readable warning messages.
func FormatIssues(issues []PlanIssue) []string {
	var warnings []string
	for _, is := range issues {
		var msg string
		switch is.Kind {
		case IssueEmptyPlan:
			if is.Row > 0 {
				msg = fmt.Sprintf("Section starting at row %d has no rows", is.Row)
			} else {
				msg = "Plan has no rows"
			}
		case IssueNegativeStitches:
			msg = fmt.Sprintf("Row %d: stitch count goes below zero", is.Row)
		case IssueNoStitches:
			msg = fmt.Sprintf("Row %d: no stitches left in work", is.Row)
		case IssueSteepShaping:
			msg = fmt.Sprintf("Row %d: %d stitches change on the %s edge in one row", is.Row, abs(is.Change), is.Edge)
		}
		warnings = append(warnings, msg)
	}
	return warnings
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
