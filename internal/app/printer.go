package app

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/saveligulas/debian-setup/internal/domain/compiler"
	"github.com/saveligulas/debian-setup/internal/domain/execution"
)

const timeRounding = time.Millisecond

var (
	styleTitle     = lipgloss.NewStyle().Bold(true)
	styleSatisfied = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#40a02b", Dark: "#a6e3a1"})
	styleApply     = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#1e66f5", Dark: "#89b4fa"})
	styleWarn      = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#df8e1d", Dark: "#f9e2af"})
	styleFail      = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#d20f39", Dark: "#f38ba8"})
	styleMuted     = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#6c6f85", Dark: "#6c7086"})
)

// PrintPlan writes the probed plan in execution order.
func (s *Setup) PrintPlan(plan *execution.Plan) {
	summary := plan.Summary()

	s.printf("\n%s\n\n", styleTitle.Render("Plan"))

	if !plan.HasChanges() {
		s.printf("Nothing to do: all %d steps are satisfied.\n", summary.Total)
		return
	}

	for _, entry := range plan.Entries() {
		switch entry.Status() {
		case compiler.StatusSatisfied:
			s.printf("  %s %s\n", styleSatisfied.Render("ok"), entry.Step().ID().String())
			continue
		case compiler.StatusUnknown:
			s.printf("  %s %s\n", styleWarn.Render(" ?"), entry.Step().ID().String())
			if entry.ProbeError() != nil {
				s.printf("      %s\n", styleMuted.Render(entry.ProbeError().Error()))
			}
		default:
			s.printf("  %s %s\n", styleApply.Render(" +"), entry.Step().ID().String())
		}
		if diff := entry.Diff(); !diff.IsEmpty() {
			s.printf("      %s\n", styleMuted.Render(diff.Summary()))
		}
	}

	s.printf("\n%d steps: %d to apply, %d satisfied, %d unknown\n",
		summary.Total, summary.NeedsApply, summary.Satisfied, summary.Unknown)
}

// PrintReport writes the per-step outcomes and a single summary line.
// Failures carry the failing command's captured output.
func (s *Setup) PrintReport(report *execution.RunReport) {
	if report == nil {
		return
	}

	s.printf("\n%s\n\n", styleTitle.Render("Run "+report.ID()))

	for _, entry := range report.Entries() {
		switch {
		case entry.Failed():
			marker := styleFail.Render("fail")
			if entry.Criticality == compiler.Tolerant {
				marker = styleWarn.Render("tol ")
			}
			s.printf("  %s %s\n", marker, entry.StepID.String())
			s.printf("      %s\n", styleMuted.Render(entry.Err.Error()))
		case entry.ActionTaken:
			s.printf("  %s %s %s\n", styleApply.Render("done"), entry.StepID.String(),
				styleMuted.Render(entry.Duration.Round(timeRounding).String()))
		case entry.Prior == compiler.StatusSatisfied:
			s.printf("  %s %s\n", styleSatisfied.Render("ok  "), entry.StepID.String())
		default:
			s.printf("  %s %s\n", styleMuted.Render("skip"), entry.StepID.String())
		}
	}

	sum := report.Summary()
	line := fmt.Sprintf("%d steps: %d applied, %d satisfied, %d failed (%d tolerated), %d skipped",
		sum.Total, sum.Applied, sum.Satisfied, sum.Failed, sum.Tolerated, sum.Skipped)

	switch report.Outcome() {
	case execution.RunAborted:
		s.printf("\n%s %s\n", styleFail.Render("aborted"), line)
	default:
		s.printf("\n%s %s\n", styleSatisfied.Render("completed"), line)
	}
}

func (s *Setup) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(s.out, format, args...)
}
