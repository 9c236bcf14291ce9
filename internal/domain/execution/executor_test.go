package execution_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saveligulas/debian-setup/internal/adapters/logging"
	"github.com/saveligulas/debian-setup/internal/domain/compiler"
	"github.com/saveligulas/debian-setup/internal/domain/execution"
)

// fakeStep scripts a step's probe and action behavior.
type fakeStep struct {
	id          string
	criticality compiler.Criticality

	status   compiler.StepStatus
	checkErr error
	applyErr error

	// postApplyStatus is what Check reports once Apply has run, for
	// verify-mode tests.
	postApplyStatus compiler.StepStatus

	applyCalls int
	checkCalls int
}

func (f *fakeStep) ID() compiler.StepID { return compiler.MustNewStepID(f.id) }

func (f *fakeStep) Criticality() compiler.Criticality {
	if f.criticality == "" {
		return compiler.FailFast
	}
	return f.criticality
}

func (f *fakeStep) Check(compiler.RunContext) (compiler.StepStatus, error) {
	f.checkCalls++
	if f.checkErr != nil {
		return compiler.StatusUnknown, f.checkErr
	}
	if f.applyCalls > 0 && f.postApplyStatus != "" {
		return f.postApplyStatus, nil
	}
	return f.status, nil
}

func (f *fakeStep) Plan(compiler.RunContext) (compiler.Diff, error) {
	return compiler.NewDiff(compiler.DiffTypeAdd, "fake", f.id, "", "converged"), nil
}

func (f *fakeStep) Apply(compiler.RunContext) error {
	f.applyCalls++
	return f.applyErr
}

// funcStep delegates probe and action to closures, for steps whose
// divergence depends on what earlier steps in the run did.
type funcStep struct {
	id    string
	check func() (compiler.StepStatus, error)
	apply func() error
}

func (f *funcStep) ID() compiler.StepID                               { return compiler.MustNewStepID(f.id) }
func (f *funcStep) Criticality() compiler.Criticality                 { return compiler.FailFast }
func (f *funcStep) Check(compiler.RunContext) (compiler.StepStatus, error) { return f.check() }
func (f *funcStep) Plan(compiler.RunContext) (compiler.Diff, error)   { return compiler.Diff{}, nil }
func (f *funcStep) Apply(compiler.RunContext) error                   { return f.apply() }

func planOf(t *testing.T, steps ...compiler.Step) *execution.Plan {
	t.Helper()
	planner := execution.NewPlanner(logging.NewNopLogger())
	plan, err := planner.Plan(context.Background(), steps)
	require.NoError(t, err)
	return plan
}

func TestExecutorAppliesDivergentSteps(t *testing.T) {
	t.Parallel()

	satisfied := &fakeStep{id: "a:one", status: compiler.StatusSatisfied}
	divergent := &fakeStep{id: "a:two", status: compiler.StatusNeedsApply}

	executor := execution.NewExecutor(logging.NewNopLogger())
	report, err := executor.Execute(context.Background(), planOf(t, satisfied, divergent))
	require.NoError(t, err)

	assert.Equal(t, execution.RunCompleted, report.Outcome())
	assert.Equal(t, 0, satisfied.applyCalls)
	assert.Equal(t, 1, divergent.applyCalls)

	sum := report.Summary()
	assert.Equal(t, 2, sum.Total)
	assert.Equal(t, 1, sum.Satisfied)
	assert.Equal(t, 1, sum.Applied)
	assert.Equal(t, 0, sum.Failed)
}

func TestExecutorFailFastAborts(t *testing.T) {
	t.Parallel()

	failing := &fakeStep{id: "a:boom", status: compiler.StatusNeedsApply, applyErr: errors.New("exit 1")}
	unreached := &fakeStep{id: "a:later", status: compiler.StatusNeedsApply}

	executor := execution.NewExecutor(logging.NewNopLogger())
	report, err := executor.Execute(context.Background(), planOf(t, failing, unreached))

	require.Error(t, err)
	assert.Equal(t, execution.RunAborted, report.Outcome())
	assert.Equal(t, 0, unreached.applyCalls)

	entries := report.Entries()
	require.Len(t, entries, 2)
	assert.True(t, entries[0].Failed())
	assert.Equal(t, compiler.StatusSkipped, entries[1].Result)
}

func TestExecutorTolerantFailureContinues(t *testing.T) {
	t.Parallel()

	tolerant := &fakeStep{
		id:          "brew:formula:gh",
		criticality: compiler.Tolerant,
		status:      compiler.StatusNeedsApply,
		applyErr:    errors.New("exit 1"),
	}
	next := &fakeStep{id: "a:after", status: compiler.StatusNeedsApply}

	executor := execution.NewExecutor(logging.NewNopLogger())
	report, err := executor.Execute(context.Background(), planOf(t, tolerant, next))

	require.NoError(t, err)
	assert.Equal(t, execution.RunCompleted, report.Outcome())
	assert.Equal(t, 1, next.applyCalls)

	sum := report.Summary()
	assert.Equal(t, 1, sum.Failed)
	assert.Equal(t, 1, sum.Tolerated)
	require.Len(t, report.FailedEntries(), 1)
	assert.Equal(t, "brew:formula:gh", report.FailedEntries()[0].StepID.String())
}

func TestExecutorFatalErrorOverridesTolerance(t *testing.T) {
	t.Parallel()

	tolerant := &fakeStep{
		id:          "shell:theme",
		criticality: compiler.Tolerant,
		status:      compiler.StatusNeedsApply,
		applyErr:    compiler.NewMalformedStateError(".zshrc", "orphaned marker"),
	}
	next := &fakeStep{id: "a:after", status: compiler.StatusNeedsApply}

	executor := execution.NewExecutor(logging.NewNopLogger())
	report, err := executor.Execute(context.Background(), planOf(t, tolerant, next))

	require.Error(t, err)
	assert.Equal(t, execution.RunAborted, report.Outcome())
	assert.Equal(t, 0, next.applyCalls)
}

func TestExecutorDryRunNeverApplies(t *testing.T) {
	t.Parallel()

	divergent := &fakeStep{id: "a:one", status: compiler.StatusNeedsApply}

	executor := execution.NewExecutor(logging.NewNopLogger()).WithDryRun(true)
	report, err := executor.Execute(context.Background(), planOf(t, divergent))

	require.NoError(t, err)
	assert.Equal(t, execution.RunCompleted, report.Outcome())
	assert.Equal(t, 0, divergent.applyCalls)
	assert.Equal(t, compiler.StatusSkipped, report.Entries()[0].Result)
}

func TestExecutorProbesAgainstStateLeftByEarlierSteps(t *testing.T) {
	t.Parallel()

	// The installer's action creates the file the themer edits. During
	// planning the themer reports satisfied because there is nothing to
	// theme yet; only a fresh probe at execution time, after the
	// installer ran, sees the divergence.
	installed := false
	themed := false

	installer := &funcStep{
		id: "bootstrap:installer:framework",
		check: func() (compiler.StepStatus, error) {
			if installed {
				return compiler.StatusSatisfied, nil
			}
			return compiler.StatusNeedsApply, nil
		},
		apply: func() error {
			installed = true
			return nil
		},
	}
	themer := &funcStep{
		id: "shell:theme",
		check: func() (compiler.StepStatus, error) {
			if installed && !themed {
				return compiler.StatusNeedsApply, nil
			}
			return compiler.StatusSatisfied, nil
		},
		apply: func() error {
			themed = true
			return nil
		},
	}

	executor := execution.NewExecutor(logging.NewNopLogger())
	report, err := executor.Execute(context.Background(), planOf(t, installer, themer))
	require.NoError(t, err)

	assert.True(t, themed, "first run should converge the theme step")
	assert.Equal(t, 2, report.Summary().Applied)

	// Converged state makes the second run all-skip.
	report, err = executor.Execute(context.Background(), planOf(t, installer, themer))
	require.NoError(t, err)
	sum := report.Summary()
	assert.Equal(t, sum.Total, sum.Satisfied)
	assert.Zero(t, sum.Applied)
}

func TestExecutorUnknownStatusIsReattempted(t *testing.T) {
	t.Parallel()

	// The probe failed during planning; the action must still run.
	flaky := &fakeStep{id: "a:one", checkErr: errors.New("probe broke")}

	executor := execution.NewExecutor(logging.NewNopLogger())
	report, err := executor.Execute(context.Background(), planOf(t, flaky))

	require.NoError(t, err)
	assert.Equal(t, 1, flaky.applyCalls)
	assert.Equal(t, compiler.StatusUnknown, report.Entries()[0].Prior)
}

func TestExecutorVerifyFailsStillDivergentStep(t *testing.T) {
	t.Parallel()

	lying := &fakeStep{
		id:              "a:one",
		status:          compiler.StatusNeedsApply,
		postApplyStatus: compiler.StatusNeedsApply,
	}

	executor := execution.NewExecutor(logging.NewNopLogger()).WithVerify(true)
	report, err := executor.Execute(context.Background(), planOf(t, lying))

	require.Error(t, err)
	assert.Equal(t, execution.RunAborted, report.Outcome())
	assert.True(t, report.Entries()[0].Failed())
}

func TestExecutorVerifyPassesConvergedStep(t *testing.T) {
	t.Parallel()

	honest := &fakeStep{
		id:              "a:one",
		status:          compiler.StatusNeedsApply,
		postApplyStatus: compiler.StatusSatisfied,
	}

	executor := execution.NewExecutor(logging.NewNopLogger()).WithVerify(true)
	report, err := executor.Execute(context.Background(), planOf(t, honest))

	require.NoError(t, err)
	assert.Equal(t, execution.RunCompleted, report.Outcome())
}

func TestExecutorCancelledContextAborts(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	step := &fakeStep{id: "a:one", status: compiler.StatusNeedsApply}
	plan := planOf(t, step)
	cancel()

	executor := execution.NewExecutor(logging.NewNopLogger())
	report, err := executor.Execute(ctx, plan)

	require.Error(t, err)
	assert.Equal(t, execution.RunAborted, report.Outcome())
	assert.Equal(t, 0, step.applyCalls)
	assert.Equal(t, compiler.StatusSkipped, report.Entries()[0].Result)
}
