package recipe

import (
	"context"
	"log/slog"

	"github.com/gantrylabs/gantry/internal/engine"
	"github.com/gantrylabs/gantry/internal/errx"
)

// One step of the bootstrap sequence.
//
// A step is either an operation (Run or Copy set) or a standalone
// modifier (only Shell, Workdir, or Env set). Modifiers on an operation
// step apply to that operation only; standalone modifiers persist for
// all subsequent steps.
type Step struct {
	Run     string            // Shell command to execute in the build container.
	Copy    string            // Host copy in "src dest" form, src relative to the project root.
	Workdir string            // Modifier: working directory.
	Shell   string            // Modifier: shell used for run steps.
	Env     map[string]string // Modifier: environment entries.
	Label   string            // Short description used in logs.
}

// Executes a list of steps in order against the build container.
//
// Each step must complete before the next begins; the first failure
// aborts the sequence.
func executeSteps(ctx context.Context, ctr engine.Container, steps []Step, state *stepState, root string) error {
	for i, step := range steps {
		if err := executeStep(ctx, ctr, step, state, root); err != nil {
			return errx.Wrapf(ErrBuild, "step %d (%s): %w", i+1, step.Label, err)
		}
	}
	return nil
}

// Executes a single step, dispatching to operation execution or state
// mutation depending on the step's fields.
func executeStep(ctx context.Context, ctr engine.Container, step Step, state *stepState, root string) error {
	if step.Run != "" || step.Copy != "" {
		return executeOperation(ctx, ctr, step, state, root)
	}

	// Standalone modifier(s): persist in state.
	state.apply(step)
	return nil
}

// Executes a run or copy operation with scoped modifier overrides.
//
// Step-level modifiers override the persistent state for this operation
// only. The persistent state is not modified.
func executeOperation(ctx context.Context, ctr engine.Container, step Step, state *stepState, root string) error {
	resolved := state.resolve(step)

	if resolved.workdir != "" {
		if err := ctr.MkdirAll(ctx, resolved.workdir); err != nil {
			return err
		}
	}

	switch {
	case step.Run != "":
		slog.Info(step.Label, "command", step.Run)
		result, err := ctr.Exec(ctx, resolved.shell, step.Run, resolved.environ(), resolved.workdir)
		if err != nil {
			return err
		}
		if result.ExitCode != 0 {
			return errx.Wrapf(ErrCommandFailed, "exit code %d: %s", result.ExitCode, result.Stderr)
		}

	case step.Copy != "":
		slog.Info(step.Label, "copy", step.Copy)
		if err := executeCopy(ctx, ctr, step.Copy, resolved.workdir, root); err != nil {
			return err
		}
	}

	return nil
}
