package service

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/gantrylabs/gantry/internal/engine"
	"github.com/gantrylabs/gantry/internal/errx"
)

// Command line for the in-container test run. Invoking pytest through
// the interpreter guarantees the same environment the service runs in.
var pytestCommand = []string{"python", "-m", "pytest", "tests"}

// Outcome of an in-container test run.
type Report struct {
	Passed   int    // Tests reported as passed.
	Failed   int    // Tests reported as failed.
	Errors   int    // Collection or runtime errors.
	ExitCode int    // Test runner exit code. Zero means everything passed.
	Output   string // Combined runner output.
}

// True when the run completed with no failures or errors.
func (r *Report) OK() bool {
	return r.ExitCode == 0
}

// Runs the project's test suite inside the container.
//
// The runner's exit code and summary counts are captured in the report;
// failing tests are not an error at this level, only a failure to
// execute the runner at all is.
func RunTests(ctx context.Context, ctr engine.Container) (*Report, error) {
	res, err := ctr.ExecArgs(ctx, pytestCommand)
	if err != nil {
		return nil, errx.Wrap(ErrService, err)
	}

	report := buildReport(res)

	if report.OK() {
		slog.Info("tests passed", "container", ctr.ID(), "passed", report.Passed)
	} else {
		slog.Warn("tests failed",
			"container", ctr.ID(),
			"passed", report.Passed,
			"failed", report.Failed,
			"errors", report.Errors,
			"exit", report.ExitCode,
		)
	}

	return report, nil
}

// Assembles a report from the runner's captured output.
func buildReport(res *engine.ExecResult) *Report {
	output := res.Stdout
	if res.Stderr != "" {
		if output != "" {
			output += "\n"
		}
		output += res.Stderr
	}

	report := &Report{
		ExitCode: res.ExitCode,
		Output:   output,
	}
	report.Passed, report.Failed, report.Errors = summaryCounts(output)

	return report
}

// Extracts pass/fail/error counts from a pytest summary line, e.g.
// "== 3 passed, 1 failed in 0.21s ==". Counts that never appear stay
// zero; the exit code remains authoritative for overall success.
func summaryCounts(output string) (passed, failed, errors int) {
	fields := strings.Fields(strings.ReplaceAll(output, ",", " "))

	for i := 0; i+1 < len(fields); i++ {
		n, err := strconv.Atoi(fields[i])
		if err != nil {
			continue
		}
		switch {
		case strings.HasPrefix(fields[i+1], "passed"):
			passed = n
		case strings.HasPrefix(fields[i+1], "failed"):
			failed = n
		case strings.HasPrefix(fields[i+1], "error"):
			errors = n
		}
	}

	return passed, failed, errors
}
