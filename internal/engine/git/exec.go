package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/irahardianto/mergescout/internal/platform/logger"
)

// ExecRunner implements Runner by running git via os/exec.
type ExecRunner struct {
	// Dir is the working directory for git commands.
	// If empty, the current directory is used.
	Dir string
}

// NewExecRunner creates a new ExecRunner rooted at the given directory.
func NewExecRunner(dir string) *ExecRunner {
	return &ExecRunner{Dir: dir}
}

// Run executes a git command and captures its exit code and output.
func (r *ExecRunner) Run(ctx context.Context, env map[string]string, args ...string) (Result, error) {
	logger.FromContext(ctx).Debug("running git", "args", strings.Join(args, " "))

	cmd := exec.CommandContext(ctx, "git", args...) // #nosec G204 -- args are controlled by the application, not user input
	cmd.Dir = r.Dir

	if len(env) > 0 {
		cmd.Env = os.Environ()
		for k, v := range env {
			cmd.Env = append(cmd.Env, k+"="+v)
		}
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := Result{
		Stdout: trimTrailing(stdout.String()),
		Stderr: trimTrailing(stderr.String()),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			return res, nil
		}
		return res, fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
	}

	return res, nil
}

// trimTrailing removes trailing whitespace from command output while
// preserving leading indentation, which is significant in merge reports.
func trimTrailing(s string) string {
	return strings.TrimRight(s, " \t\r\n")
}
