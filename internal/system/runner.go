package system

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
)

// Runner executes an external command and returns its combined output.
// Every component that shells out to the host (apt-get, useradd, chown,
// python, pip, cp) goes through this seam so tests can substitute a fake.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands on the real host.
type ExecRunner struct {
	// Dir, when set, becomes the working directory of every command.
	Dir string
	// Env entries are appended to the inherited environment.
	Env []string
}

// Run executes the command and returns combined stdout/stderr. A non-zero
// exit is returned as an error that already embeds the output, so callers
// can wrap it with their own sentinel and nothing more.
func (r ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = r.Dir
	if len(r.Env) > 0 {
		cmd.Env = append(os.Environ(), r.Env...)
	}
	output, err := cmd.CombinedOutput()
	if err != nil {
		return output, fmt.Errorf("%s failed: %w: %s", name, err, string(output))
	}
	return output, nil
}

// ExitCode maps a run failure to the process exit status: the failing
// external command's own exit code when one is wrapped in err, otherwise 1.
func ExitCode(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() > 0 {
		return exitErr.ExitCode()
	}
	return 1
}

// Sudo wraps a Runner so every command runs under sudo. Development runs
// are unprivileged but still need root for the package manager.
type Sudo struct {
	Base Runner
}

// Run executes the command through sudo -n (never prompt; a missing
// sudoers entry should fail loudly, not hang a provisioning run).
func (s Sudo) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return s.Base.Run(ctx, "sudo", append([]string{"-n", name}, args...)...)
}
