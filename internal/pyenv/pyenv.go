package pyenv

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/tradeops/botstrap/internal/system"
)

// ErrCreate indicates the virtual environment could not be created.
var ErrCreate = errors.New("pyenv: environment creation failed")

// ErrInstall indicates dependency installation into the environment failed.
var ErrInstall = errors.New("pyenv: dependency installation failed")

// Env provisions an isolated Python environment and its dependencies.
type Env struct {
	runner system.Runner
	logger *slog.Logger
}

// New returns a runtime environment provisioner.
func New(runner system.Runner, logger *slog.Logger) *Env {
	return &Env{runner: runner, logger: logger}
}

// Ensure creates the venv at dir unless it already exists. The existence
// check is authoritative: an environment that exists is reused as-is,
// because dependency installation is itself idempotent and repairs any
// stale manifest on the next Install call.
func (e *Env) Ensure(ctx context.Context, dir string) (created bool, err error) {
	if _, statErr := os.Stat(dir); statErr == nil {
		e.logger.Warn("virtual environment already exists, reusing", "path", dir)
		return false, nil
	} else if !os.IsNotExist(statErr) {
		return false, fmt.Errorf("%w: stat %s: %v", ErrCreate, dir, statErr)
	}
	if _, err := e.runner.Run(ctx, "python3", "-m", "venv", dir); err != nil {
		return false, fmt.Errorf("%w: %v", ErrCreate, err)
	}
	e.logger.Info("virtual environment created", "path", dir)
	return true, nil
}

// Install upgrades pip, then installs every dependency in the requirements
// manifest into the environment. Runs whether or not the venv pre-existed.
func (e *Env) Install(ctx context.Context, dir, requirements string) error {
	pip := filepath.Join(dir, "bin", "pip")
	if _, err := e.runner.Run(ctx, pip, "install", "--upgrade", "pip"); err != nil {
		return fmt.Errorf("%w: upgrade pip: %v", ErrInstall, err)
	}
	e.logger.Info("installing dependencies", "manifest", requirements)
	if _, err := e.runner.Run(ctx, pip, "install", "-r", requirements); err != nil {
		return fmt.Errorf("%w: %v", ErrInstall, err)
	}
	return nil
}

// Python returns the interpreter path inside the environment.
func Python(dir string) string {
	return filepath.Join(dir, "bin", "python")
}
