package system

import (
	"context"
	"fmt"
	"log/slog"
)

// Accounts provisions the dedicated service account the supervised process
// runs under.
type Accounts struct {
	runner Runner
	logger *slog.Logger
}

// NewAccounts returns an account provisioner using the given runner.
func NewAccounts(runner Runner, logger *slog.Logger) *Accounts {
	return &Accounts{runner: runner, logger: logger}
}

// Exists reports whether the named account is present in the account
// database. A getent lookup failure is treated as absence; a genuinely
// broken account database will surface on the subsequent useradd.
func (a *Accounts) Exists(ctx context.Context, name string) bool {
	_, err := a.runner.Run(ctx, "getent", "passwd", name)
	return err == nil
}

// Ensure creates the account with a home directory and login shell if it
// is absent. An already-present account is logged and accepted; creation
// failure is fatal. The check-then-act is not atomic against concurrent
// account mutation, which is out of scope for a single-operator run.
func (a *Accounts) Ensure(ctx context.Context, name, home string) (created bool, err error) {
	if a.Exists(ctx, name) {
		a.logger.Warn("service account already exists, skipping creation", "user", name)
		return false, nil
	}
	args := []string{"--create-home", "--home-dir", home, "--shell", "/bin/bash", name}
	if _, err := a.runner.Run(ctx, "useradd", args...); err != nil {
		return false, fmt.Errorf("%w: useradd %s: %v", ErrAccountCreate, name, err)
	}
	a.logger.Info("service account created", "user", name, "home", home)
	return true, nil
}

// Chown recursively hands ownership of path to the given account.
func (a *Accounts) Chown(ctx context.Context, owner, path string) error {
	_, err := a.runner.Run(ctx, "chown", "-R", owner+":"+owner, path)
	return err
}
