package deploy

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/tradeops/botstrap/internal/system"
)

// ErrDeploy indicates the source tree could not be copied into place.
var ErrDeploy = errors.New("deploy: artifact deployment failed")

// Deployer copies the bot's source tree into the provisioned project root.
// It assumes the invocation's working directory IS the source tree.
type Deployer struct {
	runner   system.Runner
	accounts *system.Accounts
	logger   *slog.Logger
}

// New returns an artifact deployer.
func New(runner system.Runner, accounts *system.Accounts, logger *slog.Logger) *Deployer {
	return &Deployer{runner: runner, accounts: accounts, logger: logger}
}

// Deploy copies everything under src into root (including dotfiles such as
// the bot's .env) and re-applies ownership across the whole tree.
func (d *Deployer) Deploy(ctx context.Context, src, root, owner string) error {
	d.logger.Info("deploying source tree", "from", src, "to", root)
	if _, err := d.runner.Run(ctx, "cp", "-a", src+"/.", root+"/"); err != nil {
		return fmt.Errorf("%w: %v", ErrDeploy, err)
	}
	if owner != "" {
		if err := d.accounts.Chown(ctx, owner, root); err != nil {
			return fmt.Errorf("%w: chown %s: %v", ErrDeploy, root, err)
		}
	}
	return nil
}
