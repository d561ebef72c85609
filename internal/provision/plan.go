package provision

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/tradeops/botstrap/internal/config"
	"github.com/tradeops/botstrap/internal/deploy"
	"github.com/tradeops/botstrap/internal/envfile"
	"github.com/tradeops/botstrap/internal/layout"
	"github.com/tradeops/botstrap/internal/pkgmgr"
	"github.com/tradeops/botstrap/internal/pyenv"
	"github.com/tradeops/botstrap/internal/supervisor"
	"github.com/tradeops/botstrap/internal/system"
)

// Plan assembles the ordered step list for one run. sourceDir is the
// invocation's working directory, assumed to be the bot's source tree;
// euid is the invoking identity's effective uid. The order is fixed:
// gate, packages, account, filesystem, runtime environment, artifacts,
// supervision config, environment template. Mode decides which optional
// steps appear, never their order.
func Plan(s config.Settings, sourceDir string, euid int, runner system.Runner, logger *slog.Logger) []Step {
	accounts := system.NewAccounts(runner, logger)
	env := pyenv.New(runner, logger)
	gen := supervisor.NewGenerator(logger)

	// Package installs need root either way; unprivileged development
	// runs reach apt through sudo.
	pkgRunner := runner
	if s.Mode == config.ModeDevelopment && euid != 0 {
		pkgRunner = system.Sudo{Base: runner}
	}
	apt := pkgmgr.New(pkgRunner, logger)

	steps := []Step{
		{
			Name: "privilege gate",
			Run: func(ctx context.Context) (Outcome, error) {
				return OutcomeApplied, system.CheckPrivilege(s.Mode, euid)
			},
		},
		{
			Name: "system packages",
			Run: func(ctx context.Context) (Outcome, error) {
				return OutcomeApplied, apt.EnsureInstalled(ctx, s.Packages)
			},
		},
	}

	if s.Mode == config.ModeProduction {
		steps = append(steps, Step{
			Name: "service account",
			Run: func(ctx context.Context) (Outcome, error) {
				created, err := accounts.Ensure(ctx, s.ServiceUser, s.ProjectRoot)
				return createdOutcome(created), err
			},
		})
	}

	steps = append(steps,
		Step{
			Name: "directory layout",
			Run: func(ctx context.Context) (Outcome, error) {
				prov := layout.New(accounts, logger)
				return OutcomeApplied, prov.Ensure(ctx, s.TopLevelDirs(), s.SubdirPaths(), s.ServiceUser)
			},
		},
		Step{
			Name: "runtime environment",
			Run: func(ctx context.Context) (Outcome, error) {
				created, err := env.Ensure(ctx, s.VenvDir)
				if err != nil {
					return OutcomeApplied, err
				}
				manifest := filepath.Join(sourceDir, s.Requirements)
				return createdOutcome(created), env.Install(ctx, s.VenvDir, manifest)
			},
		},
	)

	if s.Mode == config.ModeProduction {
		steps = append(steps, Step{
			Name: "deploy artifacts",
			Run: func(ctx context.Context) (Outcome, error) {
				d := deploy.New(runner, accounts, logger)
				return OutcomeApplied, d.Deploy(ctx, sourceDir, s.ProjectRoot, s.ServiceUser)
			},
		})
	}

	steps = append(steps, Step{
		Name: "supervision config",
		Run: func(ctx context.Context) (Outcome, error) {
			if s.Mode == config.ModeProduction {
				return OutcomeApplied, gen.WriteConf(descriptorFor(s), s.SupervisorConf)
			}
			_, err := gen.WriteScripts(supervisor.ScriptSet{
				Dir:        filepath.Join(s.ProjectRoot, "scripts"),
				VenvDir:    s.VenvDir,
				ProjectDir: s.ProjectRoot,
				EntryPoint: s.EntryPoint,
				WebHost:    s.WebHost,
				WebPort:    s.WebPort,
			})
			return OutcomeApplied, err
		},
	})

	if s.Mode == config.ModeDevelopment {
		steps = append(steps, Step{
			Name: "environment template",
			Run: func(ctx context.Context) (Outcome, error) {
				w := envfile.NewWriter(logger)
				created, err := w.EnsureTemplate(filepath.Join(s.ProjectRoot, ".env"), envfile.Template{
					TradingSymbol: s.TradingSymbol,
					Leverage:      s.Leverage,
					LogLevel:      s.LogLevel,
					LogFile:       "logs/trading_system.log",
					WebHost:       s.WebHost,
					WebPort:       s.WebPort,
				})
				return createdOutcome(created), err
			},
		})
	}

	return steps
}

// descriptorFor builds the supervisord program block for a production
// run: the venv interpreter running the deployed entry point in both
// bot and web mode, restarted on unexpected exit, logging into the
// provisioned log root.
func descriptorFor(s config.Settings) supervisor.Descriptor {
	return supervisor.Descriptor{
		Program:       "trading-bot",
		Command:       pyenv.Python(s.VenvDir) + " " + filepath.Join(s.ProjectRoot, s.EntryPoint) + " --mode both",
		Directory:     s.ProjectRoot,
		User:          s.ServiceUser,
		AutoStart:     s.AutoStart,
		AutoRestart:   true,
		StartSecs:     10,
		StopWaitSecs:  60,
		StdoutLogfile: filepath.Join(s.LogDir, "trading-bot.out.log"),
		StderrLogfile: filepath.Join(s.LogDir, "trading-bot.err.log"),
		LogMaxBytes:   10 * 1024 * 1024,
		LogBackups:    5,
		Environment:   map[string]string{"PYTHONPATH": s.ProjectRoot},
	}
}

func createdOutcome(created bool) Outcome {
	if created {
		return OutcomeCreated
	}
	return OutcomeAlreadyPresent
}
