// Command provision prepares a host to run the trading bot under
// supervisord: system packages, the tradebot service account, the
// /opt/trading-bot tree, a Python virtual environment, the deployed
// source and the supervision descriptor. It must run as root from the
// bot's source tree.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/tradeops/botstrap/internal/config"
	"github.com/tradeops/botstrap/internal/provision"
	"github.com/tradeops/botstrap/internal/system"
	"github.com/tradeops/botstrap/pkg/logger"
)

func main() {
	requirements := flag.String("requirements", "", "override the requirements manifest name")
	logLevel := flag.String("log-level", "info", "log level (debug, info, warn, error)")
	flag.Parse()

	if err := run(*requirements, *logLevel); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(system.ExitCode(err))
	}
}

func run(requirements, logLevel string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("determine working directory: %w", err)
	}

	settings, err := config.Load(config.ModeProduction, cwd)
	if err != nil {
		return err
	}
	if requirements != "" {
		settings.Requirements = requirements
	}

	log := logger.New("provision", logger.ParseLevel(logLevel))
	runner := system.ExecRunner{Env: []string{"DEBIAN_FRONTEND=noninteractive"}}

	orch := provision.New(log, provision.Plan(settings, cwd, system.Euid(), runner, log))
	results, err := orch.Run(context.Background())
	if err != nil {
		return err
	}

	fmt.Print(provision.Summarize(settings, orch.RunID(), results))
	return nil
}
