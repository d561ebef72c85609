package provision

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/tradeops/botstrap/internal/config"
)

// Summary is the human-readable report printed after a successful run.
type Summary struct {
	RunID string
	Mode  config.Mode
	Steps []StepResult

	Paths         []string
	StartCommands []string
	NextSteps     []string
}

// Summarize builds the report for a completed run.
func Summarize(s config.Settings, runID string, results []StepResult) Summary {
	sum := Summary{
		RunID: runID,
		Mode:  s.Mode,
		Steps: results,
		Paths: append(s.TopLevelDirs(), s.VenvDir),
	}

	if s.Mode == config.ModeProduction {
		sum.Paths = append(sum.Paths, s.SupervisorConf)
		sum.StartCommands = []string{
			"supervisorctl reread",
			"supervisorctl update",
			"supervisorctl start trading-bot",
		}
		sum.NextSteps = []string{
			fmt.Sprintf("review the bot configuration under %s", s.ConfigDir),
			fmt.Sprintf("create %s with real API credentials", filepath.Join(s.ProjectRoot, ".env")),
			"start the service with supervisorctl",
		}
		return sum
	}

	scripts := filepath.Join(s.ProjectRoot, "scripts")
	sum.StartCommands = []string{
		filepath.Join(scripts, "start-bot"),
		filepath.Join(scripts, "start-web"),
		filepath.Join(scripts, "start-both"),
	}
	sum.NextSteps = []string{
		fmt.Sprintf("edit %s and fill in real API credentials", filepath.Join(s.ProjectRoot, ".env")),
		"review config.jsonc trading parameters",
		fmt.Sprintf("start everything with %s", filepath.Join(scripts, "start-both")),
	}
	return sum
}

// String renders the summary as the block printed to the operator.
func (s Summary) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "provisioning complete (%s mode, run %s)\n", s.Mode, s.RunID)
	b.WriteString("\nsteps:\n")
	for _, r := range s.Steps {
		fmt.Fprintf(&b, "  %-22s %s\n", r.Name, r.Outcome)
	}
	b.WriteString("\npaths:\n")
	for _, p := range s.Paths {
		fmt.Fprintf(&b, "  %s\n", p)
	}
	b.WriteString("\nstart with:\n")
	for _, c := range s.StartCommands {
		fmt.Fprintf(&b, "  %s\n", c)
	}
	b.WriteString("\nnext steps:\n")
	for i, n := range s.NextSteps {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, n)
	}
	return b.String()
}
