package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Mode selects which provisioning flavour a run executes. It is fixed per
// entry point and threaded through every component; there is no ambient
// mode state.
type Mode string

const (
	ModeProduction  Mode = "production"
	ModeDevelopment Mode = "development"
)

// OverrideFile is looked up in the working directory and, when present,
// layered over the built-in defaults.
const OverrideFile = "provision.yaml"

// basePackages is the toolchain the bot needs on a fresh host: interpreter,
// venv support, a compiler and TLS/FFI headers for native wheels, git for
// pip VCS requirements, and the supervisor itself.
var basePackages = []string{
	"python3",
	"python3-pip",
	"python3-venv",
	"build-essential",
	"libssl-dev",
	"libffi-dev",
	"git",
	"supervisor",
}

// Settings carries every fact one provisioning run needs: target paths,
// the service identity, the package set and the values rendered into the
// supervision descriptor, scripts and environment template.
type Settings struct {
	Mode Mode

	ServiceUser string
	ProjectRoot string
	VenvDir     string
	LogDir      string
	ConfigDir   string
	Subdirs     []string

	Packages     []string
	Requirements string

	EntryPoint string
	WebHost    string
	WebPort    int

	TradingSymbol string
	Leverage      int
	LogLevel      string

	// AutoStart controls whether the supervisor launches the bot on boot.
	AutoStart bool

	SupervisorConf string
}

// overrides mirrors the provision.yaml schema. Every field is optional.
type overrides struct {
	ServiceUser   string   `yaml:"service_user"`
	ProjectRoot   string   `yaml:"project_root"`
	LogDir        string   `yaml:"log_dir"`
	ConfigDir     string   `yaml:"config_dir"`
	ExtraPackages []string `yaml:"extra_packages"`
	Requirements  string   `yaml:"requirements"`
	TradingSymbol string   `yaml:"trading_symbol"`
	Leverage      int      `yaml:"leverage"`
	WebHost       string   `yaml:"web_host"`
	WebPort       int      `yaml:"web_port"`
}

// Production returns the system-wide settings for a privileged run.
func Production() Settings {
	root := "/opt/trading-bot"
	return Settings{
		Mode:           ModeProduction,
		ServiceUser:    GetString("TRADEBOT_USER", "tradebot"),
		ProjectRoot:    root,
		VenvDir:        filepath.Join(root, "venv"),
		LogDir:         "/var/log/trading-bot",
		ConfigDir:      "/etc/trading-bot",
		Subdirs:        []string{"data", "logs", "scripts", "backups"},
		Packages:       basePackages,
		Requirements:   "requirements.txt",
		EntryPoint:     "run.py",
		WebHost:        GetString("TRADEBOT_WEB_HOST", "0.0.0.0"),
		WebPort:        GetInt("TRADEBOT_WEB_PORT", 8000),
		TradingSymbol:  GetString("TRADEBOT_SYMBOL", "BTCUSDT"),
		Leverage:       GetInt("TRADEBOT_LEVERAGE", 5),
		LogLevel:       "INFO",
		AutoStart:      GetBool("TRADEBOT_AUTOSTART", true),
		SupervisorConf: "/etc/supervisor/conf.d/trading-bot.conf",
	}
}

// Development returns settings rooted at the invoking working directory,
// which is assumed to be the bot's source tree.
func Development(cwd string) Settings {
	s := Production()
	s.Mode = ModeDevelopment
	s.ServiceUser = ""
	s.ProjectRoot = cwd
	s.VenvDir = filepath.Join(cwd, "venv")
	s.LogDir = filepath.Join(cwd, "logs")
	s.ConfigDir = cwd
	s.SupervisorConf = ""
	return s
}

// Load builds settings for the given mode, applying any provision.yaml
// found in dir over the defaults.
func Load(mode Mode, dir string) (Settings, error) {
	var s Settings
	switch mode {
	case ModeProduction:
		s = Production()
	case ModeDevelopment:
		s = Development(dir)
	default:
		return Settings{}, fmt.Errorf("unknown provisioning mode %q", mode)
	}

	path := filepath.Join(dir, OverrideFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return Settings{}, fmt.Errorf("read %s: %w", path, err)
	}

	var o overrides
	if err := yaml.Unmarshal(data, &o); err != nil {
		return Settings{}, fmt.Errorf("parse %s: %w", path, err)
	}
	s.apply(o)
	return s, nil
}

func (s *Settings) apply(o overrides) {
	if o.ServiceUser != "" && s.Mode == ModeProduction {
		s.ServiceUser = o.ServiceUser
	}
	if o.ProjectRoot != "" && s.Mode == ModeProduction {
		s.ProjectRoot = o.ProjectRoot
		s.VenvDir = filepath.Join(o.ProjectRoot, "venv")
	}
	if o.LogDir != "" {
		s.LogDir = o.LogDir
	}
	if o.ConfigDir != "" {
		s.ConfigDir = o.ConfigDir
	}
	if len(o.ExtraPackages) > 0 {
		s.Packages = append(s.Packages, o.ExtraPackages...)
	}
	if o.Requirements != "" {
		s.Requirements = o.Requirements
	}
	if o.TradingSymbol != "" {
		s.TradingSymbol = o.TradingSymbol
	}
	if o.Leverage > 0 {
		s.Leverage = o.Leverage
	}
	if o.WebHost != "" {
		s.WebHost = o.WebHost
	}
	if o.WebPort > 0 {
		s.WebPort = o.WebPort
	}
}

// TopLevelDirs lists the directories that must exist and be owned by the
// service identity before a run counts as successful.
func (s Settings) TopLevelDirs() []string {
	dirs := []string{s.ProjectRoot, s.LogDir}
	if s.ConfigDir != s.ProjectRoot {
		dirs = append(dirs, s.ConfigDir)
	}
	return dirs
}

// SubdirPaths returns the required subdirectories of the project root.
func (s Settings) SubdirPaths() []string {
	paths := make([]string, 0, len(s.Subdirs))
	for _, d := range s.Subdirs {
		paths = append(paths, filepath.Join(s.ProjectRoot, d))
	}
	return paths
}
