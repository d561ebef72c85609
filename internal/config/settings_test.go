package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestProductionDefaults(t *testing.T) {
	s := Production()
	if s.Mode != ModeProduction {
		t.Fatalf("unexpected mode: %v", s.Mode)
	}
	if s.ProjectRoot != "/opt/trading-bot" || s.VenvDir != "/opt/trading-bot/venv" {
		t.Fatalf("unexpected paths: %+v", s)
	}
	if s.ServiceUser != "tradebot" {
		t.Fatalf("unexpected service user: %q", s.ServiceUser)
	}
	found := false
	for _, p := range s.Packages {
		if p == "supervisor" {
			found = true
		}
	}
	if !found {
		t.Fatalf("package set must include the supervisor: %v", s.Packages)
	}
}

func TestProductionHonorsEnvironment(t *testing.T) {
	t.Setenv("TRADEBOT_USER", "quant")
	t.Setenv("TRADEBOT_WEB_PORT", "9100")
	t.Setenv("TRADEBOT_LEVERAGE", "10")
	t.Setenv("TRADEBOT_AUTOSTART", "false")

	s := Production()
	if s.ServiceUser != "quant" {
		t.Fatalf("TRADEBOT_USER not honored: %q", s.ServiceUser)
	}
	if s.WebPort != 9100 || s.Leverage != 10 {
		t.Fatalf("integer overrides not honored: %+v", s)
	}
	if s.AutoStart {
		t.Fatalf("TRADEBOT_AUTOSTART=false must disable autostart")
	}
}

func TestProductionIgnoresMalformedEnvironment(t *testing.T) {
	t.Setenv("TRADEBOT_WEB_PORT", "not-a-port")
	t.Setenv("TRADEBOT_AUTOSTART", "not-a-bool")

	s := Production()
	if s.WebPort != 8000 {
		t.Fatalf("malformed port must fall back to default: %d", s.WebPort)
	}
	if !s.AutoStart {
		t.Fatalf("malformed bool must fall back to default")
	}
}

func TestDevelopmentRootsAtCwd(t *testing.T) {
	s := Development("/home/dev/bot")
	if s.Mode != ModeDevelopment {
		t.Fatalf("unexpected mode: %v", s.Mode)
	}
	if s.ProjectRoot != "/home/dev/bot" || s.VenvDir != "/home/dev/bot/venv" {
		t.Fatalf("unexpected paths: %+v", s)
	}
	if s.ServiceUser != "" {
		t.Fatalf("development runs as the invoking account, got %q", s.ServiceUser)
	}
	if s.SupervisorConf != "" {
		t.Fatalf("development mode writes scripts, not a descriptor")
	}
}

func TestLoadWithoutOverrideFile(t *testing.T) {
	dir := t.TempDir()
	s, err := Load(ModeDevelopment, dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.ProjectRoot != dir {
		t.Fatalf("unexpected root: %q", s.ProjectRoot)
	}
}

func TestLoadAppliesOverrides(t *testing.T) {
	dir := t.TempDir()
	override := `
service_user: quant
project_root: /srv/bot
extra_packages: [htop]
trading_symbol: ETHUSDT
web_port: 9000
`
	if err := os.WriteFile(filepath.Join(dir, OverrideFile), []byte(override), 0o644); err != nil {
		t.Fatalf("write override: %v", err)
	}

	s, err := Load(ModeProduction, dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.ServiceUser != "quant" {
		t.Fatalf("service_user override not applied: %q", s.ServiceUser)
	}
	if s.ProjectRoot != "/srv/bot" || s.VenvDir != "/srv/bot/venv" {
		t.Fatalf("project_root override must move the venv too: %+v", s)
	}
	if s.TradingSymbol != "ETHUSDT" || s.WebPort != 9000 {
		t.Fatalf("overrides not applied: %+v", s)
	}
	last := s.Packages[len(s.Packages)-1]
	if last != "htop" {
		t.Fatalf("extra package not appended: %v", s.Packages)
	}
}

func TestLoadIgnoresRootOverridesInDevelopment(t *testing.T) {
	dir := t.TempDir()
	override := "service_user: quant\nproject_root: /srv/bot\n"
	if err := os.WriteFile(filepath.Join(dir, OverrideFile), []byte(override), 0o644); err != nil {
		t.Fatalf("write override: %v", err)
	}

	s, err := Load(ModeDevelopment, dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.ProjectRoot != dir || s.ServiceUser != "" {
		t.Fatalf("development runs must stay rooted at the checkout: %+v", s)
	}
}

func TestLoadRejectsMalformedOverride(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, OverrideFile), []byte("{invalid"), 0o644); err != nil {
		t.Fatalf("write override: %v", err)
	}
	if _, err := Load(ModeProduction, dir); err == nil {
		t.Fatalf("malformed provision.yaml must fail the run")
	}
}
