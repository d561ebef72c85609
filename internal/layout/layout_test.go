package layout

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tradeops/botstrap/internal/system"
)

type fakeRunner struct {
	calls [][]string
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	f.calls = append(f.calls, append([]string{name}, args...))
	return nil, nil
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newProvisioner(fake *fakeRunner) *Provisioner {
	return New(system.NewAccounts(fake, discard()), discard())
}

func TestEnsureCreatesTree(t *testing.T) {
	root := t.TempDir()
	project := filepath.Join(root, "trading-bot")
	logs := filepath.Join(root, "log", "trading-bot")
	subdirs := []string{
		filepath.Join(project, "data"),
		filepath.Join(project, "logs"),
		filepath.Join(project, "scripts"),
		filepath.Join(project, "backups"),
	}

	fake := &fakeRunner{}
	err := newProvisioner(fake).Ensure(context.Background(), []string{project, logs}, subdirs, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, dir := range append([]string{project, logs}, subdirs...) {
		info, statErr := os.Stat(dir)
		if statErr != nil || !info.IsDir() {
			t.Fatalf("expected directory %s to exist: %v", dir, statErr)
		}
	}
}

func TestEnsureIsIdempotent(t *testing.T) {
	root := t.TempDir()
	project := filepath.Join(root, "trading-bot")
	fake := &fakeRunner{}
	p := newProvisioner(fake)

	for i := 0; i < 2; i++ {
		if err := p.Ensure(context.Background(), []string{project}, nil, ""); err != nil {
			t.Fatalf("run %d: pre-existing directories must not error: %v", i+1, err)
		}
	}
}

func TestEnsureAppliesOwnership(t *testing.T) {
	root := t.TempDir()
	project := filepath.Join(root, "trading-bot")
	logs := filepath.Join(root, "logs")

	fake := &fakeRunner{}
	err := newProvisioner(fake).Ensure(context.Background(), []string{project, logs}, nil, "tradebot")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fake.calls) != 2 {
		t.Fatalf("expected one chown per top-level dir, got %v", fake.calls)
	}
	for i, dir := range []string{project, logs} {
		got := strings.Join(fake.calls[i], " ")
		want := "chown -R tradebot:tradebot " + dir
		if got != want {
			t.Fatalf("unexpected chown: got %q want %q", got, want)
		}
	}
}

func TestEnsureSkipsOwnershipWithoutOwner(t *testing.T) {
	fake := &fakeRunner{}
	err := newProvisioner(fake).Ensure(context.Background(), []string{t.TempDir()}, nil, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fake.calls) != 0 {
		t.Fatalf("development runs must not chown: %v", fake.calls)
	}
}
