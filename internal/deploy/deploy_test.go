package deploy

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/tradeops/botstrap/internal/system"
)

type fakeRunner struct {
	calls [][]string
	fail  map[string]error
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	f.calls = append(f.calls, append([]string{name}, args...))
	if err, ok := f.fail[name]; ok {
		return nil, fmt.Errorf("%s failed: %w", name, err)
	}
	return nil, nil
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newDeployer(fake *fakeRunner) *Deployer {
	return New(fake, system.NewAccounts(fake, discard()), discard())
}

func TestDeployCopiesTreeThenChowns(t *testing.T) {
	fake := &fakeRunner{}
	err := newDeployer(fake).Deploy(context.Background(), "/src/bot", "/opt/trading-bot", "tradebot")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fake.calls) != 2 {
		t.Fatalf("expected cp then chown, got %v", fake.calls)
	}
	if got := strings.Join(fake.calls[0], " "); got != "cp -a /src/bot/. /opt/trading-bot/" {
		t.Fatalf("unexpected copy command: %q", got)
	}
	if got := strings.Join(fake.calls[1], " "); got != "chown -R tradebot:tradebot /opt/trading-bot" {
		t.Fatalf("unexpected chown command: %q", got)
	}
}

func TestDeployCopyFailureIsFatal(t *testing.T) {
	fake := &fakeRunner{fail: map[string]error{"cp": errors.New("no space left")}}
	err := newDeployer(fake).Deploy(context.Background(), "/src/bot", "/opt/trading-bot", "tradebot")
	if !errors.Is(err, ErrDeploy) {
		t.Fatalf("expected ErrDeploy, got %v", err)
	}
	if len(fake.calls) != 1 {
		t.Fatalf("chown must not run after a failed copy: %v", fake.calls)
	}
}

func TestDeployChownFailureIsFatal(t *testing.T) {
	fake := &fakeRunner{fail: map[string]error{"chown": errors.New("read-only fs")}}
	err := newDeployer(fake).Deploy(context.Background(), "/src/bot", "/opt/trading-bot", "tradebot")
	if !errors.Is(err, ErrDeploy) {
		t.Fatalf("expected ErrDeploy, got %v", err)
	}
}
