package envfile

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Template holds the default values written into a fresh environment file.
// Credentials are placeholders the operator must replace before the bot
// can trade.
type Template struct {
	TradingSymbol string
	Leverage      int
	LogLevel      string
	LogFile       string
	WebHost       string
	WebPort       int
}

// Writer creates the environment file the bot reads its secrets and
// runtime parameters from.
type Writer struct {
	logger *slog.Logger
}

// NewWriter returns an environment template writer.
func NewWriter(logger *slog.Logger) *Writer {
	return &Writer{logger: logger}
}

// EnsureTemplate writes the placeholder environment file at path unless a
// file already exists there. The guard is write-once: an existing file is
// operator property and is never touched, whatever its contents.
func (w *Writer) EnsureTemplate(path string, t Template) (created bool, err error) {
	if _, statErr := os.Stat(path); statErr == nil {
		return false, nil
	} else if !os.IsNotExist(statErr) {
		return false, fmt.Errorf("stat %s: %w", path, statErr)
	}

	values := map[string]string{
		"BINANCE_API_KEY":    "your_api_key_here",
		"BINANCE_API_SECRET": "your_api_secret_here",
		"TRADING_SYMBOL":     t.TradingSymbol,
		"LEVERAGE":           strconv.Itoa(t.Leverage),
		"LOG_LEVEL":          t.LogLevel,
		"LOG_FILE":           t.LogFile,
		"WEB_HOST":           t.WebHost,
		"WEB_PORT":           strconv.Itoa(t.WebPort),
	}
	if err := godotenv.Write(values, path); err != nil {
		return false, fmt.Errorf("write %s: %w", path, err)
	}
	w.logger.Warn("environment template written, edit it before starting the bot", "path", path)
	return true, nil
}
