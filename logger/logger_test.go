package logger

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"futuresbot/config"
)

func TestWithComponent(t *testing.T) {
	log := Logger()
	entry := log.WithComponent("test")
	if v, ok := entry.Entry.Data["component"]; !ok || v != "test" {
		t.Fatalf("component field missing: %v", entry.Entry.Data)
	}
}

func TestConfigureInvalidLevel(t *testing.T) {
	// Ensure environment variables do not override the provided level
	t.Setenv("LOG_LEVEL", "")

	log := Logger()
	if err := log.Configure(config.LoggingConfig{Level: "invalid", Format: "plain"}); err == nil {
		t.Fatalf("expected error for invalid level")
	}
}

func TestConfigureInvalidFormat(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")

	log := Logger()
	if err := log.Configure(config.LoggingConfig{Level: "info", Format: "xml"}); err == nil {
		t.Fatalf("expected error for invalid format")
	}
}

func TestNewWritesToFile(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	path := filepath.Join(t.TempDir(), "logs", "bot.log")

	log, err := New(config.LoggingConfig{Level: "info", Format: "plain", Output: path})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	log.WithComponent("bot").Error("Futures market order error: boom")
	if err := log.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	line := string(data)
	if !strings.Contains(line, " - ERROR - Futures market order error: boom") {
		t.Fatalf("unexpected log line: %q", line)
	}
	if !strings.Contains(line, "component=bot") {
		t.Fatalf("component field not rendered: %q", line)
	}
}

func TestPlainFormatter(t *testing.T) {
	entry := logrus.NewEntry(logrus.New())
	entry.Time = time.Date(2024, 3, 1, 10, 4, 5, 120_000_000, time.UTC)
	entry.Level = logrus.InfoLevel
	entry.Message = "Account balance retrieved successfully"
	entry.Data = logrus.Fields{"operation": "get_account_balance", "component": "bot"}

	out, err := (&PlainFormatter{}).Format(entry)
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	want := "2024-03-01 10:04:05,120 - INFO - Account balance retrieved successfully component=bot operation=get_account_balance\n"
	if string(out) != want {
		t.Fatalf("Format = %q, want %q", out, want)
	}
}

func TestConsoleAndFileTogether(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	path := filepath.Join(t.TempDir(), "bot.log")

	log := Logger()
	if err := log.Configure(config.LoggingConfig{Level: "debug", Format: "json", Output: path, Console: true}); err != nil {
		t.Fatalf("Configure failed: %v", err)
	}
	defer log.Close()

	var buf bytes.Buffer
	log.SetOutput(&buf)
	log.Info("hello")
	if !strings.Contains(buf.String(), `"message":"hello"`) {
		t.Fatalf("json formatter not applied: %q", buf.String())
	}
}

func TestCloseKeepsConsoleSetting(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	dir := t.TempDir()

	quiet, err := New(config.LoggingConfig{Level: "info", Format: "plain", Output: filepath.Join(dir, "quiet.log")})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := quiet.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if quiet.Out != io.Discard {
		t.Fatalf("expected discarded output after close without console, got %T", quiet.Out)
	}

	loud, err := New(config.LoggingConfig{Level: "info", Format: "plain", Output: filepath.Join(dir, "loud.log"), Console: true})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := loud.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if loud.Out != os.Stdout {
		t.Fatalf("expected stdout after close with console, got %T", loud.Out)
	}
}
