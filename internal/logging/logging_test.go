package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInit_WritesToFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "vired.log")

	if err := Init(Config{Level: "debug", Format: "json", OutputPath: out}); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer InitNop()

	Info("trash created", Path("/tmp/x"))
	Debug("debug entry", Int("count", 3))
	if err := Sync(); err != nil {
		t.Fatalf("Sync failed: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, `"msg":"trash created"`) {
		t.Errorf("expected info entry in log, got %s", content)
	}
	if !strings.Contains(content, `"path":"/tmp/x"`) {
		t.Errorf("expected path field in log, got %s", content)
	}
	if !strings.Contains(content, `"count":3`) {
		t.Errorf("expected debug entry at debug level, got %s", content)
	}
}

func TestSetLevel_FiltersEntries(t *testing.T) {
	out := filepath.Join(t.TempDir(), "vired.log")

	if err := Init(Config{Level: "info", Format: "json", OutputPath: out}); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer InitNop()

	SetLevel("warn")
	Info("hidden")
	Warn("shown")
	_ = Sync()

	data, _ := os.ReadFile(out)
	if strings.Contains(string(data), "hidden") {
		t.Error("info entry should be filtered at warn level")
	}
	if !strings.Contains(string(data), "shown") {
		t.Error("warn entry should be written")
	}
}

func TestL_DefaultsWhenUninitialised(t *testing.T) {
	globalLogger = nil
	if L() == nil {
		t.Fatal("expected a default logger")
	}
	InitNop()
}

func TestWith_AddsFields(t *testing.T) {
	out := filepath.Join(t.TempDir(), "vired.log")

	if err := Init(Config{Level: "info", Format: "json", OutputPath: out}); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer InitNop()

	With(String("command", "vired-cli apply")).Info("running")
	_ = Sync()

	data, _ := os.ReadFile(out)
	if !strings.Contains(string(data), `"command":"vired-cli apply"`) {
		t.Errorf("expected command field in log, got %s", data)
	}
}
