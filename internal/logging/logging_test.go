package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewWritesToFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.log")

	log, closer, err := New(Config{Level: "debug", Format: "text", Output: path})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer closer.Close()

	log.Infof("hello %s", "world")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "hello world") {
		t.Errorf("log file = %q, want it to contain %q", data, "hello world")
	}
}

func TestNewRejectsInvalidLevel(t *testing.T) {
	_, _, err := New(Config{Level: "not-a-level"})
	if err == nil {
		t.Fatal("expected an error for an invalid log level")
	}
}

func TestWithFieldDerivesLogger(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.log")

	log, closer, err := New(Config{Level: "info", Format: "json", Output: path})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer closer.Close()

	derived := log.WithField("worker", 3)
	derived.Infof("started")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), `"worker":3`) {
		t.Errorf("log file = %q, want it to contain the worker field", data)
	}
}
