package main

import "testing"

func TestConfigValidate(t *testing.T) {
	dir := t.TempDir()

	good := defaultConfig()
	good.root = dir
	if err := good.validate(); err != nil {
		t.Errorf("validate() on a default config over a real dir = %v, want nil", err)
	}

	badPort := good
	badPort.port = 70000
	if err := badPort.validate(); err == nil {
		t.Error("expected an error for an out-of-range port")
	}

	badWorkers := good
	badWorkers.workers = 0
	if err := badWorkers.validate(); err == nil {
		t.Error("expected an error for zero workers")
	}

	badRoot := good
	badRoot.root = "/does/not/exist/anywhere"
	if err := badRoot.validate(); err == nil {
		t.Error("expected an error for a missing document root")
	}
}
