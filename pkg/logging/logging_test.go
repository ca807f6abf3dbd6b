package logging

import "testing"

func TestNewProductionLoggerBuilds(t *testing.T) {
	logger, err := New(false)
	if err != nil {
		t.Fatalf("New(false) error: %v", err)
	}
	if logger == nil {
		t.Fatal("expected non-nil logger")
	}
	_ = logger.Sync()
}

func TestNewDebugLoggerBuilds(t *testing.T) {
	logger, err := New(true)
	if err != nil {
		t.Fatalf("New(true) error: %v", err)
	}
	if logger == nil {
		t.Fatal("expected non-nil logger")
	}
	_ = logger.Sync()
}

func TestNopDiscardsWithoutError(t *testing.T) {
	logger := Nop()
	logger.Info("this should go nowhere")
}
