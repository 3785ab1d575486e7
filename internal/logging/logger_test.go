package logging

import (
	"bytes"
	"strings"
	"sync"
	"testing"
)

func TestInitWritesAtConfiguredLevel(t *testing.T) {
	var buf bytes.Buffer
	if err := Init("warn", &buf); err != nil {
		t.Fatalf("init: %v", err)
	}
	defer Discard()

	Info("hidden message")
	Warn("visible message", "source", "github")

	out := buf.String()
	if strings.Contains(out, "hidden message") {
		t.Errorf("info message should be filtered at warn level, got %q", out)
	}
	if !strings.Contains(out, "visible message") || !strings.Contains(out, "source=github") {
		t.Errorf("warn message with keyvals expected, got %q", out)
	}
}

func TestParseLevelRejectsUnknown(t *testing.T) {
	if _, err := ParseLevel("verbose"); err == nil {
		t.Fatal("expected error for unknown level")
	}
	for _, lvl := range []string{"", "debug", "info", "warning", "error"} {
		if _, err := ParseLevel(lvl); err != nil {
			t.Errorf("level %q should parse: %v", lvl, err)
		}
	}
}

func TestInitWhileLogging(t *testing.T) {
	defer Discard()

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				Info("fetched feedback", "count", j)
			}
		}()
	}
	for i := 0; i < 10; i++ {
		var buf bytes.Buffer
		if err := Init("error", &buf); err != nil {
			t.Fatalf("init: %v", err)
		}
		Discard()
	}
	wg.Wait()

	if Logger() == nil {
		t.Fatal("logger should always be set")
	}
}
