package main

import (
	"bytes"
	"encoding/json"
	"testing"
)

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestAnalyzeCommandPrintsJSON(t *testing.T) {
	t.Setenv("ANALYZER_MODE", "heuristic")
	t.Setenv("LOG_LEVEL", "error")

	out, err := runCmd(t, "analyze", "the bot crashes on startup", "--type", "bug")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}

	var result struct {
		Type     string `json:"type"`
		Source   string `json:"source"`
		Metadata struct {
			ModelUsed string `json:"modelUsed"`
		} `json:"metadata"`
	}
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("output should be JSON, got %q: %v", out, err)
	}
	if result.Type != "bug" || result.Source != "user" || result.Metadata.ModelUsed != "heuristic" {
		t.Errorf("unexpected result %+v", result)
	}
}

func TestAnalyzeCommandRequiresText(t *testing.T) {
	if _, err := runCmd(t, "analyze"); err == nil {
		t.Fatal("expected an error without text")
	}
}

func TestIngestCommandRejectsUnknownSource(t *testing.T) {
	t.Setenv("ANALYZER_MODE", "heuristic")
	t.Setenv("LOG_LEVEL", "error")

	if _, err := runCmd(t, "ingest", "--source", "teams"); err == nil {
		t.Fatal("expected an error for an unknown source")
	}
}

func TestInvalidConfigurationFails(t *testing.T) {
	t.Setenv("RETRY_ATTEMPTS", "many")

	if _, err := runCmd(t, "recent"); err == nil {
		t.Fatal("expected a configuration error")
	}
}
