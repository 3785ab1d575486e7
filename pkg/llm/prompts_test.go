package llm

import (
	"strings"
	"testing"

	"github.com/Aashka19/CodeEcho/pkg/types"
)

func TestPromptRegistryFallsBackToGeneral(t *testing.T) {
	r := NewPromptRegistry()
	if r.Get("nonsense").SystemMessage != r.Get(types.AnalysisGeneral).SystemMessage {
		t.Errorf("unknown type should use the general template")
	}
	if r.Get(types.AnalysisBug).SystemMessage == r.Get(types.AnalysisGeneral).SystemMessage {
		t.Errorf("bug template should differ from general")
	}
}

func TestRenderSubstitutesPlaceholders(t *testing.T) {
	r := NewPromptRegistry()
	item := types.FeedbackItem{Title: "Bot crashes", Body: "On startup", Source: types.SourceGitHub}

	general := r.Render(types.AnalysisGeneral, item)
	for _, want := range []string{"FEEDBACK SOURCE: github", "TITLE: Bot crashes", "DESCRIPTION: On startup"} {
		if !strings.Contains(general.User, want) {
			t.Errorf("general prompt missing %q:\n%s", want, general.User)
		}
	}

	bug := r.Render(types.AnalysisBug, item)
	if !strings.Contains(bug.User, "Title: Bot crashes\n\nDescription: On startup") {
		t.Errorf("bug prompt should embed prepared text:\n%s", bug.User)
	}
	for _, p := range []Prompt{general, bug} {
		if strings.Contains(p.User, "{{") {
			t.Errorf("unresolved placeholder in %q", p.User)
		}
	}
}

func TestPrepareFeedbackText(t *testing.T) {
	if got := PrepareFeedbackText(types.FeedbackItem{}); got != "Title: No Title Provided\n\nDescription: No Body Content Provided" {
		t.Errorf("unexpected defaults %q", got)
	}
	raw := types.FeedbackItem{Body: "just text", SourceFields: map[string]any{types.FieldRawText: true}}
	if got := PrepareFeedbackText(raw); got != "just text" {
		t.Errorf("plain text should be verbatim, got %q", got)
	}
}

func TestParseAnalysisRejectsNonObjects(t *testing.T) {
	for _, raw := range []string{"", "null", "[1,2]", "analysis: fine"} {
		if _, err := ParseAnalysis(raw); err == nil {
			t.Errorf("expected parse error for %q", raw)
		}
	}
}
