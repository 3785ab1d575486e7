package stackoverflow

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Aashka19/CodeEcho/internal/logging"
	"github.com/Aashka19/CodeEcho/pkg/types"
)

const questionsFixture = `{
  "items": [
    {
      "title": "Bot can&#39;t receive messages",
      "body": "<p>My bot is not working</p>",
      "tags": ["microsoft-teams", "botframework"],
      "link": "https://stackoverflow.com/q/1",
      "score": 10,
      "view_count": 200,
      "answer_count": 2,
      "creation_date": 1709287200,
      "question_id": 1
    },
    {
      "question_id": 2,
      "creation_date": 1709200000
    }
  ],
  "has_more": true,
  "quota_remaining": 299
}`

func TestFetchItemsMapsQuestions(t *testing.T) {
	logging.Discard()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/questions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("site") != "stackoverflow" || q.Get("tagged") != "teams-apps" || q.Get("sort") != "activity" ||
			q.Get("order") != "desc" || q.Get("pagesize") != "3" || q.Get("filter") != "withbody" || q.Get("key") != "so-key" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		w.Write([]byte(questionsFixture))
	}))
	defer server.Close()

	client := NewClient([]string{"teams-apps", "ignored"}, WithBaseURL(server.URL), WithKey("so-key"))
	items, err := client.FetchItems(context.Background(), 3)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}

	first := items[0]
	if first.Title != "Bot can't receive messages" {
		t.Errorf("title should be unescaped, got %q", first.Title)
	}
	if first.Source != types.SourceStackOverflow || first.URL != "https://stackoverflow.com/q/1" {
		t.Errorf("unexpected identity %+v", first)
	}
	if !first.CreatedAt.Equal(time.Unix(1709287200, 0)) {
		t.Errorf("unexpected created_at %v", first.CreatedAt)
	}
	if first.Float("score") != 10 || first.Float("view_count") != 200 || first.Float("answer_count") != 2 {
		t.Errorf("unexpected numeric fields %v", first.SourceFields)
	}

	second := items[1]
	if second.Title != "No Title" || second.Body != "" {
		t.Errorf("missing fields should default, got %+v", second)
	}
	if !second.Has("view_count") || second.Float("view_count") != 0 || len(second.Strings("tags")) != 0 {
		t.Errorf("missing counters should be zero, got %v", second.SourceFields)
	}
}

func TestFetchItemsAPIError(t *testing.T) {
	logging.Discard()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error_id":502,"error_name":"throttle_violation","error_message":"too many requests"}`))
	}))
	defer server.Close()

	if _, err := NewClient(nil, WithBaseURL(server.URL)).FetchItems(context.Background(), 5); err == nil {
		t.Fatal("expected error")
	}
}

func TestNewClientDefaultTags(t *testing.T) {
	c := NewClient(nil)
	if len(c.tags) != 3 || c.tags[0] != "microsoft-teams" {
		t.Errorf("unexpected default tags %v", c.tags)
	}
}
