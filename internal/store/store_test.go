package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		if err := s.DB().QueryRow("PRAGMA " + tt.pragma).Scan(&got); err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestMigrationIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "twice.db")
	for i := 0; i < 2; i++ {
		s, err := Open(path)
		if err != nil {
			t.Fatalf("open #%d: %v", i+1, err)
		}
		s.Close()
	}
}

func TestAppendAndQueryLLMEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	events := []LLMRequestEventData{
		{Provider: "mock", Model: "mock", Purpose: "wordle/title", QuizID: "q1", InputTokens: 10, OutputTokens: 4, LatencyMs: 100, Success: true, RequestBody: "[user]\nhi", ResponseBody: "Space Words"},
		{Provider: "mock", Model: "mock", Purpose: "wordle/content", QuizID: "q1", InputTokens: 50, OutputTokens: 80, LatencyMs: 300, Success: true},
		{Provider: "mock", Model: "gpt-4o-mini", Purpose: "wordle/title", QuizID: "q2", InputTokens: 12, OutputTokens: 6, LatencyMs: 200, Success: false, ErrorMessage: "rate limited"},
	}
	for _, e := range events {
		if err := repo.AppendLLMRequest(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	all, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("got %d events, want 3", len(all))
	}
	// Newest first.
	if all[0].Purpose != "wordle/title" || all[0].Success {
		t.Errorf("first event = %+v, want the failed title call", all[0])
	}
	if all[0].ErrorMessage != "rate limited" {
		t.Errorf("ErrorMessage = %q", all[0].ErrorMessage)
	}
	if all[0].ID <= all[1].ID {
		t.Errorf("events not ordered newest first: %d then %d", all[0].ID, all[1].ID)
	}

	limited, err := repo.QueryLLMEvents(ctx, QueryOpts{Limit: 1})
	if err != nil {
		t.Fatalf("query limit: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("limit: got %d events, want 1", len(limited))
	}

	titles, err := repo.QueryLLMEvents(ctx, QueryOpts{Purpose: "wordle/title"})
	if err != nil {
		t.Fatalf("query purpose: %v", err)
	}
	if len(titles) != 2 {
		t.Errorf("purpose filter: got %d events, want 2", len(titles))
	}

	q1, err := repo.QueryLLMEvents(ctx, QueryOpts{QuizID: "q1"})
	if err != nil {
		t.Fatalf("query quiz: %v", err)
	}
	if len(q1) != 2 {
		t.Errorf("quiz filter: got %d events, want 2", len(q1))
	}

	after, err := repo.QueryLLMEvents(ctx, QueryOpts{After: all[2].ID})
	if err != nil {
		t.Fatalf("query after: %v", err)
	}
	if len(after) != 2 {
		t.Errorf("after filter: got %d events, want 2", len(after))
	}

	future, err := repo.QueryLLMEvents(ctx, QueryOpts{From: time.Now().Add(time.Hour)})
	if err != nil {
		t.Fatalf("query from: %v", err)
	}
	if len(future) != 0 {
		t.Errorf("from filter: got %d events, want 0", len(future))
	}
}

func TestGetLLMEvent(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	if err := repo.AppendLLMRequest(ctx, LLMRequestEventData{
		Provider:     "anthropic",
		Model:        "claude-haiku-4-5",
		Purpose:      "number_sequence/content",
		Success:      true,
		RequestBody:  "[system]\nYou are a puzzle writer",
		ResponseBody: `{"answer":"13"}`,
	}); err != nil {
		t.Fatalf("append: %v", err)
	}

	all, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	if err != nil || len(all) != 1 {
		t.Fatalf("query: %v (len %d)", err, len(all))
	}

	e, err := repo.GetLLMEvent(ctx, all[0].ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if e == nil {
		t.Fatal("expected event, got nil")
	}
	if e.ResponseBody != `{"answer":"13"}` {
		t.Errorf("ResponseBody = %q", e.ResponseBody)
	}
	if e.Timestamp.IsZero() || time.Since(e.Timestamp) > time.Minute {
		t.Errorf("Timestamp = %v, want roughly now", e.Timestamp)
	}

	missing, err := repo.GetLLMEvent(ctx, 9999)
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for missing event, got %+v", missing)
	}
}

func TestLLMUsageAggregates(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	add := func(model, purpose string, in, out int, latency int64) {
		t.Helper()
		err := repo.AppendLLMRequest(ctx, LLMRequestEventData{
			Provider: "openai", Model: model, Purpose: purpose,
			InputTokens: in, OutputTokens: out, LatencyMs: latency, Success: true,
		})
		if err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	add("gpt-4o-mini", "wordle/content", 100, 200, 100)
	add("gpt-4o-mini", "wordle/content", 50, 100, 300)
	add("gpt-4o", "wordle/hint", 10, 20, 50)

	byPurpose, err := repo.LLMUsageByPurpose(ctx)
	if err != nil {
		t.Fatalf("usage by purpose: %v", err)
	}
	if len(byPurpose) != 2 {
		t.Fatalf("got %d purposes, want 2", len(byPurpose))
	}
	top := byPurpose[0]
	if top.Purpose != "wordle/content" || top.Calls != 2 || top.InputTokens != 150 || top.OutputTokens != 300 {
		t.Errorf("top purpose = %+v", top)
	}
	if top.AvgLatencyMs != 200 {
		t.Errorf("AvgLatencyMs = %d, want 200", top.AvgLatencyMs)
	}

	byModel, err := repo.LLMUsageByModel(ctx)
	if err != nil {
		t.Fatalf("usage by model: %v", err)
	}
	if len(byModel) != 2 {
		t.Fatalf("got %d models, want 2", len(byModel))
	}
	if byModel[0].Model != "gpt-4o-mini" || byModel[0].Calls != 2 {
		t.Errorf("top model = %+v", byModel[0])
	}
}

func TestDefaultDBPathHonoursEnv(t *testing.T) {
	want := filepath.Join(t.TempDir(), "nested", "p.db")
	t.Setenv("PUZZLEGEN_DB", want)

	got, err := DefaultDBPath()
	if err != nil {
		t.Fatalf("DefaultDBPath: %v", err)
	}
	if got != want {
		t.Errorf("DefaultDBPath = %q, want %q", got, want)
	}
}

func TestDefaultDBPathXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PUZZLEGEN_DB", "")
	t.Setenv("XDG_DATA_HOME", dir)

	got, err := DefaultDBPath()
	if err != nil {
		t.Fatalf("DefaultDBPath: %v", err)
	}
	if want := filepath.Join(dir, "puzzlegen", "puzzlegen.db"); got != want {
		t.Errorf("DefaultDBPath = %q, want %q", got, want)
	}
}
