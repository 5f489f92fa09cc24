package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func setupEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("LIFESYS_CONFIG", "")
	t.Setenv("LIFESYS_DATA_DIR", dir)
	t.Setenv("LIFESYS_STORE", "file")
	t.Setenv("LIFESYS_LOG_FILE", "")
	t.Setenv("API_KEY", "")
	t.Setenv("LIFESYS_API_KEY", "")
	t.Setenv("LIFESYS_API_BASE_URL", "")
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(t.Context())
	return out.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := run(t, args...)
	if err != nil {
		t.Fatalf("%v: %v\n%s", args, err, out)
	}
	return out
}

func TestTaskCommandsPersistAcrossRuns(t *testing.T) {
	setupEnv(t)

	mustRun(t, "name", "Ada")
	mustRun(t, "task", "add", "Ship", "report")
	mustRun(t, "task", "add", "-p", "could", "Tidy", "desk")

	out := mustRun(t, "task", "list")
	for _, want := range []string{"COMMAND_CENTER // CAREER", "1. [ ] Ship report", "2. [ ] Tidy desk", "Sector Clear"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in:\n%s", want, out)
		}
	}

	mustRun(t, "task", "toggle", "1")
	out = mustRun(t, "task", "list")
	if !strings.Contains(out, "1. [x] Ship report") {
		t.Fatalf("expected completed task, got:\n%s", out)
	}

	mustRun(t, "task", "rm", "2")
	out = mustRun(t, "state", "show")
	if !strings.Contains(out, "operator: Ada") || !strings.Contains(out, "WORK     1 task(s), 0 open") {
		t.Fatalf("unexpected summary:\n%s", out)
	}
	if !strings.Contains(out, "saved: ") || strings.Contains(out, "saved: never") {
		t.Fatalf("expected a save time in summary:\n%s", out)
	}

	if _, err := run(t, "task", "rm", "7"); err == nil {
		t.Fatal("expected error for missing task number")
	}
}

func TestTaskAddToOtherDomain(t *testing.T) {
	setupEnv(t)
	out := mustRun(t, "state", "show")
	if !strings.Contains(out, "saved: never") || !strings.Contains(out, "load: fresh") {
		t.Fatalf("expected unsaved fresh state:\n%s", out)
	}
	mustRun(t, "task", "add", "--domain", "leisure", "Hike")
	out = mustRun(t, "task", "list", "-d", "JOY")
	if !strings.Contains(out, "RECREATION_DECK // JOY") || !strings.Contains(out, "Hike") {
		t.Fatalf("unexpected joy board:\n%s", out)
	}
	if _, err := run(t, "task", "add", "-d", "MARS", "x"); err == nil {
		t.Fatal("expected unknown domain error")
	}
}

func TestHealthSetClampsAndKeepsOtherFields(t *testing.T) {
	setupEnv(t)
	mustRun(t, "health", "set", "--water", "12", "--mood", "steady")
	out := mustRun(t, "health", "set", "--sleep", "6.5")
	for _, want := range []string{"water: 8/8", "sleep: 6.5h", "mood: steady"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in:\n%s", want, out)
		}
	}
	if _, err := run(t, "health", "set", "--period", "01/02/2026"); err == nil {
		t.Fatal("expected invalid date error")
	}
}

func TestSkillSetAndSync(t *testing.T) {
	setupEnv(t)
	out := mustRun(t, "skill", "set", "--name", "Go", "--progress", "140")
	if !strings.Contains(out, "skill: Go") || !strings.Contains(out, "progress: 100%") {
		t.Fatalf("unexpected skill output:\n%s", out)
	}
	out = mustRun(t, "skill", "sync")
	if !strings.Contains(out, "next check-in in 7 days") {
		t.Fatalf("expected fresh skill after sync:\n%s", out)
	}
}

func TestStateExportAndReset(t *testing.T) {
	setupEnv(t)
	mustRun(t, "name", "Ada")
	out := mustRun(t, "state", "export")
	if !strings.Contains(out, `"userName": "Ada"`) {
		t.Fatalf("unexpected json export:\n%s", out)
	}
	out = mustRun(t, "state", "export", "--format", "yaml")
	if !strings.Contains(out, "userName: Ada") || !strings.Contains(out, "activeDomain: WORK") {
		t.Fatalf("unexpected yaml export:\n%s", out)
	}
	if _, err := run(t, "state", "export", "-f", "xml"); err == nil {
		t.Fatal("expected unsupported format error")
	}

	mustRun(t, "state", "reset")
	out = mustRun(t, "state", "show")
	if !strings.Contains(out, "(not onboarded)") {
		t.Fatalf("expected default state after reset:\n%s", out)
	}
}

func TestSuggestWithoutKeyFails(t *testing.T) {
	setupEnv(t)
	_, err := run(t, "suggest", "work", "get", "promoted")
	if err == nil || !strings.Contains(err.Error(), "API_KEY") {
		t.Fatalf("expected offline error, got %v", err)
	}
	out := mustRun(t, "reflect")
	if !strings.Contains(out, "Stay hydrated and rest well.") {
		t.Fatalf("expected disabled reflection fallback, got %q", out)
	}
}

func TestSuggestMergesGeneratedTasks(t *testing.T) {
	setupEnv(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-goog-api-key") != "test-key" {
			http.Error(w, "missing key", http.StatusUnauthorized)
			return
		}
		text := `[{"text":"Do X","priority":"MUST"},{"text":"Do Z","priority":"WOULD"}]`
		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []any{map[string]any{"content": map[string]any{"parts": []any{map[string]any{"text": text}}}}},
		})
	}))
	defer srv.Close()
	t.Setenv("API_KEY", "test-key")
	t.Setenv("LIFESYS_API_BASE_URL", srv.URL)

	out := mustRun(t, "suggest", "career", "get", "promoted")
	if !strings.Contains(out, "Added 2 task(s)") {
		t.Fatalf("unexpected suggest output:\n%s", out)
	}
	out = mustRun(t, "task", "list", "-d", "work")
	if !strings.Contains(out, "Do X") || !strings.Contains(out, "Do Z") {
		t.Fatalf("expected merged tasks:\n%s", out)
	}
}

func TestInvalidConfigFailsStartup(t *testing.T) {
	setupEnv(t)
	t.Setenv("LIFESYS_STORE", "postgres")
	if _, err := run(t, "state", "show"); err == nil {
		t.Fatal("expected invalid store error")
	}
}
