package repository

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/podscribe-team/podscribe/internal/domain/entities"
)

func newTestRepo(t *testing.T) *SessionRepository {
	t.Helper()
	repo, err := NewSessionRepository(t.TempDir(), zap.NewNop())
	if err != nil {
		t.Fatalf("NewSessionRepository: %v", err)
	}
	return repo
}

func TestSessionRoundtrip(t *testing.T) {
	repo := newTestRepo(t)

	session := entities.NewSession("alice")
	session.ApplyTranscript("https://example.com/ep1", &entities.TranscriptResult{
		Text:     "we talked about generics",
		Language: "en",
		Source:   entities.SourceCaptions,
		Title:    "Go Time",
		Duration: 3600,
	}, "Unknown")
	session.Notes = append(session.Notes, "check the generics proposal")
	session.Insights = "## Summary\nGenerics episode."

	if err := repo.Save(session); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded := repo.Load("alice")
	if loaded.PodcastTitle != "Go Time" {
		t.Errorf("PodcastTitle = %q, want %q", loaded.PodcastTitle, "Go Time")
	}
	if loaded.TranscriptText != "we talked about generics" {
		t.Errorf("TranscriptText = %q", loaded.TranscriptText)
	}
	if loaded.State != entities.StateHasTranscript {
		t.Errorf("State = %q, want %q", loaded.State, entities.StateHasTranscript)
	}
	if len(loaded.Notes) != 1 || loaded.Notes[0] != "check the generics proposal" {
		t.Errorf("Notes = %v", loaded.Notes)
	}
	if loaded.Insights != "## Summary\nGenerics episode." {
		t.Errorf("Insights = %q", loaded.Insights)
	}
}

func TestLoadMissingReturnsFreshSession(t *testing.T) {
	repo := newTestRepo(t)

	session := repo.Load("nobody")
	if session.UserID != "nobody" {
		t.Errorf("UserID = %q, want %q", session.UserID, "nobody")
	}
	if session.State != entities.StateIdle {
		t.Errorf("State = %q, want %q", session.State, entities.StateIdle)
	}
}

func TestLoadCorruptReturnsFreshSession(t *testing.T) {
	repo := newTestRepo(t)

	path := filepath.Join(repo.dir, "bob.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	session := repo.Load("bob")
	if session.State != entities.StateIdle {
		t.Errorf("State = %q, want fresh idle session", session.State)
	}
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	repo := newTestRepo(t)

	session := entities.NewSession("carol")
	for i := 0; i < 3; i++ {
		if err := repo.Save(session); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	entries, err := os.ReadDir(repo.dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Errorf("leftover temp file: %s", e.Name())
		}
	}
}

func TestClearRemovesSession(t *testing.T) {
	repo := newTestRepo(t)

	session := entities.NewSession("dave")
	session.Notes = append(session.Notes, "remember this")
	if err := repo.Save(session); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := repo.Clear("dave"); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if err := repo.Clear("dave"); err != nil {
		t.Errorf("Clear on missing session: %v", err)
	}

	loaded := repo.Load("dave")
	if len(loaded.Notes) != 0 {
		t.Errorf("expected fresh session after clear, got notes %v", loaded.Notes)
	}
}

func TestPathTraversalSanitized(t *testing.T) {
	repo := newTestRepo(t)

	session := entities.NewSession("../../evil")
	if err := repo.Save(session); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if _, err := os.Stat(filepath.Join(repo.dir, "evil.json")); err != nil {
		t.Errorf("expected session stored inside repo dir: %v", err)
	}
}
