package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"go.uber.org/zap"

	"github.com/podscribe-team/podscribe/internal/adapter/repository"
	"github.com/podscribe-team/podscribe/internal/domain/entities"
)

func newSessionFixture(t *testing.T) (*Session, *repository.SessionRepository) {
	t.Helper()
	sessions, err := repository.NewSessionRepository(t.TempDir(), zap.NewNop())
	if err != nil {
		t.Fatalf("NewSessionRepository: %v", err)
	}
	return NewSession(sessions, NewUserLocks(), testOperator, zap.NewNop()), sessions
}

func TestSessionStatus(t *testing.T) {
	h, sessions := newSessionFixture(t)
	seedTranscript(t, sessions)

	c, rec := newEchoContext(t, http.MethodGet, "/v1/session", "")
	if err := h.Status(c); err != nil {
		t.Fatalf("Status: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp struct {
		Data sessionStatusResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Data.State != string(entities.StateHasTranscript) {
		t.Errorf("state = %q", resp.Data.State)
	}
	if resp.Data.PodcastTitle != "Go Time" {
		t.Errorf("title = %q", resp.Data.PodcastTitle)
	}
	if resp.Data.TranscriptSize == 0 {
		t.Error("transcript size = 0")
	}
}

func TestAddAndListNotes(t *testing.T) {
	h, sessions := newSessionFixture(t)
	seedTranscript(t, sessions)

	c, rec := newEchoContext(t, http.MethodPost, "/v1/notes", `{"text":"revisit the fuzzing segment"}`)
	if err := h.AddNote(c); err != nil {
		t.Fatalf("AddNote: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	c, rec = newEchoContext(t, http.MethodGet, "/v1/notes", "")
	if err := h.ListNotes(c); err != nil {
		t.Fatalf("ListNotes: %v", err)
	}

	var resp struct {
		Data struct {
			Notes []string `json:"notes"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(resp.Data.Notes) != 1 || resp.Data.Notes[0] != "revisit the fuzzing segment" {
		t.Errorf("notes = %v", resp.Data.Notes)
	}
}

func TestAddNoteRequiresTranscript(t *testing.T) {
	h, _ := newSessionFixture(t)

	c, rec := newEchoContext(t, http.MethodPost, "/v1/notes", `{"text":"a note"}`)
	if err := h.AddNote(c); err != nil {
		t.Fatalf("AddNote: %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", rec.Code)
	}
}

func TestAddNoteValidation(t *testing.T) {
	h, sessions := newSessionFixture(t)
	seedTranscript(t, sessions)

	c, rec := newEchoContext(t, http.MethodPost, "/v1/notes", `{"text":""}`)
	if err := h.AddNote(c); err != nil {
		t.Fatalf("AddNote: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestSessionClear(t *testing.T) {
	h, sessions := newSessionFixture(t)
	seedTranscript(t, sessions)

	c, rec := newEchoContext(t, http.MethodDelete, "/v1/session", "")
	if err := h.Clear(c); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	session := sessions.Load(testOperator)
	if session.TranscriptText != "" || session.State != entities.StateIdle {
		t.Errorf("session not cleared: state %q", session.State)
	}
}
