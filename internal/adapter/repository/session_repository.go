package repository

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/podscribe-team/podscribe/internal/domain/entities"
)

// SessionRepository persists sessions as one JSON file per user.
type SessionRepository struct {
	dir    string
	logger *zap.Logger
}

func NewSessionRepository(dir string, logger *zap.Logger) (*SessionRepository, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create sessions directory: %w", err)
	}
	return &SessionRepository{dir: dir, logger: logger}, nil
}

// Load returns the stored session for the user, or a fresh one when nothing
// usable is on disk. A corrupt file is logged and replaced rather than
// surfaced as an error.
func (r *SessionRepository) Load(userID string) *entities.Session {
	path := r.path(userID)

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			r.logger.Warn("failed to read session file, starting fresh",
				zap.String("user_id", userID),
				zap.Error(err))
		}
		return entities.NewSession(userID)
	}

	var session entities.Session
	if err := json.Unmarshal(data, &session); err != nil {
		r.logger.Warn("corrupt session file, starting fresh",
			zap.String("user_id", userID),
			zap.Error(err))
		return entities.NewSession(userID)
	}
	session.UserID = userID
	return &session
}

// Save writes the session atomically via a temp file and rename.
func (r *SessionRepository) Save(session *entities.Session) error {
	session.UpdatedAt = time.Now()

	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	tmp, err := os.CreateTemp(r.dir, "session-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp session file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write session file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close session file: %w", err)
	}

	if err := os.Rename(tmpName, r.path(session.UserID)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace session file: %w", err)
	}
	return nil
}

// Clear removes the stored session. A missing file is not an error.
func (r *SessionRepository) Clear(userID string) error {
	err := os.Remove(r.path(userID))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}

func (r *SessionRepository) path(userID string) string {
	// filepath.Base strips any path separators a caller could sneak in
	return filepath.Join(r.dir, filepath.Base(userID)+".json")
}
