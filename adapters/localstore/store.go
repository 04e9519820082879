package localstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"tinysteps/domain/core"
	"tinysteps/domain/session"
	"tinysteps/domain/stats"
	"tinysteps/internal/errors"
	"tinysteps/ports"
)

// userData is the on-disk shape: one JSON document per user holding the
// session history, derived stats, and settings together. Writing the whole
// document at once is what makes RecordSession atomic on this backend.
type userData struct {
	Sessions []session.CompletedSession `json:"sessions"`
	Stats    stats.UserStats            `json:"stats"`
	Settings stats.Settings             `json:"settings"`
}

// StoreImpl implements ports.Store on local JSON files, one per user. It is
// the backend for unauthenticated use: no server, no network, survives
// restarts.
type StoreImpl struct {
	mu  sync.Mutex
	dir string
}

// NewStore creates a local store rooted at dir, creating it if needed
func NewStore(dir string) (ports.Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "failed to create data directory")
	}
	return &StoreImpl{dir: dir}, nil
}

func (s *StoreImpl) path(userID core.UserID) string {
	// User IDs are UUIDs or opaque tokens; strip separators defensively so a
	// crafted ID cannot escape the data directory.
	name := strings.NewReplacer("/", "_", "\\", "_", "..", "_").Replace(string(userID))
	return filepath.Join(s.dir, name+".json")
}

func (s *StoreImpl) load(userID core.UserID) (userData, error) {
	raw, err := os.ReadFile(s.path(userID))
	if os.IsNotExist(err) {
		return userData{
			Sessions: []session.CompletedSession{},
			Stats:    stats.NewUserStats(),
			Settings: stats.DefaultSettings(),
		}, nil
	}
	if err != nil {
		return userData{}, errors.WithCode(errors.CodeStorageError, errors.Wrap(err, "failed to read user data"))
	}

	var data userData
	if err := json.Unmarshal(raw, &data); err != nil {
		return userData{}, errors.WithCode(errors.CodeStorageError, errors.Wrap(err, "failed to parse user data"))
	}
	if data.Sessions == nil {
		data.Sessions = []session.CompletedSession{}
	}
	if data.Stats.Achievements == nil {
		data.Stats.Achievements = []string{}
	}
	return data, nil
}

// save writes the whole document via a temp file and rename, so a crash
// mid-write leaves the previous document intact.
func (s *StoreImpl) save(userID core.UserID, data userData) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to encode user data")
	}

	target := s.path(userID)
	tmp, err := os.CreateTemp(s.dir, fmt.Sprintf(".%s-*.tmp", filepath.Base(target)))
	if err != nil {
		return errors.WithCode(errors.CodeStorageError, errors.Wrap(err, "failed to create temp file"))
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.WithCode(errors.CodeStorageError, errors.Wrap(err, "failed to write user data"))
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.WithCode(errors.CodeStorageError, errors.Wrap(err, "failed to flush user data"))
	}
	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		return errors.WithCode(errors.CodeStorageError, errors.Wrap(err, "failed to replace user data"))
	}
	return nil
}

// AppendSession appends one session without touching stats
func (s *StoreImpl) AppendSession(ctx context.Context, userID core.UserID, sess session.CompletedSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load(userID)
	if err != nil {
		return err
	}
	data.Sessions = append(data.Sessions, sess)
	return s.save(userID, data)
}

// ListSessions returns the user's sessions, newest first
func (s *StoreImpl) ListSessions(ctx context.Context, userID core.UserID) ([]session.CompletedSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load(userID)
	if err != nil {
		return nil, err
	}

	sessions := make([]session.CompletedSession, len(data.Sessions))
	copy(sessions, data.Sessions)
	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[j].CompletedAt.Before(sessions[i].CompletedAt)
	})
	return sessions, nil
}

// Stats returns the user's stats, materializing defaults on first read
func (s *StoreImpl) Stats(ctx context.Context, userID core.UserID) (stats.UserStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load(userID)
	if err != nil {
		return stats.UserStats{}, err
	}
	return data.Stats, nil
}

// UpdateStats replaces the user's stats
func (s *StoreImpl) UpdateStats(ctx context.Context, userID core.UserID, us stats.UserStats) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load(userID)
	if err != nil {
		return err
	}
	data.Stats = us
	return s.save(userID, data)
}

// RecordSession appends the session and applies the stats update in one
// document write
func (s *StoreImpl) RecordSession(ctx context.Context, userID core.UserID, sess session.CompletedSession) (stats.UserStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load(userID)
	if err != nil {
		return stats.UserStats{}, err
	}

	data.Sessions = append(data.Sessions, sess)
	data.Stats = stats.UpdateForSession(data.Stats, sess)

	if err := s.save(userID, data); err != nil {
		return stats.UserStats{}, err
	}
	return data.Stats, nil
}

// Settings returns the user's settings
func (s *StoreImpl) Settings(ctx context.Context, userID core.UserID) (stats.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load(userID)
	if err != nil {
		return stats.Settings{}, err
	}
	return data.Settings, nil
}

// SaveSettings replaces the user's settings
func (s *StoreImpl) SaveSettings(ctx context.Context, userID core.UserID, settings stats.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load(userID)
	if err != nil {
		return err
	}
	data.Settings = settings
	return s.save(userID, data)
}
