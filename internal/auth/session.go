package auth

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	toml "github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"

	"userdash/internal/domain"
)

// Session holds the signed-in state: the two tokens and the locally stored profile
type Session struct {
	AccessToken  string          `toml:"access_token"`
	RefreshToken string          `toml:"refresh_token"`
	Email        string          `toml:"email"`
	User         *domain.Profile `toml:"user,omitempty"`
}

// Empty reports whether the session carries no tokens
func (s Session) Empty() bool {
	return s.AccessToken == "" && s.RefreshToken == ""
}

// SessionStore persists the session between runs
type SessionStore interface {
	Load() (Session, error)
	Save(s Session) error
	Clear() error
}

// FileSessionStore keeps the session in a TOML file readable only by the user
type FileSessionStore struct {
	mu     sync.Mutex
	path   string
	logger *zap.Logger
}

// NewFileSessionStore creates a store at path
func NewFileSessionStore(path string, logger *zap.Logger) *FileSessionStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileSessionStore{path: path, logger: logger}
}

// Load returns the stored session. A missing or unreadable file is an empty session.
func (fs *FileSessionStore) Load() (Session, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	data, err := os.ReadFile(fs.path)
	if errors.Is(err, os.ErrNotExist) {
		return Session{}, nil
	}
	if err != nil {
		return Session{}, fmt.Errorf("failed to read session file: %w", err)
	}

	var s Session
	if err := toml.Unmarshal(data, &s); err != nil {
		fs.logger.Warn("ignoring corrupted session file", zap.String("path", fs.path), zap.Error(err))
		return Session{}, nil
	}
	return s, nil
}

// Save writes the session file
func (fs *FileSessionStore) Save(s Session) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(fs.path), 0700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}
	data, err := toml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := os.WriteFile(fs.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}

// Clear removes the session file
func (fs *FileSessionStore) Clear() error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if err := os.Remove(fs.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}

// MemorySessionStore keeps the session in memory
type MemorySessionStore struct {
	mu sync.Mutex
	s  Session
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{}
}

func (ms *MemorySessionStore) Load() (Session, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	s := ms.s
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	return s, nil
}

func (ms *MemorySessionStore) Save(s Session) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	ms.s = s
	return nil
}

func (ms *MemorySessionStore) Clear() error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.s = Session{}
	return nil
}
