package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
)

type sessionData struct {
	UserID               string `json:"userId,omitempty"`
	PushToken            string `json:"pushToken,omitempty"`
	OnboardingComplete   bool   `json:"onboardingComplete,omitempty"`
	Language             string `json:"language,omitempty"`
	ConsentGiven         bool   `json:"consentGiven,omitempty"`
	NotificationsEnabled bool   `json:"notificationsEnabled,omitempty"`
}

// Store persists the current user's identity and preference flags
// across restarts. Reads never fail for absent values; the zero value
// of each field is its default. Writes are last-write-wins and the
// store expects a single logical owner.
type Store struct {
	mu   sync.RWMutex
	path string
	data sessionData
}

func NewStore(baseDir string) (*Store, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create session directory: %w", err)
	}

	store := &Store{path: filepath.Join(baseDir, "session.json")}
	if err := store.Load(); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = sessionData{}

	file, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return s.saveLocked()
	}
	if err != nil {
		return fmt.Errorf("open session file: %w", err)
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	if err := decoder.Decode(&s.data); err != nil {
		if errors.Is(err, io.EOF) {
			return s.saveLocked()
		}
		return fmt.Errorf("decode session file: %w", err)
	}

	return nil
}

func (s *Store) UserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.UserID
}

func (s *Store) SetUserID(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.UserID = id
	return s.saveLocked()
}

func (s *Store) PushToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.PushToken
}

func (s *Store) SetPushToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.PushToken = token
	return s.saveLocked()
}

func (s *Store) OnboardingComplete() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.OnboardingComplete
}

func (s *Store) SetOnboardingComplete(done bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.OnboardingComplete = done
	return s.saveLocked()
}

func (s *Store) Language() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.Language
}

func (s *Store) SetLanguage(code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.Language = code
	return s.saveLocked()
}

func (s *Store) ConsentGiven() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.ConsentGiven
}

func (s *Store) SetConsentGiven(given bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.ConsentGiven = given
	return s.saveLocked()
}

func (s *Store) NotificationsEnabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.NotificationsEnabled
}

func (s *Store) SetNotificationsEnabled(enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.NotificationsEnabled = enabled
	return s.saveLocked()
}

// Clear wipes every stored value in one save. Used on sign-out and
// account deletion.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = sessionData{}
	return s.saveLocked()
}

func (s *Store) saveLocked() error {
	tmp, err := os.CreateTemp(filepath.Dir(s.path), "session-*.json")
	if err != nil {
		return fmt.Errorf("create temp session: %w", err)
	}

	encoder := json.NewEncoder(tmp)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(s.data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("encode session: %w", err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp session: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace session file: %w", err)
	}

	return nil
}
