package devserver

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/m1haww/call-recorder-sub000/internal/domain"
)

type User struct {
	UserID               string
	PhoneNumber          string
	CountryCode          string
	FCMToken             string
	NotificationsEnabled bool
}

type storedRecording struct {
	UserID    string
	Recording domain.Recording
}

// Store is the stub backend's in-memory registry of users and
// recordings. It only exists so the CLI and the client tests have a
// real backend to talk to; nothing is persisted across restarts.
type Store struct {
	mu           sync.RWMutex
	users        map[string]*User
	usersByPhone map[string]string
	recordings   map[string]storedRecording
}

func NewStore() *Store {
	return &Store{
		users:        map[string]*User{},
		usersByPhone: map[string]string{},
		recordings:   map[string]storedRecording{},
	}
}

// RegisterUser issues an id for the phone number. Registering an
// already-known number returns the existing id so repeated app
// launches stay stable.
func (s *Store) RegisterUser(phoneNumber, countryCode, fcmToken string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.usersByPhone[phoneNumber]; ok {
		user := s.users[id]
		user.CountryCode = countryCode
		if fcmToken != "" {
			user.FCMToken = fcmToken
		}
		return id
	}

	id := uuid.NewString()
	s.users[id] = &User{
		UserID:               id,
		PhoneNumber:          phoneNumber,
		CountryCode:          countryCode,
		FCMToken:             fcmToken,
		NotificationsEnabled: true,
	}
	s.usersByPhone[phoneNumber] = id
	return id
}

func (s *Store) GetUser(userID string) (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[userID]
	if !ok {
		return User{}, false
	}
	return *user, true
}

func (s *Store) UpdateNotifications(userID string, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return fmt.Errorf("user %s not found", userID)
	}
	user.NotificationsEnabled = enabled
	return nil
}

func (s *Store) UpdatePhone(userID, phoneNumber, countryCode string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return fmt.Errorf("user %s not found", userID)
	}

	delete(s.usersByPhone, user.PhoneNumber)
	user.PhoneNumber = phoneNumber
	user.CountryCode = countryCode
	s.usersByPhone[phoneNumber] = userID
	return nil
}

// AddRecording stores a recording for the user, assigning an id when
// the caller left it empty.
func (s *Store) AddRecording(userID string, rec domain.Recording) domain.Recording {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.RecordingStatus == "" {
		rec.RecordingStatus = domain.StatusPending
	}
	if rec.TranscriptionStatus == "" {
		rec.TranscriptionStatus = domain.StatusPending
	}
	s.recordings[rec.ID] = storedRecording{UserID: userID, Recording: rec}
	return rec
}

func (s *Store) CallsForUser(userID string) []domain.Recording {
	s.mu.RLock()
	defer s.mu.RUnlock()

	calls := make([]domain.Recording, 0)
	for _, stored := range s.recordings {
		if stored.UserID == userID {
			calls = append(calls, stored.Recording)
		}
	}
	return calls
}

func (s *Store) GetRecording(recordingID string) (domain.Recording, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.recordings[recordingID]
	if !ok {
		return domain.Recording{}, false
	}
	return stored.Recording, true
}

func (s *Store) DeleteRecording(recordingID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.recordings[recordingID]
	if !ok || stored.UserID != userID {
		return fmt.Errorf("recording %s not found", recordingID)
	}

	delete(s.recordings, recordingID)
	return nil
}

func (s *Store) DeleteAllRecordings(userID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	deleted := 0
	for id, stored := range s.recordings {
		if stored.UserID == userID {
			delete(s.recordings, id)
			deleted++
		}
	}
	return deleted
}

// SeedDemo registers a demo user with two finished recordings and one
// still processing. Returns the demo user id.
func (s *Store) SeedDemo() string {
	userID := s.RegisterUser("+15550123456", "US", "demo-fcm-token")

	now := time.Now().UTC()
	s.AddRecording(userID, domain.Recording{
		CallDate:            now.Add(-48 * time.Hour).Format(time.RFC3339),
		FromPhone:           "+15550123456",
		ToPhone:             "+15550199887",
		Duration:            342,
		RecordingStatus:     domain.StatusCompleted,
		TranscriptionStatus: domain.StatusCompleted,
		Title:               "Insurance claim follow-up",
		Transcription:       "Hello, I'm calling about claim 88-40312.\nYes, one moment please.",
		Summary:             "Claim 88-40312 confirmed in review.\nCallback promised within two days.",
		Uploaded:            true,
	})
	s.AddRecording(userID, domain.Recording{
		CallDate:            now.Add(-24 * time.Hour).Format(time.RFC3339),
		FromPhone:           "+15550123456",
		ToPhone:             "+15550144221",
		Duration:            61,
		RecordingStatus:     domain.StatusCompleted,
		TranscriptionStatus: domain.StatusCompleted,
		Title:               "Dentist reschedule",
		Transcription:       "Can we move Thursday to Friday morning?",
		Summary:             "Appointment moved to Friday 9:30.",
		Uploaded:            true,
	})
	s.AddRecording(userID, domain.Recording{
		CallDate:            now.Format(time.RFC3339),
		FromPhone:           "+15550123456",
		ToPhone:             "+15550177665",
		Duration:            0,
		RecordingStatus:     domain.StatusProcessing,
		TranscriptionStatus: domain.StatusPending,
	})

	return userID
}
