package domain

import "time"

// Recording mirrors one call object as returned by the backend.
// Field names follow the wire format of POST /get_calls_for_user.
type Recording struct {
	ID                  string `json:"id"`
	CallDate            string `json:"call_date"`
	FromPhone           string `json:"from_phone"`
	ToPhone             string `json:"to_phone"`
	Duration            int    `json:"recording_duration"`
	RecordingStatus     string `json:"recording_status"`
	RecordingURL        string `json:"recording_url,omitempty"`
	Summary             string `json:"summary,omitempty"`
	Title               string `json:"title,omitempty"`
	TranscriptionStatus string `json:"transcription_status"`
	Transcription       string `json:"transcription_text,omitempty"`
	Uploaded            bool   `json:"uploaded,omitempty"`
}

const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// NormalizeStatus maps anything outside the enumerated set to pending.
func NormalizeStatus(status string) string {
	switch status {
	case StatusPending, StatusProcessing, StatusCompleted, StatusFailed:
		return status
	default:
		return StatusPending
	}
}

// HasTranscript reports whether transcription text is present and non-empty.
func (r Recording) HasTranscript() bool {
	return r.Transcription != ""
}

// CallTime parses CallDate as RFC 3339. The second return value is false
// when the date is absent or not parseable.
func (r Recording) CallTime() (time.Time, bool) {
	if r.CallDate == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, r.CallDate)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// UserProfile is the response shape of GET /api/users/{userId}.
// A guest profile has an empty UserID.
type UserProfile struct {
	UserID               string `json:"userId,omitempty"`
	PhoneNumber          string `json:"phoneNumber"`
	CountryCode          string `json:"countryCode"`
	NotificationsEnabled bool   `json:"notificationsEnabled,omitempty"`
}
