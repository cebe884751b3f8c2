package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/m1haww/call-recorder-sub000/internal/config"
	"github.com/m1haww/call-recorder-sub000/internal/domain"
	"github.com/m1haww/call-recorder-sub000/internal/session"
)

// Client issues typed requests against the call-recorder backend.
// Construct one at startup and inject it; every operation is a single
// attempt with no retries — retry policy belongs to the caller.
type Client struct {
	baseURL    string
	httpClient *http.Client
	sessions   *session.Store
}

func New(cfg config.Config, sessions *session.Store) *Client {
	return &Client{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		sessions: sessions,
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
	}
}

// RegisterUser registers the phone number and returns the server-issued
// user id. The current push token from the session store rides along
// (empty string when none). Persisting the id is the caller's job.
func (c *Client) RegisterUser(ctx context.Context, phoneNumber, countryCode string) (string, error) {
	payload := map[string]string{
		"countryCode": countryCode,
		"phoneNumber": phoneNumber,
		"fcmToken":    c.sessions.PushToken(),
	}

	resp, err := c.send(ctx, http.MethodPost, "/api/users/register", payload)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", &ServerError{StatusCode: resp.StatusCode}
	}

	var body struct {
		UserID string `json:"userId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("%w: decode register body: %v", ErrInvalidResponse, err)
	}
	if body.UserID == "" {
		return "", fmt.Errorf("%w: register response missing userId", ErrInvalidResponse)
	}

	return body.UserID, nil
}

// LoadUser fetches the profile for the stored user id. A 404 falls back
// to a guest profile instead of failing: the id may have been purged
// server-side and the app still has to render something.
func (c *Client) LoadUser(ctx context.Context) (domain.UserProfile, error) {
	userID := c.sessions.UserID()
	if userID == "" {
		return domain.UserProfile{}, ErrMissingUserID
	}

	resp, err := c.send(ctx, http.MethodGet, "/api/users/"+userID, nil)
	if err != nil {
		return domain.UserProfile{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return domain.UserProfile{}, nil
	}
	if resp.StatusCode != http.StatusOK {
		return domain.UserProfile{}, &ServerError{StatusCode: resp.StatusCode}
	}

	var profile domain.UserProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return domain.UserProfile{}, fmt.Errorf("%w: decode profile: %v", ErrInvalidResponse, err)
	}
	profile.UserID = userID

	return profile, nil
}

// FetchCalls returns every recording for the user. One malformed element
// never aborts the batch; see decodeCalls.
func (c *Client) FetchCalls(ctx context.Context, userID string) ([]domain.Recording, error) {
	resp, err := c.send(ctx, http.MethodPost, "/get_calls_for_user", map[string]string{"user_id": userID})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &ServerError{StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}

	return decodeCalls(body)
}

// DeleteRecording deletes a single recording. No retry on failure.
func (c *Client) DeleteRecording(ctx context.Context, recordingID, userID string) error {
	payload := map[string]string{
		"recording_id": recordingID,
		"user_id":      userID,
	}
	return c.sendExpectOK(ctx, http.MethodPost, "/delete_recording", payload)
}

// DeleteAllRecordings deletes every recording for the user.
func (c *Client) DeleteAllRecordings(ctx context.Context, userID string) error {
	return c.sendExpectOK(ctx, http.MethodPost, "/delete_all_recordings", map[string]string{"user_id": userID})
}

// UpdateNotificationSettings toggles push notifications for the stored
// user id and mirrors the flag into the session store on success.
func (c *Client) UpdateNotificationSettings(ctx context.Context, enabled bool) error {
	userID := c.sessions.UserID()
	if userID == "" {
		return ErrMissingUserID
	}

	payload := map[string]any{
		"userId":                   userID,
		"pushNotificationsEnabled": enabled,
	}
	if err := c.sendExpectOK(ctx, http.MethodPut, "/api/users/notifications", payload); err != nil {
		return err
	}

	if err := c.sessions.SetNotificationsEnabled(enabled); err != nil {
		return fmt.Errorf("persist notifications flag: %w", err)
	}
	return nil
}

// UpdateUserPhoneNumber changes the phone number on the stored user id.
func (c *Client) UpdateUserPhoneNumber(ctx context.Context, newPhoneNumber, countryCode string) error {
	userID := c.sessions.UserID()
	if userID == "" {
		return ErrMissingUserID
	}

	payload := map[string]string{
		"userId":      userID,
		"phoneNumber": newPhoneNumber,
		"countryCode": countryCode,
	}
	return c.sendExpectOK(ctx, http.MethodPut, "/api/users/update-phone", payload)
}

// FetchServicePhoneNumber returns the recording-bridge number the user
// dials to record a call.
func (c *Client) FetchServicePhoneNumber(ctx context.Context) (string, error) {
	resp, err := c.send(ctx, http.MethodGet, "/api/service/phone", nil)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &ServerError{StatusCode: resp.StatusCode}
	}

	var body struct {
		PhoneNumber string `json:"phoneNumber"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("%w: decode service phone: %v", ErrInvalidResponse, err)
	}
	if body.PhoneNumber == "" {
		return "", fmt.Errorf("%w: service phone response missing phoneNumber", ErrInvalidResponse)
	}

	return body.PhoneNumber, nil
}

func (c *Client) send(ctx context.Context, method, path string, payload any) (*http.Response, error) {
	var body io.Reader
	if payload != nil {
		buf := &bytes.Buffer{}
		if err := json.NewEncoder(buf).Encode(payload); err != nil {
			return nil, fmt.Errorf("encode request payload: %w", err)
		}
		body = buf
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}

	return resp, nil
}

func (c *Client) sendExpectOK(ctx context.Context, method, path string, payload any) error {
	resp, err := c.send(ctx, method, path, payload)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &ServerError{StatusCode: resp.StatusCode}
	}
	return nil
}

// decodeCalls parses the /get_calls_for_user body. The backend has been
// observed to omit fields on individual records, so decoding is
// per-field: missing or mistyped fields take the data-model defaults
// (empty string, zero duration, pending status) and elements that are
// not objects are skipped. All of the defaulting lives here so a
// stricter mode stays a one-function change.
func decodeCalls(body []byte) ([]domain.Recording, error) {
	var elements []json.RawMessage
	if err := json.Unmarshal(body, &elements); err != nil {
		return nil, fmt.Errorf("%w: expected a JSON array of calls: %v", ErrInvalidResponse, err)
	}

	recordings := make([]domain.Recording, 0, len(elements))
	for _, raw := range elements {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(raw, &fields); err != nil {
			continue
		}

		rec := domain.Recording{
			ID:                  stringField(fields, "id"),
			CallDate:            stringField(fields, "call_date"),
			FromPhone:           stringField(fields, "from_phone"),
			ToPhone:             stringField(fields, "to_phone"),
			Duration:            intField(fields, "recording_duration"),
			RecordingStatus:     domain.NormalizeStatus(stringField(fields, "recording_status")),
			RecordingURL:        stringField(fields, "recording_url"),
			Summary:             stringField(fields, "summary"),
			Title:               stringField(fields, "title"),
			TranscriptionStatus: domain.NormalizeStatus(stringField(fields, "transcription_status")),
			Transcription:       stringField(fields, "transcription_text"),
			Uploaded:            boolField(fields, "uploaded"),
		}
		if rec.Duration < 0 {
			rec.Duration = 0
		}

		recordings = append(recordings, rec)
	}

	return recordings, nil
}

func stringField(fields map[string]json.RawMessage, key string) string {
	raw, ok := fields[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

func intField(fields map[string]json.RawMessage, key string) int {
	raw, ok := fields[key]
	if !ok {
		return 0
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0
	}
	return int(n)
}

func boolField(fields map[string]json.RawMessage, key string) bool {
	raw, ok := fields[key]
	if !ok {
		return false
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err != nil {
		return false
	}
	return b
}
