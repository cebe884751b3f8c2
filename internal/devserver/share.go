package devserver

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/m1haww/call-recorder-sub000/internal/config"
)

func SignURL(path string, expiresAt int64, secret string) string {
	signature := computeSignature(path, expiresAt, secret)
	return fmt.Sprintf("%s?exp=%d&sig=%s", path, expiresAt, signature)
}

func ValidateSignature(path string, expiresAt int64, signature, secret string) bool {
	expected := computeSignature(path, expiresAt, secret)
	return hmac.Equal([]byte(signature), []byte(expected))
}

// MediaSigner mints expiring signed links for recording media, so the
// recording_url handed to clients is not an open download.
type MediaSigner struct {
	secret  string
	baseURL string
	ttl     time.Duration
}

func NewMediaSigner(cfg config.Config) *MediaSigner {
	return &MediaSigner{
		secret:  cfg.MediaSecret,
		baseURL: cfg.BaseURL,
		ttl:     cfg.MediaTTL,
	}
}

func (s *MediaSigner) SignedURL(recordingID string) string {
	expiresAt := time.Now().Add(s.ttl).Unix()
	path := fmt.Sprintf("/media/%s", recordingID)
	return s.baseURL + SignURL(path, expiresAt, s.secret)
}

func (s *MediaSigner) Validate(path string, expires int64, signature string) bool {
	return ValidateSignature(path, expires, signature, s.secret)
}

func computeSignature(path string, expiresAt int64, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(fmt.Sprintf("%s:%d", path, expiresAt)))
	sig := h.Sum(nil)
	return base64.URLEncoding.WithPadding(base64.NoPadding).EncodeToString(sig)
}
