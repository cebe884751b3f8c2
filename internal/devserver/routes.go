package devserver

import (
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/m1haww/call-recorder-sub000/internal/config"
	"github.com/m1haww/call-recorder-sub000/internal/domain"
)

type API struct {
	cfg    config.Config
	store  *Store
	signer *MediaSigner
}

func NewAPI(cfg config.Config, store *Store, signer *MediaSigner) *API {
	return &API{cfg: cfg, store: store, signer: signer}
}

func registerRoutes(r *gin.Engine, api *API) {
	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/health", api.handleHealth)

		apiGroup.POST("/users/register", api.handleRegisterUser)
		apiGroup.GET("/users/:userId", api.handleGetUser)
		apiGroup.PUT("/users/notifications", api.handleUpdateNotifications)
		apiGroup.PUT("/users/update-phone", api.handleUpdatePhone)

		apiGroup.GET("/service/phone", api.handleServicePhone)
	}

	// Call endpoints predate the /api prefix on the real backend; the
	// stub keeps the same paths so clients need no special casing.
	r.POST("/get_calls_for_user", api.handleGetCalls)
	r.POST("/delete_recording", api.handleDeleteRecording)
	r.POST("/delete_all_recordings", api.handleDeleteAllRecordings)

	r.GET("/media/:id", api.handleServeMedia)
}

func (a *API) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (a *API) handleRegisterUser(c *gin.Context) {
	var payload struct {
		CountryCode string `json:"countryCode"`
		PhoneNumber string `json:"phoneNumber" binding:"required"`
		FCMToken    string `json:"fcmToken"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}

	userID := a.store.RegisterUser(payload.PhoneNumber, payload.CountryCode, payload.FCMToken)
	c.JSON(http.StatusOK, gin.H{"userId": userID})
}

func (a *API) handleGetUser(c *gin.Context) {
	user, ok := a.store.GetUser(c.Param("userId"))
	if !ok {
		respondMessage(c, http.StatusNotFound, "user not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"phoneNumber":          user.PhoneNumber,
		"countryCode":          user.CountryCode,
		"notificationsEnabled": user.NotificationsEnabled,
	})
}

func (a *API) handleUpdateNotifications(c *gin.Context) {
	var payload struct {
		UserID                   string `json:"userId" binding:"required"`
		PushNotificationsEnabled bool   `json:"pushNotificationsEnabled"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}

	if err := a.store.UpdateNotifications(payload.UserID, payload.PushNotificationsEnabled); err != nil {
		respondMessage(c, http.StatusNotFound, "user not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (a *API) handleUpdatePhone(c *gin.Context) {
	var payload struct {
		UserID      string `json:"userId" binding:"required"`
		PhoneNumber string `json:"phoneNumber" binding:"required"`
		CountryCode string `json:"countryCode"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}

	if err := a.store.UpdatePhone(payload.UserID, payload.PhoneNumber, payload.CountryCode); err != nil {
		respondMessage(c, http.StatusNotFound, "user not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (a *API) handleServicePhone(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"phoneNumber": a.cfg.ServicePhone})
}

func (a *API) handleGetCalls(c *gin.Context) {
	var payload struct {
		UserID string `json:"user_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}

	calls := a.store.CallsForUser(payload.UserID)
	for i, rec := range calls {
		if rec.RecordingStatus == domain.StatusCompleted && rec.RecordingURL == "" {
			calls[i].RecordingURL = a.signer.SignedURL(rec.ID)
		}
	}

	c.JSON(http.StatusOK, calls)
}

func (a *API) handleDeleteRecording(c *gin.Context) {
	var payload struct {
		RecordingID string `json:"recording_id" binding:"required"`
		UserID      string `json:"user_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}

	if err := a.store.DeleteRecording(payload.RecordingID, payload.UserID); err != nil {
		respondMessage(c, http.StatusNotFound, "recording not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (a *API) handleDeleteAllRecordings(c *gin.Context) {
	var payload struct {
		UserID string `json:"user_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}

	deleted := a.store.DeleteAllRecordings(payload.UserID)
	c.JSON(http.StatusOK, gin.H{"ok": true, "deleted": deleted})
}

func (a *API) handleServeMedia(c *gin.Context) {
	recordingID := c.Param("id")
	expiresParam := c.Query("exp")
	signature := c.Query("sig")

	if expiresParam == "" || signature == "" {
		respondMessage(c, http.StatusBadRequest, "missing signature")
		return
	}

	expires, err := strconv.ParseInt(expiresParam, 10, 64)
	if err != nil {
		respondMessage(c, http.StatusBadRequest, "invalid expiration")
		return
	}

	if expires < time.Now().Unix() {
		respondMessage(c, http.StatusGone, "link expired")
		return
	}

	path := c.Request.URL.Path
	if !a.signer.Validate(path, expires, signature) {
		respondMessage(c, http.StatusForbidden, "invalid signature")
		return
	}

	if _, ok := a.store.GetRecording(recordingID); !ok {
		respondMessage(c, http.StatusNotFound, "recording not found")
		return
	}

	mediaPath := filepath.Join(a.cfg.DataDir, "media", recordingID+".mp3")
	if _, err := os.Stat(mediaPath); err != nil {
		respondMessage(c, http.StatusNotFound, "media not found")
		return
	}

	c.Header("Content-Type", "audio/mpeg")
	c.FileAttachment(mediaPath, filepath.Base(mediaPath))
}

func respondError(c *gin.Context, status int, err error) {
	respondMessage(c, status, err.Error())
}

func respondMessage(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}
