package handler

import (
	"encoding/base64"
	"errors"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"claif-api/dto"
	"claif-api/service"
)

type Handler struct {
	Recordings service.RecordingService
	Reviews    service.ReviewService
	Audio      service.AudioService
	Deletions  service.DeletionService
}

func (h *Handler) CreateRecording(c *gin.Context) {
	var req dto.RecordingCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	content, err := base64.StdEncoding.DecodeString(req.RecordingContent)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "recording_content must be base64 encoded"})
		return
	}
	recording, err := h.Recordings.Create(c.Request.Context(), CurrentUser(c).ID, req, string(content))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Recording created", "recording": recording})
}

func (h *Handler) UpdateRecording(c *gin.Context) {
	var req dto.RecordingUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	recording, err := h.Recordings.Update(c.Request.Context(), CurrentUser(c).ID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Recording updated", "recording": recording})
}

func (h *Handler) ReadRecording(c *gin.Context) {
	recordingID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recording id"})
		return
	}
	var revision *int
	if raw := c.Query("revision_number"); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid revision_number"})
			return
		}
		revision = &value
	}
	view, err := h.Recordings.Read(c.Request.Context(), uint(recordingID), revision)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handler) ListRecordings(c *gin.Context) {
	summaries, err := h.Recordings.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recordings": summaries})
}

func (h *Handler) PublishRecording(c *gin.Context) {
	var req dto.RecordingTogglePublishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.Recordings.TogglePublish(c.Request.Context(), CurrentUser(c).ID, req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Recording publish state updated"})
}

func (h *Handler) LockRecording(c *gin.Context) {
	var req dto.RecordingToggleLockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.Recordings.ToggleLock(c.Request.Context(), CurrentUser(c).ID, req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Recording lock state updated"})
}

func (h *Handler) CreateAnnotationReview(c *gin.Context) {
	var req dto.AnnotationReviewCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	review, err := h.Reviews.Create(c.Request.Context(), CurrentUser(c).ID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Annotation review created", "annotation_review": review})
}

func (h *Handler) CreateAudioFile(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, err)
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		respondError(c, err)
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = mime.TypeByExtension(filepath.Ext(fileHeader.Filename))
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	audioFile, err := h.Audio.Upload(c.Request.Context(), CurrentUser(c).ID, fileHeader.Filename, contentType, data)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Audio file uploaded", "audio_file": audioFile})
}

func (h *Handler) CreateTranscription(c *gin.Context) {
	var req dto.TranscriptionCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	content, err := base64.StdEncoding.DecodeString(req.RecordingContent)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "recording_content must be base64 encoded"})
		return
	}
	recording, err := h.Recordings.CreateTranscription(c.Request.Context(), CurrentUser(c).ID, req, string(content))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Transcription created", "recording": recording})
}

func (h *Handler) CreateDeletionRequest(c *gin.Context) {
	var req dto.DeletionRequestCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	request, err := h.Deletions.Request(c.Request.Context(), CurrentUser(c).ID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Deletion request created", "deletion_request": request})
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	default:
		zerolog.Ctx(c.Request.Context()).Error().Err(err).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
