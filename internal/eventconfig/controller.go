package eventconfig

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"ingresso/internal/shared/utils/response"
	"ingresso/pkg/storage"
)

type Controller interface {
	SubmitConfiguration(c *gin.Context)
	GetConfiguration(c *gin.Context)
	StartDraft(c *gin.Context)
	GetDraft(c *gin.Context)
	ApplyDraftCommand(c *gin.Context)
	DiscardDraft(c *gin.Context)
	SubmitDraft(c *gin.Context)
	UploadProductImage(c *gin.Context)
}

type controller struct {
	service  Service
	uploader storage.Uploader
}

func NewController(service Service, uploader storage.Uploader) Controller {
	return &controller{service: service, uploader: uploader}
}

func (ctrl *controller) SubmitConfiguration(c *gin.Context) {
	eventID, userID, ok := ctrl.eventAndUser(c)
	if !ok {
		return
	}

	var req SubmitConfigurationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	cfg, err := ctrl.service.SubmitConfiguration(c.Request.Context(), eventID, userID, req.ToDomain(eventID))
	if err != nil {
		ctrl.respondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Configuration saved successfully", NewConfigurationResponse(cfg), nil)
}

func (ctrl *controller) GetConfiguration(c *gin.Context) {
	eventID, ok := ctrl.eventID(c)
	if !ok {
		return
	}

	cfg, err := ctrl.service.GetConfiguration(c.Request.Context(), eventID)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Configuration retrieved successfully", NewConfigurationResponse(cfg), nil)
}

func (ctrl *controller) StartDraft(c *gin.Context) {
	eventID, userID, ok := ctrl.eventAndUser(c)
	if !ok {
		return
	}

	cfg, err := ctrl.service.StartDraft(c.Request.Context(), eventID, userID)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Draft started", NewConfigurationResponse(cfg), nil)
}

func (ctrl *controller) GetDraft(c *gin.Context) {
	eventID, userID, ok := ctrl.eventAndUser(c)
	if !ok {
		return
	}

	cfg, err := ctrl.service.GetDraft(c.Request.Context(), eventID, userID)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Draft retrieved successfully", NewConfigurationResponse(cfg), nil)
}

func (ctrl *controller) ApplyDraftCommand(c *gin.Context) {
	eventID, userID, ok := ctrl.eventAndUser(c)
	if !ok {
		return
	}

	var cmd Command
	if err := c.ShouldBindJSON(&cmd); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid command", nil, err.Error())
		return
	}

	cfg, err := ctrl.service.ApplyDraftCommand(c.Request.Context(), eventID, userID, cmd)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Command applied", NewConfigurationResponse(cfg), nil)
}

func (ctrl *controller) DiscardDraft(c *gin.Context) {
	eventID, userID, ok := ctrl.eventAndUser(c)
	if !ok {
		return
	}

	if err := ctrl.service.DiscardDraft(c.Request.Context(), eventID, userID); err != nil {
		ctrl.respondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Draft discarded", nil, nil)
}

func (ctrl *controller) SubmitDraft(c *gin.Context) {
	eventID, userID, ok := ctrl.eventAndUser(c)
	if !ok {
		return
	}

	cfg, err := ctrl.service.SubmitDraft(c.Request.Context(), eventID, userID)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Configuration saved successfully", NewConfigurationResponse(cfg), nil)
}

// UploadProductImage stores a product image and returns its public URL. A
// product row proceeds without an image when the producer skips this step;
// upload failure here is surfaced so the producer can retry, the submit flow
// itself never blocks on images.
func (ctrl *controller) UploadProductImage(c *gin.Context) {
	userID, ok := ctrl.userID(c)
	if !ok {
		return
	}
	if ctrl.uploader == nil {
		response.RespondJSON(c, "error", http.StatusServiceUnavailable, "Image storage is not configured", nil, nil)
		return
	}

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Missing image file", nil, err.Error())
		return
	}
	defer file.Close()

	ext := filepath.Ext(header.Filename)
	path := fmt.Sprintf("products/%s/%s%s", userID.String(), uuid.New().String(), ext)
	url, err := ctrl.uploader.Upload(c.Request.Context(), path, header.Header.Get("Content-Type"), file)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadGateway, "Image upload failed", nil, err.Error())
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Image uploaded", gin.H{"url": url}, nil)
}

func (ctrl *controller) eventID(c *gin.Context) (uuid.UUID, bool) {
	eventID, err := uuid.Parse(c.Param("eventId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid event ID", nil, err.Error())
		return uuid.Nil, false
	}
	return eventID, true
}

func (ctrl *controller) userID(c *gin.Context) (uuid.UUID, bool) {
	raw, exists := c.Get("user_id")
	if !exists {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "Not authenticated", nil, nil)
		return uuid.Nil, false
	}
	userID, err := uuid.Parse(raw.(string))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Invalid user ID format", nil, nil)
		return uuid.Nil, false
	}
	return userID, true
}

func (ctrl *controller) eventAndUser(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	eventID, ok := ctrl.eventID(c)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	userID, ok := ctrl.userID(c)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	return eventID, userID, true
}

func (ctrl *controller) respondError(c *gin.Context, err error) {
	var verrs ValidationErrors
	switch {
	case errors.As(err, &verrs):
		response.RespondJSON(c, "error", http.StatusUnprocessableEntity, "Configuration is invalid", nil, verrs)
	case errors.Is(err, ErrEventNotFound), errors.Is(err, ErrNoConfig), errors.Is(err, ErrNoDraft):
		response.RespondJSON(c, "error", http.StatusNotFound, err.Error(), nil, nil)
	case errors.Is(err, ErrNotOwner):
		response.RespondJSON(c, "error", http.StatusForbidden, err.Error(), nil, nil)
	case errors.Is(err, ErrLastSector), errors.Is(err, ErrLastBatch), errors.Is(err, ErrLastTicketType):
		// Guard violations are warnings: the draft is unchanged.
		response.RespondJSON(c, "error", http.StatusConflict, err.Error(), nil, nil)
	default:
		response.RespondJSON(c, "error", http.StatusBadRequest, err.Error(), nil, nil)
	}
}
