package favorites

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"ingresso/internal/shared/utils/response"
)

type Controller interface {
	AddFavorite(c *gin.Context)
	RemoveFavorite(c *gin.Context)
	GetFavorites(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func (ctrl *controller) AddFavorite(c *gin.Context) {
	userID, eventID, ok := ctrl.ids(c)
	if !ok {
		return
	}

	favorite, err := ctrl.service.AddFavorite(c.Request.Context(), userID, eventID)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusNotFound, err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Event favorited", favorite, nil)
}

func (ctrl *controller) RemoveFavorite(c *gin.Context) {
	userID, eventID, ok := ctrl.ids(c)
	if !ok {
		return
	}

	if err := ctrl.service.RemoveFavorite(c.Request.Context(), userID, eventID); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, ErrNotFavorited) {
			status = http.StatusNotFound
		}
		response.RespondJSON(c, "error", status, err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Event unfavorited", nil, nil)
}

func (ctrl *controller) GetFavorites(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	favorites, err := ctrl.service.GetFavorites(c.Request.Context(), userID)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Favorites retrieved successfully", favorites, nil)
}

func (ctrl *controller) ids(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	userID, ok := currentUserID(c)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	eventID, err := uuid.Parse(c.Param("eventId"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid event ID", nil, err.Error())
		return uuid.Nil, uuid.Nil, false
	}
	return userID, eventID, true
}

func currentUserID(c *gin.Context) (uuid.UUID, bool) {
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
