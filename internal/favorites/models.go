package favorites

import (
	"time"

	"github.com/google/uuid"
)

type Favorite struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index:idx_fav_user_event,unique"`
	EventID   uuid.UUID `json:"event_id" gorm:"type:uuid;not null;index:idx_fav_user_event,unique"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

type FavoriteResponse struct {
	ID        string    `json:"id"`
	EventID   string    `json:"event_id"`
	CreatedAt time.Time `json:"created_at"`
}

func toFavoriteResponse(f *Favorite) FavoriteResponse {
	return FavoriteResponse{
		ID:        f.ID.String(),
		EventID:   f.EventID.String(),
		CreatedAt: f.CreatedAt,
	}
}
