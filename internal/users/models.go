package users

import (
	"time"

	"github.com/google/uuid"
)

// Role separates the buyer side from the producer (event organizer) side.
type Role string

const (
	RoleBuyer    Role = "BUYER"
	RoleProducer Role = "PRODUCER"
	RoleAdmin    Role = "ADMIN"
)

type User struct {
	ID        uuid.UUID `json:"id" gorm:"primaryKey;type:uuid;default:uuid_generate_v4()"`
	FirstName string    `json:"first_name" gorm:"not null"`
	LastName  string    `json:"last_name" gorm:"not null"`
	Password  string    `json:"-" gorm:"not null"` // hide in json
	Role      Role      `json:"role" gorm:"not null;default:'BUYER'"`
	Email     string    `json:"email" gorm:"uniqueIndex;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func IsValidRole(role string) bool {
	switch role {
	case string(RoleBuyer), string(RoleProducer), string(RoleAdmin):
		return true
	default:
		return false
	}
}
