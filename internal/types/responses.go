package types

import (
	"time"

	"github.com/projethon/projethon/internal/models"
)

// PublicUser is the externally visible identity shape. The password hash
// never leaves the models layer; email only appears in the private variant.
type PublicUser struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	FullName  string    `json:"full_name"`
	AvatarURL string    `json:"avatar_url"`
	Bio       string    `json:"bio"`
	CreatedAt time.Time `json:"created_at"`
}

type PrivateUser struct {
	PublicUser
	Email string `json:"email"`
}

func NewPublicUser(u *models.User) PublicUser {
	return PublicUser{
		ID:        u.ID,
		Username:  u.Username,
		FullName:  u.FullName,
		AvatarURL: u.AvatarURL,
		Bio:       u.Bio,
		CreatedAt: u.CreatedAt,
	}
}

func NewPrivateUser(u *models.User) PrivateUser {
	return PrivateUser{
		PublicUser: NewPublicUser(u),
		Email:      u.Email,
	}
}
