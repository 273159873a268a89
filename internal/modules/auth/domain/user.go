package domain

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID `db:"id"`
	Email        string    `db:"email"`
	Username     string    `db:"username"`
	Name         *string   `db:"name"`
	Status       *string   `db:"status"`
	AvatarURL    *string   `db:"avatar_url"`
	BannerURL    *string   `db:"banner_url"`
	PasswordHash string    `db:"hashed_password"`
	Points       int       `db:"points"`
	IsAdmin      bool      `db:"is_admin"`
	IsBanned     bool      `db:"is_banned"`
	CreatedAt    time.Time `db:"created_at"`
}

// UserPublic is the projection of a user exposed to other players.
type UserPublic struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Username  string    `db:"username" json:"username"`
	AvatarURL *string   `db:"avatar_url" json:"avatarUrl"`
}

func RegisterUser(email, username, password string, hasher *PasswordHasher) (User, error) {
	passwordHash, err := hasher.Hash(password)
	if err != nil {
		return User{}, err
	}

	return User{
		ID:           uuid.New(),
		Email:        email,
		Username:     username,
		PasswordHash: passwordHash,
	}, nil
}

func (u User) Public() UserPublic {
	return UserPublic{
		ID:        u.ID,
		Username:  u.Username,
		AvatarURL: u.AvatarURL,
	}
}
