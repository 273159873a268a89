package domain

import (
	"sort"
	"time"

	authdomain "github.com/wordparty/wordparty/internal/modules/auth/domain"

	"github.com/google/uuid"
)

const (
	RoomStatusOpen     = "open"
	RoomStatusInGame   = "in_game"
	RoomStatusFinished = "finished"
)

func ValidRoomStatus(status string) bool {
	switch status {
	case RoomStatusOpen, RoomStatusInGame, RoomStatusFinished:
		return true
	}
	return false
}

type Room struct {
	ID             uuid.UUID `db:"id"`
	Name           string    `db:"name"`
	Category       string    `db:"category"`
	OwnerID        uuid.UUID `db:"room_owner_id"`
	PlayersLimit   int       `db:"players_limit"`
	TurnTime       int       `db:"turn_time"`
	IsPrivate      bool      `db:"is_private"`
	HasPassword    bool      `db:"has_password"`
	HashedPassword *string   `db:"hashed_password"`
	Status         string    `db:"status"`
	CreatedAt      time.Time `db:"created_at"`
}

type RoomPlayer struct {
	ID        uuid.UUID `db:"id"`
	RoomID    uuid.UUID `db:"room_id"`
	UserID    uuid.UUID `db:"user_id"`
	IsOwner   bool      `db:"is_owner"`
	CreatedAt time.Time `db:"created_at"`
}

// NextOwner picks the successor when the owner leaves: the
// longest-tenured survivor. Ties on join time resolve by id so the
// choice is deterministic.
func NextOwner(remaining []RoomPlayer) (RoomPlayer, bool) {
	if len(remaining) == 0 {
		return RoomPlayer{}, false
	}

	candidates := make([]RoomPlayer, len(remaining))
	copy(candidates, remaining)

	sort.Slice(candidates, func(i, j int) bool {
		if !candidates[i].CreatedAt.Equal(candidates[j].CreatedAt) {
			return candidates[i].CreatedAt.Before(candidates[j].CreatedAt)
		}
		return candidates[i].ID.String() < candidates[j].ID.String()
	})

	return candidates[0], true
}

// Player is the view of a room member exposed to callers.
type Player struct {
	User     authdomain.UserPublic `json:"user"`
	JoinedAt time.Time             `json:"joinedAt"`
	IsOwner  bool                  `json:"isOwner"`
}

// RoomView is the serializable projection of a room and its members.
type RoomView struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Category     string    `json:"category"`
	RoomOwner    uuid.UUID `json:"roomOwner"`
	PlayersLimit int       `json:"playersLimit"`
	TurnTime     int       `json:"turnTime"`
	Players      []Player  `json:"players"`
	Status       string    `json:"status"`
	IsPrivate    bool      `json:"isPrivate"`
	HasPassword  bool      `json:"hasPassword"`
	CreatedAt    time.Time `json:"createdAt"`
}
