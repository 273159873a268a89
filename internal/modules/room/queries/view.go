package queries

import (
	"context"
	"time"

	authdomain "github.com/wordparty/wordparty/internal/modules/auth/domain"
	"github.com/wordparty/wordparty/internal/modules/room/domain"

	"github.com/eskrenkovic/tql"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type playerRow struct {
	RoomID    uuid.UUID `db:"room_id"`
	UserID    uuid.UUID `db:"user_id"`
	Username  string    `db:"username"`
	AvatarURL *string   `db:"avatar_url"`
	JoinedAt  time.Time `db:"joined_at"`
	IsOwner   bool      `db:"is_owner"`
}

func (r playerRow) toPlayer() domain.Player {
	return domain.Player{
		User: authdomain.UserPublic{
			ID:        r.UserID,
			Username:  r.Username,
			AvatarURL: r.AvatarURL,
		},
		JoinedAt: r.JoinedAt,
		IsOwner:  r.IsOwner,
	}
}

// FetchRoomPlayers loads the member lists for the given rooms, ordered
// by join time.
func FetchRoomPlayers(
	ctx context.Context,
	q tql.Querier,
	roomIDs []uuid.UUID,
) (map[uuid.UUID][]domain.Player, error) {
	const query = `
		SELECT
			rp.room_id,
			rp.user_id,
			u.username,
			u.avatar_url,
			rp.created_at AS joined_at,
			rp.is_owner
		FROM
			room_players rp
			JOIN users u ON u.id = rp.user_id
		WHERE
			rp.room_id = ANY($1)
		ORDER BY
			rp.created_at ASC, rp.id ASC;`
	rows, err := tql.Query[playerRow](ctx, q, query, pq.Array(roomIDs))
	if err != nil {
		return nil, err
	}

	players := make(map[uuid.UUID][]domain.Player, len(roomIDs))
	for _, row := range rows {
		players[row.RoomID] = append(players[row.RoomID], row.toPlayer())
	}

	return players, nil
}

func roomView(room domain.Room, players []domain.Player) domain.RoomView {
	if players == nil {
		players = []domain.Player{}
	}

	return domain.RoomView{
		ID:           room.ID,
		Name:         room.Name,
		Category:     room.Category,
		RoomOwner:    room.OwnerID,
		PlayersLimit: room.PlayersLimit,
		TurnTime:     room.TurnTime,
		Players:      players,
		Status:       room.Status,
		IsPrivate:    room.IsPrivate,
		HasPassword:  room.HasPassword,
		CreatedAt:    room.CreatedAt,
	}
}

// FetchRoomView loads a single room with its member list. Returns
// sql.ErrNoRows via tql when the room does not exist.
func FetchRoomView(ctx context.Context, q tql.Querier, roomID uuid.UUID) (domain.RoomView, error) {
	const query = `
		SELECT
			*
		FROM
			rooms
		WHERE
			id = $1;`
	room, err := tql.QueryFirst[domain.Room](ctx, q, query, roomID)
	if err != nil {
		return domain.RoomView{}, err
	}

	players, err := FetchRoomPlayers(ctx, q, []uuid.UUID{roomID})
	if err != nil {
		return domain.RoomView{}, err
	}

	return roomView(room, players[roomID]), nil
}
