package commands

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"path"

	"github.com/wordparty/wordparty/internal/modules/core"
	"github.com/wordparty/wordparty/internal/modules/game/domain"
	"github.com/wordparty/wordparty/internal/modules/game/queries"
	roomdomain "github.com/wordparty/wordparty/internal/modules/room/domain"

	"github.com/eskrenkovic/mediator-go"
	"github.com/eskrenkovic/tql"
	"github.com/go-chi/chi"
	"github.com/google/uuid"
)

type StartGameCommand struct {
	RoomID  uuid.UUID
	ActorID uuid.UUID
}

func (c StartGameCommand) Validate() error {
	if c.RoomID == uuid.Nil {
		return fmt.Errorf("invalid RoomID - '%s'", c.RoomID)
	}

	if c.ActorID == uuid.Nil {
		return fmt.Errorf("invalid ActorID - '%s'", c.ActorID)
	}

	return nil
}

func HandleStartGame(w http.ResponseWriter, r *http.Request) {
	roomID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		core.WriteBadRequest(w, r, fmt.Errorf("invalid room id"))
		return
	}

	command := StartGameCommand{
		RoomID:  roomID,
		ActorID: core.Session(r.Context()).UserID,
	}

	response, err := mediator.Send[StartGameCommand, domain.GameView](r.Context(), command)
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	location := path.Join(r.Host, "games", response.ID.String())
	core.WriteCreated(w, r, location, response)
}

type StartGameCommandHandler struct {
	db    *sql.DB
	clock core.Clock
}

func NewStartGameCommandHandler(db *sql.DB, clock core.Clock) *StartGameCommandHandler {
	return &StartGameCommandHandler{db, clock}
}

func (h *StartGameCommandHandler) Handle(
	ctx context.Context,
	request StartGameCommand,
) (domain.GameView, error) {
	gameID := uuid.New()

	// Game row, player snapshot, and the room status flip are one
	// atomic unit - a game must never exist against a still-open room.
	txErr := core.Tx(ctx, h.db, func(ctx context.Context, tx *sql.Tx) error {
		const roomQuery = `
			SELECT
				*
			FROM
				rooms
			WHERE
				id = $1
			FOR UPDATE;`
		room, err := tql.QueryFirst[roomdomain.Room](ctx, tx, roomQuery, request.RoomID)
		switch {
		case err != nil && errors.Is(err, sql.ErrNoRows):
			return core.NewNotFoundError(err, errRoomNotFound)
		case err != nil:
			return err
		}

		if room.OwnerID != request.ActorID {
			return core.NewPermissionDeniedError(nil, errOnlyOwnerStart)
		}

		if room.Status != roomdomain.RoomStatusOpen {
			return core.NewNotAuthorizedError(nil, errRoomNotOpen)
		}

		const membersQuery = `
			SELECT
				*
			FROM
				room_players
			WHERE
				room_id = $1
			ORDER BY
				created_at ASC, id ASC;`
		members, err := tql.Query[roomdomain.RoomPlayer](ctx, tx, membersQuery, request.RoomID)
		if err != nil {
			return err
		}

		if len(members) == 0 {
			return core.NewNotAuthorizedError(nil, errNoPlayersInRoom)
		}

		game := domain.Game{
			ID:         gameID,
			RoomID:     request.RoomID,
			State:      domain.GameStateRunning,
			Round:      1,
			TurnTime:   room.TurnTime,
			LastTickAt: h.clock.Now(),
		}

		const gameStmt = `
			INSERT INTO
				games (id, room_id, state, round, turn_time, last_tick_at, end_date)
			VALUES
				(:id, :room_id, :state, :round, :turn_time, :last_tick_at, :end_date);`
		if _, err := tql.Exec(ctx, tx, gameStmt, game); err != nil {
			return err
		}

		// Snapshot the membership as of this moment - players joining
		// the room later take no part in the running game.
		const playerStmt = `
			INSERT INTO
				game_players (id, game_id, user_id, points, place)
			VALUES
				(:id, :game_id, :user_id, :points, :place);`
		for _, member := range members {
			player := domain.GamePlayer{
				ID:     uuid.New(),
				GameID: gameID,
				UserID: member.UserID,
			}

			if _, err := tql.Exec(ctx, tx, playerStmt, player); err != nil {
				return err
			}
		}

		const statusStmt = `
			UPDATE
				rooms
			SET
				status = $1
			WHERE
				id = $2;`
		_, err = tql.Exec(ctx, tx, statusStmt, roomdomain.RoomStatusInGame, request.RoomID)
		return err
	})
	if txErr != nil {
		return domain.GameView{}, core.TxError(txErr)
	}

	view, err := queries.FetchGameView(ctx, h.db, gameID, h.clock.Now())
	if err != nil {
		return domain.GameView{}, core.NewInternalError(err)
	}

	return view, nil
}
