package commands

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	authdomain "github.com/wordparty/wordparty/internal/modules/auth/domain"
	"github.com/wordparty/wordparty/internal/modules/core"
	"github.com/wordparty/wordparty/internal/modules/room/domain"
	"github.com/wordparty/wordparty/internal/modules/room/queries"

	"github.com/eskrenkovic/mediator-go"
	"github.com/eskrenkovic/tql"
	"github.com/go-chi/chi"
	"github.com/google/uuid"
)

type JoinRoomCommand struct {
	RoomID   uuid.UUID `json:"-"`
	UserID   uuid.UUID `json:"-"`
	Password *string   `json:"password"`
}

func (c JoinRoomCommand) Validate() error {
	if c.RoomID == uuid.Nil {
		return fmt.Errorf("invalid RoomID - '%s'", c.RoomID)
	}

	if c.UserID == uuid.Nil {
		return fmt.Errorf("invalid UserID - '%s'", c.UserID)
	}

	return nil
}

func HandleJoinRoom(w http.ResponseWriter, r *http.Request) {
	roomID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		core.WriteBadRequest(w, r, fmt.Errorf("invalid room id"))
		return
	}

	command, err := core.RequestBody[JoinRoomCommand](r)
	if err != nil {
		// The join body is optional - only password-gated rooms need one.
		command = JoinRoomCommand{}
	}
	command.RoomID = roomID
	command.UserID = core.Session(r.Context()).UserID

	response, err := mediator.Send[JoinRoomCommand, domain.RoomView](r.Context(), command)
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteOK(w, r, response)
}

type JoinRoomCommandHandler struct {
	db     *sql.DB
	hasher *authdomain.PasswordHasher
}

func NewJoinRoomCommandHandler(db *sql.DB, hasher *authdomain.PasswordHasher) *JoinRoomCommandHandler {
	return &JoinRoomCommandHandler{db, hasher}
}

func (h *JoinRoomCommandHandler) Handle(
	ctx context.Context,
	request JoinRoomCommand,
) (domain.RoomView, error) {
	txErr := core.Tx(ctx, h.db, func(ctx context.Context, tx *sql.Tx) error {
		// Lock the room row so concurrent joins near the capacity limit
		// serialize on the capacity recheck below.
		const roomQuery = `
			SELECT
				*
			FROM
				rooms
			WHERE
				id = $1
			FOR UPDATE;`
		room, err := tql.QueryFirst[domain.Room](ctx, tx, roomQuery, request.RoomID)
		switch {
		case err != nil && errors.Is(err, sql.ErrNoRows):
			return core.NewNotFoundError(err, errRoomNotFound)
		case err != nil:
			return err
		}

		const memberQuery = `
			SELECT
				count(id)
			FROM
				room_players
			WHERE
				room_id = $1 AND user_id = $2;`
		member, err := tql.QueryFirst[int](ctx, tx, memberQuery, request.RoomID, request.UserID)
		if err != nil {
			return err
		}

		// Joining a room you are already in is a no-op, not an error.
		if member > 0 {
			return nil
		}

		const countQuery = `
			SELECT
				count(id)
			FROM
				room_players
			WHERE
				room_id = $1;`
		current, err := tql.QueryFirst[int](ctx, tx, countQuery, request.RoomID)
		if err != nil {
			return err
		}

		if current >= room.PlayersLimit {
			return core.NewNotAuthorizedError(nil, errRoomFull)
		}

		if room.HasPassword {
			if request.Password == nil || *request.Password == "" {
				return core.NewNotAuthorizedError(nil, errPasswordRequired)
			}

			if room.HashedPassword == nil {
				return core.NewNotAuthorizedError(nil, errInvalidPassword)
			}

			match, err := h.hasher.Verify(*request.Password, *room.HashedPassword)
			if err != nil {
				return err
			}

			if !match {
				return core.NewNotAuthorizedError(nil, errInvalidPassword)
			}
		}

		player := domain.RoomPlayer{
			ID:     uuid.New(),
			RoomID: request.RoomID,
			UserID: request.UserID,
		}

		const insertStmt = `
			INSERT INTO
				room_players (id, room_id, user_id, is_owner)
			VALUES
				(:id, :room_id, :user_id, :is_owner);`
		if _, err := tql.Exec(ctx, tx, insertStmt, player); err != nil {
			if core.IsUniqueViolation(err) {
				return core.NewConflictError(err, "already joining the room")
			}
			return err
		}

		return nil
	})

	if txErr != nil {
		return domain.RoomView{}, core.TxError(txErr)
	}

	view, err := queries.FetchRoomView(ctx, h.db, request.RoomID)
	if err != nil {
		return domain.RoomView{}, core.NewInternalError(err)
	}

	return view, nil
}
