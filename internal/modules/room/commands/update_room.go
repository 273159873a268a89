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

// UpdateRoomCommand carries a partial update. Nil fields are absent
// and leave the room untouched; a present empty Password clears the
// password gate.
type UpdateRoomCommand struct {
	RoomID  uuid.UUID `json:"-"`
	ActorID uuid.UUID `json:"-"`

	Name         *string `json:"name"`
	Category     *string `json:"category"`
	PlayersLimit *int    `json:"playersLimit"`
	TurnTime     *int    `json:"turnTime"`
	Status       *string `json:"status"`
	Password     *string `json:"password"`
}

func (c UpdateRoomCommand) Validate() error {
	if c.RoomID == uuid.Nil {
		return fmt.Errorf("invalid RoomID - '%s'", c.RoomID)
	}

	if c.ActorID == uuid.Nil {
		return fmt.Errorf("invalid ActorID - '%s'", c.ActorID)
	}

	if c.Name != nil && *c.Name == "" {
		return fmt.Errorf("invalid Name - '%s'", *c.Name)
	}

	if c.PlayersLimit != nil && *c.PlayersLimit <= 0 {
		return fmt.Errorf("invalid PlayersLimit - %d", *c.PlayersLimit)
	}

	if c.TurnTime != nil && *c.TurnTime <= 0 {
		return fmt.Errorf("invalid TurnTime - %d", *c.TurnTime)
	}

	if c.Status != nil && !domain.ValidRoomStatus(*c.Status) {
		return fmt.Errorf("invalid Status - '%s'", *c.Status)
	}

	return nil
}

func HandleUpdateRoom(w http.ResponseWriter, r *http.Request) {
	roomID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		core.WriteBadRequest(w, r, fmt.Errorf("invalid room id"))
		return
	}

	command, err := core.RequestBody[UpdateRoomCommand](r)
	if err != nil {
		core.WriteBadRequest(w, r, err)
		return
	}
	command.RoomID = roomID
	command.ActorID = core.Session(r.Context()).UserID

	response, err := mediator.Send[UpdateRoomCommand, domain.RoomView](r.Context(), command)
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteOK(w, r, response)
}

type UpdateRoomCommandHandler struct {
	db     *sql.DB
	hasher *authdomain.PasswordHasher
}

func NewUpdateRoomCommandHandler(db *sql.DB, hasher *authdomain.PasswordHasher) *UpdateRoomCommandHandler {
	return &UpdateRoomCommandHandler{db, hasher}
}

func (h *UpdateRoomCommandHandler) Handle(
	ctx context.Context,
	request UpdateRoomCommand,
) (domain.RoomView, error) {
	txErr := core.Tx(ctx, h.db, func(ctx context.Context, tx *sql.Tx) error {
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

		if room.OwnerID != request.ActorID {
			return core.NewPermissionDeniedError(nil, errOnlyOwnerUpdate)
		}

		if request.Name != nil {
			room.Name = *request.Name
		}

		if request.Category != nil {
			room.Category = *request.Category
		}

		// The limit is not re-validated against current occupancy.
		if request.PlayersLimit != nil {
			room.PlayersLimit = *request.PlayersLimit
		}

		if request.TurnTime != nil {
			room.TurnTime = *request.TurnTime
		}

		if request.Status != nil {
			room.Status = *request.Status
		}

		if request.Password != nil {
			if *request.Password == "" {
				room.HasPassword = false
				room.HashedPassword = nil
			} else {
				hashed, err := h.hasher.Hash(*request.Password)
				if err != nil {
					return err
				}
				room.HasPassword = true
				room.HashedPassword = &hashed
			}
		}

		const updateStmt = `
			UPDATE
				rooms
			SET
				name = :name,
				category = :category,
				players_limit = :players_limit,
				turn_time = :turn_time,
				status = :status,
				has_password = :has_password,
				hashed_password = :hashed_password
			WHERE
				id = :id;`
		_, err = tql.Exec(ctx, tx, updateStmt, room)
		return err
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
