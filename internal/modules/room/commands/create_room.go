package commands

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"path"

	authdomain "github.com/wordparty/wordparty/internal/modules/auth/domain"
	"github.com/wordparty/wordparty/internal/modules/core"
	"github.com/wordparty/wordparty/internal/modules/room/domain"
	"github.com/wordparty/wordparty/internal/modules/room/queries"

	"github.com/eskrenkovic/mediator-go"
	"github.com/eskrenkovic/tql"
	"github.com/google/uuid"
)

type CreateRoomCommand struct {
	OwnerID      uuid.UUID `json:"-"`
	Name         string    `json:"name"`
	Category     string    `json:"category"`
	PlayersLimit int       `json:"playersLimit"`
	TurnTime     int       `json:"turnTime"`
	IsPrivate    bool      `json:"isPrivate"`
	Password     *string   `json:"password"`
}

func (c CreateRoomCommand) Validate() error {
	if c.OwnerID == uuid.Nil {
		return fmt.Errorf("invalid OwnerID - '%s'", c.OwnerID)
	}

	if c.Name == "" {
		return fmt.Errorf("invalid Name - '%s'", c.Name)
	}

	if c.Category == "" {
		return fmt.Errorf("invalid Category - '%s'", c.Category)
	}

	if c.PlayersLimit <= 0 {
		return fmt.Errorf("invalid PlayersLimit - %d", c.PlayersLimit)
	}

	if c.TurnTime <= 0 {
		return fmt.Errorf("invalid TurnTime - %d", c.TurnTime)
	}

	return nil
}

func HandleCreateRoom(w http.ResponseWriter, r *http.Request) {
	command, err := core.RequestBody[CreateRoomCommand](r)
	if err != nil {
		core.WriteBadRequest(w, r, err)
		return
	}
	command.OwnerID = core.Session(r.Context()).UserID

	response, err := mediator.Send[CreateRoomCommand, domain.RoomView](r.Context(), command)
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	location := path.Join(r.Host, "rooms", response.ID.String())
	core.WriteCreated(w, r, location, response)
}

type CreateRoomCommandHandler struct {
	db     *sql.DB
	hasher *authdomain.PasswordHasher
}

func NewCreateRoomCommandHandler(db *sql.DB, hasher *authdomain.PasswordHasher) *CreateRoomCommandHandler {
	return &CreateRoomCommandHandler{db, hasher}
}

func (h *CreateRoomCommandHandler) Handle(
	ctx context.Context,
	request CreateRoomCommand,
) (domain.RoomView, error) {
	room := domain.Room{
		ID:           uuid.New(),
		Name:         request.Name,
		Category:     request.Category,
		OwnerID:      request.OwnerID,
		PlayersLimit: request.PlayersLimit,
		TurnTime:     request.TurnTime,
		IsPrivate:    request.IsPrivate,
		Status:       domain.RoomStatusOpen,
	}

	if request.Password != nil && *request.Password != "" {
		hashed, err := h.hasher.Hash(*request.Password)
		if err != nil {
			return domain.RoomView{}, core.NewInternalError(err)
		}

		room.HasPassword = true
		room.HashedPassword = &hashed
	}

	// The room and its first member are created as one unit - a room
	// never exists without an owner member.
	txErr := core.Tx(ctx, h.db, func(ctx context.Context, tx *sql.Tx) error {
		const roomStmt = `
			INSERT INTO
				rooms (id, name, category, room_owner_id, players_limit, turn_time, is_private, has_password, hashed_password, status)
			VALUES
				(:id, :name, :category, :room_owner_id, :players_limit, :turn_time, :is_private, :has_password, :hashed_password, :status);`
		if _, err := tql.Exec(ctx, tx, roomStmt, room); err != nil {
			return err
		}

		owner := domain.RoomPlayer{
			ID:      uuid.New(),
			RoomID:  room.ID,
			UserID:  request.OwnerID,
			IsOwner: true,
		}

		const playerStmt = `
			INSERT INTO
				room_players (id, room_id, user_id, is_owner)
			VALUES
				(:id, :room_id, :user_id, :is_owner);`
		_, err := tql.Exec(ctx, tx, playerStmt, owner)
		return err
	})
	if txErr != nil {
		return domain.RoomView{}, core.NewInternalError(txErr)
	}

	view, err := queries.FetchRoomView(ctx, h.db, room.ID)
	if err != nil {
		return domain.RoomView{}, core.NewInternalError(err)
	}

	return view, nil
}
