package commands

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/wordparty/wordparty/internal/modules/core"
	"github.com/wordparty/wordparty/internal/modules/room/domain"

	"github.com/eskrenkovic/mediator-go"
	"github.com/eskrenkovic/tql"
	"github.com/go-chi/chi"
	"github.com/google/uuid"
)

type DeleteRoomCommand struct {
	RoomID  uuid.UUID
	ActorID uuid.UUID
}

func (c DeleteRoomCommand) Validate() error {
	if c.RoomID == uuid.Nil {
		return fmt.Errorf("invalid RoomID - '%s'", c.RoomID)
	}

	if c.ActorID == uuid.Nil {
		return fmt.Errorf("invalid ActorID - '%s'", c.ActorID)
	}

	return nil
}

func HandleDeleteRoom(w http.ResponseWriter, r *http.Request) {
	roomID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		core.WriteBadRequest(w, r, fmt.Errorf("invalid room id"))
		return
	}

	command := DeleteRoomCommand{
		RoomID:  roomID,
		ActorID: core.Session(r.Context()).UserID,
	}

	if _, err := mediator.Send[DeleteRoomCommand, core.Unit](r.Context(), command); err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteNoContent(w, r)
}

type DeleteRoomCommandHandler struct {
	db *sql.DB
}

func NewDeleteRoomCommandHandler(db *sql.DB) *DeleteRoomCommandHandler {
	return &DeleteRoomCommandHandler{db}
}

func (h *DeleteRoomCommandHandler) Handle(
	ctx context.Context,
	request DeleteRoomCommand,
) (core.Unit, error) {
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
			return core.NewPermissionDeniedError(nil, errOnlyOwnerDelete)
		}

		return deleteRoomCascade(ctx, tx, request.RoomID)
	})

	return core.Unit{}, core.TxError(txErr)
}
