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

type KickPlayerCommand struct {
	RoomID       uuid.UUID
	ActorID      uuid.UUID
	TargetUserID uuid.UUID
}

func (c KickPlayerCommand) Validate() error {
	if c.RoomID == uuid.Nil {
		return fmt.Errorf("invalid RoomID - '%s'", c.RoomID)
	}

	if c.ActorID == uuid.Nil {
		return fmt.Errorf("invalid ActorID - '%s'", c.ActorID)
	}

	if c.TargetUserID == uuid.Nil {
		return fmt.Errorf("invalid TargetUserID - '%s'", c.TargetUserID)
	}

	return nil
}

func HandleKickPlayer(w http.ResponseWriter, r *http.Request) {
	roomID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		core.WriteBadRequest(w, r, fmt.Errorf("invalid room id"))
		return
	}

	targetUserID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		core.WriteBadRequest(w, r, fmt.Errorf("invalid user id"))
		return
	}

	command := KickPlayerCommand{
		RoomID:       roomID,
		ActorID:      core.Session(r.Context()).UserID,
		TargetUserID: targetUserID,
	}

	if _, err := mediator.Send[KickPlayerCommand, core.Unit](r.Context(), command); err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteNoContent(w, r)
}

type KickPlayerCommandHandler struct {
	db *sql.DB
}

func NewKickPlayerCommandHandler(db *sql.DB) *KickPlayerCommandHandler {
	return &KickPlayerCommandHandler{db}
}

func (h *KickPlayerCommandHandler) Handle(
	ctx context.Context,
	request KickPlayerCommand,
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
			return core.NewPermissionDeniedError(nil, errOnlyOwnerKick)
		}

		// Owners leave, they do not kick themselves - this keeps the
		// kick path from ever touching ownership succession.
		if request.TargetUserID == request.ActorID {
			return core.NewPermissionDeniedError(nil, errOwnerCannotKick)
		}

		const deleteStmt = `
			DELETE FROM
				room_players
			WHERE
				room_id = $1 AND user_id = $2;`
		result, err := tql.Exec(ctx, tx, deleteStmt, request.RoomID, request.TargetUserID)
		if err != nil {
			return err
		}

		deleted, err := result.RowsAffected()
		if err != nil {
			return err
		}

		if deleted == 0 {
			return core.NewNotFoundError(nil, errPlayerNotInRoom)
		}

		return nil
	})

	return core.Unit{}, core.TxError(txErr)
}
