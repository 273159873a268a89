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

type LeaveRoomCommand struct {
	RoomID uuid.UUID
	UserID uuid.UUID
}

func (c LeaveRoomCommand) Validate() error {
	if c.RoomID == uuid.Nil {
		return fmt.Errorf("invalid RoomID - '%s'", c.RoomID)
	}

	if c.UserID == uuid.Nil {
		return fmt.Errorf("invalid UserID - '%s'", c.UserID)
	}

	return nil
}

func HandleLeaveRoom(w http.ResponseWriter, r *http.Request) {
	roomID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		core.WriteBadRequest(w, r, fmt.Errorf("invalid room id"))
		return
	}

	command := LeaveRoomCommand{
		RoomID: roomID,
		UserID: core.Session(r.Context()).UserID,
	}

	if _, err := mediator.Send[LeaveRoomCommand, core.Unit](r.Context(), command); err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteNoContent(w, r)
}

type LeaveRoomCommandHandler struct {
	db *sql.DB
}

func NewLeaveRoomCommandHandler(db *sql.DB) *LeaveRoomCommandHandler {
	return &LeaveRoomCommandHandler{db}
}

func (h *LeaveRoomCommandHandler) Handle(
	ctx context.Context,
	request LeaveRoomCommand,
) (core.Unit, error) {
	txErr := core.Tx(ctx, h.db, func(ctx context.Context, tx *sql.Tx) error {
		// Locking the room serializes concurrent leaves, so ownership
		// succession always works from a consistent member list.
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

		// Best-effort removal - leaving a room you are not in is a no-op.
		const deleteStmt = `
			DELETE FROM
				room_players
			WHERE
				room_id = $1 AND user_id = $2;`
		if _, err := tql.Exec(ctx, tx, deleteStmt, request.RoomID, request.UserID); err != nil {
			return err
		}

		if room.OwnerID != request.UserID {
			return nil
		}

		const remainingQuery = `
			SELECT
				*
			FROM
				room_players
			WHERE
				room_id = $1
			ORDER BY
				created_at ASC, id ASC;`
		remaining, err := tql.Query[domain.RoomPlayer](ctx, tx, remainingQuery, request.RoomID)
		if err != nil {
			return err
		}

		successor, found := domain.NextOwner(remaining)
		if !found {
			// A room cannot exist ownerless and empty.
			return deleteRoomCascade(ctx, tx, request.RoomID)
		}

		const promoteStmt = `
			UPDATE
				room_players
			SET
				is_owner = true
			WHERE
				id = $1;`
		if _, err := tql.Exec(ctx, tx, promoteStmt, successor.ID); err != nil {
			return err
		}

		const ownerStmt = `
			UPDATE
				rooms
			SET
				room_owner_id = $1
			WHERE
				id = $2;`
		_, err = tql.Exec(ctx, tx, ownerStmt, successor.UserID, request.RoomID)
		return err
	})

	return core.Unit{}, core.TxError(txErr)
}
