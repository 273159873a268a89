package queries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/wordparty/wordparty/internal/modules/core"
	"github.com/wordparty/wordparty/internal/modules/room/domain"

	"github.com/eskrenkovic/mediator-go"
	"github.com/go-chi/chi"
	"github.com/google/uuid"
)

const errRoomNotFound = "room not found"

type GetRoomQuery struct {
	RoomID uuid.UUID
}

func (q GetRoomQuery) Validate() error {
	if q.RoomID == uuid.Nil {
		return fmt.Errorf("invalid RoomID - '%s'", q.RoomID)
	}

	return nil
}

func HandleGetRoom(w http.ResponseWriter, r *http.Request) {
	roomID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		core.WriteBadRequest(w, r, fmt.Errorf("invalid room id"))
		return
	}

	response, err := mediator.Send[GetRoomQuery, domain.RoomView](r.Context(), GetRoomQuery{RoomID: roomID})
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteOK(w, r, response)
}

func HandleListRoomPlayers(w http.ResponseWriter, r *http.Request) {
	roomID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		core.WriteBadRequest(w, r, fmt.Errorf("invalid room id"))
		return
	}

	response, err := mediator.Send[GetRoomQuery, domain.RoomView](r.Context(), GetRoomQuery{RoomID: roomID})
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteOK(w, r, response.Players)
}

type GetRoomQueryHandler struct {
	db *sql.DB
}

func NewGetRoomQueryHandler(db *sql.DB) *GetRoomQueryHandler {
	return &GetRoomQueryHandler{db}
}

func (h *GetRoomQueryHandler) Handle(
	ctx context.Context,
	request GetRoomQuery,
) (domain.RoomView, error) {
	view, err := FetchRoomView(ctx, h.db, request.RoomID)
	switch {
	case err != nil && errors.Is(err, sql.ErrNoRows):
		return domain.RoomView{}, core.NewNotFoundError(err, errRoomNotFound)
	case err != nil:
		return domain.RoomView{}, core.NewInternalError(err)
	}

	return view, nil
}
