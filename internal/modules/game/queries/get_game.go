package queries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/wordparty/wordparty/internal/modules/core"
	"github.com/wordparty/wordparty/internal/modules/game/domain"

	"github.com/eskrenkovic/mediator-go"
	"github.com/go-chi/chi"
	"github.com/google/uuid"
)

const errGameNotFound = "game not found"

type GetGameQuery struct {
	GameID uuid.UUID
}

func (q GetGameQuery) Validate() error {
	if q.GameID == uuid.Nil {
		return fmt.Errorf("invalid GameID - '%s'", q.GameID)
	}

	return nil
}

func HandleGetGame(w http.ResponseWriter, r *http.Request) {
	gameID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		core.WriteBadRequest(w, r, fmt.Errorf("invalid game id"))
		return
	}

	response, err := mediator.Send[GetGameQuery, domain.GameView](r.Context(), GetGameQuery{GameID: gameID})
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteOK(w, r, response)
}

type GetGameQueryHandler struct {
	db    *sql.DB
	clock core.Clock
}

func NewGetGameQueryHandler(db *sql.DB, clock core.Clock) *GetGameQueryHandler {
	return &GetGameQueryHandler{db, clock}
}

func (h *GetGameQueryHandler) Handle(
	ctx context.Context,
	request GetGameQuery,
) (domain.GameView, error) {
	view, err := FetchGameView(ctx, h.db, request.GameID, h.clock.Now())
	switch {
	case err != nil && errors.Is(err, sql.ErrNoRows):
		return domain.GameView{}, core.NewNotFoundError(err, errGameNotFound)
	case err != nil:
		return domain.GameView{}, core.NewInternalError(err)
	}

	return view, nil
}
