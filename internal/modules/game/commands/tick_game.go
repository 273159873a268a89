package commands

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/wordparty/wordparty/internal/modules/core"
	"github.com/wordparty/wordparty/internal/modules/game/domain"
	"github.com/wordparty/wordparty/internal/modules/game/queries"

	"github.com/eskrenkovic/mediator-go"
	"github.com/eskrenkovic/tql"
	"github.com/go-chi/chi"
	"github.com/google/uuid"
)

// TickGameCommand advances the round clock. Round advancement is
// poll-driven: it only happens when a client invokes tick, not on a
// background timer.
type TickGameCommand struct {
	GameID  uuid.UUID
	ActorID uuid.UUID
}

func (c TickGameCommand) Validate() error {
	if c.GameID == uuid.Nil {
		return fmt.Errorf("invalid GameID - '%s'", c.GameID)
	}

	if c.ActorID == uuid.Nil {
		return fmt.Errorf("invalid ActorID - '%s'", c.ActorID)
	}

	return nil
}

func HandleTickGame(w http.ResponseWriter, r *http.Request) {
	gameID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		core.WriteBadRequest(w, r, fmt.Errorf("invalid game id"))
		return
	}

	command := TickGameCommand{
		GameID:  gameID,
		ActorID: core.Session(r.Context()).UserID,
	}

	response, err := mediator.Send[TickGameCommand, domain.GameView](r.Context(), command)
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteOK(w, r, response)
}

type TickGameCommandHandler struct {
	db    *sql.DB
	clock core.Clock
}

func NewTickGameCommandHandler(db *sql.DB, clock core.Clock) *TickGameCommandHandler {
	return &TickGameCommandHandler{db, clock}
}

func (h *TickGameCommandHandler) Handle(
	ctx context.Context,
	request TickGameCommand,
) (domain.GameView, error) {
	txErr := core.Tx(ctx, h.db, func(ctx context.Context, tx *sql.Tx) error {
		const gameQuery = `
			SELECT
				*
			FROM
				games
			WHERE
				id = $1
			FOR UPDATE;`
		game, err := tql.QueryFirst[domain.Game](ctx, tx, gameQuery, request.GameID)
		switch {
		case err != nil && errors.Is(err, sql.ErrNoRows):
			return core.NewNotFoundError(err, errGameNotFound)
		case err != nil:
			return err
		}

		const ownerQuery = `
			SELECT
				room_owner_id
			FROM
				rooms
			WHERE
				id = $1;`
		ownerID, err := tql.QueryFirst[uuid.UUID](ctx, tx, ownerQuery, game.RoomID)
		if err != nil {
			return err
		}

		if ownerID != request.ActorID {
			return core.NewPermissionDeniedError(nil, errOnlyOwnerTick)
		}

		// Ticking anything but a running game is a no-op.
		if game.State != domain.GameStateRunning {
			return nil
		}

		t := domain.ComputeTime(game, h.clock.Now())

		round := game.Round
		if t.Left <= 0 {
			round++
		}

		// last_tick_at resets whether or not the round advanced.
		const updateStmt = `
			UPDATE
				games
			SET
				round = $1,
				last_tick_at = $2
			WHERE
				id = $3;`
		_, err = tql.Exec(ctx, tx, updateStmt, round, t.Now, request.GameID)
		return err
	})
	if txErr != nil {
		return domain.GameView{}, core.TxError(txErr)
	}

	view, err := queries.FetchGameView(ctx, h.db, request.GameID, h.clock.Now())
	if err != nil {
		return domain.GameView{}, core.NewInternalError(err)
	}

	return view, nil
}
