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

// GuessCommand records a guess from a snapshotted participant. Every
// accepted guess awards exactly one point - there is no word matching
// against a target here.
type GuessCommand struct {
	GameID uuid.UUID `json:"-"`
	UserID uuid.UUID `json:"-"`
	Text   string    `json:"text"`
}

func (c GuessCommand) Validate() error {
	if c.GameID == uuid.Nil {
		return fmt.Errorf("invalid GameID - '%s'", c.GameID)
	}

	if c.UserID == uuid.Nil {
		return fmt.Errorf("invalid UserID - '%s'", c.UserID)
	}

	if c.Text == "" {
		return fmt.Errorf("invalid Text - ''")
	}

	return nil
}

func HandleGuess(w http.ResponseWriter, r *http.Request) {
	gameID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		core.WriteBadRequest(w, r, fmt.Errorf("invalid game id"))
		return
	}

	command, err := core.RequestBody[GuessCommand](r)
	if err != nil {
		core.WriteBadRequest(w, r, err)
		return
	}
	command.GameID = gameID
	command.UserID = core.Session(r.Context()).UserID

	response, err := mediator.Send[GuessCommand, domain.GameView](r.Context(), command)
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteOK(w, r, response)
}

type GuessCommandHandler struct {
	db    *sql.DB
	clock core.Clock
}

func NewGuessCommandHandler(db *sql.DB, clock core.Clock) *GuessCommandHandler {
	return &GuessCommandHandler{db, clock}
}

func (h *GuessCommandHandler) Handle(
	ctx context.Context,
	request GuessCommand,
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

		// Guessing against anything but a running game is a no-op.
		if game.State != domain.GameStateRunning {
			return nil
		}

		const playerQuery = `
			SELECT
				*
			FROM
				game_players
			WHERE
				game_id = $1 AND user_id = $2;`
		player, err := tql.QueryFirst[domain.GamePlayer](ctx, tx, playerQuery, request.GameID, request.UserID)
		switch {
		case err != nil && errors.Is(err, sql.ErrNoRows):
			return core.NewNotAuthorizedError(err, errNotInGame)
		case err != nil:
			return err
		}

		const updateStmt = `
			UPDATE
				game_players
			SET
				points = points + 1
			WHERE
				id = $1;`
		if _, err = tql.Exec(ctx, tx, updateStmt, player.ID); err != nil {
			return err
		}

		// The lifetime total backing the leaderboard moves in lockstep
		// with the in-game score.
		const totalStmt = `
			UPDATE
				users
			SET
				points = points + 1
			WHERE
				id = $1;`
		_, err = tql.Exec(ctx, tx, totalStmt, request.UserID)
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
