package queries

import (
	"context"
	"time"

	"github.com/wordparty/wordparty/internal/modules/game/domain"

	"github.com/eskrenkovic/tql"
	"github.com/google/uuid"
)

// FetchGameView loads a game with its players and the owning room's
// name, projected with a live time-left for the given instant. Returns
// sql.ErrNoRows when the game does not exist.
func FetchGameView(
	ctx context.Context,
	q tql.Querier,
	gameID uuid.UUID,
	now time.Time,
) (domain.GameView, error) {
	const gameQuery = `
		SELECT
			g.*
		FROM
			games g
		WHERE
			g.id = $1;`
	game, err := tql.QueryFirst[domain.Game](ctx, q, gameQuery, gameID)
	if err != nil {
		return domain.GameView{}, err
	}

	const roomNameQuery = `
		SELECT
			name
		FROM
			rooms
		WHERE
			id = $1;`
	roomName, err := tql.QueryFirstOrDefault[string](ctx, q, "", roomNameQuery, game.RoomID)
	if err != nil {
		return domain.GameView{}, err
	}

	players, err := FetchGamePlayers(ctx, q, gameID)
	if err != nil {
		return domain.GameView{}, err
	}

	return domain.BuildGameView(game, roomName, players, now), nil
}

func FetchGamePlayers(
	ctx context.Context,
	q tql.Querier,
	gameID uuid.UUID,
) ([]domain.GamePlayer, error) {
	const query = `
		SELECT
			*
		FROM
			game_players
		WHERE
			game_id = $1
		ORDER BY
			created_at ASC, id ASC;`
	return tql.Query[domain.GamePlayer](ctx, q, query, gameID)
}
