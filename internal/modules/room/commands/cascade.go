package commands

import (
	"context"
	"database/sql"

	"github.com/eskrenkovic/tql"
	"github.com/google/uuid"
)

// deleteRoomCascade removes a room and everything hanging off it in
// dependency order: game players, games, room members, then the room
// itself. Kept explicit so the cleanup is auditable instead of relying
// on storage-side cascades.
func deleteRoomCascade(ctx context.Context, tx *sql.Tx, roomID uuid.UUID) error {
	const deleteGamePlayersStmt = `
		DELETE FROM
			game_players gp
		USING
			games g
		WHERE
			gp.game_id = g.id AND g.room_id = $1;`
	if _, err := tql.Exec(ctx, tx, deleteGamePlayersStmt, roomID); err != nil {
		return err
	}

	const deleteGamesStmt = `
		DELETE FROM
			games
		WHERE
			room_id = $1;`
	if _, err := tql.Exec(ctx, tx, deleteGamesStmt, roomID); err != nil {
		return err
	}

	const deletePlayersStmt = `
		DELETE FROM
			room_players
		WHERE
			room_id = $1;`
	if _, err := tql.Exec(ctx, tx, deletePlayersStmt, roomID); err != nil {
		return err
	}

	const deleteRoomStmt = `
		DELETE FROM
			rooms
		WHERE
			id = $1;`
	_, err := tql.Exec(ctx, tx, deleteRoomStmt, roomID)
	return err
}
