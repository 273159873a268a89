package commands

// Stable detail messages surfaced to callers.
const (
	errRoomNotFound    = "room not found"
	errGameNotFound    = "game not found"
	errOnlyOwnerStart  = "only the room owner can start the game"
	errOnlyOwnerTick   = "only the room owner can tick the game"
	errRoomNotOpen     = "room is not open"
	errNoPlayersInRoom = "no players in room"
	errNotInGame       = "player is not part of the game"
)
