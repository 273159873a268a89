package commands

// Stable detail messages surfaced to callers.
const (
	errRoomNotFound     = "room not found"
	errRoomFull         = "room is full"
	errPasswordRequired = "password required"
	errInvalidPassword  = "invalid room password"
	errOnlyOwnerUpdate  = "only the room owner can update the room"
	errOnlyOwnerDelete  = "only the room owner can delete the room"
	errOnlyOwnerKick    = "only the room owner can kick players"
	errOwnerCannotKick  = "the room owner cannot kick themselves"
	errPlayerNotInRoom  = "player is not in the room"
)
