package api

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/wordparty/wordparty/internal/modules/core"
	roomcommands "github.com/wordparty/wordparty/internal/modules/room/commands"
	roomdomain "github.com/wordparty/wordparty/internal/modules/room/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func Test_CreateRoom_Creates_Room_With_Creator_As_Owner(t *testing.T) {
	// Arrange
	owner := signUp(t)

	command := roomcommands.CreateRoomCommand{
		Name:         "friday night",
		Category:     "Movies",
		PlayersLimit: 4,
		TurnTime:     45,
	}

	// Act
	room := createRoom(t, owner, command)

	// Assert
	require.Equal(t, command.Name, room.Name)
	require.Equal(t, command.Category, room.Category)
	require.Equal(t, command.PlayersLimit, room.PlayersLimit)
	require.Equal(t, command.TurnTime, room.TurnTime)
	require.Equal(t, roomdomain.RoomStatusOpen, room.Status)
	require.Equal(t, owner.id, room.RoomOwner)
	require.False(t, room.HasPassword)

	require.Len(t, room.Players, 1)
	require.Equal(t, owner.id, room.Players[0].User.ID)
	require.True(t, room.Players[0].IsOwner)
}

func Test_CreateRoom_With_Password_Does_Not_Leak_The_Hash(t *testing.T) {
	// Arrange
	owner := signUp(t)
	password := "pass123"

	command := roomcommands.CreateRoomCommand{
		Name:         "secret club",
		Category:     "Music",
		PlayersLimit: 4,
		TurnTime:     30,
		IsPrivate:    true,
		Password:     &password,
	}

	// Act
	room := createRoom(t, owner, command)

	// Assert
	require.True(t, room.HasPassword)
	require.True(t, room.IsPrivate)

	fetched := getRoom(t, room.ID, expectStatus(t, http.StatusOK))
	require.True(t, fetched.HasPassword)
}

func Test_GetRoom_Returns_NotFound_For_Unknown_Room(t *testing.T) {
	// Act
	_, err := sendRequest[struct{}, core.ErrorResponse](
		fixture.client,
		fmt.Sprintf("%s/rooms/%s", fixture.baseURL, uuid.New()),
		http.MethodGet,
		struct{}{},
		expectStatus(t, http.StatusNotFound),
	)

	// Assert
	require.NoError(t, err)
}

func Test_ListRooms_Contains_Newly_Created_Room(t *testing.T) {
	// Arrange
	owner := signUp(t)
	room := createRoom(t, owner, roomcommands.CreateRoomCommand{
		Name:         uuid.New().String(),
		Category:     "Geography",
		PlayersLimit: 4,
		TurnTime:     30,
	})

	// Act
	rooms, err := sendRequest[struct{}, []roomdomain.RoomView](
		fixture.client,
		fmt.Sprintf("%s/rooms?q=%s", fixture.baseURL, room.Name),
		http.MethodGet,
		struct{}{},
		expectStatus(t, http.StatusOK),
	)

	// Assert
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	require.Equal(t, room.ID, rooms[0].ID)
}

func Test_JoinRoom_Is_Idempotent_For_Current_Members(t *testing.T) {
	// Arrange
	owner := signUp(t)
	member := signUp(t)

	room := createRoom(t, owner, roomcommands.CreateRoomCommand{
		Name:         "repeat joiners",
		Category:     "Food",
		PlayersLimit: 4,
		TurnTime:     30,
	})

	joinRoom(t, member, room.ID, nil, expectStatus(t, http.StatusOK))

	// Act
	view := joinRoom(t, member, room.ID, nil, expectStatus(t, http.StatusOK))

	// Assert
	require.Len(t, view.Players, 2)
}

func Test_JoinRoom_Rejects_Player_When_Room_Full(t *testing.T) {
	// Arrange
	owner := signUp(t)
	second := signUp(t)
	third := signUp(t)

	room := createRoom(t, owner, roomcommands.CreateRoomCommand{
		Name:         "tiny room",
		Category:     "Animals",
		PlayersLimit: 2,
		TurnTime:     30,
	})

	joinRoom(t, second, room.ID, nil, expectStatus(t, http.StatusOK))

	// Act
	joinRoom(t, third, room.ID, nil, expectStatus(t, http.StatusUnauthorized))

	// Assert
	view := getRoom(t, room.ID, expectStatus(t, http.StatusOK))
	require.Len(t, view.Players, 2)
}

func Test_JoinRoom_Requires_Password_For_Protected_Room(t *testing.T) {
	// Arrange
	owner := signUp(t)
	joiner := signUp(t)
	password := "sesame"

	room := createRoom(t, owner, roomcommands.CreateRoomCommand{
		Name:         "guarded",
		Category:     "Movies",
		PlayersLimit: 4,
		TurnTime:     30,
		Password:     &password,
	})

	wrong := "not-sesame"

	// Act & Assert
	joinRoom(t, joiner, room.ID, nil, expectStatus(t, http.StatusUnauthorized))
	joinRoom(t, joiner, room.ID, &wrong, expectStatus(t, http.StatusUnauthorized))

	view := joinRoom(t, joiner, room.ID, &password, expectStatus(t, http.StatusOK))
	require.Len(t, view.Players, 2)
}

func Test_LeaveRoom_Promotes_Longest_Tenured_Member_When_Owner_Leaves(t *testing.T) {
	// Arrange
	owner := signUp(t)
	successor := signUp(t)

	room := createRoom(t, owner, roomcommands.CreateRoomCommand{
		Name:         "succession",
		Category:     "Music",
		PlayersLimit: 4,
		TurnTime:     30,
	})

	joinRoom(t, successor, room.ID, nil, expectStatus(t, http.StatusOK))

	// Act
	_, err := sendRequest[struct{}, struct{}](
		owner.client,
		fmt.Sprintf("%s/rooms/%s/leave", fixture.baseURL, room.ID),
		http.MethodPost,
		struct{}{},
		expectStatus(t, http.StatusNoContent),
	)

	// Assert
	require.NoError(t, err)

	view := getRoom(t, room.ID, expectStatus(t, http.StatusOK))
	require.Equal(t, successor.id, view.RoomOwner)
	require.Len(t, view.Players, 1)
	require.True(t, view.Players[0].IsOwner)
}

func Test_LeaveRoom_Deletes_Room_When_Last_Member_Leaves(t *testing.T) {
	// Arrange
	owner := signUp(t)

	room := createRoom(t, owner, roomcommands.CreateRoomCommand{
		Name:         "ghost town",
		Category:     "Geography",
		PlayersLimit: 4,
		TurnTime:     30,
	})

	// Act
	_, err := sendRequest[struct{}, struct{}](
		owner.client,
		fmt.Sprintf("%s/rooms/%s/leave", fixture.baseURL, room.ID),
		http.MethodPost,
		struct{}{},
		expectStatus(t, http.StatusNoContent),
	)

	// Assert
	require.NoError(t, err)

	_, err = sendRequest[struct{}, core.ErrorResponse](
		fixture.client,
		fmt.Sprintf("%s/rooms/%s", fixture.baseURL, room.ID),
		http.MethodGet,
		struct{}{},
		expectStatus(t, http.StatusNotFound),
	)
	require.NoError(t, err)
}

func Test_KickPlayer_Removes_Member_When_Requested_By_Owner(t *testing.T) {
	// Arrange
	owner := signUp(t)
	member := signUp(t)

	room := createRoom(t, owner, roomcommands.CreateRoomCommand{
		Name:         "bouncer",
		Category:     "Animals",
		PlayersLimit: 4,
		TurnTime:     30,
	})

	joinRoom(t, member, room.ID, nil, expectStatus(t, http.StatusOK))

	// Act
	_, err := sendRequest[struct{}, struct{}](
		owner.client,
		fmt.Sprintf("%s/rooms/%s/players/%s", fixture.baseURL, room.ID, member.id),
		http.MethodDelete,
		struct{}{},
		expectStatus(t, http.StatusNoContent),
	)

	// Assert
	require.NoError(t, err)

	view := getRoom(t, room.ID, expectStatus(t, http.StatusOK))
	require.Len(t, view.Players, 1)
	require.Equal(t, owner.id, view.Players[0].User.ID)
}

func Test_KickPlayer_Rejects_Non_Owner_And_Self_Kick(t *testing.T) {
	// Arrange
	owner := signUp(t)
	member := signUp(t)

	room := createRoom(t, owner, roomcommands.CreateRoomCommand{
		Name:         "no vigilantes",
		Category:     "Food",
		PlayersLimit: 4,
		TurnTime:     30,
	})

	joinRoom(t, member, room.ID, nil, expectStatus(t, http.StatusOK))

	// Act & Assert
	_, err := sendRequest[struct{}, core.ErrorResponse](
		member.client,
		fmt.Sprintf("%s/rooms/%s/players/%s", fixture.baseURL, room.ID, owner.id),
		http.MethodDelete,
		struct{}{},
		expectStatus(t, http.StatusForbidden),
	)
	require.NoError(t, err)

	_, err = sendRequest[struct{}, core.ErrorResponse](
		owner.client,
		fmt.Sprintf("%s/rooms/%s/players/%s", fixture.baseURL, room.ID, owner.id),
		http.MethodDelete,
		struct{}{},
		expectStatus(t, http.StatusForbidden),
	)
	require.NoError(t, err)

	view := getRoom(t, room.ID, expectStatus(t, http.StatusOK))
	require.Len(t, view.Players, 2)
}

func Test_UpdateRoom_Applies_Partial_Patch_For_Owner(t *testing.T) {
	// Arrange
	owner := signUp(t)

	room := createRoom(t, owner, roomcommands.CreateRoomCommand{
		Name:         "before",
		Category:     "Movies",
		PlayersLimit: 4,
		TurnTime:     30,
	})

	newName := "after"
	newLimit := 8

	command := roomcommands.UpdateRoomCommand{
		Name:         &newName,
		PlayersLimit: &newLimit,
	}

	// Act
	updated, err := sendRequest[roomcommands.UpdateRoomCommand, roomdomain.RoomView](
		owner.client,
		fmt.Sprintf("%s/rooms/%s", fixture.baseURL, room.ID),
		http.MethodPatch,
		command,
		expectStatus(t, http.StatusOK),
	)

	// Assert
	require.NoError(t, err)
	require.Equal(t, newName, updated.Name)
	require.Equal(t, newLimit, updated.PlayersLimit)
	require.Equal(t, room.Category, updated.Category)
	require.Equal(t, room.TurnTime, updated.TurnTime)
}

func Test_UpdateRoom_Rejects_Non_Owner(t *testing.T) {
	// Arrange
	owner := signUp(t)
	member := signUp(t)

	room := createRoom(t, owner, roomcommands.CreateRoomCommand{
		Name:         "locked down",
		Category:     "Music",
		PlayersLimit: 4,
		TurnTime:     30,
	})

	joinRoom(t, member, room.ID, nil, expectStatus(t, http.StatusOK))

	newName := "hijacked"

	// Act
	_, err := sendRequest[roomcommands.UpdateRoomCommand, core.ErrorResponse](
		member.client,
		fmt.Sprintf("%s/rooms/%s", fixture.baseURL, room.ID),
		http.MethodPatch,
		roomcommands.UpdateRoomCommand{Name: &newName},
		expectStatus(t, http.StatusForbidden),
	)

	// Assert
	require.NoError(t, err)

	view := getRoom(t, room.ID, expectStatus(t, http.StatusOK))
	require.Equal(t, room.Name, view.Name)
}

func Test_DeleteRoom_Removes_Room_And_Memberships_For_Owner(t *testing.T) {
	// Arrange
	owner := signUp(t)
	member := signUp(t)

	room := createRoom(t, owner, roomcommands.CreateRoomCommand{
		Name:         "condemned",
		Category:     "Geography",
		PlayersLimit: 4,
		TurnTime:     30,
	})

	joinRoom(t, member, room.ID, nil, expectStatus(t, http.StatusOK))

	// Act
	_, err := sendRequest[struct{}, struct{}](
		owner.client,
		fmt.Sprintf("%s/rooms/%s", fixture.baseURL, room.ID),
		http.MethodDelete,
		struct{}{},
		expectStatus(t, http.StatusNoContent),
	)

	// Assert
	require.NoError(t, err)

	_, err = sendRequest[struct{}, core.ErrorResponse](
		fixture.client,
		fmt.Sprintf("%s/rooms/%s", fixture.baseURL, room.ID),
		http.MethodGet,
		struct{}{},
		expectStatus(t, http.StatusNotFound),
	)
	require.NoError(t, err)
}

func Test_DeleteRoom_Rejects_Non_Owner(t *testing.T) {
	// Arrange
	owner := signUp(t)
	member := signUp(t)

	room := createRoom(t, owner, roomcommands.CreateRoomCommand{
		Name:         "protected",
		Category:     "Animals",
		PlayersLimit: 4,
		TurnTime:     30,
	})

	joinRoom(t, member, room.ID, nil, expectStatus(t, http.StatusOK))

	// Act
	_, err := sendRequest[struct{}, core.ErrorResponse](
		member.client,
		fmt.Sprintf("%s/rooms/%s", fixture.baseURL, room.ID),
		http.MethodDelete,
		struct{}{},
		expectStatus(t, http.StatusForbidden),
	)

	// Assert
	require.NoError(t, err)

	getRoom(t, room.ID, expectStatus(t, http.StatusOK))
}
