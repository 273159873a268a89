package api

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/wordparty/wordparty/internal/modules/core"
	gamecommands "github.com/wordparty/wordparty/internal/modules/game/commands"
	gamedomain "github.com/wordparty/wordparty/internal/modules/game/domain"
	roomcommands "github.com/wordparty/wordparty/internal/modules/room/commands"
	roomdomain "github.com/wordparty/wordparty/internal/modules/room/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func startGame(t *testing.T, owner testUser, roomID uuid.UUID, opts ...responseAssertion) gamedomain.GameView {
	t.Helper()

	game, err := sendRequest[struct{}, gamedomain.GameView](
		owner.client,
		fmt.Sprintf("%s/rooms/%s/start", fixture.baseURL, roomID),
		http.MethodPost,
		struct{}{},
		opts...,
	)
	require.NoError(t, err)

	return game
}

func getGame(t *testing.T, gameID uuid.UUID, opts ...responseAssertion) gamedomain.GameView {
	t.Helper()

	game, err := sendRequest[struct{}, gamedomain.GameView](
		fixture.client,
		fmt.Sprintf("%s/games/%s", fixture.baseURL, gameID),
		http.MethodGet,
		struct{}{},
		opts...,
	)
	require.NoError(t, err)

	return game
}

func guess(t *testing.T, user testUser, gameID uuid.UUID, text string, opts ...responseAssertion) gamedomain.GameView {
	t.Helper()

	game, err := sendRequest[gamecommands.GuessCommand, gamedomain.GameView](
		user.client,
		fmt.Sprintf("%s/games/%s/guess", fixture.baseURL, gameID),
		http.MethodPost,
		gamecommands.GuessCommand{Text: text},
		opts...,
	)
	require.NoError(t, err)

	return game
}

func Test_StartGame_Starts_Running_Game_With_Room_Members(t *testing.T) {
	// Arrange
	owner := signUp(t)
	member := signUp(t)

	room := createRoom(t, owner, roomcommands.CreateRoomCommand{
		Name:         "game night",
		Category:     "Movies",
		PlayersLimit: 4,
		TurnTime:     60,
	})

	joinRoom(t, member, room.ID, nil, expectStatus(t, http.StatusOK))

	// Act
	game := startGame(t, owner, room.ID, expectStatus(t, http.StatusCreated))

	// Assert
	require.Equal(t, room.ID, game.RoomID)
	require.Equal(t, gamedomain.GameStateRunning, game.State)
	require.Equal(t, 1, game.Round)
	require.Equal(t, room.TurnTime, game.TurnTime)

	require.Len(t, game.Points, 2)
	for _, point := range game.Points {
		require.Zero(t, point.Value)
	}

	view := getRoom(t, room.ID, expectStatus(t, http.StatusOK))
	require.Equal(t, roomdomain.RoomStatusInGame, view.Status)
}

func Test_StartGame_Rejects_Non_Owner(t *testing.T) {
	// Arrange
	owner := signUp(t)
	member := signUp(t)

	room := createRoom(t, owner, roomcommands.CreateRoomCommand{
		Name:         "not yours",
		Category:     "Music",
		PlayersLimit: 4,
		TurnTime:     60,
	})

	joinRoom(t, member, room.ID, nil, expectStatus(t, http.StatusOK))

	// Act
	_, err := sendRequest[struct{}, core.ErrorResponse](
		member.client,
		fmt.Sprintf("%s/rooms/%s/start", fixture.baseURL, room.ID),
		http.MethodPost,
		struct{}{},
		expectStatus(t, http.StatusForbidden),
	)

	// Assert
	require.NoError(t, err)
}

func Test_StartGame_Rejects_Room_Already_In_Game(t *testing.T) {
	// Arrange
	owner := signUp(t)

	room := createRoom(t, owner, roomcommands.CreateRoomCommand{
		Name:         "double start",
		Category:     "Food",
		PlayersLimit: 4,
		TurnTime:     60,
	})

	startGame(t, owner, room.ID, expectStatus(t, http.StatusCreated))

	// Act
	_, err := sendRequest[struct{}, core.ErrorResponse](
		owner.client,
		fmt.Sprintf("%s/rooms/%s/start", fixture.baseURL, room.ID),
		http.MethodPost,
		struct{}{},
		expectStatus(t, http.StatusUnauthorized),
	)

	// Assert
	require.NoError(t, err)
}

func Test_GetGame_Returns_NotFound_For_Unknown_Game(t *testing.T) {
	// Act
	_, err := sendRequest[struct{}, core.ErrorResponse](
		fixture.client,
		fmt.Sprintf("%s/games/%s", fixture.baseURL, uuid.New()),
		http.MethodGet,
		struct{}{},
		expectStatus(t, http.StatusNotFound),
	)

	// Assert
	require.NoError(t, err)
}

func Test_Guess_Awards_Point_To_Guessing_Player(t *testing.T) {
	// Arrange
	owner := signUp(t)
	member := signUp(t)

	room := createRoom(t, owner, roomcommands.CreateRoomCommand{
		Name:         "point scoring",
		Category:     "Animals",
		PlayersLimit: 4,
		TurnTime:     60,
	})

	joinRoom(t, member, room.ID, nil, expectStatus(t, http.StatusOK))
	game := startGame(t, owner, room.ID, expectStatus(t, http.StatusCreated))

	// Act
	updated := guess(t, member, game.ID, "zebra", expectStatus(t, http.StatusOK))

	// Assert
	points := map[uuid.UUID]int{}
	for _, point := range updated.Points {
		points[point.UserID] = point.Value
	}

	require.Equal(t, 1, points[member.id])
	require.Equal(t, 0, points[owner.id])
}

func Test_Guess_Rejects_User_Outside_The_Game(t *testing.T) {
	// Arrange
	owner := signUp(t)
	outsider := signUp(t)

	room := createRoom(t, owner, roomcommands.CreateRoomCommand{
		Name:         "members only",
		Category:     "Geography",
		PlayersLimit: 4,
		TurnTime:     60,
	})

	game := startGame(t, owner, room.ID, expectStatus(t, http.StatusCreated))

	// Act
	_, err := sendRequest[gamecommands.GuessCommand, core.ErrorResponse](
		outsider.client,
		fmt.Sprintf("%s/games/%s/guess", fixture.baseURL, game.ID),
		http.MethodPost,
		gamecommands.GuessCommand{Text: "nice try"},
		expectStatus(t, http.StatusUnauthorized),
	)

	// Assert
	require.NoError(t, err)
}

func Test_Tick_Keeps_Round_While_Turn_Time_Remains(t *testing.T) {
	// Arrange
	owner := signUp(t)

	room := createRoom(t, owner, roomcommands.CreateRoomCommand{
		Name:         "slow clock",
		Category:     "Movies",
		PlayersLimit: 4,
		TurnTime:     3600,
	})

	game := startGame(t, owner, room.ID, expectStatus(t, http.StatusCreated))

	// Act
	ticked, err := sendRequest[struct{}, gamedomain.GameView](
		owner.client,
		fmt.Sprintf("%s/games/%s/tick", fixture.baseURL, game.ID),
		http.MethodPost,
		struct{}{},
		expectStatus(t, http.StatusOK),
	)

	// Assert
	require.NoError(t, err)
	require.Equal(t, 1, ticked.Round)
	require.Positive(t, ticked.TimeLeft)
}

func Test_Tick_Advances_Round_And_Resets_Clock_When_Turn_Time_Elapsed(t *testing.T) {
	// Arrange
	owner := signUp(t)

	room := createRoom(t, owner, roomcommands.CreateRoomCommand{
		Name:         "fast clock",
		Category:     "Geography",
		PlayersLimit: 4,
		TurnTime:     30,
	})

	game := startGame(t, owner, room.ID, expectStatus(t, http.StatusCreated))

	// Drive the handler with a clock past the turn deadline so the
	// advancement is deterministic.
	clock := core.FixedClock{Instant: time.Now().UTC().Add(31 * time.Second)}
	handler := gamecommands.NewTickGameCommandHandler(fixture.db, clock)

	// Act
	ticked, err := handler.Handle(context.Background(), gamecommands.TickGameCommand{
		GameID:  game.ID,
		ActorID: owner.id,
	})

	// Assert
	require.NoError(t, err)
	require.Equal(t, 2, ticked.Round)
	require.Equal(t, room.TurnTime, ticked.TimeLeft)

	// A second expired tick advances exactly one more round.
	clock = core.FixedClock{Instant: clock.Instant.Add(31 * time.Second)}
	handler = gamecommands.NewTickGameCommandHandler(fixture.db, clock)

	ticked, err = handler.Handle(context.Background(), gamecommands.TickGameCommand{
		GameID:  game.ID,
		ActorID: owner.id,
	})
	require.NoError(t, err)
	require.Equal(t, 3, ticked.Round)
}

func Test_Tick_Rejects_Non_Owner(t *testing.T) {
	// Arrange
	owner := signUp(t)
	member := signUp(t)

	room := createRoom(t, owner, roomcommands.CreateRoomCommand{
		Name:         "owner clock",
		Category:     "Music",
		PlayersLimit: 4,
		TurnTime:     60,
	})

	joinRoom(t, member, room.ID, nil, expectStatus(t, http.StatusOK))
	game := startGame(t, owner, room.ID, expectStatus(t, http.StatusCreated))

	// Act
	_, err := sendRequest[struct{}, core.ErrorResponse](
		member.client,
		fmt.Sprintf("%s/games/%s/tick", fixture.baseURL, game.ID),
		http.MethodPost,
		struct{}{},
		expectStatus(t, http.StatusForbidden),
	)

	// Assert
	require.NoError(t, err)
}

func Test_Game_Places_Follow_Competition_Ranking(t *testing.T) {
	// Arrange
	owner := signUp(t)
	second := signUp(t)
	third := signUp(t)

	room := createRoom(t, owner, roomcommands.CreateRoomCommand{
		Name:         "podium",
		Category:     "Food",
		PlayersLimit: 4,
		TurnTime:     60,
	})

	joinRoom(t, second, room.ID, nil, expectStatus(t, http.StatusOK))
	joinRoom(t, third, room.ID, nil, expectStatus(t, http.StatusOK))

	game := startGame(t, owner, room.ID, expectStatus(t, http.StatusCreated))

	guess(t, owner, game.ID, "apple", expectStatus(t, http.StatusOK))
	guess(t, owner, game.ID, "pear", expectStatus(t, http.StatusOK))
	guess(t, second, game.ID, "plum", expectStatus(t, http.StatusOK))
	guess(t, second, game.ID, "fig", expectStatus(t, http.StatusOK))

	// Act
	view := getGame(t, game.ID, expectStatus(t, http.StatusOK))

	// Assert
	places := map[uuid.UUID]int{}
	for _, place := range view.Places {
		places[place.UserID] = place.Place
	}

	require.Equal(t, 1, places[owner.id])
	require.Equal(t, 1, places[second.id])
	require.Equal(t, 3, places[third.id])
}
