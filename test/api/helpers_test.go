package api

import (
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"testing"

	authcommands "github.com/wordparty/wordparty/internal/modules/auth/commands"
	roomcommands "github.com/wordparty/wordparty/internal/modules/room/commands"
	roomdomain "github.com/wordparty/wordparty/internal/modules/room/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// testUser is a registered account with an authenticated http client.
type testUser struct {
	id       uuid.UUID
	username string
	client   *http.Client
}

func signUp(t *testing.T) testUser {
	t.Helper()

	username := uuid.New().String()
	password := uuid.New().String()

	command := authcommands.RegisterCommand{
		Email:    fmt.Sprintf("%s@test.com", username),
		Username: username,
		Password: password,
	}

	registration, err := sendRequest[authcommands.RegisterCommand, authcommands.RegisterResponse](
		fixture.client,
		fmt.Sprintf("%s/auth/registrations", fixture.baseURL),
		http.MethodPost,
		command,
		func(r *http.Response) {
			require.Equal(t, http.StatusCreated, r.StatusCode)
		},
	)
	require.NoError(t, err)

	userID, err := uuid.Parse(registration.UserID)
	require.NoError(t, err)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	client := &http.Client{Jar: jar}

	_, err = sendRequest[authcommands.LoginCommand, authcommands.LoginResponse](
		client,
		fmt.Sprintf("%s/auth/login", fixture.baseURL),
		http.MethodPost,
		authcommands.LoginCommand{Email: command.Email, Password: password},
		func(r *http.Response) {
			require.Equal(t, http.StatusOK, r.StatusCode)
		},
	)
	require.NoError(t, err)

	return testUser{id: userID, username: username, client: client}
}

func createRoom(t *testing.T, owner testUser, command roomcommands.CreateRoomCommand) roomdomain.RoomView {
	t.Helper()

	room, err := sendRequest[roomcommands.CreateRoomCommand, roomdomain.RoomView](
		owner.client,
		fmt.Sprintf("%s/rooms", fixture.baseURL),
		http.MethodPost,
		command,
		func(r *http.Response) {
			require.Equal(t, http.StatusCreated, r.StatusCode)
		},
	)
	require.NoError(t, err)

	return room
}

func getRoom(t *testing.T, roomID uuid.UUID, opts ...responseAssertion) roomdomain.RoomView {
	t.Helper()

	room, err := sendRequest[struct{}, roomdomain.RoomView](
		fixture.client,
		fmt.Sprintf("%s/rooms/%s", fixture.baseURL, roomID),
		http.MethodGet,
		struct{}{},
		opts...,
	)
	require.NoError(t, err)

	return room
}

func joinRoom(t *testing.T, user testUser, roomID uuid.UUID, password *string, opts ...responseAssertion) roomdomain.RoomView {
	t.Helper()

	room, err := sendRequest[roomcommands.JoinRoomCommand, roomdomain.RoomView](
		user.client,
		fmt.Sprintf("%s/rooms/%s/join", fixture.baseURL, roomID),
		http.MethodPost,
		roomcommands.JoinRoomCommand{Password: password},
		opts...,
	)
	require.NoError(t, err)

	return room
}

func expectStatus(t *testing.T, status int) responseAssertion {
	t.Helper()

	return func(r *http.Response) {
		require.Equal(t, status, r.StatusCode)
	}
}
