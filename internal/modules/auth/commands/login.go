package commands

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/wordparty/wordparty/internal/modules/auth/domain"
	"github.com/wordparty/wordparty/internal/modules/core"

	"github.com/eskrenkovic/mediator-go"
	"github.com/eskrenkovic/tql"
)

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "wordparty-session"

const errInvalidCredentials = "invalid email or password"

type LoginCommand struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c LoginCommand) Validate() error {
	if c.Email == "" {
		return fmt.Errorf("invalid Email - '%s'", c.Email)
	}

	if c.Password == "" {
		return fmt.Errorf("invalid Password")
	}

	return nil
}

type LoginResponse struct {
	Token string            `json:"-"`
	User  domain.UserPublic `json:"user"`
}

func HandleLogin(w http.ResponseWriter, r *http.Request) {
	command, err := core.RequestBody[LoginCommand](r)
	if err != nil {
		core.WriteBadRequest(w, r, err)
		return
	}

	response, err := mediator.Send[LoginCommand, LoginResponse](r.Context(), command)
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    response.Token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	core.WriteOK(w, r, response)
}

func HandleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	core.WriteOK(w, r, nil)
}

type LoginCommandHandler struct {
	db     *sql.DB
	hasher *domain.PasswordHasher
	tokens *domain.JWTManager
	clock  core.Clock
}

func NewLoginCommandHandler(
	db *sql.DB,
	hasher *domain.PasswordHasher,
	tokens *domain.JWTManager,
	clock core.Clock,
) *LoginCommandHandler {
	return &LoginCommandHandler{db, hasher, tokens, clock}
}

func (h *LoginCommandHandler) Handle(
	ctx context.Context,
	request LoginCommand,
) (LoginResponse, error) {
	const query = `
		SELECT
			*
		FROM
			users
		WHERE
			email = $1;`
	user, err := tql.QueryFirst[domain.User](ctx, h.db, query, request.Email)
	switch {
	case err != nil && errors.Is(err, sql.ErrNoRows):
		// Same message as a failed password check - no user-existence oracle.
		return LoginResponse{}, core.NewNotAuthorizedError(err, errInvalidCredentials)
	case err != nil:
		return LoginResponse{}, core.NewInternalError(err)
	}

	match, err := h.hasher.Verify(request.Password, user.PasswordHash)
	if err != nil {
		return LoginResponse{}, core.NewInternalError(err)
	}

	if !match {
		return LoginResponse{}, core.NewNotAuthorizedError(nil, errInvalidCredentials)
	}

	if user.IsBanned {
		return LoginResponse{}, core.NewNotAuthorizedError(nil, "account is banned")
	}

	token, err := h.tokens.Generate(user.ID, h.clock.Now())
	if err != nil {
		return LoginResponse{}, core.NewInternalError(err)
	}

	return LoginResponse{Token: token, User: user.Public()}, nil
}
