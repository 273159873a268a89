package commands

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"path"

	"github.com/wordparty/wordparty/internal/modules/auth/domain"
	"github.com/wordparty/wordparty/internal/modules/core"

	"github.com/eskrenkovic/mediator-go"
	"github.com/eskrenkovic/tql"
)

type RegisterCommand struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

func (c RegisterCommand) Validate() error {
	if c.Email == "" {
		return fmt.Errorf("invalid Email - '%s'", c.Email)
	}

	if c.Username == "" {
		return fmt.Errorf("invalid Username - '%s'", c.Username)
	}

	if c.Password == "" {
		return fmt.Errorf("invalid Password")
	}

	return nil
}

type RegisterResponse struct {
	UserID string `json:"userId"`
}

func HandleRegistration(w http.ResponseWriter, r *http.Request) {
	command, err := core.RequestBody[RegisterCommand](r)
	if err != nil {
		core.WriteBadRequest(w, r, err)
		return
	}

	response, err := mediator.Send[RegisterCommand, RegisterResponse](r.Context(), command)
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	location := path.Join(r.Host, "users", response.UserID)
	core.WriteCreated(w, r, location, response)
}

type RegisterCommandHandler struct {
	db     *sql.DB
	hasher *domain.PasswordHasher
}

func NewRegisterCommandHandler(db *sql.DB, hasher *domain.PasswordHasher) *RegisterCommandHandler {
	return &RegisterCommandHandler{db, hasher}
}

func (h *RegisterCommandHandler) Handle(
	ctx context.Context,
	request RegisterCommand,
) (RegisterResponse, error) {
	const existingUserQuery = `
		SELECT
			count(id)
		FROM
			users
		WHERE
			email = $1 OR username = $2;`
	count, err := tql.QueryFirst[int](ctx, h.db, existingUserQuery, request.Email, request.Username)
	if err != nil {
		return RegisterResponse{}, core.NewInternalError(err)
	}

	if count > 0 {
		return RegisterResponse{}, core.NewConflictError(nil, "email or username already taken")
	}

	user, err := domain.RegisterUser(request.Email, request.Username, request.Password, h.hasher)
	if err != nil {
		return RegisterResponse{}, core.NewInternalError(err)
	}

	const stmt = `
		INSERT INTO
			users (id, email, username, hashed_password)
		VALUES
			(:id, :email, :username, :hashed_password);`
	if _, err := tql.Exec(ctx, h.db, stmt, user); err != nil {
		if core.IsUniqueViolation(err) {
			return RegisterResponse{}, core.NewConflictError(err, "email or username already taken")
		}

		return RegisterResponse{}, core.NewInternalError(err)
	}

	return RegisterResponse{UserID: user.ID.String()}, nil
}
