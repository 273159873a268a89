package queries

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"strconv"

	"github.com/wordparty/wordparty/internal/modules/core"

	"github.com/eskrenkovic/mediator-go"
	"github.com/eskrenkovic/tql"
)

const (
	defaultLimit = 100
	maxLimit     = 1000
)

type ListTopUsersQuery struct {
	Limit  int
	Offset int
}

func (q ListTopUsersQuery) Validate() error {
	if q.Limit <= 0 || q.Limit > maxLimit {
		return fmt.Errorf("invalid Limit - %d", q.Limit)
	}

	if q.Offset < 0 {
		return fmt.Errorf("invalid Offset - %d", q.Offset)
	}

	return nil
}

// LeaderboardEntry is a user's rank by accumulated points.
type LeaderboardEntry struct {
	Username  string  `json:"username"`
	Points    int     `json:"points"`
	Place     int     `json:"place"`
	AvatarURL *string `json:"avatarUrl"`
}

func HandleListTopUsers(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	query := ListTopUsersQuery{Limit: defaultLimit}

	if raw := params.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			core.WriteBadRequest(w, r, fmt.Errorf("invalid format for query param 'limit'"))
			return
		}
		query.Limit = limit
	}

	if raw := params.Get("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil {
			core.WriteBadRequest(w, r, fmt.Errorf("invalid format for query param 'offset'"))
			return
		}
		query.Offset = offset
	}

	response, err := mediator.Send[ListTopUsersQuery, []LeaderboardEntry](r.Context(), query)
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteOK(w, r, response)
}

type ListTopUsersQueryHandler struct {
	db *sql.DB
}

func NewListTopUsersQueryHandler(db *sql.DB) *ListTopUsersQueryHandler {
	return &ListTopUsersQueryHandler{db}
}

type leaderboardRow struct {
	Username  string  `db:"username"`
	Points    int     `db:"points"`
	AvatarURL *string `db:"avatar_url"`
}

func (h *ListTopUsersQueryHandler) Handle(
	ctx context.Context,
	request ListTopUsersQuery,
) ([]LeaderboardEntry, error) {
	const query = `
		SELECT
			username,
			points,
			avatar_url
		FROM
			users
		ORDER BY
			points DESC, username ASC
		LIMIT $1 OFFSET $2;`
	rows, err := tql.Query[leaderboardRow](ctx, h.db, query, request.Limit, request.Offset)
	if err != nil {
		return nil, core.NewInternalError(err)
	}

	entries := make([]LeaderboardEntry, 0, len(rows))
	for idx, row := range rows {
		entries = append(entries, LeaderboardEntry{
			Username:  row.Username,
			Points:    row.Points,
			Place:     request.Offset + idx + 1,
			AvatarURL: row.AvatarURL,
		})
	}

	return entries, nil
}
