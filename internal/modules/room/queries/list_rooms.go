package queries

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"strings"

	"github.com/wordparty/wordparty/internal/modules/core"
	"github.com/wordparty/wordparty/internal/modules/room/domain"

	"github.com/eskrenkovic/mediator-go"
	"github.com/eskrenkovic/tql"
	"github.com/google/uuid"
)

type ListRoomsQuery struct {
	Category string
	Q        string
	Status   string
}

func (q ListRoomsQuery) Validate() error {
	if q.Status != "" && !domain.ValidRoomStatus(q.Status) {
		return fmt.Errorf("invalid Status - '%s'", q.Status)
	}

	return nil
}

func HandleListRooms(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	query := ListRoomsQuery{
		Category: params.Get("category"),
		Q:        params.Get("q"),
		Status:   params.Get("status"),
	}

	response, err := mediator.Send[ListRoomsQuery, []domain.RoomView](r.Context(), query)
	if err != nil {
		core.WriteCommandError(w, r, err)
		return
	}

	core.WriteOK(w, r, response)
}

type ListRoomsQueryHandler struct {
	db *sql.DB
}

func NewListRoomsQueryHandler(db *sql.DB) *ListRoomsQueryHandler {
	return &ListRoomsQueryHandler{db}
}

func (h *ListRoomsQueryHandler) Handle(
	ctx context.Context,
	request ListRoomsQuery,
) ([]domain.RoomView, error) {
	// Filters are conjunctive; q is a case-insensitive substring match
	// on the room name.
	var (
		conditions []string
		params     []any
	)

	if request.Category != "" {
		params = append(params, request.Category)
		conditions = append(conditions, fmt.Sprintf("category = $%d", len(params)))
	}

	if request.Q != "" {
		params = append(params, "%"+request.Q+"%")
		conditions = append(conditions, fmt.Sprintf("name ILIKE $%d", len(params)))
	}

	if request.Status != "" {
		params = append(params, request.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(params)))
	}

	query := `
		SELECT
			*
		FROM
			rooms`
	if len(conditions) > 0 {
		query += "\n\t\tWHERE\n\t\t\t" + strings.Join(conditions, " AND ")
	}
	query += `
		ORDER BY
			created_at DESC;`

	rooms, err := tql.Query[domain.Room](ctx, h.db, query, params...)
	if err != nil {
		return nil, core.NewInternalError(err)
	}

	roomIDs := core.Map(rooms, func(r domain.Room) uuid.UUID { return r.ID })

	players := map[uuid.UUID][]domain.Player{}
	if len(roomIDs) > 0 {
		players, err = FetchRoomPlayers(ctx, h.db, roomIDs)
		if err != nil {
			return nil, core.NewInternalError(err)
		}
	}

	views := make([]domain.RoomView, 0, len(rooms))
	for _, room := range rooms {
		views = append(views, roomView(room, players[room.ID]))
	}

	return views, nil
}
