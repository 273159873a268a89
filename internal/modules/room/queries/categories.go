package queries

import (
	"net/http"

	"github.com/wordparty/wordparty/internal/modules/core"

	"github.com/google/uuid"
)

type Category struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

var defaultCategories = []Category{
	{ID: uuid.New(), Name: "Animals"},
	{ID: uuid.New(), Name: "Food"},
	{ID: uuid.New(), Name: "Geography"},
	{ID: uuid.New(), Name: "Movies"},
	{ID: uuid.New(), Name: "Music"},
}

// HandleListCategories serves the static category list used when
// creating a room.
func HandleListCategories(w http.ResponseWriter, r *http.Request) {
	core.WriteOK(w, r, defaultCategories)
}
