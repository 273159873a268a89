package domain

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

const (
	// GameStateWaiting is persisted for completeness but never set by
	// any operation - starting a game creates it directly in running.
	GameStateWaiting = "waiting"
	GameStateRunning = "running"
	// GameStateEnded is a reachable persisted value with no in-scope
	// transition producing it.
	GameStateEnded = "ended"
)

type Game struct {
	ID         uuid.UUID  `db:"id"`
	RoomID     uuid.UUID  `db:"room_id"`
	State      string     `db:"state"`
	Round      int        `db:"round"`
	TurnTime   int        `db:"turn_time"`
	LastTickAt time.Time  `db:"last_tick_at"`
	EndDate    *time.Time `db:"end_date"`
	CreatedAt  time.Time  `db:"created_at"`
}

type GamePlayer struct {
	ID        uuid.UUID `db:"id"`
	GameID    uuid.UUID `db:"game_id"`
	UserID    uuid.UUID `db:"user_id"`
	Points    int       `db:"points"`
	Place     *int      `db:"place"`
	CreatedAt time.Time `db:"created_at"`
}

// TimeInfo is the round clock derived from the last tick.
type TimeInfo struct {
	Now     time.Time
	Elapsed int
	Left    int
}

// ComputeTime derives elapsed whole seconds since the last tick and
// the remaining round time, floored at zero. A game that is not
// running has no time left.
func ComputeTime(game Game, now time.Time) TimeInfo {
	elapsed := int(now.Sub(game.LastTickAt).Seconds())

	left := 0
	if game.State == GameStateRunning {
		left = game.TurnTime - elapsed
		if left < 0 {
			left = 0
		}
	}

	return TimeInfo{Now: now, Elapsed: elapsed, Left: left}
}

type GamePoint struct {
	UserID uuid.UUID `json:"userId"`
	Value  int       `json:"value"`
}

type GamePlace struct {
	UserID uuid.UUID `json:"userId"`
	Place  int       `json:"place"`
}

// ComputePlaces produces the standings. When every player carries an
// explicitly assigned place those are returned verbatim, ordered by
// place. Otherwise players are ranked by points descending with ties
// broken by snapshot-creation order, using competition ranking: equal
// points share a place and the next distinct score takes its 1-based
// rank position, e.g. points [10 10 8] -> places [1 1 3].
func ComputePlaces(players []GamePlayer) []GamePlace {
	explicit := make([]GamePlayer, 0, len(players))
	for _, p := range players {
		if p.Place != nil {
			explicit = append(explicit, p)
		}
	}

	if len(players) > 0 && len(explicit) == len(players) {
		sort.Slice(explicit, func(i, j int) bool {
			return *explicit[i].Place < *explicit[j].Place
		})

		places := make([]GamePlace, 0, len(explicit))
		for _, p := range explicit {
			places = append(places, GamePlace{UserID: p.UserID, Place: *p.Place})
		}
		return places
	}

	ranked := make([]GamePlayer, len(players))
	copy(ranked, players)

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Points != ranked[j].Points {
			return ranked[i].Points > ranked[j].Points
		}
		return ranked[i].CreatedAt.Before(ranked[j].CreatedAt)
	})

	places := make([]GamePlace, 0, len(ranked))

	place := 1
	var lastPoints *int
	for idx, p := range ranked {
		if lastPoints == nil || p.Points < *lastPoints {
			place = idx + 1
			points := p.Points
			lastPoints = &points
		}
		places = append(places, GamePlace{UserID: p.UserID, Place: place})
	}

	return places
}

// GameView is the serializable projection of a game. TimeLeft is
// computed live at read time, not stored.
type GameView struct {
	ID       uuid.UUID   `json:"id"`
	RoomID   uuid.UUID   `json:"roomId"`
	Name     string      `json:"name"`
	State    string      `json:"state"`
	Round    int         `json:"round"`
	TurnTime int         `json:"turnTime"`
	TimeLeft int         `json:"timeLeft"`
	Points   []GamePoint `json:"points"`
	Places   []GamePlace `json:"places"`
	EndDate  *time.Time  `json:"endDate"`
}

// BuildGameView assembles the caller-facing projection. Points are
// ordered by user id lexically - a stable presentation order that is
// independent of the ranking.
func BuildGameView(game Game, roomName string, players []GamePlayer, now time.Time) GameView {
	t := ComputeTime(game, now)

	sorted := make([]GamePlayer, len(players))
	copy(sorted, players)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].UserID.String() < sorted[j].UserID.String()
	})

	points := make([]GamePoint, 0, len(sorted))
	for _, p := range sorted {
		points = append(points, GamePoint{UserID: p.UserID, Value: p.Points})
	}

	return GameView{
		ID:       game.ID,
		RoomID:   game.RoomID,
		Name:     roomName,
		State:    game.State,
		Round:    game.Round,
		TurnTime: game.TurnTime,
		TimeLeft: t.Left,
		Points:   points,
		Places:   ComputePlaces(players),
		EndDate:  game.EndDate,
	}
}
