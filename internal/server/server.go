package server

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/wordparty/wordparty/internal/config"
	"github.com/wordparty/wordparty/internal/modules/auth"
	authcommands "github.com/wordparty/wordparty/internal/modules/auth/commands"
	authdomain "github.com/wordparty/wordparty/internal/modules/auth/domain"
	"github.com/wordparty/wordparty/internal/modules/core"
	gamecommands "github.com/wordparty/wordparty/internal/modules/game/commands"
	gamedomain "github.com/wordparty/wordparty/internal/modules/game/domain"
	gamequeries "github.com/wordparty/wordparty/internal/modules/game/queries"
	leaderboardqueries "github.com/wordparty/wordparty/internal/modules/leaderboard/queries"
	roomcommands "github.com/wordparty/wordparty/internal/modules/room/commands"
	roomdomain "github.com/wordparty/wordparty/internal/modules/room/domain"
	roomqueries "github.com/wordparty/wordparty/internal/modules/room/queries"

	"github.com/eskrenkovic/mediator-go"
	"github.com/eskrenkovic/migrate-go"
	"github.com/go-chi/chi"
	_ "github.com/lib/pq"
	"golang.org/x/time/rate"
)

type Server interface {
	Start() error
	Stop() error
}

var _ Server = &HTTPServer{}

// HTTPServer acts as the composition root for the application.
type HTTPServer struct {
	server *http.Server
	db     *sql.DB
}

func NewHTTPServer(config config.Config) (Server, error) {
	baseCtx := context.Background()

	db, err := sql.Open("postgres", config.DatabaseURL)
	if err != nil {
		return nil, err
	}

	if err := migrate.Run(baseCtx, db, config.MigrationsPath); err != nil {
		return nil, err
	}

	core.SetLogger(config.Logger)

	requestLoggingBehavior := core.RequestLoggingBehavior{Logger: config.Logger}
	handlerErrorLoggingBehavior := core.HandlerErrorLoggingBehavior{Logger: config.Logger}
	requestValidationBehavior := core.RequestValidationBehavior{}

	mediator.RegisterPipelineBehavior(&requestLoggingBehavior)
	mediator.RegisterPipelineBehavior(&handlerErrorLoggingBehavior)
	mediator.RegisterPipelineBehavior(&requestValidationBehavior)

	clock := core.SystemClock()
	hasher := authdomain.NewDefaultPasswordHasher()
	tokens := authdomain.NewJWTManager(config.Auth.JWTSecret, config.Auth.JWTMaxAge)

	// handler registration

	// auth

	registerHandler := authcommands.NewRegisterCommandHandler(db, hasher)
	err = mediator.RegisterRequestHandler[authcommands.RegisterCommand, authcommands.RegisterResponse](
		registerHandler,
	)
	if err != nil {
		return nil, err
	}

	loginHandler := authcommands.NewLoginCommandHandler(db, hasher, tokens, clock)
	err = mediator.RegisterRequestHandler[authcommands.LoginCommand, authcommands.LoginResponse](
		loginHandler,
	)
	if err != nil {
		return nil, err
	}

	// rooms

	createRoomHandler := roomcommands.NewCreateRoomCommandHandler(db, hasher)
	err = mediator.RegisterRequestHandler[roomcommands.CreateRoomCommand, roomdomain.RoomView](
		createRoomHandler,
	)
	if err != nil {
		return nil, err
	}

	updateRoomHandler := roomcommands.NewUpdateRoomCommandHandler(db, hasher)
	err = mediator.RegisterRequestHandler[roomcommands.UpdateRoomCommand, roomdomain.RoomView](
		updateRoomHandler,
	)
	if err != nil {
		return nil, err
	}

	deleteRoomHandler := roomcommands.NewDeleteRoomCommandHandler(db)
	err = mediator.RegisterRequestHandler[roomcommands.DeleteRoomCommand, core.Unit](
		deleteRoomHandler,
	)
	if err != nil {
		return nil, err
	}

	joinRoomHandler := roomcommands.NewJoinRoomCommandHandler(db, hasher)
	err = mediator.RegisterRequestHandler[roomcommands.JoinRoomCommand, roomdomain.RoomView](
		joinRoomHandler,
	)
	if err != nil {
		return nil, err
	}

	leaveRoomHandler := roomcommands.NewLeaveRoomCommandHandler(db)
	err = mediator.RegisterRequestHandler[roomcommands.LeaveRoomCommand, core.Unit](
		leaveRoomHandler,
	)
	if err != nil {
		return nil, err
	}

	kickPlayerHandler := roomcommands.NewKickPlayerCommandHandler(db)
	err = mediator.RegisterRequestHandler[roomcommands.KickPlayerCommand, core.Unit](
		kickPlayerHandler,
	)
	if err != nil {
		return nil, err
	}

	getRoomHandler := roomqueries.NewGetRoomQueryHandler(db)
	err = mediator.RegisterRequestHandler[roomqueries.GetRoomQuery, roomdomain.RoomView](
		getRoomHandler,
	)
	if err != nil {
		return nil, err
	}

	listRoomsHandler := roomqueries.NewListRoomsQueryHandler(db)
	err = mediator.RegisterRequestHandler[roomqueries.ListRoomsQuery, []roomdomain.RoomView](
		listRoomsHandler,
	)
	if err != nil {
		return nil, err
	}

	// games

	startGameHandler := gamecommands.NewStartGameCommandHandler(db, clock)
	err = mediator.RegisterRequestHandler[gamecommands.StartGameCommand, gamedomain.GameView](
		startGameHandler,
	)
	if err != nil {
		return nil, err
	}

	tickGameHandler := gamecommands.NewTickGameCommandHandler(db, clock)
	err = mediator.RegisterRequestHandler[gamecommands.TickGameCommand, gamedomain.GameView](
		tickGameHandler,
	)
	if err != nil {
		return nil, err
	}

	guessHandler := gamecommands.NewGuessCommandHandler(db, clock)
	err = mediator.RegisterRequestHandler[gamecommands.GuessCommand, gamedomain.GameView](
		guessHandler,
	)
	if err != nil {
		return nil, err
	}

	getGameHandler := gamequeries.NewGetGameQueryHandler(db, clock)
	err = mediator.RegisterRequestHandler[gamequeries.GetGameQuery, gamedomain.GameView](
		getGameHandler,
	)
	if err != nil {
		return nil, err
	}

	// leaderboard

	listTopUsersHandler := leaderboardqueries.NewListTopUsersQueryHandler(db)
	err = mediator.RegisterRequestHandler[leaderboardqueries.ListTopUsersQuery, []leaderboardqueries.LeaderboardEntry](
		listTopUsersHandler,
	)
	if err != nil {
		return nil, err
	}

	// http

	mux := chi.NewRouter()

	r := router{
		mux: mux,
		middleware: []httpMiddleware{
			baseContextMiddleware(baseCtx),
			core.CorrelationIDHTTPMiddleware,
		},
	}

	authenticated := auth.AuthenticationMiddleware(tokens)
	rateLimited := core.NewRateLimiter(rate.Limit(20), 40).Middleware

	r.register("POST /auth/registrations", authcommands.HandleRegistration, rateLimited)
	r.register("POST /auth/login", authcommands.HandleLogin, rateLimited)
	r.register("POST /auth/logout", authcommands.HandleLogout)

	r.register("GET /categories", roomqueries.HandleListCategories)

	r.register("GET /rooms", roomqueries.HandleListRooms)
	r.register("POST /rooms", roomcommands.HandleCreateRoom, authenticated)
	r.register("GET /rooms/{id}", roomqueries.HandleGetRoom)
	r.register("PATCH /rooms/{id}", roomcommands.HandleUpdateRoom, authenticated)
	r.register("DELETE /rooms/{id}", roomcommands.HandleDeleteRoom, authenticated)

	r.register("POST /rooms/{id}/join", roomcommands.HandleJoinRoom, authenticated)
	r.register("POST /rooms/{id}/leave", roomcommands.HandleLeaveRoom, authenticated)
	r.register("GET /rooms/{id}/players", roomqueries.HandleListRoomPlayers)
	r.register("DELETE /rooms/{id}/players/{userID}", roomcommands.HandleKickPlayer, authenticated)

	r.register("POST /rooms/{id}/start", gamecommands.HandleStartGame, authenticated)

	r.register("GET /games/{id}", gamequeries.HandleGetGame)
	r.register("POST /games/{id}/tick", gamecommands.HandleTickGame, authenticated)
	r.register("POST /games/{id}/guess", gamecommands.HandleGuess, authenticated)

	r.register("GET /leaderboard", leaderboardqueries.HandleListTopUsers)

	server := http.Server{
		Addr:    net.JoinHostPort("", fmt.Sprintf("%d", config.Port)),
		Handler: mux,
	}

	return &HTTPServer{server: &server, db: db}, nil
}

func (s *HTTPServer) Start() error {
	return s.server.ListenAndServe()
}

func (s *HTTPServer) Stop() error {
	if err := s.db.Close(); err != nil {
		return err
	}

	return s.server.Close()
}

type httpMiddleware func(http.HandlerFunc) http.HandlerFunc

type router struct {
	mux        *chi.Mux
	middleware []httpMiddleware
}

// register accepts patterns in the "METHOD /path" form.
func (r *router) register(pattern string, handler http.HandlerFunc, middleware ...httpMiddleware) {
	method, path, found := strings.Cut(pattern, " ")
	if !found {
		panic(fmt.Sprintf("malformed route pattern: %q", pattern))
	}

	h := handler

	allMiddleware := append(r.middleware, middleware...)

	for i := len(allMiddleware) - 1; i >= 0; i-- {
		h = allMiddleware[i](h)
	}

	r.mux.Method(method, path, h)
}

func baseContextMiddleware(baseCtx context.Context) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			baseCtx := baseCtx

			if v, ok := ctx.Value(http.ServerContextKey).(*http.Server); ok {
				baseCtx = context.WithValue(baseCtx, http.ServerContextKey, v)
			}

			if v, ok := ctx.Value(http.LocalAddrContextKey).(net.Addr); ok {
				baseCtx = context.WithValue(baseCtx, http.LocalAddrContextKey, v)
			}

			next.ServeHTTP(w, r.WithContext(baseCtx))
		}
	}
}
