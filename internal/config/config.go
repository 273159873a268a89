package config

import (
	"path"
	"time"

	"github.com/wordparty/wordparty/internal/modules/env"

	"go.uber.org/zap"
)

const (
	PortEnv        = "PORT"
	DatabaseUrlEnv = "DATABASE_URL"
	RootPathEnv    = "ROOT_PATH"

	JWTSecretEnv = "JWT_SECRET"
	JWTMaxAgeEnv = "JWT_MAX_AGE"
)

type AuthConfiguration struct {
	JWTSecret string
	JWTMaxAge time.Duration
}

type Config struct {
	Logger *zap.Logger

	Port           int
	DatabaseURL    string
	MigrationsPath string

	Auth AuthConfiguration
}

func Load() (Config, error) {
	logger, err := zap.NewProduction()
	if err != nil {
		return Config{}, err
	}

	port := env.MustGetInt(PortEnv)
	dbURL := env.MustGetString(DatabaseUrlEnv)

	rootPath := env.GetStringOrDefault(RootPathEnv, ".")
	migrationsPath := path.Join(rootPath, "db", "migrations")

	jwtSecret := env.MustGetString(JWTSecretEnv)
	jwtMaxAge := env.MustGetDuration(JWTMaxAgeEnv)

	return Config{
		Logger:         logger,
		Port:           port,
		DatabaseURL:    dbURL,
		MigrationsPath: migrationsPath,
		Auth: AuthConfiguration{
			JWTSecret: jwtSecret,
			JWTMaxAge: jwtMaxAge,
		},
	}, nil
}
