package tests

import (
	"os"

	"github.com/google/uuid"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// ExposedService pairs a docker-compose service with the wait strategy
// that signals it is ready to accept connections.
type ExposedService struct {
	Name     string
	Port     int
	Strategy wait.Strategy
}

type LocalTestFixture struct {
	compose tc.DockerCompose
}

func NewLocalTestFixture(dockerComposePath string, services []ExposedService) LocalTestFixture {
	identifier := uuid.NewString()

	var compose tc.DockerCompose = tc.NewLocalDockerCompose([]string{dockerComposePath}, identifier)

	for _, service := range services {
		compose = compose.WithExposedService(service.Name, service.Port, service.Strategy)
	}

	return LocalTestFixture{compose}
}

func (f *LocalTestFixture) Start() error {
	if skip := os.Getenv("SKIP_INFRASTRUCTURE"); skip == "true" {
		return nil
	}

	execErr := f.compose.WithCommand([]string{"up", "-d"}).Invoke()
	return execErr.Error
}

func (f *LocalTestFixture) Stop() error {
	if skip := os.Getenv("SKIP_INFRASTRUCTURE"); skip == "true" {
		return nil
	}

	execErr := f.compose.Down()
	return execErr.Error
}
