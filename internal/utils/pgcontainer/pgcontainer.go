package pgcontainer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"github.com/talx-hub/gopher-rewards/internal/model"
)

const (
	defaultTag      = "16-alpine"
	containerExpire = 180
	maxWait         = 90 * time.Second
	pgUser          = "rewards"
	pgPassword      = "rewards-test-password"
	pgDB            = "rewards"
)

// Container runs a throwaway postgres for integration tests.
type Container struct {
	log      *slog.Logger
	pool     *dockertest.Pool
	resource *dockertest.Resource
	dsn      string
}

func New(log *slog.Logger) *Container {
	return &Container{log: log}
}

func imageTag() string {
	// .env is optional: CI sets POSTGRES_TAG directly.
	_ = godotenv.Load(".env")
	if tag := os.Getenv("POSTGRES_TAG"); tag != "" {
		return tag
	}
	return defaultTag
}

func (c *Container) RunContainer() error {
	pool, err := dockertest.NewPool("")
	if err != nil {
		return fmt.Errorf("failed to construct docker pool: %w", err)
	}
	if err = pool.Client.Ping(); err != nil {
		return fmt.Errorf("failed to connect to docker: %w", err)
	}
	pool.MaxWait = maxWait
	c.pool = pool

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        imageTag(),
		Env: []string{
			"POSTGRES_USER=" + pgUser,
			"POSTGRES_PASSWORD=" + pgPassword,
			"POSTGRES_DB=" + pgDB,
			"listen_addresses = '*'",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		return fmt.Errorf("failed to start postgres container: %w", err)
	}
	c.resource = resource
	if err = resource.Expire(containerExpire); err != nil {
		c.log.LogAttrs(context.Background(),
			slog.LevelWarn,
			"failed to set container expiration",
			slog.Any(model.KeyLoggerError, err),
		)
	}

	c.dsn = fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=disable",
		pgUser, pgPassword, resource.GetHostPort("5432/tcp"), pgDB)

	err = pool.Retry(func() error {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		conn, err := pgx.Connect(ctx, c.dsn)
		if err != nil {
			return err //nolint: wrapcheck // retried
		}
		defer func() { _ = conn.Close(context.Background()) }()
		return conn.Ping(ctx) //nolint: wrapcheck // retried
	})
	if err != nil {
		return fmt.Errorf("postgres container is not ready: %w", err)
	}

	c.log.LogAttrs(context.Background(),
		slog.LevelInfo,
		"postgres container started",
		slog.String("container", resource.Container.Name),
	)
	return nil
}

func (c *Container) GetDSN() string {
	return c.dsn
}

func (c *Container) Close() {
	if c.pool == nil || c.resource == nil {
		return
	}
	if err := c.pool.Purge(c.resource); err != nil {
		c.log.LogAttrs(context.Background(),
			slog.LevelError,
			"failed to purge postgres container",
			slog.Any(model.KeyLoggerError, err),
		)
	}
}
