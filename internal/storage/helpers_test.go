package storage

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/magabrotheeeer/syndicate/internal/migrations"
	"github.com/magabrotheeeer/syndicate/internal/models"
)

// TestDataFactory содержит методы для создания тестовых данных
type TestDataFactory struct {
	storage *Storage
}

// NewTestDataFactory создает новую фабрику тестовых данных
func NewTestDataFactory(storage *Storage) *TestDataFactory {
	return &TestDataFactory{storage: storage}
}

// CreateUser создает тестового пользователя
func (f *TestDataFactory) CreateUser(t *testing.T, email string) *models.User {
	t.Helper()
	u := &models.User{
		ID:                 uuid.New().String(),
		Email:              email,
		Name:               "Test User",
		PasswordHash:       "hashedpassword",
		SubscriptionStatus: models.SubscriptionNone,
	}
	require.NoError(t, f.storage.CreateUser(context.Background(), u))
	return u
}

// CreatePick создает тестовый пик
func (f *TestDataFactory) CreatePick(t *testing.T, date string, status models.PickStatus, isVip bool, kickOff time.Time) *models.Pick {
	t.Helper()
	p := &models.Pick{
		ID:       uuid.New().String(),
		HomeTeam: "Marseille",
		AwayTeam: "Rennes",
		League:   "Ligue 1",
		BetType:  models.BetBTTSYes,
		Odds:     1.8,
		Stake:    5,
		KickOff:  kickOff,
		IsVip:    isVip,
		Status:   status,
		Date:     date,
	}
	require.NoError(t, f.storage.CreatePick(context.Background(), p))
	return p
}

// setupTestDatabase поднимает PostgreSQL в контейнере и накатывает миграции
func setupTestDatabase(t *testing.T) (*Storage, func()) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err, "failed to start container")

	host, err := pgContainer.Host(ctx)
	require.NoError(t, err)
	port, err := pgContainer.MappedPort(ctx, nat.Port("5432/tcp"))
	require.NoError(t, err, "failed to get port")

	connStr := fmt.Sprintf("postgres://testuser:testpass@%s:%s/testdb?sslmode=disable", host, port.Port())

	storage, err := New(ctx, connStr)
	require.NoError(t, err, "failed to create storage")
	require.NoError(t, migrations.Run(storage.DB), "failed to run migrations")

	cleanup := func() {
		if storage != nil && storage.DB != nil {
			_ = storage.Close()
		}
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}

	return storage, cleanup
}
