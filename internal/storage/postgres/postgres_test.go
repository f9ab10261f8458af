package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/mmynk/barnight/internal/audit"
	"github.com/mmynk/barnight/internal/models"
	"github.com/mmynk/barnight/internal/storage"
)

// setupTestStore starts a PostgreSQL container and returns a migrated store.
func setupTestStore(t *testing.T) (*PostgresStore, string) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("barnight_test"),
		tcpostgres.WithUsername("test_user"),
		tcpostgres.WithPassword("test_password"),
		tcpostgres.BasicWaitStrategies(),
		testcontainers.CustomizeRequest(testcontainers.GenericContainerRequest{
			ContainerRequest: testcontainers.ContainerRequest{
				Labels: map[string]string{
					"test":      "barnight-storage",
					"test-name": t.Name(),
				},
			},
		}),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := container.Terminate(ctx); err != nil {
			t.Logf("Warning: failed to terminate test container: %v", err)
		}
	})

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	store, err := New(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return store, connStr
}

func people(ids ...string) []models.Participant {
	result := make([]models.Participant, len(ids))
	for i, id := range ids {
		result[i] = models.Participant{UserID: id}
	}
	return result
}

func TestPostgresStore_BarNights(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()

	night := &models.BarNight{
		TotalAmount:  90,
		Date:         "2024-03-01",
		CreatedBy:    "A",
		Participants: people("A", "B", "C"),
		Payments:     []models.Payment{{UserID: "A", Amount: 90}},
		Items: []models.IndividualItem{
			{Description: "Nachos", Amount: 12, Participants: people("B", "C")},
		},
	}

	t.Run("create and read back", func(t *testing.T) {
		require.NoError(t, store.CreateBarNight(ctx, night))
		require.NotEmpty(t, night.ID)

		got, err := store.GetBarNight(ctx, night.ID)
		require.NoError(t, err)

		assert.Equal(t, models.DefaultNightName, got.Name)
		assert.Equal(t, "2024-03-01", got.Date)
		assert.Equal(t, 90.0, got.TotalAmount)
		require.Len(t, got.Participants, 3)
		assert.Equal(t, []string{"A", "B", "C"}, got.ParticipantIDs())
		for _, p := range got.Participants {
			assert.Equal(t, 30.0, p.ShareAmount)
		}
		require.Len(t, got.Payments, 1)
		assert.Equal(t, models.Payment{UserID: "A", Amount: 90}, got.Payments[0])
		require.Len(t, got.Items, 1)
		for _, p := range got.Items[0].Participants {
			assert.Equal(t, 6.0, p.ShareAmount)
		}
	})

	t.Run("update replaces children", func(t *testing.T) {
		update := &models.BarNight{
			ID:           night.ID,
			Name:         "Renamed",
			TotalAmount:  40,
			Date:         "2024-03-02",
			Participants: people("A", "D"),
		}
		require.NoError(t, store.UpdateBarNight(ctx, update))
		assert.Equal(t, "A", update.CreatedBy)

		got, err := store.GetBarNight(ctx, night.ID)
		require.NoError(t, err)
		assert.Equal(t, "Renamed", got.Name)
		assert.Equal(t, []string{"A", "D"}, got.ParticipantIDs())
		assert.Equal(t, 20.0, got.Participants[0].ShareAmount)
		assert.Empty(t, got.Payments)
		assert.Empty(t, got.Items)
	})

	t.Run("update of unknown night", func(t *testing.T) {
		err := store.UpdateBarNight(ctx, &models.BarNight{ID: "nope", TotalAmount: 1, Participants: people("A")})
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("failed create rolls back", func(t *testing.T) {
		bad := &models.BarNight{TotalAmount: 10, CreatedBy: "A", Participants: people("A", "A")}
		require.Error(t, store.CreateBarNight(ctx, bad))

		_, err := store.GetBarNight(ctx, bad.ID)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("list orders by date", func(t *testing.T) {
		older := &models.BarNight{TotalAmount: 5, Date: "2023-01-01", CreatedBy: "B", Participants: people("B")}
		require.NoError(t, store.CreateBarNight(ctx, older))

		nights, err := store.ListBarNights(ctx)
		require.NoError(t, err)
		require.Len(t, nights, 2)
		assert.Equal(t, night.ID, nights[0].ID)
		assert.Equal(t, older.ID, nights[1].ID)
	})

	t.Run("delete cascades", func(t *testing.T) {
		require.NoError(t, store.DeleteBarNight(ctx, night.ID))
		assert.ErrorIs(t, store.DeleteBarNight(ctx, night.ID), storage.ErrNotFound)

		var remaining int
		err := store.pool.QueryRow(ctx,
			"SELECT COUNT(*) FROM bar_night_participants WHERE bar_night_id = $1", night.ID,
		).Scan(&remaining)
		require.NoError(t, err)
		assert.Zero(t, remaining)
	})
}

func TestPostgresStore_UsersAndEvents(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()

	for _, name := range []string{"Clara", "Anna"} {
		require.NoError(t, store.CreateUser(ctx, models.NewUser(name+"@example.com", name, "hash")))
	}

	users, err := store.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "Anna", users[0].DisplayName)

	u, err := store.GetUserByEmail(ctx, "Clara@example.com")
	require.NoError(t, err)
	require.NotNil(t, u)
	byID, err := store.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u, byID)

	missing, err := store.GetUserByID(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, missing)

	e := audit.NewEvent(audit.WithType(audit.TypeNightUpdated), audit.WithMetadata("user_id", u.ID))
	require.NoError(t, store.SaveEvent(ctx, e))
	events, err := store.ListEvents(ctx, audit.TypeNightUpdated)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, u.ID, events[0].Metadata["user_id"])
}

func TestMigrateDownAndUp(t *testing.T) {
	store, connStr := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, MigrateDown(connStr, 1))
	_, err := store.ListBarNights(ctx)
	assert.Error(t, err, "tables should be gone after rolling back")

	require.NoError(t, MigrateUp(connStr))
	nights, err := store.ListBarNights(ctx)
	require.NoError(t, err)
	assert.Empty(t, nights)
}

func TestNewMigrateFrom_ClosesConnectionsOnError(t *testing.T) {
	store, connStr := setupTestStore(t)
	ctx := context.Background()

	countConnections := func() int {
		var n int
		err := store.pool.QueryRow(ctx,
			"SELECT COUNT(*) FROM pg_stat_activity WHERE datname = current_database()",
		).Scan(&n)
		require.NoError(t, err)
		return n
	}

	before := countConnections()
	for i := 0; i < 3; i++ {
		_, err := newMigrateFrom(connStr, migrationsFS, "no-such-dir")
		require.Error(t, err)
	}

	// Backends may take a moment to exit after the client hangs up
	assert.Eventually(t, func() bool { return countConnections() <= before },
		5*time.Second, 100*time.Millisecond, "migration connections leaked")
}
