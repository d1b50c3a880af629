package repository

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/duskdeveloper/discord-level-bot/events"
	"github.com/duskdeveloper/discord-level-bot/models"
	"github.com/duskdeveloper/discord-level-bot/repository/testutil"
	"github.com/duskdeveloper/discord-level-bot/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnitOfWork_PanicsBeforeBegin(t *testing.T) {
	t.Parallel()

	factory := NewUnitOfWorkFactory(nil, nil, models.DefaultGuildDefaults())
	uow := factory.CreateForGuild(1)

	assert.PanicsWithValue(t, "unit of work not started - call Begin() first", func() { uow.UserLevelRepository() })
	assert.PanicsWithValue(t, "unit of work not started - call Begin() first", func() { uow.GuildConfigRepository() })
	assert.PanicsWithValue(t, "unit of work not started - call Begin() first", func() { uow.EventBus() })
	assert.NoError(t, uow.Rollback(), "rollback without a transaction is a no-op")
	assert.Error(t, uow.Commit())
}

func TestUnitOfWork_CommitFlushesEvents(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()
	guildID := testutil.RandomSnowflake()

	bus := events.NewBus()
	var received atomic.Int32
	bus.Subscribe(events.EventTypeLevelUp, func(ctx context.Context, event events.Event) {
		received.Add(1)
	})

	factory := NewUnitOfWorkFactory(testDB.DB, bus, models.DefaultGuildDefaults())

	uow := factory.CreateForGuild(guildID)
	require.NoError(t, uow.Begin(ctx))
	record := models.NewUserLevel(guildID, 1)
	record.XP = 100
	record.Level = 1
	require.NoError(t, uow.UserLevelRepository().Upsert(ctx, record))
	uow.EventBus().Publish(events.LevelUpEvent{GuildID: guildID, UserID: 1, OldLevel: 0, NewLevel: 1})

	assert.Zero(t, received.Load(), "nothing is delivered before commit")
	require.NoError(t, uow.Commit())
	require.NoError(t, uow.Rollback(), "rollback after commit is harmless")

	bus.Wait()
	assert.Equal(t, int32(1), received.Load())

	stored, err := NewUserLevelRepository(testDB.DB, guildID).Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(100), stored.XP)
}

func TestUnitOfWork_RollbackDiscardsEventsAndWrites(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()
	guildID := testutil.RandomSnowflake()

	bus := events.NewBus()
	var received atomic.Int32
	bus.Subscribe(events.EventTypeLevelUp, func(ctx context.Context, event events.Event) {
		received.Add(1)
	})

	factory := NewUnitOfWorkFactory(testDB.DB, bus, models.DefaultGuildDefaults())

	uow := factory.CreateForGuild(guildID)
	require.NoError(t, uow.Begin(ctx))
	require.NoError(t, uow.UserLevelRepository().AddXP(ctx, 1, 250))
	uow.EventBus().Publish(events.LevelUpEvent{GuildID: guildID, UserID: 1, NewLevel: 1})
	require.NoError(t, uow.Rollback())

	bus.Wait()
	assert.Zero(t, received.Load())

	count, err := NewUserLevelRepository(testDB.DB, guildID).CountUsers(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestUnitOfWork_BeginTwice(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	uow := NewUnitOfWorkFactory(testDB.DB, nil, models.DefaultGuildDefaults()).CreateForGuild(1)
	require.NoError(t, uow.Begin(ctx))
	defer uow.Rollback()

	assert.Error(t, uow.Begin(ctx))
}

// Concurrent awards for one user must all land: the row lock serializes them.
func TestLevelingService_ConcurrentAwardsAreSerialized(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()
	guildID := testutil.RandomSnowflake()

	// Zero cooldown so every message is eligible
	factory := NewUnitOfWorkFactory(testDB.DB, events.NewBus(), models.GuildDefaults{XPPerMessage: 10, XPCooldownSeconds: 0})
	svc := service.NewLevelingService(factory, service.NewMemoryCooldownStore(), zeroRandom{})

	const workers = 20
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.AwardMessageXP(ctx, guildID, 1, 5, time.Now()); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	record, err := NewUserLevelRepository(testDB.DB, guildID).Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(workers), record.TotalMessages)
	assert.Equal(t, int64(workers*10), record.XP)
	assert.Equal(t, service.LevelFromXP(record.XP), record.Level)
}

type zeroRandom struct{}

func (zeroRandom) IntN(int) int { return 0 }
