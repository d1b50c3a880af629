package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/duskdeveloper/discord-level-bot/database"
	"github.com/duskdeveloper/discord-level-bot/events"
	"github.com/duskdeveloper/discord-level-bot/models"
	"github.com/duskdeveloper/discord-level-bot/service"

	"github.com/jackc/pgx/v5"
)

// unitOfWork implements the UnitOfWork interface
type unitOfWork struct {
	db               *database.DB
	tx               pgx.Tx
	ctx              context.Context
	guildID          int64
	defaults         models.GuildDefaults
	transactionalBus *events.TransactionalBus
	userLevelRepo    service.UserLevelRepository
	guildConfigRepo  service.GuildConfigRepository
}

// NewUnitOfWorkFactory creates a new UnitOfWork factory. Events published
// inside a unit of work reach eventBus only after commit.
func NewUnitOfWorkFactory(db *database.DB, eventBus *events.Bus, defaults models.GuildDefaults) service.UnitOfWorkFactory {
	return &unitOfWorkFactory{
		db:       db,
		eventBus: eventBus,
		defaults: defaults,
	}
}

type unitOfWorkFactory struct {
	db       *database.DB
	eventBus *events.Bus
	defaults models.GuildDefaults
}

// CreateForGuild creates a unit of work whose user repository is scoped to guildID
func (f *unitOfWorkFactory) CreateForGuild(guildID int64) service.UnitOfWork {
	return &unitOfWork{
		db:       f.db,
		guildID:  guildID,
		defaults: f.defaults,
		// TransactionalBus tolerates a nil bus and simply drops flushed events
		transactionalBus: events.NewTransactionalBus(f.eventBus),
	}
}

// Begin starts a new transaction
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	u.tx = tx
	u.ctx = ctx

	u.userLevelRepo = NewUserLevelRepositoryScoped(tx, u.guildID)
	u.guildConfigRepo = NewGuildConfigRepositoryWithTx(tx, u.defaults) // keyed by guild already

	return nil
}

// Commit commits the transaction and then delivers queued events
func (u *unitOfWork) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}

	if err := u.tx.Commit(u.ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	u.tx = nil
	u.transactionalBus.Flush(u.ctx)

	return nil
}

// Rollback rolls back the transaction and drops queued events. It is safe
// to call after Commit.
func (u *unitOfWork) Rollback() error {
	if u.tx == nil {
		return nil
	}

	err := u.tx.Rollback(u.ctx)
	if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}

	u.tx = nil
	u.transactionalBus.Discard()

	return nil
}

// UserLevelRepository returns the guild-scoped user level repository for this unit of work
func (u *unitOfWork) UserLevelRepository() service.UserLevelRepository {
	if u.userLevelRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.userLevelRepo
}

// GuildConfigRepository returns the guild config repository for this unit of work
func (u *unitOfWork) GuildConfigRepository() service.GuildConfigRepository {
	if u.guildConfigRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.guildConfigRepo
}

// EventBus returns the transactional event bus for this unit of work
func (u *unitOfWork) EventBus() service.EventPublisher {
	if u.userLevelRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.transactionalBus
}
