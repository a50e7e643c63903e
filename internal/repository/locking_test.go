package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// dryRunDB builds statements without executing them so the emitted SQL can
// be inspected. The returned pointer holds the last rendered query.
func dryRunDB(t *testing.T) (*gorm.DB, *string) {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=localhost user=postgres dbname=reservation_db sslmode=disable",
	}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
		Logger:               logger.Discard,
	})
	require.NoError(t, err)

	captured := new(string)
	require.NoError(t, db.Callback().Query().After("gorm:query").Register("capture_sql", func(d *gorm.DB) {
		*captured = d.Statement.SQL.String()
	}))
	return db, captured
}

// The overlap-count-then-insert sequence is only atomic if the hall row is
// actually locked, so the lock clause must survive into the rendered SQL.
func TestHallFindByIDForUpdate_EmitsRowLock(t *testing.T) {
	db, sql := dryRunDB(t)
	repo := NewHallRepository(db)

	_, _ = repo.FindByIDForUpdate(context.Background(), db, 1)

	assert.Contains(t, *sql, "FOR UPDATE")
}

func TestBookingFindByIDForUpdate_EmitsRowLock(t *testing.T) {
	db, sql := dryRunDB(t)
	repo := NewBookingRepository(db)

	_, _ = repo.FindByIDForUpdate(context.Background(), db, 1)

	assert.Contains(t, *sql, "FOR UPDATE")
}

// Plain reads stay lock-free.
func TestFindByID_NoLock(t *testing.T) {
	db, sql := dryRunDB(t)

	_, _ = NewHallRepository(db).FindByID(context.Background(), 1)
	assert.NotContains(t, *sql, "FOR UPDATE")

	_, _ = NewBookingRepository(db).FindByID(context.Background(), 1)
	assert.NotContains(t, *sql, "FOR UPDATE")
}
