package postgres

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"courier/internal/domain/entity"
	"courier/internal/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var errNoDatabase = errors.New("dry run has no database")

// noConn satisfies gorm.ConnPool; a dry-run session never reaches it.
type noConn struct{}

func (noConn) PrepareContext(context.Context, string) (*sql.Stmt, error) {
	return nil, errNoDatabase
}

func (noConn) ExecContext(context.Context, string, ...any) (sql.Result, error) {
	return nil, errNoDatabase
}

func (noConn) QueryContext(context.Context, string, ...any) (*sql.Rows, error) {
	return nil, errNoDatabase
}

func (noConn) QueryRowContext(context.Context, string, ...any) *sql.Row {
	return nil
}

type statementLog struct {
	mu      sync.Mutex
	updates []string
}

func (l *statementLog) last(t *testing.T) string {
	t.Helper()

	l.mu.Lock()
	defer l.mu.Unlock()
	require.NotEmpty(t, l.updates)

	return l.updates[len(l.updates)-1]
}

// newDryRunJobRepository renders postgres SQL without executing it and records
// every UPDATE with its arguments inlined.
func newDryRunJobRepository(t *testing.T) (*jobRepository, *statementLog) {
	t.Helper()

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: noConn{}}), &gorm.Config{
		DryRun:                 true,
		DisableAutomaticPing:   true,
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	log := &statementLog{}
	err = db.Callback().Update().After("gorm:update").Register("courier:record_update", func(tx *gorm.DB) {
		log.mu.Lock()
		defer log.mu.Unlock()

		log.updates = append(log.updates, tx.Dialector.Explain(tx.Statement.SQL.String(), tx.Statement.Vars...))
	})
	require.NoError(t, err)

	return &jobRepository{db: db}, log
}

func TestJobRepository_TransitionRecipientGuardsPreviousStatus(t *testing.T) {
	repo, log := newDryRunJobRepository(t)
	id := uuid.New()
	at := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	t.Run("pending to sending", func(t *testing.T) {
		_, err := repo.TransitionRecipient(context.Background(), id, entity.RecipientPending, entity.RecipientSending, "", at)
		require.NoError(t, err)

		stmt := log.last(t)
		assert.Contains(t, stmt, `UPDATE "job_recipients" SET`)
		assert.Contains(t, stmt, `"status"='sending'`)
		assert.Contains(t, stmt, "WHERE id = '"+id.String()+"' AND status = 'pending'")
		assert.NotContains(t, stmt, "sent_at")
	})

	t.Run("sending to sent stamps sent_at", func(t *testing.T) {
		_, err := repo.TransitionRecipient(context.Background(), id, entity.RecipientSending, entity.RecipientSent, "", at)
		require.NoError(t, err)

		stmt := log.last(t)
		assert.Contains(t, stmt, `"status"='sent'`)
		assert.Contains(t, stmt, `"sent_at"=`)
		assert.Contains(t, stmt, "AND status = 'sending'")
	})
}

func TestJobRepository_FailPendingRecipientsOnlyTouchesPending(t *testing.T) {
	repo, log := newDryRunJobRepository(t)
	jobID := uuid.New()

	_, err := repo.FailPendingRecipients(context.Background(), jobID, "cancelled", time.Now())
	require.NoError(t, err)

	stmt := log.last(t)
	assert.Contains(t, stmt, `"status"='failed'`)
	assert.Contains(t, stmt, `"last_error"='cancelled'`)
	assert.Contains(t, stmt, "WHERE job_id = '"+jobID.String()+"' AND status = 'pending'")
}

func TestJobRepository_MarkOnceRequiresUnsetColumn(t *testing.T) {
	tests := []struct {
		name   string
		column string
		mark   func(repo *jobRepository, id uuid.UUID) (bool, error)
	}{
		{
			name:   "completed",
			column: "completed_at",
			mark: func(repo *jobRepository, id uuid.UUID) (bool, error) {
				return repo.MarkJobCompleted(context.Background(), id, time.Now())
			},
		},
		{
			name:   "cancelled",
			column: "cancelled_at",
			mark: func(repo *jobRepository, id uuid.UUID) (bool, error) {
				return repo.MarkJobCancelled(context.Background(), id, time.Now())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, log := newDryRunJobRepository(t)
			id := uuid.New()

			set, err := tt.mark(repo, id)
			require.NoError(t, err)
			assert.False(t, set)

			stmt := log.last(t)
			assert.Contains(t, stmt, `UPDATE "bulk_jobs" SET`)
			assert.Contains(t, stmt, `"`+tt.column+`"=`)
			assert.Contains(t, stmt, "WHERE id = '"+id.String()+"' AND "+tt.column+" IS NULL")
		})
	}
}
