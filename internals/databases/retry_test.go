package database

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"madrasa_backend/internals/helpers/apperr"
)

func stubPolicy(waits *[]time.Duration) RetryPolicy {
	p := DefaultRetryPolicy()
	p.Sleep = func(_ context.Context, d time.Duration) error {
		*waits = append(*waits, d)
		return nil
	}
	return p
}

func TestBackoff(t *testing.T) {
	p := DefaultRetryPolicy()
	assert.Equal(t, time.Second, p.Backoff(1))
	assert.Equal(t, 2*time.Second, p.Backoff(2))
	assert.Equal(t, 4*time.Second, p.Backoff(3))
	assert.Equal(t, time.Second, p.Backoff(0))
}

func TestRetryDo(t *testing.T) {
	connLost := &pgconn.PgError{Code: "57P01", Message: "terminating connection due to administrator command"}

	t.Run("gives up after max attempts", func(t *testing.T) {
		var waits []time.Duration
		calls := 0
		err := stubPolicy(&waits).Do(context.Background(), "test", func(context.Context) error {
			calls++
			return connLost
		})
		require.Error(t, err)
		assert.Equal(t, 3, calls)
		assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, waits)
		assert.True(t, apperr.IsKind(err, apperr.KindTransient))
	})

	t.Run("recovers on second attempt", func(t *testing.T) {
		var waits []time.Duration
		calls := 0
		err := stubPolicy(&waits).Do(context.Background(), "test", func(context.Context) error {
			calls++
			if calls == 1 {
				return connLost
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 2, calls)
		assert.Len(t, waits, 1)
	})

	t.Run("non transient is not retried", func(t *testing.T) {
		var waits []time.Duration
		calls := 0
		want := apperr.Validation("bad")
		err := stubPolicy(&waits).Do(context.Background(), "test", func(context.Context) error {
			calls++
			return want
		})
		assert.Same(t, want, err)
		assert.Equal(t, 1, calls)
		assert.Empty(t, waits)
	})

	t.Run("cancelled sleep stops early", func(t *testing.T) {
		p := DefaultRetryPolicy()
		p.Sleep = func(context.Context, time.Duration) error { return context.Canceled }
		calls := 0
		err := p.Do(context.Background(), "test", func(context.Context) error {
			calls++
			return connLost
		})
		assert.Equal(t, 1, calls)
		assert.True(t, apperr.IsKind(err, apperr.KindTransient))
	})
}

func TestIsTransient(t *testing.T) {
	assert.True(t, IsTransient(&pgconn.PgError{Code: "08006"}))
	assert.True(t, IsTransient(errors.New("read tcp: connection reset by peer")))
	assert.False(t, IsTransient(&pgconn.PgError{Code: "23505"}))
	assert.False(t, IsTransient(apperr.Validation("x")))
	assert.False(t, IsTransient(context.Canceled))
	assert.False(t, IsTransient(nil))
}

func TestMapDBError(t *testing.T) {
	status := func(err error) int {
		ae, ok := apperr.As(err)
		require.True(t, ok)
		return ae.Status
	}
	assert.Equal(t, http.StatusConflict, status(MapDBError(&pgconn.PgError{Code: "23505"})))
	assert.Equal(t, http.StatusBadRequest, status(MapDBError(&pgconn.PgError{Code: "23503"})))
	assert.Equal(t, http.StatusNotFound, status(MapDBError(gorm.ErrRecordNotFound)))
	assert.Equal(t, http.StatusConflict, status(MapDBError(errors.New("UNIQUE constraint failed: users.user_email"))))
	assert.Equal(t, http.StatusInternalServerError, status(MapDBError(errors.New("boom"))))
	assert.Nil(t, MapDBError(nil))

	ae := apperr.Hidden("x")
	assert.Same(t, ae, MapDBError(ae))
}
