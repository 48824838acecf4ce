package database

import (
	"context"
	"log"
	"time"

	"gorm.io/gorm"

	"madrasa_backend/internals/configs"
	"madrasa_backend/internals/helpers/apperr"
)

// RetryPolicy membungkus satu transaksi. Hanya error transient (koneksi putus)
// yang diulang; percobaan ke-n menunggu BaseDelay * 2^(n-1).
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	IsRetryable func(error) bool
	Sleep       func(ctx context.Context, d time.Duration) error
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		BaseDelay:   time.Second,
		IsRetryable: IsTransient,
		Sleep:       sleepCtx,
	}
}

func RetryPolicyFromConfig(cfg configs.RetryConfig) RetryPolicy {
	p := DefaultRetryPolicy()
	if cfg.MaxAttempts > 0 {
		p.MaxAttempts = cfg.MaxAttempts
	}
	if cfg.BaseDelay > 0 {
		p.BaseDelay = cfg.BaseDelay
	}
	return p
}

// Backoff: jeda sebelum percobaan berikutnya setelah attempt (mulai dari 1) gagal.
func (p RetryPolicy) Backoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return p.BaseDelay * time.Duration(1<<(attempt-1))
}

// Do menjalankan fn sampai sukses, error non-transient, atau jatah habis.
func (p RetryPolicy) Do(ctx context.Context, label string, fn func(ctx context.Context) error) error {
	maxAttempts := p.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	isRetryable := p.IsRetryable
	if isRetryable == nil {
		isRetryable = IsTransient
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = sleepCtx
	}

	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err = fn(ctx)
		if err == nil {
			return nil
		}
		if !isRetryable(err) {
			return err
		}
		if attempt == maxAttempts {
			break
		}
		wait := p.Backoff(attempt)
		log.Printf("[WARN] %s: transient db error (attempt %d/%d), retry in %s: %v", label, attempt, maxAttempts, wait, err)
		if serr := sleep(ctx, wait); serr != nil {
			return apperr.Transient(err)
		}
	}
	log.Printf("[ERROR] %s: giving up after %d attempts: %v", label, maxAttempts, err)
	return apperr.Transient(err)
}

// Transaction = Do + db.Transaction. Seluruh isi fn diulang dari awal tiap percobaan.
func (p RetryPolicy) Transaction(ctx context.Context, db *gorm.DB, label string, fn func(tx *gorm.DB) error) error {
	return p.Do(ctx, label, func(ctx context.Context) error {
		return db.WithContext(ctx).Transaction(fn)
	})
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
