package service

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"madrasa_backend/internals/features/finance/payments/model"
)

// ReapGatewayEvents: hapus event yang sudah selesai diproses dan lebih tua dari cutoff.
// Event "received"/"failed" disimpan untuk investigasi.
func ReapGatewayEvents(ctx context.Context, db *gorm.DB, cutoff time.Time) (int64, error) {
	res := db.WithContext(ctx).
		Where("gateway_event_status IN ? AND gateway_event_received_at < ?",
			[]model.GatewayEventStatus{model.GatewayEventProcessed, model.GatewayEventIgnored}, cutoff).
		Delete(&model.PaymentGatewayEventModel{})
	return res.RowsAffected, res.Error
}

// StartGatewayEventReaper: jadwal cron; caller wajib Stop() saat shutdown.
func StartGatewayEventReaper(db *gorm.DB, schedule string, retention time.Duration) (*cron.Cron, error) {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))

	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 4*time.Minute)
		defer cancel()

		n, err := ReapGatewayEvents(ctx, db, time.Now().Add(-retention))
		if err != nil {
			log.Printf("[EVENT-REAPER] delete failed: %v", err)
			return
		}
		if n > 0 {
			log.Printf("[EVENT-REAPER] %d gateway events removed", n)
		}
	})
	if err != nil {
		return nil, err
	}
	log.Printf("[EVENT-REAPER] started schedule=%q retention=%s", schedule, retention)
	c.Start()
	return c, nil
}
