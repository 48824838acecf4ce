package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"madrasa_backend/internals/configs"
	database "madrasa_backend/internals/databases"
	paymentService "madrasa_backend/internals/features/finance/payments/service"
	viewsService "madrasa_backend/internals/features/views/service"
	routes "madrasa_backend/internals/route"
	"madrasa_backend/internals/seeds"
)

func main() {
	cfg, err := configs.Load()
	if err != nil {
		log.Fatalf("[ERROR] config: %v", err)
	}
	accessLog := configs.SetupLogging(cfg.Log)

	if cfg.JWTSecret == "" {
		log.Fatal("[ERROR] JWT_SECRET is required")
	}

	// 🔌 DB connect + pool + warm-up
	db, err := database.ConnectDB(cfg.DB)
	if err != nil {
		log.Fatalf("[ERROR] %v", err)
	}
	database.TunePool(db, cfg.DB)
	database.WarmUpQueries(db)

	if cfg.DB.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			log.Fatalf("[ERROR] %v", err)
		}
	}

	board := viewsService.NewBoard()

	if cfg.RunSeeds {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		if _, err := seeds.RunAllSeeds(ctx, db, cfg, board); err != nil {
			log.Printf("[WARN] seed failed: %v", err)
		}
		cancel()
	}

	// ✅ payment provider
	var provider paymentService.Provider
	switch {
	case cfg.Midtrans.ServerKey != "":
		provider = paymentService.NewMidtransProvider(cfg.Midtrans.ServerKey, cfg.Midtrans.UseProd)
	case !cfg.IsProduction():
		log.Println("[WARN] using fake payment provider (non-production)")
		provider = &paymentService.FakeProvider{BaseURL: cfg.PublicURL}
	}

	// ⏱ scheduler setelah DB siap
	reaper, err := paymentService.StartGatewayEventReaper(db, cfg.GatewayEvents.ReaperCron, cfg.GatewayEvents.Retention)
	if err != nil {
		log.Printf("[WARN] gateway event reaper disabled: %v", err)
	}

	app := routes.NewApp(routes.Deps{
		DB:        db,
		Config:    cfg,
		Board:     board,
		Retry:     database.RetryPolicyFromConfig(cfg.Retry),
		Payments:  provider,
		AccessLog: accessLog,
	})

	// 🔒 Keep-Alive & timeout koneksi server
	app.Server().ReadTimeout = 15 * time.Second
	app.Server().WriteTimeout = 30 * time.Second
	app.Server().IdleTimeout = 90 * time.Second

	// Start server non-blocking
	go func() {
		log.Printf("[INFO] Listening on :%s (env=%s)", cfg.Port, cfg.AppEnv)
		if err := app.Listen("0.0.0.0:" + cfg.Port); err != nil {
			log.Fatalf("[ERROR] server error: %v", err)
		}
	}()

	// graceful shutdown + tutup pool DB
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("[INFO] shutting down...")

	if reaper != nil {
		<-reaper.Stop().Done()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("[WARN] shutdown: %v", err)
	}
	database.Close(db)
}
