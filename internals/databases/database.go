package database

import (
	"fmt"
	"log"
	"net/url"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"madrasa_backend/internals/configs"
)

var DB *gorm.DB

func ConnectDB(cfg configs.DBConfig) (*gorm.DB, error) {
	log.Println("[INFO] Connecting to PostgreSQL...")

	// statement_timeout selaras dengan timeout request di main.go
	// Catatan: kalau pakai PgBouncer biarkan PreferSimpleProtocol=true
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&application_name=madrasa&options=%s",
		url.QueryEscape(cfg.User),
		url.QueryEscape(cfg.Password),
		cfg.Host,
		cfg.Port,
		cfg.Name,
		cfg.SSLMode,
		url.QueryEscape(fmt.Sprintf("-c statement_timeout=%d", cfg.StatementTimeout.Milliseconds())),
	)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: configs.NewGormLogger(cfg.LogQueries),
	})
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}
	DB = db
	log.Println("[INFO] DB connected.")
	return db, nil
}

func TunePool(db *gorm.DB, cfg configs.DBConfig) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Printf("[WARN] pool tune err: %v", err)
		return
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
}

func WarmUpQueries(db *gorm.DB) {
	go func() {
		time.Sleep(500 * time.Millisecond)
		if err := Ping(db); err != nil {
			log.Printf("[WARN] warm-up ping err: %v", err)
			return
		}
		// query paling sering: lookup mosque dari token
		db.Exec("SELECT 1 FROM mosques LIMIT 1")
	}()
}

func Ping(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func Close(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func IsPostgres(db *gorm.DB) bool {
	return db.Dialector.Name() == "postgres"
}
