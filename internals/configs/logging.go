package configs

import (
	"io"
	"log"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// SetupLogging mengarahkan log standar ke stdout, plus file rotasi kalau LOG_FILE diisi.
// Writer yang dikembalikan dipakai juga oleh access log fiber.
func SetupLogging(cfg LogConfig) io.Writer {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	var out io.Writer = os.Stdout
	if cfg.File != "" {
		out = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   true,
		})
	}
	log.SetOutput(out)
	return out
}
