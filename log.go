package gokeyset

import (
	"time"

	"github.com/rs/zerolog"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Alp4ka/gokeyset/internal/logging"
)

// SetLogger sets the logger of iterations that have neither WithLogger nor a
// logger in their context. Iterations are silent by default.
func SetLogger(logger zerolog.Logger) {
	logging.SetGlobalLogger(logger)
}

// NewGORMLogger returns a gorm logger writing to logger, for gorm.Config.
// SQL statements are logged at debug level, statements slower than
// slowThreshold at warn. A zero slowThreshold disables slow query warnings.
func NewGORMLogger(logger zerolog.Logger, slowThreshold time.Duration) gormlogger.Interface {
	return logging.NewGORMLogger(logger, slowThreshold)
}
