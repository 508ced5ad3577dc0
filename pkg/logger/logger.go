// Package logger provides the structured, levelled logger used across
// shopstream, built on log/slog.
//
// In production (APP_ENV=production) records are emitted as JSON for log
// aggregators; everywhere else a human-readable text handler is used. An
// optional MongoDB handler can be fanned in with EnableMongo for persistent
// log storage.
package logger

import (
	"log/slog"
	"os"

	"shopstream/config"
)

var L *slog.Logger

func init() {
	var level slog.Level
	var handler slog.Handler

	opts := &slog.HandlerOptions{Level: level}

	switch config.AppEnv() {
	case "production", "prod":
		level = slog.LevelInfo
		opts.Level = level
		handler = slog.NewJSONHandler(os.Stdout, opts)
	default:
		level = slog.LevelDebug
		opts.Level = level
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	L = slog.New(handler)
	slog.SetDefault(L)
}

// EnableMongo fans log records out to a MongoDB collection in addition to
// stdout. Returns the handler so the caller can Close() it on shutdown.
// No-op (nil, nil) when MONGO_LOG_URI is not configured.
func EnableMongo() (*MongoHandler, error) {
	uri := config.MongoLogURI()
	if uri == "" {
		return nil, nil
	}

	mh, err := NewMongoHandler(uri, config.MongoLogDatabase(), config.MongoLogCollection())
	if err != nil {
		return nil, err
	}

	L = slog.New(NewMultiHandler(L.Handler(), mh))
	slog.SetDefault(L)
	return mh, nil
}

// With returns a child logger pre-tagged with the given attributes.
// Stores use this to tag every line with their component name:
//
//	log := logger.With("store", "catalog")
//	log.Info("cache replaced", "count", len(rows))
func With(args ...any) *slog.Logger { return L.With(args...) }

// Debug logs at DEBUG level.
func Debug(msg string, args ...any) { L.Debug(msg, args...) }

// Info logs at INFO level.
func Info(msg string, args ...any) { L.Info(msg, args...) }

// Warn logs at WARN level.
func Warn(msg string, args ...any) { L.Warn(msg, args...) }

// Error logs at ERROR level.
func Error(msg string, args ...any) { L.Error(msg, args...) }
