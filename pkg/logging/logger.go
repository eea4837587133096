// Package logging configures the structured logger shared by every core
// component. It is a thin wrapper over logrus, adapted from the host
// engine's logging conventions: a level/format Config, environment
// overrides, and a family of *Logger helpers (SystemLogger, ActorLogger,
// CombatLogger, ...) that attach consistent field sets per subsystem.
package logging

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Level names the minimum severity a logger will emit.
type Level string

const (
	DebugLevel Level = "debug"
	InfoLevel  Level = "info"
	WarnLevel  Level = "warn"
	ErrorLevel Level = "error"
	FatalLevel Level = "fatal"
)

// Format names the output encoding.
type Format string

const (
	TextFormat Format = "text"
	JSONFormat Format = "json"
)

// Config controls logger construction.
type Config struct {
	Level       Level
	Format      Format
	AddCaller   bool
	EnableColor bool
}

// DefaultConfig returns sane defaults for interactive play.
func DefaultConfig() Config {
	return Config{
		Level:       InfoLevel,
		Format:      TextFormat,
		AddCaller:   false,
		EnableColor: true,
	}
}

// New builds a configured logrus.Logger.
func New(cfg Config) *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(parseLevel(cfg.Level))

	switch cfg.Format {
	case JSONFormat:
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		})
	default:
		logger.SetFormatter(&logrus.TextFormatter{
			TimestampFormat: "2006-01-02 15:04:05.000",
			FullTimestamp:   true,
			ForceColors:     cfg.EnableColor,
			DisableColors:   !cfg.EnableColor,
		})
	}

	logger.SetReportCaller(cfg.AddCaller)
	logger.SetOutput(os.Stdout)
	return logger
}

// NewFromEnv builds a logger configured from DUSKWARD_LOG_LEVEL and
// DUSKWARD_LOG_FORMAT, falling back to DefaultConfig.
func NewFromEnv() *logrus.Logger {
	cfg := DefaultConfig()
	if lvl := os.Getenv("DUSKWARD_LOG_LEVEL"); lvl != "" {
		cfg.Level = Level(strings.ToLower(lvl))
	}
	if fmtv := os.Getenv("DUSKWARD_LOG_FORMAT"); fmtv != "" {
		cfg.Format = Format(strings.ToLower(fmtv))
	}
	return New(cfg)
}

func parseLevel(l Level) logrus.Level {
	switch l {
	case DebugLevel:
		return logrus.DebugLevel
	case WarnLevel:
		return logrus.WarnLevel
	case ErrorLevel:
		return logrus.ErrorLevel
	case FatalLevel:
		return logrus.FatalLevel
	default:
		return logrus.InfoLevel
	}
}

// SystemLogger tags every entry with the originating subsystem name.
func SystemLogger(l *logrus.Logger, system string) *logrus.Entry {
	return l.WithField("system", system)
}

// ActorLogger tags entries with the acting actor's id.
func ActorLogger(l *logrus.Logger, actorID int) *logrus.Entry {
	return l.WithField("actorID", actorID)
}

// CombatLogger tags entries with attacker/target ids for a combat exchange.
func CombatLogger(l *logrus.Logger, attackerID, targetID int) *logrus.Entry {
	return l.WithFields(logrus.Fields{"attackerID": attackerID, "targetID": targetID})
}

// GenerationLogger tags entries with the seed and level depth of a
// generation run.
func GenerationLogger(l *logrus.Logger, seed uint64, dlvl int) *logrus.Entry {
	return l.WithFields(logrus.Fields{"seed": seed, "dlvl": dlvl})
}

// SaveLoadLogger tags entries with the save/load operation and file path.
func SaveLoadLogger(l *logrus.Logger, operation, path string) *logrus.Entry {
	return l.WithFields(logrus.Fields{"operation": operation, "path": path})
}

// SchedulerLogger tags entries from the turn scheduler.
func SchedulerLogger(l *logrus.Logger, turn int) *logrus.Entry {
	return l.WithField("turn", turn)
}
