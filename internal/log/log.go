package log

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// string representation that directly corresponds to zerolog.Level
type LogLevel string

const (
	DEBUG    LogLevel = "debug"
	INFO     LogLevel = "info"
	WARN     LogLevel = "warn"
	ERROR    LogLevel = "error"
	DISABLED LogLevel = "disabled"
	TRACE    LogLevel = "trace"
)

var Levels = []LogLevel{TRACE, DEBUG, INFO, WARN, ERROR, DISABLED}
var LogFile *os.File

func (ll LogLevel) String() string {
	return string(ll)
}

func (ll *LogLevel) Set(v string) error {
	if _, err := strToLogLevel(LogLevel(v)); err != nil {
		return fmt.Errorf("must be one of %v", Levels)
	}
	*ll = LogLevel(v)
	return nil
}

func (ll LogLevel) Type() string {
	return "LogLevel"
}

// InitWithLogLevel replaces the global zerolog logger. Messages go to stderr
// (human readable when pretty is set) and, when logPath is not empty, are
// appended as JSON lines to that file as well.
func InitWithLogLevel(logLevel LogLevel, logPath string, pretty bool) error {
	var (
		level   zerolog.Level
		writers []io.Writer
		err     error
	)

	level, err = strToLogLevel(logLevel)
	if err != nil {
		return fmt.Errorf("failed to convert log level: %w", err)
	}

	var stderr io.Writer = os.Stderr
	if pretty {
		stderr = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
	}
	writers = append(writers, &zerolog.FilteredLevelWriter{
		Writer: zerolog.LevelWriterAdapter{Writer: stderr},
		Level:  level,
	})

	if logPath != "" {
		LogFile, err = os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o664)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		writers = append(writers, &zerolog.FilteredLevelWriter{
			Writer: zerolog.LevelWriterAdapter{Writer: LogFile},
			Level:  level,
		})
	}

	log.Logger = zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(level).
		With().Timestamp().Caller().
		Logger()
	zerolog.SetGlobalLevel(level)
	return nil
}

// Close releases the log file opened by InitWithLogLevel, if any.
func Close() error {
	if LogFile == nil {
		return nil
	}
	err := LogFile.Close()
	LogFile = nil
	return err
}

func strToLogLevel(ll LogLevel) (zerolog.Level, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(string(ll)))
	if err != nil || ll == "" {
		return zerolog.NoLevel, fmt.Errorf("invalid log level %q (options: %v)", ll, Levels)
	}
	return level, nil
}
