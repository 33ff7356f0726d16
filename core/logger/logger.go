package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	mu   sync.RWMutex
	base = zerolog.New(os.Stdout).With().Timestamp().Logger()
)

// Init configures the process logger. format is "json" or "console".
func Init(level, format string) {
	InitWithWriter(level, format, os.Stdout)
}

func InitWithWriter(level, format string, out io.Writer) {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	if strings.EqualFold(format, "console") {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	mu.Lock()
	base = zerolog.New(out).Level(lvl).With().Timestamp().Logger()
	mu.Unlock()
}

// Zerolog exposes the underlying logger for libraries that want one.
func Zerolog() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base
}

func Debug(msg string, args ...any) {
	write(zerolog.DebugLevel, msg, args)
}

func Info(msg string, args ...any) {
	write(zerolog.InfoLevel, msg, args)
}

func Warn(msg string, args ...any) {
	write(zerolog.WarnLevel, msg, args)
}

func Error(msg string, args ...any) {
	write(zerolog.ErrorLevel, msg, args)
}

// write accepts slog-style key/value pairs. A lone trailing value, or a value
// whose key is not a string, is logged under "error" when it is an error and
// "arg" otherwise, so calls like logger.Error("Repo:Create", err) still work.
func write(level zerolog.Level, msg string, args []any) {
	mu.RLock()
	l := base
	mu.RUnlock()

	event := l.WithLevel(level)
	if event == nil {
		return
	}

	for i := 0; i < len(args); {
		key, ok := args[i].(string)
		if ok && i+1 < len(args) {
			event = appendField(event, key, args[i+1])
			i += 2
			continue
		}
		if err, isErr := args[i].(error); isErr {
			event = event.Err(err)
		} else {
			event = event.Interface(fmt.Sprintf("arg%d", i), args[i])
		}
		i++
	}

	event.Msg(msg)
}

func appendField(event *zerolog.Event, key string, value any) *zerolog.Event {
	switch v := value.(type) {
	case error:
		return event.AnErr(key, v)
	case string:
		return event.Str(key, v)
	case int:
		return event.Int(key, v)
	case int64:
		return event.Int64(key, v)
	case bool:
		return event.Bool(key, v)
	case time.Duration:
		return event.Dur(key, v)
	case fmt.Stringer:
		return event.Stringer(key, v)
	default:
		return event.Interface(key, v)
	}
}
