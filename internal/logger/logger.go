// Package logger mirrors log lines to the standard logger and, when a token
// is configured, to rollbar.
package logger

import (
	"context"
	"log"
	"time"

	"github.com/rollbar/rollbar-go"
	rollbarerrors "github.com/rollbar/rollbar-go/errors"

	"semaphore/portal/internal/auth"
)

type Logger struct {
	std     *log.Logger
	enabled bool
}

func New(std *log.Logger, token, env string) *Logger {
	if std == nil {
		std = log.Default()
	}
	enabled := token != ""
	rollbar.SetEnabled(enabled)
	if enabled {
		rollbar.SetToken(token)
		rollbar.SetEnvironment(env)
		rollbar.SetStackTracer(rollbarerrors.StackTracer)
	}
	return &Logger{std: std, enabled: enabled}
}

// prepare expects msg followed by error, map[string]interface{} or
// *auth.Session arguments. The first session becomes the rollbar person of
// this item only, carried in a context so concurrent requests never share it.
func (l *Logger) prepare(msg string, args []interface{}) []interface{} {
	var personSet bool
	out := make([]interface{}, 0, len(args)+1)
	out = append(out, msg)
	for _, arg := range args {
		if session, ok := arg.(*auth.Session); ok {
			if !personSet && session != nil && session.UserID != "" {
				out = append(out, rollbar.NewPersonContext(context.Background(), &rollbar.Person{
					Id:       session.UserID,
					Username: session.Name,
					Email:    session.Email,
				}))
				personSet = true
			}
			continue
		}
		out = append(out, arg)
	}
	return out
}

func (l *Logger) print(level, msg string, args []interface{}) {
	l.std.Printf("%s: %s", level, msg)
	for _, arg := range args {
		if session, ok := arg.(*auth.Session); ok {
			if session != nil && session.UserID != "" {
				l.std.Printf("  user=%s", session.UserID)
			}
			continue
		}
		l.std.Printf("  %+v", arg)
	}
}

func (l *Logger) Info(msg string, args ...interface{}) {
	if l.enabled {
		rollbar.Info(l.prepare(msg, args)...)
	}
	l.print("info", msg, args)
}

func (l *Logger) Warn(msg string, args ...interface{}) {
	if l.enabled {
		rollbar.Warning(l.prepare(msg, args)...)
	}
	l.print("warn", msg, args)
}

func (l *Logger) Error(msg string, args ...interface{}) {
	if l.enabled {
		rollbar.Error(l.prepare(msg, args)...)
	}
	l.print("error", msg, args)
}

// Close flushes queued rollbar items, waiting at most timeout.
func (l *Logger) Close(timeout time.Duration) {
	if !l.enabled {
		return
	}
	done := make(chan struct{})
	go func() {
		rollbar.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(timeout):
		l.std.Printf("rollbar flush timed out after %s", timeout)
	}
}
