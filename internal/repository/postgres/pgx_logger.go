package postgres

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/tracelog"
	"github.com/rs/zerolog"
)

// pgxLogger feeds pgx trace events into zerolog under component=pgx.
type pgxLogger struct {
	logger zerolog.Logger
}

func newPgxLogger(logger zerolog.Logger) *pgxLogger {
	return &pgxLogger{logger: logger.With().Str("component", "pgx").Logger()}
}

func (l *pgxLogger) event(level tracelog.LogLevel) *zerolog.Event {
	switch level {
	case tracelog.LogLevelTrace:
		return l.logger.Trace()
	case tracelog.LogLevelDebug:
		return l.logger.Debug()
	case tracelog.LogLevelInfo:
		return l.logger.Info()
	case tracelog.LogLevelWarn:
		return l.logger.Warn()
	case tracelog.LogLevelError:
		return l.logger.Error()
	default:
		return l.logger.Info().Str("pgx_log_level", level.String())
	}
}

// Log implements tracelog.Logger. The statement is collapsed onto one line,
// "err" and "time" become typed fields, and args are kept only at trace level.
func (l *pgxLogger) Log(_ context.Context, level tracelog.LogLevel, msg string, data map[string]any) {
	if level == tracelog.LogLevelNone {
		return
	}
	ev := l.event(level)
	if !ev.Enabled() {
		return
	}

	for k, v := range data {
		switch k {
		case "sql":
			if s, ok := v.(string); ok {
				ev = ev.Str("sql", oneLine(s))
			} else {
				ev = ev.Interface("sql", v)
			}
		case "args":
			if level == tracelog.LogLevelTrace {
				ev = ev.Interface("args", v)
			}
		case "err":
			if err, ok := v.(error); ok {
				ev = ev.Err(err)
			} else {
				ev = ev.Interface("err", v)
			}
		case "time":
			if d, ok := v.(time.Duration); ok {
				ev = ev.Dur("took", d)
			} else {
				ev = ev.Interface("time", v)
			}
		default:
			ev = ev.Interface(k, v)
		}
	}
	ev.Msg(msg)
}

func oneLine(sql string) string {
	return strings.Join(strings.Fields(sql), " ")
}
