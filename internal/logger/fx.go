package logger

import (
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx/fxevent"
)

// FxLogger routes fx lifecycle events into zerolog. Successful wiring is
// logged at debug so the startup banner stays short.
type FxLogger struct {
	Logger zerolog.Logger
}

func NewFxLogger() fxevent.Logger {
	return &FxLogger{Logger: log.Logger.With().Str("component", "fx").Logger()}
}

func (l *FxLogger) LogEvent(event fxevent.Event) {
	switch e := event.(type) {
	case *fxevent.Provided:
		if e.Err != nil {
			l.Logger.Error().Err(e.Err).Str("constructor", e.ConstructorName).Msg("provide failed")
			return
		}
		l.Logger.Debug().Str("constructor", e.ConstructorName).
			Str("types", strings.Join(e.OutputTypeNames, ", ")).Msg("provided")
	case *fxevent.Invoked:
		if e.Err != nil {
			l.Logger.Error().Err(e.Err).Str("function", e.FunctionName).Str("stack", e.Trace).Msg("invoke failed")
			return
		}
		l.Logger.Debug().Str("function", e.FunctionName).Msg("invoked")
	case *fxevent.OnStartExecuted:
		if e.Err != nil {
			l.Logger.Error().Err(e.Err).Str("callee", e.FunctionName).Msg("OnStart hook failed")
			return
		}
		l.Logger.Debug().Str("callee", e.FunctionName).Dur("runtime", e.Runtime).Msg("OnStart hook executed")
	case *fxevent.OnStopExecuted:
		if e.Err != nil {
			l.Logger.Error().Err(e.Err).Str("callee", e.FunctionName).Msg("OnStop hook failed")
			return
		}
		l.Logger.Debug().Str("callee", e.FunctionName).Dur("runtime", e.Runtime).Msg("OnStop hook executed")
	case *fxevent.Stopping:
		l.Logger.Info().Str("signal", strings.ToUpper(e.Signal.String())).Msg("received signal")
	case *fxevent.RollingBack:
		l.Logger.Error().Err(e.StartErr).Msg("start failed, rolling back")
	case *fxevent.Started:
		if e.Err != nil {
			l.Logger.Error().Err(e.Err).Msg("start failed")
			return
		}
		l.Logger.Info().Msg("started")
	}
}
