// This file is part of Gopher2600.
//
// Gopher2600 is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Gopher2600 is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Gopher2600.  If not, see <https://www.gnu.org/licenses/>.

// Package zlog is the cache's structured-logging ambient stack. The
// teacher's own "logger" package is a hand-rolled central logger of
// tag/detail entries; this package keeps that shape - a short
// component tag plus a message - but backs it with the ecosystem
// logger the rest of the retrieved pack reaches for,
// github.com/rs/zerolog, rather than reinventing one.
package zlog

import (
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
)

var (
	baseOnce sync.Once
	base     zerolog.Logger
)

func baseLogger() zerolog.Logger {
	baseOnce.Do(func() {
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
		base = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, NoColor: false}).With().Timestamp().Logger()
	})
	return base
}

// SetOutput redirects the output of every Logger created after the
// call. Intended for tests and for hosts that want the cache's log
// lines folded into their own writer instead of stderr. Loggers
// created before the call keep writing to their previous output.
func SetOutput(w io.Writer) {
	baseLogger()
	base = zerolog.New(w).With().Timestamp().Logger()
}

// Logger is a component-scoped log handle, analogous to the teacher's
// per-call "tag" but fixed once at construction since every call site
// within a component logs under the same tag in practice.
type Logger struct {
	zl zerolog.Logger
}

// New returns a Logger tagging every entry with component.
func New(component string) Logger {
	return Logger{zl: baseLogger().With().Str("component", component).Logger()}
}

// Debugf logs a debug-level entry. This is the level used for
// internal bookkeeping a caller would want to trace but that carries
// no operational weight - ring rebuilds, promotions, evictions.
func (l Logger) Debugf(format string, args ...interface{}) {
	l.zl.Debug().Msgf(format, args...)
}

// Infof logs an info-level entry.
func (l Logger) Infof(format string, args ...interface{}) {
	l.zl.Info().Msgf(format, args...)
}

// Errorf logs an error-level entry.
func (l Logger) Errorf(format string, args ...interface{}) {
	l.zl.Error().Msgf(format, args...)
}
