// Package cli implements the anml command-line interface.
//
// The CLI converts NFA graph dumps into ANML documents, reads ANML back,
// draws node-link diagrams, and manages the artifact cache. It is built
// with cobra and logs through charmbracelet/log.
//
// # Commands
//
//   - convert: DOT or ANML input to ANML, DOT, SVG, or PNG
//   - render: shortcut for convert with image output
//   - inspect: print a network's elements as a table, or browse them
//   - example: write the demo chain network
//   - cache: clear the artifact cache or print its location
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tjt7a/anml/pkg/pipeline"
)

// newLogger creates the CLI logger. Timestamps look like "14:32:01.45".
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress times one pipeline conversion.
type progress struct {
	logger *log.Logger
	input  string
	start  time.Time
}

func newProgress(l *log.Logger, input string) *progress {
	return &progress{logger: l, input: input, start: time.Now()}
}

// done logs the converted network, e.g.
// "Converted regex.dot (12ms) network=an1 elements=2 cached=0/1".
func (p *progress) done(res *pipeline.Result) {
	p.logger.Info(fmt.Sprintf("Converted %s (%s)", p.input, time.Since(p.start).Round(time.Millisecond)),
		"network", res.Network.ID(),
		"elements", res.Stats.Elements,
		"cached", fmt.Sprintf("%d/%d", len(res.CacheInfo.Hits), len(res.Artifacts)))
}

type ctxKey struct{}

// withLogger attaches the command logger to ctx; subcommands read it back
// with loggerFromContext.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
