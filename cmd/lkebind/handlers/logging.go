package handlers

import (
	"context"
	"fmt"
	"io"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
)

// WithLogger returns ctx carrying a logger that writes to w. Info logs at
// V(level) are shown when level <= verbosity.
func WithLogger(ctx context.Context, w io.Writer, verbosity int) context.Context {
	log := funcr.New(func(prefix, args string) {
		if prefix != "" {
			fmt.Fprintf(w, "%s: %s\n", prefix, args)
			return
		}
		fmt.Fprintln(w, args)
	}, funcr.Options{
		Verbosity:    verbosity,
		LogTimestamp: verbosity > 0,
	})
	return logr.NewContext(ctx, log.WithName("lkebind"))
}
