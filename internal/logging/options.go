package logging

import (
	"fmt"
	"os"
	"strings"
)

// Backend names accepted by New.
const (
	BackendSlog = "slog"
	BackendZap  = "zap"
)

// Options selects and tunes a Logger implementation.
type Options struct {
	Backend    string
	Level      string
	File       string
	MaxSize    int
	MaxBackups int
	MaxAge     int
	Compress   bool
}

// New builds the Logger named by o.Backend. The returned close func flushes
// buffered output and must be called on shutdown.
func New(o Options) (Logger, func(), error) {
	switch strings.ToLower(o.Backend) {
	case "", BackendSlog:
		l, err := NewSlogJSON(os.Stdout, o.Level)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid log level %q: %w", o.Level, err)
		}
		return l, func() {}, nil
	case BackendZap:
		z, err := NewZapLogger(o)
		if err != nil {
			return nil, nil, err
		}
		return z, z.Sync, nil
	default:
		return nil, nil, fmt.Errorf("unknown log backend %q", o.Backend)
	}
}
