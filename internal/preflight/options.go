package preflight

import "log/slog"

type checkConfig struct {
	logger *slog.Logger
}

// CheckOption configures a check.
type CheckOption func(*checkConfig)

// WithCheckLogger sets the logger a check writes diagnostics to.
func WithCheckLogger(l *slog.Logger) CheckOption {
	return func(c *checkConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

func newCheckConfig(opts []CheckOption) checkConfig {
	cfg := checkConfig{logger: slog.Default()}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}
