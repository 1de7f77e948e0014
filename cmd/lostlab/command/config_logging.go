package command

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/pixil98/go-errors"
)

type LoggingConfig struct {
	Level  string `json:"level"`
	Format string `json:"format"`
}

func (c *LoggingConfig) Validate() error {
	el := errors.NewErrorList()

	if _, err := c.level(); err != nil {
		el.Add(err)
	}
	switch strings.ToLower(c.Format) {
	case "", "text", "json":
	default:
		el.Add(fmt.Errorf("logging format must be text or json, got %q", c.Format))
	}

	return el.Err()
}

// Setup installs the configured handler as the default slog logger.
func (c *LoggingConfig) Setup() *slog.Logger {
	return c.setup(os.Stdout)
}

func (c *LoggingConfig) setup(w io.Writer) *slog.Logger {
	level, err := c.level()
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler
	if strings.EqualFold(c.Format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

func (c *LoggingConfig) level() (slog.Level, error) {
	var level slog.Level
	if c.Level == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(c.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("parsing logging level: %w", err)
	}
	return level, nil
}
