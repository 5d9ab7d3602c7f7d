package cmd

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/tkturners/thumbgen/internal/config"
	"github.com/tkturners/thumbgen/internal/logging"
)

// commandContext carries the lazily loaded configuration and logger shared by
// every subcommand.
type commandContext struct {
	configFlag *string
	levelFlag  *string

	once   sync.Once
	cfg    *config.Config
	logger *slog.Logger
	runID  string
	err    error
}

func newCommandContext(configFlag, levelFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag, levelFlag: levelFlag}
}

func (c *commandContext) ensureConfig() error {
	c.once.Do(func() {
		cfg, _, _, err := config.Load(*c.configFlag)
		if err != nil {
			c.err = fmt.Errorf("load configuration: %w", err)
			return
		}
		if *c.levelFlag != "" {
			cfg.Logging.Level = *c.levelFlag
		}

		outputs := []string{"stderr"}
		if file := cfg.LogFile(); file != "" {
			outputs = append(outputs, file)
		}
		logger, err := logging.New(logging.Options{
			Level:       cfg.Logging.Level,
			Format:      cfg.Logging.Format,
			OutputPaths: outputs,
		})
		if err != nil {
			c.err = fmt.Errorf("init logger: %w", err)
			return
		}

		c.runID = uuid.NewString()
		c.cfg = cfg
		c.logger = logger.With(logging.FieldRunID, c.runID)
		slog.SetDefault(c.logger)
	})
	return c.err
}

func (c *commandContext) config() *config.Config {
	return c.cfg
}

func (c *commandContext) log() *slog.Logger {
	if c.logger == nil {
		return logging.NewNop()
	}
	return c.logger
}
