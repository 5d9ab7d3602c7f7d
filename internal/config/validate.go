package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateOutput(); err != nil {
		return err
	}
	if err := c.validateCapture(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateOutput() error {
	sub := c.Output.ScreenshotSubfolder
	if sub == "" {
		return errors.New("output.screenshot_subfolder must be set")
	}
	if strings.ContainsAny(sub, `/\`) || sub == "." || sub == ".." {
		return fmt.Errorf("output.screenshot_subfolder %q must be a single folder name", sub)
	}
	return nil
}

func (c *Config) validateCapture() error {
	switch c.Capture.Backend {
	case BackendChromedp, BackendRod:
	default:
		return fmt.Errorf("capture.backend: unsupported value %q (use %s or %s)", c.Capture.Backend, BackendChromedp, BackendRod)
	}
	switch c.Capture.Format {
	case FormatPNG, FormatJPEG:
	default:
		return fmt.Errorf("capture.format: unsupported value %q (use %s or %s)", c.Capture.Format, FormatPNG, FormatJPEG)
	}
	if c.Capture.Quality < 1 || c.Capture.Quality > 100 {
		return fmt.Errorf("capture.quality must be between 1 and 100, got %d", c.Capture.Quality)
	}
	if c.Capture.ViewportWidth <= 0 || c.Capture.ViewportHeight <= 0 {
		return fmt.Errorf("capture viewport must be positive, got %dx%d", c.Capture.ViewportWidth, c.Capture.ViewportHeight)
	}
	if c.Capture.DeviceScaleFactor < 0 {
		return errors.New("capture.device_scale_factor must not be negative")
	}
	if c.Capture.MaxWidth < 0 {
		return errors.New("capture.max_width must not be negative")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
