package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeCapture()
	c.normalizeLogging()
	c.Output.ScreenshotSubfolder = strings.TrimSpace(c.Output.ScreenshotSubfolder)
	c.Preview.Bind = strings.TrimSpace(c.Preview.Bind)
	if c.Preview.Bind == "" {
		c.Preview.Bind = defaultPreviewBind
	}
	return nil
}

func (c *Config) normalizePaths() error {
	root, err := expandPath(c.Paths.Root)
	if err != nil {
		return fmt.Errorf("paths.root: %w", err)
	}
	if root == "" {
		root = defaultRoot
	}
	if root, err = filepath.Abs(root); err != nil {
		return fmt.Errorf("paths.root: %w", err)
	}
	c.Paths.Root = root

	fields := []struct {
		name     string
		value    *string
		fallback string
	}{
		{"paths.catalog", &c.Paths.Catalog, defaultCatalog},
		{"paths.template", &c.Paths.Template, defaultTemplate},
		{"paths.output", &c.Paths.Output, defaultOutput},
		{"paths.images", &c.Paths.Images, defaultImages},
		{"paths.logos", &c.Paths.Logos, defaultLogos},
		{"paths.reports", &c.Paths.Reports, defaultReports},
		{"paths.logs", &c.Paths.Logs, defaultLogs},
		{"history.path", &c.History.Path, defaultHistoryPath},
	}
	for _, field := range fields {
		resolved, err := c.resolve(*field.value, field.fallback)
		if err != nil {
			return fmt.Errorf("%s: %w", field.name, err)
		}
		*field.value = resolved
	}
	if c.Logging.File != "" {
		if c.Logging.File, err = c.resolve(c.Logging.File, ""); err != nil {
			return fmt.Errorf("logging.file: %w", err)
		}
	}
	return nil
}

func (c *Config) resolve(value, fallback string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		value = fallback
	}
	expanded, err := expandPath(value)
	if err != nil {
		return "", err
	}
	if !filepath.IsAbs(expanded) {
		expanded = filepath.Join(c.Paths.Root, expanded)
	}
	return filepath.Clean(expanded), nil
}

func (c *Config) normalizeCapture() {
	c.Capture.Backend = strings.ToLower(strings.TrimSpace(c.Capture.Backend))
	if c.Capture.Backend == "" {
		c.Capture.Backend = defaultBackend
	}
	c.Capture.Format = strings.ToLower(strings.TrimSpace(c.Capture.Format))
	switch c.Capture.Format {
	case "":
		c.Capture.Format = defaultFormat
	case "jpg":
		c.Capture.Format = FormatJPEG
	}
	c.Capture.Selector = strings.TrimSpace(c.Capture.Selector)
	if c.Capture.Selector == "" {
		c.Capture.Selector = defaultSelector
	}
	if c.Capture.NavigationTimeoutSeconds <= 0 {
		c.Capture.NavigationTimeoutSeconds = defaultNavigationTimeout
	}
	if c.Capture.DeviceScaleFactor == 0 {
		c.Capture.DeviceScaleFactor = defaultDeviceScaleFactor
	}
	c.Capture.BrowserPath = strings.TrimSpace(c.Capture.BrowserPath)
}

func (c *Config) normalizeLogging() {
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
}

func expandPath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
	}
	return path, nil
}
