package config

import (
	"fmt"
	"strconv"
	"strings"
)

type lookupFunc func(string) (string, bool)

// applyEnv layers the environment variables the operator keeps in .env on top
// of file values. Unset or blank variables leave the current value alone.
func (c *Config) applyEnv(lookup lookupFunc) error {
	get := func(key string) (string, bool) {
		value, ok := lookup(key)
		if !ok {
			return "", false
		}
		value = strings.TrimSpace(value)
		return value, value != ""
	}

	if v, ok := get("SCREENSHOT_FORMAT"); ok {
		c.Capture.Format = v
	}
	if v, ok := get("SCREENSHOT_QUALITY"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("SCREENSHOT_QUALITY: %w", err)
		}
		c.Capture.Quality = n
	}
	if v, ok := get("VIEWPORT_WIDTH"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("VIEWPORT_WIDTH: %w", err)
		}
		c.Capture.ViewportWidth = n
	}
	if v, ok := get("VIEWPORT_HEIGHT"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("VIEWPORT_HEIGHT: %w", err)
		}
		c.Capture.ViewportHeight = n
	}
	if v, ok := get("USE_GIG_FOLDERS"); ok {
		c.Output.PerRecordFolders = v != "false"
	}
	if v, ok := get("SCREENSHOT_SUBFOLDER"); ok {
		c.Output.ScreenshotSubfolder = v
	}
	if v, ok := get("RENDER_BACKEND"); ok {
		c.Capture.Backend = v
	}
	if v, ok := get("CHROME_PATH"); ok {
		c.Capture.BrowserPath = v
	}
	if v, ok := get("LOG_LEVEL"); ok {
		c.Logging.Level = v
	}
	if v, ok := get("LOG_TO_FILE"); ok {
		c.Logging.ToFile = v == "true"
	}
	return nil
}
