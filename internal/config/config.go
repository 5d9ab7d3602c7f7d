package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// DefaultFileName is looked up in the working directory when no path is given.
const DefaultFileName = "thumbgen.toml"

// Paths contains input and output locations.
type Paths struct {
	Root     string `toml:"root"`
	Catalog  string `toml:"catalog"`
	Template string `toml:"template"`
	Output   string `toml:"output"`
	Images   string `toml:"images"`
	Logos    string `toml:"logos"`
	Reports  string `toml:"reports"`
	Logs     string `toml:"logs"`
}

// Output controls the generated tree layout.
type Output struct {
	CopyAssets          bool   `toml:"copy_assets"`
	PerRecordFolders    bool   `toml:"per_record_folders"`
	ScreenshotSubfolder string `toml:"screenshot_subfolder"`
}

// Capture contains rendering engine and image settings.
type Capture struct {
	Backend                  string  `toml:"backend"`
	Format                   string  `toml:"format"`
	Quality                  int     `toml:"quality"`
	ViewportWidth            int     `toml:"viewport_width"`
	ViewportHeight           int     `toml:"viewport_height"`
	DeviceScaleFactor        float64 `toml:"device_scale_factor"`
	MaxWidth                 int     `toml:"max_width"`
	Selector                 string  `toml:"selector"`
	NavigationTimeoutSeconds int     `toml:"navigation_timeout_seconds"`
	BrowserPath              string  `toml:"browser_path"`
}

// Logging contains configuration for log output.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	ToFile bool   `toml:"to_file"`
	File   string `toml:"file"`
}

// History controls the run history database.
type History struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Preview configures the local preview server.
type Preview struct {
	Bind string `toml:"bind"`
}

// Config encapsulates every setting the generator, capture and CLI layers read.
type Config struct {
	Paths   Paths   `toml:"paths"`
	Output  Output  `toml:"output"`
	Capture Capture `toml:"capture"`
	Logging Logging `toml:"logging"`
	History History `toml:"history"`
	Preview Preview `toml:"preview"`
}

// NavigationTimeout returns the per-record page load budget.
func (c *Config) NavigationTimeout() time.Duration {
	return time.Duration(c.Capture.NavigationTimeoutSeconds) * time.Second
}

// LogFile returns the file log destination, or "" when file logging is off.
func (c *Config) LogFile() string {
	if !c.Logging.ToFile {
		return ""
	}
	if c.Logging.File != "" {
		return c.Logging.File
	}
	return filepath.Join(c.Paths.Logs, "app.log")
}

// Load reads the TOML file at path (or thumbgen.toml in the working
// directory when path is empty), applies environment overrides, and returns a
// normalized, validated configuration. A missing default file is not an error.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, "", false, err
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultFileName
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", false, fmt.Errorf("resolve config path: %w", err)
	}
	info, err := os.Stat(abs)
	switch {
	case err == nil:
		if info.IsDir() {
			return "", false, fmt.Errorf("config path %s is a directory", abs)
		}
		return abs, true, nil
	case errors.Is(err, fs.ErrNotExist):
		if explicit {
			return "", false, fmt.Errorf("config file not found: %s", abs)
		}
		return abs, false, nil
	default:
		return "", false, fmt.Errorf("stat config: %w", err)
	}
}

// CreateSample writes the embedded sample configuration to path. Existing
// files are left untouched.
func CreateSample(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists: %s", path)
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
