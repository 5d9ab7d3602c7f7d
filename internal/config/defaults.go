package config

const (
	defaultRoot                = "."
	defaultCatalog             = "data/thumbnails.json"
	defaultTemplate            = "templates/base-template.html"
	defaultOutput              = "output"
	defaultImages              = "assets/images"
	defaultLogos               = "assets/logos"
	defaultReports             = "reports"
	defaultLogs                = "logs"
	defaultScreenshotSubfolder = "screenshots"
	defaultBackend             = BackendChromedp
	defaultFormat              = FormatPNG
	defaultQuality             = 100
	defaultViewportWidth       = 1920
	defaultViewportHeight      = 1080
	defaultDeviceScaleFactor   = 1
	defaultSelector            = ".relative.w-full.max-w-4xl"
	defaultNavigationTimeout   = 30
	defaultLogLevel            = "info"
	defaultLogFormat           = "console"
	defaultHistoryPath         = ".thumbgen/history.db"
	defaultPreviewBind         = "127.0.0.1:8888"
)

// Supported render backends.
const (
	BackendChromedp = "chromedp"
	BackendRod      = "rod"
)

// Supported capture formats.
const (
	FormatPNG  = "png"
	FormatJPEG = "jpeg"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			Root:     defaultRoot,
			Catalog:  defaultCatalog,
			Template: defaultTemplate,
			Output:   defaultOutput,
			Images:   defaultImages,
			Logos:    defaultLogos,
			Reports:  defaultReports,
			Logs:     defaultLogs,
		},
		Output: Output{
			CopyAssets:          true,
			PerRecordFolders:    true,
			ScreenshotSubfolder: defaultScreenshotSubfolder,
		},
		Capture: Capture{
			Backend:                  defaultBackend,
			Format:                   defaultFormat,
			Quality:                  defaultQuality,
			ViewportWidth:            defaultViewportWidth,
			ViewportHeight:           defaultViewportHeight,
			DeviceScaleFactor:        defaultDeviceScaleFactor,
			Selector:                 defaultSelector,
			NavigationTimeoutSeconds: defaultNavigationTimeout,
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
		History: History{
			Enabled: true,
			Path:    defaultHistoryPath,
		},
		Preview: Preview{
			Bind: defaultPreviewBind,
		},
	}
}
