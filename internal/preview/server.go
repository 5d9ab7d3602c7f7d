// Package preview serves the generated output tree over HTTP so documents
// can be checked in a browser before capture.
package preview

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"net/http"
	"os"
	"path"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/microcosm-cc/bluemonday"

	"github.com/tkturners/thumbgen/internal/catalog"
	"github.com/tkturners/thumbgen/internal/config"
	"github.com/tkturners/thumbgen/internal/generator"
	"github.com/tkturners/thumbgen/internal/layout"
	"github.com/tkturners/thumbgen/internal/logging"
)

// OutputPrefix is the URL prefix the output tree is mounted at.
const OutputPrefix = "/output"

const shutdownTimeout = 5 * time.Second

// Thumbnail is one entry of the /api/thumbnails listing.
type Thumbnail struct {
	generator.RecordSummary
	HTML       string `json:"html,omitempty"`
	Screenshot string `json:"screenshot,omitempty"`
}

// Server is the preview HTTP server.
type Server struct {
	echo   *echo.Echo
	cfg    *config.Config
	layout *layout.Manager
	text   *bluemonday.Policy
	logger *slog.Logger
}

// New builds the server and its routes.
func New(cfg *config.Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Server{
		echo: echo.New(),
		cfg:  cfg,
		layout: layout.New(layout.Options{
			Root:                cfg.Paths.Output,
			PerRecord:           cfg.Output.PerRecordFolders,
			ScreenshotSubfolder: cfg.Output.ScreenshotSubfolder,
		}, logger),
		text:   bluemonday.StrictPolicy(),
		logger: logger.With(logging.FieldComponent, "preview"),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	e := s.echo
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			s.logger.Debug("request",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
			)
			return nil
		},
	}))
	e.Use(middleware.Recover())

	e.GET("/healthcheck", func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	})
	e.GET("/api/thumbnails", s.handleThumbnails)
	e.GET("/", s.handleIndex)
	e.Static(OutputPrefix, s.cfg.Paths.Output)
}

// Handler exposes the routes for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Run serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	serverErr := make(chan error, 1)
	go func() {
		s.logger.Info("preview available", "addr", addr, "url", "http://"+addr+"/")
		if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("shutting down preview server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.echo.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	case err := <-serverErr:
		return err
	}
}

// thumbnails reads the catalog fresh and attaches links to existing outputs.
func (s *Server) thumbnails() ([]Thumbnail, error) {
	cat, err := catalog.Load(s.cfg.Paths.Catalog)
	if err != nil {
		return nil, err
	}
	rows := generator.Summaries(cat)
	out := make([]Thumbnail, 0, len(rows))
	for i, row := range rows {
		t := Thumbnail{RecordSummary: row}
		if row.ID != "" {
			if p := s.layout.HTMLPath(row.ID); fileExists(p) {
				t.HTML = s.urlFor(p)
			}
			shot := s.layout.ScreenshotPath(row.ID, cat.Thumbnails[i].OutputName(), s.cfg.Capture.Format)
			if fileExists(shot) {
				t.Screenshot = s.urlFor(shot)
			}
		}
		out = append(out, t)
	}
	return out, nil
}

func (s *Server) handleThumbnails(c echo.Context) error {
	rows, err := s.thumbnails()
	if err != nil {
		if errors.Is(err, catalog.ErrCatalogNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, rows)
}

func (s *Server) handleIndex(c echo.Context) error {
	rows, err := s.thumbnails()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	var b strings.Builder
	b.WriteString("<!DOCTYPE html><html><head><meta charset=\"utf-8\"><title>Thumbnail preview</title></head><body>\n<h1>Thumbnails</h1>\n<ul>\n")
	for _, row := range rows {
		fmt.Fprintf(&b, "<li><strong>%s</strong> %s", s.text.Sanitize(row.ID), s.text.Sanitize(row.Title))
		if row.HTML != "" {
			fmt.Fprintf(&b, ` <a href="%s">html</a>`, html.EscapeString(row.HTML))
		}
		if row.Screenshot != "" {
			fmt.Fprintf(&b, ` <a href="%s">image</a>`, html.EscapeString(row.Screenshot))
		}
		b.WriteString("</li>\n")
	}
	b.WriteString("</ul>\n</body></html>\n")
	return c.HTML(http.StatusOK, b.String())
}

// urlFor maps a path inside the output root to its preview URL.
func (s *Server) urlFor(p string) string {
	rel := strings.TrimPrefix(p, s.layout.Root())
	return path.Join(OutputPrefix, strings.ReplaceAll(rel, string(os.PathSeparator), "/"))
}

func fileExists(p string) bool {
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}
