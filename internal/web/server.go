package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/pfrederiksen/liga-rankings/internal/logger"
	"github.com/pfrederiksen/liga-rankings/internal/metrics"
	"github.com/unrolled/render"
)

//go:embed templates
var templates embed.FS

const shutdownTimeout = 10 * time.Second

// Options configures the dashboard
type Options struct {
	Addr string

	// Rounds is how many rounds the round selector offers.
	Rounds int

	// TrackedTeams are shown in analytics when a request names none.
	TrackedTeams []string

	Metrics *metrics.Manager
	Logger  *logger.Logger
}

type Server struct {
	server *http.Server
	log    *logger.Logger
}

func NewServer(src Source, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = logger.Default()
	}

	router := getRouter(src, newRender(), opts)

	return &Server{
		server: &http.Server{
			Addr:              opts.Addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		log: opts.Logger,
	}
}

// Handler returns the server's root handler
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// ListenAndServe serves until ctx ends, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("Web server listening", logger.Fields{"addr": s.server.Addr})
		err := s.server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("web server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down web server: %w", err)
	}
	s.log.Info("Web server stopped", nil)
	return nil
}

func newRender() *render.Render {
	return render.New(render.Options{
		Directory: "templates",
		Layout:    "layout",
		FileSystem: &render.EmbedFileSystem{
			FS: templates,
		},
		Funcs: []template.FuncMap{
			{
				"percent": percentFormatter,
				"time":    timeFormatter,
				"tier":    tierClass,
			},
		},
	})
}

// percentFormatter renders a 0..1 share as a percentage
func percentFormatter(f float64) string {
	return fmt.Sprintf("%.1f%%", f*100)
}

func timeFormatter(t time.Time) string {
	if t.IsZero() {
		return "Never"
	}
	return t.Format("2006-01-02 15:04")
}

// tierClass is the CSS class highlighting a table row
func tierClass(tier int) string {
	if tier <= 0 {
		return ""
	}
	return fmt.Sprintf("tier-%d", tier)
}
