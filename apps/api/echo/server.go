package echoapi

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/kisanhq/kisan/core"
	"github.com/kisanhq/kisan/core/session"
	"github.com/kisanhq/kisan/core/user"
)

type (
	Options struct {
		Address        string
		DisableReqLogs bool
		SessionSvc     *session.Service
		AccountSvc     *user.Service
		EmailSvc       core.EmailService
	}

	Server interface {
		http.Handler
		Start()
		Stop(context.Context) error
	}

	server struct {
		opts *Options
		app  *echo.Echo
	}
)

var _ Server = (*server)(nil)

func NewServer(opts *Options) Server {
	s := &server{
		opts: opts,
		app:  echo.New(),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	debug := core.Conf.GetBool("debug")

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(debug || core.Conf.GetBool("testMode")) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = appHTTPErrorHandler
	s.app.Debug = debug

	registerPortalPages(s.app, s.opts.SessionSvc)

	// the offline interceptor never caches anything under this prefix
	v1 := s.app.Group("/api/v1")
	registerAuthAPI(v1, s.opts.SessionSvc)
	registerAccountAPI(v1, s.opts.AccountSvc)
	registerContactAPI(v1, s.opts.EmailSvc)
	registerDashboardAPI(v1, s.opts.SessionSvc)
}

func (s *server) Start() {
	s.app.Logger.Fatal(s.app.Start(s.opts.Address))
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}
