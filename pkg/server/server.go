package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/huettenbuch/huettenbuch/pkg/binder"
	"github.com/huettenbuch/huettenbuch/pkg/config"
	"github.com/huettenbuch/huettenbuch/pkg/errcodes"
	"github.com/huettenbuch/huettenbuch/pkg/jobs"
	"github.com/huettenbuch/huettenbuch/pkg/quotas"
	"github.com/huettenbuch/huettenbuch/pkg/reservations"
	"github.com/huettenbuch/huettenbuch/pkg/summaries"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/echo/v4/health"
	"github.com/robinjoseph08/golib/echo/v4/middleware/logger"
	"github.com/robinjoseph08/golib/echo/v4/middleware/recovery"
	"github.com/uptrace/bun"
)

func New(cfg *config.Config, db *bun.DB) (*http.Server, error) {
	e := echo.New()

	b, err := binder.New()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	e.Binder = b

	e.Use(logger.Middleware())
	e.Use(recovery.Middleware())
	e.Use(middleware.CORS())

	health.RegisterRoutes(e)

	registerRoutes(e, db)

	echo.NotFoundHandler = notFoundHandler
	e.HTTPErrorHandler = errcodes.NewHandler().Handle

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
		Handler:           e,
		ReadHeaderTimeout: 3 * time.Second,
	}

	return srv, nil
}

func registerRoutes(e *echo.Echo, db *bun.DB) {
	reservationsGroup := e.Group("/reservations")
	reservations.RegisterRoutesWithGroup(reservationsGroup, db)

	quotasGroup := e.Group("/quotas")
	quotas.RegisterRoutesWithGroup(quotasGroup, db)

	summariesGroup := e.Group("/summaries")
	summaries.RegisterRoutesWithGroup(summariesGroup, db)

	jobsGroup := e.Group("/jobs")
	jobs.RegisterRoutesWithGroup(jobsGroup, db)
}

func notFoundHandler(c echo.Context) error {
	c.SetPath("/:path")
	return errcodes.NotFound("Page")
}
