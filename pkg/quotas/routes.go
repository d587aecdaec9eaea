package quotas

import (
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

// RegisterRoutesWithGroup registers quota routes on a pre-configured group.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB) {
	quotaService := NewService(db)

	h := &handler{
		quotaService: quotaService,
	}

	g.GET("", h.list)
	g.GET("/:id", h.retrieve)
}
