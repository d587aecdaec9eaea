package summaries

import (
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

// RegisterRoutesWithGroup registers daily summary routes on a pre-configured group.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB) {
	summaryService := NewService(db)

	h := &handler{
		summaryService: summaryService,
	}

	g.GET("", h.list)
}
