package watchlist

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/davidcollell/plataformes/internal/enrich"
)

// Handlers provides HTTP handlers for watchlist operations.
type Handlers struct {
	store *Store
}

// NewHandlers creates new watchlist handlers.
func NewHandlers(store *Store) *Handlers {
	return &Handlers{store: store}
}

// RegisterRoutes registers the watchlist routes.
func (h *Handlers) RegisterRoutes(g *echo.Group) {
	g.POST("", h.AddItem)
	g.GET("", h.ListItems)
	g.GET("/counts", h.GetCounts)
	g.GET("/export", h.ExportItems)
	g.GET("/:id", h.GetItem)
	g.PATCH("/:id/status", h.SetStatus)
	g.PATCH("/:id/rating", h.SetRating)
	g.DELETE("/:id", h.DeleteItem)
}

type addRequest struct {
	Query string `json:"query"`
}

type statusRequest struct {
	Status Status `json:"status"`
}

type ratingRequest struct {
	Rating int `json:"rating"`
}

// AddItem runs the enrichment pipeline for a free-text query.
// POST /api/v1/watchlist
func (h *Handlers) AddItem(c echo.Context) error {
	var req addRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	item, err := h.store.Add(c.Request().Context(), req.Query)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmptyQuery):
			return echo.NewHTTPError(http.StatusBadRequest, "query is required")
		case errors.Is(err, ErrBusy):
			return echo.NewHTTPError(http.StatusTooManyRequests, "an enrichment request is already in progress")
		case errors.Is(err, ErrDuplicateTitle):
			// A recognized outcome, not a failure: state is unchanged and
			// the client shows a notice.
			return c.JSON(http.StatusConflict, map[string]interface{}{
				"duplicate": true,
				"message":   err.Error(),
			})
		case errors.Is(err, enrich.ErrProvider),
			errors.Is(err, enrich.ErrNoPayload),
			errors.Is(err, enrich.ErrInvalidPayload):
			// The three enrichment failures are indistinguishable for the
			// user; diagnostics go to the log.
			return echo.NewHTTPError(http.StatusBadGateway, "could not fetch details, check the title")
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(http.StatusCreated, item)
}

// ListItems returns the filtered, ordered view of the collection.
// GET /api/v1/watchlist?status=...&type=...&search=...&sort=...
func (h *Handlers) ListItems(c echo.Context) error {
	opts := ListOptions{
		Status: Status(c.QueryParam("status")),
		Type:   enrich.MediaType(c.QueryParam("type")),
		Search: c.QueryParam("search"),
		Sort:   SortOption(c.QueryParam("sort")),
	}

	if opts.Status != "" && !opts.Status.Valid() {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid status filter")
	}

	return c.JSON(http.StatusOK, h.store.List(opts))
}

// GetCounts returns per-status totals for the tab badges.
// GET /api/v1/watchlist/counts
func (h *Handlers) GetCounts(c echo.Context) error {
	return c.JSON(http.StatusOK, h.store.Counts())
}

// GetItem returns a single item by id.
// GET /api/v1/watchlist/:id
func (h *Handlers) GetItem(c echo.Context) error {
	item, err := h.store.Get(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "item not found")
	}
	return c.JSON(http.StatusOK, item)
}

// SetStatus updates the viewing status of an item.
// PATCH /api/v1/watchlist/:id/status
func (h *Handlers) SetStatus(c echo.Context) error {
	var req statusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	item, err := h.store.SetStatus(c.Request().Context(), c.Param("id"), req.Status)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidStatus):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "item not found")
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(http.StatusOK, item)
}

// SetRating updates the user rating of an item.
// PATCH /api/v1/watchlist/:id/rating
func (h *Handlers) SetRating(c echo.Context) error {
	var req ratingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	item, err := h.store.SetRating(c.Request().Context(), c.Param("id"), req.Rating)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidRating):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "item not found")
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(http.StatusOK, item)
}

// DeleteItem removes an item from the collection.
// DELETE /api/v1/watchlist/:id
func (h *Handlers) DeleteItem(c echo.Context) error {
	removed, err := h.store.Remove(c.Request().Context(), c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if !removed {
		return echo.NewHTTPError(http.StatusNotFound, "item not found")
	}
	return c.NoContent(http.StatusNoContent)
}

// ExportItems streams the collection as a JSON attachment.
// GET /api/v1/watchlist/export
func (h *Handlers) ExportItems(c echo.Context) error {
	filename := fmt.Sprintf("watchlist-%s.json", time.Now().UTC().Format("2006-01-02"))
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	c.Response().WriteHeader(http.StatusOK)
	return h.store.Export(c.Response())
}
