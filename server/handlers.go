package server

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cast"

	"storefront/catalog"
	"storefront/domain"
)

// productResponse is a product plus the rating the storefront displays.
type productResponse struct {
	domain.Product
	EffectiveRating float64 `json:"effectiveRating"`
	InStock         bool    `json:"inStock"`
}

func toResponse(p domain.Product) productResponse {
	return productResponse{Product: p, EffectiveRating: domain.EffectiveRating(p), InStock: p.InStock()}
}

type viewResponse struct {
	Items      []productResponse     `json:"items"`
	Page       int                   `json:"page"`
	PerPage    int                   `json:"perPage"`
	TotalItems int                   `json:"totalItems"`
	TotalPages int                   `json:"totalPages"`
	Window     []catalog.PageLink    `json:"window"`
	Criteria   domain.FilterCriteria `json:"criteria"`
}

type reviewBody struct {
	Username string `json:"username"`
	Comment  string `json:"comment"`
	Rating   int    `json:"rating"`
}

func (s *Server) routes() {
	s.e.GET("/healthz", s.health)
	s.e.GET("/products", s.listProducts)
	s.e.GET("/products/:id", s.getProduct)
	s.e.POST("/products/:id/review", s.addReview)
	s.e.GET("/facets", s.facets)
}

// errorStatus maps domain errors onto HTTP status codes.
func errorStatus(err error) int {
	switch {
	case domain.IsProductNotFoundError(err):
		return http.StatusNotFound
	case domain.IsInvalidProductError(err):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrReadOnly):
		return http.StatusMethodNotAllowed
	case domain.IsCatalogFetchError(err):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c echo.Context, err error) error {
	status := errorStatus(err)
	msg := err.Error()
	var fetchErr *domain.CatalogFetchError
	if errors.As(err, &fetchErr) && fetchErr.Message != "" {
		msg = fetchErr.Message
	}
	return c.JSON(status, echo.Map{"error": msg})
}

func (s *Server) health(c echo.Context) error {
	sn := s.snap.Load()
	if sn == nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "loading"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"status":   "ok",
		"products": len(sn.products),
		"loadedAt": sn.loadedAt.Format(time.RFC3339),
	})
}

// rawCriteria reads filter controls from the query string. brand may be
// repeated or comma separated.
func rawCriteria(c echo.Context) catalog.RawCriteria {
	q := c.QueryParams()
	return catalog.RawCriteria{
		Search:    q.Get("q"),
		MinPrice:  q.Get("minPrice"),
		MaxPrice:  q.Get("maxPrice"),
		Brands:    q["brand"],
		MinRating: q.Get("minRating"),
		InStock:   cast.ToBool(q.Get("inStock")),
		Sort:      q.Get("sort"),
	}
}

func (s *Server) listProducts(c echo.Context) error {
	sn, err := s.current(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}

	page, err := cast.ToIntE(c.QueryParam("page"))
	if err != nil || page < 1 {
		page = 1
	}
	perPage, err := cast.ToIntE(c.QueryParam("perPage"))
	if err != nil || perPage < 1 {
		perPage = s.opts.PerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}

	criteria := catalog.ParseCriteria(rawCriteria(c))
	view := catalog.ComputeView(sn.products, criteria, page, perPage)

	resp := viewResponse{
		Items:      make([]productResponse, 0, len(view.Items)),
		Page:       view.Page,
		PerPage:    view.PerPage,
		TotalItems: view.TotalItems,
		TotalPages: view.TotalPages,
		Window:     catalog.PageWindow(view.Page, view.TotalPages),
		Criteria:   criteria,
	}
	for _, p := range view.Items {
		resp.Items = append(resp.Items, toResponse(p))
	}
	return c.JSON(http.StatusOK, resp)
}

func productID(c echo.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return 0, domain.NewInvalidProductError("id", "must be a positive integer", c.Param("id"))
	}
	return id, nil
}

func (s *Server) getProduct(c echo.Context) error {
	id, err := productID(c)
	if err != nil {
		return respondError(c, err)
	}
	p, err := s.src.Get(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, toResponse(p))
}

func (s *Server) facets(c echo.Context) error {
	sn, err := s.current(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, sn.facets)
}

func (s *Server) addReview(c echo.Context) error {
	id, err := productID(c)
	if err != nil {
		return respondError(c, err)
	}
	var body reviewBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	ctx := c.Request().Context()
	p, err := s.src.AddReview(ctx, id, domain.Review{
		ReviewerName: body.Username,
		Comment:      body.Comment,
		Rating:       body.Rating,
	})
	if err != nil {
		return respondError(c, err)
	}
	// keep list views consistent with the new rating; a failed refresh
	// leaves the old snapshot and is logged by Refresh
	_ = s.Refresh(ctx)
	return c.JSON(http.StatusCreated, toResponse(p))
}
