package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/blueprintmfg/settings-portal/internal/core/ports"
)

// SearchHandler serves the public lookup flow: leg number to case sizes to
// the SKU list to the category-tabbed setting detail.
type SearchHandler struct {
	store ports.StateStore
}

func NewSearchHandler(store ports.StateStore) *SearchHandler {
	return &SearchHandler{store: store}
}

type caseSizesResponse struct {
	Leg       string   `json:"leg"`
	CaseSizes []string `json:"caseSizes"`
}

type browseResponse struct {
	Settings []ports.SettingSummary `json:"settings"`
	Count    int                    `json:"count"`
}

// CaseSizes handles GET /v1/search/case-sizes?leg=.
//
// @Summary      Distinct case sizes for a leg number
// @Tags         search
// @Produce      json
// @Param        leg  query     string  true  "Leg number"
// @Success      200  {object}  caseSizesResponse
// @Failure      400  {object}  map[string]string
// @Router       /v1/search/case-sizes [get]
func (h *SearchHandler) CaseSizes(c echo.Context) error {
	leg := c.QueryParam("leg")
	if leg == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "leg is required")
	}

	return c.JSON(http.StatusOK, caseSizesResponse{
		Leg:       leg,
		CaseSizes: h.store.CaseSizesForLeg(leg),
	})
}

// Browse handles GET /v1/search/settings?leg=&case_size=&sku=&sort=.
// A non-empty sku takes precedence over the case-size filter, matching the
// search-box behavior where typing a SKU abandons the drill-down.
//
// @Summary      Browse settings
// @Tags         search
// @Produce      json
// @Param        leg        query     string  false  "Leg number filter"
// @Param        case_size  query     string  false  "Case size filter"
// @Param        sku        query     string  false  "SKU substring, overrides case_size"
// @Param        sort       query     string  false  "Sort order: sku, updated, last_worked"
// @Success      200        {object}  browseResponse
// @Router       /v1/search/settings [get]
func (h *SearchHandler) Browse(c echo.Context) error {
	leg := c.QueryParam("leg")
	caseSize := c.QueryParam("case_size")
	sku := c.QueryParam("sku")
	sort := ports.SettingSort(c.QueryParam("sort"))

	switch sort {
	case "", ports.SortBySKU, ports.SortByUpdated, ports.SortByLastWorked:
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "sort must be one of: sku, updated, last_worked")
	}

	results := h.store.BrowseSettings(leg, caseSize, sku, sort)
	return c.JSON(http.StatusOK, browseResponse{Settings: results, Count: len(results)})
}

// Detail handles GET /v1/settings/:id.
//
// @Summary      Category-tabbed setting detail
// @Tags         search
// @Produce      json
// @Param        id   path      string  true  "Setting id"
// @Success      200  {object}  ports.SettingDetail
// @Failure      404  {object}  map[string]string
// @Router       /v1/settings/{id} [get]
func (h *SearchHandler) Detail(c echo.Context) error {
	detail, err := h.store.SettingDetail(c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, detail)
}
