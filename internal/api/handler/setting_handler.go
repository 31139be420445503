package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/blueprintmfg/settings-portal/internal/core/ports"
)

// SettingHandler exposes the admin CRUD over settings. Payloads are flat
// attribute maps; fixed columns and dynamic keys travel together and the
// store splits them at the boundary.
type SettingHandler struct {
	store ports.StateStore
}

func NewSettingHandler(store ports.StateStore) *SettingHandler {
	return &SettingHandler{store: store}
}

// List handles GET /v1/admin/settings.
//
// @Summary      List all settings
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.Setting
// @Router       /v1/admin/settings [get]
func (h *SettingHandler) List(c echo.Context) error {
	return c.JSON(http.StatusOK, h.store.Settings())
}

// Create handles POST /v1/admin/settings.
//
// @Summary      Create a setting
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      object  true  "Flat attribute map"
// @Success      201   {object}  domain.Setting
// @Failure      400   {object}  mutationResult
// @Router       /v1/admin/settings [post]
func (h *SettingHandler) Create(c echo.Context) error {
	var req settingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if len(req) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "attributes are required")
	}

	setting, err := h.store.AddSetting(c.Request().Context(), req)
	if err != nil {
		return mutationError(c, err)
	}
	return c.JSON(http.StatusCreated, setting)
}

// Update handles PUT /v1/admin/settings/:id.
//
// @Summary      Update a setting
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string  true  "Setting id"
// @Param        body  body      object  true  "Flat attribute map"
// @Success      200   {object}  domain.Setting
// @Failure      404   {object}  mutationResult
// @Router       /v1/admin/settings/{id} [put]
func (h *SettingHandler) Update(c echo.Context) error {
	var req settingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if len(req) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "attributes are required")
	}

	setting, err := h.store.UpdateSetting(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		return mutationError(c, err)
	}
	return c.JSON(http.StatusOK, setting)
}

// Delete handles DELETE /v1/admin/settings/:id.
//
// @Summary      Delete a setting
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Setting id"
// @Success      200  {object}  mutationResult
// @Failure      404  {object}  mutationResult
// @Router       /v1/admin/settings/{id} [delete]
func (h *SettingHandler) Delete(c echo.Context) error {
	if err := h.store.DeleteSetting(c.Request().Context(), c.Param("id")); err != nil {
		return mutationError(c, err)
	}
	return mutationOK(c, "setting deleted")
}
