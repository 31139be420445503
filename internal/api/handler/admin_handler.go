package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/blueprintmfg/settings-portal/internal/core/domain"
	"github.com/blueprintmfg/settings-portal/internal/core/ports"
)

const defaultHistoryLimit = 100

// AdminHandler covers the admin-only surface: user moderation, the audit
// log, runtime configuration, and system maintenance.
type AdminHandler struct {
	store ports.StateStore
	cache ports.SessionCache
}

func NewAdminHandler(store ports.StateStore, cache ports.SessionCache) *AdminHandler {
	return &AdminHandler{store: store, cache: cache}
}

// ListUsers handles GET /v1/admin/users. Profiles come back newest first so
// fresh registrations awaiting approval surface at the top.
//
// @Summary      List user profiles
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.Profile
// @Router       /v1/admin/users [get]
func (h *AdminHandler) ListUsers(c echo.Context) error {
	profiles, err := h.store.Profiles(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profiles)
}

// UpdateUserStatus handles PUT /v1/admin/users/:id/status.
//
// @Summary      Approve or reject a user
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Profile id"
// @Param        body  body      profileStatusRequest  true  "New status"
// @Success      200   {object}  mutationResult
// @Failure      404   {object}  mutationResult
// @Router       /v1/admin/users/{id}/status [put]
func (h *AdminHandler) UpdateUserStatus(c echo.Context) error {
	var req profileStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	err := h.store.UpdateProfileStatus(c.Request().Context(), c.Param("id"), domain.ProfileStatus(req.Status))
	if err != nil {
		return mutationError(c, err)
	}
	return mutationOK(c, "status updated")
}

// ListHistory handles GET /v1/admin/history?limit=.
//
// @Summary      List audit log entries, newest first
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query    int  false  "Max entries (default 100)"
// @Success      200    {array}  domain.HistoryEntry
// @Router       /v1/admin/history [get]
func (h *AdminHandler) ListHistory(c echo.Context) error {
	limit := int64(defaultHistoryLimit)
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be a positive integer")
		}
		limit = n
	}

	entries, err := h.store.History(c.Request().Context(), limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, entries)
}

// DeleteHistory handles DELETE /v1/admin/history/:id.
//
// @Summary      Delete an audit log entry
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Entry id"
// @Success      200  {object}  mutationResult
// @Failure      404  {object}  mutationResult
// @Router       /v1/admin/history/{id} [delete]
func (h *AdminHandler) DeleteHistory(c echo.Context) error {
	if err := h.store.DeleteHistory(c.Request().Context(), c.Param("id")); err != nil {
		return mutationError(c, err)
	}
	return mutationOK(c, "history entry deleted")
}

// GetConfig handles GET /v1/admin/config.
//
// @Summary      Application configuration
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]string
// @Router       /v1/admin/config [get]
func (h *AdminHandler) GetConfig(c echo.Context) error {
	return c.JSON(http.StatusOK, h.store.AppConfig())
}

// UpdateConfig handles PUT /v1/admin/config.
//
// @Summary      Upsert a configuration entry
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      configRequest  true  "Key/value pair"
// @Success      200   {object}  mutationResult
// @Router       /v1/admin/config [put]
func (h *AdminHandler) UpdateConfig(c echo.Context) error {
	var req configRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.store.UpdateAppConfig(c.Request().Context(), req.Key, req.Value); err != nil {
		return mutationError(c, err)
	}
	return mutationOK(c, "configuration updated")
}

// Status handles GET /v1/admin/status: the banner state surfaced when a
// critical bulk load failed.
//
// @Summary      System status
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  systemStatusResponse
// @Router       /v1/admin/status [get]
func (h *AdminHandler) Status(c echo.Context) error {
	resp := systemStatusResponse{
		LoadError: h.store.LoadError(),
		CheckedAt: time.Now().UTC(),
	}
	if u := h.store.User(); u != nil {
		resp.User = u.Email
	}
	return c.JSON(http.StatusOK, resp)
}

// Refresh handles POST /v1/admin/refresh: re-run the bulk load. Concurrent
// triggers are deduplicated by the store's in-flight guard.
//
// @Summary      Reload all data
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  mutationResult
// @Router       /v1/admin/refresh [post]
func (h *AdminHandler) Refresh(c echo.Context) error {
	if err := h.store.RefreshData(c.Request().Context()); err != nil {
		return mutationError(c, err)
	}
	return mutationOK(c, "data refreshed")
}

// Repair handles POST /v1/admin/repair: the recovery hatch for corrupt
// local state. Purges both cache tiers, clears the load-error banner, and
// reloads everything.
//
// @Summary      Purge caches and reload
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  mutationResult
// @Router       /v1/admin/repair [post]
func (h *AdminHandler) Repair(c echo.Context) error {
	ctx := c.Request().Context()
	if err := h.cache.PurgeAll(ctx); err != nil {
		return mutationError(c, err)
	}
	h.store.ClearLoadError()
	if err := h.store.RefreshData(ctx); err != nil {
		return mutationError(c, err)
	}
	return mutationOK(c, "caches purged and data reloaded")
}
