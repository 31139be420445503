package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/blueprintmfg/settings-portal/internal/core/ports"
)

// StructureHandler manages the dynamic schema: field definitions and the
// categories that group them.
type StructureHandler struct {
	store ports.StateStore
}

func NewStructureHandler(store ports.StateStore) *StructureHandler {
	return &StructureHandler{store: store}
}

// ListFields handles GET /v1/admin/fields.
//
// @Summary      List field definitions
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.Field
// @Router       /v1/admin/fields [get]
func (h *StructureHandler) ListFields(c echo.Context) error {
	return c.JSON(http.StatusOK, h.store.Fields())
}

// CreateField handles POST /v1/admin/fields.
//
// @Summary      Create a field definition
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      fieldRequest  true  "Field definition"
// @Success      201   {object}  domain.Field
// @Failure      400   {object}  map[string]string
// @Router       /v1/admin/fields [post]
func (h *StructureHandler) CreateField(c echo.Context) error {
	var req fieldRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	field, err := h.store.AddField(c.Request().Context(), ports.FieldInput{
		Name:       req.Name,
		Key:        req.Key,
		Type:       req.Type,
		CategoryID: req.CategoryID,
	})
	if err != nil {
		return mutationError(c, err)
	}
	return c.JSON(http.StatusCreated, field)
}

// UpdateField handles PUT /v1/admin/fields/:id. Absent attributes are left
// untouched.
//
// @Summary      Update a field definition
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string              true  "Field id"
// @Param        body  body      fieldUpdateRequest  true  "Partial update"
// @Success      200   {object}  mutationResult
// @Failure      404   {object}  mutationResult
// @Router       /v1/admin/fields/{id} [put]
func (h *StructureHandler) UpdateField(c echo.Context) error {
	var req fieldUpdateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	err := h.store.UpdateField(c.Request().Context(), c.Param("id"), ports.FieldUpdates{
		Name:       req.Name,
		Key:        req.Key,
		Type:       req.Type,
		CategoryID: req.CategoryID,
	})
	if err != nil {
		return mutationError(c, err)
	}
	return mutationOK(c, "field updated")
}

// DeleteField handles DELETE /v1/admin/fields/:id. Settings keep any data
// stored under the field's key; orphaned keys are tolerated.
//
// @Summary      Delete a field definition
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Field id"
// @Success      200  {object}  mutationResult
// @Failure      404  {object}  mutationResult
// @Router       /v1/admin/fields/{id} [delete]
func (h *StructureHandler) DeleteField(c echo.Context) error {
	if err := h.store.RemoveField(c.Request().Context(), c.Param("id")); err != nil {
		return mutationError(c, err)
	}
	return mutationOK(c, "field deleted")
}

// ListCategories handles GET /v1/admin/categories.
//
// @Summary      List categories
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.Category
// @Router       /v1/admin/categories [get]
func (h *StructureHandler) ListCategories(c echo.Context) error {
	return c.JSON(http.StatusOK, h.store.Categories())
}

// CreateCategory handles POST /v1/admin/categories.
//
// @Summary      Create a category
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      categoryRequest  true  "Category"
// @Success      201   {object}  domain.Category
// @Failure      400   {object}  map[string]string
// @Router       /v1/admin/categories [post]
func (h *StructureHandler) CreateCategory(c echo.Context) error {
	var req categoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	category, err := h.store.AddCategory(c.Request().Context(), req.Name)
	if err != nil {
		return mutationError(c, err)
	}
	return c.JSON(http.StatusCreated, category)
}

// UpdateCategory handles PUT /v1/admin/categories/:id.
//
// @Summary      Rename a category
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string           true  "Category id"
// @Param        body  body      categoryRequest  true  "New name"
// @Success      200   {object}  mutationResult
// @Failure      404   {object}  mutationResult
// @Router       /v1/admin/categories/{id} [put]
func (h *StructureHandler) UpdateCategory(c echo.Context) error {
	var req categoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.store.UpdateCategory(c.Request().Context(), c.Param("id"), req.Name); err != nil {
		return mutationError(c, err)
	}
	return mutationOK(c, "category updated")
}

// DeleteCategory handles DELETE /v1/admin/categories/:id. Rejected with 409
// while any field still references the category; no remote call is made in
// that case.
//
// @Summary      Delete a category
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Category id"
// @Success      200  {object}  mutationResult
// @Failure      404  {object}  mutationResult
// @Failure      409  {object}  mutationResult
// @Router       /v1/admin/categories/{id} [delete]
func (h *StructureHandler) DeleteCategory(c echo.Context) error {
	if err := h.store.DeleteCategory(c.Request().Context(), c.Param("id")); err != nil {
		return mutationError(c, err)
	}
	return mutationOK(c, "category deleted")
}
