package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/blueprintmfg/settings-portal/internal/core/ports"
)

// FeedbackHandler accepts public submissions and exposes moderation to
// admins.
type FeedbackHandler struct {
	store ports.StateStore
}

func NewFeedbackHandler(store ports.StateStore) *FeedbackHandler {
	return &FeedbackHandler{store: store}
}

// Submit handles POST /v1/feedback. No authentication required; anyone may
// report an issue or request a change.
//
// @Summary      Submit feedback
// @Tags         feedback
// @Accept       json
// @Produce      json
// @Param        body  body      feedbackRequest  true  "Submission"
// @Success      201   {object}  mutationResult
// @Failure      400   {object}  map[string]string
// @Router       /v1/feedback [post]
func (h *FeedbackHandler) Submit(c echo.Context) error {
	var req feedbackRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	err := h.store.AddFeedback(c.Request().Context(), ports.FeedbackInput{
		Type:      req.Type,
		Name:      req.Name,
		Message:   req.Message,
		SKU:       req.SKU,
		LegNumber: req.LegNumber,
	})
	if err != nil {
		return mutationError(c, err)
	}
	return c.JSON(http.StatusCreated, mutationResult{Success: true, Message: "feedback received"})
}

// List handles GET /v1/admin/feedback.
//
// @Summary      List feedback
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.Feedback
// @Router       /v1/admin/feedback [get]
func (h *FeedbackHandler) List(c echo.Context) error {
	return c.JSON(http.StatusOK, h.store.Feedback())
}

// Resolve handles POST /v1/admin/feedback/:id/resolve.
//
// @Summary      Mark feedback resolved
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Feedback id"
// @Success      200  {object}  mutationResult
// @Failure      404  {object}  mutationResult
// @Router       /v1/admin/feedback/{id}/resolve [post]
func (h *FeedbackHandler) Resolve(c echo.Context) error {
	if err := h.store.ResolveFeedback(c.Request().Context(), c.Param("id")); err != nil {
		return mutationError(c, err)
	}
	return mutationOK(c, "feedback resolved")
}

// Delete handles DELETE /v1/admin/feedback/:id.
//
// @Summary      Delete feedback
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Feedback id"
// @Success      200  {object}  mutationResult
// @Failure      404  {object}  mutationResult
// @Router       /v1/admin/feedback/{id} [delete]
func (h *FeedbackHandler) Delete(c echo.Context) error {
	if err := h.store.DeleteFeedback(c.Request().Context(), c.Param("id")); err != nil {
		return mutationError(c, err)
	}
	return mutationOK(c, "feedback deleted")
}
