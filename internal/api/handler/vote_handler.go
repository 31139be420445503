package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/blueprintmfg/settings-portal/internal/core/ports"
)

// VoteHandler records "mark as working" confirmations.
type VoteHandler struct {
	store ports.StateStore
}

func NewVoteHandler(store ports.StateStore) *VoteHandler {
	return &VoteHandler{store: store}
}

// Create handles POST /v1/votes. Rejected with 409 while the caller's
// previous vote for the same setting is inside the cooldown window.
//
// @Summary      Mark a setting as working
// @Tags         votes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      voteRequest  true  "Vote"
// @Success      201   {object}  domain.Vote
// @Failure      401   {object}  mutationResult
// @Failure      409   {object}  mutationResult
// @Router       /v1/votes [post]
func (h *VoteHandler) Create(c echo.Context) error {
	var req voteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	vote, err := h.store.AddVote(c.Request().Context(), req.SettingID)
	if err != nil {
		return mutationError(c, err)
	}
	return c.JSON(http.StatusCreated, vote)
}

// List handles GET /v1/admin/votes.
//
// @Summary      List votes
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.Vote
// @Router       /v1/admin/votes [get]
func (h *VoteHandler) List(c echo.Context) error {
	return c.JSON(http.StatusOK, h.store.Votes())
}
