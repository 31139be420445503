package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/blueprintmfg/settings-portal/internal/core/domain"
	"github.com/blueprintmfg/settings-portal/internal/core/ports"
)

// fakeStore implements only the StateStore methods the handler under test
// touches; the embedded nil interface panics loudly on anything else.
type fakeStore struct {
	ports.StateStore

	caseSizes []string
	summaries []ports.SettingSummary
	detail    *ports.SettingDetail
	detailErr error

	vote    domain.Vote
	voteErr error
}

func (s *fakeStore) CaseSizesForLeg(string) []string {
	return s.caseSizes
}

func (s *fakeStore) BrowseSettings(_, _, _ string, _ ports.SettingSort) []ports.SettingSummary {
	return s.summaries
}

func (s *fakeStore) SettingDetail(string) (*ports.SettingDetail, error) {
	if s.detailErr != nil {
		return nil, s.detailErr
	}
	return s.detail, nil
}

func (s *fakeStore) AddVote(context.Context, string) (domain.Vote, error) {
	if s.voteErr != nil {
		return domain.Vote{}, s.voteErr
	}
	return s.vote, nil
}

func newSearchContext(t *testing.T, target string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestSearchHandler_CaseSizes(t *testing.T) {
	h := NewSearchHandler(&fakeStore{caseSizes: []string{"Large", "Small"}})
	c, rec := newSearchContext(t, "/v1/search/case-sizes?leg=7")

	if err := h.CaseSizes(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp caseSizesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Leg != "7" || len(resp.CaseSizes) != 2 {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestSearchHandler_CaseSizes_MissingLeg(t *testing.T) {
	h := NewSearchHandler(&fakeStore{})
	c, _ := newSearchContext(t, "/v1/search/case-sizes")

	err := h.CaseSizes(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestSearchHandler_Browse_RejectsUnknownSort(t *testing.T) {
	h := NewSearchHandler(&fakeStore{})
	c, _ := newSearchContext(t, "/v1/search/settings?sort=oldest")

	err := h.Browse(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestSearchHandler_Detail_NotFound(t *testing.T) {
	h := NewSearchHandler(&fakeStore{detailErr: domain.ErrSettingNotFound})
	c, _ := newSearchContext(t, "/v1/settings/missing")
	c.SetParamNames("id")
	c.SetParamValues("missing")

	if err := h.Detail(c); err != domain.ErrSettingNotFound {
		t.Fatalf("expected domain error to propagate, got %v", err)
	}
}
