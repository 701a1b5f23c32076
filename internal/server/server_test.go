package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pable/go-fab-history/internal/aggregator"
	"github.com/pable/go-fab-history/internal/logger"
	"github.com/pable/go-fab-history/internal/model"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	recs := []model.MatchRecord{
		{Row: 1, PlayerA: "A", PlayerB: "B", Round: "1", Result: model.ResultPlayerAWin, Rated: true},
		{Row: 2, PlayerA: "A", PlayerB: "C", Round: "1", Result: model.ResultPlayerBWin, Rated: false},
		{Row: 3, PlayerA: "C", PlayerB: "A", Round: "2", Result: model.ResultPlayerBWin, Rated: true},
	}
	ds, err := aggregator.Load(recs, model.Diagnostics{Rows: 3})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return New(ds, logger.Nop()).Handler()
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

func TestSubject(t *testing.T) {
	rec := get(t, newTestServer(t), "/api/subject")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body struct {
		Subject string `json:"subject"`
	}
	decode(t, rec, &body)
	if body.Subject != "A" {
		t.Errorf("subject = %q, want A", body.Subject)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID header")
	}
}

func TestGlobal_RatedFilter(t *testing.T) {
	rec := get(t, newTestServer(t), "/api/global?rating=rated")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var g model.GlobalStats
	decode(t, rec, &g)
	if g.TotalMatches != 2 || g.WinCount != 2 {
		t.Errorf("global = %+v, want 2 rated matches, 2 wins", g)
	}
	if !g.TotalWinRate.Valid || g.TotalWinRate.Value != 1 {
		t.Errorf("total win rate = %+v, want 1", g.TotalWinRate)
	}
}

func TestOpponents_Sorted(t *testing.T) {
	rec := get(t, newTestServer(t), "/api/opponents?sort=winrate&dir=asc")
	var body struct {
		Results []model.OpponentStats `json:"results"`
	}
	decode(t, rec, &body)
	if len(body.Results) != 2 || body.Results[0].Opponent != "C" {
		t.Errorf("results = %+v, want C first", body.Results)
	}
}

func TestSearch_NoResults(t *testing.T) {
	rec := get(t, newTestServer(t), "/api/search?q=zzz")
	var body struct {
		Results   []model.OpponentStats `json:"results"`
		NoResults bool                  `json:"no_results"`
	}
	decode(t, rec, &body)
	if !body.NoResults || len(body.Results) != 0 {
		t.Errorf("body = %+v, want explicit no results", body)
	}
}

func TestSearch_CombinesWithOpponentFilter(t *testing.T) {
	h := newTestServer(t)
	var body struct {
		Results   []model.OpponentStats `json:"results"`
		NoResults bool                  `json:"no_results"`
	}
	decode(t, get(t, h, "/api/search?opponent=b&q=c"), &body)
	if !body.NoResults {
		t.Errorf("opponent=b&q=c = %+v, want no results", body.Results)
	}

	decode(t, get(t, h, "/api/search?opponent=c&q=C"), &body)
	if len(body.Results) != 1 || body.Results[0].Opponent != "C" {
		t.Errorf("opponent=c&q=C = %+v, want [C]", body.Results)
	}
}

func TestTop(t *testing.T) {
	rec := get(t, newTestServer(t), "/api/top?n=1")
	var body struct {
		Results []model.OpponentStats `json:"results"`
	}
	decode(t, rec, &body)
	if len(body.Results) != 1 || body.Results[0].Opponent != "C" {
		t.Errorf("top = %+v, want [C]", body.Results)
	}
}

func TestBadParams(t *testing.T) {
	h := newTestServer(t)
	for _, target := range []string{
		"/api/global?rating=sometimes",
		"/api/opponents?sort=elo",
		"/api/opponents?dir=sideways",
		"/api/top?n=-1",
		"/api/top?n=abc",
	} {
		rec := get(t, h, target)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", target, rec.Code)
			continue
		}
		var body map[string]string
		decode(t, rec, &body)
		if body["error"] == "" {
			t.Errorf("%s: missing error message", target)
		}
	}
}

func TestSummary(t *testing.T) {
	rec := get(t, newTestServer(t), "/api/summary")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Subject string             `json:"subject"`
		Rounds  []model.RoundStats `json:"rounds"`
	}
	decode(t, rec, &body)
	if body.Subject != "A" || len(body.Rounds) != 2 {
		t.Errorf("summary = %+v", body)
	}
}

func TestRequestIDPassthrough(t *testing.T) {
	h := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get("X-Request-ID"); got != "abc-123" {
		t.Errorf("X-Request-ID = %q, want abc-123", got)
	}
}
