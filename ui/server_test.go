package ui_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"qcsim/app"
	"qcsim/internal"
	"qcsim/internal/config"
	"qcsim/internal/testkit"
	"qcsim/ui"
)

func newTestServer(t *testing.T) (*httptest.Server, *testkit.Kit) {
	t.Helper()
	kit := testkit.NewKit()
	defaults := config.SimulationConfig{
		RingSize:        8,
		Steps:           16,
		Probability:     0.5,
		ControlSeed:     11,
		MeasurementSeed: 22,
		EnsembleRuns:    3,
		Parallelism:     2,
	}
	srv := ui.NewServer(kit.Sims, kit.Ensembles, kit.Ledger, defaults, internal.NewLogger(internal.LogLevelError))
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts, kit
}

func postJSON(t *testing.T, url string, body interface{}) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestCreateRunAndFetch(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := postJSON(t, ts.URL+"/runs", map[string]interface{}{
		"ring_size": 6,
		"steps":     10,
		"seeds":     map[string]int64{"control": 5, "measurement": 6},
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("POST /runs status = %d", resp.StatusCode)
	}
	var result app.RunResult
	decodeBody(t, resp, &result)

	if result.Manifest == nil {
		t.Fatal("no manifest in response")
	}
	if result.Manifest.RingSize != 6 || result.Manifest.Steps != 10 {
		t.Errorf("manifest does not echo parameters: %+v", result.Manifest)
	}
	if len(result.Trajectory) != 10 {
		t.Fatalf("got %d trajectory points, want 10", len(result.Trajectory))
	}

	runID := result.Manifest.RunID.String()

	resp, err := http.Get(ts.URL + "/runs/" + runID)
	if err != nil {
		t.Fatalf("GET manifest: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET manifest status = %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp, err = http.Get(ts.URL + "/runs/" + runID + "/trajectory")
	if err != nil {
		t.Fatalf("GET trajectory: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET trajectory status = %d", resp.StatusCode)
	}
	var traj struct {
		RunID      string        `json:"run_id"`
		Trajectory []interface{} `json:"trajectory"`
	}
	decodeBody(t, resp, &traj)
	if traj.RunID != runID {
		t.Errorf("trajectory run_id = %s, want %s", traj.RunID, runID)
	}
	if len(traj.Trajectory) != 10 {
		t.Errorf("got %d stored points, want 10", len(traj.Trajectory))
	}
}

func TestCreateRunUsesDefaults(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := postJSON(t, ts.URL+"/runs", map[string]interface{}{})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("POST /runs status = %d", resp.StatusCode)
	}
	var result app.RunResult
	decodeBody(t, resp, &result)

	if result.Manifest.RingSize != 8 || result.Manifest.Steps != 16 {
		t.Errorf("defaults not applied: %+v", result.Manifest)
	}
	if result.Manifest.Seeds["control"] != 11 || result.Manifest.Seeds["measurement"] != 22 {
		t.Errorf("default seeds not applied: %v", result.Manifest.Seeds)
	}
}

func TestRunNotFound(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/runs/no-such-run")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("missing run status = %d, want 404", resp.StatusCode)
	}
}

func TestCreateRunBadRequest(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Post(ts.URL+"/runs", "application/json", strings.NewReader("{not json"))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("malformed body status = %d, want 400", resp.StatusCode)
	}

	resp = postJSON(t, ts.URL+"/runs", map[string]interface{}{"ring_size": -3})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("negative ring size status = %d, want 400", resp.StatusCode)
	}
}

func TestListRuns(t *testing.T) {
	ts, _ := newTestServer(t)

	for i := 0; i < 2; i++ {
		resp := postJSON(t, ts.URL+"/runs", map[string]interface{}{"steps": 4})
		resp.Body.Close()
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("POST /runs status = %d", resp.StatusCode)
		}
	}

	resp, err := http.Get(ts.URL + "/runs")
	if err != nil {
		t.Fatalf("GET /runs: %v", err)
	}
	var listing struct {
		Runs []string `json:"runs"`
	}
	decodeBody(t, resp, &listing)
	if len(listing.Runs) != 2 {
		t.Errorf("listed %d runs, want 2", len(listing.Runs))
	}
}

func TestReportRendersHTML(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := postJSON(t, ts.URL+"/runs", map[string]interface{}{"steps": 4})
	var result app.RunResult
	decodeBody(t, resp, &result)

	resp, err := http.Get(ts.URL + "/runs/" + result.Manifest.RunID.String() + "/report")
	if err != nil {
		t.Fatalf("GET report: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET report status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("report content type = %s", ct)
	}
	var body bytes.Buffer
	if _, err := body.ReadFrom(resp.Body); err != nil {
		t.Fatalf("read report: %v", err)
	}
	html := body.String()
	if !strings.Contains(html, result.Manifest.RunID.String()) {
		t.Error("report does not mention the run")
	}
	if !strings.Contains(html, "<table>") {
		t.Error("report has no rendered table")
	}
}

func TestCreateEnsemble(t *testing.T) {
	ts, kit := newTestServer(t)

	resp := postJSON(t, ts.URL+"/ensembles", map[string]interface{}{
		"runs":  3,
		"steps": 8,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("POST /ensembles status = %d", resp.StatusCode)
	}
	var result app.EnsembleResult
	decodeBody(t, resp, &result)

	if len(result.RunIDs) != 3 {
		t.Fatalf("got %d member runs, want 3", len(result.RunIDs))
	}
	if result.Summary.Samples != 3 {
		t.Errorf("summary samples = %d, want 3", result.Summary.Samples)
	}
	for _, id := range result.RunIDs {
		if _, err := kit.Ledger.Manifest(context.Background(), id); err != nil {
			t.Errorf("member %s has no stored manifest: %v", id, err)
		}
	}
}
