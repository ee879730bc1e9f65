package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	sgerrors "github.com/matzehuels/sociogram/pkg/errors"
	"github.com/matzehuels/sociogram/pkg/observability"
	"github.com/matzehuels/sociogram/pkg/preferences"
)

const mentorToken = "let-me-in"

const classReport = "Popular students (most chosen):\n" +
	"- C: chosen 2 times\n" +
	"- B: chosen 1 times\n" +
	"- A: chosen 0 times\n" +
	"- D: chosen 0 times\n" +
	"\n" +
	"Isolated students (no connections):\n" +
	"- D\n" +
	"\n" +
	"Clusters in the class:\n" +
	"- Cluster 1: A, B, C\n" +
	"- Cluster 2: D"

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	s := New(nil, nil, TokenAuthenticator{Token: mentorToken}, log.New(io.Discard))
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

func do(t *testing.T, ts *httptest.Server, method, path, contentType, body string, mentor bool) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, ts.URL+path, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if mentor {
		req.Header.Set("Authorization", "Bearer "+mentorToken)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}

func submitClass(t *testing.T, ts *httptest.Server) {
	t.Helper()
	bodies := []string{
		`{"participant": "A", "preferences": "B, C"}`,
		`{"participant": "B", "peers": ["C"]}`,
		`{"participant": "D", "preferences": ""}`,
	}
	for _, b := range bodies {
		resp := do(t, ts, http.MethodPost, "/api/submissions", "application/json", b, false)
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("submit %s: status %d: %s", b, resp.StatusCode, readBody(t, resp))
		}
	}
}

func TestReportRequiresMentor(t *testing.T) {
	_, ts := newTestServer(t)
	submitClass(t, ts)

	resp := do(t, ts, http.MethodGet, "/api/report", "", "", false)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
	if resp.Header.Get("WWW-Authenticate") == "" {
		t.Error("401 should carry WWW-Authenticate")
	}
	var body errorBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Error.Code != "UNAUTHORIZED" {
		t.Errorf("code = %q, want UNAUTHORIZED", body.Error.Code)
	}

	resp = do(t, ts, http.MethodGet, "/api/report", "", "", true)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("Content-Type = %q", ct)
	}
	if got := readBody(t, resp); got != classReport {
		t.Errorf("report =\n%s\nwant\n%s", got, classReport)
	}
	if cd := resp.Header.Get("Content-Disposition"); cd != "" {
		t.Errorf("plain report should not be an attachment, got %q", cd)
	}
}

func TestReportDownload(t *testing.T) {
	_, ts := newTestServer(t)
	submitClass(t, ts)

	resp := do(t, ts, http.MethodGet, "/api/report?download=1&top=1", "", "", true)
	want := `attachment; filename="sociogram_report.txt"`
	if cd := resp.Header.Get("Content-Disposition"); cd != want {
		t.Errorf("Content-Disposition = %q, want %q", cd, want)
	}
	if got := readBody(t, resp); strings.Count(got, "chosen ") != 1 {
		t.Errorf("top=1 report:\n%s", got)
	}
}

func TestReportBadTop(t *testing.T) {
	_, ts := newTestServer(t)
	resp := do(t, ts, http.MethodGet, "/api/report?top=many", "", "", true)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestMentorCredentialForms(t *testing.T) {
	_, ts := newTestServer(t)

	tests := []struct {
		name  string
		setup func(r *http.Request)
		want  int
	}{
		{"bearer", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+mentorToken) }, http.StatusOK},
		{"bearer lowercase scheme", func(r *http.Request) { r.Header.Set("Authorization", "bearer "+mentorToken) }, http.StatusOK},
		{"header", func(r *http.Request) { r.Header.Set(MentorTokenHeader, mentorToken) }, http.StatusOK},
		{"query", func(r *http.Request) { r.URL.RawQuery = "token=" + mentorToken }, http.StatusOK},
		{"wrong", func(r *http.Request) { r.Header.Set("Authorization", "Bearer nope") }, http.StatusUnauthorized},
		{"basic scheme", func(r *http.Request) { r.Header.Set("Authorization", "Basic "+mentorToken) }, http.StatusUnauthorized},
		{"none", func(*http.Request) {}, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest(http.MethodGet, ts.URL+"/api/submissions", nil)
			tt.setup(req)
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				t.Fatal(err)
			}
			resp.Body.Close()
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}
}

func TestEmptyTokenDeniesAll(t *testing.T) {
	a := TokenAuthenticator{}
	req := httptest.NewRequest(http.MethodGet, "/api/report", nil)
	req.Header.Set("Authorization", "Bearer ")
	if a.Authenticate(req) {
		t.Error("an empty configured token must deny every request")
	}
}

func TestSubmitForm(t *testing.T) {
	s, ts := newTestServer(t)
	form := url.Values{"participant": {" Ann "}, "preferences": {" Bob, ,Cy ,"}}
	resp := do(t, ts, http.MethodPost, "/api/submissions", "application/x-www-form-urlencoded", form.Encode(), false)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d: %s", resp.StatusCode, readBody(t, resp))
	}

	var entry preferences.Entry
	if err := json.NewDecoder(resp.Body).Decode(&entry); err != nil {
		t.Fatal(err)
	}
	if entry.Participant != "Ann" || strings.Join(entry.Peers, "|") != "Bob|Cy" {
		t.Errorf("entry = %+v", entry)
	}
	if s.Store.Len() != 1 {
		t.Errorf("store has %d submissions, want 1", s.Store.Len())
	}
}

func TestSubmitReplaces(t *testing.T) {
	s, ts := newTestServer(t)
	do(t, ts, http.MethodPost, "/api/submissions", "application/json", `{"participant":"A","preferences":["B"]}`, false)
	do(t, ts, http.MethodPost, "/api/submissions", "application/json", `{"participant":"C","preferences":["A"]}`, false)
	do(t, ts, http.MethodPost, "/api/submissions", "application/json", `{"participant":"A","preferences":["C"]}`, false)

	snap := s.Store.Snapshot()
	if got := strings.Join(snap.Participants(), ","); got != "A,C" {
		t.Errorf("participants = %s, resubmission should keep position", got)
	}
	if peers, _ := snap.Get("A"); strings.Join(peers, ",") != "C" {
		t.Errorf("A's peers = %v, want [C]", peers)
	}
}

func TestSubmitErrors(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
		status      int
		code        string
	}{
		{"bad json", "application/json", `{"participant":`, http.StatusBadRequest, "INVALID_INPUT"},
		{"unknown field", "application/json", `{"participant":"A","friends":["B"]}`, http.StatusBadRequest, "INVALID_INPUT"},
		{"empty participant", "application/json", `{"participant":"  ","preferences":"B"}`, http.StatusBadRequest, "INVALID_PARTICIPANT"},
		{"both fields", "application/json", `{"participant":"A","preferences":"B","peers":["C"]}`, http.StatusBadRequest, "INVALID_INPUT"},
		{"numeric preferences", "application/json", `{"participant":"A","preferences":3}`, http.StatusBadRequest, "INVALID_INPUT"},
		{"control char peer", "application/json", `{"participant":"A","peers":["B\u0007"]}`, http.StatusBadRequest, "INVALID_INPUT"},
		{"plain text", "text/plain", "A: B", http.StatusUnsupportedMediaType, "UNSUPPORTED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, ts := newTestServer(t)
			resp := do(t, ts, http.MethodPost, "/api/submissions", tt.contentType, tt.body, false)
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			var body errorBody
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				t.Fatal(err)
			}
			if body.Error.Code != tt.code {
				t.Errorf("code = %q, want %q (%s)", body.Error.Code, tt.code, body.Error.Message)
			}
			if s.Store.Len() != 0 {
				t.Error("a rejected submission must not be stored")
			}
		})
	}
}

func TestListSubmissions(t *testing.T) {
	_, ts := newTestServer(t)

	resp := do(t, ts, http.MethodGet, "/api/submissions", "", "", true)
	if got := strings.TrimSpace(readBody(t, resp)); got != `{"count":0,"submissions":[]}` {
		t.Errorf("empty list = %s", got)
	}

	submitClass(t, ts)
	resp = do(t, ts, http.MethodGet, "/api/submissions", "", "", true)
	var list submissionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		t.Fatal(err)
	}
	if list.Count != 3 || list.Submissions[0].Participant != "A" || list.Submissions[2].Participant != "D" {
		t.Errorf("list = %+v", list)
	}
}

func TestAnalysis(t *testing.T) {
	_, ts := newTestServer(t)
	submitClass(t, ts)

	resp := do(t, ts, http.MethodGet, "/api/analysis", "", "", true)
	if resp.Header.Get("Content-Type") != "application/json" {
		t.Errorf("Content-Type = %q", resp.Header.Get("Content-Type"))
	}
	var res struct {
		Popular []struct {
			Node     string `json:"node"`
			InDegree int    `json:"in_degree"`
		} `json:"popular"`
		Isolated []string   `json:"isolated"`
		Clusters [][]string `json:"clusters"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		t.Fatal(err)
	}
	if res.Popular[0].Node != "C" || res.Popular[0].InDegree != 2 {
		t.Errorf("popular = %+v", res.Popular)
	}
	if len(res.Isolated) != 1 || res.Isolated[0] != "D" || len(res.Clusters) != 2 {
		t.Errorf("analysis = %+v", res)
	}
}

func TestSociogramDOT(t *testing.T) {
	_, ts := newTestServer(t)
	submitClass(t, ts)

	resp := do(t, ts, http.MethodGet, "/api/sociogram.dot?engine=neato&counts=true&title=7b", "", "", true)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	got := readBody(t, resp)
	for _, want := range []string{"digraph sociogram {", "layout=neato", `label="7b"`, `label="C (2)"`} {
		if !strings.Contains(got, want) {
			t.Errorf("DOT missing %q:\n%s", want, got)
		}
	}
}

func TestSociogramBadQuery(t *testing.T) {
	_, ts := newTestServer(t)
	for _, q := range []string{"engine=spring", "highlight=-1", "counts=maybe"} {
		resp := do(t, ts, http.MethodGet, "/api/sociogram.dot?"+q, "", "", true)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", q, resp.StatusCode)
		}
	}
}

func TestSociogramSVG(t *testing.T) {
	_, ts := newTestServer(t)
	submitClass(t, ts)

	resp := do(t, ts, http.MethodGet, "/api/sociogram.svg", "", "", true)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, readBody(t, resp))
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.Contains(readBody(t, resp), "<svg") {
		t.Error("body is not SVG")
	}
}

func TestHealthAndRequestID(t *testing.T) {
	_, ts := newTestServer(t)

	resp := do(t, ts, http.MethodGet, "/healthz", "", "", false)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if len(resp.Header.Get(RequestIDHeader)) != 36 {
		t.Errorf("generated request ID = %q, want a UUID", resp.Header.Get(RequestIDHeader))
	}

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/healthz", nil)
	req.Header.Set(RequestIDHeader, "trace-42")
	resp2, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp2.Body.Close()
	if got := resp2.Header.Get(RequestIDHeader); got != "trace-42" {
		t.Errorf("request ID = %q, incoming ID should be kept", got)
	}
}

func TestNotFoundAndMethod(t *testing.T) {
	_, ts := newTestServer(t)

	resp := do(t, ts, http.MethodGet, "/api/nothing", "", "", true)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
	resp = do(t, ts, http.MethodDelete, "/api/submissions", "", "", true)
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", resp.StatusCode)
	}
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	observability.SetHTTPHooks(observability.NewPrometheusHooks(reg))
	defer observability.Reset()

	s, _ := newTestServer(t)
	s.Metrics = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	submitClass(t, ts)
	resp := do(t, ts, http.MethodGet, "/metrics", "", "", false)
	got := readBody(t, resp)
	for _, want := range []string{
		"sociogram_submissions_total 3",
		`sociogram_http_requests_total{method="POST",route="/api/submissions",status="201"} 3`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("metrics missing %q", want)
		}
	}
}

func TestStatusFor(t *testing.T) {
	tests := map[string]int{
		"INVALID_INPUT":       400,
		"INVALID_PARTICIPANT": 400,
		"UNAUTHORIZED":        401,
		"NOT_FOUND":           404,
		"INTERNAL_ERROR":      500,
		"":                    500,
	}
	for code, want := range tests {
		if got := StatusFor(sgerrors.Code(code)); got != want {
			t.Errorf("StatusFor(%q) = %d, want %d", code, got, want)
		}
	}
}
