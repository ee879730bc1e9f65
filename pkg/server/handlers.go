package server

import (
	"bytes"
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/matzehuels/sociogram/pkg/buildinfo"
	"github.com/matzehuels/sociogram/pkg/errors"
	"github.com/matzehuels/sociogram/pkg/observability"
	"github.com/matzehuels/sociogram/pkg/pipeline"
	"github.com/matzehuels/sociogram/pkg/preferences"
)

type submissionRequest struct {
	Participant string          `json:"participant"`
	Preferences json.RawMessage `json:"preferences,omitempty"`
	Peers       []string        `json:"peers,omitempty"`
}

type submissionsResponse struct {
	Count       int                 `json:"count"`
	Submissions []preferences.Entry `json:"submissions"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "ok",
		"version":     buildinfo.Short(),
		"submissions": s.Store.Len(),
	})
}

// handleSubmit accepts a JSON body or an HTML form post with "participant"
// and a comma-separated "preferences" field.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	participant, peers, err := decodeSubmission(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	entry, err := s.Store.Submit(r.Context(), participant, peers)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	observability.HTTP().OnSubmission(r.Context(), len(entry.Peers))
	s.Logger.Debug("recorded submission", "participant", entry.Participant, "peers", len(entry.Peers))

	writeJSON(w, http.StatusCreated, entry)
}

func decodeSubmission(r *http.Request) (string, []string, error) {
	mediaType := "application/json"
	if ct := r.Header.Get("Content-Type"); ct != "" {
		mt, _, err := mime.ParseMediaType(ct)
		if err != nil {
			return "", nil, errors.Wrap(errors.ErrCodeUnsupported, err, "content type")
		}
		mediaType = mt
	}

	switch mediaType {
	case "application/json":
		return decodeJSONSubmission(r.Body)
	case "application/x-www-form-urlencoded", "multipart/form-data":
		if err := r.ParseMultipartForm(maxBodyBytes); err != nil && err != http.ErrNotMultipart {
			return "", nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse form")
		}
		return r.PostFormValue("participant"), preferences.ParsePeers(r.PostFormValue("preferences")), nil
	default:
		return "", nil, errors.New(errors.ErrCodeUnsupported, "unsupported content type %q", mediaType)
	}
}

func decodeJSONSubmission(body io.Reader) (string, []string, error) {
	var req submissionRequest
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return "", nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode submission")
	}

	raw := bytes.TrimSpace(req.Preferences)
	hasPrefs := len(raw) > 0 && string(raw) != "null"
	if hasPrefs && req.Peers != nil {
		return "", nil, errors.New(errors.ErrCodeInvalidInput, "use either preferences or peers, not both")
	}
	if !hasPrefs {
		return req.Participant, req.Peers, nil
	}

	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return req.Participant, preferences.ParsePeers(text), nil
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err != nil {
		return "", nil, errors.New(errors.ErrCodeInvalidInput, "preferences must be a comma-separated string or a list of names")
	}
	return req.Participant, list, nil
}

func (s *Server) handleListSubmissions(w http.ResponseWriter, _ *http.Request) {
	entries := s.Store.Snapshot().Entries()
	if entries == nil {
		entries = []preferences.Entry{}
	}
	writeJSON(w, http.StatusOK, submissionsResponse{Count: len(entries), Submissions: entries})
}

func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	res, err := s.Runner.Execute(r.Context(), s.Store.Snapshot(), s.renderOptions(pipeline.FormatJSON))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeArtifact(w, pipeline.FormatJSON, res.Artifacts[pipeline.FormatJSON])
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	opts := s.renderOptions(pipeline.FormatTXT)
	if v := r.URL.Query().Get("top"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			s.fail(w, r, errors.New(errors.ErrCodeInvalidInput, "top must be a positive integer, got %q", v))
			return
		}
		opts.TopN = n
	}

	res, err := s.Runner.Execute(r.Context(), s.Store.Snapshot(), opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if download, _ := strconv.ParseBool(r.URL.Query().Get("download")); download {
		w.Header().Set("Content-Disposition", `attachment; filename="`+ReportFilename+`"`)
	}
	writeArtifact(w, pipeline.FormatTXT, []byte(res.Report))
}

// handleArtifact serves a plot. Query parameters: title, engine,
// highlight (int), counts and clusters (bool).
func (s *Server) handleArtifact(format string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		opts, err := s.plotOptions(r, format)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		res, err := s.Runner.Execute(r.Context(), s.Store.Snapshot(), opts)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		writeArtifact(w, format, res.Artifacts[format])
	}
}

func (s *Server) plotOptions(r *http.Request, format string) (pipeline.Options, error) {
	q := r.URL.Query()
	opts := s.renderOptions(format)
	opts.Title = strings.TrimSpace(q.Get("title"))
	opts.Engine = q.Get("engine")

	if v := q.Get("highlight"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return opts, errors.New(errors.ErrCodeInvalidInput, "highlight must be a non-negative integer, got %q", v)
		}
		opts.Highlight = n
	}
	for name, dst := range map[string]*bool{"counts": &opts.Counts, "clusters": &opts.Clusters} {
		v := q.Get(name)
		if v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "%s must be a boolean, got %q", name, v)
		}
		*dst = b
	}
	return opts, nil
}

func writeArtifact(w http.ResponseWriter, format string, data []byte) {
	w.Header().Set("Content-Type", pipeline.ContentTypes[format])
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
