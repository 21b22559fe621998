package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/csvimport/internal/core"
	"github.com/JonMunkholm/csvimport/internal/store"
)

// multipartMemory is how much of a multipart body is held in memory before
// spilling to temporary files.
const multipartMemory = 32 << 20

// formOverhead is the slack allowed above MaxFileSize for form fields and
// multipart framing.
const formOverhead = 1 << 20

// maxResolveBody bounds the JSON body of /api/header/resolve.
const maxResolveBody = 1 << 20

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"imports": s.service.LimiterStatus(),
	})
}

// handleImport streams an uploaded file through the import pipeline.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	req, closeFile, err := s.parseImportForm(w, r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	defer closeFile()

	ctx := core.ContextWithClient(r.Context(), r.RemoteAddr, r.UserAgent())
	res, err := s.service.Import(ctx, req)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	w.Header().Set("Location", "/api/imports/"+res.ID.String())
	writeJSON(w, http.StatusCreated, res)
}

// handlePreview reports the header decision for an uploaded file without
// importing it.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	req, closeFile, err := s.parseImportForm(w, r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	defer closeFile()

	preview, err := s.service.Preview(r.Context(), req)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, preview)
}

// resolveRequest is the body of POST /api/header/resolve. Header keeps its
// JSON form (number, string or null) for header.Validate.
type resolveRequest struct {
	Header any        `json:"header"`
	Rows   [][]string `json:"rows"`
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxResolveBody))
	dec.UseNumber()

	var body resolveRequest
	if err := dec.Decode(&body); err != nil {
		s.respondError(w, r, fmt.Errorf("%w: decode body: %v", core.ErrInvalidOption, err))
		return
	}

	res, err := s.service.ResolveSample(body.Header, body.Rows)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleListImports(w http.ResponseWriter, r *http.Request) {
	filter := store.ListFilter{
		FileName: strings.TrimSpace(r.URL.Query().Get("file")),
		Limit:    parseIntParam(r, "limit", store.DefaultListLimit),
	}

	records, err := s.service.ListImports(r.Context(), filter)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if records == nil {
		records = []store.ImportRecord{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"imports": records,
		"count":   len(records),
	})
}

func (s *Server) handleGetImport(w http.ResponseWriter, r *http.Request) {
	rec, err := s.service.GetImport(r.Context(), chi.URLParam(r, "importID"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// parseImportForm reads the multipart fields shared by import and preview:
// file, header, sep, encoding, sample_rows and col_names. The returned func
// closes the uploaded file.
func (s *Server) parseImportForm(w http.ResponseWriter, r *http.Request) (core.ImportRequest, func(), error) {
	noop := func() {}

	maxSize := s.service.Config().MaxFileSize
	if maxSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, maxSize+formOverhead)
	}
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			return core.ImportRequest{}, noop, fmt.Errorf("%w: %v", core.ErrFileTooLarge, err)
		}
		return core.ImportRequest{}, noop, fmt.Errorf("%w: %v", core.ErrNoFile, err)
	}

	file, fh, err := r.FormFile("file")
	if err != nil {
		return core.ImportRequest{}, noop, core.ErrNoFile
	}

	req := core.ImportRequest{
		FileName:    fh.Filename,
		Source:      file,
		Size:        fh.Size,
		Header:      formHeader(r.MultipartForm),
		Delimiter:   r.FormValue("sep"),
		Encoding:    r.FormValue("encoding"),
		ColumnNames: formList(r.MultipartForm, "col_names"),
	}

	if v := strings.TrimSpace(r.FormValue("sample_rows")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			_ = file.Close()
			return core.ImportRequest{}, noop, fmt.Errorf("%w: sample_rows %q", core.ErrInvalidOption, v)
		}
		req.SampleRows = n
	}

	return req, func() { _ = file.Close() }, nil
}

// formHeader returns the raw header field, or nil when the form omits it.
func formHeader(form *multipart.Form) any {
	if form == nil {
		return nil
	}
	values, ok := form.Value["header"]
	if !ok || len(values) == 0 {
		return nil
	}
	return values[0]
}

// formList accepts either repeated fields or one comma-separated value.
func formList(form *multipart.Form, key string) []string {
	if form == nil {
		return nil
	}
	values := form.Value[key]
	if len(values) == 1 {
		values = strings.Split(values[0], ",")
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, strings.TrimSpace(v))
	}
	if len(out) == 1 && out[0] == "" {
		return nil
	}
	return out
}

// parseIntParam parses a positive integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil || i < 1 {
		return defaultVal
	}
	return i
}
