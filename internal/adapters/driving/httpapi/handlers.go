package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/custodia-labs/warroom/internal/core/domain"
	"github.com/custodia-labs/warroom/internal/core/services"
	"github.com/custodia-labs/warroom/internal/logger"
)

// uploadField is the multipart field holding uploaded files.
const uploadField = "file"

// multipartMemory is held in memory before spilling to temp files.
const multipartMemory = 32 << 20

// errorResponse is the body of every error.
type errorResponse struct {
	Error string `json:"error"`
}

// uploadItem is the outcome for one uploaded file.
type uploadItem struct {
	Filename   string   `json:"filename"`
	OK         bool     `json:"ok"`
	Error      string   `json:"error,omitempty"`
	Warnings   []string `json:"warnings,omitempty"`
	WordCount  int      `json:"word_count,omitempty"`
	PageCount  int      `json:"page_count,omitempty"`
	TableCount int      `json:"table_count,omitempty"`
}

// uploadResponse is the body of POST /documents.
type uploadResponse struct {
	Items     []uploadItem `json:"items"`
	Succeeded int          `json:"succeeded"`
	Failed    int          `json:"failed"`
}

// searchResponse is the body of GET /search.
type searchResponse struct {
	Query   string                `json:"query"`
	Results []domain.SearchResult `json:"results"`
	Count   int                   `json:"count"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleUpload ingests every file in the multipart "file" field as one batch.
// Per-file failures are reported in the body; the request itself fails only
// when nothing could be read.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxRequestBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large") {
			writeError(w, http.StatusRequestEntityTooLarge, "request too large")
			return
		}
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid multipart form: %v", err))
		return
	}
	defer r.MultipartForm.RemoveAll() //nolint:errcheck

	headers := r.MultipartForm.File[uploadField]
	if len(headers) == 0 {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("no files in %q field", uploadField))
		return
	}

	raws := make([]domain.RawDocument, 0, len(headers))
	for _, fh := range headers {
		raw, err := readUpload(fh)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("read %s: %v", fh.Filename, err))
			return
		}
		raws = append(raws, raw)
	}

	result := s.ports.Ingest.IngestBatch(r.Context(), raws)

	resp := uploadResponse{Items: make([]uploadItem, len(result.Items))}
	for i, item := range result.Items {
		resp.Items[i] = toUploadItem(item)
		if item.OK() {
			resp.Succeeded++
		} else {
			resp.Failed++
		}
	}
	logger.Debug("upload: %d succeeded, %d failed", resp.Succeeded, resp.Failed)

	status := http.StatusCreated
	switch {
	case resp.Succeeded == 0 && len(result.Items) == 1:
		status = statusFor(result.Items[0].Err)
	case resp.Succeeded == 0:
		status = http.StatusUnprocessableEntity
	case resp.Failed > 0:
		status = http.StatusMultiStatus
	}
	writeJSON(w, status, resp)
}

func readUpload(fh *multipart.FileHeader) (domain.RawDocument, error) {
	f, err := fh.Open()
	if err != nil {
		return domain.RawDocument{}, err
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return domain.RawDocument{}, err
	}

	mimeType := services.DetectMIMEType(fh.Filename)
	if mimeType == domain.MIMETypeOctet {
		if ct := fh.Header.Get("Content-Type"); ct != "" {
			mimeType = strings.TrimSpace(strings.SplitN(ct, ";", 2)[0])
		}
	}
	return domain.RawDocument{
		Filename: fh.Filename,
		MIMEType: mimeType,
		Content:  content,
	}, nil
}

func toUploadItem(item domain.BatchItem) uploadItem {
	out := uploadItem{Filename: item.Filename, OK: item.OK()}
	for _, w := range item.Warnings {
		out.Warnings = append(out.Warnings, w.Error())
	}
	if item.OK() {
		out.WordCount = item.Document.WordCount()
		out.PageCount = len(item.Document.Pages)
		out.TableCount = item.Document.TableCount()
	} else if item.Err != nil {
		out.Error = item.Err.Error()
	}
	return out
}

func (s *Server) handleLibrary(w http.ResponseWriter, r *http.Request) {
	entries, err := s.ports.Report.Library(r.Context())
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	if entries == nil {
		entries = []domain.LibraryEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleDocument(w http.ResponseWriter, r *http.Request) {
	filename := mux.Vars(r)["filename"]
	doc, err := s.ports.Report.Document(r.Context(), filename)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	// An absent or empty q matches every document.
	query := r.URL.Query().Get("q")

	var opts domain.SearchOptions
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid limit %q", raw))
			return
		}
		opts.MaxResults = limit
	}

	results, err := s.ports.Search.Search(r.Context(), query, opts)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	if results == nil {
		results = []domain.SearchResult{}
	}
	writeJSON(w, http.StatusOK, searchResponse{Query: query, Results: results, Count: len(results)})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.ports.Report.Summary(r.Context())
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("http: encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
