package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/DOVA00/checking-links/internal/document"
	"github.com/DOVA00/checking-links/internal/errreport"
	"github.com/DOVA00/checking-links/internal/model"
)

// maxTextBody bounds the JSON body of check-text.
const maxTextBody = 1 << 20

// messageResponse is the body of a rejected /api/check request.
type messageResponse struct {
	Message string `json:"message"`
}

// errorResponse is the body of every other error.
type errorResponse struct {
	Error string `json:"error"`
}

// statsResponse is the body of /api/stats.
type statsResponse struct {
	TotalChecked int     `json:"totalChecked"`
	AverageScore float64 `json:"averageScore"`
}

// textRequest is the body of check-text.
type textRequest struct {
	Text string `json:"text"`
}

// batchResponse is the body of check-text and check-file.
type batchResponse struct {
	Message        string                    `json:"message,omitempty"`
	FileName       string                    `json:"fileName,omitempty"`
	FileSize       string                    `json:"fileSize,omitempty"`
	TotalURLsFound int                       `json:"totalUrlsFound"`
	CheckedURLs    int                       `json:"checkedUrls"`
	Results        []*model.EvaluationResult `json:"results"`
	ProcessingTime string                    `json:"processingTime,omitempty"`
}

func newBatchResponse(eval *model.TextEvaluation) *batchResponse {
	results := eval.Results
	if results == nil {
		results = []*model.EvaluationResult{}
	}
	return &batchResponse{
		TotalURLsFound: eval.ExtractedCount,
		CheckedURLs:    eval.EvaluatedCount,
		Results:        results,
	}
}

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	link := r.URL.Query().Get("link")
	if strings.TrimSpace(link) == "" {
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: "please provide a link to check"})
		return
	}

	result, err := s.evaluator.EvaluateOne(r.Context(), link)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	stats := s.evaluator.Stats()
	writeJSON(w, http.StatusOK, statsResponse{
		TotalChecked: stats.TotalCached,
		AverageScore: stats.AverageScore,
	})
}

func (s *Server) handleCheckText(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxTextBody)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "text must not be empty")
		return
	}

	eval, err := s.evaluator.EvaluateText(r.Context(), req.Text, 0)
	if err != nil {
		s.internalError(w, r, err)
		return
	}

	resp := newBatchResponse(eval)
	if eval.ExtractedCount == 0 {
		resp.Message = "no links found in the text"
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCheckFile(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadSize+multipartOverhead)

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusBadRequest, document.ErrTooLarge.Error())
			return
		}
		writeError(w, http.StatusBadRequest, "missing file: "+err.Error())
		return
	}
	defer file.Close()

	text, err := s.extractor.Extract(header.Filename, file, header.Size)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	eval, err := s.evaluator.EvaluateText(r.Context(), text, 0)
	if err != nil {
		s.internalError(w, r, err)
		return
	}

	resp := newBatchResponse(eval)
	resp.FileName = header.Filename
	resp.FileSize = document.FormatSize(header.Size)
	if eval.ExtractedCount == 0 {
		resp.Message = "no links found in the file"
	} else {
		resp.ProcessingTime = s.now().UTC().Format(time.RFC3339Nano)
	}
	writeJSON(w, http.StatusOK, resp)
}

// internalError logs and reports err and answers 500. Nothing is reported
// when the client went away.
func (s *Server) internalError(w http.ResponseWriter, r *http.Request, err error) {
	if r.Context().Err() != nil {
		s.logger.Debug("request cancelled", "path", r.URL.Path, "error", err)
		return
	}
	s.logger.Error("request failed", "path", r.URL.Path, "error", err)
	errreport.CaptureError(err, map[string]string{"endpoint": r.URL.Path})
	writeError(w, http.StatusInternalServerError, err.Error())
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
