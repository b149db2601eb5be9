package handlers

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/nijaru/yt-proxy/errors"
	"github.com/nijaru/yt-proxy/locale"
	"github.com/nijaru/yt-proxy/logger"
	"github.com/nijaru/yt-proxy/media"
	"github.com/nijaru/yt-proxy/utils"
	"github.com/nijaru/yt-proxy/validation"
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const copyBufferSize = 32 * 1024

type Handler struct {
	service      *media.Service
	messages     *locale.Messages
	maxBodyBytes int64
}

func NewHandler(service *media.Service, messages *locale.Messages, maxBodyBytes int64) *Handler {
	return &Handler{
		service:      service,
		messages:     messages,
		maxBodyBytes: maxBodyBytes,
	}
}

type videoInfoResponse struct {
	Success bool           `json:"success"`
	Video   *media.Summary `json:"video"`
}

func (h *Handler) VideoInfo(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.VideoInfo"
	log := logger.FromContext(r.Context())
	start := time.Now()

	req, err := h.decodeAndValidate(w, r, op)
	if err != nil {
		utils.RespondWithError(w, r, err)
		return
	}

	log = log.WithField("url", req.URL)
	log.Info("Received video info request")

	summary, err := h.service.Summarize(r.Context(), req.URL)
	if err != nil {
		utils.RespondWithError(w, r, errors.ResolutionFailure(op, err, h.messages.Get(locale.MsgInfoFailed)))
		return
	}

	log.WithFields(logrus.Fields{
		"title":     summary.Title,
		"qualities": len(summary.Qualities),
		"duration":  time.Since(start),
	}).Info("Video info resolved")

	utils.RespondWithJSON(w, http.StatusOK, videoInfoResponse{Success: true, Video: summary})
}

func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.Download"
	log := logger.FromContext(r.Context())
	start := time.Now()

	req, err := h.decodeAndValidate(w, r, op)
	if err != nil {
		utils.RespondWithError(w, r, err)
		return
	}

	log = log.WithFields(logrus.Fields{
		"url":     req.URL,
		"format":  req.Format,
		"quality": req.Quality,
	})
	log.Info("Received download request")

	download, err := h.service.PrepareDownload(r.Context(), req.URL, req.Format, req.Quality)
	if err != nil {
		// The client sees the resolver's own message; the wrapped chain is logged.
		message := h.messages.Get(locale.MsgDownloadFailed, pkgerrors.Cause(err).Error())
		utils.RespondWithError(w, r, errors.ResolutionFailure(op, err, message))
		return
	}

	log = log.WithFields(logrus.Fields{
		"filename": download.FileName,
		"filter":   download.Selection.Filter,
	})

	stream, size, err := h.service.Open(r.Context(), download)
	if err != nil {
		utils.RespondWithError(w, r, errors.StreamFailure(op, err, h.messages.Get(locale.MsgStreamFailed)))
		return
	}
	defer stream.Close()

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", download.FileName))
	w.Header().Set("Content-Type", download.Selection.ContentType)
	if size > 0 {
		w.Header().Set("Content-Length", fmt.Sprint(size))
	}

	sw := newStreamWriter(w)
	_, err = io.CopyBuffer(sw, stream, make([]byte, copyBufferSize))
	if err == nil {
		log.WithFields(logrus.Fields{
			"bytes":    sw.written,
			"duration": time.Since(start),
		}).Info("Download streamed")
		return
	}

	if sw.written == 0 && r.Context().Err() == nil {
		w.Header().Del("Content-Disposition")
		w.Header().Del("Content-Length")
		utils.RespondWithError(w, r, errors.StreamFailure(op, err, h.messages.Get(locale.MsgStreamFailed)))
		return
	}

	// Headers are out; the client sees a truncated body.
	log.WithError(err).WithFields(logrus.Fields{
		"bytes":    sw.written,
		"duration": time.Since(start),
	}).Warn("Download interrupted")
}

func (h *Handler) decodeAndValidate(w http.ResponseWriter, r *http.Request, op string) (*validation.Request, error) {
	message := h.messages.Get(locale.MsgInvalidURL)

	req, err := validation.DecodeRequest(w, r, h.maxBodyBytes)
	if err != nil {
		return nil, errors.InvalidInput(op, err, message)
	}
	if err := validation.ValidateURL(req.URL); err != nil {
		return nil, errors.InvalidInput(op, err, message)
	}
	return req, nil
}

// streamWriter flushes after every chunk so the client receives bytes as the
// upstream produces them.
type streamWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher
	written int64
}

func newStreamWriter(w http.ResponseWriter) *streamWriter {
	flusher, _ := w.(http.Flusher)
	return &streamWriter{w: w, flusher: flusher}
}

func (s *streamWriter) Write(p []byte) (int, error) {
	n, err := s.w.Write(p)
	s.written += int64(n)
	if err == nil && s.flusher != nil {
		s.flusher.Flush()
	}
	return n, err
}

func HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	logger.FromContext(r.Context()).Debug("Health check requested")

	utils.RespondWithJSON(w, http.StatusOK, struct {
		Status    string `json:"status"`
		Timestamp string `json:"timestamp"`
	}{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
