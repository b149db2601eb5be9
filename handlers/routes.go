package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/nijaru/yt-proxy/config"
	"github.com/nijaru/yt-proxy/errors"
	"github.com/nijaru/yt-proxy/locale"
	"github.com/nijaru/yt-proxy/middleware"
	"github.com/nijaru/yt-proxy/utils"
	"github.com/sirupsen/logrus"
)

func NewRouter(h *Handler, cfg *config.Config, log *logrus.Logger) http.Handler {
	methodNotAllowed := h.messages.Get(locale.MsgMethodNotAllowed)
	notFound := h.messages.Get(locale.MsgNotFound)

	r := chi.NewRouter()
	r.Use(
		middleware.Recovery(log, h.messages.Get(locale.MsgInternalError)),
		middleware.RequestID(),
		middleware.Logging(log),
		middleware.CORS(cfg.CORS),
	)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		utils.RespondWithError(w, r, errors.NotFound("handlers.NotFound", notFound))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		utils.RespondWithError(w, r, errors.MethodNotAllowed("handlers.MethodNotAllowed", methodNotAllowed))
	})

	r.Get("/health", HealthCheckHandler)

	r.Group(func(r chi.Router) {
		r.Use(middleware.AllowMethods(methodNotAllowed, http.MethodPost))
		r.HandleFunc("/api/video-info", h.VideoInfo)
		r.HandleFunc("/api/download", h.Download)
	})

	return r
}
