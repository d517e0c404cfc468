package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"hpcpredict/ml"
	"hpcpredict/monitoring"
)

// ModelInfoSource is implemented by predictors that can describe themselves.
type ModelInfoSource interface {
	Info() ml.ModelInfo
}

// Handler serves the predictor form. predictor is shared read-only by all
// requests.
type Handler struct {
	predictor ml.Predictor
	info      ModelInfoSource
	logger    *zap.Logger
	metrics   *monitoring.Metrics
}

// NewHandler wires the form routes. info and metrics may be nil.
func NewHandler(predictor ml.Predictor, info ModelInfoSource, logger *zap.Logger, metrics *monitoring.Metrics) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{predictor: predictor, info: info, logger: logger, metrics: metrics}
}

func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", h.handleForm)
	mux.HandleFunc("POST /{$}", h.handlePredict)
	mux.HandleFunc("GET /api/health", handleHealth)
	mux.HandleFunc("GET /api/model", h.handleModel)
	if h.metrics != nil {
		mux.Handle("GET /metrics", h.metrics.Handler())
	}
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (h *Handler) handleModel(w http.ResponseWriter, r *http.Request) {
	if h.info == nil {
		http.Error(w, `{"error":"model info unavailable"}`, http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.info.Info())
}

func (h *Handler) handleForm(w http.ResponseWriter, r *http.Request) {
	h.writePage(w, PageData{})
}

func (h *Handler) handlePredict(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.observe(monitoring.OutcomeInvalidInput, 0)
		http.Error(w, "invalid form: "+err.Error(), http.StatusBadRequest)
		return
	}
	features, raw, err := ParseFeatures(r.PostForm)
	if err != nil {
		h.observe(monitoring.OutcomeInvalidInput, 0)
		h.logger.Info("rejected submission", zap.String("request_id", GetRequestID(r.Context())), zap.Error(err))
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	start := time.Now()
	prediction, err := h.predictor.Predict(features)
	elapsed := time.Since(start)
	if err != nil {
		h.observe(monitoring.OutcomeModelError, elapsed)
		h.logger.Error("prediction failed", zap.String("request_id", GetRequestID(r.Context())), zap.Error(err))
		http.Error(w, "prediction failed", http.StatusInternalServerError)
		return
	}
	h.observe(monitoring.OutcomeOK, elapsed)
	h.logger.Debug("prediction",
		zap.String("request_id", GetRequestID(r.Context())),
		zap.Float64s("features", features),
		zap.Float64("seconds", prediction),
		zap.Duration("elapsed", elapsed))

	h.writePage(w, PageData{Values: raw, Prediction: &prediction})
}

// writePage renders into a buffer first so a template failure still yields a
// clean 500.
func (h *Handler) writePage(w http.ResponseWriter, data PageData) {
	var buf bytes.Buffer
	if err := RenderPage(&buf, data); err != nil {
		h.logger.Error("render page", zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

func (h *Handler) observe(outcome string, elapsed time.Duration) {
	if h.metrics != nil {
		h.metrics.ObservePrediction(outcome, elapsed)
	}
}
