package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"gatesort/internal/audit"
	"gatesort/internal/catalog"
	"gatesort/internal/classify"
	"gatesort/internal/decision"
	"gatesort/internal/decision/override"
	"gatesort/internal/flightcode"
	"gatesort/internal/speech"

	"github.com/google/uuid"
)

// ApiV1Router manages routes for API version 1. It is the boundary that
// turns internal failures into the stable external envelope: every error
// raised by the catalog, classifier, resolver or aggregator is caught here
// and answered as {success:false, error, message} with HTTP 400 — nothing
// escapes to the transport layer as a bare 500.
type ApiV1Router struct {
	// catalog — read-only reference store for airline rules and sticker
	// references.
	catalog *catalog.Catalog
	// classifier — client for the external image-classification service.
	classifier *classify.Client
	// overrides — compiled disposition override rules; empty when disabled.
	overrides []override.Rule
	// announcer — optional TTS channel; nil disables announcements.
	announcer *speech.Announcer
	// trail — optional decision audit trail; nil disables auditing.
	trail *audit.Trail
	// static — path to directory with static files (e.g., the capture UI).
	// If empty, static file serving is disabled.
	static string
	// now — clock used as the expiry cutoff; replaceable in tests.
	now func() time.Time
}

// envelope is the failure shape shared by both pipelines.
type envelope struct {
	Success bool   `json:"success"`
	Error   any    `json:"error,omitempty"`
	Message string `json:"message"`
}

// bottleItem is one captured bottle photo in transport form.
type bottleItem struct {
	ID    int    `json:"id"`
	Image string `json:"image"` // base64-encoded JPEG
}

type bottlesRequest struct {
	AirlineName string       `json:"airlineName"`
	Items       []bottleItem `json:"items"`
}

type bottlesResponse struct {
	Success bool                    `json:"success"`
	Airline string                  `json:"airline"`
	Actions []decision.BottleAction `json:"actions"`
}

type stickersRequest struct {
	Image *bottleItem `json:"image"`
}

type stickersResponse struct {
	Success    bool                   `json:"success"`
	Expired    decision.StickerBucket `json:"expired"`
	NotExpired decision.StickerBucket `json:"not_expired"`
}

type airlineResponse struct {
	Success bool               `json:"success"`
	Airline flightcode.Airline `json:"airline"`
}

// Mux returns a configured *http.ServeMux with registered handlers.
// Registers the following routes:
// - POST /api/v1/bottles — classifies a bottle batch and resolves dispositions
// - POST /api/v1/stickers — analyzes sticker expiry for one image
// - GET /api/v1/airlines/{code} — resolves a flight code to an airline
// - GET /static/... — serves static files (if enabled)
func (ar *ApiV1Router) Mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/bottles", ar.bottlesHandler)
	mux.HandleFunc("POST /api/v1/stickers", ar.stickersHandler)
	mux.HandleFunc("GET /api/v1/airlines/{code}", ar.airlineHandler)

	if len(ar.static) != 0 {
		fs := http.FileServer(http.Dir(ar.static))
		mux.Handle("GET /static/", http.StripPrefix("/static/", fs))
	}

	return mux
}

// bottlesHandler runs the bottle pipeline: validate → decode images →
// classify → rule lookup → resolve → overrides → envelope.
// Required fields are checked before any processing begins.
func (ar *ApiV1Router) bottlesHandler(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.NewString()

	var req bottlesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Warn("unreadable bottles request", "request_id", requestID, "error", err)
		ar.failure(w, err, "Invalid request body")
		return
	}
	defer r.Body.Close()

	if req.AirlineName == "" {
		ar.failure(w, nil, "Airline name is required")
		return
	}
	if len(req.Items) == 0 {
		ar.failure(w, nil, "Items are required")
		return
	}

	images, err := decodeImages(req.Items)
	if err != nil {
		slog.Warn("bottle image decode", "request_id", requestID, "error", err)
		ar.failure(w, err, "Invalid image encoding")
		return
	}

	predictions, err := ar.classifier.PredictBottles(r.Context(), images)
	if err != nil {
		slog.Warn("bottle classification", "request_id", requestID, "error", err)
		ar.failure(w, err, "Error building predictions")
		return
	}

	rule, err := ar.catalog.FindAirlineRuleByName(r.Context(), req.AirlineName)
	if err != nil {
		slog.Warn("airline rule lookup", "request_id", requestID, "airline", req.AirlineName, "error", err)
		if errors.Is(err, catalog.ErrAirlineNotFound) {
			ar.failure(w, err, "Airline not found")
		} else {
			ar.failure(w, err, "Error building predictions")
		}
		return
	}

	actions := decision.ResolveActions(predictions, rule)
	actions = override.Apply(ar.overrides, predictions, actions)

	ar.trail.Record("bottle_batch",
		"request_id", requestID,
		"airline", req.AirlineName,
		"actions", actions,
	)
	slog.Info("bottle batch resolved", "request_id", requestID,
		"airline", req.AirlineName, "items", len(actions))

	go ar.announcer.Announce(context.Background(), bottleAnnouncement(req.AirlineName, actions))

	writeJSON(w, http.StatusOK, bottlesResponse{
		Success: true,
		Airline: req.AirlineName,
		Actions: actions,
	})
}

// stickersHandler runs the sticker pipeline: validate → decode → detect →
// reference lookup → aggregate → envelope.
func (ar *ApiV1Router) stickersHandler(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.NewString()

	var req stickersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Warn("unreadable stickers request", "request_id", requestID, "error", err)
		ar.failure(w, err, "Invalid request body")
		return
	}
	defer r.Body.Close()

	if req.Image == nil || req.Image.Image == "" {
		ar.failure(w, nil, "Image is required")
		return
	}

	images, err := decodeImages([]bottleItem{*req.Image})
	if err != nil {
		slog.Warn("sticker image decode", "request_id", requestID, "error", err)
		ar.failure(w, err, "Invalid image encoding")
		return
	}

	detections, err := ar.classifier.DetectStickers(r.Context(), images[0])
	if err != nil {
		slog.Warn("sticker detection", "request_id", requestID, "error", err)
		ar.failure(w, err, "Error building predictions")
		return
	}

	references, err := ar.catalog.ListStickerReferences(r.Context())
	if err != nil {
		slog.Warn("sticker reference lookup", "request_id", requestID, "error", err)
		ar.failure(w, err, "Error building predictions")
		return
	}

	analysis := decision.Aggregate(detections, references, ar.now())

	ar.trail.Record("sticker_analysis",
		"request_id", requestID,
		"expired", analysis.Expired,
		"not_expired", analysis.NotExpired,
	)
	slog.Info("sticker image analyzed", "request_id", requestID,
		"expired", analysis.Expired.Total, "fresh", analysis.NotExpired.Total)

	go ar.announcer.Announce(context.Background(), stickerAnnouncement(analysis))

	writeJSON(w, http.StatusOK, stickersResponse{
		Success:    true,
		Expired:    analysis.Expired,
		NotExpired: analysis.NotExpired,
	})
}

// airlineHandler resolves a flight code (e.g. "AM123") to its airline.
func (ar *ApiV1Router) airlineHandler(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")

	airline, ok := flightcode.Resolve(code)
	if !ok {
		slog.Warn("unknown flight code", "code", code)
		writeJSON(w, http.StatusNotFound, envelope{Message: "Unknown flight code"})
		return
	}

	writeJSON(w, http.StatusOK, airlineResponse{Success: true, Airline: airline})
}

// failure answers with the stable error envelope. All decision-path
// failures are client-visible 400s with a human-readable message, never a
// stack trace.
func (ar *ApiV1Router) failure(w http.ResponseWriter, err error, message string) {
	env := envelope{Message: message}
	if err != nil {
		env.Error = err.Error()
	}
	writeJSON(w, http.StatusBadRequest, env)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Warn("unable to write response", "error", err)
	}
}

// decodeImages converts transport items to classifier images. Each item is
// independent; a single bad payload fails the batch before any upstream
// call is made.
func decodeImages(items []bottleItem) ([]classify.Image, error) {
	images := make([]classify.Image, 0, len(items))
	for _, item := range items {
		data, err := base64.StdEncoding.DecodeString(item.Image)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", item.ID, err)
		}
		images = append(images, classify.Image{ID: item.ID, Data: data})
	}
	return images, nil
}

func bottleAnnouncement(airline string, actions []decision.BottleAction) string {
	keep, discard := 0, 0
	for _, a := range actions {
		switch a.Action {
		case decision.Keep:
			keep++
		case decision.Discard:
			discard++
		}
	}
	return fmt.Sprintf("%s cart: %d bottles to keep, %d to discard", airline, keep, discard)
}

func stickerAnnouncement(analysis decision.StickerAnalysis) string {
	return fmt.Sprintf("%d expired items, %d fresh", analysis.Expired.Total, analysis.NotExpired.Total)
}

// NewApiV1Router creates a new API v1 router.
// Parameters:
// - static: path to static files (can be empty)
// - cat: reference catalog
// - classifier: classification service client
// - overrides: compiled override rules (can be empty)
// - announcer: TTS announcer (can be nil)
// - trail: audit trail (can be nil)
//
// Returns pointer to configured ApiV1Router.
func NewApiV1Router(
	static string,
	cat *catalog.Catalog,
	classifier *classify.Client,
	overrides []override.Rule,
	announcer *speech.Announcer,
	trail *audit.Trail,
) *ApiV1Router {
	return &ApiV1Router{
		catalog:    cat,
		classifier: classifier,
		overrides:  overrides,
		announcer:  announcer,
		trail:      trail,
		static:     static,
		now:        time.Now,
	}
}
