// Package classify talks to the external image-classification service. It
// is the single place where the upstream wire format is parsed; everything
// past this boundary works with the normalized decision types.
package classify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"gatesort/internal/decision"
)

// Image is one captured photo, already decoded from its transport encoding.
type Image struct {
	ID   int
	Data []byte
}

// UpstreamError reports a non-OK response from the classification service.
// It is terminal for the whole batch.
type UpstreamError struct {
	StatusCode int
	Status     string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("classifier response error code=%d status=%s", e.StatusCode, e.Status)
}

// ErrNoDetections is returned when the sticker endpoint answered OK but
// carried no counts payload.
var ErrNoDetections = errors.New("no sticker detections received from classifier")

// Client is an HTTP client for the classification service.
// Uses requests with context and timeout.
type Client struct {
	url    string       // base URL of the classification service
	client *http.Client // HTTP client configured with timeout and context cancellation support
}

// NewClient creates a classifier client for the given base URL
// (e.g. "http://classifier:5000"). The timeout bounds each request.
func NewClient(url string, timeout time.Duration) *Client {
	return &Client{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// bottleResponse is the upstream /predict wire shape.
type bottleResponse struct {
	Predictions []decision.RawPrediction `json:"predictions"`
}

// stickerResponse is the upstream /stickers wire shape.
type stickerResponse struct {
	Counts []decision.DetectedStickerCount `json:"counts"`
	Total  int                             `json:"total"`
}

// PredictBottles uploads the batch of bottle images as multipart form data
// (field "images", one part per capture) and returns the normalized
// predictions. A missing or null predictions field is treated as an empty
// batch; a non-200 response or unparseable body fails the whole batch.
func (c *Client) PredictBottles(ctx context.Context, images []Image) ([]decision.RawPrediction, error) {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	for _, img := range images {
		part, err := form.CreateFormFile("images", fmt.Sprintf("bottle-%d.jpg", img.ID))
		if err != nil {
			return nil, err
		}
		if _, err := part.Write(img.Data); err != nil {
			return nil, err
		}
	}
	if err := form.Close(); err != nil {
		return nil, err
	}

	body, err := c.post(ctx, "/predict", form.FormDataContentType(), &buf)
	if err != nil {
		return nil, err
	}

	var parsed bottleResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("unparseable classifier response: %w", err)
	}
	if parsed.Predictions == nil {
		return []decision.RawPrediction{}, nil
	}
	return parsed.Predictions, nil
}

// DetectStickers uploads a single image (field "image") and returns the
// detected shape+color counts. Unlike the bottle pipeline, a response
// without counts is an error: the sticker endpoint always reports counts
// for a processable image.
func (c *Client) DetectStickers(ctx context.Context, image Image) ([]decision.DetectedStickerCount, error) {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	part, err := form.CreateFormFile("image", fmt.Sprintf("bottle-%d.jpg", image.ID))
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(image.Data); err != nil {
		return nil, err
	}
	if err := form.Close(); err != nil {
		return nil, err
	}

	body, err := c.post(ctx, "/stickers", form.FormDataContentType(), &buf)
	if err != nil {
		return nil, err
	}

	var parsed stickerResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("unparseable classifier response: %w", err)
	}
	if parsed.Counts == nil {
		return nil, ErrNoDetections
	}
	return parsed.Counts, nil
}

func (c *Client) post(ctx context.Context, path, contentType string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	return io.ReadAll(resp.Body)
}
