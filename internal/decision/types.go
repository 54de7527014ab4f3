package decision

import (
	"fmt"
	"strings"
	"time"
)

// FullnessClass is the bottle classifier's output label.
type FullnessClass string

const (
	ClassFull   FullnessClass = "full"
	ClassMedium FullnessClass = "medium"
	ClassEmpty  FullnessClass = "empty"
)

// Disposition is the action attached to a bottle after resolution.
// The catalog only stores "keep" and "discard"; override rules may
// introduce richer actions (e.g. "review").
type Disposition string

const (
	Keep    Disposition = "keep"
	Discard Disposition = "discard"
)

// ParseDisposition normalizes a stored disposition value. The catalog seed
// data uses capitalized values ("Keep", "Discard"), so matching is
// case-insensitive; anything outside the known set is rejected.
func ParseDisposition(s string) (Disposition, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "keep":
		return Keep, nil
	case "discard":
		return Discard, nil
	}
	return "", fmt.Errorf("unknown disposition %q", s)
}

// Shape identifies the outline of a freshness sticker.
type Shape string

const (
	ShapeCircle   Shape = "circle"
	ShapeTriangle Shape = "triangle"
	ShapeSquare   Shape = "square"
	ShapeHexagon  Shape = "hexagon"
)

// Color identifies the color of a freshness sticker.
type Color string

const (
	ColorGreen  Color = "green"
	ColorBlue   Color = "blue"
	ColorYellow Color = "yellow"
	ColorRed    Color = "red"
)

// AirlineRule is the per-airline mapping from fullness class to disposition.
// Exactly one rule set exists per airline; it is immutable reference data
// within a request's scope.
type AirlineRule struct {
	AirlineID   int64
	AirlineName string
	// Empty, Partial and Full hold the disposition applied when the
	// classifier reports the corresponding fullness class.
	Empty   Disposition
	Partial Disposition
	Full    Disposition
}

// RawPrediction is one normalized bottle prediction as returned by the
// classification service. Confidence is part of the contract but unused by
// the resolver itself; override rules may reference it.
type RawPrediction struct {
	FileName       string        `json:"file_name"`
	Confidence     float64       `json:"confidence"`
	PredictedClass FullnessClass `json:"predicted_class"`
}

// BottleAction is the per-bottle outcome: the input echoed back plus the
// resolved action.
type BottleAction struct {
	Filename   string        `json:"filename"`
	Prediction FullnessClass `json:"prediction"`
	Action     Disposition   `json:"action"`
}

// StickerReference is one reference row cross-referencing a shape+color
// combination with the date after which items bearing it are expired.
type StickerReference struct {
	ID         int64
	Shape      Shape
	Color      Color
	ExpiryDate time.Time
}

// DetectedStickerCount is one shape+color group detected in an image,
// carrying the number of instances seen.
type DetectedStickerCount struct {
	Shape Shape `json:"shape"`
	Color Color `json:"color"`
	Count int   `json:"count"`
}

// StickerBucket holds one side of the expiry split: the instance total and
// the per-(shape,color) breakdown.
type StickerBucket struct {
	Total   int                    `json:"total"`
	Details []DetectedStickerCount `json:"details"`
}

// StickerAnalysis is the aggregated expiry result for one image.
type StickerAnalysis struct {
	Expired    StickerBucket `json:"expired"`
	NotExpired StickerBucket `json:"not_expired"`
}
