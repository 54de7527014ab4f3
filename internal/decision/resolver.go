package decision

import "log/slog"

// ResolveActions maps every bottle prediction to a disposition using the
// airline's rule set. The result preserves input order and echoes filename
// and predicted class unchanged; one action is produced per prediction.
//
// A predicted class outside {full, medium, empty} falls back to discard.
// The classifier's label set is closed, so this only fires when the upstream
// model changes underneath us; it is logged as a warning rather than failing
// the batch.
//
// The function is pure given (predictions, rule): no lookups, no shared
// state, same output every time.
func ResolveActions(predictions []RawPrediction, rule AirlineRule) []BottleAction {
	actions := make([]BottleAction, 0, len(predictions))
	for _, p := range predictions {
		action := Discard
		switch p.PredictedClass {
		case ClassFull:
			action = rule.Full
		case ClassMedium:
			action = rule.Partial
		case ClassEmpty:
			action = rule.Empty
		default:
			slog.Warn("unknown fullness class, defaulting to discard",
				"class", p.PredictedClass, "file", p.FileName)
		}

		actions = append(actions, BottleAction{
			Filename:   p.FileName,
			Prediction: p.PredictedClass,
			Action:     action,
		})
	}
	return actions
}
