package decision

import "time"

// groupKey identifies one (shape, color) combination inside a bucket.
type groupKey struct {
	shape Shape
	color Color
}

// Aggregate splits detected sticker groups into expired and not-expired
// buckets against the reference set, as of the given date.
//
// For each detected group the first reference matching its shape and color
// is used (references are consulted in the order given; first match wins).
// A group is expired when its reference's expiry date is strictly before
// asOf — a sticker expiring exactly on asOf is still fresh. A group with no
// matching reference is assumed fresh and lands entirely in the not-expired
// bucket.
//
// Every detected group is expanded into count independent unit instances,
// classified, then re-grouped per bucket by (shape, color) with summed
// counts. Zero-count groups therefore contribute nothing, and
// expired.Total + notExpired.Total always equals the sum of input counts.
func Aggregate(detections []DetectedStickerCount, references []StickerReference, asOf time.Time) StickerAnalysis {
	cutoff := dateOnly(asOf)

	var expired, notExpired []DetectedStickerCount
	for _, d := range detections {
		ref, found := firstMatch(references, d.Shape, d.Color)
		isExpired := found && dateOnly(ref.ExpiryDate).Before(cutoff)

		for i := 0; i < d.Count; i++ {
			unit := DetectedStickerCount{Shape: d.Shape, Color: d.Color, Count: 1}
			if isExpired {
				expired = append(expired, unit)
			} else {
				notExpired = append(notExpired, unit)
			}
		}
	}

	return StickerAnalysis{
		Expired:    regroup(expired),
		NotExpired: regroup(notExpired),
	}
}

// firstMatch returns the first reference with the given shape and color.
func firstMatch(references []StickerReference, shape Shape, color Color) (StickerReference, bool) {
	for _, r := range references {
		if r.Shape == shape && r.Color == color {
			return r, true
		}
	}
	return StickerReference{}, false
}

// regroup folds unit instances back into per-(shape,color) counts. Detail
// entries appear in first-seen order and each combination occurs at most
// once; the bucket total is the number of instances.
func regroup(units []DetectedStickerCount) StickerBucket {
	bucket := StickerBucket{Details: []DetectedStickerCount{}}
	index := make(map[groupKey]int)

	for _, u := range units {
		key := groupKey{u.Shape, u.Color}
		i, seen := index[key]
		if !seen {
			i = len(bucket.Details)
			index[key] = i
			bucket.Details = append(bucket.Details, DetectedStickerCount{Shape: u.Shape, Color: u.Color})
		}
		bucket.Details[i].Count += u.Count
		bucket.Total += u.Count
	}

	return bucket
}

// dateOnly strips the time-of-day component, comparing calendar dates in UTC.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
