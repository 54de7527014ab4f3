// Package flightcode resolves a flight number to its operating airline by
// IATA prefix, so front-ends can pre-fill the airline before submitting a
// bottle batch.
package flightcode

import "strings"

// Airline is a resolved carrier: IATA prefix and catalog display name.
type Airline struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Names must match the airline names in the catalog exactly; the bottle
// rule lookup is case-sensitive.
var prefixes = map[string]string{
	"AM": "Aeroméxico",
	"Y4": "Volaris",
	"VB": "VivaAerobus",
	"AA": "American Airlines",
	"DL": "Delta Airlines",
	"UA": "United Airlines",
}

// Resolve extracts the two-character prefix from a flight code and maps it
// to an airline. Returns false for empty, short, or unknown codes.
func Resolve(flightCode string) (Airline, bool) {
	if len(flightCode) < 2 {
		return Airline{}, false
	}
	prefix := strings.ToUpper(flightCode[:2])
	name, ok := prefixes[prefix]
	if !ok {
		return Airline{}, false
	}
	return Airline{Code: prefix, Name: name}, true
}
