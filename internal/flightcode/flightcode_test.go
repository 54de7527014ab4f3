package flightcode

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	airline, ok := Resolve("AM123")
	assert.True(t, ok)
	assert.Equal(t, Airline{Code: "AM", Name: "Aeroméxico"}, airline)
}

func TestResolve_LowercasePrefix(t *testing.T) {
	airline, ok := Resolve("aa456")
	assert.True(t, ok)
	assert.Equal(t, "American Airlines", airline.Name)
}

func TestResolve_Unknown(t *testing.T) {
	_, ok := Resolve("ZZ999")
	assert.False(t, ok)
}

func TestResolve_TooShort(t *testing.T) {
	for _, code := range []string{"", "A"} {
		_, ok := Resolve(code)
		assert.False(t, ok, "code %q", code)
	}
}
