package xsd

import (
	"encoding/xml"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNameRoundTrip(t *testing.T) {
	tests := []struct {
		text string
		name xml.Name
	}{
		{"Patient", xml.Name{Local: "Patient"}},
		{"{http://example.org/clinic}Patient", xml.Name{Space: "http://example.org/clinic", Local: "Patient"}},
		{"{urn:hl7-org:v3}POCD_MT000040.Observation", xml.Name{Space: "urn:hl7-org:v3", Local: "POCD_MT000040.Observation"}},
	}
	for _, tt := range tests {
		name, err := ParseName(tt.text)
		require.NoError(t, err, tt.text)
		assert.Equal(t, tt.name, name)
		assert.Equal(t, tt.text, FormatName(name))
	}
}

func TestParseNameErrors(t *testing.T) {
	for _, text := range []string{
		"",
		"{http://example.org}",
		"{http://example.org",
		"Pat{ient",
	} {
		_, err := ParseName(text)
		assert.Error(t, err, "ParseName(%q)", text)
	}
}
