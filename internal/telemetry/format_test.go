package telemetry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := map[string]Format{
		"":             FormatAuto,
		"auto":         FormatAuto,
		"CSV":          FormatTabular,
		"tabular":      FormatTabular,
		"txt":          FormatEventStream,
		"event-stream": FormatEventStream,
		" event ":      FormatEventStream,
	}
	for in, want := range tests {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseFormat("yaml")
	assert.Error(t, err)
}

func TestFormatString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "auto", FormatAuto.String())
	assert.Equal(t, "csv", FormatTabular.String())
	assert.Equal(t, "event", FormatEventStream.String())
	assert.Equal(t, "Format(9)", Format(9).String())
}

func TestDetect(t *testing.T) {
	t.Parallel()

	assert.Equal(t, FormatTabular, Detect([]string{"time_s,axis1"}))
	assert.Equal(t, FormatTabular, Detect([]string{"# elapsed time_s"}))
	assert.Equal(t, FormatEventStream, Detect([]string{"AXIS1 : 0"}))
	assert.Equal(t, FormatEventStream, Detect(nil))
}
