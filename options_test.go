package groupcv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultOptions(t *testing.T) {
	o := defaultOptions()

	assert.Equal(t, "site", o.column)
	assert.True(t, o.robust)
	assert.False(t, o.shuffle)
	assert.Nil(t, o.seed)
	assert.Equal(t, ShuffleSharedSeed, o.shuffleMode)
	assert.NotNil(t, o.logger)
	assert.IsType(t, NoopMetricsCollector{}, o.metricsCollector)
}

func TestOptions_NilFallbacks(t *testing.T) {
	o := defaultOptions()
	WithLogger(nil)(&o)
	WithMetricsCollector(nil)(&o)

	assert.NotNil(t, o.logger)
	assert.IsType(t, NoopMetricsCollector{}, o.metricsCollector)
}

func TestShuffleMode(t *testing.T) {
	tests := []struct {
		in   string
		want ShuffleMode
	}{
		{"shared", ShuffleSharedSeed},
		{"", ShuffleSharedSeed},
		{"independent", ShuffleIndependent},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseShuffleMode(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseShuffleMode("random")
	assert.ErrorIs(t, err, ErrInvalidShuffleMode)

	assert.Equal(t, "independent", ShuffleIndependent.String())
	assert.Equal(t, "ShuffleMode(9)", ShuffleMode(9).String())
}
