package codec

import (
	"testing"

	"github.com/hupe1980/groupcv/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestByName(t *testing.T) {
	for _, name := range Names() {
		c, ok := ByName(name)
		require.True(t, ok)
		assert.Equal(t, name, c.Name())
	}

	_, ok := ByName("msgpack")
	assert.False(t, ok)
}

func TestCodecsAgree(t *testing.T) {
	fold := newBenchFold(25)

	std := MustMarshal(JSON{}, fold)
	fast := MustMarshal(GoJSON{}, fold)
	assert.JSONEq(t, string(std), string(fast))

	var decoded benchFold
	require.NoError(t, GoJSON{}.Unmarshal(std, &decoded))
	assert.Equal(t, fold.Train, decoded.Train)
	assert.Equal(t, fold.Test, decoded.Test)
	assert.True(t, fold.Key.Equal(decoded.Key))
}

func TestMarshalIndent(t *testing.T) {
	out, err := GoJSON{}.MarshalIndent(map[string]any{"key": metadata.Int(3)}, "", "  ")
	require.NoError(t, err)
	assert.Contains(t, string(out), "\n  \"key\"")
}
