package store

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSize_AcceptsNumericAndStringJSON(t *testing.T) {
	var v Variant
	raw := `{"color":"Black","sizes":[{"size":9,"stock":3},{"size":"9.5","stock":2},{"size":"XL","stock":1}]}`

	require.NoError(t, json.Unmarshal([]byte(raw), &v))

	require.Len(t, v.Sizes, 3)
	assert.Equal(t, Size("9"), v.Sizes[0].Size)
	assert.Equal(t, Size("9.5"), v.Sizes[1].Size)
	assert.Equal(t, Size("XL"), v.Sizes[2].Size)
}

func TestSeedProducts_AreWellFormed(t *testing.T) {
	seed := SeedProducts()

	require.NotEmpty(t, seed)
	for _, p := range seed {
		assert.NotEmpty(t, p.ID)
		assert.NotEmpty(t, p.Name)
		assert.GreaterOrEqual(t, p.Price, 0.0)
		if len(p.Images) > 0 {
			assert.Equal(t, p.Images[0], p.Image)
		}
	}
	for i := 1; i < len(seed); i++ {
		assert.LessOrEqual(t, seed[i-1].OrderWeight, seed[i].OrderWeight)
	}
}

func TestDocument_RoundTripsOptionalSettings(t *testing.T) {
	doc := Document{Products: []Product{}, Orders: []Order{}}

	data, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "settings")

	var restored Document
	require.NoError(t, json.Unmarshal(data, &restored))
	assert.Nil(t, restored.Settings)
}
