package projects

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractStats_NilPayload(t *testing.T) {
	stats := ExtractStats(nil)

	assert.False(t, stats.HasData)
	assert.Zero(t, stats.GlassArea)
	assert.Zero(t, stats.FilmArea)
	assert.Empty(t, stats.Products)
}

func TestExtractStats_EmptyGlasses(t *testing.T) {
	stats := ExtractStats(&Payload{Glasses: []Glass{}})

	assert.False(t, stats.HasData)
	assert.Zero(t, stats.GlassArea)
}

func TestExtractStats_GlassArea(t *testing.T) {
	p := &Payload{
		Glasses: []Glass{
			{Width: 1000, Height: 2000, Quantity: 3, Product: "A"},
		},
	}

	stats := ExtractStats(p)

	assert.True(t, stats.HasData)
	assert.InDelta(t, 6.0, stats.GlassArea, 1e-9)
	assert.Equal(t, []string{"A"}, stats.Products)
}

func TestExtractStats_ProductsDistinctNonEmpty(t *testing.T) {
	p := &Payload{
		Glasses: []Glass{
			{Width: 100, Height: 100, Quantity: 1, Product: "A"},
			{Width: 100, Height: 100, Quantity: 1, Product: ""},
			{Width: 100, Height: 100, Quantity: 1, Product: "B"},
			{Width: 100, Height: 100, Quantity: 1, Product: "A"},
		},
	}

	stats := ExtractStats(p)

	assert.ElementsMatch(t, []string{"A", "B"}, stats.Products)
}

func TestExtractStats_FilmArea(t *testing.T) {
	p := &Payload{
		OptimizationResult: &OptimizationResult{
			Segments: []Segment{{Length: 1000}, {Length: 2000}},
		},
	}

	stats := ExtractStats(p)

	assert.True(t, stats.HasData)
	assert.InDelta(t, 4.56, stats.FilmArea, 1e-9)
	assert.Zero(t, stats.GlassArea)
}

func TestExtractStats_MalformedNumericFieldsCountAsZero(t *testing.T) {
	p, err := ParsePayload([]byte(`{
		"glasses": [
			{"width": "1000", "height": 2000, "quantity": 1, "product": "A"},
			{"width": "oops", "height": 500, "quantity": 2},
			{"height": 300}
		]
	}`))
	require.NoError(t, err)

	stats := ExtractStats(p)

	assert.True(t, stats.HasData)
	// only the first glass contributes: numeric string widths parse, garbage
	// and missing fields are zero
	assert.InDelta(t, 2.0, stats.GlassArea, 1e-9)
}
