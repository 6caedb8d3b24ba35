package schema

import (
	"testing"

	"github.com/hamba/avro/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogItemV1(t *testing.T) {
	t.Run("Regular", func(t *testing.T) {
		vMarshal := CatalogItemV1{
			ID:          "id-1",
			Name:        "Men's Recycled Shorts",
			Price:       "$45",
			RawCategory: "Shorts",
			Category:    "Bottoms",
			ImageURL:    "https://cdn.example/shorts.jpg",
			Link:        "https://shop.example/shorts",
			Company:     "Patagonia",
			Tags:        []string{"Men's", "Recycled", "Shorts"},
		}

		var s avro.Schema
		require.NotPanics(t, func() {
			s = CatalogItemV1Avro()
		})

		data, err := avro.Marshal(s, vMarshal)
		require.NoError(t, err)

		var vUnmarshal CatalogItemV1
		require.NoError(t, avro.Unmarshal(s, data, &vUnmarshal))
		assert.Equal(t, vMarshal, vUnmarshal)
	})

	t.Run("NilTags", func(t *testing.T) {
		vMarshal := CatalogItemV1{ID: "id-2", Name: "Belt", Category: "Miscellaneous"}

		encode := AvroEncodeFn(CatalogItemV1Avro())
		decode := AvroDecodeFn(CatalogItemV1Avro())

		data, err := encode(vMarshal)
		require.NoError(t, err)

		var vUnmarshal CatalogItemV1
		require.NoError(t, decode(data, &vUnmarshal))
		assert.Equal(t, vMarshal.ID, vUnmarshal.ID)
		assert.Empty(t, vUnmarshal.Tags)
	})
}

func TestCompanyStatsV1(t *testing.T) {
	vMarshal := CompanyStatsV1{Company: "Outerknown", Items: 4, LastItemID: "id-9"}

	var s avro.Schema
	require.NotPanics(t, func() {
		s = CompanyStatsV1Avro()
	})

	data, err := avro.Marshal(s, vMarshal)
	require.NoError(t, err)

	var vUnmarshal CompanyStatsV1
	require.NoError(t, avro.Unmarshal(s, data, &vUnmarshal))
	assert.Equal(t, vMarshal, vUnmarshal)
}
