package schema_test

import (
	"context"
	"testing"

	"github.com/niksmo/good-goods/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSchemaIdentifier struct {
	mock.Mock
}

func (c *MockSchemaIdentifier) DetermineID(
	ctx context.Context, subject string, avroSchemaText string,
) (id int, err error) {
	args := c.Called(ctx, subject, avroSchemaText)
	return args.Int(0), args.Error(1)
}

func TestSerdeCatalogItemV1(t *testing.T) {
	const subject = "catalog-items-value"

	t.Run("NoOpts", func(t *testing.T) {
		_, err := schema.NewSerdeCatalogItemV1(t.Context())
		require.Error(t, err)
		assert.ErrorIs(t, err, schema.ErrTooFewOpts)
	})

	t.Run("OneOpt", func(t *testing.T) {
		_, err := schema.NewSerdeCatalogItemV1(
			t.Context(),
			schema.SchemaIdentifierOpt(new(MockSchemaIdentifier)),
		)
		require.Error(t, err)
		assert.ErrorIs(t, err, schema.ErrTooFewOpts)
	})

	t.Run("EmptySubject", func(t *testing.T) {
		_, err := schema.NewSerdeCatalogItemV1(
			t.Context(),
			schema.SubjectOpt(""),
			schema.SchemaIdentifierOpt(new(MockSchemaIdentifier)),
		)
		require.Error(t, err)
	})

	t.Run("RegistryFailure", func(t *testing.T) {
		si := new(MockSchemaIdentifier)
		si.On(
			"DetermineID", t.Context(), subject, schema.CatalogItemSchemaTextV1,
		).Return(0, assert.AnError)

		_, err := schema.NewSerdeCatalogItemV1(
			t.Context(),
			schema.SubjectOpt(subject),
			schema.SchemaIdentifierOpt(si),
		)
		assert.ErrorIs(t, err, assert.AnError)
	})

	t.Run("EncodeDecode", func(t *testing.T) {
		si := new(MockSchemaIdentifier)
		si.On(
			"DetermineID", t.Context(), subject, schema.CatalogItemSchemaTextV1,
		).Return(7, nil)

		serde, err := schema.NewSerdeCatalogItemV1(
			t.Context(),
			schema.SubjectOpt(subject),
			schema.SchemaIdentifierOpt(si),
		)
		require.NoError(t, err)

		v1 := schema.CatalogItemV1{
			ID:          "2b1f",
			Name:        "Women's Organic Cotton Dress",
			Price:       "$129.00",
			RawCategory: "Dresses",
			Category:    "Dresses",
			ImageURL:    "https://cdn.example/dress.jpg",
			Link:        "https://shop.example/dress",
			Company:     "Made Trade",
			Tags:        []string{"Dresses", "Recycled", "Women's"},
		}

		data, err := serde.Encode(v1)
		require.NoError(t, err)
		// confluent wire header: magic byte and big endian schema id
		require.Greater(t, len(data), 5)
		assert.Equal(t, []byte{0, 0, 0, 0, 7}, data[:5])

		var v2 schema.CatalogItemV1
		require.NoError(t, serde.Decode(data, &v2))
		assert.Equal(t, v1, v2)
	})
}

func TestSerdeCompanyStatsV1(t *testing.T) {
	const subject = "company-stats-value"

	si := new(MockSchemaIdentifier)
	si.On(
		"DetermineID", t.Context(), subject, schema.CompanyStatsSchemaTextV1,
	).Return(3, nil)

	serde, err := schema.NewSerdeCompanyStatsV1(
		t.Context(),
		schema.SubjectOpt(subject),
		schema.SchemaIdentifierOpt(si),
	)
	require.NoError(t, err)

	v1 := schema.CompanyStatsV1{Company: "Patagonia", Items: 12, LastItemID: "x"}
	data, err := serde.Encode(v1)
	require.NoError(t, err)

	var v2 schema.CompanyStatsV1
	require.NoError(t, serde.Decode(data, &v2))
	assert.Equal(t, v1, v2)
}
