package schema_test

import (
	"context"
	"testing"

	"github.com/ifmais/storefront/pkg/schema"
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

func TestSerdeCartEventV1(t *testing.T) {

	t.Run("NoOpts", func(t *testing.T) {
		_, err := schema.NewSerdeCartEventV1(t.Context())
		require.Error(t, err)
		assert.ErrorIs(t, err, schema.ErrTooFewOpts)
	})

	t.Run("OneOpt", func(t *testing.T) {
		_, err := schema.NewSerdeCartEventV1(
			t.Context(),
			schema.SchemaIdentifierOpt(new(MockSchemaIdentifier)),
		)
		require.Error(t, err)
		assert.ErrorIs(t, err, schema.ErrTooFewOpts)
	})

	t.Run("IdentifierAndSubjectOpts", func(t *testing.T) {
		schemaIdentifier := new(MockSchemaIdentifier)
		schemaID := 1
		subject := "testTopic-value"

		schemaIdentifier.On(
			"DetermineID", t.Context(), subject, schema.CartEventSchemaTextV1,
		).Return(schemaID, nil)

		_, err := schema.NewSerdeCartEventV1(
			t.Context(),
			schema.SubjectOpt(subject),
			schema.SchemaIdentifierOpt(schemaIdentifier),
		)
		require.NoError(t, err)
	})

	t.Run("EncodeDecode", func(t *testing.T) {
		schemaIdentifier := new(MockSchemaIdentifier)
		schemaID := 1
		subject := "testTopic-value"

		schemaIdentifier.On(
			"DetermineID", t.Context(), subject, schema.CartEventSchemaTextV1,
		).Return(schemaID, nil)

		serde, err := schema.NewSerdeCartEventV1(
			t.Context(),
			schema.SubjectOpt(subject),
			schema.SchemaIdentifierOpt(schemaIdentifier),
		)
		require.NoError(t, err)

		eventValue1 := schema.CartEventV1{
			Action:    "line_added",
			ProductID: "1",
			Title:     "Brigadeiro Gourmet",
			LineID:    "testLineID",
			Quantity:  2,
			Subtotal:  "9.00",
			Total:     "15.00",
		}

		encodedData, err := serde.Encode(eventValue1)
		require.NoError(t, err)

		var eventValue2 schema.CartEventV1
		err = serde.Decode(encodedData, &eventValue2)
		require.NoError(t, err)

		assert.Equal(t, eventValue1, eventValue2)
	})
}

func TestCartEventV1Avro(t *testing.T) {
	require.NotPanics(t, func() {
		s := schema.CartEventV1Avro()
		assert.NotNil(t, s)
	})
}

func TestAvroCodecFns(t *testing.T) {
	s := schema.CartEventV1Avro()
	encode := schema.AvroEncodeFn(s)
	decode := schema.AvroDecodeFn(s)

	in := schema.CartEventV1{
		Action:    "quantity_changed",
		ProductID: "3",
		Title:     "Trufa de Chocolate",
		LineID:    "testLineID",
		Quantity:  3,
		Subtotal:  "18.00",
		Total:     "18.00",
	}

	data, err := encode(in)
	require.NoError(t, err)

	var out schema.CartEventV1
	require.NoError(t, decode(data, &out))
	assert.Equal(t, in, out)
}
