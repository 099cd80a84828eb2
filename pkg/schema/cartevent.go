package schema

import "github.com/hamba/avro/v2"

const CartEventSchemaTextV1 = `{
	"type": "record",
	"namespace": "cart",
	"name": "cart_event",
	"fields" : [
		{"name": "action", "type": "string"},
		{"name": "product_id", "type": "string"},
		{"name": "title", "type": "string"},
		{"name": "line_id", "type": "string"},
		{"name": "quantity", "type": "int"},
		{"name": "subtotal", "type": "string"},
		{"name": "total", "type": "string"}
	]
}`

type CartEventV1 struct {
	Action    string `avro:"action"`
	ProductID string `avro:"product_id"`
	Title     string `avro:"title"`
	LineID    string `avro:"line_id"`
	Quantity  int    `avro:"quantity"`
	Subtotal  string `avro:"subtotal"`
	Total     string `avro:"total"`
}

func CartEventV1Avro() avro.Schema {
	return avro.MustParse(CartEventSchemaTextV1)
}
