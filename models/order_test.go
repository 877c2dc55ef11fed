package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderJSONKeepsUnknownFields(t *testing.T) {
	in := `{"order_number":"LCF-100001","source":"web","items":[{"product_id":"cf","quantity":1,"total":12.5,"note":{"cut":"fillet"}}]}`

	var o Order
	require.NoError(t, json.Unmarshal([]byte(in), &o))
	assert.Equal(t, "LCF-100001", o.OrderNumber)
	assert.Equal(t, Extra{"source": "web"}, o.Extra)
	require.Len(t, o.Items, 1)
	assert.Equal(t, 1, o.Items[0].Quantity)
	assert.Equal(t, 12.5, o.Items[0].Extra["total"])
	assert.NotContains(t, o.Items[0].Extra, "quantity")

	out, err := json.Marshal(o)
	require.NoError(t, err)
	var back map[string]any
	require.NoError(t, json.Unmarshal(out, &back))
	assert.Equal(t, "web", back["source"])
	item := back["items"].([]any)[0].(map[string]any)
	assert.Equal(t, 12.5, item["total"])
	assert.Equal(t, map[string]any{"cut": "fillet"}, item["note"])
}

func TestOrderJSONWithoutExtra(t *testing.T) {
	var o Order
	require.NoError(t, json.Unmarshal([]byte(`{"customer_name":"Ada"}`), &o))
	assert.Nil(t, o.Extra)

	out, err := json.Marshal(OrderItem{ProductID: "cf"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"product_id":"cf","product_name":"","quantity":0,"price":null,"line_total":0}`, string(out))
}

func TestAppendExtraToEmptyObject(t *testing.T) {
	out, err := appendExtra([]byte("{}"), Extra{"b": 2, "a": "x"})
	require.NoError(t, err)
	assert.Equal(t, `{"a":"x","b":2}`, string(out))
}

func TestOrderJSONNullIsNoop(t *testing.T) {
	o := Order{CustomerName: "Ada"}
	require.NoError(t, o.UnmarshalJSON([]byte("null")))
	assert.Equal(t, "Ada", o.CustomerName)
}
