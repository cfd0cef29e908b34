package graph

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2/ast"
)

func TestFromAny(t *testing.T) {
	v, err := FromAny(map[string]any{
		"name":  "Widget",
		"price": json.Number("9.990"),
		"qty":   json.Number("10"),
		"note":  nil,
	})
	require.NoError(t, err)
	require.Equal(t, KindObject, v.Kind())
	assert.Equal(t, []string{"name", "note", "price", "qty"}, v.FieldNames())

	name, _ := v.Field("name")
	text, ok := name.AsText()
	assert.True(t, ok)
	assert.Equal(t, "Widget", text)

	price, _ := v.Field("price")
	assert.Equal(t, KindDecimal, price.Kind())
	d, ok := price.AsDecimal()
	assert.True(t, ok)
	assert.True(t, d.Equal(decimal.RequireFromString("9.99")))

	qty, _ := v.Field("qty")
	i, ok := qty.AsInt()
	assert.True(t, ok)
	assert.Equal(t, int64(10), i)

	note, _ := v.Field("note")
	assert.True(t, note.IsNull())

	_, err = FromAny([]string{"a"})
	require.Error(t, err)
}

func TestFromAny_FloatFallback(t *testing.T) {
	v, err := FromAny(float64(3))
	require.NoError(t, err)
	assert.Equal(t, KindInt, v.Kind())

	v, err = FromAny(2.5)
	require.NoError(t, err)
	assert.Equal(t, KindDecimal, v.Kind())
	assert.Equal(t, "2.5", v.String())
}

func TestFromAST(t *testing.T) {
	literal := &ast.Value{Kind: ast.ObjectValue, Children: ast.ChildValueList{
		{Name: "name", Value: &ast.Value{Kind: ast.StringValue, Raw: "Widget"}},
		{Name: "price", Value: &ast.Value{Kind: ast.FloatValue, Raw: "0.10"}},
		{Name: "quantityInStock", Value: &ast.Value{Kind: ast.Variable, Raw: "qty"}},
	}}

	v, err := FromAST(literal, map[string]any{"qty": json.Number("4")})
	require.NoError(t, err)
	assert.Equal(t, `{name: "Widget", price: 0.1, quantityInStock: 4}`, v.String())

	_, err = FromAST(&ast.Value{Kind: ast.IntValue, Raw: "99999999999999999999"}, nil)
	require.Error(t, err)

	missing, err := FromAST(&ast.Value{Kind: ast.Variable, Raw: "absent"}, nil)
	require.NoError(t, err)
	assert.True(t, missing.IsNull())
}

func TestValue_WrongKindAccessors(t *testing.T) {
	v := Text("x")
	_, ok := v.AsInt()
	assert.False(t, ok)
	_, ok = v.AsDecimal()
	assert.False(t, ok)
	_, ok = v.Field("x")
	assert.False(t, ok)

	widened, ok := Int(7).AsDecimal()
	assert.True(t, ok)
	assert.Equal(t, "7", widened.String())
}
