package tree

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retain-io/retain/internal/ir"
)

func TestParse_FlatJSON(t *testing.T) {
	data := []byte(`{
  "Zebra": {"type": "AWS::Lambda::Function", "properties": {"memory": 256}},
  "Alpha": {"type": "AWS::DynamoDB::Table", "properties": {"name": "orders"}}
}`)

	tr, err := Parse(data)
	require.NoError(t, err)

	// Document order survives, not lexicographic order.
	assert.Equal(t, []string{"Zebra", "Alpha"}, tr.IDs())

	rec, ok := tr.Get("Alpha")
	require.True(t, ok)
	assert.Equal(t, "AWS::DynamoDB::Table", rec.Type)
	assert.Equal(t, "orders", rec.Properties["name"])
}

func TestParse_TemplateForm(t *testing.T) {
	data := []byte(`{
  "Resources": {
    "OrdersDb1": {"Type": "AWS::DynamoDB::Table", "Properties": {"BillingMode": "PAY_PER_REQUEST"}},
    "ApiFn1": {"Type": "AWS::Lambda::Function", "Properties": {"Handler": "index.handler"}}
  }
}`)

	tr, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"OrdersDb1", "ApiFn1"}, tr.IDs())

	rec, _ := tr.Get("OrdersDb1")
	assert.Equal(t, "AWS::DynamoDB::Table", rec.Type)
	assert.Equal(t, "PAY_PER_REQUEST", rec.Properties["BillingMode"])
}

func TestParse_YAML(t *testing.T) {
	data := []byte(`
OrdersDb1:
  type: AWS::DynamoDB::Table
  properties:
    name: orders
ApiFn1:
  type: AWS::Lambda::Function
  properties:
    env:
      TABLE:
        ref: OrdersDb1
`)

	tr, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"OrdersDb1", "ApiFn1"}, tr.IDs())

	fn, _ := tr.Get("ApiFn1")
	env := fn.Properties["env"].(map[string]any)
	assert.Equal(t, map[string]any{"ref": "OrdersDb1"}, env["TABLE"])
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse([]byte(`[1, 2, 3]`))
	assert.Error(t, err)

	_, err = Parse([]byte(`{"Fn1": {"properties": {}}}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no type field")

	_, err = Parse([]byte(`{"Fn1": "not a mapping"}`))
	assert.Error(t, err)
}

func TestParse_MissingPropertiesDefaultsEmpty(t *testing.T) {
	tr, err := Parse([]byte(`{"Fn1": {"type": "AWS::Lambda::Function"}}`))
	require.NoError(t, err)

	rec, _ := tr.Get("Fn1")
	assert.NotNil(t, rec.Properties)
	assert.Empty(t, rec.Properties)
}

func TestWriteJSON_RoundTrip(t *testing.T) {
	tr := ir.NewResourceTree()
	tr.Put("Zebra", &ir.ResourceRecord{Type: "AWS::Lambda::Function", Properties: map[string]any{
		"env": map[string]any{"TABLE": map[string]any{"ref": "Alpha"}},
	}})
	tr.Put("Alpha", &ir.ResourceRecord{Type: "AWS::DynamoDB::Table", Properties: map[string]any{}})

	path := filepath.Join(t.TempDir(), "tree.json")
	require.NoError(t, WriteJSON(tr, path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, tr.IDs(), loaded.IDs())

	zebra, _ := loaded.Get("Zebra")
	env := zebra.Properties["env"].(map[string]any)
	assert.Equal(t, map[string]any{"ref": "Alpha"}, env["TABLE"])
}

func TestMarshalJSON_Deterministic(t *testing.T) {
	tr := ir.NewResourceTree()
	tr.Put("Fn1", &ir.ResourceRecord{Type: "AWS::Lambda::Function", Properties: map[string]any{
		"b": 2, "a": 1, "c": 3,
	}})

	first, err := MarshalJSON(tr)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := MarshalJSON(tr)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestMarshalJSON_EmptyTree(t *testing.T) {
	data, err := MarshalJSON(ir.NewResourceTree())
	require.NoError(t, err)
	assert.Equal(t, "{}\n", string(data))
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}

func TestLoad_FromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tree.yaml")
	require.NoError(t, os.WriteFile(path, []byte("Fn1:\n  type: AWS::Lambda::Function\n"), 0644))

	tr, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Fn1"}, tr.IDs())
}
