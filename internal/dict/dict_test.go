package dict

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"metascan/internal/annotate"
	"metascan/internal/semtype"
)

const ordersDictionary = `<html><body>
<h1>orders</h1>
<table>
  <tr><th>Column</th><th>Type</th><th>Notes</th></tr>
  <tr><td>id</td><td>BIGINT</td><td>surrogate key</td></tr>
  <tr><td>user_email</td><td>varchar(255)</td><td></td></tr>
  <tr><td>total</td><td>numeric(10,2)</td><td></td></tr>
  <tr><td>created_at</td><td>timestamp with time zone</td><td></td></tr>
  <tr><td></td><td>text</td><td>row with no name is skipped</td></tr>
</table>
</body></html>`

func TestParse(t *testing.T) {
	t.Parallel()

	got, err := Parse(ordersDictionary, Options{TableName: "orders", DataSourceID: "ds-pg"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	want := annotate.Table{
		Name:         "orders",
		DataSourceID: "ds-pg",
		Fields: []annotate.Field{
			{Name: "id", StorageType: semtype.Integer},
			{Name: "user_email", StorageType: semtype.Text},
			{Name: "total", StorageType: semtype.Decimal},
			{Name: "created_at", StorageType: semtype.DateTime},
		},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Parse = %+v, want %+v", got, want)
	}
}

func TestParseCustomSelectors(t *testing.T) {
	t.Parallel()

	html := `<ul class="cols">
  <li><span class="n">sku</span> <span class="t">varchar</span></li>
  <li><span class="n">in_stock</span> <span class="t">boolean</span></li>
</ul>`

	got, err := Parse(html, Options{
		TableName:    "widgets",
		RowSelector:  "ul.cols li",
		NameSelector: "span.n",
		TypeSelector: "span.t",
	})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := []annotate.Field{
		{Name: "sku", StorageType: semtype.Text},
		{Name: "in_stock", StorageType: semtype.Boolean},
	}
	if !reflect.DeepEqual(got.Fields, want) {
		t.Errorf("fields = %+v, want %+v", got.Fields, want)
	}
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	if _, err := Parse(ordersDictionary, Options{}); err == nil {
		t.Error("Parse accepted an empty table name")
	}
	if _, err := Parse("<html><body><p>no tables here</p></body></html>", Options{TableName: "orders"}); err == nil {
		t.Error("Parse accepted a page with no column rows")
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "orders.html")
	if err := os.WriteFile(path, []byte(ordersDictionary), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := Load(path, Options{TableName: "orders"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got.Fields) != 4 {
		t.Errorf("Load returned %d fields, want 4", len(got.Fields))
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.html"), Options{TableName: "orders"}); err == nil {
		t.Error("Load succeeded on a missing file")
	}
}

func TestStorageTypeFromDeclared(t *testing.T) {
	t.Parallel()

	cases := []struct {
		declared string
		want     semtype.Type
	}{
		{"VARCHAR(255)", semtype.Text},
		{"text", semtype.Text},
		{"uuid", semtype.Text},
		{"BIGINT", semtype.Integer},
		{"smallint", semtype.Integer},
		{"serial", semtype.Integer},
		{"double precision", semtype.Float},
		{"real", semtype.Float},
		{"numeric(10,2)", semtype.Decimal},
		{"money", semtype.Decimal},
		{"boolean", semtype.Boolean},
		{"bit", semtype.Boolean},
		{"date", semtype.Date},
		{"time with time zone", semtype.Time},
		{"timestamp", semtype.DateTime},
		{"timestamp with time zone", semtype.DateTime},
		{"DATETIME2", semtype.DateTime},
		{"", semtype.Text},
		{"geography", semtype.Text},
	}
	for _, tc := range cases {
		if got := StorageTypeFromDeclared(tc.declared); got != tc.want {
			t.Errorf("StorageTypeFromDeclared(%q) = %q, want %q", tc.declared, got, tc.want)
		}
	}
}
