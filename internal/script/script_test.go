package script

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/tabledb"
	"github.com/hupe1980/tabledb/blobstore"
	"github.com/hupe1980/tabledb/result"
	"github.com/hupe1980/tabledb/types"
)

const basicScript = `
steps:
  - create_table:
      name: t
      columns:
        c1: int, primary key, not null
        c2: varchar
        emb: vector,2,float
  - insert:
      table: t
      rows:
        - {c1: 1, c2: a, emb: [1.0, 2.0]}
        - {c1: 2, c2: b}
  - delete: {table: t, where: "c1 = 1"}
  - output: {table: t, columns: [c1, c2]}
`

func run(t *testing.T, src string, optFns ...RunnerOption) (string, *tabledb.Catalog, error) {
	t.Helper()
	s, err := Parse([]byte(src))
	require.NoError(t, err)

	cat := tabledb.NewCatalog()
	var out bytes.Buffer
	optFns = append([]RunnerOption{WithFormat(result.FormatRows)}, optFns...)
	err = NewRunner(cat, &out, optFns...).Run(context.Background(), s)
	return out.String(), cat, err
}

func TestParse(t *testing.T) {
	s, err := Parse([]byte(basicScript))
	require.NoError(t, err)
	require.Len(t, s.Steps, 4)

	ct := s.Steps[0].CreateTable
	require.NotNil(t, ct)
	require.Len(t, ct.Columns, 3)
	assert.Equal(t, []string{"c1", "c2", "emb"}, []string{ct.Columns[0].Name, ct.Columns[1].Name, ct.Columns[2].Name})
	assert.True(t, ct.Columns[0].IsPrimaryKey())
	assert.Equal(t, types.VectorType(types.TypeFloat32, 2), ct.Columns[2].Type)

	assert.Equal(t, "insert", s.Steps[1].Kind())
	assert.Equal(t, "delete", s.Steps[2].Kind())
	assert.Equal(t, "output", s.Steps[3].Kind())
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{"unknown key", "steps:\n  - frobnicate: {}\n", ErrScript},
		{"empty step", "steps:\n  - {}\n", ErrScript},
		{"two actions", "steps:\n  - {describe: {table: t}, drop_table: {name: t}}\n", ErrScript},
		{"columns not a mapping", "steps:\n  - create_table: {name: t, columns: [a]}\n", ErrScript},
		{"bad column type", "steps:\n  - create_table: {name: t, columns: {c1: blob}}\n", types.ErrSchema},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src))
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestParse_Empty(t *testing.T) {
	s, err := Parse(nil)
	require.NoError(t, err)
	assert.Empty(t, s.Steps)
}

func TestRunner_Basic(t *testing.T) {
	out, cat, err := run(t, basicScript)
	require.NoError(t, err)

	assert.Equal(t, "created table t\n"+
		"inserted 2 rows into t\n"+
		"deleted 1 rows from t\n"+
		"c1  c2\n"+
		"2   b\n", out)

	tbl, err := cat.Default().Table("t")
	require.NoError(t, err)
	assert.Equal(t, int64(1), tbl.Len())
}

func TestRunner_UpdateDescribeDrop(t *testing.T) {
	out, cat, err := run(t, `
database: sales
steps:
  - create_table: {name: t, columns: {c1: "int, primary key", c2: int}}
  - insert: {table: t, rows: [{c1: 1, c2: 10}, {c1: 2, c2: 20}]}
  - update: {table: t, where: "c1 = 2", set: {c2: 99}}
  - output: {table: t, columns: ["*"], format: rows}
  - describe: {table: t}
  - drop_table: {name: t}
  - drop_table: {name: t, if_exists: true}
`)
	require.NoError(t, err)

	assert.Contains(t, out, "updated 1 rows in t\n")
	assert.Contains(t, out, "2   99\n")
	assert.Contains(t, out, "column_name  column_type  constraint\n")
	assert.Contains(t, out, "dropped table t\n")

	db, err := cat.Database("sales")
	require.NoError(t, err)
	assert.Empty(t, db.ListTables())
}

func TestRunner_StepError(t *testing.T) {
	out, _, err := run(t, `
steps:
  - create_table: {name: t, columns: {c1: "int, primary key"}}
  - insert: {table: t, rows: [{c1: 1}, {c1: 1}]}
  - output: {table: t}
`)
	require.ErrorIs(t, err, tabledb.ErrDuplicateKey)
	assert.Contains(t, err.Error(), "step 2 (insert)")
	assert.Equal(t, "created table t\n", out)
}

func TestRunner_UnknownTable(t *testing.T) {
	_, _, err := run(t, "steps:\n  - describe: {table: nope}\n")
	require.ErrorIs(t, err, tabledb.ErrTableNotFound)
}

func TestRunner_Formats(t *testing.T) {
	src := `
steps:
  - create_table: {name: t, columns: {c1: int}}
  - insert: {table: t, rows: [{c1: 7}]}
  - output: {table: t, format: frame}
  - output: {table: t, format: arrow}
`
	out, _, err := run(t, src)
	require.NoError(t, err)
	assert.Contains(t, out, "int32")
	assert.Contains(t, out, "c1: [7]")
}

func TestRunner_Export(t *testing.T) {
	store := blobstore.NewMemoryStore()
	out, _, err := run(t, `
steps:
  - create_table: {name: t, columns: {c1: int, c2: varchar}}
  - insert: {table: t, rows: [{c1: 1, c2: x}, {c1: 2}]}
  - export: {table: t, path: out/t.csv, format: csv}
`, WithBlobStore(store))
	require.NoError(t, err)
	assert.Contains(t, out, "exported 2 rows")

	data, err := store.Get("out/t.csv")
	require.NoError(t, err)
	assert.Equal(t, "c1,c2\n1,x\n2,\n", string(data))
}

func TestRunner_ExportWithoutStore(t *testing.T) {
	_, _, err := run(t, `
steps:
  - create_table: {name: t, columns: {c1: int}}
  - export: {table: t, path: t.csv}
`)
	require.ErrorIs(t, err, ErrScript)
}
