package tabledb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/tabledb/types"
)

func TestCatalog_Databases(t *testing.T) {
	cat := NewCatalog()
	assert.Equal(t, []string{DefaultDatabase}, cat.ListDatabases())

	db, err := cat.CreateDatabase("analytics", ConflictError)
	require.NoError(t, err)
	assert.Equal(t, "analytics", db.Name())

	_, err = cat.CreateDatabase("analytics", ConflictError)
	assert.ErrorIs(t, err, ErrDatabaseExists)
	again, err := cat.CreateDatabase("analytics", ConflictIgnore)
	require.NoError(t, err)
	assert.Same(t, db, again)

	assert.Equal(t, []string{"analytics", DefaultDatabase}, cat.ListDatabases())

	require.NoError(t, cat.DropDatabase("analytics", false))
	assert.ErrorIs(t, cat.DropDatabase("analytics", false), ErrDatabaseNotFound)
	assert.NoError(t, cat.DropDatabase("analytics", true))

	_, err = cat.Database("analytics")
	assert.ErrorIs(t, err, ErrDatabaseNotFound)
}

func TestCatalog_Tables(t *testing.T) {
	ctx := context.Background()
	cat := NewCatalog(WithBlockCapacity(8))
	db := cat.Default()
	schema := types.MustSchema(types.Col("c1", types.Int32Type, types.PrimaryKey))

	tbl, err := db.CreateTable("t", schema, ConflictError)
	require.NoError(t, err)
	_, err = tbl.InsertRows(ctx, [][]any{{1}})
	require.NoError(t, err)

	_, err = db.CreateTable("t", schema, ConflictError)
	assert.ErrorIs(t, err, ErrTableExists)
	same, err := db.CreateTable("t", schema, ConflictIgnore)
	require.NoError(t, err)
	assert.Same(t, tbl, same)

	_, err = db.CreateTable("bad", nil, ConflictError)
	assert.ErrorIs(t, err, ErrSchema)

	_, err = db.CreateTable("u", schema, ConflictError)
	require.NoError(t, err)
	assert.Equal(t, []string{"t", "u"}, db.ListTables())

	info, err := db.DescribeTable("t")
	require.NoError(t, err)
	assert.Equal(t, []ColumnInfo{{Name: "c1", Type: "Int32", Constraint: "PrimaryKey,NotNull"}}, info)

	got, err := db.Table("t")
	require.NoError(t, err)
	assert.Same(t, tbl, got)

	require.NoError(t, db.DropTable("t", false))
	assert.True(t, tbl.Dropped())
	assert.ErrorIs(t, db.DropTable("t", false), ErrTableNotFound)
	assert.NoError(t, db.DropTable("t", true))
	_, err = db.Table("t")
	assert.ErrorIs(t, err, ErrTableNotFound)
	_, err = db.DescribeTable("t")
	assert.ErrorIs(t, err, ErrTableNotFound)
}

func TestCatalog_Close(t *testing.T) {
	cat := NewCatalog()
	tbl, err := cat.Default().CreateTable("t", types.MustSchema(types.Col("a", types.BoolType)), ConflictError)
	require.NoError(t, err)

	require.NoError(t, cat.Close())
	assert.True(t, tbl.Dropped())
	assert.Empty(t, cat.ListDatabases())
	assert.Nil(t, cat.Default())
}
