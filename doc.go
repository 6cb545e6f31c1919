// Package tabledb provides an embeddable, in-memory columnar table engine.
//
// Tables have a fixed schema of scalar and fixed-dimension vector columns.
// Rows are appended into fixed-capacity blocks grouped into segments;
// deletes flip a per-block tombstone bit and never move data. Query results
// are materialized as owned, type-stable column sets that convert into
// row-major rows, Arrow record batches, or typed data-frames.
//
// # Quick Start
//
//	schema := types.MustSchema(
//	    types.Col("c1", types.Int32Type, types.PrimaryKey),
//	    types.Col("c2", types.VarcharType),
//	    types.Col("emb", types.VectorType(types.TypeFloat32, 3)),
//	)
//	tbl, _ := tabledb.NewTable("t", schema)
//
//	_, err := tbl.Insert(ctx, []tabledb.Row{
//	    {"c1": 1, "c2": "a", "emb": []float32{1, 2, 3}},
//	    {"c1": 2, "c2": "b"},
//	})
//
//	res, _ := tbl.Delete(ctx, "c1 = 1")
//	out, _ := tbl.Output(ctx, result.FormatArrow, "c1", "c2", "c1")
//	rec := out.(arrow.Record)
//	defer rec.Release()
//
// # Predicates
//
// Delete and Update accept a flat predicate of comparisons joined by AND
// and OR, evaluated left to right:
//
//	c1 >= 10 AND c2 != 'x' OR flag = true
//
// Predicates are bound against the schema before any row is touched, so
// an unknown column or an incompatible literal fails without side effects.
// Build them programmatically with the predicate package.
//
// # Catalog
//
// A Catalog groups tables into named databases:
//
//	cat := tabledb.NewCatalog(tabledb.WithBlockCapacity(1024))
//	db := cat.Default()
//	tbl, _ := db.CreateTable("t", schema, tabledb.ConflictIgnore)
//
// # Resources
//
// Block memory is charged to an optional resource.Controller shared by all
// tables created with WithResourceController. Exports are throttled by the
// same controller's IO limit.
//
// # Errors
//
// Failures wrap the sentinel errors re-exported by this package; test them
// with errors.Is. Table operations wrap their cause in *OpError.
package tabledb
