package script

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/apache/arrow-go/v18/arrow"

	"github.com/hupe1980/tabledb"
	"github.com/hupe1980/tabledb/blobstore"
	"github.com/hupe1980/tabledb/export"
	"github.com/hupe1980/tabledb/result"
	"github.com/hupe1980/tabledb/types"
)

// Runner executes scripts against a catalog and prints step results.
type Runner struct {
	cat    *tabledb.Catalog
	out    io.Writer
	format result.Format
	store  blobstore.BlobStore
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithFormat sets the default output format. Default result.FormatFrame.
func WithFormat(f result.Format) RunnerOption {
	return func(r *Runner) {
		r.format = f
	}
}

// WithBlobStore sets the destination of export steps. Without one, export
// steps fail.
func WithBlobStore(s blobstore.BlobStore) RunnerOption {
	return func(r *Runner) {
		r.store = s
	}
}

// NewRunner creates a Runner writing to out.
func NewRunner(cat *tabledb.Catalog, out io.Writer, optFns ...RunnerOption) *Runner {
	r := &Runner{
		cat:    cat,
		out:    out,
		format: result.FormatFrame,
	}
	for _, fn := range optFns {
		fn(r)
	}
	return r
}

// Run executes the steps in order and stops at the first failure.
func (r *Runner) Run(ctx context.Context, s *Script) error {
	if err := s.Validate(); err != nil {
		return err
	}
	db, err := r.database(s.Database)
	if err != nil {
		return err
	}
	for i, st := range s.Steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.step(ctx, db, st); err != nil {
			return fmt.Errorf("step %d (%s): %w", i+1, st.Kind(), err)
		}
	}
	return nil
}

func (r *Runner) database(name string) (*tabledb.Database, error) {
	if name == "" {
		name = tabledb.DefaultDatabase
	}
	return r.cat.CreateDatabase(name, tabledb.ConflictIgnore)
}

func (r *Runner) step(ctx context.Context, db *tabledb.Database, st Step) error {
	switch {
	case st.CreateTable != nil:
		return r.createTable(db, st.CreateTable)
	case st.Insert != nil:
		return r.insert(ctx, db, st.Insert)
	case st.Delete != nil:
		return r.delete(ctx, db, st.Delete)
	case st.Update != nil:
		return r.update(ctx, db, st.Update)
	case st.Output != nil:
		return r.output(ctx, db, st.Output)
	case st.Describe != nil:
		return r.describe(db, st.Describe)
	case st.DropTable != nil:
		return r.dropTable(db, st.DropTable)
	default:
		return r.export(ctx, db, st.Export)
	}
}

func (r *Runner) createTable(db *tabledb.Database, a *CreateTable) error {
	schema, err := types.NewSchema(a.Columns...)
	if err != nil {
		return err
	}
	mode := tabledb.ConflictError
	if a.IfNotExists {
		mode = tabledb.ConflictIgnore
	}
	if _, err := db.CreateTable(a.Name, schema, mode); err != nil {
		return err
	}
	_, err = fmt.Fprintf(r.out, "created table %s\n", a.Name)
	return err
}

func (r *Runner) insert(ctx context.Context, db *tabledb.Database, a *Insert) error {
	tbl, err := db.Table(a.Table)
	if err != nil {
		return err
	}
	rows := make([]tabledb.Row, len(a.Rows))
	for i, m := range a.Rows {
		rows[i] = tabledb.Row(m)
	}
	res, err := tbl.Insert(ctx, rows)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(r.out, "inserted %d rows into %s\n", res.Inserted, a.Table)
	return err
}

func (r *Runner) delete(ctx context.Context, db *tabledb.Database, a *Delete) error {
	tbl, err := db.Table(a.Table)
	if err != nil {
		return err
	}
	res, err := tbl.Delete(ctx, a.Where)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(r.out, "deleted %d rows from %s\n", res.Deleted, a.Table)
	return err
}

func (r *Runner) update(ctx context.Context, db *tabledb.Database, a *Update) error {
	tbl, err := db.Table(a.Table)
	if err != nil {
		return err
	}
	res, err := tbl.Update(ctx, a.Where, tabledb.Row(a.Set))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(r.out, "updated %d rows in %s\n", res.Updated, a.Table)
	return err
}

func (r *Runner) output(ctx context.Context, db *tabledb.Database, a *Output) error {
	tbl, err := db.Table(a.Table)
	if err != nil {
		return err
	}
	format := r.format
	if a.Format != "" {
		if format, err = result.ParseFormat(a.Format); err != nil {
			return err
		}
	}
	columns := a.Columns
	if columns == nil {
		columns = []string{"*"}
	}
	out, err := tbl.Output(ctx, format, columns...)
	if err != nil {
		return err
	}
	return r.print(out)
}

func (r *Runner) print(out any) error {
	switch v := out.(type) {
	case *result.Frame:
		_, err := io.WriteString(r.out, v.String())
		return err
	case *result.Rows:
		return writeTable(r.out, v.Columns, v.Data)
	case arrow.Record:
		defer v.Release()
		if _, err := fmt.Fprintf(r.out, "%s\nrows: %d\n", v.Schema(), v.NumRows()); err != nil {
			return err
		}
		for i, col := range v.Columns() {
			if _, err := fmt.Fprintf(r.out, "%s: %v\n", v.ColumnName(i), col); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unexpected output %T", out)
	}
}

func (r *Runner) describe(db *tabledb.Database, a *Describe) error {
	cols, err := db.DescribeTable(a.Table)
	if err != nil {
		return err
	}
	data := make([][]any, len(cols))
	for i, c := range cols {
		data[i] = []any{c.Name, c.Type, c.Constraint}
	}
	return writeTable(r.out, []string{"column_name", "column_type", "constraint"}, data)
}

func (r *Runner) dropTable(db *tabledb.Database, a *DropTable) error {
	if err := db.DropTable(a.Name, a.IfExists); err != nil {
		return err
	}
	_, err := fmt.Fprintf(r.out, "dropped table %s\n", a.Name)
	return err
}

func (r *Runner) export(ctx context.Context, db *tabledb.Database, a *Export) error {
	if r.store == nil {
		return fmt.Errorf("%w: export needs a blob store", ErrScript)
	}
	tbl, err := db.Table(a.Table)
	if err != nil {
		return err
	}
	var opts []export.Option
	if a.Format != "" {
		f, err := export.ParseFormat(a.Format)
		if err != nil {
			return err
		}
		opts = append(opts, export.WithFormat(f))
	}
	if a.Compression != "" {
		c, err := export.ParseCompression(a.Compression)
		if err != nil {
			return err
		}
		opts = append(opts, export.WithCompression(c))
	}
	columns := a.Columns
	if columns == nil {
		columns = []string{"*"}
	}
	stats, err := tbl.Export(ctx, r.store, a.Path, columns, opts...)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(r.out, "exported %d rows (%d bytes) to %s\n", stats.Rows, stats.Bytes, a.Path)
	return err
}

func writeTable(w io.Writer, header []string, data [][]any) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, row := range data {
		cells := make([]string, len(row))
		for i, v := range row {
			if v == nil {
				cells[i] = "null"
			} else {
				cells[i] = fmt.Sprint(v)
			}
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}
