package tabledb

import (
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/hupe1980/tabledb/types"
)

// DefaultDatabase is the database every Catalog starts with.
const DefaultDatabase = "default"

// ConflictMode selects what a create does when the name is taken.
type ConflictMode int

const (
	// ConflictError fails with ErrTableExists or ErrDatabaseExists.
	ConflictError ConflictMode = iota
	// ConflictIgnore returns the existing object.
	ConflictIgnore
)

// Catalog maps database names to databases of tables.
//
// Catalog is safe for concurrent use.
type Catalog struct {
	mu     sync.RWMutex
	dbs    map[string]*Database
	optFns []Option
}

// NewCatalog creates a catalog holding an empty DefaultDatabase. optFns
// apply to every table created through it.
func NewCatalog(optFns ...Option) *Catalog {
	c := &Catalog{
		dbs:    make(map[string]*Database),
		optFns: optFns,
	}
	c.dbs[DefaultDatabase] = newDatabase(DefaultDatabase, optFns)
	return c
}

// CreateDatabase creates an empty database.
func (c *Catalog) CreateDatabase(name string, mode ConflictMode) (*Database, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty database name", ErrSchema)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if db, ok := c.dbs[name]; ok {
		if mode == ConflictIgnore {
			return db, nil
		}
		return nil, fmt.Errorf("%w: %s", ErrDatabaseExists, name)
	}
	db := newDatabase(name, c.optFns)
	c.dbs[name] = db
	return db, nil
}

// DropDatabase drops a database and all of its tables.
func (c *Catalog) DropDatabase(name string, ifExists bool) error {
	c.mu.Lock()
	db, ok := c.dbs[name]
	delete(c.dbs, name)
	c.mu.Unlock()

	if !ok {
		if ifExists {
			return nil
		}
		return fmt.Errorf("%w: %s", ErrDatabaseNotFound, name)
	}
	db.dropAll()
	return nil
}

// Database returns the named database.
func (c *Catalog) Database(name string) (*Database, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	db, ok := c.dbs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrDatabaseNotFound, name)
	}
	return db, nil
}

// Default returns the default database. It returns nil once the default
// database has been dropped.
func (c *Catalog) Default() *Database {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.dbs[DefaultDatabase]
}

// ListDatabases returns the database names in sorted order.
func (c *Catalog) ListDatabases() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Sorted(maps.Keys(c.dbs))
}

// Close drops every database.
func (c *Catalog) Close() error {
	c.mu.Lock()
	dbs := c.dbs
	c.dbs = make(map[string]*Database)
	c.mu.Unlock()

	for _, db := range dbs {
		db.dropAll()
	}
	return nil
}

// Database is a named set of tables.
type Database struct {
	name   string
	mu     sync.RWMutex
	tables map[string]*Table
	optFns []Option
}

func newDatabase(name string, optFns []Option) *Database {
	return &Database{
		name:   name,
		tables: make(map[string]*Table),
		optFns: optFns,
	}
}

// Name returns the database name.
func (d *Database) Name() string { return d.name }

// CreateTable creates an empty table. With ConflictIgnore an existing table
// of the same name is returned unchanged.
func (d *Database) CreateTable(name string, schema *types.Schema, mode ConflictMode) (*Table, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if t, ok := d.tables[name]; ok {
		if mode == ConflictIgnore {
			return t, nil
		}
		return nil, fmt.Errorf("%w: %s.%s", ErrTableExists, d.name, name)
	}
	t, err := NewTable(name, schema, d.optFns...)
	if err != nil {
		return nil, err
	}
	d.tables[name] = t
	return t, nil
}

// DropTable removes and drops a table.
func (d *Database) DropTable(name string, ifExists bool) error {
	d.mu.Lock()
	t, ok := d.tables[name]
	delete(d.tables, name)
	d.mu.Unlock()

	if !ok {
		if ifExists {
			return nil
		}
		return fmt.Errorf("%w: %s.%s", ErrTableNotFound, d.name, name)
	}
	t.Drop()
	return nil
}

// Table returns the named table.
func (d *Database) Table(name string) (*Table, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	t, ok := d.tables[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrTableNotFound, d.name, name)
	}
	return t, nil
}

// ListTables returns the table names in sorted order.
func (d *Database) ListTables() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return slices.Sorted(maps.Keys(d.tables))
}

// DescribeTable describes the named table's columns.
func (d *Database) DescribeTable(name string) ([]ColumnInfo, error) {
	t, err := d.Table(name)
	if err != nil {
		return nil, err
	}
	return t.Describe()
}

func (d *Database) dropAll() {
	d.mu.Lock()
	tables := d.tables
	d.tables = make(map[string]*Table)
	d.mu.Unlock()

	for _, t := range tables {
		t.Drop()
	}
}
