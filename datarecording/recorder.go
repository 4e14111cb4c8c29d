// Package datarecording stores simulation records in a SQLite database.
package datarecording

import (
	"database/sql"
	"errors"
	"fmt"
	"maps"
	"os"
	"reflect"
	"slices"
	"strings"

	"github.com/fatih/structs"
	// Registers the sqlite3 driver.
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/xid"
	"github.com/tebeka/atexit"
	"go.uber.org/zap"
)

var (
	// ErrTableExists is returned when a table is created twice.
	ErrTableExists = errors.New("table already exists")

	// ErrNoSuchTable is returned when inserting into a table that was never
	// created.
	ErrNoSuchTable = errors.New("no such table")

	// ErrUnsupportedRow is returned for rows that are not flat structs.
	ErrUnsupportedRow = errors.New("row must be a struct of scalar fields")

	// ErrFileExists is returned when the database file is already there.
	ErrFileExists = errors.New("database file already exists")
)

// A Recorder writes rows into named tables. Rows are flat structs; each field
// becomes a column named after the field.
type Recorder interface {
	// CreateTable creates a table whose columns follow the fields of sample.
	CreateTable(table string, sample any) error

	// Insert buffers a row. The row must have the same type as the sample the
	// table was created with.
	Insert(table string, row any) error

	// Tables returns the names of the tables created so far, sorted.
	Tables() []string

	// Flush writes the buffered rows.
	Flush() error

	// Close flushes and closes the database.
	Close() error
}

// An Option tunes a recorder.
type Option func(r *sqliteRecorder)

// WithBatchSize sets how many rows are buffered before they are flushed.
func WithBatchSize(n int) Option {
	return func(r *sqliteRecorder) {
		if n > 0 {
			r.batchSize = n
		}
	}
}

// WithLogger sets the logger of the recorder.
func WithLogger(l *zap.Logger) Option {
	return func(r *sqliteRecorder) {
		r.logger = l
	}
}

type table struct {
	rowType reflect.Type
	rows    []any
}

type sqliteRecorder struct {
	db *sql.DB

	tables    map[string]*table
	batchSize int
	buffered  int
	closed    bool
	logger    *zap.Logger
}

// Open creates a new database file at path + ".sqlite3". An empty path picks
// a unique name. Buffered rows are flushed when the program exits through
// atexit.
func Open(path string, opts ...Option) (Recorder, error) {
	if path == "" {
		path = "kitchen_run_" + xid.New().String()
	}

	filename := path + ".sqlite3"
	if _, err := os.Stat(filename); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrFileExists, filename)
	}

	db, err := sql.Open("sqlite3", filename)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filename, err)
	}

	r := newRecorder(db, opts...)
	r.logger.Info("recording to database", zap.String("file", filename))

	atexit.Register(func() {
		if err := r.Close(); err != nil {
			r.logger.Error("cannot close recorder", zap.Error(err))
		}
	})

	return r, nil
}

// OpenDB creates a recorder that writes into an already opened database.
func OpenDB(db *sql.DB, opts ...Option) Recorder {
	return newRecorder(db, opts...)
}

func newRecorder(db *sql.DB, opts ...Option) *sqliteRecorder {
	r := &sqliteRecorder{
		db:        db,
		tables:    make(map[string]*table),
		batchSize: 10000,
		logger:    zap.NewNop(),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

func columnType(k reflect.Kind) (string, bool) {
	switch k {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32:
		return "INTEGER", true
	case reflect.Float32, reflect.Float64:
		return "REAL", true
	case reflect.String:
		return "TEXT", true
	default:
		return "", false
	}
}

func columns(sample any) ([]string, error) {
	t := reflect.TypeOf(sample)
	if t == nil || t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w, got %T", ErrUnsupportedRow, sample)
	}

	names := structs.Names(sample)
	cols := make([]string, 0, len(names))

	for _, name := range names {
		f, _ := t.FieldByName(name)

		sqlType, ok := columnType(f.Type.Kind())
		if !ok {
			return nil, fmt.Errorf("%w: field %s is %s",
				ErrUnsupportedRow, name, f.Type)
		}

		cols = append(cols, name+" "+sqlType)
	}

	return cols, nil
}

func (r *sqliteRecorder) CreateTable(name string, sample any) error {
	if _, ok := r.tables[name]; ok {
		return fmt.Errorf("%w: %s", ErrTableExists, name)
	}

	cols, err := columns(sample)
	if err != nil {
		return fmt.Errorf("create table %s: %w", name, err)
	}

	query := "CREATE TABLE " + name + " (\n\t" + strings.Join(cols, ",\n\t") + "\n)"
	if _, err := r.db.Exec(query); err != nil {
		return fmt.Errorf("create table %s: %w", name, err)
	}

	r.tables[name] = &table{rowType: reflect.TypeOf(sample)}

	return nil
}

func (r *sqliteRecorder) Insert(name string, row any) error {
	t, ok := r.tables[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoSuchTable, name)
	}

	if reflect.TypeOf(row) != t.rowType {
		return fmt.Errorf("insert into %s: %w, got %T", name, ErrUnsupportedRow, row)
	}

	t.rows = append(t.rows, row)
	r.buffered++

	if r.buffered >= r.batchSize {
		return r.Flush()
	}

	return nil
}

func (r *sqliteRecorder) Tables() []string {
	return slices.Sorted(maps.Keys(r.tables))
}

func (r *sqliteRecorder) Flush() error {
	if r.buffered == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("flush: %w", err)
	}

	for _, name := range r.Tables() {
		if err := r.flushTable(tx, name, r.tables[name]); err != nil {
			return errors.Join(fmt.Errorf("flush %s: %w", name, err), tx.Rollback())
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}

	r.logger.Debug("rows flushed", zap.Int("rows", r.buffered))

	for _, t := range r.tables {
		t.rows = nil
	}

	r.buffered = 0

	return nil
}

func (r *sqliteRecorder) flushTable(tx *sql.Tx, name string, t *table) error {
	if len(t.rows) == 0 {
		return nil
	}

	marks := structs.Names(t.rows[0])
	for i := range marks {
		marks[i] = "?"
	}

	stmt, err := tx.Prepare(
		"INSERT INTO " + name + " VALUES (" + strings.Join(marks, ", ") + ")")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, row := range t.rows {
		if _, err := stmt.Exec(structs.Values(row)...); err != nil {
			return err
		}
	}

	return nil
}

func (r *sqliteRecorder) Close() error {
	if r.closed {
		return nil
	}

	r.closed = true

	return errors.Join(r.Flush(), r.db.Close())
}
