package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/middlemark/middlemark"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

type DB struct {
	// *gorm.DB's methods are generally unsafe to use.
	// Specifically, some *gorm.DB methods are not thread-safe
	// and mutate the state of the *gorm.DB backing DB.
	//
	// If a *gorm.DB method calls *gorm.DB.getInstance,
	// this appears to render a method "safe" since it creates a new pointer.
	//
	// If a *gorm.DB method does not, be aware.
	// One solution is to use *gorm.DB.Session to force a clean pointer.
	db *gorm.DB
}

// NewDB constructs a *DB from a *gorm.DB.
func NewDB(db *gorm.DB) *DB { return &DB{db: db} }

// DB exposes the underlying *gorm.DB backing DB.
//
// NB: use in exceptional circumstances only.
func (db *DB) DB() *gorm.DB { return db.db }

// Debug prints the current query to the logger.
func (db *DB) Debug() *DB { return &DB{db.db.Debug()} }

// **************************************************************************
// FINISHER METHODS
//
// These methods close out a current query, executing it.
// All finisher methods are terminal and cannot be chained.
// **************************************************************************

// Count returns the number of records matching the current query or an error.
func (db *DB) Count() (int64, error) {
	if db.db.Error != nil {
		return 0, db.db.Error
	}

	var count int64
	if err := db.db.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("%w: %s", middlemark.ErrUnexpected, err)
	}

	return count, nil
}

// Create inserts value into the database, updating value with new data yielding from that insertion.
// Accordingly, almost always, value is a pointer to a struct that is a database table.
//
// If value violates a foreign key constraint defined by the database, ErrNotValid returns.
// If value violates a unique constraint defined by the database, ErrExists returns.
// If value is not a database table, ErrMissingData returns.
func (db *DB) Create(value any) error {
	if db.db.Error != nil {
		return db.db.Error
	}

	if v, ok := value.(Updates); ok {
		if err := v.valid(); err != nil {
			return err
		}

		value = map[string]any(v)
	}

	err := db.db.Session(&gorm.Session{FullSaveAssociations: false}).Create(value).Error
	switch {
	case err == nil:
		return nil

	case errors.Is(err, schema.ErrUnsupportedDataType), errors.Is(err, gorm.ErrInvalidData):
		return fmt.Errorf("%w: %T is not a database table", middlemark.ErrMissingData, value)

	case strings.Contains(err.Error(), violatesFK):
		return fmt.Errorf("%w: %s", middlemark.ErrNotValid, err)

	case errUniqViolation.MatchString(err.Error()):
		return fmt.Errorf("%w: %s", middlemark.ErrExists, err)

	default:
		return fmt.Errorf("%w: failed creating %T: %s", middlemark.ErrUnexpected, value, err)
	}
}

// Delete archives or soft deletes the database record for value.
func (db *DB) Delete(value any) error {
	if db.db.Error != nil {
		return db.db.Error
	}

	res := db.db.Delete(value)
	if errors.Is(res.Error, schema.ErrUnsupportedDataType) {
		return fmt.Errorf("%w: cannot parse table name from %T", middlemark.ErrMissingData, value)
	}

	if res.Error != nil {
		return fmt.Errorf("%w: failed deleting %T: %s", middlemark.ErrUnexpected, value, res.Error)
	}

	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %T", middlemark.ErrNotFound, value)
	}

	return nil
}

// Exists asserts whether any record matches the current query.
func (db *DB) Exists() (bool, error) {
	if db.db.Error != nil {
		return false, db.db.Error
	}

	var exists bool
	// NOTE: without Session, GORM fails to render the current query as a sub-query.
	err := db.db.Raw("SELECT EXISTS(?)", db.db.Session(safeGORMSession)).Scan(&exists).Error
	if err != nil {
		return false, fmt.Errorf("%w: %s", middlemark.ErrUnexpected, err)
	}

	return exists, nil
}

// Find retrieves all records matching the current query and stores them in dest.
//
// If no matches are found, Find returns ErrNotFound.
func (db *DB) Find(dest any) error {
	if db.db.Error != nil {
		return db.db.Error
	}

	res := db.db.Find(dest)
	if res.Error != nil && errSQLSyntax.MatchString(res.Error.Error()) {
		return fmt.Errorf("%w: %s", middlemark.ErrNotValid, res.Error)
	}

	if res.Error != nil {
		return fmt.Errorf("%w: %s", middlemark.ErrUnexpected, res.Error)
	}

	if res.RowsAffected == 0 {
		return fmt.Errorf("%w", middlemark.ErrNotFound)
	}

	return nil
}

// First retrieves a single record from the database matching the query
// and stores it in dest.
//
// If no matches are found, First returns ErrNotFound.
func (db *DB) First(dest any) error {
	if db.db.Error != nil {
		return db.db.Error
	}

	err := db.db.First(dest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w", middlemark.ErrNotFound)
	}

	if err != nil && errSQLSyntax.MatchString(err.Error()) {
		return fmt.Errorf("%w: %s", middlemark.ErrNotValid, err)
	}

	if err != nil {
		return fmt.Errorf("%w: %s", middlemark.ErrUnexpected, err)
	}

	return nil
}

// Paged turns the results of the current query into a paginated version: PagedData.
//
// Paged requires Model to have been called so the element type of the result set
// can be ascertained.
func (db *DB) Paged(page, perPage int64) (PagedData, error) {
	if db.db.Error != nil {
		return PagedData{}, db.db.Error
	}

	model := db.db.Statement.Model
	if model == nil {
		return PagedData{}, fmt.Errorf("%w: must use Model with Paged", middlemark.ErrMissingData)
	}

	reflectType := reflect.TypeOf(model).Elem()
	if reflectType.Kind() != reflect.Slice {
		model = reflect.New(reflect.SliceOf(reflectType)).Interface()
	}

	pd := PagedData{Items: model}
	pd.Page = page
	if pd.Page < 1 {
		pd.Page = 1
	}
	pd.PerPage = perPage
	if pd.PerPage < 1 {
		pd.PerPage = 1
	}

	var total int64
	if err := db.db.Session(safeGORMSession).Count(&total).Error; err != nil {
		return PagedData{}, fmt.Errorf("%w: %s", middlemark.ErrUnexpected, err)
	}

	offset := int((pd.Page - 1) * pd.PerPage)
	err := db.db.Limit(int(pd.PerPage)).Offset(offset).Find(pd.Items).Error
	if err != nil {
		return PagedData{}, fmt.Errorf("%w: %s", middlemark.ErrUnexpected, err)
	}

	pd.TotalItems = total
	pd.TotalPages = (total + pd.PerPage - 1) / pd.PerPage

	return pd, nil
}

// Update replaces existing data on all records matching the query with values.
//
// If no records are updated, ErrNotFound returns.
// The caller ought to specifically handle this error
// when it is expected a query may not mutate records.
func (db *DB) Update(values Updates) error {
	if db.db.Error != nil {
		return db.db.Error
	}

	if err := values.valid(); err != nil {
		return err
	}

	res := db.db.Updates(map[string]any(values))
	switch {
	case res.RowsAffected == 0 && res.Error == nil:
		return fmt.Errorf("%w", middlemark.ErrNotFound)

	case res.Error == nil:
		return nil

	case errUniqViolation.MatchString(res.Error.Error()):
		return fmt.Errorf("%w: %s", middlemark.ErrExists, res.Error)

	default:
		return fmt.Errorf("%w: %s", middlemark.ErrUnexpected, res.Error)
	}
}

// **************************************************************************
// QUERY BUILDING METHODS
//
// Query building methods initiate a query and then add clauses to it
// until a finisher method is called.
// **************************************************************************

// Limit applies a LIMIT clause to the current query.
func (db *DB) Limit(limit int) *DB {
	// NOTE: GORM interprets negatives by not applying a LIMIT clause,
	// PostgreSQL errors on them. This Limit mirrors PostgreSQL, not GORM.
	if limit < 0 {
		gdb := db.db.Session(safeGORMSession)
		_ = gdb.AddError(fmt.Errorf("%w: limit must not be negative", middlemark.ErrNotValid))
		return &DB{db: gdb}
	}

	return &DB{db: db.db.Limit(limit)}
}

// Model declares the table used for the query.
//
// Model computes the name for the database table from the type of model,
// taking the plural of the type name, for example:
// - Escrow -> escrows
// - User -> users
//
// Unless model implements: func TableName() string
// The value returned from that function is used instead.
func (db *DB) Model(model any) *DB { return &DB{db: db.db.Model(model)} }

// Offset applies an OFFSET clause to the current query.
func (db *DB) Offset(offset int) *DB {
	if offset < 0 {
		gdb := db.db.Session(safeGORMSession)
		_ = gdb.AddError(fmt.Errorf("%w: offset must not be negative", middlemark.ErrNotValid))
		return &DB{db: gdb}
	}

	return &DB{db: db.db.Offset(offset)}
}

// Or applies an OR clause to the current query.
func (db *DB) Or(query any, args ...any) *DB {
	return &DB{db: db.db.Or(query, args...)}
}

// Order applies an ORDER BY clause to the current query.
func (db *DB) Order(order string) *DB { return &DB{db: db.db.Order(order)} }

// Preload fetches data embedded in a model based on that model's associations.
// An association is specified by the model's field name, such as Buyer or Payments.
//
// Nested preloading is also possible by using dot syntax: Escrow.Buyer.
func (db *DB) Preload(association string) *DB {
	return &DB{db: db.db.Preload(association)}
}

// Select applies a SELECT statement to the current query.
func (db *DB) Select(columns ...string) *DB { return &DB{db: db.db.Select(columns)} }

// Unscoped includes archived, soft deleted records in the current query.
func (db *DB) Unscoped() *DB { return &DB{db: db.db.Unscoped()} }

// Where applies the query fragment and args to the current query
// as a WHERE or AND clause.
func (db *DB) Where(query any, args ...any) *DB {
	for _, arg := range args {
		if arg == nil {
			gdb := db.db.Session(safeGORMSession)
			_ = gdb.AddError(fmt.Errorf("%w: %s", middlemark.ErrNotValid, errNilArg))
			return &DB{db: gdb}
		}
	}

	return &DB{db: db.db.Where(query, args...)}
}

// **************************************************************************
// TRANSACTION METHODS
// **************************************************************************

// Begin initializes a database transaction.
func (db *DB) Begin(opts ...*sql.TxOptions) *DB {
	return &DB{db: db.db.Begin(opts...)}
}

// Commit completes the current transaction,
// applying any state changes and making them visible to other database connections.
func (db *DB) Commit() error {
	if db.db.Error != nil {
		return db.db.Error
	}

	if err := db.db.Commit().Error; err != nil {
		return fmt.Errorf("%w: failed committing tx: %s", middlemark.ErrUnexpected, err)
	}

	return nil
}

// Rollback reverts the current transaction.
// If no transaction is open, Rollback returns an error.
func (db *DB) Rollback() error {
	if err := db.db.Rollback().Error; err != nil {
		return fmt.Errorf("%w: failed rolling back tx: %s", middlemark.ErrUnexpected, err)
	}

	return nil
}
