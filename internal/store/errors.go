package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrUserAlreadyExists is returned when an attempt to register a new user
	// fails because a user with the same user name or email already exists
	// in the database.
	ErrUserAlreadyExists = errors.New("user with this user name or email already exists")

	// ErrNoUserWasFound is returned when a query expected to match at least one
	// user record produces an empty result set.
	ErrNoUserWasFound = errors.New("no user was found")

	// ErrTitleAlreadyExists is returned when an INSERT or UPDATE of a car
	// listing violates the unique constraint on the title column.
	ErrTitleAlreadyExists = errors.New("car with this title already exists")

	// ErrCarNotFound is returned when a query, update or delete targets a car
	// listing that does not exist in the database.
	ErrCarNotFound = errors.New("car was not found")

	// ErrCarNotSaved is returned when an INSERT of a car listing completes
	// without error but the number of affected rows is zero, indicating that
	// no data was actually persisted.
	ErrCarNotSaved = errors.New("car was not saved")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails (e.g. invalid argument count or unsupported type).
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT or similar
	// read-only query against the database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrExecutingStatement is returned when executing a DML statement
	// (INSERT, UPDATE, DELETE) fails.
	ErrExecutingStatement = errors.New("failed to execute statement")

	// ErrScanningRow is returned when scanning column values from a single
	// result row into a destination struct fails.
	ErrScanningRow = errors.New("failed to scan row")

	// ErrScanningRows is returned when scanning column values during
	// multi-row iteration fails, typically mid-result-set.
	ErrScanningRows = errors.New("failed to scan rows")
)
