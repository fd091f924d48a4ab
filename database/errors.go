package database

import "fmt"

// ValidationError reports malformed ingestion input. It is returned before any
// persistence is attempted, so no rollback is involved.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// StorageError reports a persistence failure. The enclosing transaction has
// been fully rolled back; Op and Path carry enough context for the caller to
// retry the whole operation.
type StorageError struct {
	Op   string
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("storage failure during %s for %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("storage failure during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// SchemaError reports that the schema could not be created or that an existing
// table has an incompatible shape. It is fatal at startup: the store must not
// operate against a mismatched schema.
type SchemaError struct {
	Table string
	Err   error
}

func (e *SchemaError) Error() string {
	if e.Table != "" {
		return fmt.Sprintf("schema error on table %s: %v", e.Table, e.Err)
	}
	return fmt.Sprintf("schema error: %v", e.Err)
}

func (e *SchemaError) Unwrap() error { return e.Err }

// NotFoundError reports a query against a non-existent identity.
type NotFoundError struct {
	Entity string
	ID     uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %d not found", e.Entity, e.ID)
}
