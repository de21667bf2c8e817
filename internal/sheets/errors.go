package sheets

import "fmt"

// SchemaError reports a structural problem with the sheet header: a missing
// column, or a missing header row altogether. Operations that hit one abort
// rather than guessing at column positions.
type SchemaError struct {
	Column string
	Msg    string
}

func (e *SchemaError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("sheet missing %q column", e.Column)
	}
	return e.Msg
}

// RowStoreError wraps a transport or service failure talking to the store.
type RowStoreError struct {
	Op  string
	Err error
}

func (e *RowStoreError) Error() string {
	return fmt.Sprintf("row store %s: %v", e.Op, e.Err)
}

func (e *RowStoreError) Unwrap() error {
	return e.Err
}
