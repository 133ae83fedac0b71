package zenapi

import (
	"fmt"
	"reflect"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Let `required` and friends see through Timestamp to the time.Time
	// inside, so a zero timestamp fails validation like a zero time would.
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if ts, ok := field.Interface().(Timestamp); ok {
			return ts.Time
		}
		return nil
	}, Timestamp{})
	return v
}

// ValidationError reports a response record that does not match the
// expected entity schema. Surfaced immediately, never coerced.
type ValidationError struct {
	Kind  string // entity kind, e.g. "transaction"
	Index int    // position within the entity's slice
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s record at index %d: %v", e.Kind, e.Index, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// validateDiff checks every typed entity record in a decoded diff. Unknown
// kinds held in Extra are opaque and deliberately not inspected.
func validateDiff(d *Diff) error {
	for i, rec := range d.Instrument {
		if err := validate.Struct(rec); err != nil {
			return &ValidationError{Kind: "instrument", Index: i, Err: err}
		}
	}
	for i, rec := range d.Company {
		if err := validate.Struct(rec); err != nil {
			return &ValidationError{Kind: "company", Index: i, Err: err}
		}
	}
	for i, rec := range d.User {
		if err := validate.Struct(rec); err != nil {
			return &ValidationError{Kind: "user", Index: i, Err: err}
		}
	}
	for i, rec := range d.Account {
		if err := validate.Struct(rec); err != nil {
			return &ValidationError{Kind: "account", Index: i, Err: err}
		}
	}
	for i, rec := range d.Tag {
		if err := validate.Struct(rec); err != nil {
			return &ValidationError{Kind: "tag", Index: i, Err: err}
		}
	}
	for i, rec := range d.Merchant {
		if err := validate.Struct(rec); err != nil {
			return &ValidationError{Kind: "merchant", Index: i, Err: err}
		}
	}
	for i, rec := range d.Reminder {
		if err := validate.Struct(rec); err != nil {
			return &ValidationError{Kind: "reminder", Index: i, Err: err}
		}
	}
	for i, rec := range d.ReminderMarker {
		if err := validate.Struct(rec); err != nil {
			return &ValidationError{Kind: "reminderMarker", Index: i, Err: err}
		}
	}
	for i, rec := range d.Transaction {
		if err := validate.Struct(rec); err != nil {
			return &ValidationError{Kind: "transaction", Index: i, Err: err}
		}
	}
	for i, rec := range d.Budget {
		if err := validate.Struct(rec); err != nil {
			return &ValidationError{Kind: "budget", Index: i, Err: err}
		}
	}
	for i, rec := range d.Deletion {
		if err := validate.Struct(rec); err != nil {
			return &ValidationError{Kind: "deletion", Index: i, Err: err}
		}
	}
	return nil
}
