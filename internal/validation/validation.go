// Package validation holds the field-scoped error type used for request
// validation. The map itself is the wire format: responses look like
//
//	{"title": ["This field is required."]}
//
// so handlers can marshal an Errors value directly.
package validation

// Standard messages shared across entities.
const (
	MsgRequired      = "This field is required."
	MsgBlank         = "This field may not be blank."
	MsgNotNull       = "This field may not be null."
	MsgNotAString    = "Not a valid string."
	MsgInvalidChoice = "%q is not a valid choice."
	MsgBadDatetime   = "Datetime has wrong format. Use one of these formats instead: YYYY-MM-DDThh:mm[:ss[.uuuuuu]][+HH:MM|-HH:MM|Z]."
	MsgBadPk         = "Incorrect type. Expected pk value."
)

// Errors maps a field name to the list of messages reported for it.
type Errors map[string][]string

// Add appends a message for the given field.
func (e Errors) Add(field, message string) {
	e[field] = append(e[field], message)
}

// Has reports whether any error has been recorded.
func (e Errors) Has() bool {
	return len(e) > 0
}

// New returns an empty error set.
func New() Errors {
	return Errors{}
}
