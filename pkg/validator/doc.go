// Package validator checks user input before it leaves the client.
//
// Rules are composed per call site and applied in one pass:
//
//	err := validator.Apply(
//	    validator.Required("full_name", addr.FullName),
//	    validator.Phone("phone", addr.Phone),
//	)
//
// A non-nil result is a ValidationErrors value listing every failed field,
// so a form can render all problems at once instead of one per submit.
package validator
