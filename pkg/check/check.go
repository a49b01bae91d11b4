// Package check provides declarative validation for configuration structs.
// Leaf helpers return an error describing the failed check (or nil), and
// Validate walks a value recursively, collecting the errors of every
// Validatable it finds along the way.
package check

import (
	"fmt"

	"github.com/pkg/errors"
)

// check builds the error for a failed validation. The internal message
// describes the failed condition; msgAndArgs, when provided by the caller,
// is prepended as context.
func check(
	condition bool, msgAndArgs []interface{}, internalMsg string, internalArgs ...interface{},
) error {
	if condition {
		return nil
	}
	formatted := make([]interface{}, 0, len(internalArgs))
	for _, arg := range internalArgs {
		formatted = append(formatted, format(arg))
	}
	internal := errors.New(fmt.Sprintf(internalMsg, formatted...))
	if message := messageFromMsgAndArgs(msgAndArgs...); len(message) > 0 {
		return errors.Wrap(internal, message)
	}
	return internal
}

// True checks whether the condition holds. This method returns an error with
// the provided message if the check fails.
func True(condition bool, msgAndArgs ...interface{}) error {
	return check(condition, msgAndArgs, "expected true, got false")
}

// False checks whether the condition does not hold. This method returns an
// error with the provided message if the check fails.
func False(condition bool, msgAndArgs ...interface{}) error {
	return check(!condition, msgAndArgs, "expected false, got true")
}

// NotEmpty checks whether the actual value is a non-empty string. This method
// returns an error with the provided message if the check fails.
func NotEmpty(actual string, msgAndArgs ...interface{}) error {
	return check(len(actual) > 0, msgAndArgs, "expected non-empty string")
}

// In checks whether the actual value is contained in the expected list. This
// method returns an error with the provided message if the check fails.
func In(actual string, expected []string, msgAndArgs ...interface{}) error {
	for _, value := range expected {
		if value == actual {
			return nil
		}
	}
	return check(false, msgAndArgs, "%s not in %s", actual, expected)
}
