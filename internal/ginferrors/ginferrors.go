// Package ginferrors defines the error kinds the inference pipeline can
// raise, separating a short technical Error() string from a longer
// human-readable explanation suitable for a CLI operator.
package ginferrors

import (
	"errors"
	"fmt"
)

// rejectError signals that the oracle denied a probe string. It is always
// caught at the closest probe site (see internal/oracle) -- it is never
// expected to escape an inference stage, but is exposed so tests can assert
// on the condition by type.
type rejectError struct {
	candidate string
}

func (e *rejectError) Error() string {
	return fmt.Sprintf("oracle rejected candidate %q", e.candidate)
}

// Reject returns a new error indicating the oracle rejected candidate.
func Reject(candidate string) error {
	return &rejectError{candidate: candidate}
}

// IsReject reports whether err is (or wraps) a Reject error.
func IsReject(err error) bool {
	var re *rejectError
	return errors.As(err, &re)
}

// setupError is a fatal error describing a guide-example or configuration
// problem discovered before the main pipeline runs.
type setupError struct {
	operator  string
	technical string
}

func (e *setupError) Error() string {
	if e.technical == "" {
		return fmt.Sprintf("setup error: %s", e.operator)
	}
	return e.technical
}

// Operator returns the message that should be shown to whoever is running
// the inference, as opposed to the more technical Error() string.
func (e *setupError) Operator() string {
	return e.operator
}

// Setup returns a fatal setup error with both an operator-facing message and
// a technical one. If technical is empty, Error() falls back to a generic
// message built from operator.
func Setup(operator, technical string) error {
	return &setupError{operator: operator, technical: technical}
}

// Setupf is Setup with the operator message built via fmt.Sprintf.
func Setupf(format string, a ...interface{}) error {
	return Setup(fmt.Sprintf(format, a...), "")
}

// OperatorMessage returns the message that should be displayed to an
// operator for err. If err is not one of the kinds defined here, err.Error()
// is returned.
func OperatorMessage(err error) string {
	if se, ok := err.(*setupError); ok {
		return se.Operator()
	}
	return err.Error()
}

// GuideExamplesDoNotCompile is the fatal error raised when the
// empty-replacement sanity check (replace "" with "") is rejected by the
// oracle, per the character-class derivation failure mode.
func GuideExamplesDoNotCompile() error {
	return Setup(
		"the guide examples do not compile: the oracle rejected the empty-replacement sanity check",
		"derive_classes: replaces(\"\", \"\") rejected by oracle",
	)
}
