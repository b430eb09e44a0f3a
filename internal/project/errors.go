package project

import (
	"errors"
	"io/fs"

	goerrors "github.com/goliatone/go-errors"
)

const (
	CodeProjectNotFound   = "PROJECT_NOT_FOUND"
	CodeConfigInvalid     = "CONFIG_INVALID"
	CodeConfigReadFailed  = "CONFIG_READ_FAILED"
	CodeProcedureNotFound = "PROCEDURE_NOT_FOUND"
	CodeProcedureRead     = "PROCEDURE_READ_FAILED"
)

func notFound(message, code string) error {
	return goerrors.Wrap(fs.ErrNotExist, goerrors.CategoryNotFound, message).
		WithTextCode(code)
}

func invalidConfig(err error, message string) error {
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation, message).
		WithTextCode(CodeConfigInvalid)
}

func readFailed(err error, message, code string) error {
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryInternal, message).
		WithTextCode(code)
}

// IsNotFound reports whether err means a project config or procedure file
// does not exist.
func IsNotFound(err error) bool {
	return err != nil && goerrors.IsCategory(err, goerrors.CategoryNotFound)
}

// IsInvalid reports whether err is a config decode or validation failure.
func IsInvalid(err error) bool {
	return err != nil && goerrors.IsCategory(err, goerrors.CategoryValidation)
}

// Code returns the text code attached to err, or "".
func Code(err error) string {
	var ge *goerrors.Error
	if errors.As(err, &ge) {
		return ge.TextCode
	}
	return ""
}

// Message returns the user-facing text of err: the go-errors message plus
// the wrapped cause for validation failures, err.Error() otherwise.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var ge *goerrors.Error
	if !errors.As(err, &ge) {
		return err.Error()
	}
	if ge.Category == goerrors.CategoryValidation && ge.Source != nil {
		return ge.Message + ": " + ge.Source.Error()
	}
	return ge.Message
}
