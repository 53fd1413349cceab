package files

import "errors"

type Code int

const (
	CodeUnauthorized Code = iota + 1
	CodeValidation
	CodeNotFound
	CodeUnsupported
)

// Error is a client-facing failure. Message is safe to return to callers.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

var (
	ErrUnauthorized  = &Error{Code: CodeUnauthorized, Message: "Unauthorized"}
	ErrNotFound      = &Error{Code: CodeNotFound, Message: "Not found"}
	ErrFolderContent = &Error{Code: CodeUnsupported, Message: "A folder doesn't have content"}

	ErrMissingName     = invalid("Missing name")
	ErrMissingType     = invalid("Missing type")
	ErrMissingData     = invalid("Missing data")
	ErrInvalidData     = invalid("Invalid data")
	ErrParentNotFound  = invalid("Parent not found")
	ErrParentNotFolder = invalid("Parent is not a folder")
	ErrInvalidParentID = invalid("Invalid parentId")
)

func invalid(msg string) *Error {
	return &Error{Code: CodeValidation, Message: msg}
}

// CodeOf returns the code of a files error, or zero for anything else.
func CodeOf(err error) Code {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return 0
}
