package errorx

import "fmt"

type Error struct {
	Code    Code
	Message string

	// Data is an optional structured payload sent to client together with the
	// message, e.g. the reason and expiry of a ban.
	Data map[string]any
}

func New(code Code, format string, a ...any) Error {
	return Error{Code: code, Message: fmt.Sprintf(format, a...)}
}

func (e Error) Error() string {
	return e.Message
}

func (e Error) WithData(data map[string]any) Error {
	e.Data = data
	return e
}
