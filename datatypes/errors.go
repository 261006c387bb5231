package datatypes

import "github.com/cockroachdb/errors"

// Sentinels every failure of the engine is marked with. Callers match them with errors.Is.
var (
	ErrUnknownColumn  = errors.New("unknown column")
	ErrTypeMismatch   = errors.New("type mismatch")
	ErrNotImplemented = errors.New("not implemented")
)

func UnknownColumnError(name string) error {
	return errors.Mark(errors.Newf("unknown column %q", name), ErrUnknownColumn)
}

func TypeMismatchErrorf(format string, args ...interface{}) error {
	return errors.Mark(errors.Newf(format, args...), ErrTypeMismatch)
}

func NotImplementedErrorf(format string, args ...interface{}) error {
	return errors.Mark(errors.Newf(format, args...), ErrNotImplemented)
}
