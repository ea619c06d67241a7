package scene

import "errors"

var (
	// ErrInvalidKey is returned for a property key unknown to the node kind.
	ErrInvalidKey = errors.New("invalid property key")
	// ErrInvalidValue is returned for a property value of the wrong type.
	ErrInvalidValue = errors.New("invalid property value")
	// ErrNotAttached is returned by operations requiring the node
	// to be part of a rooted scene.
	ErrNotAttached = errors.New("node is not part of a scene")
	// ErrInsertionRejected is returned by Insert when the node kind
	// refuses the requested parent.
	ErrInsertionRejected = errors.New("insertion rejected")
	// ErrUnknownNode is returned for an invalid or destroyed node.
	ErrUnknownNode = errors.New("unknown node")
	// ErrUnsupported is returned when the node kind lacks the capability
	// needed by an operation.
	ErrUnsupported = errors.New("operation not supported by node kind")
	// ErrNoBitmap is returned when the canvas can't provide a bitmap.
	ErrNoBitmap = errors.New("canvas does not provide bitmaps")
)

// ErrorMode determines how unexpected but recoverable input
// (unknown persisted properties, unsupported elements) is handled.
type ErrorMode uint8

const (
	// IgnoreErrorMode silently skips unexpected input.
	IgnoreErrorMode ErrorMode = iota
	// WarnErrorMode skips unexpected input and logs a warning.
	WarnErrorMode
	// StrictErrorMode fails on unexpected input.
	StrictErrorMode
)

func (m ErrorMode) String() string {
	switch m {
	case IgnoreErrorMode:
		return "ignore"
	case WarnErrorMode:
		return "warn"
	case StrictErrorMode:
		return "strict"
	default:
		return "<unknown ErrorMode>"
	}
}

// ParseErrorMode is the inverse of ErrorMode.String.
func ParseErrorMode(s string) (ErrorMode, error) {
	switch s {
	case "ignore", "":
		return IgnoreErrorMode, nil
	case "warn":
		return WarnErrorMode, nil
	case "strict":
		return StrictErrorMode, nil
	}
	return 0, errors.New("unknown error mode " + s)
}
