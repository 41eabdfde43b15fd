package errors

// Kind identifies the failure source of an Error.
type Kind string

const (
	// KindNative is a negative return code from the native client, resolved
	// to the platform description of the error number.
	KindNative Kind = "NATIVE"

	// KindEncoding is a caller-supplied path that cannot be passed to the
	// native layer because it contains an embedded NUL byte.
	KindEncoding Kind = "ENCODING"

	// KindDecode is text returned by the native layer that is not valid UTF-8.
	KindDecode Kind = "DECODE"

	// KindMessage is a generic failure described only by its message.
	KindMessage Kind = "MESSAGE"

	// KindIO is an underlying I/O failure outside the native client.
	KindIO Kind = "IO"
)

// String returns the kind name.
func (k Kind) String() string {
	return string(k)
}
