package status

// Code classifies the outcome of a client operation.
type Code uint16

// Band bases. Codes below WarningBase are informational, codes from
// WarningBase up to ErrorBase are warnings, and codes from ErrorBase up
// are errors.
const (
	InfoBase    Code = 0x0000
	WarningBase Code = 0x4000
	ErrorBase   Code = 0x8000
)

// Success indicates the operation completed normally.
const Success Code = 0x0000

const (
	// SocketError indicates a resolution, bind, connect or socket I/O failure.
	SocketError Code = ErrorBase + iota

	// InternalError indicates a protocol-level failure: a short send, a short
	// response, or a response whose echoed command or status did not match.
	InternalError

	// IllegalStatusCode indicates a status code outside the defined bands.
	IllegalStatusCode

	// NullParameter indicates a nil argument where a value is required.
	NullParameter

	// OutOfMemory indicates an allocation failure. Retained for numeric
	// parity with the vendor library; this implementation never returns it.
	OutOfMemory

	// InvalidConnectionType indicates an unsupported transport kind.
	InvalidConnectionType

	// IllegalConnection indicates use of a connection that is not open,
	// including a second close of the same connection.
	IllegalConnection

	// SocketClosed indicates the peer closed the stream mid-transfer.
	SocketClosed

	// Timeout indicates the time budget elapsed before completion.
	Timeout

	// IllegalParameter indicates an argument value outside its legal range.
	IllegalParameter
)

// maxError is one past the highest defined error code.
const maxError = IllegalParameter + 1

// String returns the code's identifier.
func (c Code) String() string {
	switch c {
	case Success:
		return "SUCCESS"
	case SocketError:
		return "SOCKET_ERROR"
	case InternalError:
		return "INTERNAL_ERROR"
	case IllegalStatusCode:
		return "ILLEGAL_STATUS_CODE"
	case NullParameter:
		return "NULL_PARAMETER"
	case OutOfMemory:
		return "OUT_OF_MEMORY"
	case InvalidConnectionType:
		return "INVALID_CONNECTION_TYPE"
	case IllegalConnection:
		return "ILLEGAL_CONNECTION"
	case SocketClosed:
		return "SOCKET_CLOSED"
	case Timeout:
		return "TIMEOUT"
	case IllegalParameter:
		return "ILLEGAL_PARAMETER"
	default:
		return "UNKNOWN"
	}
}

// Message returns the human-readable description of the code. Codes
// outside the defined bands yield the IllegalStatusCode description.
func (c Code) Message() string {
	switch c {
	case Success:
		return "Success (no error)"
	case SocketError:
		return "Error communicating with socket"
	case InternalError:
		return "An unspecified internal error occurred"
	case IllegalStatusCode:
		return "Status code is out of range"
	case NullParameter:
		return "nil was used illegally as one of the parameter values"
	case OutOfMemory:
		return "Not enough memory to complete the requested operation"
	case InvalidConnectionType:
		return "The requested connection type is invalid"
	case IllegalConnection:
		return "The requested connection is invalid"
	case SocketClosed:
		return "The connection was closed unexpectedly"
	case Timeout:
		return "Operation timed out"
	case IllegalParameter:
		return "One of the parameters has an illegal value"
	default:
		return IllegalStatusCode.Message()
	}
}

// IsSuccess returns true if the code indicates success.
func (c Code) IsSuccess() bool {
	return c == Success
}

// IsError returns true if the code is in the error band.
func (c Code) IsError() bool {
	return c >= ErrorBase && c < maxError
}
