package log

import (
	"time"

	"github.com/gigex-project/gigex-go/pkg/status"
)

// Event represents a protocol log event captured at any layer.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// ConnectionID identifies the transport connection (UUID). Empty
	// for events that happen outside a connection, such as discovery
	// probes or pre-I/O validation failures.
	ConnectionID string `cbor:"2,keyasint,omitempty"`

	// Direction indicates data flow for message events.
	Direction Direction `cbor:"3,keyasint"`

	// Layer where the event was captured.
	Layer Layer `cbor:"4,keyasint"`

	// Category classifies the event type.
	Category Category `cbor:"5,keyasint"`

	// Device is the board's control endpoint as "ip:port", when known.
	Device string `cbor:"6,keyasint,omitempty"`

	// Type-specific payload (exactly one is set).
	Frame     *FrameEvent       `cbor:"7,keyasint,omitempty"`  // transport layer
	Command   *CommandEvent     `cbor:"8,keyasint,omitempty"`  // protocol layer
	State     *StateChangeEvent `cbor:"9,keyasint,omitempty"`  // connection lifecycle
	Discovery *DiscoveryEvent   `cbor:"10,keyasint,omitempty"` // discovery milestones
	Error     *ErrorEventData   `cbor:"11,keyasint,omitempty"` // errors at any layer
}

// Direction indicates the direction of data flow.
type Direction uint8

const (
	// DirectionIn indicates data received from the board.
	DirectionIn Direction = 0
	// DirectionOut indicates data sent to the board.
	DirectionOut Direction = 1
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirectionIn:
		return "IN"
	case DirectionOut:
		return "OUT"
	default:
		return "UNKNOWN"
	}
}

// Layer indicates which layer captured the event.
type Layer uint8

const (
	// LayerTransport is the socket layer (raw bytes).
	LayerTransport Layer = 0
	// LayerProtocol is the command/transaction layer.
	LayerProtocol Layer = 1
	// LayerDiscovery is the multicast discovery layer.
	LayerDiscovery Layer = 2
)

// String returns the layer name.
func (l Layer) String() string {
	switch l {
	case LayerTransport:
		return "TRANSPORT"
	case LayerProtocol:
		return "PROTOCOL"
	case LayerDiscovery:
		return "DISCOVERY"
	default:
		return "UNKNOWN"
	}
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryMessage indicates frame or command traffic.
	CategoryMessage Category = 0
	// CategoryState indicates a connection state change.
	CategoryState Category = 1
	// CategoryError indicates a failure.
	CategoryError Category = 2
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryMessage:
		return "MESSAGE"
	case CategoryState:
		return "STATE"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// FrameEvent captures raw bytes at the transport layer.
type FrameEvent struct {
	// Size is the transfer size in bytes.
	Size int `cbor:"1,keyasint"`

	// Data is the raw bytes (truncated for large transfers).
	Data []byte `cbor:"2,keyasint,omitempty"`

	// Truncated indicates Data holds only a prefix of the transfer.
	Truncated bool `cbor:"3,keyasint,omitempty"`
}

// CommandEvent captures one command exchange at the protocol layer.
type CommandEvent struct {
	// Command is the leading command-identifier byte.
	Command uint8 `cbor:"1,keyasint"`

	// Addr is the register address, for register commands.
	Addr *uint8 `cbor:"2,keyasint,omitempty"`

	// Value is the register value written or read.
	Value *uint16 `cbor:"3,keyasint,omitempty"`

	// Words is the SPI transfer length in 32-bit words.
	Words *int `cbor:"4,keyasint,omitempty"`

	// Status is the status byte echoed by the board.
	Status *uint8 `cbor:"5,keyasint,omitempty"`

	// Elapsed is the duration of the whole exchange.
	Elapsed *time.Duration `cbor:"6,keyasint,omitempty"`
}

// StateChangeEvent captures connection lifecycle events.
type StateChangeEvent struct {
	// NewState is the state entered, such as "open" or "closed".
	NewState string `cbor:"1,keyasint"`

	// Reason for the change, if available.
	Reason string `cbor:"2,keyasint,omitempty"`
}

// DiscoveryEvent captures milestones of a discovery run.
type DiscoveryEvent struct {
	// Stage of the discovery pipeline.
	Stage DiscoveryStage `cbor:"1,keyasint"`

	// Interface is the local interface the probe ran on.
	Interface string `cbor:"2,keyasint,omitempty"`

	// Location is the descriptor URL from the board's response.
	Location string `cbor:"3,keyasint,omitempty"`

	// Endpoint is the control endpoint parsed from the descriptor.
	Endpoint string `cbor:"4,keyasint,omitempty"`
}

// DiscoveryStage identifies a step of the discovery pipeline.
type DiscoveryStage uint8

const (
	// StageSearch indicates the multicast query was sent.
	StageSearch DiscoveryStage = 0
	// StageResponse indicates a qualifying response arrived.
	StageResponse DiscoveryStage = 1
	// StageDescriptor indicates the XML descriptor was fetched.
	StageDescriptor DiscoveryStage = 2
	// StageCardAdded indicates a card joined the inventory.
	StageCardAdded DiscoveryStage = 3
	// StageRollback indicates a speculative entry was removed.
	StageRollback DiscoveryStage = 4
)

// String returns the stage name.
func (s DiscoveryStage) String() string {
	switch s {
	case StageSearch:
		return "SEARCH"
	case StageResponse:
		return "RESPONSE"
	case StageDescriptor:
		return "DESCRIPTOR"
	case StageCardAdded:
		return "CARD_ADDED"
	case StageRollback:
		return "ROLLBACK"
	default:
		return "UNKNOWN"
	}
}

// ErrorEventData captures errors at any layer.
type ErrorEventData struct {
	// Op is the operation that failed, such as "WriteRegister".
	Op string `cbor:"1,keyasint"`

	// Code classifies the failure.
	Code status.Code `cbor:"2,keyasint"`

	// Message is the human-readable error text.
	Message string `cbor:"3,keyasint"`
}
