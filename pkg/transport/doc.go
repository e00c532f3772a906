// Package transport provides the socket layer for talking to GigEx
// cards.
//
// The transport layer handles:
//   - TCP control/data connections and unconnected UDP data sockets
//   - Byte-accurate sends and receives under a cumulative time budget
//   - Datagram splitting at the platform's maximum message size
//   - Sender-port filtering of datagram traffic
//   - Connection liveness with an explicit double-close error
//
// # Protocol Stack
//
//	┌────────────────────────────────┐
//	│     Command Frames             │
//	├────────────────────────────────┤
//	│   Exact-Byte Exchange          │
//	├────────────────────────────────┤
//	│       TCP  /  UDP              │
//	├────────────────────────────────┤
//	│         IPv4 only              │
//	└────────────────────────────────┘
//
// # Time Budget
//
// Send and Recv wait for socket readiness in slices of at most one
// second so that long timeouts stay responsive, and compare cumulative
// elapsed time against the caller's budget. On timeout the partial
// byte count transferred so far is still reported.
//
// # Connection Lifecycle
//
// A Conn is opened per transaction, used for exactly one exchange and
// closed. Conns are never pooled and must not be shared between
// goroutines without external synchronization. Closing a Conn twice
// returns an IllegalConnection status instead of panicking or silently
// succeeding.
package transport
