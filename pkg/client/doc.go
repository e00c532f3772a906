// Package client implements the one-shot command operations of the
// GigEx control protocol.
//
// Every operation follows the same shape: validate parameters before
// any network I/O, open a dedicated TCP connection to the card's
// control port, perform exactly one request/response exchange, decode
// and check the echoed command and status byte, and close the
// connection whether or not the exchange succeeded.
//
// # Operations
//
//   - WriteRegister / ReadRegister: 16-bit user register access,
//     addresses 0 to 127
//   - SetInterrupt: raises the board's mailbox interrupt
//   - TransferSPI: passthrough transfers on the board's master SPI
//     port at 35, 17.5 or 8.75 MHz
//   - ReadSettings: reads the card's flash settings and fills in the
//     card's metadata
//
// # Error Reporting
//
// Failures return a *status.Error carrying the operation name, the
// card's endpoint and a status code. The same information is emitted
// as a CategoryError event to the Logger configured at construction,
// so an application that registers a logger once observes every
// failure without wrapping each call.
package client
