// Package device defines the handle for one GigEx card and the
// inventory collection that discovery builds.
//
// A Card identifies a board by IPv4 address and control port. Discovery
// creates Cards automatically; callers that already know an address can
// build one with NewCard and populate its metadata with the client's
// settings query. Cards are plain data: the transport layer borrows
// them per transaction and never owns them.
package device
