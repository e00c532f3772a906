// Package discovery finds GigEx boards on the local network without
// prior address knowledge.
//
// The boards answer SSDP-style UPnP searches. A scan walks every local
// IPv4 interface sequentially and runs the same pipeline on each:
//
// # Search (multicast)
//
// A datagram socket is bound to the interface's address with address
// reuse enabled, joins the well-known UPnP group 239.255.255.250 and
// sends the M-SEARCH query three times (multicast is lossy). Responses
// are collected until the wait budget is spent. A datagram qualifies
// only when it starts with a NOTIFY push or an HTTP 200 status line,
// carries the board marker string, and names a LOCATION URL; anything
// else is dropped without extending the wait.
//
// # Descriptor (HTTP)
//
// The LOCATION URL points at an XML device descriptor served by the
// board's embedded web server. The descriptor's <controlURL> element
// embeds the board's control endpoint as "a.b.c.d:port", which is
// extracted by literal scan rather than XML parsing, exactly as the
// boards emit it.
//
// # Inventory
//
// Endpoints are deduplicated by (address, control port): the same
// board answers once per interface and once per repeated search. Each
// new endpoint is appended to the inventory speculatively and its
// settings are queried immediately; a failed settings query removes
// the entry again, so the returned inventory only ever holds fully
// populated cards.
//
//	M-SEARCH ×3 ──▶ 239.255.255.250:1900
//	     ◀── NOTIFY / HTTP 200 + LOCATION
//	GET /descriptor.xml ──▶ board http port
//	     ◀── <controlURL>a.b.c.d:port</controlURL>
//	settings query ──▶ control port (TCP)
//	     ◀── firmware, serial, MAC, ports
//
// Scanner is the entry point. FindCards runs one scan with a given
// wait budget; FindFirst drives repeated scans with growing budgets
// for boards that are still booting.
package discovery
