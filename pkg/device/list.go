package device

import "net/netip"

// List is the inventory of cards built during one discovery run. No two
// entries share the same (address, control port) pair; discovery checks
// with Contains before appending and removes a just-appended entry with
// RemoveLast when its settings query fails.
//
// A zero List is ready to use. List is not safe for concurrent use.
type List struct {
	cards []*Card
}

// Add appends a card to the inventory.
func (l *List) Add(c *Card) {
	l.cards = append(l.cards, c)
}

// Contains reports whether the inventory already holds an entry with
// the given address and control port.
func (l *List) Contains(addr netip.Addr, controlPort uint16) bool {
	for _, c := range l.cards {
		if c.Addr == addr && c.ControlPort == controlPort {
			return true
		}
	}
	return false
}

// RemoveLast drops the most recently added entry. It is a no-op on an
// empty inventory.
func (l *List) RemoveLast() {
	if n := len(l.cards); n > 0 {
		l.cards[n-1] = nil
		l.cards = l.cards[:n-1]
	}
}

// Len returns the number of entries.
func (l *List) Len() int {
	return len(l.cards)
}

// Cards returns the entries in discovery order. The returned slice is a
// copy; the entries are shared.
func (l *List) Cards() []*Card {
	out := make([]*Card, len(l.cards))
	copy(out, l.cards)
	return out
}
