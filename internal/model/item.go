package model

// Item is the domain model for a todo entry.
// Field names match the stored snapshot layout.
type Item struct {
	ID       int    `json:"id"`
	Text     string `json:"text"`
	Complete bool   `json:"complete"`
}

// List is an ordered sequence of items; insertion order is display order.
type List []Item

// Clone returns a copy that shares no backing array with l.
// A nil list clones to an empty, non-nil list so it encodes as [].
func (l List) Clone() List {
	out := make(List, len(l))
	copy(out, l)
	return out
}

// Index returns the position of the item with the given id, or -1.
func (l List) Index(id int) int {
	for i, it := range l {
		if it.ID == id {
			return i
		}
	}
	return -1
}

// MaxID returns the largest id in the list, 0 for an empty list.
func (l List) MaxID() int {
	highest := 0
	for _, it := range l {
		if it.ID > highest {
			highest = it.ID
		}
	}
	return highest
}

// Stats counts completed and pending items.
func (l List) Stats() (done, pending int) {
	for _, it := range l {
		if it.Complete {
			done++
		} else {
			pending++
		}
	}
	return
}
