package origin

type windowEntry struct {
	index int
	text  string
}

// window is a bounded FIFO of the most recent eligible responses.
type window struct {
	capacity int
	items    []windowEntry
}

func newWindow(capacity int) *window {
	return &window{capacity: capacity, items: make([]windowEntry, 0, capacity)}
}

// push appends a response, dropping the oldest one when full.
func (w *window) push(index int, text string) {
	if w.capacity <= 0 {
		return
	}
	if len(w.items) == w.capacity {
		copy(w.items, w.items[1:])
		w.items = w.items[:len(w.items)-1]
	}
	w.items = append(w.items, windowEntry{index: index, text: text})
}

// entries returns the window contents, oldest first.
func (w *window) entries() []windowEntry {
	return w.items
}
