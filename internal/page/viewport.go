package page

import "sync"

// Viewport is the hosting environment's view of the terminal size
type Viewport interface {
	// Width returns the most recently observed viewport width
	Width() int
	// Subscribe registers fn for every resize. The returned func removes it.
	Subscribe(fn func(width int)) (unsubscribe func())
}

// ResizeNotifier fans resize events out to subscribers. Each program owns
// its own notifier.
type ResizeNotifier struct {
	mu     sync.Mutex
	width  int
	nextID int
	subs   map[int]func(int)
}

// NewResizeNotifier creates a notifier with no known width
func NewResizeNotifier() *ResizeNotifier {
	return &ResizeNotifier{subs: make(map[int]func(int))}
}

// Width returns the last published width
func (n *ResizeNotifier) Width() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.width
}

// Subscribe registers fn and returns an idempotent unsubscribe func
func (n *ResizeNotifier) Subscribe(fn func(width int)) func() {
	n.mu.Lock()
	id := n.nextID
	n.nextID++
	n.subs[id] = fn
	n.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			n.mu.Lock()
			delete(n.subs, id)
			n.mu.Unlock()
		})
	}
}

// Publish records width and notifies every live subscriber
func (n *ResizeNotifier) Publish(width int) {
	n.mu.Lock()
	n.width = width
	subs := make([]func(int), 0, len(n.subs))
	for _, fn := range n.subs {
		subs = append(subs, fn)
	}
	n.mu.Unlock()

	for _, fn := range subs {
		fn(width)
	}
}

// Subscribers returns the number of live subscriptions
func (n *ResizeNotifier) Subscribers() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.subs)
}
