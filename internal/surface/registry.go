package surface

import "sync"

// Node is a registered view node with an absolute layout.
type Node struct {
	Handle Handle

	// Name is an optional human-readable label (traces and scripts refer
	// to nodes by name).
	Name string

	// Layout is the node's absolute position and size in surface
	// coordinates.
	Layout Layout
}

// Registry tracks view nodes and their layouts. It backs the Recorder's
// measurement path and gives traces and scripts a way to address nodes by
// name.
type Registry struct {
	mu     sync.RWMutex
	nodes  map[Handle]*Node
	byName map[string]Handle
}

// NewRegistry creates an empty node registry.
func NewRegistry() *Registry {
	return &Registry{
		nodes:  make(map[Handle]*Node),
		byName: make(map[string]Handle),
	}
}

// Register adds a node and returns its freshly allocated handle.
func (r *Registry) Register(name string, layout Layout) Handle {
	h := NewHandle()

	r.mu.Lock()
	r.nodes[h] = &Node{Handle: h, Name: name, Layout: layout}
	if name != "" {
		r.byName[name] = h
	}
	r.mu.Unlock()

	return h
}

// Unregister removes a node.
func (r *Registry) Unregister(h Handle) {
	r.mu.Lock()
	if node, ok := r.nodes[h]; ok {
		if node.Name != "" {
			delete(r.byName, node.Name)
		}
		delete(r.nodes, h)
	}
	r.mu.Unlock()
}

// SetLayout updates a node's absolute layout.
func (r *Registry) SetLayout(h Handle, layout Layout) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	node, ok := r.nodes[h]
	if !ok {
		return ErrUnknownHandle
	}
	node.Layout = layout
	return nil
}

// Layout returns a node's absolute layout.
func (r *Registry) Layout(h Handle) (Layout, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	node, ok := r.nodes[h]
	if !ok {
		return Layout{}, false
	}
	return node.Layout, true
}

// Lookup returns the handle registered under a name.
func (r *Registry) Lookup(name string) (Handle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	h, ok := r.byName[name]
	return h, ok
}

// Relative measures target's layout relative to another node, using the
// absolute layouts of both.
func (r *Registry) Relative(target, relativeTo Handle) (Layout, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.nodes[target]
	if !ok {
		return Layout{}, ErrUnknownHandle
	}
	base, ok := r.nodes[relativeTo]
	if !ok {
		return Layout{}, ErrUnknownHandle
	}

	return Layout{
		Left:   t.Layout.Left - base.Layout.Left,
		Top:    t.Layout.Top - base.Layout.Top,
		Width:  t.Layout.Width,
		Height: t.Layout.Height,
	}, nil
}
