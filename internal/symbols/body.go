package symbols

import (
	"acsc/internal/source"
)

// Body is the name table of a region, a library hidden compartment or a
// struct. Local declarations are bound temporarily and the previous binding
// restored when their block ends.
type Body struct {
	names map[source.StringID]Object
	order []source.StringID
}

func NewBody() *Body {
	return &Body{names: make(map[source.StringID]Object)}
}

// Lookup returns the object bound to name, or nil.
func (b *Body) Lookup(name source.StringID) Object {
	if b == nil {
		return nil
	}
	return b.names[name]
}

// Bind makes name refer to obj and returns the previous binding.
func (b *Body) Bind(name source.StringID, obj Object) Object {
	prev, seen := b.names[name]
	if !seen {
		b.order = append(b.order, name)
	}
	b.names[name] = obj
	return prev
}

// Restore undoes a Bind: prev becomes the binding again, or the name is
// removed when prev is nil.
func (b *Body) Restore(name source.StringID, prev Object) {
	if prev == nil {
		delete(b.names, name)
		return
	}
	b.names[name] = prev
}

// Objects returns the bound objects in first-binding order.
func (b *Body) Objects() []Object {
	out := make([]Object, 0, len(b.names))
	for _, name := range b.order {
		if obj, ok := b.names[name]; ok {
			out = append(out, obj)
		}
	}
	return out
}

func (b *Body) Len() int {
	return len(b.names)
}
