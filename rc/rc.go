package rc

import "sync"

// Rc is a shared, reference-counted handle to a resource of type H. The
// zero value is not usable; construct one with New. Calling Close more than
// once is safe: a sync.Once shared by copies of the same Rc value lets only
// the first call unref the resource, so later calls (including from a
// forgotten defer) are harmless. The manager itself is left in place, not
// replaced by a stub — there is no Go equivalent of a "moved-from" compile
// error, so idempotency stands in for it.
type Rc[H any] struct {
	handle  H
	manager Manager
	once    *sync.Once
}

// New wraps handle under manager, which is ref'd zero times here — the
// caller is expected to have already accounted for this first reference.
func New[H any](handle H, manager Manager) Rc[H] {
	return Rc[H]{handle: handle, manager: manager, once: new(sync.Once)}
}

// Handle returns the underlying resource handle.
func (r Rc[H]) Handle() H {
	return r.handle
}

// Share increments the reference count and returns a new Rc aliasing the
// same handle and manager.
func (r Rc[H]) Share() Rc[H] {
	r.manager.Ref()
	return Rc[H]{handle: r.handle, manager: r.manager, once: new(sync.Once)}
}

// Close releases this handle's reference. Safe to call multiple times; only
// the first call unrefs the resource.
func (r Rc[H]) Close() {
	r.once.Do(r.manager.Unref)
}

// Transmute builds a new Rc over target that shares source's manager,
// without re-ref'ing — used when a derived view (e.g. a slice into a
// buffer) is valid exactly as long as the resource it was derived from.
// The caller must already hold a reference accounted for by source.
func Transmute[Target, Source any](target Target, source Rc[Source]) Rc[Target] {
	return Rc[Target]{handle: target, manager: source.manager, once: new(sync.Once)}
}

// Cast applies convert to source's handle and transmutes the result,
// carrying over source's manager unchanged.
func Cast[Target, Source any](source Rc[Source], convert func(Source) Target) Rc[Target] {
	return Transmute(convert(source.handle), source)
}

// Unique is an exclusively owned, managed resource: it is never shared, and
// is expected to be the sole handle to its resource for the program's
// duration. Its Close semantics mirror Rc's idempotent-release behavior.
type Unique[H any] struct {
	handle  H
	manager Manager
	once    *sync.Once
}

// NewUnique wraps handle under manager as an exclusively owned resource.
func NewUnique[H any](handle H, manager Manager) Unique[H] {
	return Unique[H]{handle: handle, manager: manager, once: new(sync.Once)}
}

// Handle returns the underlying resource handle.
func (u Unique[H]) Handle() H {
	return u.handle
}

// Close releases the handle's reference. Safe to call multiple times.
func (u Unique[H]) Close() {
	u.once.Do(u.manager.Unref)
}
