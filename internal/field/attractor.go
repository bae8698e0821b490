package field

import (
	"slices"

	"github.com/google/uuid"
)

// Handle identifies a card region. The engine only compares handles.
type Handle = uuid.UUID

// NewHandle issues a fresh random handle.
func NewHandle() Handle { return uuid.New() }

// Rect is a region in document space: top-left corner plus extent.
type Rect struct {
	X, Y          float64
	Width, Height float64
}

// Center returns the rect centre.
func (r Rect) Center() (float64, float64) {
	return r.X + r.Width/2, r.Y + r.Height/2
}

// Category tags an attractor with a highlight family.
type Category string

const (
	CategoryService     Category = "service"
	CategoryPortfolio   Category = "portfolio"
	CategorySkill       Category = "skill"
	CategoryTestimonial Category = "testimonial"
	CategoryContact     Category = "contact"
	CategoryDefault     Category = "default"
)

// Categories lists the known categories in a stable order.
var Categories = []Category{
	CategoryService,
	CategoryPortfolio,
	CategorySkill,
	CategoryTestimonial,
	CategoryContact,
}

// ParseCategory maps anything outside the known set to CategoryDefault.
func ParseCategory(s string) Category {
	c := Category(s)
	if slices.Contains(Categories, c) {
		return c
	}
	return CategoryDefault
}

// Attractor is a rectangular zone pulling nearby particles into orbit.
type Attractor struct {
	Handle   Handle
	X, Y     float64
	Width    float64
	Height   float64
	Category Category
	Strength float64
}

func (a *Attractor) place(r Rect) {
	a.X, a.Y = r.Center()
	a.Width, a.Height = r.Width, r.Height
}

// Radius returns the effective influence radius. Zero-area zones exert none.
func (a *Attractor) Radius(base float64) float64 {
	if a.Width <= 0 || a.Height <= 0 {
		return 0
	}
	return base
}

// Registry holds attractors keyed by handle, iterated in insertion order.
type Registry struct {
	entries map[Handle]*Attractor
	order   []Handle
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[Handle]*Attractor)}
}

// Set inserts or overwrites the entry for h and reports whether it is new.
func (r *Registry) Set(h Handle, rect Rect, cat Category, strength float64) (*Attractor, bool) {
	a, ok := r.entries[h]
	if !ok {
		a = &Attractor{Handle: h}
		r.entries[h] = a
		r.order = append(r.order, h)
	}
	a.place(rect)
	a.Category = cat
	a.Strength = strength
	return a, !ok
}

// Remove deletes h. It reports whether an entry existed.
func (r *Registry) Remove(h Handle) bool {
	if _, ok := r.entries[h]; !ok {
		return false
	}
	delete(r.entries, h)
	if i := slices.Index(r.order, h); i >= 0 {
		r.order = slices.Delete(r.order, i, i+1)
	}
	return true
}

// Reposition moves an existing entry. It reports whether h was known.
func (r *Registry) Reposition(h Handle, rect Rect) bool {
	a, ok := r.entries[h]
	if !ok {
		return false
	}
	a.place(rect)
	return true
}

// Reconcile drops every entry whose handle valid rejects and returns how many
// were removed.
func (r *Registry) Reconcile(valid func(Handle) bool) int {
	removed := 0
	kept := r.order[:0]
	for _, h := range r.order {
		if valid(h) {
			kept = append(kept, h)
			continue
		}
		delete(r.entries, h)
		removed++
	}
	r.order = kept
	return removed
}

// Get returns a copy of the entry for h.
func (r *Registry) Get(h Handle) (Attractor, bool) {
	a, ok := r.entries[h]
	if !ok {
		return Attractor{}, false
	}
	return *a, true
}

// ForEach visits entries in insertion order.
func (r *Registry) ForEach(fn func(a *Attractor)) {
	for _, h := range r.order {
		fn(r.entries[h])
	}
}

// Handles returns the registered handles in insertion order.
func (r *Registry) Handles() []Handle {
	return slices.Clone(r.order)
}

func (r *Registry) Len() int { return len(r.order) }

// Clear removes every entry.
func (r *Registry) Clear() {
	clear(r.entries)
	r.order = r.order[:0]
}
