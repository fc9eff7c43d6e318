// Package history keeps the simulations produced during a session under
// user visible names.
package history

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/patrickmn/go-cache"

	"spectralsim/internal/models"
)

var (
	// ErrNotFound is returned by Get for an unknown name.
	ErrNotFound = errors.New("simulation not found in history")

	// ErrUnknownOrder is returned by ParseOrder.
	ErrUnknownOrder = errors.New("unknown history order")
)

// Entry is one stored simulation.
type Entry struct {
	// Image is the name of the source multispectral image
	Image string

	// Simulation is the registry name of the simulator used
	Simulation string

	// Result is the rendered image
	Result *models.RGBImage

	// Created is when the entry was added
	Created time.Time
}

// Store holds entries without expiry. It is safe for concurrent use.
type Store struct {
	items *cache.Cache
}

// NewStore returns an empty store. No janitor goroutine is started.
func NewStore() *Store {
	return &Store{items: cache.New(cache.NoExpiration, 0)}
}

// Add stores entry under name. If name is already taken the existing entry
// is kept and Add reports false.
func (s *Store) Add(name string, entry Entry) bool {
	if entry.Created.IsZero() {
		entry.Created = time.Now()
	}
	return s.items.Add(name, entry, cache.NoExpiration) == nil
}

// Delete removes name. Unknown names are ignored.
func (s *Store) Delete(name string) {
	s.items.Delete(name)
}

// Get returns the entry stored under name.
func (s *Store) Get(name string) (Entry, error) {
	v, ok := s.items.Get(name)
	if !ok {
		return Entry{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return v.(Entry), nil
}

// Order selects how Sorted lists entries.
type Order int

const (
	ByName Order = iota
	ByDate
	ByImage
	BySimulation
)

var orderNames = [...]string{"name", "date", "image", "type"}

func (o Order) String() string {
	if o < 0 || int(o) >= len(orderNames) {
		return fmt.Sprintf("Order(%d)", int(o))
	}
	return orderNames[o]
}

// ParseOrder accepts "name", "date", "image" or "type".
func ParseOrder(text string) (Order, error) {
	for i, name := range orderNames {
		if text == name {
			return Order(i), nil
		}
	}
	return ByName, fmt.Errorf("%w: %q", ErrUnknownOrder, text)
}

// Sorted returns the stored names in the given order. Entries that compare
// equal are listed by name.
func (s *Store) Sorted(order Order) []string {
	items := s.items.Items()
	names := make([]string, 0, len(items))
	entries := make(map[string]Entry, len(items))
	for name, item := range items {
		names = append(names, name)
		entries[name] = item.Object.(Entry)
	}

	sort.Slice(names, func(i, j int) bool {
		a, b := entries[names[i]], entries[names[j]]
		switch order {
		case ByDate:
			if !a.Created.Equal(b.Created) {
				return a.Created.Before(b.Created)
			}
		case ByImage:
			if a.Image != b.Image {
				return a.Image < b.Image
			}
		case BySimulation:
			if a.Simulation != b.Simulation {
				return a.Simulation < b.Simulation
			}
		}
		return names[i] < names[j]
	})
	return names
}

// Len returns the number of entries.
func (s *Store) Len() int {
	return s.items.ItemCount()
}

// NameOf finds the name whose result equals result. When several match the
// alphabetically first one is returned.
func (s *Store) NameOf(result *models.RGBImage) (string, bool) {
	for _, name := range s.Sorted(ByName) {
		if e, err := s.Get(name); err == nil && e.Result.Equal(result) {
			return name, true
		}
	}
	return "", false
}
