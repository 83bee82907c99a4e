package pubsync

import (
	"sync"

	"github.com/agentstation/pubsync/pkg/publications"
)

// Hook function types for publication events
type (
	// PublicationAddedHook is called when a publication enters the list
	PublicationAddedHook func(r publications.Record)

	// PublicationUpdatedHook is called when a publication in the list changes
	PublicationUpdatedHook func(old, new publications.Record)

	// PublicationRemovedHook is called when a publication leaves the list
	PublicationRemovedHook func(r publications.Record)
)

// Hooks registers callbacks for list changes. Callbacks run synchronously
// after the list has been updated, outside the store lock.
type Hooks interface {
	OnPublicationAdded(PublicationAddedHook)
	OnPublicationUpdated(PublicationUpdatedHook)
	OnPublicationRemoved(PublicationRemovedHook)
}

// hooks manages event callbacks for list changes
type hooks struct {
	mu        sync.RWMutex
	onAdded   []PublicationAddedHook
	onUpdated []PublicationUpdatedHook
	onRemoved []PublicationRemovedHook
}

// newHooks creates a new hooks instance
func newHooks() *hooks {
	return &hooks{}
}

// OnPublicationAdded registers a callback for when publications are added.
func (c *client) OnPublicationAdded(fn PublicationAddedHook) {
	c.hooks.mu.Lock()
	defer c.hooks.mu.Unlock()
	c.hooks.onAdded = append(c.hooks.onAdded, fn)
}

// OnPublicationUpdated registers a callback for when publications are updated.
func (c *client) OnPublicationUpdated(fn PublicationUpdatedHook) {
	c.hooks.mu.Lock()
	defer c.hooks.mu.Unlock()
	c.hooks.onUpdated = append(c.hooks.onUpdated, fn)
}

// OnPublicationRemoved registers a callback for when publications are removed.
func (c *client) OnPublicationRemoved(fn PublicationRemovedHook) {
	c.hooks.mu.Lock()
	defer c.hooks.mu.Unlock()
	c.hooks.onRemoved = append(c.hooks.onRemoved, fn)
}

func (h *hooks) added(r publications.Record) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, fn := range h.onAdded {
		fn(r.Clone())
	}
}

func (h *hooks) updated(old, new publications.Record) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, fn := range h.onUpdated {
		fn(old.Clone(), new.Clone())
	}
}

func (h *hooks) removed(r publications.Record) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, fn := range h.onRemoved {
		fn(r.Clone())
	}
}

// triggerListUpdate compares old and new lists by id and triggers hooks
func (h *hooks) triggerListUpdate(oldList, newList publications.List) {
	oldByID := make(map[int64]publications.Record, len(oldList))
	for _, r := range oldList {
		oldByID[r.ID] = r
	}
	newByID := make(map[int64]struct{}, len(newList))

	for _, r := range newList {
		newByID[r.ID] = struct{}{}
		if old, exists := oldByID[r.ID]; exists {
			if !old.Equal(r) {
				h.updated(old, r)
			}
		} else {
			h.added(r)
		}
	}

	for _, r := range oldList {
		if _, exists := newByID[r.ID]; !exists {
			h.removed(r)
		}
	}
}
