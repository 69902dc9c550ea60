// Package pipeline holds the CRM board of promoted leads and the rules for
// moving a lead between stages.
package pipeline

import (
	"errors"
	"fmt"
	"sync"

	"prophunter_backend/internal/model"
)

var ErrInvalidTransition = errors.New("invalid status transition")

// Board is the ordered set of leads. Leads keep promotion order; moving a lead
// between columns only changes its status.
type Board struct {
	mu    sync.RWMutex
	leads []model.Listing
	index map[string]int
}

func NewBoard() *Board {
	return &Board{index: make(map[string]int)}
}

// Promote adds the listing with status NEW. It returns false when a lead with
// the same ID is already on the board.
func (b *Board) Promote(l model.Listing) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.index[l.ID]; ok {
		return false
	}
	l.Status = model.LeadStatusNew
	b.index[l.ID] = len(b.leads)
	b.leads = append(b.leads, l)
	return true
}

// SetStatus moves a lead to another stage and returns the previous status.
// Unknown IDs are a no-op. Leads in CLOSED or LOST cannot move.
func (b *Board) SetStatus(id string, status model.LeadStatus) (prev model.LeadStatus, changed bool, err error) {
	if !status.IsValid() {
		return "", false, fmt.Errorf("%w: %q", model.ErrInvalidStatus, status)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	i, ok := b.index[id]
	if !ok {
		return "", false, nil
	}
	prev = b.leads[i].Status.Effective()
	if prev == status {
		return prev, false, nil
	}
	if prev.IsTerminal() {
		return prev, false, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, prev, status)
	}
	b.leads[i].Status = status
	return prev, true, nil
}

// RestoreStatus overwrites a status without transition checks. Used to undo
// a SetStatus.
func (b *Board) RestoreStatus(id string, status model.LeadStatus) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if i, ok := b.index[id]; ok {
		b.leads[i].Status = status
	}
}

// Remove deletes a lead and reports where it was.
func (b *Board) Remove(id string) (model.Listing, int, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	i, ok := b.index[id]
	if !ok {
		return model.Listing{}, -1, false
	}
	removed := b.leads[i]
	b.leads = append(b.leads[:i], b.leads[i+1:]...)
	b.reindex()
	return removed, i, true
}

// Insert puts a lead back at position at, keeping its status. Used to undo a
// removal. Returns false if the ID is already present.
func (b *Board) Insert(at int, l model.Listing) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.index[l.ID]; ok {
		return false
	}
	if at < 0 || at > len(b.leads) {
		at = len(b.leads)
	}
	l.Status = l.Status.Effective()
	b.leads = append(b.leads, model.Listing{})
	copy(b.leads[at+1:], b.leads[at:])
	b.leads[at] = l
	b.reindex()
	return true
}

// Replace swaps the whole board for leads, dropping duplicate IDs.
func (b *Board) Replace(leads []model.Listing) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.leads = make([]model.Listing, 0, len(leads))
	b.index = make(map[string]int, len(leads))
	for _, l := range leads {
		if _, ok := b.index[l.ID]; ok {
			continue
		}
		l.Status = l.Status.Effective()
		b.index[l.ID] = len(b.leads)
		b.leads = append(b.leads, l)
	}
}

func (b *Board) Get(id string) (model.Listing, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	i, ok := b.index[id]
	if !ok {
		return model.Listing{}, false
	}
	return b.leads[i], true
}

func (b *Board) Has(id string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.index[id]
	return ok
}

func (b *Board) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.leads)
}

// All returns a copy of the board in promotion order.
func (b *Board) All() []model.Listing {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]model.Listing, len(b.leads))
	copy(out, b.leads)
	return out
}

// ListByStatus returns one board column. A lead without status is NEW.
func (b *Board) ListByStatus(status model.LeadStatus) []model.Listing {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := []model.Listing{}
	for _, l := range b.leads {
		if l.Status.Effective() == status.Effective() {
			out = append(out, l)
		}
	}
	return out
}

// Counts returns the number of leads in every column.
func (b *Board) Counts() map[model.LeadStatus]int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	counts := make(map[model.LeadStatus]int, len(model.LeadStatuses))
	for _, s := range model.LeadStatuses {
		counts[s] = 0
	}
	for _, l := range b.leads {
		counts[l.Status.Effective()]++
	}
	return counts
}

func (b *Board) reindex() {
	b.index = make(map[string]int, len(b.leads))
	for i, l := range b.leads {
		b.index[l.ID] = i
	}
}
