// Package leadsync keeps the in-memory pipeline board consistent with the
// remote lead store. Every change is applied to the board first, then
// confirmed against the store; a refused change is recovered according to the
// configured Policy.
package leadsync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"prophunter_backend/internal/model"
	"prophunter_backend/internal/pipeline"
)

var (
	ErrPersistence      = errors.New("lead store rejected change")
	ErrUnknownOperation = errors.New("unknown operation")
)

// Store is the remote source of truth for leads.
type Store interface {
	SelectAll(ctx context.Context) ([]model.Listing, error)
	Insert(ctx context.Context, lead model.Listing) error
	Update(ctx context.Context, id string, status model.LeadStatus) error
	Delete(ctx context.Context, id string) error
}

// Policy selects how local state is recovered when the store fails.
type Policy string

const (
	// PolicyRollback undoes the local change for every operation.
	PolicyRollback Policy = "rollback"
	// PolicyLegacy undoes a failed add, keeps a failed status update
	// locally, and resyncs the whole board after a failed delete.
	PolicyLegacy Policy = "legacy"
)

func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case "", PolicyRollback:
		return PolicyRollback, nil
	case PolicyLegacy:
		return PolicyLegacy, nil
	}
	return "", fmt.Errorf("unknown sync policy %q", s)
}

type Repository struct {
	// mu is held shared by Apply and exclusively by Load.
	mu     sync.RWMutex
	board  *pipeline.Board
	store  Store
	policy Policy
	logger *slog.Logger
	locks  *keyedMutex
}

func NewRepository(board *pipeline.Board, store Store, policy Policy, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	if policy == "" {
		policy = PolicyRollback
	}
	return &Repository{
		board:  board,
		store:  store,
		policy: policy,
		logger: logger.With("component", "leadsync", "policy", string(policy)),
		locks:  newKeyedMutex(),
	}
}

func (r *Repository) Board() *pipeline.Board {
	return r.board
}

// Load replaces the board with the store contents. Called once at startup
// and by the periodic resync.
func (r *Repository) Load(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load(ctx)
}

func (r *Repository) load(ctx context.Context) error {
	leads, err := r.store.SelectAll(ctx)
	if err != nil {
		return fmt.Errorf("load leads: %w", err)
	}
	r.board.Replace(leads)
	r.logger.Info("pipeline loaded from store", "leads", len(leads))
	return nil
}

// Resync is Load under another name for callers recovering from divergence.
func (r *Repository) Resync(ctx context.Context) error {
	return r.Load(ctx)
}

// Apply runs one operation against the board and the store.
func (r *Repository) Apply(ctx context.Context, op Operation) (Result, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	unlock := r.locks.Lock(op.leadID())
	defer unlock()

	r.logger.Debug("applying operation", "op", op.name(), "lead_id", op.leadID())

	switch o := op.(type) {
	case AddLead:
		return r.add(ctx, o)
	case UpdateStatus:
		return r.updateStatus(ctx, o)
	case DeleteLead:
		return r.delete(ctx, o)
	}
	return Result{}, fmt.Errorf("%w: %T", ErrUnknownOperation, op)
}

func (r *Repository) add(ctx context.Context, op AddLead) (Result, error) {
	if op.Listing.ID == "" {
		return Result{}, fmt.Errorf("%w: id", model.ErrMissingField)
	}
	if !r.board.Promote(op.Listing) {
		lead, _ := r.board.Get(op.Listing.ID)
		return Result{Lead: &lead}, nil
	}
	lead, _ := r.board.Get(op.Listing.ID)

	if err := r.store.Insert(ctx, lead); err != nil {
		// a failed add is undone under both policies
		r.board.Remove(lead.ID)
		r.logger.Error("insert failed, lead removed from board", "lead_id", lead.ID, "error", err)
		return Result{Recovery: RecoveryRolledBack}, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	r.logger.Info("lead added to pipeline", "lead_id", lead.ID)
	return Result{Changed: true, Lead: &lead}, nil
}

func (r *Repository) updateStatus(ctx context.Context, op UpdateStatus) (Result, error) {
	prev, changed, err := r.board.SetStatus(op.ID, op.Status)
	if err != nil {
		return Result{}, err
	}
	if !changed {
		return r.current(op.ID, false), nil
	}

	if err := r.store.Update(ctx, op.ID, op.Status); err != nil {
		if r.policy == PolicyLegacy {
			r.logger.Error("status update failed, board keeps new status", "lead_id", op.ID, "status", op.Status, "error", err)
			res := r.current(op.ID, true)
			res.Recovery = RecoveryDiverged
			return res, nil
		}
		r.board.RestoreStatus(op.ID, prev)
		r.logger.Error("status update failed, status restored", "lead_id", op.ID, "status", prev, "error", err)
		res := r.current(op.ID, false)
		res.Recovery = RecoveryRolledBack
		return res, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	r.logger.Info("lead status updated", "lead_id", op.ID, "from", prev, "to", op.Status)
	return r.current(op.ID, true), nil
}

func (r *Repository) delete(ctx context.Context, op DeleteLead) (Result, error) {
	removed, at, ok := r.board.Remove(op.ID)
	if !ok {
		return Result{}, nil
	}

	if err := r.store.Delete(ctx, op.ID); err != nil {
		if r.policy == PolicyLegacy {
			r.logger.Error("delete failed, resyncing board", "lead_id", op.ID, "error", err)
			if loadErr := r.load(ctx); loadErr != nil {
				r.logger.Error("resync after failed delete failed", "error", loadErr)
				return Result{}, fmt.Errorf("%w: %w (resync: %w)", ErrPersistence, err, loadErr)
			}
			return Result{Recovery: RecoveryResynced}, fmt.Errorf("%w: %w", ErrPersistence, err)
		}
		r.board.Insert(at, removed)
		r.logger.Error("delete failed, lead restored", "lead_id", op.ID, "error", err)
		return Result{Lead: &removed, Recovery: RecoveryRolledBack}, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	r.logger.Info("lead deleted", "lead_id", op.ID)
	return Result{Changed: true, Lead: &removed}, nil
}

func (r *Repository) current(id string, changed bool) Result {
	lead, ok := r.board.Get(id)
	if !ok {
		return Result{Changed: changed}
	}
	return Result{Changed: changed, Lead: &lead}
}
