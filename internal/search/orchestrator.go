// Package search runs a lead search against a content-discovery provider and
// keeps only well formed listings that link directly to a single ad.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"prophunter_backend/internal/model"
)

var ErrSearchFailed = errors.New("search failed")

// Provider is the external content-discovery service. It returns the raw
// JSON answer, expected to be an array of listing objects.
type Provider interface {
	Generate(ctx context.Context, req Request) ([]byte, error)
}

type Option func(*Orchestrator)

func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

func WithTimeout(d time.Duration) Option {
	return func(o *Orchestrator) { o.timeout = d }
}

func WithMaxResults(n int) Option {
	return func(o *Orchestrator) { o.maxResults = n }
}

func WithLogger(l *slog.Logger) Option {
	return func(o *Orchestrator) { o.logger = l }
}

type Orchestrator struct {
	provider   Provider
	schema     *jsonschema.Schema
	now        func() time.Time
	timeout    time.Duration
	maxResults int
	logger     *slog.Logger
}

const DefaultTimeout = 60 * time.Second

func NewOrchestrator(provider Provider, opts ...Option) (*Orchestrator, error) {
	schema, err := compileListingSchema()
	if err != nil {
		return nil, err
	}
	o := &Orchestrator{
		provider:   provider,
		schema:     schema,
		now:        time.Now,
		timeout:    DefaultTimeout,
		maxResults: defaultMaxResults,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	o.logger = o.logger.With("component", "search")
	return o, nil
}

// Search runs one provider request for the filters. It returns an empty
// slice and a nil error when nothing usable came back; provider or decoding
// failures return an empty slice and an error wrapping ErrSearchFailed.
func (o *Orchestrator) Search(ctx context.Context, filters model.FilterState) ([]model.Listing, error) {
	filters = filters.Normalize()
	if err := filters.Validate(); err != nil {
		return []model.Listing{}, err
	}

	runID := uuid.NewString()
	logger := o.logger.With("run_id", runID, "city", filters.City)
	logger.Info("search started",
		"property_type", filters.PropertyType,
		"operation", filters.OperationType,
		"neighborhood", filters.Neighborhood)

	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	started := time.Now()
	raw, err := o.provider.Generate(ctx, BuildRequest(filters, o.maxResults))
	if err != nil {
		logger.Error("provider request failed", "error", err, "elapsed", time.Since(started))
		return []model.Listing{}, fmt.Errorf("%w: %w", ErrSearchFailed, err)
	}

	items, err := decodeArray(raw)
	if err != nil {
		logger.Error("provider response could not be parsed", "error", err, "bytes", len(raw))
		return []model.Listing{}, fmt.Errorf("%w: %w", ErrSearchFailed, err)
	}

	scrapedAt := o.now().UTC()
	listings := make([]model.Listing, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	dropped := 0
	for _, item := range items {
		l, ok := o.admit(item)
		if !ok {
			dropped++
			continue
		}
		if _, dup := seen[l.ID]; dup {
			dropped++
			continue
		}
		seen[l.ID] = struct{}{}
		l.ScrapedAt = scrapedAt
		l.Status = model.LeadStatusUnassigned
		listings = append(listings, l)
	}

	logger.Info("search finished",
		"candidates", len(items),
		"admitted", len(listings),
		"dropped", dropped,
		"elapsed", time.Since(started))
	return listings, nil
}

// admit validates one untrusted candidate. Rejections are not errors.
func (o *Orchestrator) admit(raw json.RawMessage) (model.Listing, bool) {
	if err := validateItem(o.schema, raw); err != nil {
		return model.Listing{}, false
	}
	var c model.Candidate
	if err := json.Unmarshal(raw, &c); err != nil {
		return model.Listing{}, false
	}
	l, err := model.ValidateCandidate(c)
	if err != nil {
		return model.Listing{}, false
	}
	if !AdmitURL(l.URL) {
		return model.Listing{}, false
	}
	return l, true
}

// decodeArray reads the provider answer as a JSON array. Markdown code
// fences around the JSON are tolerated; an empty answer is an empty array.
func decodeArray(raw []byte) ([]json.RawMessage, error) {
	raw = stripCodeFence(bytes.TrimSpace(raw))
	if len(raw) == 0 {
		return nil, nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode listing array: %w", err)
	}
	return items, nil
}

func stripCodeFence(raw []byte) []byte {
	if !bytes.HasPrefix(raw, []byte("```")) {
		return raw
	}
	raw = raw[3:]
	if nl := bytes.IndexByte(raw, '\n'); nl >= 0 {
		raw = raw[nl+1:]
	}
	raw = bytes.TrimSuffix(bytes.TrimSpace(raw), []byte("```"))
	return bytes.TrimSpace(raw)
}
