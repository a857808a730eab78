// Package catalog resolves the eligible compositions for a proposal type and
// owns the freshness policy of the catalog data it hands to calculators.
package catalog

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/de-tools/takeoff/pkg/adapters"
	"github.com/de-tools/takeoff/pkg/models/domain"
	catalogstore "github.com/de-tools/takeoff/pkg/store/catalog"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

const opResolve = "catalog.Resolve"

type Resolver interface {
	// Resolve returns the active compositions of a proposal type ordered by
	// composition order, then item order. An empty result is not an error.
	Resolve(ctx context.Context, proposalType domain.ProposalType) ([]domain.CatalogEntry, error)
	ProposalTypes(ctx context.Context) ([]domain.ProposalType, error)
	Invalidate(proposalType domain.ProposalType)
	InvalidateAll()
}

type Options struct {
	// TTL bounds how long a resolved proposal type is served from memory.
	// Zero disables caching.
	TTL                 time.Duration
	DefaultWastePercent float64
	Now                 func() time.Time
}

type cacheEntry struct {
	entries   []domain.CatalogEntry
	fetchedAt time.Time
}

type resolver struct {
	store catalogstore.Store
	opts  Options

	mu    sync.RWMutex
	cache map[domain.ProposalType]cacheEntry
	group singleflight.Group
}

func NewResolver(store catalogstore.Store, opts Options) Resolver {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &resolver{
		store: store,
		opts:  opts,
		cache: make(map[domain.ProposalType]cacheEntry),
	}
}

func (r *resolver) Resolve(ctx context.Context, proposalType domain.ProposalType) ([]domain.CatalogEntry, error) {
	logger := zerolog.Ctx(ctx)

	if entries, ok := r.lookup(proposalType); ok {
		logger.Debug().Str("proposal_type", string(proposalType)).Msg("catalog cache hit")
		return cloneEntries(entries), nil
	}

	// The fetch is shared by every caller waiting on this proposal type, so it
	// runs detached from the cancellation of whichever caller started it.
	fetchCtx := context.WithoutCancel(ctx)
	ch := r.group.DoChan(string(proposalType), func() (interface{}, error) {
		logger.Debug().Str("proposal_type", string(proposalType)).Msg("catalog cache miss")
		rows, err := r.store.ListCompositionItems(fetchCtx, string(proposalType))
		if err != nil {
			return nil, domain.DataSourceFailure(opResolve, err)
		}

		entries := adapters.MapStoreCompositionRowsToDomain(rows)
		r.applyDefaults(entries)
		sortEntries(entries)

		if r.opts.TTL > 0 {
			r.mu.Lock()
			r.cache[proposalType] = cacheEntry{entries: entries, fetchedAt: r.opts.Now()}
			r.mu.Unlock()
		}
		return entries, nil
	})

	var v interface{}
	select {
	case <-ctx.Done():
		return nil, domain.DataSourceFailure(opResolve, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		v = res.Val
	}

	return cloneEntries(v.([]domain.CatalogEntry)), nil
}

func (r *resolver) ProposalTypes(ctx context.Context) ([]domain.ProposalType, error) {
	types, err := r.store.ListProposalTypes(ctx)
	if err != nil {
		return nil, domain.DataSourceFailure("catalog.ProposalTypes", err)
	}
	result := make([]domain.ProposalType, 0, len(types))
	for _, t := range types {
		result = append(result, domain.ProposalType(t))
	}
	return result, nil
}

func (r *resolver) Invalidate(proposalType domain.ProposalType) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.cache, proposalType)
}

func (r *resolver) InvalidateAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache = make(map[domain.ProposalType]cacheEntry)
}

func (r *resolver) lookup(proposalType domain.ProposalType) ([]domain.CatalogEntry, bool) {
	if r.opts.TTL <= 0 {
		return nil, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.cache[proposalType]
	if !ok || r.opts.Now().Sub(entry.fetchedAt) >= r.opts.TTL {
		return nil, false
	}
	return entry.entries, true
}

func (r *resolver) applyDefaults(entries []domain.CatalogEntry) {
	for i := range entries {
		if entries[i].Composition.WastePercent == nil {
			waste := r.opts.DefaultWastePercent
			entries[i].Composition.WastePercent = &waste
		}
		if entries[i].Composition.Scope == "" {
			entries[i].Composition.Scope = domain.ScopeArea
		}
	}
}

func sortEntries(entries []domain.CatalogEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i].Composition, entries[j].Composition
		if a.Order != b.Order {
			return a.Order < b.Order
		}
		if a.Code != b.Code {
			return a.Code < b.Code
		}
		return a.ID < b.ID
	})

	for _, e := range entries {
		items := e.Items
		sort.SliceStable(items, func(i, j int) bool {
			if items[i].Order != items[j].Order {
				return items[i].Order < items[j].Order
			}
			if items[i].Code != items[j].Code {
				return items[i].Code < items[j].Code
			}
			return items[i].ID < items[j].ID
		})
	}
}

func cloneEntries(entries []domain.CatalogEntry) []domain.CatalogEntry {
	out := make([]domain.CatalogEntry, len(entries))
	for i, e := range entries {
		out[i] = domain.CatalogEntry{
			Composition: e.Composition,
			Items:       slices.Clone(e.Items),
		}
		if e.Composition.WastePercent != nil {
			w := *e.Composition.WastePercent
			out[i].Composition.WastePercent = &w
		}
	}
	return out
}
