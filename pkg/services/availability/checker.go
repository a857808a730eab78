// Package availability tells callers whether a proposal type can be
// calculated before they attempt it.
package availability

import (
	"context"
	"fmt"

	"github.com/de-tools/takeoff/pkg/models/domain"
	"github.com/de-tools/takeoff/pkg/services/catalog"
	"github.com/rs/zerolog"
)

type Checker interface {
	// IsAvailable is true when at least one resolved composition declares a
	// positive reference value.
	IsAvailable(ctx context.Context, proposalType domain.ProposalType) (bool, error)
	// Available lists the catalog's proposal types that pass IsAvailable.
	Available(ctx context.Context) ([]domain.ProposalType, error)
}

type checker struct {
	resolver catalog.Resolver
}

func NewChecker(resolver catalog.Resolver) (Checker, error) {
	if resolver == nil {
		return nil, fmt.Errorf("catalog resolver is nil")
	}
	return &checker{resolver: resolver}, nil
}

func (c *checker) IsAvailable(ctx context.Context, proposalType domain.ProposalType) (bool, error) {
	entries, err := c.resolver.Resolve(ctx, proposalType)
	if err != nil {
		return false, err
	}
	for _, e := range entries {
		if e.Composition.ReferenceValue.IsPositive() {
			return true, nil
		}
	}
	zerolog.Ctx(ctx).Debug().Str("proposal_type", string(proposalType)).Msg("no priced composition mapped")
	return false, nil
}

func (c *checker) Available(ctx context.Context) ([]domain.ProposalType, error) {
	types, err := c.resolver.ProposalTypes(ctx)
	if err != nil {
		return nil, err
	}
	var available []domain.ProposalType
	for _, t := range types {
		ok, err := c.IsAvailable(ctx, t)
		if err != nil {
			return nil, err
		}
		if ok {
			available = append(available, t)
		}
	}
	return available, nil
}
