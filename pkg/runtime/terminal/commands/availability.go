package commands

import (
	"context"

	"github.com/de-tools/takeoff/pkg/adapters"
	"github.com/de-tools/takeoff/pkg/models/domain"
	"github.com/spf13/cobra"
)

type AvailabilityCmd struct {
	proposalType string
	rt           Runtime
}

func NewAvailabilityCmd(rt Runtime) *cobra.Command {
	ac := &AvailabilityCmd{rt: rt}
	cmd := &cobra.Command{
		Use:   "availability",
		Short: "Show which proposal types have a priced mapping",
		RunE:  ac.run,
	}
	cmd.Flags().StringVar(&ac.proposalType, "type", "", "Check a single proposal type")
	return cmd
}

func (ac *AvailabilityCmd) run(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
	defer cancel()

	services, err := ac.rt.Services()
	if err != nil {
		return err
	}

	available := map[domain.ProposalType]bool{}
	var types []domain.ProposalType

	if ac.proposalType != "" {
		t := domain.ProposalType(ac.proposalType)
		ok, err := services.Availability.IsAvailable(ctx, t)
		if err != nil {
			return err
		}
		types = []domain.ProposalType{t}
		available[t] = ok
	} else {
		types, err = services.Resolver.ProposalTypes(ctx)
		if err != nil {
			return err
		}
		ready, err := services.Availability.Available(ctx)
		if err != nil {
			return err
		}
		for _, t := range ready {
			available[t] = true
		}
	}

	return ac.rt.Reporter().Handle(adapters.MapAvailabilityToReport(types, available))
}
