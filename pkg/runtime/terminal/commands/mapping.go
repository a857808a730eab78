package commands

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/de-tools/takeoff/pkg/adapters"
	"github.com/de-tools/takeoff/pkg/models/domain"
	"github.com/spf13/cobra"
)

type MappingCmd struct {
	proposalType string
	area         float64
	parameters   string
	xlsx         string
	rt           Runtime
}

func NewMappingCmd(rt Runtime) *cobra.Command {
	mc := &MappingCmd{rt: rt}
	cmd := &cobra.Command{
		Use:   "mapping",
		Short: "Calculate materials for a mapped proposal type",
		Example: `  takeoff mapping --type telhado_shingle --area 100 --params '{"ridge_length":10}'
  takeoff mapping --type forro --area 42 --xlsx forro.xlsx`,
		RunE: mc.run,
	}

	cmd.Flags().StringVar(&mc.proposalType, "type", "", "Proposal type (e.g., telhado_shingle)")
	cmd.Flags().Float64Var(&mc.area, "area", 0, "Base area in m²")
	cmd.Flags().StringVar(&mc.parameters, "params", "", "Type-specific parameters as a JSON object")
	cmd.Flags().StringVar(&mc.xlsx, "xlsx", "", "Also write the bill of materials to this .xlsx file")

	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("area")

	return cmd
}

func (mc *MappingCmd) run(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
	defer cancel()

	services, err := mc.rt.Services()
	if err != nil {
		return err
	}

	proposalType := domain.ProposalType(mc.proposalType)
	params, err := services.Parameters.Decode(proposalType, json.RawMessage(mc.parameters))
	if err != nil {
		return err
	}

	calc, err := services.Mapping.Calculate(ctx, proposalType, mc.area, params)
	if err != nil {
		return fmt.Errorf("failed to calculate %s: %w", mc.proposalType, err)
	}

	return render(ctx, mc.rt, adapters.MapCalculationToReport(*calc), mc.xlsx)
}
