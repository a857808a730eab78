package commands

import (
	"context"
	"fmt"

	"github.com/de-tools/takeoff/pkg/adapters"
	"github.com/de-tools/takeoff/pkg/models/domain"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

const defaultIntakePercent = 50

type VentilationCmd struct {
	input      domain.VentilationInput
	intakeRun  float64
	exhaustRun float64
	xlsx       string
	rt         Runtime
}

func NewVentilationCmd(rt Runtime) *cobra.Command {
	vc := &VentilationCmd{rt: rt}
	cmd := &cobra.Command{
		Use:   "ventilation",
		Short: "Size attic intake and exhaust ventilation",
		Example: `  takeoff ventilation --length 10 --width 10 --regional --intake-product v-soffit --exhaust-product v-ridge --exhaust-run 20
  takeoff ventilation products --side exhaust`,
		RunE: vc.run,
	}

	f := cmd.Flags()
	f.Float64Var(&vc.input.Length, "length", 0, "Attic length in meters")
	f.Float64Var(&vc.input.Width, "width", 0, "Attic width in meters")
	f.Float64Var(&vc.input.RequestedRatio, "ratio", 0, "Ventilation ratio denominator (0 uses the configured default)")
	f.BoolVar(&vc.input.RegionalAdjustment, "regional", false, "Apply the regional ratio")
	f.Float64Var(&vc.input.IntakePercent, "intake-percent", defaultIntakePercent, "Share of NFVA assigned to intake")
	f.StringVar(&vc.input.IntakeProductID, "intake-product", "", "Intake product id")
	f.StringVar(&vc.input.ExhaustProductID, "exhaust-product", "", "Exhaust product id")
	f.Float64Var(&vc.intakeRun, "intake-run", 0, "Available intake run in meters for linear products")
	f.Float64Var(&vc.exhaustRun, "exhaust-run", 0, "Available exhaust run in meters for linear products")
	f.StringVar(&vc.xlsx, "xlsx", "", "Also write the priced products to this .xlsx file")

	_ = cmd.MarkFlagRequired("length")
	_ = cmd.MarkFlagRequired("width")

	cmd.AddCommand(newVentilationProductsCmd(rt))
	return cmd
}

func (vc *VentilationCmd) run(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
	defer cancel()

	services, err := vc.rt.Services()
	if err != nil {
		return err
	}

	input := vc.input
	if cmd.Flags().Changed("intake-run") {
		input.IntakeLinearRun = &vc.intakeRun
	}
	if cmd.Flags().Changed("exhaust-run") {
		input.ExhaustLinearRun = &vc.exhaustRun
	}

	result, err := services.Ventilation.Size(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to size ventilation: %w", err)
	}

	logger := zerolog.Ctx(ctx)
	for _, a := range result.Alerts {
		if a.Severity == domain.SeverityBlocking {
			logger.Warn().Str("code", string(a.Code)).Str("side", string(a.Side)).Msg(a.Message)
		}
	}

	return render(ctx, vc.rt, adapters.MapVentilationResultToReport(*result), vc.xlsx)
}

type ventilationProductsCmd struct {
	side string
	rt   Runtime
}

func newVentilationProductsCmd(rt Runtime) *cobra.Command {
	pc := &ventilationProductsCmd{rt: rt}
	cmd := &cobra.Command{
		Use:   "products",
		Short: "List the active ventilation products",
		RunE:  pc.run,
	}
	cmd.Flags().StringVar(&pc.side, "side", "", "Only list intake or exhaust products")
	return cmd
}

func (pc *ventilationProductsCmd) run(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
	defer cancel()

	services, err := pc.rt.Services()
	if err != nil {
		return err
	}

	products, err := services.Ventilation.Products(ctx, domain.VentSide(pc.side))
	if err != nil {
		return err
	}
	return pc.rt.Reporter().Handle(adapters.MapVentilationProductsToReport(products))
}
