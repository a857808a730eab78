package commands

import (
	"context"
	"fmt"

	"github.com/de-tools/takeoff/pkg/adapters"
	"github.com/de-tools/takeoff/pkg/models/domain"
	"github.com/spf13/cobra"
)

type PartitionCmd struct {
	input domain.PartitionInput
	waste float64
	xlsx  string
	rt    Runtime
}

func NewPartitionCmd(rt Runtime) *cobra.Command {
	pc := &PartitionCmd{rt: rt}
	cmd := &cobra.Command{
		Use:     "partition",
		Short:   "Take off a drywall partition",
		Example: `  takeoff partition --type ST-70 --width 6 --height 3 --doors 1 --windows 1 --insulation`,
		RunE:    pc.run,
	}

	f := cmd.Flags()
	f.StringVar(&pc.input.PartitionType, "type", "", "Partition type (e.g., ST-70)")
	f.Float64Var(&pc.input.Width, "width", 0, "Wall width in meters")
	f.Float64Var(&pc.input.Height, "height", 0, "Wall height in meters")
	f.IntVar(&pc.input.Doors.Count, "doors", 0, "Number of doors")
	f.Float64Var(&pc.input.Doors.Width, "door-width", 0, "Door width in meters (0 uses the default door)")
	f.Float64Var(&pc.input.Doors.Height, "door-height", 0, "Door height in meters (0 uses the default door)")
	f.IntVar(&pc.input.Windows.Count, "windows", 0, "Number of windows")
	f.Float64Var(&pc.input.Windows.Width, "window-width", 0, "Window width in meters (0 uses the default window)")
	f.Float64Var(&pc.input.Windows.Height, "window-height", 0, "Window height in meters (0 uses the default window)")
	f.Float64Var(&pc.input.StudSpacing, "spacing", 0, "Stud spacing in meters (0 uses the configured default)")
	f.BoolVar(&pc.input.IncludeInsulation, "insulation", false, "Include insulation")
	f.IntVar(&pc.input.InsulationThickness, "insulation-mm", 0, "Insulation thickness in mm (0 uses the reference thickness)")
	f.Float64Var(&pc.waste, "waste", 0, "Waste percent applied to every line instead of the catalog's")
	f.StringVar(&pc.xlsx, "xlsx", "", "Also write the bill of materials to this .xlsx file")

	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("width")
	_ = cmd.MarkFlagRequired("height")

	return cmd
}

func (pc *PartitionCmd) run(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
	defer cancel()

	services, err := pc.rt.Services()
	if err != nil {
		return err
	}

	input := pc.input
	if cmd.Flags().Changed("waste") {
		waste := pc.waste
		input.WasteOverride = &waste
	}

	takeoff, err := services.Partition.Takeoff(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to take off partition %s: %w", input.PartitionType, err)
	}

	return render(ctx, pc.rt, adapters.MapPartitionTakeoffToReport(*takeoff), pc.xlsx)
}

type SelfCheckCmd struct {
	partitionType string
	xlsx          string
	rt            Runtime
}

func NewSelfCheckCmd(rt Runtime) *cobra.Command {
	sc := &SelfCheckCmd{rt: rt}
	cmd := &cobra.Command{
		Use:   "selfcheck",
		Short: "Run the reference wall through a partition type and check the result",
		RunE:  sc.run,
	}

	cmd.Flags().StringVar(&sc.partitionType, "type", "", "Partition type (e.g., ST-70)")
	cmd.Flags().StringVar(&sc.xlsx, "xlsx", "", "Also write the reference bill of materials to this .xlsx file")
	_ = cmd.MarkFlagRequired("type")

	return cmd
}

func (sc *SelfCheckCmd) run(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
	defer cancel()

	services, err := sc.rt.Services()
	if err != nil {
		return err
	}

	report, err := services.Partition.SelfCheck(ctx, sc.partitionType)
	if err != nil {
		return err
	}
	if err := render(ctx, sc.rt, adapters.MapSelfCheckReportToReport(*report), sc.xlsx); err != nil {
		return err
	}
	if !report.Passed() {
		return fmt.Errorf("self-check failed for %s: %d finding(s)", sc.partitionType, len(report.Findings))
	}
	return nil
}
