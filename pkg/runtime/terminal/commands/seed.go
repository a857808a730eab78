package commands

import (
	"context"
	"fmt"

	"github.com/de-tools/takeoff/pkg/runtime/app"
	"github.com/spf13/cobra"
)

type SeedCmd struct {
	file  string
	force bool
	rt    Runtime
}

func NewSeedCmd(rt Runtime) *cobra.Command {
	sc := &SeedCmd{rt: rt}
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load catalog fixtures from a YAML file into the catalog database",
		RunE:  sc.run,
	}
	cmd.Flags().StringVar(&sc.file, "file", "configs/catalog.yaml", "Catalog fixtures file")
	cmd.Flags().BoolVar(&sc.force, "force", false, "Write even when the catalog already has compositions")
	return cmd
}

func (sc *SeedCmd) run(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
	defer cancel()

	db, err := sc.rt.DB()
	if err != nil {
		return err
	}
	services, err := sc.rt.Services()
	if err != nil {
		return err
	}

	if !sc.force {
		types, err := services.Resolver.ProposalTypes(ctx)
		if err != nil {
			return err
		}
		if len(types) > 0 {
			return fmt.Errorf("catalog already lists %d proposal type(s); use --force to write anyway", len(types))
		}
	}

	if err := app.Seed(ctx, db, sc.file); err != nil {
		return err
	}
	services.Resolver.InvalidateAll()

	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Catalog seeded from %s\n", sc.file)
	return err
}
