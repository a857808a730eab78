package terminal

import (
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/de-tools/takeoff/pkg/runtime/app"
	"github.com/de-tools/takeoff/pkg/runtime/terminal/commands"
	"github.com/de-tools/takeoff/pkg/runtime/terminal/export"
	"github.com/de-tools/takeoff/pkg/services/config"
	"github.com/spf13/cobra"
)

const (
	FormatTable = "table"
	FormatText  = "text"
)

// CLI represents the command-line interface
type CLI struct {
	app       *app.App
	ownsApp   bool
	output    io.Writer
	logOutput io.Writer
	rootCmd   *cobra.Command

	configPath   string
	profilesPath string
	profile      string
	format       string
}

// Options contain configuration for the CLI
type Options struct {
	// App skips configuration loading when set.
	App       *app.App
	Output    io.Writer
	LogOutput io.Writer
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.LogOutput == nil {
		opts.LogOutput = os.Stderr
	}

	cli := &CLI{
		app:       opts.App,
		output:    opts.Output,
		logOutput: opts.LogOutput,
	}

	cli.rootCmd = cli.newRootCmd()
	return cli
}

// Execute runs the root command and closes the catalog it opened, if any.
func (cli *CLI) Execute() error {
	err := cli.rootCmd.Execute()
	if cli.ownsApp {
		cli.ownsApp = false
		if closeErr := cli.app.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
		cli.app = nil
	}
	return err
}

// SetArgs overrides os.Args for the next Execute.
func (cli *CLI) SetArgs(args []string) {
	cli.rootCmd.SetArgs(args)
}

func (cli *CLI) Services() (*app.Services, error) {
	if cli.app == nil || cli.app.Services == nil {
		return nil, fmt.Errorf("catalog is not initialized")
	}
	return cli.app.Services, nil
}

func (cli *CLI) DB() (*sql.DB, error) {
	if cli.app == nil || cli.app.DB == nil {
		return nil, fmt.Errorf("no catalog database is open")
	}
	return cli.app.DB, nil
}

func (cli *CLI) Reporter() commands.ReportHandler {
	if cli.format == FormatText {
		return NewReporter(cli.output)
	}
	return export.NewReporter(cli.output)
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "takeoff",
		Short:             "Construction material quantity and pricing calculator",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: cli.bootstrap,
	}
	cmd.SetOut(cli.output)

	f := cmd.PersistentFlags()
	f.StringVarP(&cli.configPath, "config", "c", "", "Path to a takeoff config file (yaml)")
	f.StringVar(&cli.profilesPath, "profiles", config.DefaultProfilesPath(), "Path to the catalog profiles file")
	f.StringVar(&cli.profile, "profile", "", "Catalog profile name (overrides catalog.profile)")
	f.StringVar(&cli.format, "format", FormatTable, "Report format: table or text")

	cmd.AddCommand(commands.NewMappingCmd(cli))
	cmd.AddCommand(commands.NewPartitionCmd(cli))
	cmd.AddCommand(commands.NewSelfCheckCmd(cli))
	cmd.AddCommand(commands.NewVentilationCmd(cli))
	cmd.AddCommand(commands.NewAvailabilityCmd(cli))
	cmd.AddCommand(commands.NewSeedCmd(cli))

	return cmd
}

func (cli *CLI) bootstrap(cmd *cobra.Command, _ []string) error {
	if cli.format != FormatTable && cli.format != FormatText {
		return fmt.Errorf("unknown format %q (want %s or %s)", cli.format, FormatTable, FormatText)
	}

	cfg, err := config.LoadConfig(cli.configPath)
	if err != nil {
		return err
	}
	if cli.profile != "" {
		cfg.Catalog.Profile = cli.profile
	}

	logger, err := app.NewLogger(cfg.Logging, cli.logOutput)
	if err != nil {
		return err
	}
	ctx := logger.WithContext(cmd.Context())
	cmd.SetContext(ctx)

	if cli.app != nil {
		return nil
	}

	a, err := app.Open(ctx, cfg, cli.profilesPath)
	if err != nil {
		return err
	}
	cli.app = a
	cli.ownsApp = true
	return nil
}
