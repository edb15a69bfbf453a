package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"schedcal/internal/config"
	"schedcal/internal/convert"
	appLog "schedcal/internal/log"
	"schedcal/internal/sheet"
	"schedcal/internal/web"
)

var (
	flagConfigPath string
	flagDebug      bool

	flagOutput string
	flagYear   int
	flagListen string
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		appLog.Error("schedcal failed", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "schedcal",
		Short: "Convert tabular schedule exports into a recurring-event calendar",
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if flagDebug {
				appLog.SetLevel(appLog.LevelDebug)
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flagConfigPath, "config", defaultConfigPath(), "Path to config file")
	root.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")

	root.AddCommand(newConvertCommand())
	root.AddCommand(newServeCommand())
	return root
}

func newConvertCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert <schedule.xlsx>",
		Short: "Convert one schedule workbook to an .ics file",
		Long: `Convert a schedule workbook to an iCalendar file.

The first worksheet is read as a table: a header row naming at least
"Course Listing" and "Meeting Patterns", then one row per section. Rows
whose meeting-pattern cell defeats parsing fall back to the explicit
Days / Start Time / End Time / Start Date / End Date columns when present.

Examples:
  # Write schedule.ics next to the input
  schedcal convert ./schedule.xlsx

  # Pick the output path and pin the year used for yearless dates
  schedcal convert ./schedule.xlsx -o fall.ics --year 2024`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd.Context(), args[0])
		},
	}

	cmd.Flags().StringVarP(&flagOutput, "output", "o", "", "Output path (default: input name with .ics)")
	cmd.Flags().IntVar(&flagYear, "year", 0, "Year substituted for yearless dates (default: current year)")
	return cmd
}

func newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the converter over HTTP (POST /convert)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&flagListen, "listen", "", "HTTP listen address (overrides config if set)")
	return cmd
}

func runConvert(_ context.Context, inputPath string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if flagYear != 0 {
		cfg.DefaultYear = flagYear
	}

	f, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("opening %s: %w", inputPath, err)
	}
	defer f.Close()

	rows, err := sheet.ReadRows(f)
	if err != nil {
		return fmt.Errorf("decoding %s: %w", inputPath, err)
	}

	doc, report := convert.Schedule(rows, cfg, time.Now)
	for _, re := range report.RowErrors {
		fmt.Fprintf(os.Stderr, "row %d: %s\n", re.Row, re.Message)
	}

	outPath := flagOutput
	if outPath == "" {
		outPath = strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + ".ics"
	}
	if err := os.WriteFile(outPath, []byte(doc), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", outPath, err)
	}

	fmt.Printf("Wrote %s: %d event(s) encoded", outPath, report.Encoded)
	if report.Skipped > 0 {
		fmt.Printf(", %d skipped (missing days/times/dates)", report.Skipped)
	}
	if len(report.RowErrors) > 0 {
		fmt.Printf(", %d row error(s)", len(report.RowErrors))
	}
	fmt.Println()
	return nil
}

func runServe(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if flagListen != "" {
		cfg.Listen = flagListen
	}

	appLog.Info("effective config",
		"listen", cfg.Listen,
		"timezone", cfg.Timezone,
		"uid_domain", cfg.UIDDomain,
		"default_year", cfg.DefaultYear,
	)
	return web.StartServer(ctx, cfg)
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(flagConfigPath)
	if err != nil {
		return nil, fmt.Errorf("loading config %s: %w", flagConfigPath, err)
	}
	return cfg, nil
}

func defaultConfigPath() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "schedcal", "config.yaml")
	}
	return "./schedcal.yaml"
}
