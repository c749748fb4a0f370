package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/atotto/clipboard"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is the application version, set via ldflags.
var version string = "dev" // Default for local builds

// newRootCommand builds the linecount command with its own viper instance.
func newRootCommand() *cobra.Command {
	v := viper.New()
	setConfigDefaults(v)
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "linecount <path>",
		Short: "Count lines of code per file extension.",
		Long: `linecount walks a directory (or a cloned Git repository), counts the lines of
source, markup and data files, and reports totals per extension together with
the five biggest files of each extension. .gitignore files are respected at
every directory level.`,
		Version: version,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Argument errors above are printed by cobra with usage. Failures
			// from here on go through the reporter only.
			cmd.SilenceUsage = true
			cmd.SilenceErrors = true

			configErr := initConfig(v, cfgFile)
			cfg := loadConfig(v)

			allowColor := !cfg.NoColor && os.Getenv("NO_COLOR") == ""
			reporter := NewReporter(cmd.ErrOrStderr(), allowColor)
			if configErr != nil {
				reporter.Warnf("%v", configErr)
			}

			if err := run(cmd.Context(), afero.NewOsFs(), cfg, args[0], cmd.OutOrStdout(), reporter); err != nil {
				reporter.Errorf("%v", err)
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/linecount/config.toml)")

	// Scanning
	cmd.Flags().IntP("threads", "t", 0, "Number of threads for parallel scanning (0 for auto)")
	v.BindPFlag("threads", cmd.Flags().Lookup("threads"))
	cmd.Flags().StringSliceP("exclude", "e", nil, "Additional gitignore-style patterns to exclude, anchored at the scanned path (comma-separated)")
	v.BindPFlag("exclude", cmd.Flags().Lookup("exclude"))
	cmd.Flags().Bool("no-ignore", false, "Don't respect .gitignore files")
	v.BindPFlag("no_ignore", cmd.Flags().Lookup("no-ignore")) // Use snake_case for viper key

	// Output
	cmd.Flags().StringP("format", "o", formatTable, "Output format: table, json, yaml or toml")
	v.BindPFlag("format", cmd.Flags().Lookup("format"))
	cmd.Flags().StringP("file", "f", "", "Save output to specified file")
	v.BindPFlag("file", cmd.Flags().Lookup("file"))
	cmd.Flags().BoolP("clipboard", "c", false, "Copy output to clipboard")
	v.BindPFlag("clipboard", cmd.Flags().Lookup("clipboard"))
	cmd.Flags().String("pdf", "", "Save the report tables as PDF")
	v.BindPFlag("pdf", cmd.Flags().Lookup("pdf"))
	cmd.Flags().Bool("no-color", false, "Disable colored output")
	v.BindPFlag("no_color", cmd.Flags().Lookup("no-color"))

	return cmd
}

// run scans input, aggregates the records and writes the report.
func run(ctx context.Context, fs afero.Fs, cfg Config, input string, stdout io.Writer, reporter *Reporter) error {
	scanPath := input
	if isGitURL(input) {
		tempDir, err := cloneGitRepo(ctx, input, reporter.writer, reporter)
		if err != nil {
			return err
		}
		// Ensure the temporary directory is cleaned up even if later steps fail
		defer func() {
			reporter.Infof("Cleaning up temporary directory: %s", tempDir)
			_ = os.RemoveAll(tempDir)
		}()
		scanPath = tempDir
	}

	records, err := processLocalPath(ctx, fs, scanPath, cfg.scanOptions(), reporter)
	if err != nil {
		return err
	}
	report := aggregate(records)

	if err := writeReport(report, cfg, input, stdout, reporter); err != nil {
		return err
	}

	if n := reporter.Warnings(); n > 0 {
		reporter.Infof("Scan completed with %d warning(s)", n)
	}
	return nil
}

// writeReport sends the report to the PDF file, text file, clipboard or stdout.
func writeReport(report AggregateReport, cfg Config, input string, stdout io.Writer, reporter *Reporter) error {
	if cfg.PDFFile != "" {
		// Prioritize PDF output if the flag is set
		if err := generatePDF(report, input, cfg.PDFFile); err != nil {
			return err
		}
		reporter.Infof("PDF saved to %s", cfg.PDFFile)
		return nil
	}

	colorize := !cfg.NoColor && cfg.OutputFile == "" && !cfg.Clipboard && isTerminal(stdout)
	finalOutput, err := renderReport(report, cfg.Format, colorize)
	if err != nil {
		return err
	}

	switch {
	case cfg.OutputFile != "":
		if err := os.WriteFile(cfg.OutputFile, []byte(finalOutput), 0644); err != nil {
			return fmt.Errorf("error writing to file %s: %w", cfg.OutputFile, err)
		}
		reporter.Infof("Output saved to %s", cfg.OutputFile)
	case cfg.Clipboard:
		if err := clipboard.WriteAll(finalOutput); err != nil {
			reporter.Warnf("error writing to clipboard: %v", err)
			fmt.Fprint(stdout, finalOutput)
			return nil
		}
		reporter.Infof("Output copied to clipboard.")
	default:
		fmt.Fprint(stdout, finalOutput)
	}
	return nil
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
