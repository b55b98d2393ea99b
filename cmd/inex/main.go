// Command inex runs the insurance field-extraction pipeline from the
// command line: match recognized tokens against the template catalog,
// extract and normalize fields, and emit the canonical submission.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"inex/internal/catalog"
	"inex/internal/config"
	"inex/internal/domain"
	"inex/internal/export"
	"inex/internal/logger"
	"inex/internal/metrics"
	"inex/internal/normalize"
	"inex/internal/pipeline"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// tokenInput is the JSON document handed over by the external
// recognizer: the ordered token sequence plus a page count.
type tokenInput struct {
	Filename  string         `json:"filename"`
	PageCount int            `json:"page_count"`
	Tokens    []domain.Token `json:"tokens"`
}

// processOutput is the full CLI result: the extraction with provenance
// plus the submission-level validation report.
type processOutput struct {
	domain.DocumentExtraction
	Validation normalize.ValidationReport `json:"validation"`
}

type appFlags struct {
	templatesDir string
	logLevel     string
}

func newRootCmd() *cobra.Command {
	flags := &appFlags{}

	root := &cobra.Command{
		Use:           "inex",
		Short:         "Layout-aware insurance submission field extraction",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.templatesDir, "templates", "", "template/rule catalog directory (default from INEX_CATALOG_DIR)")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "log level override (debug, info, warn, error)")

	root.AddCommand(newProcessCmd(flags))
	root.AddCommand(newTemplatesCmd(flags))
	return root
}

// setup loads config, builds the logger, and opens the catalog.
func setup(flags *appFlags) (*config.Config, *zap.Logger, *catalog.Catalog, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}
	if flags.templatesDir != "" {
		cfg.Catalog.Dir = flags.templatesDir
	}
	if flags.logLevel != "" {
		cfg.Log.Level = flags.logLevel
	}
	log, err := logger.New(cfg.Log.Environment, cfg.Log.Level)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, log, catalog.New(cfg.Catalog.Dir, log), nil
}

func newProcessCmd(flags *appFlags) *cobra.Command {
	var format, outPath string

	cmd := &cobra.Command{
		Use:   "process <tokens.json>",
		Short: "Run the extraction pipeline over a recognized token file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, cat, err := setup(flags)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()
			metrics.Register()

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading token file: %w", err)
			}
			var input tokenInput
			if err := json.Unmarshal(data, &input); err != nil {
				return fmt.Errorf("parsing token file: %w", err)
			}
			if input.Filename == "" {
				input.Filename = filepath.Base(args[0])
			}

			proc := pipeline.NewProcessor(cat, log)
			doc, err := proc.Process(input.Filename, input.Tokens, input.PageCount)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if outPath != "" {
				f, err := os.Create(outPath)
				if err != nil {
					return fmt.Errorf("creating output file: %w", err)
				}
				defer func() { _ = f.Close() }()
				out = f
			}

			switch format {
			case "json":
				result := processOutput{
					DocumentExtraction: *doc,
					Validation:         normalize.ValidateSubmission(doc.Submission),
				}
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			case "csv":
				if _, err := out.Write(export.BOM); err != nil {
					return err
				}
				w := export.NewWriter(out)
				if err := w.WriteHeader(); err != nil {
					return err
				}
				if err := w.WriteExtractions([]domain.DocumentExtraction{*doc}); err != nil {
					return err
				}
				w.Flush()
				return w.Error()
			case "xlsx":
				wb, err := export.BuildWorkbook([]domain.DocumentExtraction{*doc}, cfg.Export.SheetName)
				if err != nil {
					return err
				}
				return wb.Write(out)
			default:
				return fmt.Errorf("unknown output format %q", format)
			}
		},
	}
	cmd.Flags().StringVar(&format, "format", "json", "output format: json, csv, or xlsx")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")
	return cmd
}

func newTemplatesCmd(flags *appFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "Inspect the template catalog",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List loaded templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, log, cat, err := setup(flags)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			infos, err := cat.List()
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tDESCRIPTION")
			for _, info := range infos {
				fmt.Fprintf(w, "%s\t%s\t%s\n", info.ID, info.Name, info.Description)
			}
			return w.Flush()
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show <template-id>",
		Short: "Show one template definition and its field rules",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, log, cat, err := setup(flags)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			templates, err := cat.Templates()
			if err != nil {
				return err
			}
			tpl, ok := templates[args[0]]
			if !ok {
				return fmt.Errorf("template %q: %w", args[0], domain.ErrTemplateNotFound)
			}
			rules, err := cat.FieldRules(args[0])
			if err != nil && !isNoRules(err) {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(struct {
				Template domain.Template             `json:"template"`
				Rules    map[string]domain.FieldRule `json:"field_rules,omitempty"`
			}{Template: tpl, Rules: rules})
		},
	})

	return cmd
}

func isNoRules(err error) bool {
	return errors.Is(err, domain.ErrNoRulesForTemplate)
}
