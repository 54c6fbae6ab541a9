package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/usestring/jsongraph-mcp/internal/batch"
)

type validateOptions struct {
	Schema string
}

type validateOutput struct {
	Schema string `json:"schema"`
	*batch.Report
}

func newValidateCommand(c *CLI) *cobra.Command {
	var opts validateOptions

	cmd := &cobra.Command{
		Use:   "validate <graph>...",
		Short: "Validate graph documents against a schema",
		Long: highlight("jgf validate <graph>... [--schema path|url]") + "\n\n" +
			"Validate JSON or YAML graph documents, reporting every violation.\n" +
			"Arguments may be files, directories or glob patterns. Directories\n" +
			"are searched for .json, .yaml and .yml files.\n\n" +
			"Examples:\n" +
			"  # Validate against the default schema\n" +
			"  jgf validate graph.json\n\n" +
			"  # Validate a directory against a local schema\n" +
			"  jgf validate graphs/ --schema schema.json\n",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runValidate(cmd.Context(), args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Schema, "schema", "s", "", "Schema file or URL (default: the JSON Graph schema)")
	return cmd
}

func (c *CLI) runValidate(ctx context.Context, args []string, opts validateOptions) error {
	files, err := batch.CollectFiles(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no documents found in %v", args)
	}

	schema, err := c.schemaSource(ctx, opts.Schema)
	if err != nil {
		return err
	}

	report, err := c.runner.ValidateFiles(ctx, files, schema)
	if report == nil {
		return err
	}
	if err != nil {
		c.logger.Debug("some files were not validated", "error", err)
	}

	if c.jsonOutput() {
		if err := c.writeJSON(validateOutput{Schema: c.schemaName(opts.Schema), Report: report}); err != nil {
			return err
		}
	} else {
		for _, f := range report.Files {
			if f.Result == nil {
				c.printError(f.Path, f.Err())
				continue
			}
			c.printResult(fmt.Sprintf("%s %s", f.Path, dim(fmt.Sprintf("[%d graphs]", f.Graphs))), f.Result)
		}
		fmt.Fprintf(c.Out, "\n%d valid, %d invalid, %d failed\n", report.Valid, report.Invalid, report.Failed)
	}

	if !report.AllValid() {
		return errNotValid
	}
	return nil
}
