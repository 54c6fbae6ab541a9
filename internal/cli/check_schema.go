package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/usestring/jsongraph-mcp/pkg/jsongraph"
)

type resultOutput struct {
	Schema     string                `json:"schema"`
	Valid      bool                  `json:"valid"`
	Violations []jsongraph.Violation `json:"violations,omitempty"`
}

func newCheckSchemaCommand(c *CLI) *cobra.Command {
	return &cobra.Command{
		Use:   "check-schema [schema]",
		Short: "Check a schema against the Draft-4 meta-schema",
		Long: highlight("jgf check-schema [schema]") + "\n\n" +
			"Check that a schema is itself a valid Draft-4 JSON Schema.\n" +
			"Without an argument the default JSON Graph schema is checked.\n\n" +
			"Examples:\n" +
			"  # Check the default schema\n" +
			"  jgf check-schema\n\n" +
			"  # Check a local schema\n" +
			"  jgf check-schema my-graph-schema.json\n",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var arg string
			if len(args) == 1 {
				arg = args[0]
			}
			return c.runCheckSchema(cmd.Context(), arg)
		},
	}
}

func (c *CLI) runCheckSchema(ctx context.Context, arg string) error {
	src, err := c.schemaSource(ctx, arg)
	if err != nil {
		return err
	}

	result, err := c.validator.CheckSchema(ctx, src)
	if err != nil {
		return err
	}

	name := c.schemaName(arg)
	if c.jsonOutput() {
		if err := c.writeJSON(resultOutput{Schema: name, Valid: result.Valid, Violations: result.Violations}); err != nil {
			return err
		}
	} else {
		c.printResult(name, result)
	}

	if !result.Valid {
		return errNotValid
	}
	return nil
}
