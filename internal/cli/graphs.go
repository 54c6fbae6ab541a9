package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/usestring/jsongraph-mcp/internal/query"
	"github.com/usestring/jsongraph-mcp/pkg/jsongraph"
	"github.com/usestring/jsongraph-mcp/pkg/types"
)

type graphsOptions struct {
	Validate bool
	Schema   string
	Query    string
	Unique   bool
}

func newGraphsCommand(c *CLI) *cobra.Command {
	var opts graphsOptions

	cmd := &cobra.Command{
		Use:   "graphs <container>",
		Short: "List the graphs held by a container document",
		Long: highlight("jgf graphs <container> [--validate] [--query expr]") + "\n\n" +
			"List the graphs of a container: the value under \"graph\" first, then\n" +
			"every element of \"graphs\". Use - to read the container from stdin.\n\n" +
			"Examples:\n" +
			"  # Summarize every graph\n" +
			"  jgf graphs container.json\n\n" +
			"  # Validate first, then print node ids with jq\n" +
			"  jgf graphs container.json --validate --query '.nodes | keys[]'\n",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGraphs(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Validate, "validate", false, "Validate the container before extracting graphs")
	cmd.Flags().StringVarP(&opts.Schema, "schema", "s", "", "Schema file or URL used with --validate")
	cmd.Flags().StringVarP(&opts.Query, "query", "q", "", "jq expression evaluated against each graph")
	cmd.Flags().BoolVar(&opts.Unique, "unique", false, "Drop repeated query values")
	return cmd
}

func (c *CLI) runGraphs(ctx context.Context, arg string, opts graphsOptions) error {
	schema, err := c.schemaSource(ctx, opts.Schema)
	if err != nil {
		return err
	}

	seq, err := c.validator.Graphs(ctx, c.documentSource(arg), jsongraph.ExtractOptions{
		Validate: opts.Validate,
		Schema:   schema,
	})
	if err != nil {
		var failed *jsongraph.ValidationFailedError
		if errors.As(err, &failed) {
			if c.jsonOutput() {
				if err := c.writeJSON(resultOutput{Schema: c.schemaName(opts.Schema), Violations: failed.Result.Violations}); err != nil {
					return err
				}
			} else {
				c.printResult(arg, failed.Result)
			}
			return errNotValid
		}
		return err
	}

	graphs := slices.Collect(seq)
	if opts.Query != "" {
		return c.printQuery(graphs, opts)
	}

	if c.jsonOutput() {
		return c.writeJSON(graphs)
	}
	for i, g := range graphs {
		fmt.Fprintln(c.Out, describeGraph(types.SummarizeGraph(i, g)))
	}
	if len(graphs) == 0 {
		fmt.Fprintln(c.Out, dim("no graphs"))
	}
	return nil
}

func (c *CLI) printQuery(graphs []any, opts graphsOptions) error {
	labels := make([]string, len(graphs))
	for i, g := range graphs {
		labels[i] = query.GraphLabel(i, g)
	}

	result, err := query.NewEngine().QueryGraphs(graphs, labels, opts.Query, query.Options{
		Deduplicate: opts.Unique,
		MaxResults:  c.Config.MaxQueryResults,
	})
	if err != nil {
		return err
	}

	if c.jsonOutput() {
		return c.writeJSON(result)
	}
	for _, v := range result.Values {
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encoding value: %w", err)
		}
		fmt.Fprintln(c.Out, string(data))
	}
	for _, e := range result.Errors {
		fmt.Fprintln(c.ErrOut, warn("ERROR"), e)
	}
	return nil
}

// describeGraph renders one summary line, e.g. "#0 car-manufacturers (directed) 3 nodes, 2 edges".
func describeGraph(s types.GraphSummary) string {
	if s.Kind != "" {
		return fmt.Sprintf("#%d %s", s.Index, dim("("+s.Kind+")"))
	}

	name := s.Label
	if name == "" {
		name = s.ID
	}
	line := fmt.Sprintf("#%d", s.Index)
	if name != "" {
		line += " " + highlight("%s", name)
	}
	if s.Directed != nil {
		if *s.Directed {
			line += " " + dim("(directed)")
		} else {
			line += " " + dim("(undirected)")
		}
	}
	return fmt.Sprintf("%s %d nodes, %d edges", line, s.NodeCount, s.EdgeCount)
}
