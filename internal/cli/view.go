package cli

import (
	"encoding/json"
	"fmt"

	"github.com/fatih/color"

	"github.com/usestring/jsongraph-mcp/pkg/jsongraph"
)

var (
	highlight = color.RGB(50, 108, 229).SprintfFunc()
	pass      = color.New(color.FgGreen, color.Bold).SprintFunc()
	fail      = color.New(color.FgRed, color.Bold).SprintFunc()
	warn      = color.New(color.FgYellow, color.Bold).SprintFunc()
	dim       = color.New(color.Faint).SprintFunc()
)

func (c *CLI) jsonOutput() bool {
	return c.output == OutputJSON
}

// writeJSON prints v as indented JSON on Out.
func (c *CLI) writeJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	_, err = fmt.Fprintln(c.Out, string(data))
	return err
}

// printResult writes the text rendering of a validation result.
func (c *CLI) printResult(subject string, r *jsongraph.Result) {
	if r.Valid {
		fmt.Fprintf(c.Out, "%s %s\n", pass("PASS"), subject)
		return
	}
	fmt.Fprintf(c.Out, "%s %s %s\n", fail("FAIL"), subject, dim(fmt.Sprintf("(%d violations)", len(r.Violations))))
	for _, v := range r.Violations {
		path := v.InstancePath
		if path == "" {
			path = "/"
		}
		fmt.Fprintf(c.Out, "  %s %s\n", highlight("%s", path), v.Message)
		for _, d := range v.Details {
			fmt.Fprintf(c.Out, "    %s\n", dim(d))
		}
	}
}

func (c *CLI) printError(subject string, err error) {
	fmt.Fprintf(c.Out, "%s %s: %v\n", warn("ERROR"), subject, err)
}
