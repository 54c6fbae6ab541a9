// Package cli implements the jgf command line tool.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/usestring/jsongraph-mcp/internal/batch"
	"github.com/usestring/jsongraph-mcp/internal/cache"
	"github.com/usestring/jsongraph-mcp/internal/config"
	"github.com/usestring/jsongraph-mcp/internal/logging"
	"github.com/usestring/jsongraph-mcp/internal/mcp"
	"github.com/usestring/jsongraph-mcp/pkg/jsongraph"
)

// errNotValid signals exit status 1 after the reason was already printed.
var errNotValid = errors.New("not valid")

// Output formats accepted by --output.
const (
	OutputText = "text"
	OutputJSON = "json"
)

// CLI is the state shared by every jgf command.
type CLI struct {
	Out    io.Writer
	ErrOut io.Writer
	In     io.Reader

	Config     *config.Config
	HTTPClient *http.Client

	output   string
	verbose  bool
	logLevel string

	logger    *slog.Logger
	validator *jsongraph.Validator
	runner    *batch.Runner
	defaults  *cache.CachingFetcher
}

// NewCLI creates a CLI writing to the given streams. A nil cfg loads the
// configuration from the environment.
func NewCLI(out, errOut io.Writer, cfg *config.Config) *CLI {
	if cfg == nil {
		cfg = config.Load()
	}
	return &CLI{
		Out:    out,
		ErrOut: errOut,
		In:     os.Stdin,
		Config: cfg,
		output: OutputText,
	}
}

// NewRootCommand builds the jgf command tree bound to c.
func NewRootCommand(c *CLI) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jgf",
		Short: "Validate and inspect JSON Graph Format documents",
		Long: highlight("Usage: jgf [global options] <command> [args]") + "\n\n" +
			"jgf checks JSON Graph schemas against the Draft-4 meta-schema, validates\n" +
			"graph documents reporting every violation, and lists the graphs a\n" +
			"container holds under its \"graph\" and \"graphs\" keys.\n\n" +
			"The default schema is fetched from JSONGRAPH_SCHEMA_URL, or read from\n" +
			"JSONGRAPH_SCHEMA_FILE when set.\n",
		Version:       mcp.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup()
		},
	}

	cmd.CompletionOptions.DisableDefaultCmd = true
	cmd.PersistentFlags().StringVarP(&c.output, "output", "o", OutputText, "Output format. One of: (text | json)")
	cmd.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "Print a pass/fail line for every validation")
	cmd.PersistentFlags().StringVar(&c.logLevel, "log-level", "error", "Log level: debug, info, warn, error")

	cmd.AddCommand(
		newCheckSchemaCommand(c),
		newValidateCommand(c),
		newGraphsCommand(c),
	)
	return cmd
}

// Execute runs jgf with args and returns the process exit status.
func Execute(ctx context.Context, c *CLI, args []string) int {
	root := NewRootCommand(c)
	root.SetArgs(args)
	root.SetOut(c.Out)
	root.SetErr(c.ErrOut)

	if err := root.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errNotValid) {
			fmt.Fprintln(c.ErrOut, color.RedString("Error:"), err)
		}
		return 1
	}
	return 0
}

// setup builds the validator once flags are parsed.
func (c *CLI) setup() error {
	switch c.output {
	case OutputText, OutputJSON:
	default:
		return fmt.Errorf("invalid output format %q: expected text or json", c.output)
	}

	logger, _, err := logging.New(logging.Config{Level: c.logLevel, Format: c.output, Writer: c.ErrOut})
	if err != nil {
		return fmt.Errorf("setting up logging: %w", err)
	}
	c.logger = logger

	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: c.Config.HTTPClientTimeout}
	}

	schemas, err := cache.NewSchemaCache(max(c.Config.SchemaCacheMaxItem, 1), c.Config.SchemaCacheTTL)
	if err != nil {
		return fmt.Errorf("creating schema cache: %w", err)
	}

	var source jsongraph.SchemaFetcher
	key := c.Config.SchemaURL
	if c.Config.SchemaFile != "" {
		source = jsongraph.FetcherFromSource(jsongraph.FromPath(c.Config.SchemaFile))
		key = c.Config.SchemaFile
	} else {
		source = c.httpFetcher(c.Config.SchemaURL)
	}
	c.defaults = cache.NewCachingFetcher(key, source, schemas, logger)

	opts := []jsongraph.Option{
		jsongraph.WithSchemaFetcher(c.defaults),
		jsongraph.WithLogger(logger),
	}
	if c.verbose {
		opts = append(opts, jsongraph.WithVerbose(c.ErrOut))
	}
	c.validator = jsongraph.New(opts...)
	c.runner = batch.NewRunner(c.validator, c.Config.ValidateWorkers, logger)
	return nil
}

func (c *CLI) httpFetcher(url string) *jsongraph.HTTPFetcher {
	return jsongraph.NewHTTPFetcher(
		jsongraph.WithURL(url),
		jsongraph.WithHTTPClient(c.HTTPClient),
		jsongraph.WithFetchLogger(c.logger),
	)
}

// schemaSource turns a --schema argument into a Source. URLs are fetched,
// "-" reads standard input and anything else is a file path. An empty
// argument selects the default schema.
func (c *CLI) schemaSource(ctx context.Context, arg string) (jsongraph.Source, error) {
	switch {
	case arg == "":
		return jsongraph.Source{}, nil
	case arg == "-":
		return jsongraph.FromReader(c.In), nil
	case strings.HasPrefix(arg, "http://"), strings.HasPrefix(arg, "https://"):
		doc, err := c.httpFetcher(arg).FetchSchema(ctx)
		if err != nil {
			return jsongraph.Source{}, err
		}
		return jsongraph.FromValue(doc), nil
	}
	return jsongraph.FromPath(arg), nil
}

// documentSource is schemaSource for graph documents, which are never fetched.
func (c *CLI) documentSource(arg string) jsongraph.Source {
	if arg == "-" {
		return jsongraph.FromReader(c.In)
	}
	return jsongraph.FromPath(arg)
}

// schemaName describes a --schema argument for output.
func (c *CLI) schemaName(arg string) string {
	if arg != "" {
		return arg
	}
	return c.defaults.Key()
}
