package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/itisgraph/pkg/config"
	"github.com/matzehuels/itisgraph/pkg/pipeline"
)

// convertOpts holds the command-line flags for the convert command.
type convertOpts struct {
	output  string // graph document path
	dot     string // optional DOT projection path
	config  string // TOML configuration file
	kingdom int64  // kingdom scope; 0 keeps the configured value
	compact bool   // write without indentation
	noCache bool   // recompute the source digest
	tui     bool   // live progress view
}

// convertCommand creates the convert command.
func (c *CLI) convertCommand() *cobra.Command {
	var opts convertOpts

	cmd := &cobra.Command{
		Use:   "convert [source.sqlite]",
		Short: "Convert an ITIS SQLite database into a JSON graph document",
		Long: `Convert an ITIS SQLite database into a JSON graph document.

All nodes of the kingdom are written before any edge. The document is written
to a temporary file next to the destination and moved into place only when
the conversion succeeds, so a failed run never leaves a partial document.

Settings are read from --config, or from $XDG_CONFIG_HOME/itisgraph/config.toml
when it exists. Flags override the file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts.config)
			if err != nil {
				return err
			}
			return c.runConvert(cmd.Context(), opts.resolve(args[0], cfg), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: <source>.json)")
	cmd.Flags().StringVar(&opts.dot, "dot", "", "also write the DOT projection to this file")
	cmd.Flags().StringVar(&opts.config, "config", "", "configuration file (TOML)")
	cmd.Flags().Int64Var(&opts.kingdom, "kingdom", 0, "ITIS kingdom id to convert (default: from config, 3 = Plantae)")
	cmd.Flags().BoolVar(&opts.compact, "compact", false, "write compact JSON without indentation")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the source digest cache")
	cmd.Flags().BoolVar(&opts.tui, "tui", false, "show live per-domain progress")

	return cmd
}

// loadConfig reads path, or the user configuration when path is empty.
func loadConfig(path string) (config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	return config.LoadDefault()
}

// resolve merges the configuration with the flags into pipeline options.
func (o convertOpts) resolve(source string, cfg config.Config) pipeline.Options {
	opts := pipeline.Options{
		Source:    source,
		Output:    o.output,
		DOT:       o.dot,
		Graph:     cfg.Graph.Info(),
		KingdomID: cfg.Source.KingdomID,
		Indent:    cfg.Output.Indent,
	}
	if opts.Output == "" {
		opts.Output = swapExt(source, ".json")
	}
	if o.kingdom != 0 {
		opts.KingdomID = o.kingdom
	}
	if o.compact {
		opts.Indent = 0
	}
	return opts
}

func (c *CLI) runConvert(ctx context.Context, opts pipeline.Options, flags convertOpts) error {
	runner, err := c.newRunner(flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Cache.Close()

	prog := newProgress(loggerFromContext(ctx))

	var result *pipeline.Result
	if flags.tui {
		runner.Logger = quietLogger(runner.Logger)
		result, err = runWithTUI(ctx, runner, opts)
	} else {
		result, err = runner.Execute(ctx, opts)
	}
	if err != nil {
		return fmt.Errorf("convert %s: %w", opts.Source, err)
	}
	prog.done("Converted " + filepath.Base(opts.Source))

	printSuccess("Wrote %s", StyleTitle.Render(opts.Graph.Label))
	printFile(result.Output)
	if result.DOT != "" {
		printFile(result.DOT)
	}
	printKeyValue("md5", result.Stamp.MD5)
	printKeyValue("created", result.Stamp.CreatedString())
	printKeyValue("kingdom", fmt.Sprint(opts.KingdomID))
	printStats(result.Stats)
	return nil
}
