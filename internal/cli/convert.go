package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	apperr "github.com/tjt7a/anml/pkg/errors"
	"github.com/tjt7a/anml/pkg/pipeline"
)

// stdio is the path that selects stdin for input and stdout for output.
const stdio = "-"

// convertFlags holds the command-line flags for convert and render.
type convertFlags struct {
	importFlags
	output   string // output file (single format) or base path (multiple)
	formats  string // comma-separated output formats
	detailed bool   // symbol sets and counter targets in diagram labels
	refresh  bool   // bypass cached artifacts
}

// convertCommand creates the convert command.
func (c *CLI) convertCommand() *cobra.Command {
	var flags convertFlags

	cmd := &cobra.Command{
		Use:   "convert [file]",
		Short: "Convert an NFA graph dump or ANML document",
		Long: `Convert an NFA graph dump (DOT) into an ANML document.

The input format is detected from the file extension (.dot/.gv or .anml/.xml)
or from the content. Use "-" to read from stdin. Output formats are anml
(default), dot (visualization graph), svg and png.

Examples:
  anml convert regex.dot
  anml convert regex.dot -o regex.anml
  anml convert regex.dot -f anml,svg --start start-of-data
  cat regex.dot | anml convert - -o -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runConvert(cmd.Context(), args[0], flags, pipeline.FormatANML)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", `output file (single format) or base path (multiple); "-" for stdout`)
	cmd.Flags().StringVarP(&flags.formats, "format", "f", "", "output format(s): anml (default), dot, svg, png (comma-separated)")
	cmd.Flags().BoolVar(&flags.detailed, "detailed", false, "show symbol sets and counter targets in diagrams")
	cmd.Flags().BoolVar(&flags.refresh, "refresh", false, "ignore cached artifacts")

	return cmd
}

// renderCommand creates the render command, a convert preset for diagrams.
func (c *CLI) renderCommand() *cobra.Command {
	var flags convertFlags

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Draw a network as a node-link diagram",
		Long: `Draw a network as a node-link diagram.

States are circles, reporting states double circles, start states are filled
with a bold outline and counters are boxes. Rendering runs in-process; no
Graphviz installation is needed.

Examples:
  anml render regex.dot
  anml render network.anml -f svg,png --detailed`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runConvert(cmd.Context(), args[0], flags, pipeline.FormatSVG)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&flags.formats, "format", "f", "", "output format(s): svg (default), png, dot (comma-separated)")
	cmd.Flags().BoolVar(&flags.detailed, "detailed", false, "show symbol sets and counter targets")
	cmd.Flags().BoolVar(&flags.refresh, "refresh", false, "ignore cached artifacts")

	return cmd
}

// runConvert runs the pipeline and writes its artifacts.
func (c *CLI) runConvert(ctx context.Context, input string, flags convertFlags, defaultFormat string) error {
	logger := loggerFromContext(ctx)

	opts := c.options(input, flags.importFlags)
	opts.Formats = parseFormats(flags.formats, defaultFormat)
	opts.Detailed = opts.Detailed || flags.detailed
	opts.Refresh = flags.refresh
	if err := pipeline.ValidateFormats(opts.Formats); err != nil {
		return err
	}

	if err := readStdin(&opts); err != nil {
		return err
	}

	runner, err := c.newRunner()
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(logger, displayName(input))
	spin := startSpinner(ctx, fmt.Sprintf("Converting %s...", displayName(input)))
	result, err := runner.Convert(ctx, opts)
	if err != nil {
		spin.StopWithError("Conversion failed")
		return err
	}
	spin.Stop()
	prog.done(result)

	paths, err := writeArtifacts(artifactWriteParams{
		artifacts: result.Artifacts,
		formats:   opts.Formats,
		input:     input,
		output:    flags.output,
	})
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return nil // written to stdout
	}

	printSuccess("Network %s", StyleTitle.Render(result.Network.ID()))
	printStats(result.Stats.Stats, result.CacheInfo.ExportHit)
	for _, p := range paths {
		printFile(p)
	}
	return nil
}

// readStdin loads the input from stdin when the input path is "-".
func readStdin(opts *pipeline.Options) error {
	if opts.Input != stdio {
		return nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return fmt.Errorf("read stdin: %w", err)
	}
	opts.Input = ""
	opts.Data = data
	return nil
}

func displayName(input string) string {
	if input == stdio {
		return "stdin"
	}
	return filepath.Base(input)
}

// =============================================================================
// Artifact Output
// =============================================================================

type artifactWriteParams struct {
	artifacts map[string][]byte
	formats   []string
	input     string
	output    string
}

// writeArtifacts writes each artifact and returns the paths written. It
// returns no paths when the single artifact went to stdout.
func writeArtifacts(p artifactWriteParams) ([]string, error) {
	targets, err := outputPaths(p.input, p.output, p.formats)
	if err != nil {
		return nil, err
	}

	var written []string
	for _, format := range p.formats {
		path := targets[format]
		if path == stdio {
			if _, err := os.Stdout.Write(p.artifacts[format]); err != nil {
				return nil, err
			}
			continue
		}
		if err := os.WriteFile(path, p.artifacts[format], 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
		written = append(written, path)
	}
	return written, nil
}

// outputPaths decides where each format is written.
//
// A single format goes to output verbatim. Otherwise output (or the input
// name) is a base path and each format gets its extension appended. A
// derived path never overwrites the input file.
func outputPaths(input, output string, formats []string) (map[string]string, error) {
	paths := make(map[string]string, len(formats))

	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
		return paths, nil
	}
	if output == stdio {
		return nil, apperr.New(apperr.ErrCodeInvalidInput, "cannot write %d formats to stdout", len(formats))
	}

	base := basePath(output, input)
	if base == "" {
		if len(formats) == 1 {
			paths[formats[0]] = stdio
			return paths, nil
		}
		return nil, apperr.New(apperr.ErrCodeInvalidInput, "--output is required for multiple formats from stdin")
	}

	for _, format := range formats {
		path := base + pipeline.Extensions[format]
		if path == input {
			path = base + ".viz" + pipeline.Extensions[format]
		}
		paths[format] = path
	}
	return paths, nil
}

// basePath derives the base output path from the output and input paths.
// If output is empty, it strips the extension from input. If output has a
// known format extension, that extension is stripped.
func basePath(output, input string) string {
	if output == "" {
		if input == stdio {
			return ""
		}
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}
