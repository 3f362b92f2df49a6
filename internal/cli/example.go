package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tjt7a/anml/pkg/automata"
	"github.com/tjt7a/anml/pkg/pipeline"
)

// exampleCommand creates the example command.
func (c *CLI) exampleCommand() *cobra.Command {
	var (
		output  string
		formats string
		counter bool
	)

	cmd := &cobra.Command{
		Use:   "example",
		Short: "Write the demo chain network",
		Long: `Write the demo chain network.

The network chains ten states matching \xFF, \x01 ... \x09; the first starts
on all input. The chain ends in reporting state 10. With --counter a latching
counter with target 3 sits between state 9 and state 10.

Examples:
  anml example
  anml example --counter -o chain.anml
  anml example -f svg -o chain.svg`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := exampleNetwork(counter)
			if err != nil {
				return err
			}

			runner, err := c.newRunner()
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			opts := pipeline.Options{Formats: parseFormats(formats, pipeline.FormatANML), Detailed: c.Config.Detailed}
			artifacts, err := runner.Export(cmd.Context(), n, opts)
			if err != nil {
				return err
			}

			if output == "" {
				output = stdio
				if len(opts.Formats) > 1 {
					output = "chain"
				}
			}
			paths, err := writeArtifacts(artifactWriteParams{
				artifacts: artifacts,
				formats:   opts.Formats,
				input:     stdio,
				output:    output,
			})
			if err != nil {
				return err
			}
			if len(paths) > 0 {
				printSuccess("Wrote example network %s", StyleTitle.Render(n.ID()))
				printStats(n.Stats(), false)
				for _, p := range paths {
					printFile(p)
				}
				printNextStep("Inspect it", "anml inspect "+paths[0])
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", `output file, or base path for multiple formats (default stdout)`)
	cmd.Flags().StringVarP(&formats, "format", "f", "", "output format(s): anml (default), dot, svg, png (comma-separated)")
	cmd.Flags().BoolVar(&counter, "counter", false, "insert a counter before the reporting state")

	return cmd
}

// exampleNetwork builds the demo chain.
func exampleNetwork(withCounter bool) (*automata.Network, error) {
	n := automata.New(automata.DefaultNetworkID)

	var prev automata.Handle
	for i := range 10 {
		s := automata.State{ID: fmt.Sprint(i), Symbols: automata.SymbolSet{fmt.Sprintf(`\x%02X`, i)}}
		if i == 0 {
			s.Symbols = automata.SymbolSet{`\xFF`}
			s.Start = automata.StartAllInput
		}
		h, err := n.AddState(s)
		if err != nil {
			return nil, err
		}
		if i > 0 {
			if err := n.Connect(prev, h); err != nil {
				return nil, err
			}
		}
		prev = h
	}

	if withCounter {
		c, err := n.AddCounter(automata.Counter{ID: "count", Target: 3, AtTarget: automata.AtTargetLatch})
		if err != nil {
			return nil, err
		}
		if err := n.Connect(prev, c); err != nil {
			return nil, err
		}
		prev = c
	}

	last, err := n.AddState(automata.State{ID: "10", Symbols: automata.SymbolSet{`\xFF`}, Reports: true, ReportCode: "10"})
	if err != nil {
		return nil, err
	}
	if err := n.Connect(prev, last); err != nil {
		return nil, err
	}
	return n, nil
}
