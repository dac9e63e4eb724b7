package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/maxcopeland/openml-go/pkg/errors"
	"github.com/maxcopeland/openml-go/pkg/flow"
	"github.com/maxcopeland/openml-go/pkg/render"
)

// flowCommand groups the flow subcommands.
func (c *CLI) flowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "flow",
		Short: "Inspect, validate, visualize, and exchange flow descriptions",
	}

	cmd.AddCommand(c.flowShowCommand())
	cmd.AddCommand(c.flowLintCommand())
	cmd.AddCommand(c.flowVizCommand())
	cmd.AddCommand(c.flowPushCommand())
	cmd.AddCommand(c.flowPullCommand())

	return cmd
}

// flowShowCommand creates the "flow show" subcommand.
func (c *CLI) flowShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <flow.json>",
		Short: "Print a summary of a flow file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := flow.ImportJSON(args[0])
			if err != nil {
				return err
			}

			printKeyValue("name", f.Name)
			printKeyValue("class", f.ClassName)
			if f.ExternalVersion != "" {
				printKeyValue("external version", f.ExternalVersion)
			}
			if f.Dependencies != "" {
				printKeyValue("dependencies", strings.ReplaceAll(f.Dependencies, "\n", ", "))
			}
			printKeyValue("parameters", fmt.Sprintf("%d", f.Parameters.Len()))
			printKeyValue("components", fmt.Sprintf("%d", f.Components.Len()))
			if f.Components.Len() > 0 {
				fmt.Println()
				printComponentTree(f, 0)
			}
			return nil
		},
	}
}

// printComponentTree prints the nested component structure, one node per
// line with two-space indentation per level.
func printComponentTree(f *flow.Flow, depth int) {
	indent := strings.Repeat("  ", depth)
	fmt.Println(indent + StyleValue.Render(f.ClassName))
	for key, sub := range f.Components.All() {
		fmt.Println(indent + "  " + StyleDim.Render(key+":"))
		printComponentTree(sub, depth+2)
	}
}

// flowLintCommand creates the "flow lint" subcommand.
func (c *CLI) flowLintCommand() *cobra.Command {
	var checkDeps bool

	cmd := &cobra.Command{
		Use:   "lint <flow.json>",
		Short: "Validate the structure of a flow file",
		Long: `Validate the structure of a flow file.

Checks component keys against the key grammar, rejects duplicate component
names across the tree, and verifies that every dependency line parses. With
--deps the declared constraints are additionally checked against the
registered package versions.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := flow.ImportJSON(args[0])
			if err != nil {
				return err
			}

			problems := lintFlow(f, checkDeps)
			if len(problems) == 0 {
				printSuccess("%s is valid", filepath.Base(args[0]))
				return nil
			}
			for _, p := range problems {
				printError("%s", p)
			}
			return fmt.Errorf("%d problem(s) found", len(problems))
		},
	}

	cmd.Flags().BoolVar(&checkDeps, "deps", false, "check dependency constraints against registered package versions")
	return cmd
}

// lintFlow collects structural problems instead of stopping at the first.
func lintFlow(f *flow.Flow, checkDeps bool) []string {
	var problems []string

	if f.Name == "" {
		problems = append(problems, "flow has no name")
	}
	if f.ClassName == "" {
		problems = append(problems, "flow has no class name")
	}

	// Duplicate component names across the whole tree.
	seen := map[string]bool{}
	stack := []*flow.Flow{f}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for key, sub := range node.Components.All() {
			if err := errors.ValidateComponentKey(key); err != nil {
				problems = append(problems, fmt.Sprintf("component key %q: %v", key, errors.UserMessage(err)))
			}
			if seen[sub.Name] {
				problems = append(problems, fmt.Sprintf("component name %q occurs more than once", sub.Name))
			}
			seen[sub.Name] = true
			stack = append(stack, sub)
		}
	}

	for _, line := range strings.Split(f.Dependencies, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if _, err := flow.ParseConstraint(line); err != nil {
			problems = append(problems, fmt.Sprintf("dependency %q: %v", line, errors.UserMessage(err)))
		}
	}
	if checkDeps && f.Dependencies != "" {
		if err := flow.Check(f.Dependencies); err != nil {
			problems = append(problems, errors.UserMessage(err))
		}
	}
	return problems
}

// flowVizCommand creates the "flow viz" subcommand.
func (c *CLI) flowVizCommand() *cobra.Command {
	var output string
	var detailed bool

	cmd := &cobra.Command{
		Use:   "viz <flow.json>",
		Short: "Render the component tree as DOT or SVG",
		Long: `Render the component tree as DOT or SVG.

The output format follows the file extension of --output: .dot writes the
Graphviz source, .svg renders it in-process. Without --output the DOT text
goes to stdout.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := flow.ImportJSON(args[0])
			if err != nil {
				return err
			}
			dot := render.ToDOT(f, render.Options{Detailed: detailed})

			if output == "" {
				fmt.Print(dot)
				return nil
			}
			var data []byte
			switch filepath.Ext(output) {
			case ".dot":
				data = []byte(dot)
			case ".svg":
				data, err = render.RenderSVG(dot)
				if err != nil {
					return err
				}
			default:
				return fmt.Errorf("unsupported output extension %q (want .dot or .svg)", filepath.Ext(output))
			}
			if err := os.WriteFile(output, data, 0644); err != nil {
				return err
			}
			printSuccess("Rendered %s", f.Name)
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (.dot or .svg)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include parameter counts and versions in labels")
	return cmd
}

// flowPushCommand creates the "flow push" subcommand.
func (c *CLI) flowPushCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "push <flow.json>",
		Short: "Upload a flow to the registry server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := flow.ImportJSON(args[0])
			if err != nil {
				return err
			}

			cl := newClient(c.Config, c.newCache(true))
			p := newProgress(loggerFromContext(cmd.Context()))
			sp := newSpinner("Uploading " + f.Name)
			sp.Start()
			id, err := cl.PushFlow(cmd.Context(), f)
			sp.Stop()
			if err != nil {
				return err
			}
			p.done("Uploaded " + f.Name)
			printKeyValue("id", id)
			return nil
		},
	}
}

// flowPullCommand creates the "flow pull" subcommand.
func (c *CLI) flowPullCommand() *cobra.Command {
	var output string
	var noCache bool

	cmd := &cobra.Command{
		Use:   "pull <id>",
		Short: "Download a flow from the registry server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cl := newClient(c.Config, c.newCache(noCache))
			sp := newSpinner("Downloading flow " + args[0])
			sp.Start()
			f, cached, err := cl.PullFlow(cmd.Context(), args[0])
			sp.Stop()
			if err != nil {
				return err
			}

			path := output
			if path == "" {
				path = args[0] + ".json"
			}
			if err := flow.ExportJSON(f, path); err != nil {
				return err
			}
			if cached {
				printSuccess("Fetched %s (cached)", f.Name)
			} else {
				printSuccess("Fetched %s", f.Name)
			}
			printFile(path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (defaults to <id>.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the local cache")
	return cmd
}
