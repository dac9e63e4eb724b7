package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/maxcopeland/openml-go/pkg/trace"
)

// traceCommand groups the trace subcommands.
func (c *CLI) traceCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Convert, inspect, and exchange optimization traces",
	}

	cmd.AddCommand(c.traceConvertCommand())
	cmd.AddCommand(c.traceSelectedCommand())
	cmd.AddCommand(c.traceViewCommand())
	cmd.AddCommand(c.tracePushCommand())
	cmd.AddCommand(c.tracePullCommand())

	return cmd
}

// readTraceFile loads a trace, picking the codec by file extension.
func readTraceFile(path string, strict bool) (*trace.Trace, error) {
	switch filepath.Ext(path) {
	case ".arff":
		in, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer in.Close()
		policy := trace.DuplicateOverwrite
		if strict {
			policy = trace.DuplicateReject
		}
		return trace.ReadARFFWith(in, policy)
	case ".xml":
		return trace.ImportXML(path)
	}
	return nil, fmt.Errorf("unsupported trace extension %q (want .arff or .xml)", filepath.Ext(path))
}

// writeTraceFile stores a trace, picking the codec by file extension.
func writeTraceFile(t *trace.Trace, path string) error {
	switch filepath.Ext(path) {
	case ".arff":
		return trace.ExportARFF(t, path)
	case ".xml":
		return trace.ExportXML(t, path)
	}
	return fmt.Errorf("unsupported trace extension %q (want .arff or .xml)", filepath.Ext(path))
}

// traceConvertCommand creates the "trace convert" subcommand.
func (c *CLI) traceConvertCommand() *cobra.Command {
	var runID int64
	var strict bool

	cmd := &cobra.Command{
		Use:   "convert <input> <output>",
		Short: "Convert a trace between its tabular and document forms",
		Long: `Convert a trace between its tabular (.arff) and document (.xml) forms.

The document form requires a run id; converting from tabular input needs
--run-id unless the output is tabular as well.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := readTraceFile(args[0], strict)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("run-id") {
				t.RunID = &runID
			}
			if filepath.Ext(args[1]) == ".xml" && t.RunID == nil {
				return fmt.Errorf("document output needs a run id (use --run-id)")
			}
			if err := writeTraceFile(t, args[1]); err != nil {
				return err
			}
			printSuccess("Converted %d iterations", t.Len())
			printFile(args[1])
			return nil
		},
	}

	cmd.Flags().Int64Var(&runID, "run-id", 0, "run id to stamp on the output")
	cmd.Flags().BoolVar(&strict, "strict-duplicates", false, "fail on duplicated (repeat, fold, iteration) rows")
	return cmd
}

// traceSelectedCommand creates the "trace selected" subcommand.
func (c *CLI) traceSelectedCommand() *cobra.Command {
	var fold, repeat int

	cmd := &cobra.Command{
		Use:   "selected <trace file>",
		Short: "Print the selected iteration for a fold and repeat",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := readTraceFile(args[0], false)
			if err != nil {
				return err
			}
			iteration, err := t.SelectedIteration(fold, repeat)
			if err != nil {
				return err
			}
			it, _ := t.Get(repeat, fold, iteration)

			printKeyValue("iteration", strconv.Itoa(iteration))
			printKeyValue("evaluation", strconv.FormatFloat(it.Evaluation, 'g', -1, 64))
			params, err := it.Parameters()
			if err != nil {
				return err
			}
			if len(params) == 0 {
				printWarning("no parameters recorded")
				return nil
			}
			names := make([]string, 0, len(params))
			for name := range params {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				printDetail("%s = %v", name, params[name])
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&fold, "fold", 0, "fold to look up")
	cmd.Flags().IntVar(&repeat, "repeat", 0, "repeat to look up")
	return cmd
}

// tracePushCommand creates the "trace push" subcommand.
func (c *CLI) tracePushCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "push <trace file>",
		Short: "Upload a trace to the registry server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := readTraceFile(args[0], false)
			if err != nil {
				return err
			}
			cl := newClient(c.Config, c.newCache(true))
			sp := newSpinner("Uploading trace")
			sp.Start()
			runID, err := cl.PushTrace(cmd.Context(), t)
			sp.Stop()
			if err != nil {
				return err
			}
			printSuccess("Uploaded %d iterations", t.Len())
			printKeyValue("run id", strconv.FormatInt(runID, 10))
			return nil
		},
	}
}

// tracePullCommand creates the "trace pull" subcommand.
func (c *CLI) tracePullCommand() *cobra.Command {
	var output string
	var noCache bool

	cmd := &cobra.Command{
		Use:   "pull <run id>",
		Short: "Download a trace from the registry server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("run id must be an integer: %q", args[0])
			}

			cl := newClient(c.Config, c.newCache(noCache))
			sp := newSpinner("Downloading trace " + args[0])
			sp.Start()
			t, cached, err := cl.PullTrace(cmd.Context(), runID)
			sp.Stop()
			if err != nil {
				return err
			}

			path := output
			if path == "" {
				path = args[0] + ".xml"
			}
			if err := writeTraceFile(t, path); err != nil {
				return err
			}
			if cached {
				printSuccess("Fetched %d iterations (cached)", t.Len())
			} else {
				printSuccess("Fetched %d iterations", t.Len())
			}
			printFile(path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (defaults to <run id>.xml)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the local cache")
	return cmd
}
