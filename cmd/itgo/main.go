// Command itgo inspects and generates tensor files in the ITGO format.
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/tyler-bryson/ITensor/itensor"
)

const version = "v0.1.0"

func main() {
	root := &cobra.Command{
		Use:           "itgo",
		Short:         "Tensor file tool for the ITensor engine",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(versionCmd(), randomCmd(), inspectCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("itgo %s\n", version)
		},
	}
}

func randomCmd() *cobra.Command {
	var (
		out     string
		dims    string
		cplx    bool
	)
	cmd := &cobra.Command{
		Use:   "random",
		Short: "Write a random dense tensor file",
		RunE: func(cmd *cobra.Command, args []string) error {
			inds, err := parseDims(dims)
			if err != nil {
				return err
			}
			var t *itensor.ITensor
			if cplx {
				t, err = itensor.RandomCplx(inds...)
			} else {
				t, err = itensor.Random(inds...)
			}
			if err != nil {
				return err
			}
			if err := itensor.WriteFile(out, t); err != nil {
				return err
			}
			fmt.Printf("wrote %s tensor %s to %s\n", t.Kind(), t.Inds(), out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "tensor.itgo", "output file path")
	cmd.Flags().StringVarP(&dims, "dims", "d", "2,2", "comma-separated index dimensions")
	cmd.Flags().BoolVar(&cplx, "complex", false, "generate complex values")
	return cmd
}

func inspectCmd() *cobra.Command {
	var elements bool
	cmd := &cobra.Command{
		Use:   "inspect <file>...",
		Short: "Summarize tensor files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"File", "Kind", "Rank", "Dims", "Norm", "Scale", "Complex"})

			tensors := make([]*itensor.ITensor, 0, len(args))
			for _, path := range args {
				t, err := itensor.ReadFile(path)
				if err != nil {
					return fmt.Errorf("failed to inspect %s: %w", path, err)
				}
				tensors = append(tensors, t)
				table.Append([]string{
					path,
					t.Kind().String(),
					strconv.Itoa(t.Rank()),
					dimsString(t),
					fmt.Sprintf("%.6g", t.Norm()),
					t.Scale().String(),
					strconv.FormatBool(t.IsComplex()),
				})
			}
			table.Render()

			if elements {
				for i, t := range tensors {
					fmt.Printf("\n%s:\n%s", args[i], t)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&elements, "elements", false, "dump nonzero elements")
	return cmd
}

// parseDims turns "2,3,2" into fresh indices i0(2), i1(3), i2(2).
func parseDims(s string) ([]itensor.Index, error) {
	parts := strings.Split(s, ",")
	inds := make([]itensor.Index, 0, len(parts))
	for i, p := range parts {
		d, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || d < 1 {
			return nil, fmt.Errorf("invalid dimension %q", p)
		}
		inds = append(inds, itensor.NewIndex(fmt.Sprintf("i%d", i), d))
	}
	return inds, nil
}

func dimsString(t *itensor.ITensor) string {
	dims := t.Inds().Dims()
	parts := make([]string, len(dims))
	for i, d := range dims {
		parts[i] = strconv.Itoa(d)
	}
	return strings.Join(parts, "x")
}
