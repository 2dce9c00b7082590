package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/droidspec/droidspec/cmd/droidspec/internal/convert"
	"github.com/droidspec/droidspec/pkg/specfile"
)

var (
	convertTo      string
	convertResolve bool

	convertCmd = &cobra.Command{
		Use:   "convert [file]",
		Short: "Emit the spec as YAML, TOML, or JSON",
		Long: `Parse a spec file and emit its section/key/value content in another
format, for consumption by other tooling. List-valued keys become arrays.
With --resolve, $ENV{VAR} references are expanded first.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(specArg(args))
		},
	}
)

func init() {
	convertCmd.Flags().StringVar(&convertTo, "to", "", "output format: yaml, toml, or json (default from tool config)")
	convertCmd.Flags().BoolVar(&convertResolve, "resolve", false, "expand $ENV{VAR} references before converting")
}

func runConvert(path string) error {
	doc, err := specfile.Load(path)
	if err != nil {
		return err
	}
	if convertResolve {
		doc.Interpolate(os.Getenv)
	}

	format := convertTo
	if format == "" {
		format = cfg.Format
	}

	out, err := convert.Marshal(doc, format)
	if err != nil {
		return err
	}
	fmt.Print(string(out))
	if len(out) > 0 && out[len(out)-1] != '\n' {
		fmt.Println()
	}
	return nil
}
