package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/droidspec/droidspec/pkg/specfile"
)

var diffCmd = &cobra.Command{
	Use:   "diff <a> <b>",
	Short: "Compare two spec files key by key",
	Long: `Compare two spec files semantically: section and key order are ignored,
list values written in one line compare equal to the same list built with
+= appends. Exits non-zero when the files differ, so it works in CI to
catch drifted copies of the same spec.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDiff(args[0], args[1])
	},
}

func runDiff(pathA, pathB string) error {
	docA, err := specfile.Load(pathA)
	if err != nil {
		return err
	}
	docB, err := specfile.Load(pathB)
	if err != nil {
		return err
	}

	changes := specfile.Diff(docA, docB)
	if len(changes) == 0 {
		fmt.Println(SuccessStyle.Render("✓ ") + "spec files are semantically identical")
		return nil
	}

	for _, c := range changes {
		ref := KeyStyle.Render(fmt.Sprintf("[%s] %s", c.Section, c.Key))
		switch c.Kind {
		case specfile.Added:
			fmt.Printf("%s %s = %s\n", SuccessStyle.Render("+"), ref, strings.Join(c.New, ","))
		case specfile.Removed:
			fmt.Printf("%s %s = %s\n", ErrorStyle.Render("-"), ref, strings.Join(c.Old, ","))
		default:
			fmt.Printf("%s %s: %s %s %s\n", WarningStyle.Render("~"), ref,
				strings.Join(c.Old, ","), SubtitleStyle.Render("->"), strings.Join(c.New, ","))
		}
	}
	return fmt.Errorf("%d difference(s) between %s and %s", len(changes), pathA, pathB)
}
