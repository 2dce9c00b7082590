package cmd

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/droidspec/droidspec/pkg/specfile"
)

var (
	fmtWrite bool
	fmtCheck bool

	fmtCmd = &cobra.Command{
		Use:   "fmt [file]",
		Short: "Rewrite a spec file in canonical form",
		Long: `Reformat a spec file: consistent "key = value" spacing, one blank line
between sections, comments kept above the entries they belong to. Prints to
stdout unless --write is given. With --check, exits non-zero when the file
is not already canonical, without touching it.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFmt(specArg(args))
		},
	}
)

func init() {
	fmtCmd.Flags().BoolVarP(&fmtWrite, "write", "w", false, "rewrite the file in place")
	fmtCmd.Flags().BoolVar(&fmtCheck, "check", false, "exit non-zero if the file is not canonical")
}

func runFmt(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read spec file: %w", err)
	}

	doc, err := specfile.Parse(bytes.NewReader(raw), path)
	if err != nil {
		return err
	}
	formatted := doc.String()

	switch {
	case fmtCheck:
		if string(raw) != formatted {
			return fmt.Errorf("%s is not canonically formatted", path)
		}
		return nil
	case fmtWrite:
		if string(raw) == formatted {
			return nil
		}
		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("failed to stat spec file: %w", err)
		}
		if err := os.WriteFile(path, []byte(formatted), info.Mode().Perm()); err != nil {
			return fmt.Errorf("failed to write spec file: %w", err)
		}
		fmt.Println(SuccessStyle.Render("✓ ") + "formatted " + KeyStyle.Render(path))
		return nil
	default:
		fmt.Print(formatted)
		return nil
	}
}
