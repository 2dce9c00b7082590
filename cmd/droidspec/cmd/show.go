package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/droidspec/droidspec/pkg/android"
	"github.com/droidspec/droidspec/pkg/specfile"
)

var (
	showRaw bool

	showCmd = &cobra.Command{
		Use:   "show [file]",
		Short: "Print the resolved configuration",
		Long: `Print the configuration the packager will actually see: environment
references expanded, permissions deduplicated, and registry defaults filled
in for keys the file leaves unset. Use --raw to skip resolution and print
the values exactly as written.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(specArg(args))
		},
	}
)

func init() {
	showCmd.Flags().BoolVar(&showRaw, "raw", false, "print values as written, without resolution")
}

func runShow(path string) error {
	doc, err := specfile.Load(path)
	if err != nil {
		return err
	}

	if !showRaw {
		refs := doc.Interpolate(os.Getenv)
		for _, name := range refs {
			if os.Getenv(name) == "" {
				fmt.Fprintln(os.Stderr, WarningStyle.Render("Warning: ")+"$ENV{"+name+"} is unset and expanded empty")
			}
		}
		log.Debug("interpolated environment", "vars", refs)
	}

	for _, secName := range []string{android.SectionApp, android.SectionBuildozer} {
		sec := doc.Section(secName)
		if sec == nil && showRaw {
			continue
		}

		fmt.Println(TitleStyle.Render("[" + secName + "]"))
		printed := make(map[string]bool)

		if sec != nil {
			for _, key := range sec.Keys() {
				printed[key] = true
				fmt.Printf("  %s = %s\n", KeyStyle.Render(key), displayValue(sec, key))
			}
		}

		// Fill in registry defaults for keys the file leaves unset.
		if !showRaw {
			for _, k := range android.Keys(secName) {
				if printed[k.Name] || k.Default == "" {
					continue
				}
				fmt.Printf("  %s = %s %s\n", KeyStyle.Render(k.Name), k.Default, SubtitleStyle.Render("(default)"))
			}
		}
		fmt.Println()
	}

	// Sections the format does not define are shown as-is.
	for _, sec := range doc.Sections {
		if android.KnownSection(sec.Name) {
			continue
		}
		fmt.Println(TitleStyle.Render("[" + sec.Name + "]"))
		for _, key := range sec.Keys() {
			fmt.Printf("  %s = %s\n", KeyStyle.Render(key), displayValue(sec, key))
		}
		fmt.Println()
	}
	return nil
}

func displayValue(sec *specfile.Section, key string) string {
	if key == "android.permissions" && !showRaw {
		return strings.Join(android.DedupPermissions(sec.GetList(key)), ",")
	}
	v, _ := sec.Get(key)
	return v
}
