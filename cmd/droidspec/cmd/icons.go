package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/droidspec/droidspec/cmd/droidspec/internal/icons"
	"github.com/droidspec/droidspec/pkg/android"
	"github.com/droidspec/droidspec/pkg/specfile"
)

var (
	iconsOut string

	iconsCmd = &cobra.Command{
		Use:   "icons [file]",
		Short: "Generate density-scaled launcher icons",
		Long: `Read icon.filename from the spec and scale it to the standard Android
launcher densities (mdpi 48px through xxxhdpi 192px), writing
mipmap-<density>/ic_launcher.png files into the output directory.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIcons(specArg(args))
		},
	}
)

func init() {
	iconsCmd.Flags().StringVarP(&iconsOut, "out", "o", "res", "output directory for the mipmap tree")
}

func runIcons(path string) error {
	doc, err := specfile.Load(path)
	if err != nil {
		return err
	}
	doc.Interpolate(os.Getenv)

	app := doc.Section(android.SectionApp)
	if app == nil {
		return fmt.Errorf("%s has no [app] section", path)
	}
	iconPath, ok := app.Get("icon.filename")
	if !ok || iconPath == "" {
		return fmt.Errorf("%s does not set icon.filename", path)
	}
	iconPath = resolveAsset(filepath.Dir(path), iconPath)

	generated, err := icons.Generate(iconPath, iconsOut)
	if err != nil {
		return err
	}

	for _, g := range generated {
		fmt.Printf("%s %s %s\n", SuccessStyle.Render("✓"), KeyStyle.Render(g.Path),
			SubtitleStyle.Render(fmt.Sprintf("%dx%d", g.Density.Size, g.Density.Size)))
	}
	return nil
}
