package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/droidspec/droidspec/cmd/droidspec/internal/icons"
	"github.com/droidspec/droidspec/cmd/droidspec/internal/sdk"
	"github.com/droidspec/droidspec/pkg/android"
	"github.com/droidspec/droidspec/pkg/specfile"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor [file]",
	Short: "Check the local environment against a spec",
	Long: `Resolve the SDK/NDK paths a spec declares (expanding $ENV{VAR}
references) and verify they exist, that adb is reachable, and that the icon
and presplash images the spec points at decode cleanly.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDoctor(specArg(args))
	},
}

func runDoctor(path string) error {
	doc, err := specfile.Load(path)
	if err != nil {
		return err
	}
	refs := doc.Interpolate(os.Getenv)
	log.Debug("interpolated environment", "vars", refs)

	app := doc.Section(android.SectionApp)
	var sdkSpec, ndkSpec string
	if app != nil {
		sdkSpec, _ = app.Get("android.sdk_path")
		ndkSpec, _ = app.Get("android.ndk_path")
	}
	if cfg.SDKPath != "" {
		sdkSpec = cfg.SDKPath
	}

	sdkRoot := sdk.FindSDK(sdkSpec)
	ndkRoot := sdk.FindNDK(ndkSpec, sdkRoot)

	failed := 0
	for _, st := range sdk.Probe(sdkRoot, ndkRoot) {
		printStatus(st)
		if !st.OK {
			failed++
		}
	}

	if app != nil {
		specDir := filepath.Dir(path)
		for _, st := range assetChecks(app, specDir) {
			printStatus(st)
			if !st.OK {
				failed++
			}
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d check(s) failed", failed)
	}
	fmt.Println()
	fmt.Println(SuccessStyle.Render("✓ ") + "environment looks good")
	return nil
}

// assetChecks verifies the image files the spec references, resolved against
// the spec's own directory the way the packager resolves them.
func assetChecks(app *specfile.Section, specDir string) []sdk.Status {
	var out []sdk.Status

	if icon, ok := app.Get("icon.filename"); ok && icon != "" {
		p := resolveAsset(specDir, icon)
		st := sdk.Status{Name: "icon.filename", Path: p}
		if _, err := icons.Validate(p); err != nil {
			st.Detail = err.Error()
		} else {
			st.OK = true
		}
		out = append(out, st)
	}

	if splash, ok := app.Get("presplash.filename"); ok && splash != "" {
		p := resolveAsset(specDir, splash)
		st := sdk.Status{Name: "presplash.filename", Path: p}
		if err := icons.CheckImage(p); err != nil {
			st.Detail = err.Error()
		} else {
			st.OK = true
		}
		out = append(out, st)
	}
	return out
}

func resolveAsset(specDir, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(specDir, p)
}

func printStatus(st sdk.Status) {
	if st.OK {
		fmt.Printf("%s %s %s\n", SuccessStyle.Render("✓"), st.Name, SubtitleStyle.Render(st.Path))
		return
	}
	fmt.Printf("%s %s: %s\n", ErrorStyle.Render("✗"), st.Name, st.Detail)
}
