package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/droidspec/droidspec/cmd/droidspec/internal/templates"
	"github.com/droidspec/droidspec/pkg/android"
)

var (
	initTitle   string
	initPackage string
	initDomain  string

	initCmd = &cobra.Command{
		Use:   "init [dir]",
		Short: "Create a new buildozer.spec",
		Long: `Write a new buildozer.spec skeleton into the given directory (default:
the current one). Refuses to overwrite an existing spec.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			return runInit(dir)
		},
	}
)

func init() {
	initCmd.Flags().StringVar(&initTitle, "title", "", "application title")
	initCmd.Flags().StringVar(&initPackage, "package", "", "package name (single segment, e.g. soundtracks)")
	initCmd.Flags().StringVar(&initDomain, "domain", "", "package domain (reverse-domain, e.g. org.example)")
}

func runInit(dir string) error {
	dest := filepath.Join(dir, DefaultSpecName)
	if _, err := os.Stat(dest); err == nil {
		return fmt.Errorf("%s already exists; remove it first or edit it in place", dest)
	}

	data := templates.Data{
		Title:         initTitle,
		PackageName:   initPackage,
		PackageDomain: initDomain,
	}
	data.Defaults()

	if err := android.ValidatePackageName(data.PackageName); err != nil {
		return fmt.Errorf("invalid --package: %w", err)
	}
	if err := android.ValidatePackageID(android.PackageID(data.PackageDomain, data.PackageName)); err != nil {
		return fmt.Errorf("invalid --domain: %w", err)
	}

	content, err := templates.Render(data)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}
	if err := os.WriteFile(dest, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", dest, err)
	}

	fmt.Println(SuccessStyle.Render("✓ ") + "created " + KeyStyle.Render(dest))
	fmt.Println(SubtitleStyle.Render("Run 'droidspec check' after editing."))
	return nil
}
