package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/droidspec/droidspec/pkg/lint"
	"github.com/droidspec/droidspec/pkg/specfile"
)

var (
	checkWatch  bool
	checkStrict bool

	checkCmd = &cobra.Command{
		Use:   "check [file]",
		Short: "Parse and validate a spec file",
		Long: `Parse a spec file and validate it against Android packaging rules:
required keys, package identifier syntax, API level ordering, permission
names, and value types. Exits non-zero when errors are found.

With --watch, droidspec stays running and re-validates on every save.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := specArg(args)
			if checkWatch {
				return watchSpec(path)
			}
			findings, err := checkSpec(path)
			if err != nil {
				return err
			}
			if lint.HasErrors(findings) || (strictMode() && len(findings) > 0) {
				return fmt.Errorf("%s has problems", path)
			}
			return nil
		},
	}
)

func init() {
	checkCmd.Flags().BoolVarP(&checkWatch, "watch", "w", false, "re-validate when the file changes")
	checkCmd.Flags().BoolVar(&checkStrict, "strict", false, "treat warnings as errors")
}

func strictMode() bool {
	return checkStrict || cfg.Strict
}

// checkSpec parses and lints one file, printing findings. A parse failure is
// reported as a single error finding rather than returned, so --watch keeps
// running across broken intermediate saves.
func checkSpec(path string) ([]lint.Finding, error) {
	doc, err := specfile.Load(path)
	if err != nil {
		var perr *specfile.ParseError
		if errors.As(err, &perr) {
			fmt.Println(ErrorStyle.Render("✗ ") + perr.Error())
			return []lint.Finding{{Severity: lint.Error, Line: perr.Line, Message: perr.Msg}}, nil
		}
		return nil, err
	}

	findings := lint.Run(doc)
	printFindings(path, findings)
	return findings, nil
}

func printFindings(path string, findings []lint.Finding) {
	if len(findings) == 0 {
		fmt.Println(SuccessStyle.Render("✓ ") + KeyStyle.Render(path) + " is valid")
		return
	}

	errs, warns := 0, 0
	for _, f := range findings {
		var marker string
		switch f.Severity {
		case lint.Error:
			marker = ErrorStyle.Render("✗ error")
			errs++
		case lint.Warning:
			marker = WarningStyle.Render("! warning")
			warns++
		default:
			marker = SubtitleStyle.Render("· info")
		}

		pos := path
		if f.Line > 0 {
			pos = fmt.Sprintf("%s:%d", path, f.Line)
		}
		ref := f.Key
		if ref == "" {
			ref = "[" + f.Section + "]"
		}
		fmt.Printf("%s  %s  %s: %s\n", marker, SubtitleStyle.Render(pos), KeyStyle.Render(ref), f.Message)
	}
	fmt.Printf("\n%d error(s), %d warning(s)\n", errs, warns)
}

// watchSpec re-runs validation whenever the spec file changes. Editors often
// replace the file on save, which drops the watch, so the parent directory
// is watched instead of the file itself.
func watchSpec(path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	if _, err := checkSpec(path); err != nil {
		return err
	}
	fmt.Println(SubtitleStyle.Render("Watching " + path + " (Ctrl+C to stop)..."))

	target, _ := filepath.Abs(path)

	// Debounce: editors fire several events per save.
	var last time.Time
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			evPath, _ := filepath.Abs(event.Name)
			if evPath != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if time.Since(last) < 100*time.Millisecond {
				continue
			}
			last = time.Now()

			fmt.Println()
			if _, err := checkSpec(path); err != nil {
				if errors.Is(err, os.ErrNotExist) {
					continue
				}
				log.Error("check failed", "err", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Error("watch error", "err", err)
		}
	}
}
