package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/droidspec/droidspec/pkg/lint"
	"github.com/droidspec/droidspec/pkg/specfile"
)

func TestApplyStylesHonorsColorSetting(t *testing.T) {
	t.Cleanup(func() { applyStyles(true) })

	applyStyles(false)
	if TitleStyle.GetBold() || ErrorStyle.GetBold() {
		t.Error("styles should carry no attributes when color is disabled")
	}
	if _, ok := SuccessStyle.GetForeground().(lipgloss.NoColor); !ok {
		t.Errorf("foreground should be unset when color is disabled, got %v", SuccessStyle.GetForeground())
	}

	applyStyles(true)
	if !TitleStyle.GetBold() {
		t.Error("TitleStyle should be bold when color is enabled")
	}
	if SuccessStyle.GetForeground() != ColorSuccess {
		t.Errorf("SuccessStyle foreground = %v, want %v", SuccessStyle.GetForeground(), ColorSuccess)
	}
}

func TestSpecArg(t *testing.T) {
	if got := specArg(nil); got != DefaultSpecName {
		t.Errorf("specArg(nil) = %q", got)
	}
	if got := specArg([]string{"other.spec"}); got != "other.spec" {
		t.Errorf("specArg = %q", got)
	}
}

func TestRunInitProducesValidSpec(t *testing.T) {
	dir := t.TempDir()
	initTitle = "Game SoundTracks"
	initPackage = "gamesoundtracks"
	initDomain = "org.khdl"
	t.Cleanup(func() { initTitle, initPackage, initDomain = "", "", "" })

	if err := runInit(dir); err != nil {
		t.Fatalf("runInit failed: %v", err)
	}

	path := filepath.Join(dir, DefaultSpecName)
	doc, err := specfile.Load(path)
	if err != nil {
		t.Fatalf("generated spec does not parse: %v", err)
	}
	if findings := lint.Run(doc); len(findings) != 0 {
		t.Errorf("generated spec does not lint clean: %v", findings)
	}

	// A second init must refuse to overwrite.
	if err := runInit(dir); err == nil {
		t.Error("runInit overwrote an existing spec")
	}
}

func TestRunInitRejectsBadPackage(t *testing.T) {
	initPackage = "My App"
	t.Cleanup(func() { initPackage = "" })

	if err := runInit(t.TempDir()); err == nil {
		t.Error("expected error for invalid package name")
	}
}

func TestRunFmtWriteAndCheck(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "buildozer.spec")
	messy := "[app]\ntitle=X\nrequirements = python3,kivy\n"
	if err := os.WriteFile(path, []byte(messy), 0o644); err != nil {
		t.Fatal(err)
	}

	// Not canonical yet.
	fmtCheck, fmtWrite = true, false
	if err := runFmt(path); err == nil {
		t.Error("--check passed on a non-canonical file")
	}

	// Rewrite in place, then --check passes.
	fmtCheck, fmtWrite = false, true
	if err := runFmt(path); err != nil {
		t.Fatalf("runFmt --write failed: %v", err)
	}
	fmtCheck, fmtWrite = true, false
	if err := runFmt(path); err != nil {
		t.Errorf("--check failed after --write: %v", err)
	}
	t.Cleanup(func() { fmtCheck, fmtWrite = false, false })

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(raw), "title = X") {
		t.Errorf("rewrite did not normalize spacing:\n%s", raw)
	}
}

func TestRunDiff(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.spec")
	b := filepath.Join(dir, "b.spec")
	os.WriteFile(a, []byte("[app]\ntitle = X\nversion_code = 3\n"), 0o644)
	os.WriteFile(b, []byte("[app]\ntitle = X\nversion_code = 4\n"), 0o644)

	if err := runDiff(a, a); err != nil {
		t.Errorf("identical files reported different: %v", err)
	}
	if err := runDiff(a, b); err == nil {
		t.Error("differing files reported identical")
	}
}

func TestCheckSpecReportsParseErrorAsFinding(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.spec")
	os.WriteFile(path, []byte("[app]\ntitle = Game SoundTracks\nnot a key value\n"), 0o644)

	findings, err := checkSpec(path)
	if err != nil {
		t.Fatalf("parse failure should be a finding, not an error: %v", err)
	}
	if !lint.HasErrors(findings) {
		t.Error("expected an error finding for the parse failure")
	}
	if len(findings) != 1 || findings[0].Line != 3 {
		t.Errorf("finding should carry the failing line, got %+v", findings)
	}
}
