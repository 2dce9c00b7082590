// Package lint validates a parsed spec document against the Android
// packaging rules in pkg/android and reports findings instead of failing on
// the first problem, so one run surfaces everything a build would trip on.
package lint

import (
	"fmt"
	"strings"

	"github.com/droidspec/droidspec/pkg/android"
	"github.com/droidspec/droidspec/pkg/specfile"
)

// Severity of a finding.
type Severity int

const (
	Info Severity = iota
	Warning
	Error
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	}
	return "info"
}

// Finding is one problem detected in a spec document.
type Finding struct {
	Severity Severity
	Section  string
	Key      string
	Line     int
	Message  string
}

func (f Finding) String() string {
	ref := f.Key
	if ref == "" {
		ref = "[" + f.Section + "]"
	}
	return fmt.Sprintf("%s: %s: %s", f.Severity, ref, f.Message)
}

// HasErrors reports whether any finding is an error.
func HasErrors(findings []Finding) bool {
	for _, f := range findings {
		if f.Severity == Error {
			return true
		}
	}
	return false
}

type check func(*specfile.Document) []Finding

var checks = []check{
	checkRequiredKeys,
	checkPackageID,
	checkVersionCode,
	checkAPILevels,
	checkPermissions,
	checkValueKinds,
	checkUnknownKeys,
	checkCleartext,
	checkLogLevel,
	checkIncludeExts,
}

// Run executes every check against the document.
func Run(doc *specfile.Document) []Finding {
	var findings []Finding
	for _, c := range checks {
		findings = append(findings, c(doc)...)
	}
	return findings
}

func checkRequiredKeys(doc *specfile.Document) []Finding {
	app := doc.Section(android.SectionApp)
	if app == nil {
		return []Finding{{Severity: Error, Section: android.SectionApp, Message: "missing [app] section"}}
	}

	var findings []Finding
	for _, key := range []string{"title", "package.name", "package.domain", "version"} {
		if !app.Has(key) {
			findings = append(findings, Finding{
				Severity: Error,
				Section:  android.SectionApp,
				Key:      key,
				Message:  "required key is missing",
			})
		}
	}
	return findings
}

func checkPackageID(doc *specfile.Document) []Finding {
	app := doc.Section(android.SectionApp)
	if app == nil {
		return nil
	}

	var findings []Finding
	name, hasName := app.Get("package.name")
	domain, hasDomain := app.Get("package.domain")

	if hasName {
		if err := android.ValidatePackageName(name); err != nil {
			findings = append(findings, finding(Error, app, "package.name", err.Error()))
		}
	}
	if hasName && hasDomain {
		id := android.PackageID(domain, name)
		if err := android.ValidatePackageID(id); err != nil {
			findings = append(findings, finding(Error, app, "package.domain", err.Error()))
		}
	}
	return findings
}

func checkVersionCode(doc *specfile.Document) []Finding {
	app := doc.Section(android.SectionApp)
	if app == nil {
		return nil
	}

	code, ok, err := app.GetInt("version_code")
	if err != nil {
		return []Finding{finding(Error, app, "version_code", err.Error())}
	}
	if ok && code <= 0 {
		return []Finding{finding(Error, app, "version_code", fmt.Sprintf("must be a positive integer, got %d", code))}
	}
	return nil
}

func checkAPILevels(doc *specfile.Document) []Finding {
	app := doc.Section(android.SectionApp)
	if app == nil {
		return nil
	}

	var findings []Finding
	level := func(key string) int {
		v, ok := app.Get(key)
		if !ok {
			return 0
		}
		n, err := android.ParseAPILevel(v)
		if err != nil {
			findings = append(findings, finding(Error, app, key, err.Error()))
			return 0
		}
		return n
	}

	minAPI := level("android.minapi")
	targetAPI := level("android.api")

	// android.ndk_api and p4a.ndk_api are two spellings of the same knob;
	// files carrying both with different values are almost always drifted
	// copies of each other.
	ndkAPI := level("android.ndk_api")
	p4aNDK := level("p4a.ndk_api")
	if ndkAPI > 0 && p4aNDK > 0 && ndkAPI != p4aNDK {
		findings = append(findings, finding(Error, app, "p4a.ndk_api",
			fmt.Sprintf("disagrees with android.ndk_api (%d vs %d)", p4aNDK, ndkAPI)))
	}
	if ndkAPI == 0 {
		ndkAPI = p4aNDK
	}

	for _, issue := range android.ValidateLevels(minAPI, targetAPI, ndkAPI) {
		sev := Warning
		if issue.Fatal {
			sev = Error
		}
		findings = append(findings, finding(sev, app, "android.minapi", issue.Msg))
	}
	return findings
}

func checkPermissions(doc *specfile.Document) []Finding {
	app := doc.Section(android.SectionApp)
	if app == nil {
		return nil
	}

	perms := app.GetList("android.permissions")
	var findings []Finding
	seen := make(map[string]bool, len(perms))

	for _, p := range perms {
		n := android.NormalizePermission(p)
		if seen[n] {
			findings = append(findings, finding(Warning, app, "android.permissions",
				fmt.Sprintf("duplicate permission %s", n)))
			continue
		}
		seen[n] = true
		if !android.IsKnownPermission(p) {
			findings = append(findings, finding(Warning, app, "android.permissions",
				fmt.Sprintf("unknown permission %s", n)))
		}
	}
	return findings
}

func checkValueKinds(doc *specfile.Document) []Finding {
	var findings []Finding
	for _, sec := range doc.Sections {
		for _, key := range sec.Keys() {
			k, ok := android.LookupKey(sec.Name, key)
			if !ok {
				continue
			}
			switch k.Kind {
			case android.Int:
				if _, _, err := sec.GetInt(key); err != nil {
					findings = append(findings, finding(Error, sec, key, err.Error()))
				}
			case android.Bool:
				if _, _, err := sec.GetBool(key); err != nil {
					findings = append(findings, finding(Error, sec, key, err.Error()))
				}
			}
		}
	}
	return findings
}

func checkUnknownKeys(doc *specfile.Document) []Finding {
	var findings []Finding
	for _, sec := range doc.Sections {
		if !android.KnownSection(sec.Name) {
			findings = append(findings, Finding{
				Severity: Warning,
				Section:  sec.Name,
				Line:     sec.Line,
				Message:  "unknown section; the packager will ignore it",
			})
			continue
		}
		for _, key := range sec.Keys() {
			if _, ok := android.LookupKey(sec.Name, key); !ok {
				findings = append(findings, finding(Warning, sec, key, "unknown key; the packager will ignore it"))
			}
		}
	}
	return findings
}

func checkCleartext(doc *specfile.Document) []Finding {
	app := doc.Section(android.SectionApp)
	if app == nil {
		return nil
	}
	on, ok, err := app.GetBool("android.allow_cleartext")
	if err != nil || !ok || !on {
		return nil
	}
	return []Finding{finding(Info, app, "android.allow_cleartext",
		"cleartext HTTP traffic is enabled; the app will talk to plain-http hosts")}
}

func checkLogLevel(doc *specfile.Document) []Finding {
	bz := doc.Section(android.SectionBuildozer)
	if bz == nil {
		return nil
	}
	lvl, ok, err := bz.GetInt("log_level")
	if err != nil {
		return []Finding{finding(Error, bz, "log_level", err.Error())}
	}
	if ok && (lvl < 0 || lvl > 2) {
		return []Finding{finding(Error, bz, "log_level", fmt.Sprintf("must be 0, 1, or 2, got %d", lvl))}
	}
	return nil
}

func checkIncludeExts(doc *specfile.Document) []Finding {
	app := doc.Section(android.SectionApp)
	if app == nil {
		return nil
	}
	var findings []Finding
	for _, ext := range app.GetList("source.include_exts") {
		if strings.ContainsAny(ext, ".*") {
			findings = append(findings, finding(Error, app, "source.include_exts",
				fmt.Sprintf("extensions are written bare (%q should be %q)", ext, strings.TrimLeft(ext, ".*"))))
		}
	}
	return findings
}

func finding(sev Severity, sec *specfile.Section, key, msg string) Finding {
	f := Finding{Severity: sev, Section: sec.Name, Key: key, Message: msg}
	for _, e := range sec.Entries {
		if e.Key == key {
			f.Line = e.Line
			break
		}
	}
	return f
}
