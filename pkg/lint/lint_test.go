package lint

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/droidspec/droidspec/pkg/specfile"
)

const goodSpec = `[app]
title = Game SoundTracks
package.name = gamesoundtracks
package.domain = org.khdl
version = 1.2
version_code = 3
entrypoint = main.py
source.dir = .
source.include_exts = py,png,jpg,kv,atlas
requirements = python3,kivy,requests
android.permissions = INTERNET,WRITE_EXTERNAL_STORAGE
android.permissions += READ_MEDIA_AUDIO
android.api = 33
android.minapi = 21
android.ndk_api = 21

[buildozer]
log_level = 1
`

func parse(t *testing.T, s string) *specfile.Document {
	t.Helper()
	doc, err := specfile.Parse(strings.NewReader(s), "test.spec")
	require.NoError(t, err)
	return doc
}

func findingsFor(findings []Finding, key string) []Finding {
	var out []Finding
	for _, f := range findings {
		if f.Key == key {
			out = append(out, f)
		}
	}
	return out
}

func TestCleanSpecHasNoFindings(t *testing.T) {
	findings := Run(parse(t, goodSpec))
	assert.Empty(t, findings)
	assert.False(t, HasErrors(findings))
}

func TestMissingRequiredKeys(t *testing.T) {
	findings := Run(parse(t, "[app]\ntitle = X\n"))
	assert.True(t, HasErrors(findings))

	var missing []string
	for _, f := range findings {
		if f.Severity == Error && f.Message == "required key is missing" {
			missing = append(missing, f.Key)
		}
	}
	assert.ElementsMatch(t, []string{"package.name", "package.domain", "version"}, missing)
}

func TestMissingAppSection(t *testing.T) {
	findings := Run(parse(t, "[buildozer]\nlog_level = 1\n"))
	require.True(t, HasErrors(findings))
	assert.Contains(t, findings[0].Message, "missing [app] section")
}

func TestBadPackageID(t *testing.T) {
	doc := parse(t, strings.Replace(goodSpec, "package.domain = org.khdl", "package.domain = 1org", 1))
	findings := Run(doc)
	require.True(t, HasErrors(findings))
	assert.NotEmpty(t, findingsFor(findings, "package.domain"))
}

func TestAPILevelOrdering(t *testing.T) {
	doc := parse(t, strings.Replace(goodSpec, "android.minapi = 21", "android.minapi = 34", 1))
	findings := Run(doc)
	require.True(t, HasErrors(findings))

	got := findingsFor(findings, "android.minapi")
	require.NotEmpty(t, got)
	assert.Contains(t, got[0].Message, "exceeds android.api")
}

func TestNdkAPISpellingsMustAgree(t *testing.T) {
	doc := parse(t, strings.Replace(goodSpec, "android.ndk_api = 21", "android.ndk_api = 21\np4a.ndk_api = 23", 1))
	findings := Run(doc)
	require.True(t, HasErrors(findings))
	assert.NotEmpty(t, findingsFor(findings, "p4a.ndk_api"))
}

func TestPermissionFindings(t *testing.T) {
	doc := parse(t, strings.Replace(goodSpec,
		"android.permissions += READ_MEDIA_AUDIO",
		"android.permissions += READ_MEDIA_AUDIO,INTERNET,TOTALLY_FAKE", 1))
	findings := Run(doc)

	perms := findingsFor(findings, "android.permissions")
	require.Len(t, perms, 2)
	assert.False(t, HasErrors(findings), "permission problems are warnings")
	assert.Contains(t, perms[0].Message, "duplicate permission INTERNET")
	assert.Contains(t, perms[1].Message, "unknown permission TOTALLY_FAKE")
}

func TestNonIntegerVersionCode(t *testing.T) {
	doc := parse(t, strings.Replace(goodSpec, "version_code = 3", "version_code = three", 1))
	findings := Run(doc)
	require.True(t, HasErrors(findings))
	assert.NotEmpty(t, findingsFor(findings, "version_code"))
}

func TestUnknownKeyIsWarning(t *testing.T) {
	doc := parse(t, strings.Replace(goodSpec, "android.api = 33", "android.api = 33\nandroid.mystery_knob = 7", 1))

	findings := Run(doc)
	assert.False(t, HasErrors(findings))

	got := findingsFor(findings, "android.mystery_knob")
	require.Len(t, got, 1)
	assert.Equal(t, Warning, got[0].Severity)
}

func TestCleartextInfo(t *testing.T) {
	doc := parse(t, strings.Replace(goodSpec, "android.api = 33", "android.api = 33\nandroid.allow_cleartext = 1", 1))
	findings := Run(doc)
	assert.False(t, HasErrors(findings))

	got := findingsFor(findings, "android.allow_cleartext")
	require.Len(t, got, 1)
	assert.Equal(t, Info, got[0].Severity)
}

func TestLogLevelRange(t *testing.T) {
	doc := parse(t, strings.Replace(goodSpec, "log_level = 1", "log_level = 5", 1))
	findings := Run(doc)
	require.True(t, HasErrors(findings))
	assert.NotEmpty(t, findingsFor(findings, "log_level"))
}

func TestIncludeExtsBareSpelling(t *testing.T) {
	doc := parse(t, strings.Replace(goodSpec,
		"source.include_exts = py,png,jpg,kv,atlas",
		"source.include_exts = .py,*.png", 1))
	findings := Run(doc)
	require.True(t, HasErrors(findings))
	assert.Len(t, findingsFor(findings, "source.include_exts"), 2)
}

func TestFindingsCarryLineNumbers(t *testing.T) {
	doc := parse(t, strings.Replace(goodSpec, "version_code = 3", "version_code = nope", 1))
	findings := Run(doc)
	got := findingsFor(findings, "version_code")
	require.NotEmpty(t, got)
	assert.Equal(t, 6, got[0].Line)
}
