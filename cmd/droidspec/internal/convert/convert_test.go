package convert

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/droidspec/droidspec/pkg/specfile"
)

const sample = `[app]
title = Game SoundTracks
requirements = python3,kivy
android.permissions = INTERNET
android.permissions += READ_MEDIA_AUDIO
android.api = 33

[buildozer]
log_level = 2
`

func parse(t *testing.T) *specfile.Document {
	t.Helper()
	doc, err := specfile.Parse(strings.NewReader(sample), "sample.spec")
	require.NoError(t, err)
	return doc
}

func TestMarshalJSON(t *testing.T) {
	out, err := Marshal(parse(t), "json")
	require.NoError(t, err)

	var m map[string]map[string]any
	require.NoError(t, json.Unmarshal(out, &m))

	assert.Equal(t, "Game SoundTracks", m["app"]["title"])
	assert.Equal(t, "33", m["app"]["android.api"])
	assert.Equal(t, "2", m["buildozer"]["log_level"])

	// List-kind keys come out as arrays, with += appends folded in.
	perms, ok := m["app"]["android.permissions"].([]any)
	require.True(t, ok, "android.permissions should be an array, got %T", m["app"]["android.permissions"])
	assert.Equal(t, []any{"INTERNET", "READ_MEDIA_AUDIO"}, perms)
	assert.Equal(t, []any{"python3", "kivy"}, m["app"]["requirements"])
}

func TestMarshalYAML(t *testing.T) {
	out, err := Marshal(parse(t), "yaml")
	require.NoError(t, err)

	var m map[string]map[string]any
	require.NoError(t, yaml.Unmarshal(out, &m))
	assert.Equal(t, "Game SoundTracks", m["app"]["title"])
}

func TestMarshalTOML(t *testing.T) {
	out, err := Marshal(parse(t), "toml")
	require.NoError(t, err)
	assert.Contains(t, string(out), "title = 'Game SoundTracks'")
}

func TestMarshalUnknownFormat(t *testing.T) {
	_, err := Marshal(parse(t), "ini")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")
}
