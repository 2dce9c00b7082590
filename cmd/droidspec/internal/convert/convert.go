// Package convert renders a parsed spec document as YAML, TOML, or JSON.
package convert

import (
	"encoding/json"
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/droidspec/droidspec/pkg/android"
	"github.com/droidspec/droidspec/pkg/specfile"
)

// Formats lists the supported output formats.
var Formats = []string{"yaml", "toml", "json"}

// Marshal renders the document in the requested format. List-kind keys from
// the registry become arrays; everything else stays a scalar string.
func Marshal(doc *specfile.Document, format string) ([]byte, error) {
	m := toMap(doc)

	switch format {
	case "yaml":
		return yaml.Marshal(m)
	case "toml":
		return toml.Marshal(m)
	case "json":
		return json.MarshalIndent(m, "", "  ")
	}
	return nil, fmt.Errorf("unknown format %q (supported: yaml, toml, json)", format)
}

func toMap(doc *specfile.Document) map[string]map[string]any {
	out := make(map[string]map[string]any, len(doc.Sections))
	for _, sec := range doc.Sections {
		sm := make(map[string]any, len(sec.Entries))
		for _, key := range sec.Keys() {
			if k, ok := android.LookupKey(sec.Name, key); ok && k.Kind == android.List {
				sm[key] = sec.GetList(key)
				continue
			}
			v, _ := sec.Get(key)
			sm[key] = v
		}
		out[sec.Name] = sm
	}
	return out
}
