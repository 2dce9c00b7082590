package android

// Kind is the value type of a spec key.
type Kind int

const (
	String Kind = iota
	Int
	Bool
	List
	Path
)

func (k Kind) String() string {
	switch k {
	case Int:
		return "int"
	case Bool:
		return "bool"
	case List:
		return "list"
	case Path:
		return "path"
	}
	return "string"
}

// Key describes one recognized spec key.
type Key struct {
	Section string
	Name    string
	Kind    Kind
	Default string
}

// SectionApp and SectionBuildozer are the two sections the format defines.
const (
	SectionApp       = "app"
	SectionBuildozer = "buildozer"
)

// keys is the registry of recognized spec keys with their kinds and
// defaults. It drives lint's unknown-key and type checks and the values a
// resolved view fills in for absent keys.
var keys = []Key{
	{SectionApp, "title", String, ""},
	{SectionApp, "package.name", String, ""},
	{SectionApp, "package.domain", String, "org.test"},
	{SectionApp, "version", String, "0.1"},
	{SectionApp, "version_code", Int, ""},
	{SectionApp, "entrypoint", Path, "main.py"},
	{SectionApp, "source.dir", Path, "."},
	{SectionApp, "source.include_exts", List, "py,png,jpg,kv,atlas"},
	{SectionApp, "source.exclude_dirs", List, ""},
	{SectionApp, "source.exclude_exts", List, ""},
	{SectionApp, "requirements", List, "python3,kivy"},
	{SectionApp, "garden_requirements", List, ""},
	{SectionApp, "icon.filename", Path, ""},
	{SectionApp, "presplash.filename", Path, ""},
	{SectionApp, "orientation", String, "portrait"},
	{SectionApp, "fullscreen", Bool, "0"},
	{SectionApp, "android.permissions", List, ""},
	{SectionApp, "android.allow_cleartext", Bool, "0"},
	{SectionApp, "android.api", Int, "33"},
	{SectionApp, "android.minapi", Int, "21"},
	{SectionApp, "android.ndk", String, ""},
	{SectionApp, "android.ndk_api", Int, ""},
	{SectionApp, "android.sdk_path", Path, ""},
	{SectionApp, "android.ndk_path", Path, ""},
	{SectionApp, "android.archs", List, "arm64-v8a,armeabi-v7a"},
	{SectionApp, "android.accept_sdk_license", Bool, "0"},
	{SectionApp, "p4a.branch", String, ""},
	{SectionApp, "p4a.ndk_api", Int, ""},
	{SectionBuildozer, "log_level", Int, "1"},
	{SectionBuildozer, "warn_on_root", Bool, "1"},
	{SectionBuildozer, "build_dir", Path, ""},
	{SectionBuildozer, "bin_dir", Path, ""},
}

// LookupKey returns the registry entry for section/name.
func LookupKey(section, name string) (Key, bool) {
	for _, k := range keys {
		if k.Section == section && k.Name == name {
			return k, true
		}
	}
	return Key{}, false
}

// KnownSection reports whether the section name is part of the format.
func KnownSection(name string) bool {
	return name == SectionApp || name == SectionBuildozer
}

// Keys returns the registry entries for one section, in declaration order.
func Keys(section string) []Key {
	var out []Key
	for _, k := range keys {
		if k.Section == section {
			out = append(out, k)
		}
	}
	return out
}
