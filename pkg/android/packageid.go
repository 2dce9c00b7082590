package android

import (
	"fmt"
	"strings"
)

// PackageID joins a reverse-domain prefix and an app name into the full
// application identifier, e.g. ("org.example", "soundtracks") ->
// "org.example.soundtracks".
func PackageID(domain, name string) string {
	return strings.TrimSuffix(domain, ".") + "." + name
}

// ValidatePackageID checks the rules Android imposes on application IDs:
// at least two dot-separated segments, each starting with a letter and
// containing only lowercase letters, digits, and underscores.
func ValidatePackageID(id string) error {
	if !strings.Contains(id, ".") {
		return fmt.Errorf("package id %q must contain at least one '.'", id)
	}
	for _, segment := range strings.Split(id, ".") {
		if segment == "" {
			return fmt.Errorf("package id %q contains an empty segment", id)
		}
		if segment[0] >= '0' && segment[0] <= '9' {
			return fmt.Errorf("package id segment %q cannot start with a digit", segment)
		}
		if segment[0] == '_' {
			return fmt.Errorf("package id segment %q cannot start with '_'", segment)
		}
		for _, r := range segment {
			if r == '_' || r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
				continue
			}
			return fmt.Errorf("package id segment %q contains invalid character %q", segment, r)
		}
	}
	return nil
}

// ValidatePackageName checks the package.name field on its own: a single
// identifier segment, no dots.
func ValidatePackageName(name string) error {
	if name == "" {
		return fmt.Errorf("package name is empty")
	}
	if strings.Contains(name, ".") {
		return fmt.Errorf("package name %q must not contain '.' (the domain goes in package.domain)", name)
	}
	return ValidatePackageID("x." + name)
}
