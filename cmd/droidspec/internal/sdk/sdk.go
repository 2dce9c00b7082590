// Package sdk locates the Android SDK, NDK, and their tools on the local
// machine, honoring the same environment variables the packaging toolchain
// reads.
package sdk

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
)

// FindSDK resolves the SDK root. Priority: the spec's android.sdk_path
// (already interpolated) > ANDROID_SDK_ROOT > ANDROID_HOME.
func FindSDK(specPath string) string {
	if specPath != "" {
		return specPath
	}
	if root := os.Getenv("ANDROID_SDK_ROOT"); root != "" {
		return root
	}
	return os.Getenv("ANDROID_HOME")
}

// FindNDK resolves the NDK root. Priority: the spec's android.ndk_path >
// ANDROID_NDK_ROOT > ANDROID_NDK_HOME > the newest ndk/<version> directory
// under the SDK root.
func FindNDK(specPath, sdkRoot string) string {
	if specPath != "" {
		return specPath
	}
	if root := os.Getenv("ANDROID_NDK_ROOT"); root != "" {
		return root
	}
	if root := os.Getenv("ANDROID_NDK_HOME"); root != "" {
		return root
	}
	if sdkRoot == "" {
		return ""
	}

	ndkDir := filepath.Join(sdkRoot, "ndk")
	entries, err := os.ReadDir(ndkDir)
	if err != nil {
		return ""
	}
	var versions []string
	for _, e := range entries {
		if e.IsDir() {
			versions = append(versions, e.Name())
		}
	}
	if len(versions) == 0 {
		return ""
	}
	sort.Strings(versions)
	return filepath.Join(ndkDir, versions[len(versions)-1])
}

// ADB returns the path to the adb binary under the SDK root, falling back to
// plain "adb" so PATH lookup still works without an SDK.
func ADB(sdkRoot string) string {
	if sdkRoot == "" {
		return "adb"
	}
	return filepath.Join(sdkRoot, "platform-tools", "adb")
}

// NDKBuild returns the path to the ndk-build script under the NDK root,
// falling back to plain "ndk-build" so PATH lookup still works without an NDK.
func NDKBuild(ndkRoot string) string {
	if ndkRoot == "" {
		return "ndk-build"
	}
	return filepath.Join(ndkRoot, "ndk-build")
}

// Status is the outcome of one environment probe.
type Status struct {
	Name   string
	Path   string
	OK     bool
	Detail string
}

// Probe checks that the resolved SDK and NDK directories exist and that the
// adb and ndk-build tools are reachable, returning one status per component.
func Probe(sdkRoot, ndkRoot string) []Status {
	var out []Status

	out = append(out, probeDir("Android SDK", sdkRoot,
		"set android.sdk_path in the spec or export ANDROID_SDK_ROOT"))
	out = append(out, probeDir("Android NDK", ndkRoot,
		"set android.ndk_path in the spec or export ANDROID_NDK_ROOT"))
	out = append(out, probeTool("adb", ADB(sdkRoot)))
	out = append(out, probeTool("ndk-build", NDKBuild(ndkRoot)))

	return out
}

// probeTool checks a tool path. A bare name means no root was configured and
// only PATH lookup can find it.
func probeTool(name, path string) Status {
	st := Status{Name: name, Path: path}
	if path == name {
		if p, err := exec.LookPath(name); err == nil {
			st.OK = true
			st.Path = p
		} else {
			st.Detail = name + " not found in PATH"
		}
		return st
	}
	if _, err := os.Stat(path); err == nil {
		st.OK = true
	} else {
		st.Detail = fmt.Sprintf("missing %s", path)
	}
	return st
}

func probeDir(name, dir, hint string) Status {
	st := Status{Name: name, Path: dir}
	if dir == "" {
		st.Detail = "not configured; " + hint
		return st
	}
	info, err := os.Stat(dir)
	switch {
	case err != nil:
		st.Detail = fmt.Sprintf("directory does not exist: %s", dir)
	case !info.IsDir():
		st.Detail = fmt.Sprintf("not a directory: %s", dir)
	default:
		st.OK = true
	}
	return st
}
