// Package android holds the Android packaging domain rules a spec file is
// validated against: API level ordering, the permission catalog, and
// reverse-domain package identifier syntax.
package android

import (
	"fmt"
	"strconv"
)

// codenames maps Android release codenames to their numeric API levels.
// Spec files occasionally carry a codename instead of a number.
var codenames = map[string]int{
	"K": 19,
	"L": 21,
	"M": 23,
	"N": 24,
	"O": 26,
	"P": 28,
	"Q": 29,
	"R": 30,
	"S": 31,
	"T": 33,
	"U": 34,
	"V": 35,
}

// MinSupportedAPI is the lowest API level python-for-android still targets.
const MinSupportedAPI = 21

// ParseAPILevel parses a numeric API level or a release codename.
func ParseAPILevel(s string) (int, error) {
	if n, ok := codenames[s]; ok {
		return n, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid API level %q", s)
	}
	if n < 1 {
		return 0, fmt.Errorf("invalid API level %d", n)
	}
	return n, nil
}

// LevelIssue describes one API level consistency problem.
type LevelIssue struct {
	Fatal bool
	Msg   string
}

// ValidateLevels checks the ordering constraints between minapi, target api,
// and ndk_api. Zero values mean "not declared" and are skipped. The external
// toolchain asserts minapi <= api at build time; surfacing it here saves a
// full failed build.
func ValidateLevels(minAPI, targetAPI, ndkAPI int) []LevelIssue {
	var issues []LevelIssue

	if minAPI > 0 && targetAPI > 0 && minAPI > targetAPI {
		issues = append(issues, LevelIssue{
			Fatal: true,
			Msg:   fmt.Sprintf("android.minapi %d exceeds android.api %d", minAPI, targetAPI),
		})
	}
	if ndkAPI > 0 && minAPI > 0 && ndkAPI > minAPI {
		issues = append(issues, LevelIssue{
			Msg: fmt.Sprintf("ndk_api %d exceeds android.minapi %d; python-for-android will reject this", ndkAPI, minAPI),
		})
	}
	if minAPI > 0 && minAPI < MinSupportedAPI {
		issues = append(issues, LevelIssue{
			Msg: fmt.Sprintf("android.minapi %d is below %d, the lowest level the toolchain still ships support for", minAPI, MinSupportedAPI),
		})
	}
	return issues
}
