package android

import "strings"

const permissionPrefix = "android.permission."

// catalog lists the android.permission.* names spec files commonly declare,
// in short form. Normalize folds either spelling onto it.
var catalog = []string{
	"ACCESS_BACKGROUND_LOCATION",
	"ACCESS_COARSE_LOCATION",
	"ACCESS_FINE_LOCATION",
	"ACCESS_NETWORK_STATE",
	"ACCESS_WIFI_STATE",
	"ACTIVITY_RECOGNITION",
	"BLUETOOTH",
	"BLUETOOTH_ADMIN",
	"BLUETOOTH_CONNECT",
	"BLUETOOTH_SCAN",
	"BODY_SENSORS",
	"CALL_PHONE",
	"CAMERA",
	"CHANGE_WIFI_STATE",
	"FOREGROUND_SERVICE",
	"FOREGROUND_SERVICE_MEDIA_PLAYBACK",
	"INTERNET",
	"MANAGE_EXTERNAL_STORAGE",
	"NFC",
	"POST_NOTIFICATIONS",
	"READ_CALENDAR",
	"READ_CONTACTS",
	"READ_EXTERNAL_STORAGE",
	"READ_MEDIA_AUDIO",
	"READ_MEDIA_IMAGES",
	"READ_MEDIA_VIDEO",
	"READ_PHONE_STATE",
	"READ_SMS",
	"RECEIVE_BOOT_COMPLETED",
	"RECEIVE_SMS",
	"RECORD_AUDIO",
	"REQUEST_INSTALL_PACKAGES",
	"SCHEDULE_EXACT_ALARM",
	"SEND_SMS",
	"SYSTEM_ALERT_WINDOW",
	"USE_BIOMETRIC",
	"USE_FINGERPRINT",
	"VIBRATE",
	"WAKE_LOCK",
	"WRITE_CALENDAR",
	"WRITE_CONTACTS",
	"WRITE_EXTERNAL_STORAGE",
}

var knownPermissions = func() map[string]bool {
	m := make(map[string]bool, len(catalog))
	for _, p := range catalog {
		m[p] = true
	}
	return m
}()

// NormalizePermission strips the android.permission. prefix if present.
func NormalizePermission(p string) string {
	return strings.TrimPrefix(strings.TrimSpace(p), permissionPrefix)
}

// IsKnownPermission reports whether p (short or fully qualified form) is in
// the catalog.
func IsKnownPermission(p string) bool {
	return knownPermissions[NormalizePermission(p)]
}

// QualifyPermission returns the fully qualified manifest name for p.
func QualifyPermission(p string) string {
	return permissionPrefix + NormalizePermission(p)
}

// DedupPermissions normalizes a permission list and drops duplicates,
// keeping first-occurrence order. Spec files build the list with += appends,
// so the same permission can legally appear twice in the source.
func DedupPermissions(perms []string) []string {
	seen := make(map[string]bool, len(perms))
	var out []string
	for _, p := range perms {
		n := NormalizePermission(p)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}
