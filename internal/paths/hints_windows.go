//go:build windows

package paths

import (
	"golang.org/x/sys/windows/registry"
)

// PlatformHints returns the GOG Galaxy install directory for the game, plus
// its hellfire add-on subdirectory, when the storefront registry records an
// install. Returns nil when the game was not installed through GOG.
func PlatformHints() []string {
	dir := gogInstallDir(gogProductID)
	if dir == "" {
		return nil
	}
	return []string{dir + "/", dir + "/hellfire/"}
}

// gogInstallDir reads the install path GOG Galaxy records for a product id.
func gogInstallDir(productID string) string {
	for _, root := range []string{
		`SOFTWARE\WOW6432Node\GOG.com\Games\`,
		`SOFTWARE\GOG.com\Games\`,
	} {
		key, err := registry.OpenKey(registry.LOCAL_MACHINE, root+productID, registry.QUERY_VALUE)
		if err != nil {
			continue
		}
		path, _, err := key.GetStringValue("path")
		_ = key.Close()
		if err == nil && path != "" {
			return path
		}
	}
	return ""
}
