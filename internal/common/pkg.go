package common

import (
	"path"
	"strings"
)

// PkgAlias returns the name a package is referred to by when imported without
// an explicit alias: the last element of its path, skipping a major version
// suffix ("example.com/lib/v2" -> "lib") and dropping a gopkg.in style
// version ("gopkg.in/yaml.v3" -> "yaml").
// Returns empty string if pkgPath is empty.
func PkgAlias(pkgPath string) string {
	if pkgPath == "" {
		return ""
	}

	base := path.Base(pkgPath)
	if isMajorVersion(base) {
		if dir := path.Dir(pkgPath); dir != "." {
			base = path.Base(dir)
		}
	}

	if strings.HasPrefix(pkgPath, "gopkg.in/") {
		if i := strings.LastIndex(base, ".v"); i > 0 {
			base = base[:i]
		}
	}

	return base
}

func isMajorVersion(s string) bool {
	if len(s) < 2 || s[0] != 'v' {
		return false
	}

	for _, r := range s[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}

	return true
}
