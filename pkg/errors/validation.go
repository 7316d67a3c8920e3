package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// tlPackageNameRegex matches TeX Live package names as they appear in
// tlpobj file names and archive URLs (e.g. "amsmath", "collection-basic",
// "babel-german", "hyphen-base", "t1utils.x86_64-linux").
var tlPackageNameRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._+-]*$`)

// ValidatePackageName validates a package name before it is used to build
// a manifest path or an archive URL.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - No path separators or traversal sequences
//   - Maximum length of 256 characters
func ValidatePackageName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "package name cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidInput, "package name too long (max 256 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "package name contains invalid control characters")
		}
	}

	if strings.Contains(name, "..") {
		return New(ErrCodeInvalidInput, "package name contains invalid characters: %q", "..")
	}

	if !tlPackageNameRegex.MatchString(name) {
		return New(ErrCodeInvalidInput, "invalid package name: %q", name)
	}

	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}
