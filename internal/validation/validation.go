// Package validation provides input validation for values that end up in
// command invocations, preventing injection through manifest data.
package validation

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	// packageNamePattern follows Debian package naming: lowercase
	// alphanumeric plus plus/minus/dot, at least two characters.
	packageNamePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9+.-]+$`)

	// usernamePattern follows useradd's default NAME_REGEX.
	usernamePattern = regexp.MustCompile(`^[a-z_][a-z0-9_-]*\$?$`)

	groupNamePattern = regexp.MustCompile(`^[a-z_][a-z0-9_-]*$`)

	// serviceNamePattern allows systemd unit names with an optional
	// .service suffix.
	serviceNamePattern = regexp.MustCompile(`^[a-zA-Z0-9:_.@\\-]+$`)

	installerURLPattern = regexp.MustCompile(`^https://[a-zA-Z0-9.-]+/[a-zA-Z0-9_./%-]*$`)

	// toolNamePattern matches executable names probed with --version.
	toolNamePattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_.+-]*$`)

	// installerNamePattern covers installer names; they become part of
	// the step identifier, so colons and spaces are out.
	installerNamePattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_.-]*$`)

	// gitConfigKeyPattern requires a dotted section.key form with
	// non-empty segments on both sides of every dot.
	gitConfigKeyPattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9-]*(\.[a-zA-Z0-9][a-zA-Z0-9-]*)+$`)

	// Characters that should never appear in values passed to commands.
	dangerousChars = []string{";", "&", "|", "$", "`", "(", ")", "{", "}", "<", ">", "!", "\n", "\r", " "}
)

// ValidatePackageName validates a package name for apt or brew.
func ValidatePackageName(name string) error {
	if name == "" {
		return fmt.Errorf("package name cannot be empty")
	}
	if len(name) > 255 {
		return fmt.Errorf("package name too long (max 255 characters)")
	}
	if strings.ContainsRune(name, '\x00') {
		return fmt.Errorf("package name contains null byte")
	}
	for _, char := range dangerousChars {
		if strings.Contains(name, char) {
			return fmt.Errorf("package name contains invalid character: %q", char)
		}
	}
	if !packageNamePattern.MatchString(name) {
		return fmt.Errorf("invalid package name format")
	}
	return nil
}

// ValidateUsername validates a local account name.
func ValidateUsername(name string) error {
	if name == "" {
		return fmt.Errorf("username cannot be empty")
	}
	if len(name) > 32 {
		return fmt.Errorf("username too long (max 32 characters)")
	}
	if !usernamePattern.MatchString(name) {
		return fmt.Errorf("invalid username format")
	}
	return nil
}

// ValidateGroupName validates a local group name.
func ValidateGroupName(name string) error {
	if name == "" {
		return fmt.Errorf("group name cannot be empty")
	}
	if len(name) > 32 {
		return fmt.Errorf("group name too long (max 32 characters)")
	}
	if !groupNamePattern.MatchString(name) {
		return fmt.Errorf("invalid group name format")
	}
	return nil
}

// ValidateServiceName validates a systemd unit name.
func ValidateServiceName(name string) error {
	if name == "" {
		return fmt.Errorf("service name cannot be empty")
	}
	if len(name) > 255 {
		return fmt.Errorf("service name too long (max 255 characters)")
	}
	if !serviceNamePattern.MatchString(name) {
		return fmt.Errorf("invalid service name format")
	}
	return nil
}

// ValidateToolName validates a runtime tool's executable name.
func ValidateToolName(name string) error {
	if name == "" {
		return fmt.Errorf("tool name cannot be empty")
	}
	if len(name) > 64 {
		return fmt.Errorf("tool name too long (max 64 characters)")
	}
	for _, char := range dangerousChars {
		if strings.Contains(name, char) {
			return fmt.Errorf("tool name contains invalid character: %q", char)
		}
	}
	if !toolNamePattern.MatchString(name) {
		return fmt.Errorf("invalid tool name format")
	}
	return nil
}

// ValidateInstallerName validates a bootstrap installer's name.
func ValidateInstallerName(name string) error {
	if name == "" {
		return fmt.Errorf("installer name cannot be empty")
	}
	if len(name) > 64 {
		return fmt.Errorf("installer name too long (max 64 characters)")
	}
	if !installerNamePattern.MatchString(name) {
		return fmt.Errorf("invalid installer name format")
	}
	return nil
}

// ValidateGitConfigKey validates a dotted git config key such as
// "init.defaultBranch".
func ValidateGitConfigKey(key string) error {
	if key == "" {
		return fmt.Errorf("git config key cannot be empty")
	}
	if len(key) > 255 {
		return fmt.Errorf("git config key too long (max 255 characters)")
	}
	if !gitConfigKeyPattern.MatchString(key) {
		return fmt.Errorf("git config key must be dotted section.key")
	}
	return nil
}

// ValidateInstallerURL validates a bootstrap script URL. Only https is
// accepted; the script runs with the target user's privileges.
func ValidateInstallerURL(url string) error {
	if url == "" {
		return fmt.Errorf("installer URL cannot be empty")
	}
	if strings.ContainsRune(url, '\x00') {
		return fmt.Errorf("installer URL contains null byte")
	}
	for _, char := range []string{";", "&", "|", "$", "`", "<", ">", "\n", "\r", " ", "'", `"`} {
		if strings.Contains(url, char) {
			return fmt.Errorf("installer URL contains invalid character: %q", char)
		}
	}
	if !installerURLPattern.MatchString(url) {
		return fmt.Errorf("installer URL must be https")
	}
	return nil
}
