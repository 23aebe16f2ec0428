package validation

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"fjacquet/budget-dashboard/internal/csvsource"
)

// Output formats accepted by the export and dashboard commands.
var (
	ExportFormats    = []string{"csv", "html"}
	DashboardFormats = []string{"text", "json", "yaml"}
)

// IsValidPath checks that path exists and is a regular file or directory.
func IsValidPath(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("path does not exist: %s", path)
	}
	if err != nil {
		return fmt.Errorf("error checking path %s: %w", path, err)
	}
	if !info.IsDir() && !info.Mode().IsRegular() {
		return fmt.Errorf("path %s is neither a file nor a directory", path)
	}
	return nil
}

// IsValidSource accepts an http(s) URL, a sheets: location or an existing
// local file, with or without a file:// prefix.
func IsValidSource(location string) error {
	location = strings.TrimSpace(location)
	if location == "" {
		return fmt.Errorf("source must not be empty")
	}
	if strings.HasPrefix(location, csvsource.SheetsScheme+":") {
		_, _, err := csvsource.ParseSheetsLocation(location)
		return err
	}
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		u, err := url.Parse(location)
		if err != nil || u.Host == "" {
			return fmt.Errorf("invalid source URL: %s", location)
		}
		return nil
	}
	return IsValidPath(strings.TrimPrefix(location, "file://"))
}

// IsValidOutputFormat checks format against the allowed list.
func IsValidOutputFormat(format string, allowed ...string) error {
	for _, a := range allowed {
		if format == a {
			return nil
		}
	}
	return fmt.Errorf("unsupported output format: %s. Supported formats are %s", format, quoteAll(allowed))
}

func quoteAll(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = "'" + v + "'"
	}
	return strings.Join(quoted, ", ")
}

// IsValidFilePermissions rejects modes that grant anything to others.
func IsValidFilePermissions(mode os.FileMode) error {
	if mode&0007 != 0 {
		return fmt.Errorf("file permissions are too permissive: %s. Recommended 0600 or 0640", mode.String())
	}
	return nil
}
