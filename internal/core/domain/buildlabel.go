package domain

import (
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strings"
)

// archiveSuffixes are stripped from file names to form build labels. Longest first.
var archiveSuffixes = []string{".tar.gz", ".tgz", ".zip", ".tar"}

// knownVendors are matched, in order, against a lowercased build label.
var knownVendors = []string{
	"temurin", "oracle", "zulu", "corretto", "adoptium",
	"liberica", "microsoft", "graalvm", "semeru",
}

// DefaultVendor is used when no known vendor appears in a build label.
const DefaultVendor = "openjdk"

// BuildLabelFromFilename derives the build label from an archive path.
func BuildLabelFromFilename(archivePath string) string {
	return trimArchiveSuffix(filepath.Base(archivePath))
}

// BuildLabelFromURL derives the build label from a download reference.
// Query strings and fragments are ignored.
func BuildLabelFromURL(downloadURL string) string {
	p := downloadURL
	if u, err := url.Parse(downloadURL); err == nil && u.Path != "" {
		p = u.Path
	}
	p = strings.TrimRight(p, "/")
	if p == "" {
		return ""
	}
	return trimArchiveSuffix(path.Base(p))
}

func trimArchiveSuffix(name string) string {
	lower := strings.ToLower(name)
	for _, s := range archiveSuffixes {
		if strings.HasSuffix(lower, s) {
			return name[:len(name)-len(s)]
		}
	}
	return name
}

// GuessVendor returns the vendor named in a build label, or DefaultVendor.
func GuessVendor(buildLabel string) string {
	lower := strings.ToLower(buildLabel)
	for _, v := range knownVendors {
		if strings.Contains(lower, v) {
			return v
		}
	}
	return DefaultVendor
}

// InstanceID derives the stable id of an instance. It is also its directory name.
func InstanceID(major int, buildLabel string) string {
	return fmt.Sprintf("jdk-%d-%s", major, GuessVendor(buildLabel))
}

// DefaultName is the display name used when none is given.
func DefaultName(major int) string {
	return fmt.Sprintf("Java %d", major)
}
