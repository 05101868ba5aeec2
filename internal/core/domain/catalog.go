package domain

import (
	"regexp"
	"strconv"

	"github.com/Masterminds/semver/v3"
)

// AvailableRuntime is one catalog entry, as supplied by an external catalog.
type AvailableRuntime struct {
	Version   string     `json:"version" yaml:"version"`
	Vendor    string     `json:"vendor,omitempty" yaml:"vendor,omitempty"`
	Downloads []Download `json:"downloads" yaml:"downloads"`
}

// Download is a platform specific download reference of a catalog entry.
type Download struct {
	OS          string `json:"os" yaml:"os"`
	DownloadURL string `json:"downloadUrl" yaml:"downloadUrl"`
}

// Update reports that a newer build is available for an installed instance.
type Update struct {
	InstanceID          string `json:"instanceId"`
	CurrentBuildLabel   string `json:"currentBuildLabel"`
	AvailableBuildLabel string `json:"availableBuildLabel"`
	DownloadURL         string `json:"downloadUrl"`
	MajorVersion        int    `json:"majorVersion"`
}

// InstallInfo is the summary of an installed instance.
type InstallInfo struct {
	ID                 string             `json:"id"`
	MajorVersion       int                `json:"majorVersion"`
	Name               string             `json:"name"`
	BuildLabel         string             `json:"buildLabel"`
	VerificationStatus VerificationStatus `json:"verificationStatus"`
}

var leadingVersion = regexp.MustCompile(`^[vV]?(\d+(?:\.\d+){0,2})`)

// MajorVersion normalizes a reported version string to a major version.
// A legacy "1.X" version maps to major X.
func MajorVersion(raw string) (int, bool) {
	m := leadingVersion.FindStringSubmatch(raw)
	if m == nil {
		return 0, false
	}
	v, err := semver.NewVersion(m[1])
	if err != nil {
		return 0, false
	}
	major := v.Major()
	if major == 1 && v.Minor() > 0 {
		major = v.Minor()
	}
	if major > uint64(^uint(0)>>1) {
		return 0, false
	}
	return int(major), true
}

// FindUpdate checks one instance against a catalog for the given platform.
// The first catalog entry with the instance's major version decides.
func FindUpdate(inst Instance, catalog []AvailableRuntime, os string) (Update, bool) {
	for _, rt := range catalog {
		major, ok := MajorVersion(rt.Version)
		if !ok || major != inst.MajorVersion {
			continue
		}
		dl, ok := downloadFor(rt, os)
		if !ok {
			return Update{}, false
		}
		label := BuildLabelFromURL(dl.DownloadURL)
		if label == "" || label == inst.BuildLabel {
			return Update{}, false
		}
		return Update{
			InstanceID:          inst.ID,
			CurrentBuildLabel:   inst.BuildLabel,
			AvailableBuildLabel: label,
			DownloadURL:         dl.DownloadURL,
			MajorVersion:        inst.MajorVersion,
		}, true
	}
	return Update{}, false
}

// DetectUpdates reports every instance for which the catalog offers a different build.
func DetectUpdates(instances []Instance, catalog []AvailableRuntime, os string) []Update {
	var updates []Update
	for _, inst := range instances {
		if u, ok := FindUpdate(inst, catalog, os); ok {
			updates = append(updates, u)
		}
	}
	return updates
}

// Installable returns the catalog entries for os whose major version is not installed yet.
func Installable(instances []Instance, catalog []AvailableRuntime, os string) []AvailableRuntime {
	installed := make(map[int]bool, len(instances))
	for _, inst := range instances {
		installed[inst.MajorVersion] = true
	}

	var out []AvailableRuntime
	for _, rt := range catalog {
		major, ok := MajorVersion(rt.Version)
		if !ok || installed[major] {
			continue
		}
		if _, ok := downloadFor(rt, os); ok {
			out = append(out, rt)
		}
	}
	return out
}

// Summaries lists installed instances in registry order.
func Summaries(instances []Instance) []InstallInfo {
	out := make([]InstallInfo, 0, len(instances))
	for _, inst := range instances {
		out = append(out, InstallInfo{
			ID:                 inst.ID,
			MajorVersion:       inst.MajorVersion,
			Name:               inst.Name,
			BuildLabel:         inst.BuildLabel,
			VerificationStatus: inst.VerificationStatus,
		})
	}
	return out
}

func downloadFor(rt AvailableRuntime, os string) (Download, bool) {
	for _, dl := range rt.Downloads {
		if dl.OS == os {
			return dl, true
		}
	}
	return Download{}, false
}

// ParseMajor parses a user supplied major version such as "17".
func ParseMajor(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, ErrInvalidMajorVersion
	}
	return n, nil
}
