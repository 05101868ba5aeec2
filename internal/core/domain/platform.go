package domain

import "runtime"

// Platform names as recorded in the registry and in catalogs.
const (
	OSWindows = "windows"
	OSLinux   = "linux"
	OSMacOS   = "macos"
	OSUnknown = "unknown"
)

// CurrentOS returns the registry name of the host platform.
func CurrentOS() string {
	return OSFromGOOS(runtime.GOOS)
}

// OSFromGOOS maps a GOOS value to its registry name.
func OSFromGOOS(goos string) string {
	switch goos {
	case "windows":
		return OSWindows
	case "darwin":
		return OSMacOS
	case "linux":
		return OSLinux
	default:
		return OSUnknown
	}
}

// ExecutableName returns the file name of the main runtime executable on os.
func ExecutableName(os string) string {
	if os == OSWindows {
		return "java.exe"
	}
	return "java"
}

// CriticalFiles returns the slash-separated paths, relative to an instance root,
// that are fingerprinted at install time. Files absent from a distribution are skipped.
func CriticalFiles(os string) []string {
	var files []string
	if os == OSWindows {
		files = []string{"bin/java.exe", "bin/javaw.exe", "bin/javac.exe"}
	} else {
		files = []string{"bin/java", "bin/javac"}
	}
	return append(files, "lib/modules", "lib/jrt-fs.jar")
}
