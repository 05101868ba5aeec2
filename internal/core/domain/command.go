package domain

// Command is a runtime executable launched on behalf of the user.
type Command struct {
	// Executable is the absolute path of the program to run.
	Executable string
	// Args are passed to the program as is.
	Args []string
	// Home is the instance directory. It becomes JAVA_HOME and its bin
	// directory is put first on PATH.
	Home string
	// Dir is the working directory. Empty means the current one.
	Dir string
}
