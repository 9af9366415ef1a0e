package core

// Kind names the classification branch that produced an Outcome.
type Kind string

const (
	KindExecuted         Kind = "executed"          // Host shell ran and exited 0
	KindDirectoryChanged Kind = "directory_changed" // cd to an existing directory
	KindDirectoryQuery   Kind = "directory_query"   // Bare cd
	KindExitNotice       Kind = "exit_notice"       // exit/quit keyword

	KindBlocked       Kind = "blocked"        // Matched the safety blocklist
	KindNotFound      Kind = "not_found"      // cd target missing or not a directory
	KindTimeout       Kind = "timeout"        // Host execution exceeded the time budget
	KindNonZeroExit   Kind = "non_zero_exit"  // Host execution reported failure
	KindLaunchFailure Kind = "launch_failure" // Process could not be started
	KindUnimplemented Kind = "unimplemented"  // pushd/popd
	KindCanceled      Kind = "canceled"       // Caller context canceled mid-execution
)

// Outcome is the normalized result of one command evaluation.
type Outcome struct {
	Message   string
	Succeeded bool
	// NewWorkingDirectory is set only by a successful directory change.
	NewWorkingDirectory string
	Kind                Kind
	ExitCode            int
}

// DirectoryChange returns the new working directory, if the outcome
// carries one.
func (o Outcome) DirectoryChange() (string, bool) {
	if !o.Succeeded || o.NewWorkingDirectory == "" {
		return "", false
	}
	return o.NewWorkingDirectory, true
}

func failure(kind Kind, message string) Outcome {
	return Outcome{Message: message, Succeeded: false, Kind: kind}
}
