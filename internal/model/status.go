package model

// TransferState represents the position of a download in its lifecycle
type TransferState string

const (
	// TransferStateIdle means the request was accepted but nothing has run yet
	TransferStateIdle TransferState = "Idle"

	// TransferStateCapabilityChecked means the transcoder precondition passed (audio only)
	TransferStateCapabilityChecked TransferState = "CapabilityChecked"

	// TransferStateDirectoryEnsured means the destination directory exists
	TransferStateDirectoryEnsured TransferState = "DirectoryEnsured"

	// TransferStateTransferring means the fetch tool is running
	TransferStateTransferring TransferState = "Transferring"

	// TransferStateSucceeded means the file is on disk at the reported path
	TransferStateSucceeded TransferState = "Succeeded"

	// TransferStateFailed means the download failed with a classified error
	TransferStateFailed TransferState = "Failed"

	// TransferStateCancelled means the caller cancelled the download
	TransferStateCancelled TransferState = "Cancelled"
)

// String returns the string representation of TransferState
func (ts TransferState) String() string {
	return string(ts)
}

// IsFinished returns true if the download reached a terminal state
func (ts TransferState) IsFinished() bool {
	return ts == TransferStateSucceeded || ts == TransferStateFailed || ts == TransferStateCancelled
}
