package domain

// FileStatus represents the outcome of running a recipe on one file.
type FileStatus string

const (
	// FileStatusChanged indicates the recipe rewrote the file.
	FileStatusChanged FileStatus = "changed"
	// FileStatusUnchanged indicates no recipe matched, or every match declined.
	FileStatusUnchanged FileStatus = "unchanged"
	// FileStatusFailed indicates the file could not be read, parsed or written.
	FileStatusFailed FileStatus = "failed"
)
