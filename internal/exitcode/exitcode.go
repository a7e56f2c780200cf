package exitcode

const (
	Success         = 0
	UsageError      = 1
	ValidationError = 2 // malformed codes, bad config or map files
	DBConnError     = 3
	CopyError       = 4
	TransformError  = 5
	PartialSuccess  = 6 // output written, some inputs rejected
	BuildError      = 7 // tabular list could not be turned into a table
)
