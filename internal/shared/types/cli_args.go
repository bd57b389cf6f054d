package types

// CLIArgs represents the command-line arguments.
type CLIArgs struct {
	ConfigFile      string
	APIURL          string
	MonthOffset     int
	MonthsPerPage   int
	Pages           int
	ReportName      string
	ReportType      []string
	Dir             string
	Bars            bool
	OfflineFallback bool
	SnapshotDB      string
	S3Bucket        string
	S3Prefix        string
	AWSProfile      string
	Debug           bool
}

// ProjectionArgs are the arguments of the "projection set" command.
type ProjectionArgs struct {
	Concept string
	Month   string
	Amount  string
}

// TransactionArgs are the arguments of the "transactions" command.
type TransactionArgs struct {
	AccountID int64
	ConceptID int64
	MonthID   int64
	Page      int
	PageSize  int
	All       bool
}
