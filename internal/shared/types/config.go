package types

// Config represents the application configuration that can be loaded from a file.
type Config struct {
	APIURL         string   `json:"api_url" yaml:"api_url" toml:"api_url"`
	AccessToken    string   `json:"access_token" yaml:"access_token" toml:"access_token"`
	RefreshToken   string   `json:"refresh_token" yaml:"refresh_token" toml:"refresh_token"`
	TimeoutSeconds int      `json:"timeout_seconds" yaml:"timeout_seconds" toml:"timeout_seconds"`
	MonthOffset    int      `json:"month_offset" yaml:"month_offset" toml:"month_offset"`
	MonthsPerPage  int      `json:"months_per_page" yaml:"months_per_page" toml:"months_per_page"`
	Pages          int      `json:"pages" yaml:"pages" toml:"pages"`
	SnapshotDB     string   `json:"snapshot_db" yaml:"snapshot_db" toml:"snapshot_db"`
	ReportName     string   `json:"report_name" yaml:"report_name" toml:"report_name"`
	ReportType     []string `json:"report_type" yaml:"report_type" toml:"report_type"`
	Dir            string   `json:"dir" yaml:"dir" toml:"dir"`
	S3Bucket       string   `json:"s3_bucket" yaml:"s3_bucket" toml:"s3_bucket"`
	S3Prefix       string   `json:"s3_prefix" yaml:"s3_prefix" toml:"s3_prefix"`
	AWSProfile     string   `json:"aws_profile" yaml:"aws_profile" toml:"aws_profile"`
}

// Defaults used when neither the config file nor the flags set a value.
const (
	DefaultMonthOffset    = 6
	DefaultMonthsPerPage  = 3
	DefaultTimeoutSeconds = 30
)
