package types

// Config represents the application configuration that can be loaded from a file.
type Config struct {
	Inputs        []string `json:"inputs" yaml:"inputs" toml:"inputs"`
	Mode          string   `json:"mode" yaml:"mode" toml:"mode"`
	Concurrency   int      `json:"concurrency" yaml:"concurrency" toml:"concurrency"`
	ModelURL      string   `json:"model_url" yaml:"model_url" toml:"model_url"`
	ModelName     string   `json:"model_name" yaml:"model_name" toml:"model_name"`
	ModelTimeout  int      `json:"model_timeout" yaml:"model_timeout" toml:"model_timeout"`
	ProbeModel    bool     `json:"probe_model" yaml:"probe_model" toml:"probe_model"`
	ReportName    string   `json:"report_name" yaml:"report_name" toml:"report_name"`
	ReportType    []string `json:"report_type" yaml:"report_type" toml:"report_type"`
	Dir           string   `json:"dir" yaml:"dir" toml:"dir"`
	Upload        string   `json:"upload" yaml:"upload" toml:"upload"`
	AuditLogGroup string   `json:"audit_log_group" yaml:"audit_log_group" toml:"audit_log_group"`
	Profile       string   `json:"profile" yaml:"profile" toml:"profile"`
	Region        string   `json:"region" yaml:"region" toml:"region"`
	LogLevel      string   `json:"log_level" yaml:"log_level" toml:"log_level"`
}
