package types

// Scoring modes.
const (
	// ModeBatch scores every client in a single call; scaling statistics span all clients.
	ModeBatch = "batch"
	// ModeIsolated scores each client in its own call with its own statistics.
	ModeIsolated = "isolated"
)

// CLIArgs represents the command-line arguments.
type CLIArgs struct {
	ConfigFile    string
	Inputs        []string
	Mode          string
	Concurrency   int
	ModelURL      string
	ModelName     string
	ModelTimeout  int
	ProbeModel    bool
	ReportName    string
	ReportType    []string
	Dir           string
	Upload        string
	AuditLogGroup string
	Profile       string
	Region        string
	LogLevel      string
}

// Merge fills every field the user did not set on the command line with the value
// from the config file. changed reports whether a flag was given explicitly.
func (a *CLIArgs) Merge(cfg *Config, changed func(flag string) bool) {
	if cfg == nil {
		return
	}
	if !changed("input") && len(cfg.Inputs) > 0 {
		a.Inputs = cfg.Inputs
	}
	if !changed("mode") && cfg.Mode != "" {
		a.Mode = cfg.Mode
	}
	if !changed("concurrency") && cfg.Concurrency > 0 {
		a.Concurrency = cfg.Concurrency
	}
	if !changed("model-url") && cfg.ModelURL != "" {
		a.ModelURL = cfg.ModelURL
	}
	if !changed("model-name") && cfg.ModelName != "" {
		a.ModelName = cfg.ModelName
	}
	if !changed("model-timeout") && cfg.ModelTimeout > 0 {
		a.ModelTimeout = cfg.ModelTimeout
	}
	if !changed("probe-model") && cfg.ProbeModel {
		a.ProbeModel = true
	}
	if !changed("report-name") && cfg.ReportName != "" {
		a.ReportName = cfg.ReportName
	}
	if !changed("report-type") && len(cfg.ReportType) > 0 {
		a.ReportType = cfg.ReportType
	}
	if !changed("dir") && cfg.Dir != "" {
		a.Dir = cfg.Dir
	}
	if !changed("upload") && cfg.Upload != "" {
		a.Upload = cfg.Upload
	}
	if !changed("audit-log-group") && cfg.AuditLogGroup != "" {
		a.AuditLogGroup = cfg.AuditLogGroup
	}
	if !changed("profile") && cfg.Profile != "" {
		a.Profile = cfg.Profile
	}
	if !changed("region") && cfg.Region != "" {
		a.Region = cfg.Region
	}
	if !changed("log-level") && cfg.LogLevel != "" {
		a.LogLevel = cfg.LogLevel
	}
}
