package main

// FileRecord holds the measurement of one counted file.
type FileRecord struct {
	Path      string `json:"path" yaml:"path" toml:"path"`
	LineCount int    `json:"line_count" yaml:"line_count" toml:"line_count"`
	Extension string `json:"extension" yaml:"extension" toml:"extension"`
}

// AggregateReport holds per-extension totals and the largest files for each extension.
type AggregateReport struct {
	Totals     map[string]int          `json:"totals" yaml:"totals" toml:"totals"`
	Files      map[string]int          `json:"files" yaml:"files" toml:"files"` // Number of records per extension
	TopFiles   map[string][]FileRecord `json:"top_files" yaml:"top_files" toml:"top_files"`
	TotalLines int                     `json:"total_lines" yaml:"total_lines" toml:"total_lines"`
}
