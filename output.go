package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
	formatTOML  = "toml"
)

// renderReport encodes the report in the requested output format.
func renderReport(report AggregateReport, format string, colorize bool) (string, error) {
	switch strings.ToLower(format) {
	case "", formatTable:
		return renderTable(report, colorize), nil
	case formatJSON:
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return "", fmt.Errorf("error encoding JSON report: %w", err)
		}
		return string(data) + "\n", nil
	case formatYAML:
		data, err := yaml.Marshal(report)
		if err != nil {
			return "", fmt.Errorf("error encoding YAML report: %w", err)
		}
		return string(data), nil
	case formatTOML:
		data, err := toml.Marshal(report)
		if err != nil {
			return "", fmt.Errorf("error encoding TOML report: %w", err)
		}
		return string(data), nil
	default:
		return "", fmt.Errorf("unsupported output format: %s. Use 'table', 'json', 'yaml' or 'toml'", format)
	}
}

// renderTable generates the totals table followed by the largest files of each extension.
func renderTable(report AggregateReport, colorize bool) string {
	var builder strings.Builder
	heading := func(s string) string {
		if !colorize {
			return s
		}
		c := color.New(color.Bold)
		c.EnableColor()
		return c.Sprint(s)
	}

	exts := report.Extensions()

	builder.WriteString(heading(fmt.Sprintf("%-10s | %-10s | %-8s | %s", "Extension", "Language", "Files", "Line Count")))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", 50))
	builder.WriteString("\n")
	for _, ext := range exts {
		builder.WriteString(fmt.Sprintf("%-10s | %-10s | %-8s | %s\n",
			ext, languageName(ext), humanize.Comma(int64(report.Files[ext])), humanize.Comma(int64(report.Totals[ext]))))
	}
	builder.WriteString(strings.Repeat("-", 50))
	builder.WriteString("\n")
	builder.WriteString(fmt.Sprintf("%-10s | %-10s | %-8s | %s\n",
		"Total", "", humanize.Comma(int64(countFiles(report))), humanize.Comma(int64(report.TotalLines))))

	for _, ext := range exts {
		builder.WriteString("\n")
		builder.WriteString(heading(fmt.Sprintf("Top %d biggest files for extension: %s", topFilesLimit, ext)))
		builder.WriteString("\n")
		builder.WriteString(fmt.Sprintf("%-10s | %-10s | %s\n", "Extension", "Line Count", "Path"))
		builder.WriteString(strings.Repeat("-", 50))
		builder.WriteString("\n")
		for _, file := range report.TopFiles[ext] {
			builder.WriteString(fmt.Sprintf("%-10s | %-10s | %s\n", file.Extension, humanize.Comma(int64(file.LineCount)), file.Path))
		}
	}
	return builder.String()
}

func countFiles(report AggregateReport) int {
	var n int
	for _, count := range report.Files {
		n += count
	}
	return n
}
