package main

import "sort"

// topFilesLimit is the number of largest files kept per extension.
const topFilesLimit = 5

// aggregate reduces the flat record list into per-extension totals and rankings.
// Totals do not depend on record order; rankings are fully ordered by line count
// (descending) and then path, so equal counts rank the same on every run.
func aggregate(records []FileRecord) AggregateReport {
	report := AggregateReport{
		Totals:   make(map[string]int),
		Files:    make(map[string]int),
		TopFiles: make(map[string][]FileRecord),
	}

	byExtension := make(map[string][]FileRecord)
	for _, record := range records {
		report.Totals[record.Extension] += record.LineCount
		report.Files[record.Extension]++
		report.TotalLines += record.LineCount
		byExtension[record.Extension] = append(byExtension[record.Extension], record)
	}

	for ext, files := range byExtension {
		report.TopFiles[ext] = rankFiles(files, topFilesLimit)
	}
	return report
}

// rankFiles sorts files largest first and keeps at most limit of them.
func rankFiles(files []FileRecord, limit int) []FileRecord {
	sort.Slice(files, func(i, j int) bool {
		if files[i].LineCount != files[j].LineCount {
			return files[i].LineCount > files[j].LineCount
		}
		return files[i].Path < files[j].Path
	})
	if len(files) > limit {
		files = files[:limit:limit]
	}
	return files
}

// Extensions returns the report's extensions ordered by total lines (descending),
// then by name.
func (r AggregateReport) Extensions() []string {
	exts := make([]string, 0, len(r.Totals))
	for ext := range r.Totals {
		exts = append(exts, ext)
	}
	sort.Slice(exts, func(i, j int) bool {
		if r.Totals[exts[i]] != r.Totals[exts[j]] {
			return r.Totals[exts[i]] > r.Totals[exts[j]]
		}
		return exts[i] < exts[j]
	})
	return exts
}
