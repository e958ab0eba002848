// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package report

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/poiesic/semscan/anomaly"
	"github.com/poiesic/semscan/core"
)

// RenderMarkdown produces the human-readable report.
func RenderMarkdown(r *Report) string {
	var b strings.Builder

	b.WriteString("# Document Analysis Report\n\n")
	fmt.Fprintf(&b, "**Scanned:** %d files, %d statements\n", r.Statistics.TotalFiles, r.Statistics.TotalStatements)
	fmt.Fprintf(&b, "**Topics detected:** %d clusters\n", r.Clusters.NClusters)
	fmt.Fprintf(&b, "**Generated:** %s\n\n", r.GeneratedAt.Format("2006-01-02 15:04"))
	b.WriteString("---\n\n")

	writeStatistics(&b, r.Statistics)
	if r.Scoring != nil && len(r.Scoring.Anomalies) > 0 {
		writeAnomalies(&b, r)
	}
	if len(r.Pairs) > 0 {
		writePairs(&b, r)
	}
	writeSummary(&b, r.Summarize())

	return b.String()
}

func writeStatistics(b *strings.Builder, stats *core.Statistics) {
	b.WriteString("## Statistics\n\n")
	b.WriteString("### Topic Distribution\n\n")
	b.WriteString("| Cluster | Topic | Statements | Files | Density |\n")
	b.WriteString("|---------|-------|------------|-------|---------|\n")

	for _, id := range sortedClusterIDs(stats) {
		cs := stats.PerCluster[id]
		fmt.Fprintf(b, "| %d | %s | %d | %d | %.2f |\n", id, cs.Name, cs.Count, len(cs.Files), cs.Density)
	}

	b.WriteString("\n### File Coverage Matrix\n\n")
	ids := sortedClusterIDs(stats)
	if len(ids) > 0 {
		names := make([]string, len(ids))
		for i, id := range ids {
			names[i] = truncate(stats.PerCluster[id].Name, 12)
		}
		fmt.Fprintf(b, "| File | %s |\n", strings.Join(names, " | "))
		b.WriteString("|" + strings.Repeat("------|", len(ids)+1) + "\n")

		files := make([]string, 0, len(stats.Coverage))
		for file := range stats.Coverage {
			files = append(files, file)
		}
		sort.Strings(files)

		for _, file := range files {
			covered := make(map[int]bool)
			for _, id := range stats.Coverage[file] {
				covered[id] = true
			}
			cells := make([]string, len(ids))
			for i, id := range ids {
				if covered[id] {
					cells[i] = "✓"
				} else {
					cells[i] = "-"
				}
			}
			fmt.Fprintf(b, "| %s | %s |\n", truncate(filepath.Base(file), 30), strings.Join(cells, " | "))
		}
	}
	b.WriteString("\n")

	if len(stats.SimilarityHist) > 0 {
		writeHistogram(b, stats.SimilarityHist)
	}
}

// histogramWidth is the bar length given to the fullest histogram bin.
const histogramWidth = 40

func writeHistogram(b *strings.Builder, bins []core.HistogramBin) {
	b.WriteString("### Similarity Distribution\n\n")

	maxCount := 0
	for _, bin := range bins {
		if bin.Count > maxCount {
			maxCount = bin.Count
		}
	}
	if maxCount == 0 {
		maxCount = 1
	}

	b.WriteString("```\n")
	for _, bin := range bins {
		width := bin.Count * histogramWidth / maxCount
		fmt.Fprintf(b, "%s %s %d\n", bin.Label, strings.Repeat("#", width), bin.Count)
	}
	b.WriteString("```\n\n")
}

func writeAnomalies(b *strings.Builder, r *Report) {
	anomalies := r.Scoring.Anomalies
	fmt.Fprintf(b, "---\n\n## Anomalies (%d)\n\n", len(anomalies))

	for _, severity := range []core.Severity{core.SeverityHigh, core.SeverityMedium, core.SeverityLow} {
		var group []core.Anomaly
		for _, a := range anomalies {
			if anomaly.ClassifySeverity(a.Score, len(a.FlaggedBy)) == severity {
				group = append(group, a)
			}
		}
		if len(group) == 0 {
			continue
		}

		fmt.Fprintf(b, "### %s (%d)\n\n", titleCase(string(severity)), len(group))
		for _, a := range group {
			stmt := r.Statements[a.StatementIndex]
			fmt.Fprintf(b, "#### %d. Anomalous statement\n", a.Rank)
			fmt.Fprintf(b, "- **File:** %s:%d\n", filepath.Base(stmt.SourceFile), stmt.LineNumber)
			fmt.Fprintf(b, "  > \"%s\"\n", quote(stmt.Text))
			fmt.Fprintf(b, "- **Score:** %.3f\n", a.Score)
			fmt.Fprintf(b, "- **Cluster:** %d\n", a.ClusterID)
			fmt.Fprintf(b, "- **Reason:** %s\n\n", a.Reason)
		}
	}
}

func writePairs(b *strings.Builder, r *Report) {
	fmt.Fprintf(b, "---\n\n## Near-Duplicate Statements (%d)\n\n", len(r.Pairs))
	for i, p := range r.Pairs {
		a, c := r.Statements[p.IndexA], r.Statements[p.IndexB]
		fmt.Fprintf(b, "#### %d. Similarity %.2f\n", i+1, p.Similarity)
		fmt.Fprintf(b, "- **File A:** %s:%d\n", filepath.Base(a.SourceFile), a.LineNumber)
		fmt.Fprintf(b, "  > \"%s\"\n", quote(a.Text))
		fmt.Fprintf(b, "- **File B:** %s:%d\n", filepath.Base(c.SourceFile), c.LineNumber)
		fmt.Fprintf(b, "  > \"%s\"\n\n", quote(c.Text))
	}
}

func writeSummary(b *strings.Builder, s Summary) {
	b.WriteString("---\n\n## Summary\n\n")
	b.WriteString("| Category | Count | Action |\n")
	b.WriteString("|----------|-------|--------|\n")
	fmt.Fprintf(b, "| Anomalies | %d | Check if intentional |\n", s.Anomalies)
	fmt.Fprintf(b, "| High severity | %d | Immediate attention |\n", s.HighSeverity)
	fmt.Fprintf(b, "| Near-duplicates | %d | Consolidate |\n", s.DuplicatePairs)
	fmt.Fprintf(b, "| Topics | %d | - |\n\n", s.Clusters)
}

// sortedClusterIDs lists the real cluster labels in order, noise excluded.
func sortedClusterIDs(stats *core.Statistics) []int {
	var ids []int
	for id := range stats.PerCluster {
		if id >= 0 {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	return ids
}

func truncate(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	return text[:limit]
}

func quote(text string) string {
	if len(text) > 100 {
		return text[:100] + "..."
	}
	return text
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
