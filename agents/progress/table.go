/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package progress

import (
	"fmt"
	"io"
	"strings"
	"time"

	"chainguard.dev/blogcrew/agents/metrics"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
)

// createStandardTable creates a table writer with the formatting shared by
// every summary table.
func createStandardTable(headers []string, w io.Writer) *tablewriter.Table {
	cfg := tablewriter.Config{
		Header: tw.CellConfig{
			Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			Formatting: tw.CellFormatting{AutoFormat: tw.Off},
		},
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignLeft},
		},
		MaxWidth: 100,
		Behavior: tw.Behavior{TrimSpace: tw.Off},
	}
	return tablewriter.NewTable(w,
		tablewriter.WithConfig(cfg),
		tablewriter.WithHeader(headers),
		tablewriter.WithRenderer(renderer.NewBlueprint()),
		tablewriter.WithRendition(tw.Rendition{
			Symbols: tw.NewSymbols(tw.StyleMarkdown),
			Borders: tw.Border{
				Left:   tw.On,
				Top:    tw.Off,
				Right:  tw.On,
				Bottom: tw.Off,
			},
		}),
		tablewriter.WithRowAutoWrap(tw.WrapNone),
	)
}

// WriteStatus renders s as a header line followed by an agent table.
func WriteStatus(w io.Writer, s Summary, now time.Time) error {
	fmt.Fprintf(w, "Run %s: %s %.1f%% in %s", s.RunID, strings.ToUpper(string(s.Stage)), s.Progress, s.Duration.Round(time.Millisecond))
	if s.RevisionCount > 0 {
		fmt.Fprintf(w, " (revisions %d/%d)", s.RevisionCount, s.MaxRevisions)
	}
	fmt.Fprintln(w)

	table := createStandardTable([]string{"Agent", "Status", "Task", "Progress", "Duration", "Error"}, w)
	for _, a := range s.Agents {
		_ = table.Append([]string{
			string(a.Agent),
			string(a.Status),
			a.Task,
			fmt.Sprintf("%.0f%%", a.Progress),
			a.Duration(now).Round(time.Millisecond).String(),
			a.Error,
		})
	}
	return table.Render()
}

// UsageRow is one run's usage line in a usage table.
type UsageRow struct {
	Topic string
	Usage metrics.Usage
	Final metrics.Final
}

// WriteUsage renders one row per run with call counts and final metrics.
func WriteUsage(w io.Writer, rows []UsageRow) error {
	table := createStandardTable([]string{
		"Topic", "Research", "Writing", "Critique", "API Calls", "Tokens", "Revisions", "Quality", "Seconds", "Efficiency",
	}, w)
	for _, r := range rows {
		_ = table.Append([]string{
			r.Topic,
			fmt.Sprint(r.Usage.ResearchCalls),
			fmt.Sprint(r.Usage.WritingCalls),
			fmt.Sprint(r.Usage.CritiqueCalls),
			fmt.Sprint(r.Usage.APICalls),
			fmt.Sprint(r.Usage.TotalTokens),
			fmt.Sprint(r.Usage.RevisionCycles),
			fmt.Sprintf("%.1f", r.Final.QualityScore),
			fmt.Sprintf("%.1f", r.Final.ProcessingTime),
			fmt.Sprintf("%.2f", r.Final.EfficiencyScore),
		})
	}
	return table.Render()
}
