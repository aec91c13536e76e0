package analysis

import (
	"fmt"
	"strings"

	"clarity/internal/domain/models/insight"
)

// RenderReport renders AggregatedInsights into the section-ordered text
// report: header, executive summary, then one section per present
// insight, then footer. Pure and deterministic - the same value always
// renders to the same bytes, and absent sections are omitted rather
// than rendered as empty headers.
func RenderReport(agg *insight.AggregatedInsights) string {
	var sb strings.Builder

	renderHeader(&sb, agg)
	renderExecutiveSummary(&sb, agg)

	if oh := agg.OrganizationalHealth; oh != nil {
		renderOrganizationalHealth(&sb, oh)
	}
	if fb := agg.FlowAndBottlenecks; fb != nil {
		renderFlowAndBottlenecks(&sb, fb)
	}
	if wd := agg.WorkloadDistribution; wd != nil {
		renderWorkloadDistribution(&sb, wd)
	}

	renderFooter(&sb, agg)
	return sb.String()
}

func renderHeader(sb *strings.Builder, agg *insight.AggregatedInsights) {
	sb.WriteString("# GTD Hierarchy Analysis\n\n")
	fmt.Fprintf(sb, "Scope: %s\n", agg.Scope)
	if agg.RootName != "" {
		fmt.Fprintf(sb, "Root: %s\n", agg.RootName)
	}
	fmt.Fprintf(sb, "Generated: %s\n", agg.GeneratedAt.UTC().Format("2006-01-02 15:04:05 UTC"))
	fmt.Fprintf(sb, "Folders: %d | Projects: %d | Tasks: %d\n\n",
		agg.TotalFolders, agg.TotalProjects, agg.TotalTasks)
}

func renderExecutiveSummary(sb *strings.Builder, agg *insight.AggregatedInsights) {
	sb.WriteString("## Executive Summary\n\n")

	if agg.Empty() {
		if agg.TotalFolders == 0 && agg.TotalProjects == 0 && agg.TotalTasks == 0 {
			sb.WriteString("Nothing to analyze: the selected scope contains no data.\n\n")
		} else {
			sb.WriteString("No analysis results are available for this run.\n\n")
		}
		return
	}

	fmt.Fprintf(sb, "GTD alignment score: %.1f / 10\n", agg.GTDAlignmentScore)
	if len(agg.Failures) > 0 {
		fmt.Fprintf(sb, "Note: %d of the analysis batches failed; sections below state their coverage.\n", len(agg.Failures))
	}
	sb.WriteString("\n")
}

func renderCoverage(sb *strings.Builder, c insight.Coverage) {
	if c.Complete() {
		fmt.Fprintf(sb, "Coverage: complete (%d/%d batches)\n\n", c.Succeeded, c.Total)
	} else {
		fmt.Fprintf(sb, "Coverage: partial (%d/%d batches)\n\n", c.Succeeded, c.Total)
	}
}

func renderList(sb *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(sb, "%s:\n", title)
	for _, item := range items {
		fmt.Fprintf(sb, "- %s\n", item)
	}
	sb.WriteString("\n")
}

func renderOrganizationalHealth(sb *strings.Builder, oh *insight.OrganizationalHealth) {
	sb.WriteString("## Organizational Health\n\n")
	fmt.Fprintf(sb, "Health score: %.1f / 10\n", oh.HealthScore)
	renderCoverage(sb, oh.Coverage)
	renderList(sb, "Strengths", oh.Strengths)
	renderList(sb, "Weaknesses", oh.Weaknesses)
	renderList(sb, "Recommendations", oh.Recommendations)
	if len(oh.FolderNotes) > 0 {
		sb.WriteString("Folder notes:\n")
		for _, note := range oh.FolderNotes {
			fmt.Fprintf(sb, "- %s: %s\n", note.Name, note.Note)
		}
		sb.WriteString("\n")
	}
}

func renderFlowAndBottlenecks(sb *strings.Builder, fb *insight.FlowAndBottlenecks) {
	sb.WriteString("## Flow & Bottlenecks\n\n")
	fmt.Fprintf(sb, "Healthy projects: %d | Stalled projects: %d\n", fb.HealthyProjects, fb.StalledProjects)
	renderCoverage(sb, fb.Coverage)
	renderList(sb, "Bottlenecks", fb.Bottlenecks)
	renderList(sb, "Priority projects", fb.PriorityProjects)
}

func renderWorkloadDistribution(sb *strings.Builder, wd *insight.WorkloadDistribution) {
	sb.WriteString("## Workload Distribution\n\n")
	fmt.Fprintf(sb, "Overloaded projects: %d | Manageable projects: %d\n", wd.OverloadedProjects, wd.ManageableProjects)
	renderCoverage(sb, wd.Coverage)
	renderList(sb, "Quality issues", wd.QualityIssues)
	renderList(sb, "Next actions", wd.NextActions)
}

func renderFooter(sb *strings.Builder, agg *insight.AggregatedInsights) {
	sb.WriteString("---\n")
	if len(agg.Failures) > 0 {
		fmt.Fprintf(sb, "Failed batches: %d\n", len(agg.Failures))
		for _, f := range agg.Failures {
			fmt.Fprintf(sb, "- %s batch %d: %s\n", f.Level, f.Seq, f.Message)
		}
	}
	sb.WriteString("Generated by clarity\n")
}
