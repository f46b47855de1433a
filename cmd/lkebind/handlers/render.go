package handlers

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/schemaitat/lab/internal/binding"
	"github.com/schemaitat/lab/internal/provider"
	"github.com/schemaitat/lab/internal/teardown"
)

var (
	colorGreen  = lipgloss.Color("#22c55e")
	colorRed    = lipgloss.Color("#ef4444")
	colorYellow = lipgloss.Color("#eab308")
	colorBlue   = lipgloss.Color("#3b82f6")
	colorDim    = lipgloss.Color("#6b7280")
	colorWhite  = lipgloss.Color("#f9fafb")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorWhite)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorBlue)

	dimStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	greenStyle = lipgloss.NewStyle().
			Foreground(colorGreen)

	redStyle = lipgloss.NewStyle().
			Foreground(colorRed)

	yellowStyle = lipgloss.NewStyle().
			Foreground(colorYellow)
)

func rule(n int) string {
	return dimStyle.Render("  " + strings.Repeat("─", n))
}

// renderBindResult produces a lipgloss-styled summary of a bind run.
func renderBindResult(r *binding.Result) string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(titleStyle.Render(fmt.Sprintf("  lkebind bind: load balancer %s", r.LoadBalancerID)))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("  " + strings.Repeat("═", 40)))
	b.WriteString("\n\n")

	renderBindings(&b, "Added", greenStyle.Render("+"), r.Added)
	renderBindings(&b, "Removed", redStyle.Render("-"), r.Removed)

	if len(r.Failed) > 0 {
		b.WriteString(sectionStyle.Render("  Failed"))
		b.WriteString("\n")
		b.WriteString(rule(50))
		b.WriteString("\n")
		for _, f := range r.Failed {
			fmt.Fprintf(&b, "  %s %-6s %5d  %-22s %s\n",
				redStyle.Render("✗"), f.Action, f.Binding.ListenPort, f.Binding.Endpoint(), dimStyle.Render(f.Cause))
		}
		b.WriteString("\n")
	}

	switch {
	case len(r.Failed) > 0:
		b.WriteString(redStyle.Render(fmt.Sprintf("  %d of %d operations failed", len(r.Failed), len(r.Added)+len(r.Removed)+len(r.Failed))))
	case !r.Changed():
		b.WriteString(greenStyle.Render(fmt.Sprintf("  In sync: %d backends unchanged", len(r.Skipped))))
	default:
		b.WriteString(greenStyle.Render(fmt.Sprintf("  Reconciled: %d added, %d removed, %d unchanged", len(r.Added), len(r.Removed), len(r.Skipped))))
	}
	b.WriteString("\n")

	return b.String()
}

func renderBindings(b *strings.Builder, title, marker string, bindings []binding.Binding) {
	if len(bindings) == 0 {
		return
	}
	b.WriteString(sectionStyle.Render("  " + title))
	b.WriteString("\n")
	b.WriteString(rule(50))
	b.WriteString("\n")
	for _, bd := range bindings {
		note := ""
		if bd.AlreadyAbsent {
			note = dimStyle.Render("(already absent)")
		}
		fmt.Fprintf(b, "  %s %5d  %-22s %-24s %s\n", marker, bd.ListenPort, bd.Endpoint(), bd.Label, note)
	}
	b.WriteString("\n")
}

// renderCleanupReport produces a lipgloss-styled summary of a cleanup run.
func renderCleanupReport(r *teardown.Report) string {
	var b strings.Builder

	b.WriteString("\n")
	title := fmt.Sprintf("  lkebind cleanup: cluster %s (pattern %q)", r.ClusterID, r.Pattern)
	if r.DryRun {
		title += " [dry run]"
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("  " + strings.Repeat("═", 40)))
	b.WriteString("\n")

	for _, k := range r.Kinds {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render(fmt.Sprintf("  %s", k.Kind)))
		b.WriteString(dimStyle.Render(fmt.Sprintf("  policy=%s status=%s listed=%d", k.Policy, k.Status, k.Listed)))
		b.WriteString("\n")
		b.WriteString(rule(50))
		b.WriteString("\n")

		if k.Status == teardown.StatusListFailed {
			fmt.Fprintf(&b, "  %s %s\n", redStyle.Render("✗ list failed:"), k.Cause)
			continue
		}
		for _, m := range k.Matches {
			fmt.Fprintf(&b, "  %s %-28s %-12s %s\n", outcomeMarker(m.Outcome), m.Resource.Label, m.Resource.ID, formatOutcome(m))
		}
		for _, res := range k.Unclassified {
			fmt.Fprintf(&b, "  %s %-28s %-12s %s\n", yellowStyle.Render("?"), "(no label)", res.ID, yellowStyle.Render("unclassified"))
		}
		if len(k.Matches) == 0 && len(k.Unclassified) == 0 {
			b.WriteString(dimStyle.Render("  no matches"))
			b.WriteString("\n")
		}
	}

	if len(r.Caveats) > 0 {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render("  Caveats"))
		b.WriteString("\n")
		for _, c := range r.Caveats {
			fmt.Fprintf(&b, "  %s %s\n", yellowStyle.Render("!"), c)
		}
	}
	b.WriteString("\n")

	return b.String()
}

func outcomeMarker(o teardown.Outcome) string {
	switch o {
	case teardown.OutcomeDeleted, teardown.OutcomeAlreadyAbsent:
		return greenStyle.Render("✓")
	case teardown.OutcomeFailed:
		return redStyle.Render("✗")
	case teardown.OutcomeReview:
		return yellowStyle.Render("•")
	default:
		return dimStyle.Render("·")
	}
}

func formatOutcome(m teardown.Match) string {
	if m.Outcome == teardown.OutcomeFailed {
		return redStyle.Render(string(m.Outcome) + ": " + m.Cause)
	}
	return string(m.Outcome)
}

// renderNodes lists a cluster's nodes and the address bind would use.
func renderNodes(cluster *provider.Cluster, clusterID string, nodes []provider.Node) string {
	var b strings.Builder

	b.WriteString("\n")
	title := fmt.Sprintf("  lkebind discover: cluster %s", clusterID)
	if cluster != nil && cluster.Label != "" && cluster.Label != clusterID {
		title += fmt.Sprintf(" (%s, %s)", cluster.Label, cluster.Region)
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")
	b.WriteString(rule(70))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("  %-12s %-28s %-10s %-16s %s", "ID", "Label", "Pool", "Address", "Ready")))
	b.WriteString("\n")

	ready := 0
	for _, n := range nodes {
		state := redStyle.Render("no")
		if n.Ready {
			state = greenStyle.Render("yes")
			ready++
		}
		fmt.Fprintf(&b, "  %-12s %-28s %-10s %-16s %s\n", n.ID, n.Label, n.PoolID, n.Address, state)
	}
	b.WriteString(rule(70))
	b.WriteString("\n")
	fmt.Fprintf(&b, "  %d of %d nodes ready\n", ready, len(nodes))

	return b.String()
}
