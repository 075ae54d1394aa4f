package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"qcsim/adapters/observables"
	"qcsim/domain/run"
)

// Version is stamped into manifests produced by this surface
const Version = "qcsim/0.3.0"

// RenderReport builds a human-readable run report and renders it to HTML
func RenderReport(manifest *run.Manifest, points []run.TrajectoryPoint) []byte {
	md := reportMarkdown(manifest, points)

	p := parser.NewWithExtensions(parser.CommonExtensions | parser.Tables)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return markdown.ToHTML([]byte(md), p, renderer)
}

func reportMarkdown(manifest *run.Manifest, points []run.TrajectoryPoint) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Run %s\n\n", manifest.RunID)
	fmt.Fprintf(&b, "- Ring size: %d\n", manifest.RingSize)
	fmt.Fprintf(&b, "- Steps: %d\n", manifest.Steps)
	fmt.Fprintf(&b, "- Code version: %s\n", manifest.CodeVersion)
	fmt.Fprintf(&b, "- Fingerprint: `%s`\n", manifest.Fingerprint)
	fmt.Fprintf(&b, "- Created: %s\n\n", manifest.CreatedAt)

	b.WriteString("## Seeds\n\n")
	b.WriteString("| Stream | Seed |\n|---|---|\n")
	names := make([]string, 0, len(manifest.Seeds))
	for name := range manifest.Seeds {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(&b, "| %s | %d |\n", name, manifest.Seeds[name])
	}

	b.WriteString("\n## Trajectory\n\n")
	applied := run.CountApplied(points)
	fmt.Fprintf(&b, "- Recorded steps: %d\n", len(points))
	fmt.Fprintf(&b, "- Applied gates: %d\n", applied)
	if len(points) > 0 {
		mean, stddev := observables.TrajectorySummary(run.Observables(points))
		fmt.Fprintf(&b, "- Observable mean: %.6f\n", mean)
		fmt.Fprintf(&b, "- Observable stddev: %.6f\n", stddev)
		fmt.Fprintf(&b, "- Final observable: %.6f\n", points[len(points)-1].Observable)
	}

	return b.String()
}
