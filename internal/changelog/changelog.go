// Package changelog renders a human-reviewable changelog from generated
// per-version artifacts: a unified diff of the canonical schema and route
// text between each pair of adjacent versions.
package changelog

import (
	"fmt"
	"strings"

	"github.com/rpattn/verge/internal/domain"
)

// CanonicalText flattens one version's schemas and routes into a
// deterministic set of lines suitable for diffing.
func CanonicalText(key domain.VersionKey, schemas []domain.SchemaDefinition, routes []domain.Endpoint) []string {
	lines := []string{fmt.Sprintf("Version: %s", key)}

	for _, schema := range schemas {
		lines = append(lines, fmt.Sprintf("Schema %s:", schema.Name))
		for _, field := range schema.Fields {
			lines = append(lines, "  "+canonicalField(field))
		}
	}

	lines = append(lines, "Routes:")
	if len(routes) == 0 {
		lines = append(lines, "  (none)")
		return lines
	}
	for _, endpoint := range routes {
		lines = append(lines, "  "+canonicalEndpoint(endpoint))
	}
	return lines
}

// Build produces the full changelog for a chain, newest link first. Output
// is fully determined by the inputs so the file can be committed and diffed.
func Build(
	chain *domain.VersionChain,
	schemasByVersion map[domain.VersionKey][]domain.SchemaDefinition,
	routesByVersion map[domain.VersionKey][]domain.Endpoint,
) string {
	var b strings.Builder
	b.WriteString("# API version changelog\n")
	b.WriteString("\nGenerated from the version chain; do not edit by hand.\n")

	versions := chain.Versions()
	for i := len(versions) - 1; i >= 1; i-- {
		newer := versions[i]
		older := versions[i-1]

		newerText := strings.Join(CanonicalText(newer.Key, schemasByVersion[newer.Key], routesByVersion[newer.Key]), "\n") + "\n"
		olderText := strings.Join(CanonicalText(older.Key, schemasByVersion[older.Key], routesByVersion[older.Key]), "\n") + "\n"

		fmt.Fprintf(&b, "\n## %s -> %s\n\n", older.Key, newer.Key)
		for _, change := range newer.Changes {
			fmt.Fprintf(&b, "- %s", change.Name)
			if change.Description != "" {
				fmt.Fprintf(&b, ": %s", change.Description)
			}
			if change.Lossy {
				b.WriteString(" (lossy)")
			}
			b.WriteString("\n")
		}
		if len(newer.Changes) > 0 {
			b.WriteString("\n")
		}
		b.WriteString("```diff\n")
		b.WriteString(buildUnifiedDiff(string(older.Key), string(newer.Key), olderText, newerText))
		b.WriteString("```\n")
	}

	return b.String()
}

func canonicalField(field domain.FieldDefinition) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", field.Name, field.Type)
	if field.Required {
		b.WriteString(" required")
	}
	if field.Default.Set {
		fmt.Fprintf(&b, " default=%v", field.Default.Value)
	}
	return b.String()
}

func canonicalEndpoint(endpoint domain.Endpoint) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s", endpoint.Method, endpoint.Path)
	if endpoint.SuccessStatus != 0 {
		fmt.Fprintf(&b, " -> %d", endpoint.SuccessStatus)
	}
	if endpoint.ResponseSchema != "" {
		fmt.Fprintf(&b, " %s", endpoint.ResponseSchema)
	}
	if endpoint.Deprecated {
		b.WriteString(" deprecated")
	}
	return b.String()
}

type diffOp struct {
	prefix string
	line   string
}

func buildUnifiedDiff(baseLabel, targetLabel, baseContent, targetContent string) string {
	baseLines := splitLines(baseContent)
	targetLines := splitLines(targetContent)

	ops := diffLines(baseLines, targetLines)

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("--- %s\n", baseLabel))
	builder.WriteString(fmt.Sprintf("+++ %s\n", targetLabel))
	for _, operation := range ops {
		builder.WriteString(operation.prefix)
		builder.WriteString(operation.line)
		builder.WriteString("\n")
	}

	return builder.String()
}

func splitLines(input string) []string {
	lines := strings.Split(input, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// diffLines computes a longest-common-subsequence line diff.
func diffLines(base, target []string) []diffOp {
	m := len(base)
	n := len(target)
	dp := make([][]int, m+1)
	for i := range dp {
		dp[i] = make([]int, n+1)
	}

	for i := m - 1; i >= 0; i-- {
		for j := n - 1; j >= 0; j-- {
			if base[i] == target[j] {
				dp[i][j] = dp[i+1][j+1] + 1
			} else if dp[i+1][j] >= dp[i][j+1] {
				dp[i][j] = dp[i+1][j]
			} else {
				dp[i][j] = dp[i][j+1]
			}
		}
	}

	ops := make([]diffOp, 0, m+n)
	i, j := 0, 0
	for i < m && j < n {
		if base[i] == target[j] {
			ops = append(ops, diffOp{prefix: " ", line: base[i]})
			i++
			j++
			continue
		}

		if dp[i+1][j] >= dp[i][j+1] {
			ops = append(ops, diffOp{prefix: "-", line: base[i]})
			i++
		} else {
			ops = append(ops, diffOp{prefix: "+", line: target[j]})
			j++
		}
	}

	for i < m {
		ops = append(ops, diffOp{prefix: "-", line: base[i]})
		i++
	}

	for j < n {
		ops = append(ops, diffOp{prefix: "+", line: target[j]})
		j++
	}

	return ops
}
