package analysis

import (
	"fmt"
	"strings"

	"github.com/jildai/skin-analyzer/pkg/types"
)

const reportDisclaimer = "*This report provides general skincare guidance only. " +
	"For medical concerns, please consult a licensed dermatologist.*"

// RenderReport produces the downloadable markdown document for one
// analysis result. Failures render as a short error notice so the report
// is always well-formed.
func RenderReport(result types.AnalysisResult) string {
	var b strings.Builder

	b.WriteString("# Skin Analysis Report\n\n")

	if result.OK() {
		b.WriteString(result.Analysis)
		b.WriteString("\n\n---\n\n")
		b.WriteString(reportDisclaimer)
	} else {
		fmt.Fprintf(&b, "Analysis failed: %s\n", result.Err)
	}

	b.WriteString("\n")
	return b.String()
}
