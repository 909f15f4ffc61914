package main

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"regbet/internal/workflow"
)

var outcomeTitler = cases.Title(language.English)

// outcomeLabel turns the manifest spelling of an outcome into a display
// label, e.g. "failed_registration" -> "Failed Registration".
func outcomeLabel(outcome workflow.Outcome) string {
	return outcomeTitler.String(strings.ReplaceAll(outcome.String(), "_", " "))
}

func renderSummary(writer io.Writer, result *workflow.BatchResult) {
	rows := make([][]string, 0, len(result.Cases))
	for i, c := range result.Cases {
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			c.Item.Name,
			outcomeLabel(c.Outcome),
			c.Detail,
		})
	}
	fmt.Fprintln(writer, renderTable(
		[]string{"#", "Case", "Outcome", "Detail"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft},
	))
	fmt.Fprintf(writer, "Completed %d/%d cases.\n", result.Completed(), result.Total())
}
