package ai

import (
	"fmt"
	"strings"
)

const systemPrompt = "You are an organizational knowledge-transfer analyst. " +
	"Assess the risk that institutional knowledge is lost when an employee leaves, " +
	"based on the state of their handover. " +
	"Always respond with valid JSON wrapped in ```json and ``` markers."

const maxDocumentSnippet = 2000

// buildAssessmentPrompt renders the handover summary the model assesses.
func buildAssessmentPrompt(hc HandoverContext) string {
	var b strings.Builder

	h := hc.Handover
	fmt.Fprintf(&b, "Assess the knowledge-loss risk for this employee handover:\n\n")
	fmt.Fprintf(&b, "**Handover:**\n")
	fmt.Fprintf(&b, "- Exiting employee: %s\n", orUnknown(h.ExitingEmployeeName))
	fmt.Fprintf(&b, "- Department: %s\n", orUnknown(h.Department))
	fmt.Fprintf(&b, "- Status: %s\n", h.Status)
	fmt.Fprintf(&b, "- Progress: %d%% (%d of %d tasks complete)\n", h.Progress, h.CompletedTasks, h.TaskCount)
	if h.HasSuccessor() {
		fmt.Fprintf(&b, "- Successor: assigned (%s)\n", h.SuccessorEmail)
	} else {
		b.WriteString("- Successor: NOT ASSIGNED\n")
	}

	if len(hc.Tasks) > 0 {
		b.WriteString("\n**Checklist tasks:**\n")
		for _, t := range hc.Tasks {
			acked := ""
			if t.SuccessorAcknowledged {
				acked = ", acknowledged"
			}
			fmt.Fprintf(&b, "- [%s%s] %s (%s / %s priority)\n", t.Status, acked, t.Title, t.Category, t.Priority)
		}
	}

	if len(hc.Documents) > 0 {
		b.WriteString("\n**Attached document excerpts:**\n")
		for _, doc := range hc.Documents {
			if len(doc) > maxDocumentSnippet {
				doc = doc[:maxDocumentSnippet]
			}
			fmt.Fprintf(&b, "---\n%s\n", doc)
		}
	}

	b.WriteString(`
Please respond with ONLY a valid JSON object (no markdown, no explanation). The JSON must have this exact structure:
{
  "risk_level": "low" | "medium" | "high" | "critical",
  "recommendation": string with concrete next steps for the manager,
  "reasoning": string explaining your assessment
}

Weigh missing successors, low progress, and unacknowledged critical tasks heavily.`)

	return b.String()
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
