package openai

import (
	"fmt"
	"strings"

	"github.com/emberfield/faultwise/core"
)

const overviewSystemPrompt = `You are a heating engineer expert. You answer questions about boiler
error codes in PLAIN TEXT (no markdown, no formatting).

Respond with TWO sections in JSON format:

1. "ai_overview": 2-3 paragraphs of plain text explaining what the error
   means, why it occurs, how severe it is, and whether it is a DIY fix or
   needs a professional.

2. "troubleshooting": detailed step-by-step plain-text instructions covering:
   - Safety precautions
   - Initial checks homeowners can do
   - Specific diagnostic and fix steps
   - Highlight that a professional should be called.
   - NO repair cost estimates
   - Plain text, no markdown formatting

Return ONLY valid JSON, no preamble and no text outside the object:
{
  "ai_overview": "plain text overview here...",
  "troubleshooting": "plain text troubleshooting steps here..."
}`

const resourcesSystemPrompt = `Find 3-5 REAL resources showing how to FIX a boiler error.

IMPORTANT: Prioritize ENGLISH language websites only.

Find resources that demonstrate REPAIRS and FIXES:
- Videos showing the actual repair process
- Forum posts with step-by-step fix instructions
- Articles explaining how to resolve the error
- DO NOT include generic fault code lists
- DO NOT include manufacturer manuals
- DO NOT include non-English websites
- Each resource must show HOW TO FIX the problem

Return ONLY a JSON object, no text outside it:
{
  "helpful_resources": [
    {
      "type": "video",
      "title": "exact title from the webpage",
      "url": "actual URL you found",
      "description": "what fix or solution this provides"
    }
  ]
}`

// faultSummary renders the fault details shared by both prompts. Optional
// fields are omitted rather than rendered empty.
func faultSummary(fault *core.Fault) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Boiler: %s %s\n", orUnknown(fault.Maker), orUnknown(fault.Model))
	fmt.Fprintf(&b, "Error Code: %s\n", orUnknown(fault.ErrorCode))
	if fault.ErrorType != "" {
		fmt.Fprintf(&b, "Error Type: %s\n", fault.ErrorType)
	}
	if fault.PossibleCause != "" {
		fmt.Fprintf(&b, "Possible Cause: %s\n", fault.PossibleCause)
	}
	return b.String()
}

// overviewPrompt builds the user message for the generation call.
func overviewPrompt(fault *core.Fault, searchContext string) string {
	var b strings.Builder
	b.WriteString(faultSummary(fault))
	if fault.Troubleshooting != "" {
		fmt.Fprintf(&b, "Existing Troubleshooting: %s\n", fault.Troubleshooting)
	}
	if searchContext != "" {
		fmt.Fprintf(&b, "\nWeb search context:\n%s\n", searchContext)
	}
	return b.String()
}

// resourcesPrompt builds the user message for the resource search call.
func resourcesPrompt(fault *core.Fault) string {
	return faultSummary(fault)
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}
