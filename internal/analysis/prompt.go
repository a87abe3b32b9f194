package analysis

import (
	"fmt"
	"strings"
)

const persona = "You are Tender, an AI legal assistant helping plaintiff legal teams process case documents."

func buildBatchPrompt(files []BatchFile, instructions string) string {
	var b strings.Builder
	b.WriteString(persona)

	if instructions != "" {
		fmt.Fprintf(&b, "\n\nUSER'S SPECIFIC INSTRUCTIONS: %s\n", instructions)
		b.WriteString("Pay special attention to these instructions while analyzing the documents. Tailor your extraction and suggested actions to address what the user is asking for.\n")
	}

	fmt.Fprintf(&b, `
Analyze the following %d legal document(s) together and extract:

1. Case Number (if mentioned)
2. Parties Involved (plaintiff, defendant, counsel, witnesses)
3. Critical Deadlines (dates with descriptions and priority: high/medium/low)
4. Key Facts (important facts, evidence, or testimony)
5. Suggested Actions (specific next steps the legal team should take)

Cross-reference information across documents where relevant.

For each suggested action, provide:
- A clear title
- Detailed description
- Rationale explaining why this action is important
- Priority level (high/medium/low)

Return your analysis in valid JSON format with this structure:
{
  "caseNumber": "string or null",
  "parties": ["string array"],
  "deadlines": [{"date": "string", "description": "string", "priority": "high|medium|low"}],
  "keyFacts": ["string array"],
  "confidence": 0.0-1.0,
  "suggestedActions": [{
    "title": "string",
    "description": "string",
    "rationale": "string",
    "priority": "high|medium|low"
  }]
}
`, len(files))

	for _, f := range files {
		if len(f.Native) > 0 {
			fmt.Fprintf(&b, "\nDocument: %s (attached as %s)\n", f.FileName, f.MimeType)
			continue
		}
		fmt.Fprintf(&b, "\nDocument: %s\n---\n%s\n---\n", f.FileName, f.Text)
	}

	b.WriteString("\nProvide only the JSON response, no other text.")
	return b.String()
}

func buildConversationalPrompt(result DocumentAnalysis, instructions string) string {
	caseNumber := result.CaseNumber
	if caseNumber == "" {
		caseNumber = "Not found"
	}

	parties := "Not found"
	if len(result.Parties) > 0 {
		parties = strings.Join(result.Parties, ", ")
	}

	deadlines := "Not found"
	if len(result.Deadlines) > 0 {
		parts := make([]string, 0, len(result.Deadlines))
		for _, d := range result.Deadlines {
			parts = append(parts, fmt.Sprintf("%s (%s)", d.Description, d.Date))
		}
		deadlines = strings.Join(parts, ", ")
	}

	facts := "Not found"
	if len(result.KeyFacts) > 0 {
		top := result.KeyFacts
		if len(top) > 3 {
			top = top[:3]
		}
		facts = strings.Join(top, "; ")
	}

	return fmt.Sprintf(`%s A user just uploaded documents and asked you to: %q

Based on the analysis you performed, here's what you found:
- Case Number: %s
- Parties: %s
- Deadlines: %s
- Key Facts: %s

Provide a helpful, conversational response that directly answers the user's request. Be specific and reference the information you found. If you found the information they asked for, present it clearly. If not, explain what you did find. Keep it concise and professional.`,
		persona, instructions, caseNumber, parties, deadlines, facts)
}

func buildChatPrompt(message string) string {
	return fmt.Sprintf(`%s You help analyze case documents, extract key information, and suggest actionable next steps.

User message: %s

Respond helpfully and professionally. If the user asks about document analysis, encourage them to upload documents. Keep responses concise and actionable.`, persona, message)
}
