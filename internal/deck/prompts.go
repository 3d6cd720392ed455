package deck

import (
	"fmt"
	"strings"
)

// SystemPrompt builds the system message instructing the chat model to emit a
// deck as JSON in the structure Parse understands.
func SystemPrompt(req Request) string {
	var b strings.Builder
	b.WriteString(`You are a professional presentation designer. Generate a structured business presentation as JSON.
The JSON must have this exact structure:
{
  "title": "Presentation Title",
  "slides": [
    {
      "slideNumber": 1,
      "type": "title|content|content_with_chart|diagram|comparison|timeline|stats|closing",
      "title": "Slide Title",
      "subtitle": "Optional subtitle",
      "bullets": ["Point 1", "Point 2"],
      "bodyText": "Optional body text",
      "chart": { "type": "bar|line|pie|area", "data": { "labels": ["A","B"], "values": [10,20] } },
      "diagram": { "type": "flowchart|orgchart|timeline|mindmap", "mermaidCode": "graph TD; A-->B" },
      "speakerNotes": "Notes for the presenter",
      "layout": "full_width|split_left|split_right|centered"
    }
  ]
}

Rules:
- First slide must be type "title" with the presentation title and subtitle
- Last slide must be type "closing" with thank you / Q&A
- Include a mix of slide types for visual variety
- Charts must have realistic sample data with at least 3-5 data points
- Mermaid diagram code must be valid Mermaid syntax
`)
	if req.IncludeSpeakerNotes {
		b.WriteString("- Include speaker notes for each slide\n")
	} else {
		b.WriteString("- Omit speakerNotes\n")
	}
	if req.IncludeCharts {
		b.WriteString("- Include at least 2 slides with charts\n")
	} else {
		b.WriteString("- Do not include charts\n")
	}
	if req.IncludeDiagrams {
		b.WriteString("- Include at least 1 slide with a diagram\n")
	} else {
		b.WriteString("- Do not include diagrams\n")
	}
	language := "English"
	if req.Language == "he" {
		language = "Hebrew"
	}
	fmt.Fprintf(&b, "- Language: %s\n", language)
	fmt.Fprintf(&b, "- Template style: %s\n", req.Template)
	fmt.Fprintf(&b, "- Visual style: %s", req.Style)
	return b.String()
}

// UserPrompt builds the user message with the deck topic and preferences.
func UserPrompt(req Request) string {
	return fmt.Sprintf(
		"Create a %d-slide %s presentation about: %s\n\nChart style preference: %s\nDiagram type preference: %s\nReturn ONLY valid JSON.",
		req.SlideCount,
		strings.ReplaceAll(req.Template, "_", " "),
		req.Prompt,
		req.ChartStyle,
		req.DiagramType,
	)
}
