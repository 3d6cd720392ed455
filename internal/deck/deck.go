// Package deck defines the presentation content model plus the builders that
// produce it: a parser for AI-generated JSON and a deterministic demo deck
// used when no provider credential is configured.
package deck

import "time"

// Slide types produced by the generator.
const (
	TypeTitle      = "title"
	TypeContent    = "content"
	TypeChart      = "content_with_chart"
	TypeDiagram    = "diagram"
	TypeComparison = "comparison"
	TypeTimeline   = "timeline"
	TypeStats      = "stats"
	TypeClosing    = "closing"
)

// Request carries the presentation generation parameters.
type Request struct {
	Prompt              string
	SlideCount          int
	Template            string
	Style               string
	AspectRatio         string
	Language            string
	ChartStyle          string
	DiagramType         string
	IncludeCharts       bool
	IncludeDiagrams     bool
	IncludeSpeakerNotes bool
}

// Presentation is a finished multi-slide deck.
type Presentation struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Slides   []Slide  `json:"slides"`
	Metadata Metadata `json:"metadata"`
}

// Metadata records how the deck was generated.
type Metadata struct {
	Template    string    `json:"template"`
	Style       string    `json:"style"`
	AspectRatio string    `json:"aspect_ratio"`
	Language    string    `json:"language"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Slide is a single slide in a presentation.
type Slide struct {
	SlideNumber     int          `json:"slide_number"`
	Type            string       `json:"type"`
	Title           string       `json:"title"`
	Subtitle        string       `json:"subtitle,omitempty"`
	Bullets         []string     `json:"bullets,omitempty"`
	BodyText        string       `json:"body_text,omitempty"`
	Chart           *ChartData   `json:"chart,omitempty"`
	Diagram         *DiagramData `json:"diagram,omitempty"`
	SpeakerNotes    string       `json:"speaker_notes,omitempty"`
	Layout          string       `json:"layout,omitempty"`
	BackgroundStyle string       `json:"background_style,omitempty"`
}

// ChartData is an embedded chart definition.
type ChartData struct {
	Type string       `json:"type"`
	Data ChartDataset `json:"data"`
}

// ChartDataset holds the chart's labels and values.
type ChartDataset struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

// DiagramData is an embedded diagram definition expressed as Mermaid code.
type DiagramData struct {
	Type        string `json:"type"`
	MermaidCode string `json:"mermaid_code"`
}
