package deck

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/artisanstudio/artisan-api/internal/extract"
)

// ErrNoSlides is returned when an AI response parses but contains no slides.
var ErrNoSlides = errors.New("deck: response contains no slides")

// Parse builds a Presentation from the JSON document returned by the chat
// model. Slides with missing or mistyped fields keep their defaults rather
// than failing the whole deck, and chart values may arrive as numbers or
// numeric strings.
func Parse(raw []byte, req Request, deckID string) (*Presentation, error) {
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}

	p := &Presentation{
		ID:    deckID,
		Title: stringOr(doc["title"], "Presentation"),
		Metadata: Metadata{
			Template:    req.Template,
			Style:       req.Style,
			AspectRatio: req.AspectRatio,
			Language:    req.Language,
			GeneratedAt: time.Now().UTC(),
		},
	}

	rawSlides, ok := doc["slides"].([]any)
	if !ok || len(rawSlides) == 0 {
		return nil, ErrNoSlides
	}

	for _, rs := range rawSlides {
		obj, ok := rs.(map[string]any)
		if !ok {
			continue
		}
		p.Slides = append(p.Slides, parseSlide(obj))
	}
	if len(p.Slides) == 0 {
		return nil, ErrNoSlides
	}

	return p, nil
}

func parseSlide(obj map[string]any) Slide {
	s := Slide{
		SlideNumber:  intOr(obj["slideNumber"]),
		Type:         stringOr(obj["type"], TypeContent),
		Title:        stringOr(obj["title"], ""),
		Subtitle:     stringOr(obj["subtitle"], ""),
		BodyText:     stringOr(obj["bodyText"], ""),
		SpeakerNotes: stringOr(obj["speakerNotes"], ""),
		Layout:       stringOr(obj["layout"], "full_width"),
	}

	if bullets, ok := obj["bullets"].([]any); ok {
		for _, b := range bullets {
			if text, ok := b.(string); ok && text != "" {
				s.Bullets = append(s.Bullets, text)
			}
		}
	}

	if chart, ok := obj["chart"].(map[string]any); ok {
		s.Chart = parseChart(chart)
	}

	if diagram, ok := obj["diagram"].(map[string]any); ok {
		s.Diagram = &DiagramData{
			Type:        stringOr(diagram["type"], "flowchart"),
			MermaidCode: stringOr(diagram["mermaidCode"], ""),
		}
	}

	return s
}

func parseChart(chart map[string]any) *ChartData {
	c := &ChartData{Type: stringOr(chart["type"], "bar")}

	data, ok := chart["data"].(map[string]any)
	if !ok {
		return c
	}
	if labels, ok := data["labels"].([]any); ok {
		for _, l := range labels {
			c.Data.Labels = append(c.Data.Labels, stringOr(l, ""))
		}
	}
	if values, ok := data["values"].([]any); ok {
		for _, v := range values {
			c.Data.Values = append(c.Data.Values, extract.Float(v))
		}
	}
	return c
}

func stringOr(v any, fallback string) string {
	if s, ok := v.(string); ok && s != "" {
		return s
	}
	return fallback
}

func intOr(v any) int {
	if f, ok := v.(float64); ok {
		return int(f)
	}
	return 0
}
