package deck

import (
	"strings"
	"time"

	"github.com/artisanstudio/artisan-api/internal/job/id"
)

// Demo builds a deterministic sample presentation without calling any
// provider. It honors the requested slide count, chart/diagram/notes flags
// and language so the output shape matches a live generation.
func Demo(req Request) *Presentation {
	hebrew := req.Language == "he"
	count := req.SlideCount
	if count < 3 {
		count = 3
	}

	p := &Presentation{
		ID:    id.Deck(),
		Title: TitleFromPrompt(req.Prompt),
		Metadata: Metadata{
			Template:    req.Template,
			Style:       req.Style,
			AspectRatio: req.AspectRatio,
			Language:    req.Language,
			GeneratedAt: time.Now().UTC(),
		},
	}

	notes := func(en string) string {
		if !req.IncludeSpeakerNotes {
			return ""
		}
		return en
	}
	pick := func(en, he string) string {
		if hebrew {
			return he
		}
		return en
	}

	p.Slides = append(p.Slides, Slide{
		SlideNumber:     1,
		Type:            TypeTitle,
		Title:           p.Title,
		Subtitle:        pick("Business Presentation", "מצגת עסקית"),
		BackgroundStyle: "gradient_dark",
		SpeakerNotes:    notes("Welcome to the presentation. Today we'll cover the key topics."),
		Layout:          "centered",
	})

	p.Slides = append(p.Slides, Slide{
		SlideNumber:  2,
		Type:         TypeContent,
		Title:        pick("Agenda", "סדר יום"),
		Bullets:      []string{"Overview & Context", "Key Results", "Market Analysis", "Growth Strategy", "Q&A"},
		SpeakerNotes: notes("Let's start with our agenda for today."),
		Layout:       "full_width",
	})

	p.Slides = append(p.Slides, Slide{
		SlideNumber:  3,
		Type:         TypeStats,
		Title:        pick("Key Metrics", "מדדים מרכזיים"),
		Bullets:      []string{"$12.4M Revenue", "15% YoY Growth", "2,500+ Customers", "98% Satisfaction"},
		SpeakerNotes: notes("These are our key performance indicators."),
		Layout:       "full_width",
	})

	if req.IncludeCharts && len(p.Slides) < count-1 {
		chartType := strings.ToLower(req.ChartStyle)
		if chartType == "" || chartType == "none" {
			chartType = "bar"
		}
		p.Slides = append(p.Slides, Slide{
			SlideNumber: len(p.Slides) + 1,
			Type:        TypeChart,
			Title:       pick("Revenue Overview", "סקירת הכנסות"),
			Bullets:     []string{"Consistent quarterly growth", "Strong H2 performance"},
			Chart: &ChartData{
				Type: chartType,
				Data: ChartDataset{
					Labels: []string{"Q1", "Q2", "Q3", "Q4"},
					Values: []float64{8.2, 10.1, 12.4, 14.8},
				},
			},
			SpeakerNotes: notes("Revenue has grown consistently across quarters."),
			Layout:       "split_right",
		})
	}

	if req.IncludeDiagrams && len(p.Slides) < count-1 {
		diagramType := req.DiagramType
		if diagramType == "" {
			diagramType = "flowchart"
		}
		p.Slides = append(p.Slides, Slide{
			SlideNumber: len(p.Slides) + 1,
			Type:        TypeDiagram,
			Title:       pick("Process Flow", "תהליך העבודה"),
			Diagram: &DiagramData{
				Type:        diagramType,
				MermaidCode: "graph TD; A[Discover] --> B[Design]; B --> C[Build]; C --> D[Launch]",
			},
			SpeakerNotes: notes("This is our delivery process from discovery to launch."),
			Layout:       "full_width",
		})
	}

	fillers := []Slide{
		{
			Type:    TypeContent,
			Title:   pick("Market Analysis", "ניתוח שוק"),
			Bullets: []string{"Growing addressable market", "Two primary competitor segments", "Clear differentiation on quality"},
		},
		{
			Type:    TypeComparison,
			Title:   pick("Before & After", "לפני ואחרי"),
			Bullets: []string{"Manual workflows vs automated pipeline", "Days of turnaround vs minutes"},
		},
		{
			Type:    TypeTimeline,
			Title:   pick("Roadmap", "מפת דרכים"),
			Bullets: []string{"Q1: Foundation", "Q2: Expansion", "Q3: Partnerships", "Q4: Scale"},
		},
	}
	for _, f := range fillers {
		if len(p.Slides) >= count-1 {
			break
		}
		f.SlideNumber = len(p.Slides) + 1
		f.SpeakerNotes = notes("Supporting detail for this section.")
		f.Layout = "full_width"
		p.Slides = append(p.Slides, f)
	}

	p.Slides = append(p.Slides, Slide{
		SlideNumber:     len(p.Slides) + 1,
		Type:            TypeClosing,
		Title:           pick("Thank You", "תודה רבה"),
		Subtitle:        pick("Questions & Answers", "שאלות ותשובות"),
		BackgroundStyle: "gradient_dark",
		SpeakerNotes:    notes("Thank the audience and open the floor for questions."),
		Layout:          "centered",
	})

	return p
}

// TitleFromPrompt derives a short deck title from the user prompt.
func TitleFromPrompt(prompt string) string {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "Presentation"
	}
	words := strings.Fields(prompt)
	if len(words) > 8 {
		words = words[:8]
	}
	title := strings.Join(words, " ")
	r := []rune(title)
	return strings.ToUpper(string(r[0])) + string(r[1:])
}
