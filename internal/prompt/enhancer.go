// Package prompt provides rule-based prompt enhancement. It analyzes a text
// prompt for missing craft elements (lighting, composition, motion, ...) and
// suggests additions per category. The rule table is a stand-in with the same
// interface an LLM-backed enhancer would have.
package prompt

import (
	"math/rand"
	"strings"
)

// Result is the outcome of enhancing a prompt.
type Result struct {
	OriginalPrompt string            `json:"original_prompt"`
	EnhancedPrompt string            `json:"enhanced_prompt"`
	Suggestions    []string          `json:"suggestions"`
	AddedElements  map[string]string `json:"added_elements"`
}

type category struct {
	name     string
	keywords []string
	options  []string
}

var imageCategories = []category{
	{
		name:     "lighting",
		keywords: []string{"light", "sun", "shadow", "glow", "bright", "dark"},
		options:  []string{"golden hour lighting", "soft diffused light", "dramatic chiaroscuro", "neon glow", "natural daylight"},
	},
	{
		name:     "style",
		keywords: []string{"style", "realistic", "artistic", "cinematic", "painting"},
		options:  []string{"photorealistic", "cinematic", "artistic", "hyperrealistic 8K", "oil painting style"},
	},
	{
		name:     "composition",
		keywords: []string{"angle", "shot", "view", "close", "wide", "centered"},
		options:  []string{"rule of thirds", "centered composition", "wide angle shot", "close-up detail", "bird's eye view"},
	},
	{
		name:     "mood",
		keywords: []string{"mood", "atmosphere", "feeling", "serene", "dramatic"},
		options:  []string{"serene and peaceful", "dramatic and intense", "whimsical and playful", "mysterious atmosphere", "warm and inviting"},
	},
	{
		name:     "quality",
		keywords: []string{"detailed", "quality", "hd", "4k", "8k", "sharp"},
		options:  []string{"highly detailed", "sharp focus", "professional photography", "award-winning", "masterpiece quality"},
	},
}

var videoCategories = []category{
	{
		name:     "motion",
		keywords: []string{"motion", "movement", "moving", "flowing", "tracking"},
		options:  []string{"smooth camera movement", "slow motion", "dynamic tracking shot", "steady timelapse", "cinematic dolly"},
	},
	{
		name:     "style",
		keywords: []string{"style", "realistic", "artistic", "cinematic", "painting"},
		options:  []string{"cinematic look", "documentary style", "dreamlike quality", "high contrast", "film grain aesthetic"},
	},
	{
		name:     "pacing",
		keywords: []string{"slow", "fast", "gradual", "smooth", "dynamic"},
		options:  []string{"gradually revealing", "building intensity", "gentle and flowing", "rhythmic motion", "seamless loop"},
	},
}

// Enhance analyzes the prompt for the given media type ("image" or "video")
// and returns the enhanced prompt with per-category suggestions.
func Enhance(originalPrompt, mediaType string) Result {
	promptLower := strings.ToLower(originalPrompt)

	categories := imageCategories
	if mediaType == "video" {
		categories = videoCategories
	}

	added := make(map[string]string)
	var suggestions []string
	var additions []string

	for _, cat := range categories {
		if containsAny(promptLower, cat.keywords) {
			continue
		}
		suggestion := cat.options[rand.Intn(len(cat.options))]
		added[cat.name] = suggestion
		additions = append(additions, suggestion)
		suggestions = append(suggestions, "Consider adding "+cat.name+": \""+suggestion+"\"")
	}

	enhanced := originalPrompt
	if len(additions) > 0 {
		enhanced = originalPrompt + ", " + strings.Join(additions, ", ")
	}
	if mediaType == "image" && !strings.Contains(promptLower, "quality") && !strings.Contains(promptLower, "detailed") {
		enhanced += ", highly detailed, professional quality"
	}

	return Result{
		OriginalPrompt: originalPrompt,
		EnhancedPrompt: enhanced,
		Suggestions:    suggestions,
		AddedElements:  added,
	}
}

func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}
