package services

import (
	"bytes"
	"strings"

	"github.com/username/carteira/backend/src/security/validation"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/renderer/html"
)

// Narrative is model-generated text plus a sanitized HTML rendering of it.
type Narrative struct {
	Text string `json:"text"`
	HTML string `json:"html"`
}

var narrativeMarkdown = goldmark.New(goldmark.WithRendererOptions(html.WithHardWraps()))

// RenderNarrative converts the model's text to safe HTML. The prompts ask for
// plain text, but models still emit markdown now and then.
func RenderNarrative(text string) Narrative {
	text = strings.TrimSpace(text)
	n := Narrative{Text: text}
	if text == "" {
		return n
	}
	var buf bytes.Buffer
	if err := narrativeMarkdown.Convert([]byte(text), &buf); err != nil {
		n.HTML = validation.SanitizeText(text)
		return n
	}
	n.HTML = validation.SanitizeNarrativeHTML(buf.String())
	return n
}
