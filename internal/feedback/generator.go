package feedback

import (
	"context"
	"log"
)

// TextGenerator produces text for a prompt.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// Generator builds reports. It never fails: every error becomes a fallback report.
type Generator struct {
	client TextGenerator
}

func NewGenerator(client TextGenerator) *Generator {
	return &Generator{client: client}
}

func (g *Generator) Generate(ctx context.Context, items []Item) Report {
	if g == nil || g.client == nil {
		return Fallback(ErrNoAPIKey)
	}
	text, err := g.client.GenerateText(ctx, BuildPrompt(items))
	if err != nil {
		log.Printf("feedback: generation failed: %v", err)
		return Fallback(err)
	}
	report, err := ParseReport(text)
	if err != nil {
		log.Printf("feedback: %v", err)
		return Fallback(err)
	}
	return report
}
