package llm

import (
	"context"
	"fmt"
	"log"

	"github.com/rahul/wayfarer/pkg/config"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/openai"
)

// CandidatesFromConfig builds the priority-ordered candidate list from the
// provider config. Google models come first (the upstream free tier makes
// them the preferred default), then OpenAI. A provider without an enabled
// entry or an API key contributes nothing; an empty result means every stage
// will run on its deterministic fallback.
func CandidatesFromConfig(ctx context.Context, cfg *config.Config) []Candidate {
	var candidates []Candidate

	if p, ok := cfg.GetProvider("googleai"); ok {
		for _, model := range p.Models {
			client, err := googleai.New(ctx,
				googleai.WithAPIKey(p.APIKey),
				googleai.WithDefaultModel(model),
			)
			if err != nil {
				log.Printf("Warning: failed to initialize googleai model %s: %v", model, err)
				continue
			}
			candidates = append(candidates, Candidate{
				Name:  fmt.Sprintf("googleai/%s", model),
				Model: client,
			})
		}
	}

	if p, ok := cfg.GetProvider("openai"); ok {
		models := p.Models
		if len(models) == 0 {
			models = []string{"gpt-3.5-turbo"}
		}
		for _, model := range models {
			opts := []openai.Option{
				openai.WithToken(p.APIKey),
				openai.WithModel(model),
			}
			if p.BaseURL != "" {
				opts = append(opts, openai.WithBaseURL(p.BaseURL))
			}
			client, err := openai.New(opts...)
			if err != nil {
				log.Printf("Warning: failed to initialize openai model %s: %v", model, err)
				continue
			}
			candidates = append(candidates, Candidate{
				Name:  fmt.Sprintf("openai/%s", model),
				Model: client,
			})
		}
	}

	return candidates
}
