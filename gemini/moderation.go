package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	language "cloud.google.com/go/language/apiv1"
	languagepb "cloud.google.com/go/language/apiv1/languagepb"
	"google.golang.org/api/googleapi"

	"github.com/datar-psa/goifd/api"
)

// categoryNames maps Natural Language moderation categories with spaces or
// ampersands onto the names in api.ModerationCategories
var categoryNames = map[string]string{
	"Death, Harm & Tragedy": "DeathHarmTragedy",
	"Firearms & Weapons":    "FirearmsWeapons",
	"Public Safety":         "PublicSafety",
	"Religion & Belief":     "ReligionBelief",
	"Illicit Drugs":         "IllicitDrugs",
	"War & Conflict":        "WarConflict",
}

// LanguageModerator implements api.ModerationProvider with the Cloud Natural
// Language moderateText method. Screening keeps unsafe answers out of training data.
type LanguageModerator struct {
	client *language.Client
}

// NewLanguageModerator wraps a configured *language.Client; auth is the caller's
func NewLanguageModerator(client *language.Client) *LanguageModerator {
	return &LanguageModerator{client: client}
}

// Moderate scores content against every moderation category.
// Blank content is not sent and has no categories.
func (p *LanguageModerator) Moderate(ctx context.Context, content string) (*api.ModerationResult, error) {
	if p.client == nil {
		return nil, errors.New("language client is required")
	}
	if strings.TrimSpace(content) == "" {
		return &api.ModerationResult{}, nil
	}

	resp, err := p.client.ModerateText(ctx, &languagepb.ModerateTextRequest{
		Document: &languagepb.Document{
			Type:   languagepb.Document_PLAIN_TEXT,
			Source: &languagepb.Document_Content{Content: content},
		},
	})
	if err != nil {
		var gerr *googleapi.Error
		if errors.As(err, &gerr) {
			return nil, fmt.Errorf("moderate text failed: %w", &api.StatusError{Code: gerr.Code, Message: gerr.Message})
		}
		return nil, fmt.Errorf("moderate text failed: %w", err)
	}

	result := &api.ModerationResult{Categories: make([]api.ModerationCategory, 0, len(resp.GetModerationCategories()))}
	for _, c := range resp.GetModerationCategories() {
		result.Categories = append(result.Categories, api.ModerationCategory{
			Name:       mapCategoryName(c.GetName()),
			Confidence: float64(c.GetConfidence()),
		})
	}
	return result, nil
}

func mapCategoryName(name string) string {
	if mapped, ok := categoryNames[name]; ok {
		return mapped
	}
	return name
}

var _ api.ModerationProvider = (*LanguageModerator)(nil)
