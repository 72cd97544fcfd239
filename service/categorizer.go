package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/Shr3y4sm/SpendSmart/config"
	"github.com/Shr3y4sm/SpendSmart/models"
)

// CategoryResult is the outcome of categorizing one expense description.
type CategoryResult struct {
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
	Method     string  `json:"method"`
}

// CategorySuggestion is one entry of a top-N suggestion list.
type CategorySuggestion struct {
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason"`
}

// categoryKeywords maps each category to its ordered keyword list. The
// fallback classifier scans it with longest-match-wins semantics, so the
// table is data, not branching logic.
var categoryKeywords = []struct {
	Category string
	Keywords []string
}{
	{models.CategoryFood, []string{"food", "restaurant", "cafe", "coffee", "pizza", "burger", "lunch", "dinner", "breakfast", "grocery", "supermarket", "dining"}},
	{models.CategoryTransport, []string{"transport", "uber", "taxi", "bus", "train", "metro", "gas", "fuel", "parking", "toll", "flight", "car"}},
	{models.CategoryShopping, []string{"shop", "store", "mall", "amazon", "clothes", "shoes", "electronics", "retail", "purchase"}},
	{models.CategoryEntertainment, []string{"entertainment", "netflix", "movie", "cinema", "theater", "game", "gaming", "sports", "concert", "show"}},
	{models.CategoryBills, []string{"bill", "utility", "electric", "water", "internet", "phone", "rent", "mortgage", "insurance"}},
	{models.CategoryHealthcare, []string{"health", "medical", "doctor", "pharmacy", "medicine", "hospital", "clinic", "dental"}},
	{models.CategoryEducation, []string{"education", "school", "course", "book", "tuition", "learning", "training"}},
	{models.CategoryOthers, []string{"other", "misc", "miscellaneous"}},
}

// Categorizer maps free-text expense descriptions to categories. It tries
// the configured AI backend first and always falls back to the keyword
// table, so Categorize is total: it never fails.
type Categorizer struct {
	cfg    *config.AIConfig
	client *http.Client
}

// NewCategorizer creates a categorizer. The AI backend is optional; with it
// disabled every call uses the keyword fallback.
func NewCategorizer(cfg *config.AIConfig) *Categorizer {
	return &Categorizer{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout()},
	}
}

// Enabled reports whether the AI backend is configured.
func (s *Categorizer) Enabled() bool {
	return s.cfg.Enabled && s.cfg.APIKey != ""
}

// Categorize classifies an expense description. amount may be 0 when the
// caller has no amount context.
func (s *Categorizer) Categorize(ctx context.Context, item string, amount float64) CategoryResult {
	if s.Enabled() {
		result, err := s.categorizeAI(ctx, item, amount)
		if err == nil {
			return result
		}
		log.Printf("ai categorization failed, using keyword fallback: %v", err)
	}
	return FallbackCategorize(item)
}

// Suggestions returns the top 3 category suggestions for an item.
func (s *Categorizer) Suggestions(ctx context.Context, item string) []CategorySuggestion {
	if s.Enabled() {
		suggestions, err := s.suggestionsAI(ctx, item)
		if err == nil && len(suggestions) > 0 {
			return suggestions
		}
		if err != nil {
			log.Printf("ai suggestions failed, using keyword fallback: %v", err)
		}
	}
	return fallbackSuggestions(item)
}

// FallbackCategorize scans the keyword table. Among all keywords contained
// in the item text the longest one wins; ties keep the earlier category.
// Nothing matching yields Others with confidence 0.5.
func FallbackCategorize(item string) CategoryResult {
	itemLower := strings.ToLower(item)

	best := CategoryResult{
		Category:   models.CategoryOthers,
		Confidence: 0.5,
		Reasoning:  "No specific match found",
		Method:     "fallback",
	}
	bestLen := 0

	for _, entry := range categoryKeywords {
		for _, keyword := range entry.Keywords {
			if len(keyword) > bestLen && strings.Contains(itemLower, keyword) {
				best = CategoryResult{
					Category:   entry.Category,
					Confidence: 0.7,
					Reasoning:  "Rule-based match: " + keyword,
					Method:     "rule_based",
				}
				bestLen = len(keyword)
			}
		}
	}

	return best
}

func fallbackSuggestions(item string) []CategorySuggestion {
	itemLower := strings.ToLower(item)
	var suggestions []CategorySuggestion

	for _, entry := range categoryKeywords {
		for _, keyword := range entry.Keywords {
			if strings.Contains(itemLower, keyword) {
				suggestions = append(suggestions, CategorySuggestion{
					Category:   entry.Category,
					Confidence: 0.8,
					Reason:     "Matched keyword: " + keyword,
				})
				break
			}
		}
	}

	if len(suggestions) == 0 {
		suggestions = []CategorySuggestion{
			{Category: models.CategoryOthers, Confidence: 0.5, Reason: "No specific match found"},
			{Category: models.CategoryFood, Confidence: 0.3, Reason: "Common category"},
			{Category: models.CategoryShopping, Confidence: 0.2, Reason: "Common category"},
		}
	}

	if len(suggestions) > 3 {
		suggestions = suggestions[:3]
	}
	return suggestions
}

// categorizeAI asks the configured backend to classify the item and
// validates the answer against the fixed category set.
func (s *Categorizer) categorizeAI(ctx context.Context, item string, amount float64) (CategoryResult, error) {
	amountContext := ""
	if amount > 0 {
		amountContext = fmt.Sprintf(" (Amount: %.2f)", amount)
	}

	prompt := fmt.Sprintf(`Categorize this expense item: %q%s

Available categories:
- Food & Dining: restaurants, cafes, groceries, food delivery
- Transportation: uber, taxi, gas, parking, public transport, flights
- Shopping: retail stores, online shopping, clothes, electronics
- Entertainment: movies, games, streaming services, concerts, sports
- Bills & Utilities: electricity, water, internet, phone, rent, insurance
- Healthcare: medical expenses, pharmacy, doctor visits, dental
- Education: courses, books, tuition, school supplies
- Others: anything that doesn't fit the above categories

Respond with ONLY a JSON object in this exact format:
{"category": "Category Name", "confidence": 0.95, "reasoning": "Brief explanation"}

Be precise and choose the most appropriate category. Confidence should be between 0.0 and 1.0.`, item, amountContext)

	content, err := s.chatCompletion(ctx, prompt)
	if err != nil {
		return CategoryResult{}, err
	}

	var parsed struct {
		Category   string  `json:"category"`
		Confidence float64 `json:"confidence"`
		Reasoning  string  `json:"reasoning"`
	}
	jsonStr, err := extractJSON(content, '{', '}')
	if err != nil {
		return CategoryResult{}, err
	}
	if err := json.Unmarshal([]byte(jsonStr), &parsed); err != nil {
		return CategoryResult{}, fmt.Errorf("parse ai response: %w", err)
	}

	if !models.ValidCategory(parsed.Category) {
		return CategoryResult{}, fmt.Errorf("ai returned unknown category %q", parsed.Category)
	}
	if parsed.Confidence < 0 {
		parsed.Confidence = 0
	}
	if parsed.Confidence > 1 {
		parsed.Confidence = 1
	}
	reasoning := parsed.Reasoning
	if reasoning == "" {
		reasoning = "AI categorization"
	}

	return CategoryResult{
		Category:   parsed.Category,
		Confidence: parsed.Confidence,
		Reasoning:  reasoning,
		Method:     "ai",
	}, nil
}

func (s *Categorizer) suggestionsAI(ctx context.Context, item string) ([]CategorySuggestion, error) {
	prompt := fmt.Sprintf(`For the expense item %q, suggest the top 3 most likely categories.

Available categories: Food & Dining, Transportation, Shopping, Entertainment, Bills & Utilities, Healthcare, Education, Others

Respond with a JSON array of objects:
[{"category": "Category Name", "confidence": 0.9, "reason": "Why this category fits"}]`, item)

	content, err := s.chatCompletion(ctx, prompt)
	if err != nil {
		return nil, err
	}

	jsonStr, err := extractJSON(content, '[', ']')
	if err != nil {
		return nil, err
	}

	var suggestions []CategorySuggestion
	if err := json.Unmarshal([]byte(jsonStr), &suggestions); err != nil {
		return nil, fmt.Errorf("parse ai suggestions: %w", err)
	}

	valid := suggestions[:0]
	for _, sg := range suggestions {
		if models.ValidCategory(sg.Category) {
			valid = append(valid, sg)
		}
	}
	if len(valid) > 3 {
		valid = valid[:3]
	}
	return valid, nil
}

// chatCompletion posts one prompt to the OpenAI-compatible endpoint and
// returns the assistant message content.
func (s *Categorizer) chatCompletion(ctx context.Context, prompt string) (string, error) {
	requestBody := map[string]interface{}{
		"model": s.cfg.Model,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
	}

	jsonData, err := json.Marshal(requestBody)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST",
		strings.TrimRight(s.cfg.BaseURL, "/")+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("call ai backend: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("ai backend returned %d: %s", resp.StatusCode, string(body))
	}

	var completion struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return "", fmt.Errorf("decode ai response: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("ai backend returned no choices")
	}
	return completion.Choices[0].Message.Content, nil
}

// extractJSON pulls the first delimited span out of a model reply, which
// often wraps JSON in prose or code fences.
func extractJSON(text string, openDelim, closeDelim byte) (string, error) {
	start := strings.IndexByte(text, openDelim)
	end := strings.LastIndexByte(text, closeDelim)
	if start < 0 || end <= start {
		return "", fmt.Errorf("no JSON found in ai response")
	}
	return text[start : end+1], nil
}
