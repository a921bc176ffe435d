package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"github.com/talentsift/talentsift/internal/ai"
	"github.com/talentsift/talentsift/internal/logger"
	"github.com/talentsift/talentsift/internal/util"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, *ai.Usage, error)
	Model() string
}

// Classifier sends candidate batches to Gemini and parses the per-candidate
// verdicts out of the response.
type Classifier struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

//go:embed prompt.md
var promptTemplate string

const defaultMaxLogLength = 200

func NewClassifier(generator contentGenerator, log *zap.Logger, maxLogLength int) *Classifier {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	model := ""
	if generator != nil {
		model = generator.Model()
	}

	return &Classifier{
		generator: generator,
		logger:    logger.WithCommonFields(log, "gemini", model),
		maxLogLen: maxLogLength,
	}
}

// ClassifyBatch implements ai.Classifier.
func (c *Classifier) ClassifyBatch(ctx context.Context, req *ai.Request) ([]*ai.Verdict, *ai.Usage, error) {
	if req == nil || len(req.Candidates) == 0 {
		return nil, nil, fmt.Errorf("batch must not be empty")
	}
	if req.Rules == nil {
		return nil, nil, fmt.Errorf("filter rules are required")
	}

	prompt, err := buildPrompt(req)
	if err != nil {
		return nil, nil, err
	}

	c.logger.Debug("gemini classify batch request",
		zap.Int("batch_size", len(req.Candidates)),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", util.TruncateForLog(prompt, c.maxLogLen)),
	)

	raw, usage, err := c.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, nil, err
	}

	c.logger.Debug("gemini classify batch response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", util.TruncateForLog(raw, c.maxLogLen)),
	)

	if strings.Contains(raw, ai.FailedSentinel) {
		return nil, usage, ai.ErrAnalysisFailed
	}

	verdicts, err := parseVerdicts(raw)
	if err != nil {
		return nil, usage, err
	}

	return verdicts, usage, nil
}

func buildPrompt(req *ai.Request) (string, error) {
	candidatesJSON, err := json.MarshalIndent(req.Candidates, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal candidates payload: %w", err)
	}

	rulesJSON, err := json.MarshalIndent(map[string]any{
		"min_months_in_role":     req.Rules.MinMonthsInRole,
		"min_years_experience":   req.Rules.MinYearsExperience,
		"must_have_terms":        req.Rules.MustHaveTerms,
		"exclude_terms":          req.Rules.ExcludeTerms,
		"required_title_terms":   req.Rules.RequiredTitleTerms,
		"location_exclude":       req.Rules.LocationExclude,
		"require_top_university": req.Rules.RequireTopUniversity,
	}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal rules payload: %w", err)
	}

	synonymPairs := make([]map[string]string, 0, len(req.Synonyms))
	for _, s := range req.Synonyms {
		synonymPairs = append(synonymPairs, map[string]string{
			"canonical": s.Canonical,
			"variant":   s.Variant,
			"category":  s.Category,
		})
	}
	synonymsJSON, err := json.MarshalIndent(synonymPairs, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal synonyms payload: %w", err)
	}

	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Candidates:\n{{CANDIDATES_JSON}}\n\nRules:\n{{RULES_JSON}}\n\nSynonyms:\n{{SYNONYMS_JSON}}\n\nJSON Response:"
	}

	prompt := strings.ReplaceAll(template, "{{CANDIDATES_JSON}}", string(candidatesJSON))
	prompt = strings.ReplaceAll(prompt, "{{RULES_JSON}}", string(rulesJSON))
	prompt = strings.ReplaceAll(prompt, "{{SYNONYMS_JSON}}", string(synonymsJSON))
	return prompt, nil
}

func parseVerdicts(raw string) ([]*ai.Verdict, error) {
	cleaned := extractJSON(raw)

	var items []map[string]any
	if err := json.Unmarshal([]byte(cleaned), &items); err != nil {
		// some responses wrap the array in an object
		var wrapper map[string]any
		if err2 := json.Unmarshal([]byte(cleaned), &wrapper); err2 != nil {
			return nil, fmt.Errorf("parse gemini response: %w", err)
		}
		list, ok := wrapper["results"].([]any)
		if !ok {
			return nil, fmt.Errorf("parse gemini response: no results array")
		}
		for _, item := range list {
			if m, ok := item.(map[string]any); ok {
				items = append(items, m)
			}
		}
	}

	verdicts := make([]*ai.Verdict, 0, len(items))
	for _, item := range items {
		confidence := coerceFloat(item["confidence"])
		if math.IsNaN(confidence) {
			confidence = 0
		}

		verdicts = append(verdicts, &ai.Verdict{
			CandidateID:       coerceString(item["candidate_id"]),
			ExperiencePass:    coerceBool(item["experience_pass"]),
			RoleDurationPass:  coerceBool(item["role_duration_pass"]),
			MustHavePass:      coerceBool(item["must_have_pass"]),
			ExcludePass:       coerceBool(item["exclude_pass"]),
			LocationPass:      coerceBool(item["location_pass"]),
			TopUniversityPass: coerceBool(item["top_university_pass"]),
			OverallPass:       coerceBool(item["overall_pass"]),
			Confidence:        confidence,
			Reasons:           coerceStrings(item["reasons"]),
		})
	}

	return verdicts, nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

func coerceBool(v any) bool {
	switch val := v.(type) {
	case bool:
		return val
	case string:
		lower := strings.ToLower(strings.TrimSpace(val))
		return lower == "true" || lower == "yes" || lower == "pass"
	case float64:
		return val != 0
	default:
		return false
	}
}

func coerceFloat(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case int:
		return float64(val)
	case string:
		trimmed := strings.TrimSpace(val)
		if trimmed == "" {
			return math.NaN()
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}

func coerceString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case fmt.Stringer:
		return strings.TrimSpace(val.String())
	default:
		if v == nil {
			return ""
		}
		bytes, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(bytes)
	}
}

func coerceStrings(v any) []string {
	list, ok := v.([]any)
	if !ok {
		if s := coerceString(v); s != "" {
			return []string{s}
		}
		return nil
	}

	out := make([]string, 0, len(list))
	for _, item := range list {
		if s := coerceString(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}
