package ai

import (
	"bytes"
	"caltrack/internal/utils"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type (
	// Extraction is the structured nutrition estimate for a free-text food
	// description.
	Extraction struct {
		Description string   `json:"description"`
		Calories    int      `json:"calories"`
		ProteinG    *float64 `json:"protein_g"`
		CarbsG      *float64 `json:"carbs_g"`
		FatG        *float64 `json:"fat_g"`
		Confidence  float64  `json:"confidence"`
		Estimated   bool     `json:"estimated"`
		Notes       string   `json:"notes"`
	}

	Extractor interface {
		ExtractNutrition(ctx context.Context, text string) (Extraction, error)
	}

	openAIExtractor struct {
		apiKey  string
		model   string
		baseURL string
		client  *http.Client
	}
)

func NewOpenAIExtractor() Extractor {
	return &openAIExtractor{
		apiKey:  utils.GetConfig("OPENAI_API_KEY"),
		model:   utils.GetConfig("OPENAI_MODEL"),
		baseURL: "https://api.openai.com/v1",
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

const extractionPrompt = `You are a nutrition assistant. Estimate the nutrition of the food the user describes. Set "estimated" to true unless the user gave explicit amounts. Use "notes" for assumptions you made.`

var extractionSchema = map[string]interface{}{
	"type":                 "object",
	"additionalProperties": false,
	"required":             []string{"description", "calories", "protein_g", "carbs_g", "fat_g", "confidence", "estimated", "notes"},
	"properties": map[string]interface{}{
		"description": map[string]interface{}{"type": "string"},
		"calories":    map[string]interface{}{"type": "integer", "minimum": 0},
		"protein_g":   map[string]interface{}{"type": []string{"number", "null"}, "minimum": 0},
		"carbs_g":     map[string]interface{}{"type": []string{"number", "null"}, "minimum": 0},
		"fat_g":       map[string]interface{}{"type": []string{"number", "null"}, "minimum": 0},
		"confidence":  map[string]interface{}{"type": "number", "minimum": 0, "maximum": 1},
		"estimated":   map[string]interface{}{"type": "boolean"},
		"notes":       map[string]interface{}{"type": "string"},
	},
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	ResponseFormat interface{}   `json:"response_format"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (e *openAIExtractor) ExtractNutrition(ctx context.Context, text string) (Extraction, error) {
	reqBody := chatRequest{
		Model: e.model,
		Messages: []chatMessage{
			{Role: "system", Content: extractionPrompt},
			{Role: "user", Content: text},
		},
		ResponseFormat: map[string]interface{}{
			"type": "json_schema",
			"json_schema": map[string]interface{}{
				"name":   "nutrition_extraction",
				"strict": true,
				"schema": extractionSchema,
			},
		},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return Extraction{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return Extraction{}, err
	}
	req.Header.Set("Authorization", "Bearer "+e.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return Extraction{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Extraction{}, err
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return Extraction{}, fmt.Errorf("openai response malformed: %w", err)
	}
	if parsed.Error != nil {
		return Extraction{}, fmt.Errorf("openai error: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return Extraction{}, fmt.Errorf("openai returned no choices (status %d)", resp.StatusCode)
	}

	var extraction Extraction
	if err := json.Unmarshal([]byte(parsed.Choices[0].Message.Content), &extraction); err != nil {
		return Extraction{}, fmt.Errorf("openai extraction malformed: %w", err)
	}
	if extraction.Calories < 0 {
		extraction.Calories = 0
	}
	return extraction, nil
}
