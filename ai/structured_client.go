package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"tinysteps/internal/config"
)

// StructuredClient provides typed JSON responses from LLM calls
type StructuredClient[T any] struct {
	OpenAIClient  *OpenAIClient
	PromptManager *PromptManager
	SystemContext string
}

// OpenAIClient represents the OpenAI client interface
type OpenAIClient struct {
	APIKey      string
	BaseURL     string
	Timeout     time.Duration
	Temperature float64
	MaxTokens   int
	Model       string
}

// ResponseFormat forces structured output from the chat completions API
type ResponseFormat struct {
	Type string `json:"type"` // "json_object" for structured output
}

// NewStructuredClient creates a new structured client
func NewStructuredClient[T any](cfg config.AIConfig, pm *PromptManager) *StructuredClient[T] {
	log.Printf("[StructuredClient] Initializing client with model=%s, temp=%.2f, maxTokens=%d",
		cfg.OpenAIModel, cfg.Temperature, cfg.MaxTokens)

	return &StructuredClient[T]{
		OpenAIClient: &OpenAIClient{
			APIKey:      cfg.OpenAIKey,
			BaseURL:     "https://api.openai.com/v1",
			Timeout:     30 * time.Second,
			Temperature: cfg.Temperature,
			MaxTokens:   cfg.MaxTokens,
			Model:       cfg.OpenAIModel,
		},
		PromptManager: pm,
		SystemContext: cfg.SystemContext,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model               string          `json:"model"`
	Messages            []chatMessage   `json:"messages"`
	Temperature         float64         `json:"temperature,omitempty"`
	MaxCompletionTokens int             `json:"max_completion_tokens,omitempty"`
	ResponseFormat      *ResponseFormat `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// complete performs one chat completion round trip and returns the raw
// message content.
func (client *StructuredClient[T]) complete(ctx context.Context, prompt, systemMessage string, jsonMode bool) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, client.OpenAIClient.Timeout)
	defer cancel()

	systemContent := systemMessage
	if systemContent == "" {
		systemContent = client.SystemContext
	}
	if jsonMode && !strings.Contains(strings.ToLower(systemContent), "json") {
		systemContent = systemContent + "\n\nIMPORTANT: Respond with valid JSON output."
	}

	reqBody := chatRequest{
		Model: client.OpenAIClient.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemContent},
			{Role: "user", Content: prompt},
		},
		Temperature:         client.OpenAIClient.Temperature,
		MaxCompletionTokens: client.OpenAIClient.MaxTokens,
	}
	if jsonMode {
		reqBody.ResponseFormat = &ResponseFormat{Type: "json_object"}
	}

	log.Printf("[StructuredClient] Sending request to %s - promptLength=%d, temp=%.2f",
		client.OpenAIClient.Model, len(prompt), client.OpenAIClient.Temperature)

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", client.OpenAIClient.BaseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+client.OpenAIClient.APIKey)

	httpClient := &http.Client{Timeout: client.OpenAIClient.Timeout}
	resp, err := httpClient.Do(req)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("request timeout after %v: %w", client.OpenAIClient.Timeout, err)
		}
		return "", fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("OpenAI API error (status %d): %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	var chat chatResponse
	if err := json.Unmarshal(body, &chat); err != nil {
		return "", fmt.Errorf("failed to parse OpenAI response: %w", err)
	}
	if len(chat.Choices) == 0 {
		return "", fmt.Errorf("no choices in OpenAI response")
	}

	return chat.Choices[0].Message.Content, nil
}

// GetJsonResponse makes a typed LLM call and parses the JSON response
func (client *StructuredClient[T]) GetJsonResponse(ctx context.Context, prompt string) (*T, error) {
	content, err := client.complete(ctx, prompt, "", true)
	if err != nil {
		return nil, err
	}

	content = cleanJSONContent(content)

	var result T
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		log.Printf("[StructuredClient] ERROR: Failed to unmarshal JSON content into result type: %v", err)
		return nil, fmt.Errorf("failed to parse JSON content into result type: %w\nCleaned content: %s", err, content)
	}

	return &result, nil
}

// GetJsonResponseFromPrompt loads an external prompt template, renders it, and
// gets a structured response
func (client *StructuredClient[T]) GetJsonResponseFromPrompt(ctx context.Context, promptName string, replacements map[string]string) (*T, error) {
	prompt, err := client.PromptManager.RenderPrompt(promptName, replacements)
	if err != nil {
		return nil, fmt.Errorf("failed to load/render prompt: %w", err)
	}
	return client.GetJsonResponse(ctx, prompt)
}

// GetTextResponse makes an untyped LLM call and returns the trimmed content
func (client *StructuredClient[T]) GetTextResponse(ctx context.Context, promptName string, replacements map[string]string) (string, error) {
	prompt, err := client.PromptManager.RenderPrompt(promptName, replacements)
	if err != nil {
		return "", fmt.Errorf("failed to load/render prompt: %w", err)
	}

	content, err := client.complete(ctx, prompt, "", false)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(content), nil
}

// cleanJSONContent removes markdown code blocks and common chatter that
// models wrap around JSON payloads
func cleanJSONContent(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```json") && strings.HasSuffix(content, "```") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimSuffix(content, "```")
		content = strings.TrimSpace(content)
	} else if strings.HasPrefix(content, "```") && strings.HasSuffix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSuffix(content, "```")
		content = strings.TrimSpace(content)
	}

	lines := strings.Split(content, "\n")
	cleanedLines := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" ||
			strings.HasPrefix(strings.ToLower(line), "here is") ||
			strings.HasPrefix(strings.ToLower(line), "the json") ||
			strings.HasPrefix(strings.ToLower(line), "output:") ||
			strings.HasPrefix(strings.ToLower(line), "response:") ||
			strings.HasPrefix(strings.ToLower(line), "##") {
			continue
		}
		cleanedLines = append(cleanedLines, line)
	}
	content = strings.TrimSpace(strings.Join(cleanedLines, "\n"))

	// Trim a leading chatter line that survived the filters above
	if strings.Contains(content, "\n{") {
		parts := strings.SplitN(content, "\n{", 2)
		if len(parts) == 2 && !strings.Contains(parts[0], "{") && !strings.Contains(parts[0], "[") {
			content = "{" + parts[1]
		}
	} else if strings.Contains(content, "\n[") {
		parts := strings.SplitN(content, "\n[", 2)
		if len(parts) == 2 && !strings.Contains(parts[0], "{") && !strings.Contains(parts[0], "[") {
			content = "[" + parts[1]
		}
	}

	return content
}
