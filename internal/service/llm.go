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

	"github.com/pageza/receipt-chef/backend/config"
)

const (
	llmServiceName = "llm"

	ingredientSystemPrompt = "You are an assistant that identifies food ingredients from a product list."
	ingredientUserPrompt   = "불필요한 말 제외하고 다음 목록에서 요리 가능한 재료와 요리 할 수 없는 재료 분류해줘. 출력할 땐 상표와 원산지를 제외하고 품명만 알려줘.: %s"
)

// Message represents a message in the chat
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request represents a chat completion request
type Request struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
}

// Response is the subset of a chat completion response this service reads
type Response struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Index   int     `json:"index"`
		Message Message `json:"message"`
	} `json:"choices"`
}

// LLMService handles interactions with the chat completion API
type LLMService struct {
	apiKey string
	apiURL string
	model  string
	client *http.Client
}

// NewLLMService creates a new LLMService instance
func NewLLMService(cfg *config.Config, client *http.Client) *LLMService {
	if client == nil {
		client = &http.Client{Timeout: cfg.UpstreamTimeout}
	}
	return &LLMService{
		apiKey: cfg.OpenAIAPIKey,
		apiURL: cfg.OpenAIAPIURL,
		model:  cfg.OpenAIModel,
		client: client,
	}
}

// BuildIngredientPrompt embeds the recognized items into the classification instruction
func BuildIngredientPrompt(items []string) string {
	return fmt.Sprintf(ingredientUserPrompt, strings.Join(items, ", "))
}

// ClassifyIngredients asks the model to split receipt items into cookable and
// non-cookable ingredients and returns its free-text answer
func (s *LLMService) ClassifyIngredients(ctx context.Context, items []string) (string, error) {
	reqBody := Request{
		Model: s.model,
		Messages: []Message{
			{Role: "system", Content: ingredientSystemPrompt},
			{Role: "user", Content: BuildIngredientPrompt(items)},
		},
	}
	return s.complete(ctx, reqBody)
}

func (s *LLMService) complete(ctx context.Context, reqBody Request) (string, error) {
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", s.apiKey))

	resp, err := s.client.Do(req)
	if err != nil {
		return "", NewUpstreamError(llmServiceName, "completion request failed", 0, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", NewUpstreamError(llmServiceName, "failed to read response", resp.StatusCode, err)
	}

	if resp.StatusCode != http.StatusOK {
		log.Printf("[LLMService] API request failed with status %d: %s", resp.StatusCode, string(body))
		return "", NewUpstreamError(llmServiceName,
			fmt.Sprintf("completion request failed with status code %d", resp.StatusCode), resp.StatusCode, nil)
	}

	var result Response
	if err := json.Unmarshal(body, &result); err != nil {
		return "", NewUpstreamError(llmServiceName, "failed to decode response", resp.StatusCode, err)
	}

	if len(result.Choices) == 0 {
		return "", NewUpstreamError(llmServiceName, "no response from API", resp.StatusCode, nil)
	}

	return result.Choices[0].Message.Content, nil
}
