package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/campushub/campushub/internal/config"
	"github.com/campushub/campushub/internal/models"
	"github.com/campushub/campushub/pkg/logger"
	"github.com/ollama/ollama/api"
	"github.com/sashabaranov/go-openai"
	"google.golang.org/genai"
	"gorm.io/gorm"
)

// AIService turns rough project notes into a polished recruiting description
// using the configured LLM provider.
type AIService struct {
	db     *gorm.DB
	config *config.AIConfig
}

func NewAIService(db *gorm.DB, cfg *config.AIConfig) *AIService {
	return &AIService{db: db, config: cfg}
}

// GenerateDescription builds the prompt for a describe task and calls the
// configured provider.
func (s *AIService) GenerateDescription(ctx context.Context, task *DescribeTask) (string, error) {
	if s.config.APIKey == "" && s.config.Provider != "ollama" {
		return "", errors.New("AI provider not configured")
	}

	prompt := BuildDescribePrompt(task.Title, task.Tags, task.Notes)

	logger.Infof("[AI] Generating description: provider=%s, model=%s, project_id=%d",
		s.config.Provider, s.config.Model, task.ProjectID)

	switch s.config.Provider {
	case "anthropic":
		return s.callAnthropic(ctx, prompt)
	case "gemini":
		return s.callGemini(ctx, prompt)
	case "ollama":
		return s.callOllama(ctx, prompt)
	default:
		// openai and OpenAI-compatible endpoints
		return s.callOpenAI(ctx, prompt)
	}
}

// ProcessDescribeTask runs a queued describe job: generate the text and store
// it as the project's description draft.
func (s *AIService) ProcessDescribeTask(ctx context.Context, task *DescribeTask) error {
	content, err := s.GenerateDescription(ctx, task)
	if err != nil {
		LogError("ai", "describe", fmt.Sprintf("description generation failed for project %d: %v", task.ProjectID, err), &task.RequestedBy, "", "", nil)
		return err
	}

	res := s.db.Model(&models.Project{}).
		Where("id = ?", task.ProjectID).
		Update("description", content)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		logger.Warnf("[AI] Project %d vanished before description could be saved", task.ProjectID)
		return nil
	}

	LogInfo("ai", "describe", fmt.Sprintf("description generated for project %d", task.ProjectID), &task.RequestedBy, "", "", nil)
	return nil
}

// BuildDescribePrompt assembles the description-assist prompt from project
// title, tags and the owner's rough notes.
func BuildDescribePrompt(title, tags, notes string) string {
	var sb strings.Builder
	sb.WriteString("You are helping a student write a recruiting description for a campus project.\n\n")
	sb.WriteString(fmt.Sprintf("Project title: %s\n", title))
	if tags != "" {
		sb.WriteString(fmt.Sprintf("Tags: %s\n", tags))
	}
	if notes != "" {
		sb.WriteString(fmt.Sprintf("\nRough notes from the project owner:\n%s\n", notes))
	}
	sb.WriteString(`
Write a concise project description (150-300 words) that covers:
1. What the project is about and why it matters
2. What the team is building
3. What kind of teammates the project is looking for

Write in plain prose, no markdown headings. Do not invent facts that are not
implied by the title, tags or notes.`)
	return sb.String()
}

func (s *AIService) callOpenAI(ctx context.Context, prompt string) (string, error) {
	clientConfig := openai.DefaultConfig(s.config.APIKey)
	if s.config.BaseURL != "" {
		clientConfig.BaseURL = s.config.BaseURL
	}
	client := openai.NewClientWithConfig(clientConfig)

	temperature := float32(0.7)
	if s.config.Temperature > 0 {
		temperature = float32(s.config.Temperature)
	}

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.config.Model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		Temperature: temperature,
	})
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("no response from OpenAI")
	}

	return resp.Choices[0].Message.Content, nil
}

func (s *AIService) callAnthropic(ctx context.Context, prompt string) (string, error) {
	client := anthropic.NewClient(
		option.WithAPIKey(s.config.APIKey),
	)

	maxTokens := int64(s.config.MaxTokens)
	if maxTokens == 0 {
		maxTokens = 1024
	}

	model := s.config.Model
	if model == "" {
		model = "claude-sonnet-4-20250514"
	}

	resp, err := client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("Anthropic API error: %w", err)
	}

	var content string
	for _, block := range resp.Content {
		if block.Type == "text" {
			content += block.Text
		}
	}

	return content, nil
}

func (s *AIService) callGemini(ctx context.Context, prompt string) (string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: s.config.APIKey,
	})
	if err != nil {
		return "", fmt.Errorf("Gemini client error: %w", err)
	}

	model := s.config.Model
	if model == "" {
		model = "gemini-2.0-flash"
	}

	resp, err := client.Models.GenerateContent(ctx, model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}

	return resp.Text(), nil
}

func (s *AIService) callOllama(ctx context.Context, prompt string) (string, error) {
	baseURL := s.config.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid Ollama base URL: %w", err)
	}
	client := api.NewClient(u, http.DefaultClient)

	model := s.config.Model
	if model == "" {
		model = "llama3"
	}

	var content strings.Builder
	err = client.Chat(ctx, &api.ChatRequest{
		Model: model,
		Messages: []api.Message{
			{Role: "user", Content: prompt},
		},
		Options: map[string]interface{}{
			"temperature": s.config.Temperature,
		},
	}, func(resp api.ChatResponse) error {
		content.WriteString(resp.Message.Content)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("Ollama API error: %w", err)
	}

	return content.String(), nil
}
