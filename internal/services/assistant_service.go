package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// AssistantService talks to an OpenAI-compatible chat-completion backend for
// the farming assistant and the organic guide. When the backend fails, it
// answers with a clearly labeled fallback and logs the failure instead of
// fabricating a model response.
type AssistantService struct {
	client *openai.Client
	model  string
}

func NewAssistantService() *AssistantService {
	config := openai.DefaultConfig(os.Getenv("ASSISTANT_API_KEY"))
	if baseURL := os.Getenv("ASSISTANT_BASE_URL"); baseURL != "" {
		config.BaseURL = strings.TrimRight(baseURL, "/")
	}
	model := os.Getenv("ASSISTANT_MODEL")
	if model == "" {
		model = openai.GPT4oMini
	}
	return &AssistantService{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}
}

type AssistantAnswer struct {
	Answer   string `json:"answer"`
	Fallback bool   `json:"fallback"`
}

const assistantSystemPrompt = "You are an agricultural advisor for Indian smallholder farmers. " +
	"Answer briefly and practically, in plain language."

func (s *AssistantService) Ask(ctx context.Context, query string) *AssistantAnswer {
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: assistantSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: query},
		},
		Temperature: 0.2,
	})
	if err != nil {
		log.Printf("assistant backend failed: %v", err)
		return &AssistantAnswer{
			Answer:   "The assistant is currently unavailable. Please try again later or consult your local agricultural extension office.",
			Fallback: true,
		}
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		log.Printf("assistant backend returned no content")
		return &AssistantAnswer{
			Answer:   "The assistant is currently unavailable. Please try again later or consult your local agricultural extension office.",
			Fallback: true,
		}
	}
	return &AssistantAnswer{Answer: strings.TrimSpace(resp.Choices[0].Message.Content)}
}

type GuidePrinciple struct {
	Icon        string `json:"icon"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type OrganicGuide struct {
	Location   string           `json:"location"`
	Principles []GuidePrinciple `json:"principles"`
	Fallback   bool             `json:"fallback"`
}

// OrganicGuideFor asks the model for location-specific organic farming
// principles as a JSON array of {icon, title, description}.
func (s *AssistantService) OrganicGuideFor(ctx context.Context, location string) *OrganicGuide {
	prompt := fmt.Sprintf(
		"Generate a JSON array of organic farming principles for %s. "+
			"Each item must have fields: icon, title, description. "+
			"Return only valid JSON without any additional text or markdown code blocks.",
		location)

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: "You are an expert organic farming advisor. Reply ONLY valid JSON."},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.2,
	})
	if err != nil {
		log.Printf("organic guide backend failed: %v", err)
		return fallbackGuide(location)
	}
	if len(resp.Choices) == 0 {
		log.Printf("organic guide backend returned no choices")
		return fallbackGuide(location)
	}

	principles, err := parseGuideJSON(resp.Choices[0].Message.Content)
	if err != nil {
		log.Printf("organic guide response unparseable: %v", err)
		return fallbackGuide(location)
	}
	return &OrganicGuide{Location: location, Principles: principles}
}

// parseGuideJSON strips markdown fences the model sometimes adds and decodes
// the principles array.
func parseGuideJSON(raw string) ([]GuidePrinciple, error) {
	text := strings.TrimSpace(raw)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var principles []GuidePrinciple
	if err := json.Unmarshal([]byte(text), &principles); err != nil {
		return nil, err
	}
	for _, p := range principles {
		if p.Title == "" || p.Description == "" {
			return nil, fmt.Errorf("principle missing required fields")
		}
	}
	return principles, nil
}

func fallbackGuide(location string) *OrganicGuide {
	return &OrganicGuide{
		Location: location,
		Fallback: true,
		Principles: []GuidePrinciple{
			{Icon: "🌱", Title: "Soil Health Management", Description: "Build organic matter through composting, green manure, and cover crops to improve soil structure and fertility"},
			{Icon: "🔄", Title: "Crop Rotation", Description: "Rotate crops to prevent soil depletion, break pest cycles, and maintain soil nutrients"},
			{Icon: "🐞", Title: "Natural Pest Control", Description: "Use beneficial insects, companion planting, and organic pesticides to manage pests"},
			{Icon: "💧", Title: "Water Conservation", Description: "Implement drip irrigation, rainwater harvesting, and mulching to optimize water usage"},
		},
	}
}
