package services

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/maoucrm/crm/internal/constants"
	"github.com/maoucrm/crm/internal/models"
	"github.com/maoucrm/crm/internal/repository"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Provider names a chat-completion backend
type Provider string

const (
	ProviderOpenAI Provider = "OpenAI"
	ProviderOllama Provider = "Ollama"
	ProviderCustom Provider = "Custom"
)

// ProviderInfo describes what a provider needs, for settings forms
type ProviderInfo struct {
	Name            Provider `json:"name"`
	Models          []string `json:"models"`
	CredentialLabel string   `json:"credential_label"`
	CredentialHint  string   `json:"credential_hint,omitempty"`
}

// Providers lists the supported providers and their suggested models
func Providers() []ProviderInfo {
	return []ProviderInfo{
		{Name: ProviderOpenAI, Models: []string{"gpt-3.5-turbo", "gpt-4"}, CredentialLabel: "API key"},
		{Name: ProviderOllama, Models: []string{"llama2", "mistral", "codellama"}, CredentialLabel: "Base URL", CredentialHint: constants.DefaultOllamaURL},
		{Name: ProviderCustom, Models: []string{}, CredentialLabel: "Endpoint URL"},
	}
}

// ProviderConfig is the per-user chat configuration. APIKey carries the
// base URL for Ollama and the endpoint for Custom.
type ProviderConfig struct {
	Provider Provider `json:"provider"`
	Model    string   `json:"model"`
	APIKey   string   `json:"api_key"`
}

// DefaultProviderConfig is used when a user has saved nothing
func DefaultProviderConfig() ProviderConfig {
	return ProviderConfig{
		Provider: constants.DefaultChatProvider,
		Model:    constants.DefaultChatModel,
	}
}

// Validate checks that the configuration can reach a provider
func (c ProviderConfig) Validate() error {
	switch c.Provider {
	case ProviderOpenAI:
		if strings.TrimSpace(c.APIKey) == "" {
			return invalid("api_key", "is required for OpenAI")
		}
	case ProviderOllama:
		if c.APIKey != "" {
			if err := checkBaseURL(c.APIKey); err != nil {
				return err
			}
		}
	case ProviderCustom:
		if strings.TrimSpace(c.APIKey) == "" {
			return invalid("api_key", "must hold the endpoint URL for Custom")
		}
		if err := checkBaseURL(c.APIKey); err != nil {
			return err
		}
	default:
		return invalid("provider", fmt.Sprintf("must be one of %s, %s, %s", ProviderOpenAI, ProviderOllama, ProviderCustom))
	}

	if strings.TrimSpace(c.Model) == "" {
		return invalid("model", "is required")
	}
	return nil
}

func checkBaseURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return invalid("api_key", "must be an http(s) URL")
	}
	return nil
}

// SettingsService reads and writes the chat settings document
type SettingsService struct {
	repo repository.ChatSettingsRepository
}

// NewSettingsService creates a new SettingsService
func NewSettingsService(repo repository.ChatSettingsRepository) *SettingsService {
	return &SettingsService{repo: repo}
}

// Get returns the user's settings, falling back to defaults key by key
func (s *SettingsService) Get(userID uint64) (ProviderConfig, error) {
	cfg := DefaultProviderConfig()

	settings, err := s.repo.Find(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return cfg, nil
		}
		return cfg, storeError("load chat settings", err)
	}

	if v, ok := settings.Document["provider"].(string); ok && v != "" {
		cfg.Provider = Provider(v)
	}
	if v, ok := settings.Document["model"].(string); ok && v != "" {
		cfg.Model = v
	}
	if v, ok := settings.Document["api_key"].(string); ok {
		cfg.APIKey = v
	}

	return cfg, nil
}

// Save validates and stores the user's settings
func (s *SettingsService) Save(userID uint64, cfg ProviderConfig) (ProviderConfig, error) {
	cfg.Model = strings.TrimSpace(cfg.Model)
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)

	if err := cfg.Validate(); err != nil {
		return ProviderConfig{}, err
	}

	settings := &models.ChatSettings{
		UserID: userID,
		Document: datatypes.JSONMap{
			"provider": string(cfg.Provider),
			"model":    cfg.Model,
			"api_key":  cfg.APIKey,
		},
	}
	if err := s.repo.Upsert(settings); err != nil {
		return ProviderConfig{}, storeError("save chat settings", err)
	}

	return cfg, nil
}
