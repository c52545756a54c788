package dto

import "github.com/maoucrm/crm/internal/services"

// ChatSettingsDTO represents the chat settings. The API key is masked.
type ChatSettingsDTO struct {
	Provider  services.Provider `json:"provider"`
	Model     string            `json:"model"`
	APIKey    string            `json:"api_key"`
	HasAPIKey bool              `json:"has_api_key"`
}

// ToChatSettingsDTO masks secrets. Ollama and Custom carry a URL in the
// key field, which is shown as is.
func ToChatSettingsDTO(cfg services.ProviderConfig) ChatSettingsDTO {
	dto := ChatSettingsDTO{
		Provider:  cfg.Provider,
		Model:     cfg.Model,
		APIKey:    cfg.APIKey,
		HasAPIKey: cfg.APIKey != "",
	}
	if cfg.Provider == services.ProviderOpenAI {
		dto.APIKey = maskSecret(cfg.APIKey)
	}
	return dto
}

func maskSecret(secret string) string {
	if len(secret) <= 4 {
		if secret == "" {
			return ""
		}
		return "****"
	}
	return "****" + secret[len(secret)-4:]
}
