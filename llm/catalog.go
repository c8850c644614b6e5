package llm

// ModelInfo describes a known model in the catalog.
type ModelInfo struct {
	ID            string   `json:"id"`
	Provider      string   `json:"provider"`
	DisplayName   string   `json:"display_name"`
	ContextWindow int      `json:"context_window"`
	SupportsTools bool     `json:"supports_tools"`
	Aliases       []string `json:"aliases,omitempty"`
}

// Models is the built-in model catalog.
var Models = []ModelInfo{
	// OpenAI
	{
		ID: "gpt-4o", Provider: "openai", DisplayName: "GPT-4o",
		ContextWindow: 128000, SupportsTools: true,
		Aliases: []string{"gpt4o"},
	},
	{
		ID: "gpt-4o-mini", Provider: "openai", DisplayName: "GPT-4o Mini",
		ContextWindow: 128000, SupportsTools: true,
		Aliases: []string{"gpt4o-mini"},
	},
	{
		ID: "gpt-4", Provider: "openai", DisplayName: "GPT-4",
		ContextWindow: 8192, SupportsTools: true,
		Aliases: []string{"gpt4"},
	},

	// Anthropic
	{
		ID: "claude-sonnet-4-5", Provider: "anthropic", DisplayName: "Claude Sonnet 4.5",
		ContextWindow: 200000, SupportsTools: true,
		Aliases: []string{"sonnet", "claude-sonnet"},
	},
	{
		ID: "claude-haiku-4-5", Provider: "anthropic", DisplayName: "Claude Haiku 4.5",
		ContextWindow: 200000, SupportsTools: true,
		Aliases: []string{"haiku", "claude-haiku"},
	},
}

// GetModelInfo returns the catalog entry for a model, or nil if unknown.
func GetModelInfo(modelID string) *ModelInfo {
	for i := range Models {
		if Models[i].ID == modelID {
			return &Models[i]
		}
		for _, alias := range Models[i].Aliases {
			if alias == modelID {
				return &Models[i]
			}
		}
	}
	return nil
}

// ListModels returns all known models, optionally filtered by provider.
func ListModels(provider string) []ModelInfo {
	if provider == "" {
		result := make([]ModelInfo, len(Models))
		copy(result, Models)
		return result
	}
	var result []ModelInfo
	for _, m := range Models {
		if m.Provider == provider {
			result = append(result, m)
		}
	}
	return result
}

// DefaultModel returns the first catalog model for a provider, or "" if the
// provider has none.
func DefaultModel(provider string) string {
	for _, m := range Models {
		if m.Provider == provider {
			return m.ID
		}
	}
	return ""
}

// ContextWindowFor returns the context window for a model, falling back to
// a conservative default for models not in the catalog.
func ContextWindowFor(modelID string) int {
	if info := GetModelInfo(modelID); info != nil {
		return info.ContextWindow
	}
	return 128000
}
