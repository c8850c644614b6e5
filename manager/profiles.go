package manager

// Profile is a named agent configuration: a system prompt plus the tools the
// agent may call. The final answer tool is always available and is not listed
// here.
type Profile struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Instructions string   `json:"instructions"`
	Tools        []string `json:"tools"`
}

// BuiltinProfiles returns the stock agent profiles, keyed by name.
func BuiltinProfiles() map[string]Profile {
	return map[string]Profile{
		"default": {
			Name:         "default",
			Description:  "General purpose conversational agent",
			Instructions: "You are a helpful AI assistant.",
		},
		"research": {
			Name:         "research",
			Description:  "Specialized in research and information gathering",
			Instructions: "You are a research specialist. Help users find and analyze information.",
			Tools:        []string{"web_search", "file_reader"},
		},
		"coding": {
			Name:         "coding",
			Description:  "Specialized in programming and code analysis",
			Instructions: "You are a programming expert. Help with coding, debugging, and development.",
			Tools:        []string{"python_executor", "file_reader"},
		},
		"analysis": {
			Name:         "analysis",
			Description:  "Specialized in data analysis and insights",
			Instructions: "You are a data analyst. Help analyze data and provide insights.",
			Tools:        []string{"python_executor", "file_reader"},
		},
		"creative": {
			Name:         "creative",
			Description:  "Specialized in creative tasks and writing",
			Instructions: "You are a creative assistant. Help with writing, brainstorming, and creative tasks.",
			Tools:        []string{"file_reader"},
		},
	}
}
