// Package manager hosts agents on top of the execution loop: it owns the
// profile catalog, the shared tool registry, and session persistence, and
// exposes a chat operation that resumes or creates a session, drives one run,
// and saves the updated context.
package manager

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"github.com/spartacus-ai/spartacus/agentic"
	"github.com/spartacus-ai/spartacus/store"
)

// Agent is a created agent instance: a profile bound to an id.
type Agent struct {
	ID        string    `json:"agent_id"`
	Profile   Profile   `json:"profile"`
	CreatedAt time.Time `json:"created_at"`
}

// ChatResult is the outcome of one chat turn.
type ChatResult struct {
	RunID     string
	SessionID string
	AgentID   string
	Response  string
	Result    *agentic.RunResult
}

// ErrAgentNotFound is returned for unknown agent ids.
var ErrAgentNotFound = errors.New("agent not found")

// ErrUnknownProfile is returned when an agent is created from a profile name
// that does not exist.
var ErrUnknownProfile = errors.New("unknown profile")

// Manager owns agents and sessions. Safe for concurrent use.
type Manager struct {
	client   agentic.CompletionClient
	registry *agentic.Registry
	sessions store.SessionStore
	profiles map[string]Profile
	model    string
	loopCfg  agentic.Config
	logger   *slog.Logger

	mu     sync.RWMutex
	agents map[string]*Agent
}

// Option configures a Manager.
type Option func(*Manager)

// WithLoopConfig replaces the default loop configuration used for chat runs.
func WithLoopConfig(cfg agentic.Config) Option {
	return func(m *Manager) {
		m.loopCfg = cfg
	}
}

// WithLogger sets the structured logger. Defaults to a discarding logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithProfiles replaces the built-in profile catalog.
func WithProfiles(profiles map[string]Profile) Option {
	return func(m *Manager) {
		m.profiles = profiles
	}
}

// New creates a Manager. The registry must contain every tool any profile
// names, plus the final answer tool.
func New(client agentic.CompletionClient, registry *agentic.Registry, sessions store.SessionStore, model string, opts ...Option) (*Manager, error) {
	if client == nil {
		return nil, fmt.Errorf("a completion client is required")
	}
	if registry == nil {
		return nil, fmt.Errorf("a tool registry is required")
	}
	if sessions == nil {
		return nil, fmt.Errorf("a session store is required")
	}

	m := &Manager{
		client:   client,
		registry: registry,
		sessions: sessions,
		profiles: BuiltinProfiles(),
		model:    model,
		loopCfg:  defaultChatConfig(),
		agents:   make(map[string]*Agent),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.logger == nil {
		m.logger = slog.New(slog.DiscardHandler)
	}

	// Every profile's tool list must resolve against the registry now, not
	// at first chat.
	for name, p := range m.profiles {
		if _, err := m.registryFor(p); err != nil {
			return nil, fmt.Errorf("profile %s: %w", name, err)
		}
	}
	return m, nil
}

// ListProfiles returns profile names in sorted order.
func (m *Manager) ListProfiles() []string {
	names := make([]string, 0, len(m.profiles))
	for name := range m.profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetProfile looks up a profile by name.
func (m *Manager) GetProfile(name string) (Profile, bool) {
	p, ok := m.profiles[name]
	return p, ok
}

// CreateAgent instantiates an agent from a named profile.
func (m *Manager) CreateAgent(profileName string) (*Agent, error) {
	p, ok := m.profiles[profileName]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProfile, profileName)
	}

	agent := &Agent{
		ID:        uuid.New().String(),
		Profile:   p,
		CreatedAt: time.Now().UTC(),
	}

	m.mu.Lock()
	m.agents[agent.ID] = agent
	m.mu.Unlock()

	m.logger.Info("agent created", "agent_id", agent.ID, "profile", profileName)
	return agent, nil
}

// GetAgent looks up an agent by id.
func (m *Manager) GetAgent(agentID string) (*Agent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	agent, ok := m.agents[agentID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrAgentNotFound, agentID)
	}
	return agent, nil
}

// ListAgents returns all agents, ordered by creation time.
func (m *Manager) ListAgents() []*Agent {
	m.mu.RLock()
	defer m.mu.RUnlock()
	agents := make([]*Agent, 0, len(m.agents))
	for _, a := range m.agents {
		agents = append(agents, a)
	}
	sort.Slice(agents, func(i, j int) bool {
		return agents[i].CreatedAt.Before(agents[j].CreatedAt)
	})
	return agents
}

// DeleteAgent removes an agent. Its sessions remain in the store.
func (m *Manager) DeleteAgent(agentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.agents[agentID]; !ok {
		return fmt.Errorf("%w: %s", ErrAgentNotFound, agentID)
	}
	delete(m.agents, agentID)
	return nil
}

// Chat runs one conversational turn against an agent. An empty sessionID
// starts a new session; otherwise the saved context is loaded and resumed.
// The updated context is saved before returning, including after a run that
// exhausted its iteration budget.
func (m *Manager) Chat(ctx context.Context, agentID, sessionID, input string) (*ChatResult, error) {
	agent, err := m.GetAgent(agentID)
	if err != nil {
		return nil, err
	}

	conv, err := m.loadOrCreateSession(ctx, sessionID, agent)
	if err != nil {
		return nil, err
	}

	reg, err := m.registryFor(agent.Profile)
	if err != nil {
		return nil, err
	}

	loop, err := agentic.NewLoop(m.client, reg, agent.Profile.Instructions, m.model,
		agentic.WithConfig(m.loopCfg),
		agentic.WithLogger(m.logger),
	)
	if err != nil {
		return nil, err
	}

	runID := newRunID()
	m.logger.Info("chat run start",
		"run_id", runID, "agent_id", agentID, "session_id", conv.SessionID, "profile", agent.Profile.Name)

	result, runErr := loop.Run(ctx, conv, input)

	// Save whatever the run produced, even a partial transcript, so the
	// session can be resumed or inspected.
	if saveErr := m.sessions.Save(ctx, conv); saveErr != nil {
		m.logger.Error("session save failed", "session_id", conv.SessionID, "error", saveErr)
		if runErr == nil {
			return nil, saveErr
		}
	}
	if runErr != nil {
		return nil, runErr
	}

	m.logger.Info("chat run end",
		"run_id", runID, "session_id", conv.SessionID,
		"iterations", result.IterationCount, "tools", len(result.ToolsExecuted))

	return &ChatResult{
		RunID:     runID,
		SessionID: conv.SessionID,
		AgentID:   agentID,
		Response:  result.FinalText,
		Result:    result,
	}, nil
}

// ListSessions returns all saved session ids.
func (m *Manager) ListSessions(ctx context.Context) ([]string, error) {
	return m.sessions.List(ctx)
}

// GetSession returns a saved conversation context.
func (m *Manager) GetSession(ctx context.Context, sessionID string) (*agentic.Context, error) {
	return m.sessions.Load(ctx, sessionID)
}

// DeleteSession removes a saved session.
func (m *Manager) DeleteSession(ctx context.Context, sessionID string) error {
	return m.sessions.Delete(ctx, sessionID)
}

// loadOrCreateSession resumes a saved session or starts a fresh one bound to
// the agent.
func (m *Manager) loadOrCreateSession(ctx context.Context, sessionID string, agent *Agent) (*agentic.Context, error) {
	if sessionID == "" {
		conv := agentic.NewContext(uuid.New().String())
		conv.AgentID = agent.ID
		return conv, nil
	}

	conv, err := m.sessions.Load(ctx, sessionID)
	if err == nil {
		return conv, nil
	}
	if errors.Is(err, store.ErrSessionNotFound) {
		conv := agentic.NewContext(sessionID)
		conv.AgentID = agent.ID
		return conv, nil
	}
	return nil, err
}

// registryFor restricts the shared registry to the profile's tools plus the
// final answer tool.
func (m *Manager) registryFor(p Profile) (*agentic.Registry, error) {
	names := append([]string{}, p.Tools...)
	names = append(names, agentic.FinalAnswerToolName)
	return m.registry.Subset(names...)
}

// defaultChatConfig is the loop configuration for chat turns. Every Chat
// call carries fresh user input, so the input is appended unconditionally;
// the lookback heuristic would drop it on resumed sessions whose recent log
// already contains a user turn.
func defaultChatConfig() agentic.Config {
	cfg := agentic.DefaultConfig()
	cfg.AppendInput = agentic.AppendAlways
	return cfg
}

func newRunID() string {
	t := time.Now()
	entropy := ulid.Monotonic(rand.New(rand.NewSource(t.UnixNano())), 0)
	return ulid.MustNew(ulid.Timestamp(t), entropy).String()
}
