package agentic

// Context field names usable in a Definition's InjectedFields.
const (
	FieldSessionID      = "session_id"
	FieldUserID         = "user_id"
	FieldAgentID        = "agent_id"
	FieldWorkspaceID    = "workspace_id"
	FieldIndexName      = "index_name"
	FieldProducts       = "products"
	FieldMessageHistory = "message_history"
	FieldMetadata       = "metadata"
)

// knownContextFields is the set of field names that may be injected.
var knownContextFields = map[string]bool{
	FieldSessionID:      true,
	FieldUserID:         true,
	FieldAgentID:        true,
	FieldWorkspaceID:    true,
	FieldIndexName:      true,
	FieldProducts:       true,
	FieldMessageHistory: true,
	FieldMetadata:       true,
}

// Context is the mutable, session-scoped conversation state shared between
// one agent loop invocation and its tools. It owns the ordered turn log and
// a free-form metadata map. Single-owner: no internal locking; concurrent
// conversations use independent Context instances.
type Context struct {
	SessionID   string         `json:"session_id"`
	UserID      string         `json:"user_id,omitempty"`
	AgentID     string         `json:"agent_id,omitempty"`
	WorkspaceID string         `json:"workspace_id,omitempty"`
	IndexName   string         `json:"index_name,omitempty"`
	Products    []string       `json:"products,omitempty"`
	Turns       []Turn         `json:"turns"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// NewContext creates an empty Context for a session.
func NewContext(sessionID string) *Context {
	return &Context{
		SessionID: sessionID,
		Metadata:  make(map[string]any),
	}
}

// Append adds turns to the end of the log. The log is append-only; the loop
// never reorders or prunes it.
func (c *Context) Append(turns ...Turn) {
	c.Turns = append(c.Turns, turns...)
}

// AllTurns returns a copy of the full turn log.
func (c *Context) AllTurns() []Turn {
	out := make([]Turn, len(c.Turns))
	copy(out, c.Turns)
	return out
}

// LastTurns returns a copy of the most recent n turns, or all turns when
// fewer exist.
func (c *Context) LastTurns(n int) []Turn {
	if n <= 0 {
		return nil
	}
	if n > len(c.Turns) {
		n = len(c.Turns)
	}
	out := make([]Turn, n)
	copy(out, c.Turns[len(c.Turns)-n:])
	return out
}

// Clear removes all turns from the log. Metadata and identity fields are
// kept.
func (c *Context) Clear() {
	c.Turns = nil
}

// Meta reads a metadata value.
func (c *Context) Meta(key string) (any, bool) {
	v, ok := c.Metadata[key]
	return v, ok
}

// SetMeta writes a metadata value.
func (c *Context) SetMeta(key string, value any) {
	if c.Metadata == nil {
		c.Metadata = make(map[string]any)
	}
	c.Metadata[key] = value
}

// Field resolves an injectable field by name. The second return is false
// for names outside the known field set.
func (c *Context) Field(name string) (any, bool) {
	switch name {
	case FieldSessionID:
		return c.SessionID, true
	case FieldUserID:
		return c.UserID, true
	case FieldAgentID:
		return c.AgentID, true
	case FieldWorkspaceID:
		return c.WorkspaceID, true
	case FieldIndexName:
		return c.IndexName, true
	case FieldProducts:
		return c.Products, true
	case FieldMessageHistory:
		return c.AllTurns(), true
	case FieldMetadata:
		return c.Metadata, true
	default:
		return nil, false
	}
}
