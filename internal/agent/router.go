package agent

import (
	"sort"
	"sync"

	"github.com/tern-ai/tern/internal/logging"
)

// DefaultActivationThreshold is the minimum score an agent must reach
// to be selected for a task.
const DefaultActivationThreshold = 0.6

// Router selects the best agent for a given task context.
type Router struct {
	mu        sync.RWMutex
	agents    map[string]Agent
	threshold float64
}

// NewRouter creates a new router with the default activation threshold.
func NewRouter() *Router {
	return &Router{
		agents:    make(map[string]Agent),
		threshold: DefaultActivationThreshold,
	}
}

// Register adds an agent to the router, replacing any agent with the
// same ID.
func (r *Router) Register(a Agent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.agents[a.ID()] = a
}

// Get returns the agent registered under id.
func (r *Router) Get(id string) (Agent, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.agents[id]
	return a, ok
}

// SetThreshold updates the activation threshold, clamped to [0, 1].
func (r *Router) SetThreshold(threshold float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.threshold = ClampScore(threshold)
}

// Threshold returns the current activation threshold.
func (r *Router) Threshold() float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.threshold
}

// scored pairs an agent with its clamped activation score.
type scored struct {
	agent Agent
	score float64
}

// rank scores every registered agent against the context, ordered by
// score descending with ties broken by agent ID ascending so the
// outcome never depends on map iteration order.
func (r *Router) rank(taskCtx *TaskContext) []scored {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ranked := make([]scored, 0, len(r.agents))
	for _, a := range r.agents {
		ranked = append(ranked, scored{agent: a, score: ClampScore(a.CanHandle(taskCtx))})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].agent.ID() < ranked[j].agent.ID()
	})
	return ranked
}

// SelectAgent returns the highest-scoring agent if its score meets the
// activation threshold, or nil if no agent qualifies.
func (r *Router) SelectAgent(taskCtx *TaskContext) Agent {
	ranked := r.rank(taskCtx)
	if len(ranked) == 0 {
		return nil
	}

	top := ranked[0]
	if top.score < r.Threshold() {
		logging.Debug().
			Str("agent", top.agent.ID()).
			Float64("score", top.score).
			Float64("threshold", r.Threshold()).
			Msg("best agent below activation threshold")
		return nil
	}
	return top.agent
}

// RankedAgent pairs an agent's identity with its activation score.
type RankedAgent struct {
	AgentID     string  `json:"agentId"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Score       float64 `json:"score"`
}

// SuggestAgents returns the top-k agents ranked by activation score.
func (r *Router) SuggestAgents(taskCtx *TaskContext, topK int) []RankedAgent {
	ranked := r.rank(taskCtx)
	if topK < len(ranked) {
		ranked = ranked[:topK]
	}

	suggestions := make([]RankedAgent, 0, len(ranked))
	for _, s := range ranked {
		suggestions = append(suggestions, RankedAgent{
			AgentID:     s.agent.ID(),
			Name:        s.agent.Name(),
			Description: s.agent.Description(),
			Score:       s.score,
		})
	}
	return suggestions
}
