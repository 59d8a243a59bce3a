package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tern-ai/tern/internal/agent"
	"github.com/tern-ai/tern/internal/command"
)

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// listCommands returns the registered command summaries, optionally
// filtered by ?category=.
func (s *Server) listCommands(w http.ResponseWriter, r *http.Request) {
	var cmds []*command.Command
	if category := r.URL.Query().Get("category"); category != "" {
		cmds = s.registry.FilterByCategory(category)
	} else {
		cmds = s.registry.List()
	}

	infos := make([]command.Info, 0, len(cmds))
	for _, cmd := range cmds {
		infos = append(infos, cmd.Info())
	}
	writeJSON(w, http.StatusOK, infos)
}

// getCommand returns a single command's full metadata and template.
func (s *Server) getCommand(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	cmd, ok := s.registry.Get(name)
	if !ok {
		writeError(w, http.StatusNotFound, ErrCodeNotFound, "command not found: /"+name)
		return
	}
	writeJSON(w, http.StatusOK, cmd)
}

type runRequest struct {
	Input  string               `json:"input"`
	Format command.OutputFormat `json:"format,omitempty"`
}

type runResponse struct {
	Output string `json:"output"`
}

// runCommand parses and executes raw slash command input.
func (s *Server) runCommand(w http.ResponseWriter, r *http.Request) {
	var req runRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid JSON body")
		return
	}
	if req.Input == "" {
		writeError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "input required")
		return
	}

	ec := command.NewExecutionContext(r.Context(), s.config.Directory, s.env)
	ec.Mode = agent.ModeAutomated

	// The format is per-request; the shared executor is never mutated
	// by a handler.
	output, err := s.executor.ExecuteInputAs(r.Context(), req.Input, ec, req.Format)
	if err != nil {
		writeError(w, statusFor(err), ErrCodeExecution, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, runResponse{Output: output})
}

// suggestAgents ranks registered agents against an intent string.
func (s *Server) suggestAgents(w http.ResponseWriter, r *http.Request) {
	intent := r.URL.Query().Get("intent")
	taskCtx := &agent.TaskContext{
		Mode:       agent.ModeAutomated,
		UserIntent: intent,
	}
	writeJSON(w, http.StatusOK, s.agents.SuggestAgents(taskCtx, 5))
}

// statusFor maps executor errors onto HTTP status codes.
func statusFor(err error) int {
	var notFound *command.NotFoundError
	var agentMissing *command.AgentNotFoundError
	switch {
	case errors.As(err, &notFound), errors.As(err, &agentMissing):
		return http.StatusNotFound
	case errors.Is(err, command.ErrEmptyCommand),
		errors.Is(err, command.ErrMissingSlash),
		errors.Is(err, command.ErrUnclosedQuotes),
		errors.Is(err, command.ErrTrailingEscape):
		return http.StatusBadRequest
	default:
		return http.StatusUnprocessableEntity
	}
}
