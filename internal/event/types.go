package event

// EventType represents the type of event.
type EventType string

const (
	CommandExecuted   EventType = "command.executed"
	CommandRegistered EventType = "command.registered"
	RegistryReloaded  EventType = "registry.reloaded"
	FileEdited        EventType = "file.edited"
	PermissionDenied  EventType = "permission.denied"
	AgentSelected     EventType = "agent.selected"
)

// CommandExecutedData is the payload for CommandExecuted events.
type CommandExecutedData struct {
	Command string `json:"command"`
	Agent   string `json:"agent,omitempty"`
}

// CommandRegisteredData is the payload for CommandRegistered events.
type CommandRegisteredData struct {
	Command string `json:"command"`
	Source  string `json:"source"`
}

// RegistryReloadedData is the payload for RegistryReloaded events.
type RegistryReloadedData struct {
	Count int `json:"count"`
}

// FileEditedData is the payload for FileEdited events.
type FileEditedData struct {
	Path string `json:"path"`
	Diff string `json:"diff,omitempty"`
}

// PermissionDeniedData is the payload for PermissionDenied events.
type PermissionDeniedData struct {
	Agent     string `json:"agent"`
	Operation string `json:"operation"`
	Target    string `json:"target"`
}

// AgentSelectedData is the payload for AgentSelected events.
type AgentSelectedData struct {
	Agent string  `json:"agent"`
	Score float64 `json:"score"`
}
