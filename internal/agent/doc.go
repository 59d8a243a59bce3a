// Package agent provides the agent contract, context-based routing, and
// the permission-checked toolkit handed to agents during execution.
//
// Agents are opaque collaborators: they advertise a suitability score
// for a task context and, when selected, run against a Toolkit that
// enforces their declared file, shell, and tool permissions.
package agent
