// Package command implements the slash command pipeline: invocation
// parsing, argument mapping, the hot-reloading command registry with
// its debounced file watcher, template expansion, and the executor
// that orchestrates template rendering or agent delegation.
package command
