package command

import (
	"fmt"

	"github.com/tern-ai/tern/internal/logging"
)

// ArgType is the declared type of a command argument.
type ArgType string

const (
	ArgString  ArgType = "string"
	ArgNumber  ArgType = "number"
	ArgBoolean ArgType = "boolean"
	ArgFile    ArgType = "file"
)

// validArgType reports whether t is one of the declared argument types.
func validArgType(t ArgType) bool {
	switch t {
	case ArgString, ArgNumber, ArgBoolean, ArgFile:
		return true
	}
	return false
}

// ArgDefinition declares one command parameter.
// A definition may not be both required and defaulted.
type ArgDefinition struct {
	Name        string  `json:"name"`
	Type        ArgType `json:"type"`
	Required    bool    `json:"required"`
	Description string  `json:"description,omitempty"`
	Default     *string `json:"default,omitempty"`
}

// MapArguments reconciles an invocation's positional and named
// arguments against a command's declared parameters.
//
// Positional tokens fill parameters in declaration order; extras are
// dropped with a diagnostic. Named arguments are applied afterwards and
// override positional assignments regardless of token order in the
// input. Unknown named arguments are a hard error. Unset parameters
// receive their declared default, and every required parameter must end
// up with a value.
func MapArguments(inv *Invocation, defs []ArgDefinition) (map[string]string, error) {
	mapped := make(map[string]string)

	for i, value := range inv.RawArgs {
		if i >= len(defs) {
			logging.Debug().
				Str("command", inv.Name).
				Str("value", value).
				Msg("dropping extra positional argument")
			continue
		}
		mapped[defs[i].Name] = value
	}

	for key, value := range inv.Args {
		if !declared(defs, key) {
			return nil, &UnknownArgumentError{Argument: key, Command: inv.Name}
		}
		mapped[key] = value
	}

	for _, def := range defs {
		if _, ok := mapped[def.Name]; ok {
			continue
		}
		if def.Default != nil {
			mapped[def.Name] = *def.Default
		}
	}

	for _, def := range defs {
		if !def.Required {
			continue
		}
		if _, ok := mapped[def.Name]; !ok {
			return nil, &MissingArgumentError{Argument: def.Name, Command: inv.Name}
		}
	}

	return mapped, nil
}

func declared(defs []ArgDefinition, name string) bool {
	for _, def := range defs {
		if def.Name == name {
			return true
		}
	}
	return false
}

// validateArgDefinition checks the invariants of a single declaration.
func validateArgDefinition(def ArgDefinition) error {
	if def.Name == "" {
		return fmt.Errorf("argument name must not be empty")
	}
	if def.Type != "" && !validArgType(def.Type) {
		return fmt.Errorf("argument '%s' has unknown type '%s'", def.Name, def.Type)
	}
	if def.Required && def.Default != nil {
		return fmt.Errorf("argument '%s' cannot be both required and have a default value", def.Name)
	}
	return nil
}
