package command

import (
	"github.com/aymerick/raymond"
)

// Expander renders command templates against a CommandContext.
//
// Templates use handlebars syntax: {{var}} substitution with dotted
// paths, {{#if}}/{{else}} conditionals, and {{#each}}/{{this}}
// iteration. Rendering is non-strict: a reference to an undefined
// variable renders as the empty string. Malformed template syntax is a
// TemplateError.
type Expander struct{}

// NewExpander creates a template expander.
func NewExpander() *Expander {
	return &Expander{}
}

// Expand renders template against cmdCtx. commandName is only used in
// error messages.
func (e *Expander) Expand(commandName, template string, cmdCtx *CommandContext) (string, error) {
	tpl, err := raymond.Parse(template)
	if err != nil {
		return "", &TemplateError{Command: commandName, Err: err}
	}

	out, err := tpl.Exec(cmdCtx.templateData())
	if err != nil {
		return "", &TemplateError{Command: commandName, Err: err}
	}
	return out, nil
}
