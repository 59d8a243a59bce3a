package command

// Built-in commands available without any user configuration. They are
// registered programmatically and survive registry reloads.

const explainTemplate = `Please provide a detailed explanation of the following code:

{{#if args.file}}
File: {{args.file}}
{{/if}}

{{#if git_diff}}
Recent changes:
` + "```" + `
{{git_diff}}
` + "```" + `
{{/if}}

{{#if args.code}}
` + "```" + `
{{args.code}}
` + "```" + `
{{else}}{{#if files}}
Files to analyze:
{{#each files}}- {{this}}
{{/each}}
{{/if}}{{/if}}

Please explain:
1. What the code does
2. How it works (key logic and algorithms)
3. Any patterns or best practices used
4. Potential issues or improvements`

const reviewTemplate = `Please perform a comprehensive code review:

{{#if git_diff}}
Changes to review:
` + "```" + `
{{git_diff}}
` + "```" + `
{{else}}{{#if files}}
Files to review:
{{#each files}}- {{this}}
{{/each}}
{{/if}}{{/if}}

Review checklist:
1. **Code Quality**
   - Readability and maintainability
   - Naming conventions
   - Code organization

2. **Best Practices**
   - Design patterns
   - Error handling
   - Resource management

3. **Potential Issues**
   - Bugs or logical errors
   - Performance concerns
   - Security vulnerabilities

4. **Testing**
   - Test coverage
   - Edge cases
   - Test quality

5. **Suggestions**
   - Improvements
   - Refactoring opportunities
   - Documentation needs`

const testTemplate = `Please generate comprehensive test cases for:

{{#if args.function}}
Function: {{args.function}}
{{/if}}

{{#if args.code}}
Code:
` + "```" + `
{{args.code}}
` + "```" + `
{{else}}{{#if files}}
Files:
{{#each files}}- {{this}}
{{/each}}
{{/if}}{{/if}}

Generate tests covering:
1. **Happy Path**
   - Normal expected inputs
   - Successful execution flows

2. **Edge Cases**
   - Boundary values
   - Empty/null inputs
   - Maximum/minimum values

3. **Error Cases**
   - Invalid inputs
   - Error conditions
   - Exception handling

4. **Integration**
   - Dependencies
   - Side effects
   - State management

Format: {{#if args.format}}{{args.format}}{{else}}Framework-appropriate{{/if}}`

// BuiltinCommands returns the commands shipped with Tern.
func BuiltinCommands() []*Command {
	return []*Command{
		{
			Meta: Metadata{
				Name:        "explain",
				Description: "Explain code functionality with detailed analysis",
				Category:    "analysis",
			},
			Template: explainTemplate,
			Source:   SourceBuiltin,
		},
		{
			Meta: Metadata{
				Name:        "review",
				Description: "Perform comprehensive code review",
				Category:    "analysis",
			},
			Template: reviewTemplate,
			Source:   SourceBuiltin,
		},
		{
			Meta: Metadata{
				Name:        "test",
				Description: "Generate comprehensive test cases",
				Category:    "testing",
			},
			Template: testTemplate,
			Source:   SourceBuiltin,
		},
	}
}

// RegisterBuiltins registers all built-in commands on a registry.
func RegisterBuiltins(r *Registry) {
	for _, cmd := range BuiltinCommands() {
		r.Register(cmd)
	}
}
