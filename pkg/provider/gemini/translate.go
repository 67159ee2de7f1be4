package gemini

import (
	"strings"

	"google.golang.org/genai"

	"github.com/rhuss/coursebot/pkg/provider"
)

const continuationInstruction = "Please provide a response based on the tool results above. " +
	"You can use additional tools if you need more information."

// TranslateTools converts tool definitions into a single genai.Tool
// holding one function declaration per definition. The JSON schema is
// passed through unchanged.
func (p *Provider) TranslateTools(tools []provider.ToolDefinition) []*genai.Tool {
	if len(tools) == 0 {
		return nil
	}

	decls := make([]*genai.FunctionDeclaration, 0, len(tools))
	for _, t := range tools {
		decls = append(decls, &genai.FunctionDeclaration{
			Name:                 t.Name,
			Description:          t.Description,
			ParametersJsonSchema: t.InputSchema.Map(),
		})
	}
	return []*genai.Tool{{FunctionDeclarations: decls}}
}

// initialPrompt flattens system prompt, history and query into one text.
func initialPrompt(req provider.GenerateRequest) string {
	var b strings.Builder
	b.WriteString(provider.ComposeSystem(req.SystemPrompt, req.History))
	writeUserTurn(&b, req.Query)
	return b.String()
}

// continuationPrompt rebuilds the exchange as text: the question, what the
// assistant said before asking for tools, and one line per tool result.
func continuationPrompt(req provider.ContinueRequest) string {
	var b strings.Builder
	b.WriteString(provider.ComposeSystem(req.SystemPrompt, req.History))
	writeUserTurn(&b, req.Query)

	if req.Prior.Content != "" {
		b.WriteString("\n\nAssistant: ")
		b.WriteString(req.Prior.Content)
	}

	b.WriteString("\n\nAssistant used tools and got these results:\n")
	for _, r := range req.Results {
		b.WriteString("- ")
		if name := provider.ToolNameFor(req.Prior, r.ToolCallID); name != "" {
			b.WriteString(name)
			if r.IsError {
				b.WriteString(" (error)")
			}
			b.WriteString(": ")
		}
		b.WriteString(r.Content)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(continuationInstruction)
	return b.String()
}

func writeUserTurn(b *strings.Builder, query string) {
	if query == "" {
		return
	}
	if b.Len() > 0 {
		b.WriteString("\n\n")
	}
	b.WriteString("User: ")
	b.WriteString(query)
}
