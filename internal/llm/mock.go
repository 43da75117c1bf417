package llm

import "context"

// MockClient permite tests sin llamar a un LLM real. Las respuestas se
// consumen en orden, una por llamada a Chat.
type MockClient struct {
	Completions []Completion
	Errs        []error

	Calls     [][]Message
	ToolsSeen [][]ToolDefinition
	next      int
}

func (m *MockClient) Chat(_ context.Context, messages []Message, tools []ToolDefinition) (Completion, error) {
	m.Calls = append(m.Calls, messages)
	m.ToolsSeen = append(m.ToolsSeen, tools)

	i := m.next
	m.next++

	if i < len(m.Errs) && m.Errs[i] != nil {
		return Completion{}, m.Errs[i]
	}
	if i < len(m.Completions) {
		return m.Completions[i], nil
	}
	return Completion{Content: "ok"}, nil
}
