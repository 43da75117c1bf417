package agent

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"todo-agent/internal/domain"
	"todo-agent/internal/llm"
)

// Orchestrator ejecuta un turno de chat: consulta al modelo, ejecuta a lo
// sumo una herramienta y produce el texto final. Contrato de un solo
// round-trip: nunca hay una segunda ejecución de herramienta por turno.
type Orchestrator struct {
	client     llm.Client
	registry   *Registry
	dispatcher *Dispatcher
	logger     *zap.Logger
}

func NewOrchestrator(client llm.Client, registry *Registry, dispatcher *Dispatcher, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		client:     client,
		registry:   registry,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// TurnResult es el desenlace de un turno. ToolResult queda vacío cuando el
// modelo respondió sin pedir herramientas.
type TurnResult struct {
	Response   string
	ToolName   string
	ToolCallID string
	ToolResult string
}

// RunTurn recibe el historial (ascendente por timestamp, sin el mensaje en
// vuelo) más el mensaje actual, y resuelve el turno completo.
func (o *Orchestrator) RunTurn(ctx context.Context, userID string, history []domain.Message, userMessage string) (TurnResult, error) {
	messages := make([]llm.Message, 0, len(history)+3)
	messages = append(messages, llm.Message{Role: domain.RoleSystem, Content: systemPrompt})
	for _, m := range history {
		messages = append(messages, llm.Message{Role: m.Role, Content: m.Content})
	}
	messages = append(messages, llm.Message{Role: domain.RoleUser, Content: userMessage})

	completion, err := o.client.Chat(ctx, messages, ChatTools(o.registry))
	if err != nil {
		return TurnResult{}, fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}

	if len(completion.ToolCalls) == 0 {
		return TurnResult{Response: completion.Content}, nil
	}

	// Solo se honra la primera llamada; las demás se descartan.
	call := completion.ToolCalls[0]
	if dropped := len(completion.ToolCalls) - 1; dropped > 0 {
		o.logger.Warn("model requested multiple tool calls, executing only the first",
			zap.String("tool", call.Name),
			zap.Int("dropped", dropped),
		)
	}

	toolContent, dispatchErr := o.dispatcher.Dispatch(ctx, call.Name, Arguments(call.Arguments), userID)
	if dispatchErr != nil {
		// Un fallo de herramienta nunca tumba el turno: se informa al
		// modelo para que lo explique al usuario.
		o.logger.Warn("tool dispatch failed",
			zap.String("tool", call.Name),
			zap.String("user_id", userID),
			zap.Error(dispatchErr),
		)
		toolContent = fmt.Sprintf("The operation failed: %v", dispatchErr)
	}

	messages = append(messages,
		llm.Message{Role: domain.RoleAssistant, ToolCalls: []llm.ToolCall{call}},
		llm.Message{Role: domain.RoleTool, ToolCallID: call.ID, Content: toolContent},
	)

	final, err := o.client.Chat(ctx, messages, nil)
	if err != nil {
		return TurnResult{}, fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}

	response := final.Content
	if response == "" {
		// Segunda respuesta sin texto (p.ej. otro tool call, que no se
		// ejecuta): el resultado de la herramienta sirve de respuesta.
		if len(final.ToolCalls) > 0 {
			o.logger.Warn("model requested a tool call on the final turn, not executed",
				zap.String("tool", final.ToolCalls[0].Name),
			)
		}
		response = toolContent
	}

	return TurnResult{
		Response:   response,
		ToolName:   call.Name,
		ToolCallID: call.ID,
		ToolResult: toolContent,
	}, nil
}
