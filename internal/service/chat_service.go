package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"todo-agent/internal/agent"
	"todo-agent/internal/domain"
	"todo-agent/internal/repository"
)

// TurnRunner es el contrato del loop de orquestación que consume este servicio.
type TurnRunner interface {
	RunTurn(ctx context.Context, userID string, history []domain.Message, userMessage string) (agent.TurnResult, error)
}

// ChatService secuencia un turno de chat completo: resuelve o crea la
// conversación, persiste el mensaje del usuario, arma la ventana de
// historial, invoca el loop y persiste la respuesta. No hay transacción
// que abarque los pasos; cada escritura es atómica por sí sola.
type ChatService struct {
	logger        *zap.Logger
	conversations repository.ConversationRepository
	messages      repository.MessageRepository
	runner        TurnRunner
	historyLimit  int
}

// ChatResult es la respuesta del endpoint de chat.
type ChatResult struct {
	Response       string `json:"response"`
	ConversationID string `json:"conversation_id"`
	Status         string `json:"status"`
}

var ErrChatEmptyMessage = errors.New("chat message empty")

const defaultHistoryLimit = 10

func NewChatService(
	logger *zap.Logger,
	conversations repository.ConversationRepository,
	messages repository.MessageRepository,
	runner TurnRunner,
	historyLimit int,
) *ChatService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if historyLimit <= 0 {
		historyLimit = defaultHistoryLimit
	}
	return &ChatService{
		logger:        logger,
		conversations: conversations,
		messages:      messages,
		runner:        runner,
		historyLimit:  historyLimit,
	}
}

// ProcessChat ejecuta un turno para el usuario autenticado. Si el loop
// falla (modelo caído), el mensaje del usuario queda persistido y no se
// escribe ningún mensaje del asistente.
func (s *ChatService) ProcessChat(ctx context.Context, userID, messageText, conversationID string) (ChatResult, error) {
	messageText = strings.TrimSpace(messageText)
	if messageText == "" {
		return ChatResult{}, ErrChatEmptyMessage
	}

	conversation, err := s.resolveOrCreate(ctx, userID, conversationID)
	if err != nil {
		return ChatResult{}, err
	}

	now := time.Now().UTC()
	userMsg := domain.Message{
		ID:             uuid.NewString(),
		ConversationID: conversation.ID,
		Role:           domain.RoleUser,
		Content:        messageText,
		CreatedAt:      now,
	}
	if err := s.messages.Create(ctx, userMsg); err != nil {
		return ChatResult{}, err
	}

	// La ventana excluye el mensaje en vuelo: se entrega aparte como
	// turno actual para no duplicarlo en el contexto.
	history, err := s.messages.ListRecent(ctx, conversation.ID, s.historyLimit, userMsg.ID)
	if err != nil {
		return ChatResult{}, err
	}

	turn, err := s.runner.RunTurn(ctx, userID, history, messageText)
	if err != nil {
		return ChatResult{}, err
	}

	if turn.ToolResult != "" {
		// Registro de auditoría del resultado crudo de la herramienta.
		// No entra en la ventana de historial (solo user/assistant).
		toolMsg := domain.Message{
			ID:             uuid.NewString(),
			ConversationID: conversation.ID,
			Role:           domain.RoleTool,
			Content:        turn.ToolResult,
			ToolCallID:     turn.ToolCallID,
			CreatedAt:      time.Now().UTC(),
		}
		if err := s.messages.Create(ctx, toolMsg); err != nil {
			s.logger.Warn("persist tool message failed",
				zap.String("conversation_id", conversation.ID),
				zap.Error(err),
			)
		}
	}

	assistantMsg := domain.Message{
		ID:             uuid.NewString(),
		ConversationID: conversation.ID,
		Role:           domain.RoleAssistant,
		Content:        turn.Response,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.messages.Create(ctx, assistantMsg); err != nil {
		return ChatResult{}, err
	}

	if err := s.conversations.Touch(ctx, conversation.ID, assistantMsg.CreatedAt); err != nil {
		s.logger.Warn("touch conversation failed",
			zap.String("conversation_id", conversation.ID),
			zap.Error(err),
		)
	}

	return ChatResult{
		Response:       turn.Response,
		ConversationID: conversation.ID,
		Status:         "success",
	}, nil
}

// resolveOrCreate busca la conversación del usuario; un id desconocido o
// ajeno se trata como inexistente y dispara la creación de una nueva,
// para no filtrar qué ids existen.
func (s *ChatService) resolveOrCreate(ctx context.Context, userID, conversationID string) (domain.Conversation, error) {
	conversationID = strings.TrimSpace(conversationID)
	if conversationID != "" {
		conversation, err := s.conversations.GetByIDForUser(ctx, conversationID, userID)
		if err == nil {
			return conversation, nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return domain.Conversation{}, err
		}
	}

	now := time.Now().UTC()
	conversation := domain.Conversation{
		ID:        uuid.NewString(),
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.conversations.Create(ctx, conversation); err != nil {
		return domain.Conversation{}, err
	}
	return conversation, nil
}
