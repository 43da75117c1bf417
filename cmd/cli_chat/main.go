package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"todo-agent/internal/agent"
	"todo-agent/internal/config"
	"todo-agent/internal/db"
	"todo-agent/internal/domain"
	"todo-agent/internal/llm"
	"todo-agent/internal/repository"
	"todo-agent/internal/service"
)

// REPL de prueba manual contra el loop de chat, sin pasar por HTTP.
func main() {
	ctx := context.Background()
	reader := bufio.NewReader(os.Stdin)

	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := zap.NewExample()
	defer logger.Sync()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer pool.Close()

	userRepo := repository.NewPgUserRepository(pool)
	taskRepo := repository.NewPgTaskRepository(pool)
	conversationRepo := repository.NewPgConversationRepository(pool)
	messageRepo := repository.NewPgMessageRepository(pool)

	llmClient := llm.NewHTTPClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel, time.Duration(cfg.LLMTimeoutSeconds)*time.Second, logger)

	taskSvc := service.NewTaskService(logger, taskRepo)
	registry, err := agent.NewTaskRegistry(taskSvc)
	if err != nil {
		log.Fatal(err)
	}
	dispatcher := agent.NewDispatcher(registry, logger)
	orchestrator := agent.NewOrchestrator(llmClient, registry, dispatcher, logger)
	chatSvc := service.NewChatService(logger, conversationRepo, messageRepo, orchestrator, cfg.ChatHistoryLimit)

	user, err := ensureUser(ctx, userRepo, "cli_test@example.com")
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("todo-agent chat. Escribe 'exit' para salir.")
	conversationID := ""
	for {
		fmt.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "exit" {
			return
		}

		result, err := chatSvc.ProcessChat(ctx, user.ID, line, conversationID)
		if err != nil {
			fmt.Printf("error: %v\n", err)
			continue
		}
		conversationID = result.ConversationID
		fmt.Println(result.Response)
	}
}

func ensureUser(ctx context.Context, users repository.UserRepository, email string) (domain.User, error) {
	user, err := users.GetByEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, err
	}

	user = domain.User{
		ID:        uuid.NewString(),
		Email:     email,
		Name:      "CLI Tester",
		CreatedAt: time.Now().UTC(),
	}
	if err := users.Create(ctx, user); err != nil {
		return domain.User{}, err
	}
	return user, nil
}
