// Command trace_context prints the exact message list the chat assistant
// would send to the LLM for a conversation, without calling the model.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"health-portal-be/internal/config"
	"health-portal-be/internal/pkg/logger"
	"health-portal-be/internal/repository/specification"
	"health-portal-be/internal/repository/unitofwork"
	"health-portal-be/pkg/assistant/assembler"
	"health-portal-be/pkg/assistant/response"
	"health-portal-be/pkg/database"
	"health-portal-be/pkg/llm"
	"health-portal-be/pkg/stm"

	"github.com/fatih/color"
	"github.com/google/uuid"
)

var (
	conversationFlag = flag.String("conversation", "", "conversation id to trace")
	messageFlag      = flag.String("message", "(next user message)", "user message appended at the end")
)

func main() {
	flag.Parse()
	if *conversationFlag == "" {
		fmt.Fprintln(os.Stderr, "usage: trace_context -conversation <uuid> [-message text]")
		os.Exit(2)
	}
	conversationId, err := uuid.Parse(*conversationFlag)
	if err != nil {
		log.Fatalf("invalid conversation id: %v", err)
	}

	cfg := config.Load()
	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Fatalf("Unable to connect to GORM DB: %v", err)
	}

	ctx := context.Background()
	uowFactory := unitofwork.NewRepositoryFactory(db)

	conversation, err := uowFactory.NewUnitOfWork(ctx).ConversationRepository().FindOne(ctx,
		specification.ByID{ID: conversationId},
	)
	if err != nil {
		log.Fatalf("load conversation: %v", err)
	}
	if conversation == nil {
		log.Fatalf("conversation %s not found", conversationId)
	}

	cache := stm.NewCache(stm.NewMessageStore(uowFactory), logger.NewNopLogger(),
		stm.WithMaxTurns(cfg.Chat.StmMaxTurns),
		stm.WithHydrateLimit(cfg.Chat.StmHydrateLimit),
	)
	if _, err := cache.EnsureLoaded(ctx, conversationId); err != nil {
		log.Fatalf("hydrate conversation: %v", err)
	}

	asm := assembler.NewAssembler(cache, assembler.NewReportSummaryProvider(uowFactory),
		assembler.WithWindowSize(cfg.Chat.ContextWindow),
		assembler.WithSummaryLimit(cfg.Chat.SummaryLimit),
	)
	assembled, err := asm.Assemble(ctx, conversationId, conversation.UserId)
	if err != nil {
		log.Fatalf("assemble context: %v", err)
	}

	color.Cyan("Conversation %s (%q) owned by %s", conversation.Id, conversation.Title, conversation.UserId)
	color.Cyan("Window: %d of %d loaded turns, %d report summary chars\n",
		len(assembled.History), len(cache.RecentWindow(conversationId, cfg.Chat.StmMaxTurns)), len(assembled.MedicalSummary))

	for i, msg := range response.BuildMessages(*messageFlag, assembled.History, assembled.MedicalSummary) {
		roleColor(msg.Role).Printf("[%d] %s\n", i, strings.ToUpper(msg.Role))
		fmt.Println(msg.Content)
		fmt.Println()
	}
}

func roleColor(role string) *color.Color {
	switch role {
	case llm.RoleSystem:
		return color.New(color.FgYellow, color.Bold)
	case llm.RoleUser:
		return color.New(color.FgGreen, color.Bold)
	default:
		return color.New(color.FgMagenta, color.Bold)
	}
}
