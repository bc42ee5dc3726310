// Command insight-check verifies OpenAI connectivity by running the risk
// advisor against a synthetic handover without touching the database.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"handoverhub/internal/ai"
	"handoverhub/internal/models"
)

func main() {
	apiKey := flag.String("key", "", "OpenAI API key (or set OPENAI_API_KEY env var)")
	model := flag.String("model", "gpt-4o", "Model to use")
	timeout := flag.Duration("timeout", 30*time.Second, "API call timeout")
	verbose := flag.Bool("verbose", false, "Verbose output")
	flag.Parse()

	_ = gotenv.Load()

	var logger *zap.Logger
	var err error
	if *verbose {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if *apiKey == "" {
		*apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if *apiKey == "" {
		fmt.Fprintln(os.Stderr, "ERROR: OPENAI_API_KEY not set and no --key flag provided")
		fmt.Fprintln(os.Stderr, "Usage: insight-check --key sk-... [--model gpt-4o] [--timeout 30s]")
		os.Exit(1)
	}

	fmt.Println("=== Risk Advisor Connection Check ===")
	fmt.Printf("  Model: %s\n", *model)
	fmt.Printf("  API key length: %d chars\n", len(*apiKey))
	fmt.Printf("  Timeout: %v\n\n", *timeout)

	advisor := ai.NewAdvisor(*apiKey, *model, 0.2, logger)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	assessment, err := advisor.Assess(ctx, sampleContext())
	if err != nil {
		fmt.Fprintf(os.Stderr, "✗ Assessment failed: %v\n", err)
		os.Exit(1)
	}

	out, _ := json.MarshalIndent(assessment, "", "  ")
	fmt.Printf("✓ Assessment succeeded:\n%s\n", out)
}

func sampleContext() ai.HandoverContext {
	return ai.HandoverContext{
		Handover: models.Handover{
			ID:                  "check-1",
			ExitingEmployeeName: "Sample Employee",
			Department:          "Sales",
			Status:              models.HandoverStatusInProgress,
			Progress:            25,
			TaskCount:           4,
			CompletedTasks:      1,
		},
		Tasks: []models.Task{
			{Title: "Client relationship overview", Status: models.TaskStatusCompleted, Category: "Client Management", Priority: models.PriorityHigh},
			{Title: "CRM system walkthrough", Status: models.TaskStatusPending, Category: "Systems & Tools", Priority: models.PriorityCritical},
			{Title: "Team introductions", Status: models.TaskStatusPending, Category: "Relationships", Priority: models.PriorityMedium},
			{Title: "Strategy docs handoff", Status: models.TaskStatusPending, Category: "Strategic Planning", Priority: models.PriorityHigh},
		},
	}
}
