// sage - conversational scientific research assistant.
// One binary covers the CLI ask mode, the HTTP server, and token issuance.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/nvillagra/sage/internal/api"
	"github.com/nvillagra/sage/internal/domain/agent"
	"github.com/nvillagra/sage/internal/domain/history"
	"github.com/nvillagra/sage/internal/domain/tool"
	"github.com/nvillagra/sage/internal/infra/config"
	"github.com/nvillagra/sage/internal/infra/eventbus"
	"github.com/nvillagra/sage/internal/infra/llm"
	"github.com/nvillagra/sage/internal/infra/sqlite"
	"github.com/nvillagra/sage/internal/server"
	"github.com/nvillagra/sage/internal/version"
	pkgauth "github.com/nvillagra/sage/pkg/auth"
)

// defaultQuestion is asked when the CLI runs without arguments and stdin
// offers nothing.
const defaultQuestion = "What are the latest advances in artificial intelligence according to ArXiv?"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stdin))
}

func run(args []string, out io.Writer, in io.Reader) int {
	fs := flag.NewFlagSet("sage", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	showVersion := fs.Bool("version", false, "Show version information")
	showHelp := fs.Bool("help", false, "Show help")

	if err := fs.Parse(args); err != nil {
		fmt.Fprintln(out, "invalid arguments; try --help") //nolint:errcheck
		return 2
	}

	if *showVersion {
		fmt.Fprintln(out, version.String()) //nolint:errcheck
		return 0
	}
	if *showHelp {
		printHelp(out)
		return 0
	}

	rest := fs.Args()
	if len(rest) > 0 {
		switch rest[0] {
		case "serve":
			return runServe(out)
		case "token":
			return runToken(rest[1:], out)
		}
	}

	return runAsk(rest, out, in)
}

// runAsk answers a single question and prints the assistant message.
func runAsk(args []string, out io.Writer, in io.Reader) int {
	question := strings.TrimSpace(strings.Join(args, " "))
	if question == "" {
		fmt.Fprint(out, "Question: ") //nolint:errcheck
		scanner := bufio.NewScanner(in)
		if scanner.Scan() {
			question = strings.TrimSpace(scanner.Text())
		}
	}
	if question == "" {
		question = defaultQuestion
		fmt.Fprintf(out, "No question given, asking: %s\n", question) //nolint:errcheck
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(out, "Error: %v\n", err) //nolint:errcheck
		return 1
	}
	orchestrator, err := buildOrchestrator(cfg)
	if err != nil {
		fmt.Fprintf(out, "Error: %v\n", err) //nolint:errcheck
		return 1
	}

	conversation, _ := orchestrator.RunTurn(context.Background(), []agent.Message{
		{Role: agent.RoleUser, Content: question},
	})
	for i := len(conversation) - 1; i >= 0; i-- {
		if conversation[i].Role == agent.RoleAssistant {
			fmt.Fprintln(out, conversation[i].Content) //nolint:errcheck
			return 0
		}
	}
	fmt.Fprintln(out, "Error: no answer produced") //nolint:errcheck
	return 1
}

// runServe starts the HTTP server until SIGINT/SIGTERM.
func runServe(out io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(out, "Error: %v\n", err) //nolint:errcheck
		return 1
	}
	orchestrator, err := buildOrchestrator(cfg)
	if err != nil {
		fmt.Fprintf(out, "Error: %v\n", err) //nolint:errcheck
		return 1
	}

	db, err := sqlite.NewDB(cfg.HistoryDBPath)
	if err != nil {
		fmt.Fprintf(out, "Error: %v\n", err) //nolint:errcheck
		return 1
	}
	if err := sqlite.MigrateUp(db); err != nil {
		fmt.Fprintf(out, "Error: %v\n", err) //nolint:errcheck
		db.Close()
		return 1
	}

	bus := eventbus.New()
	store := history.NewStore(db)
	recorder := history.NewRecorder(store, bus)
	defer recorder.Stop()

	router := api.NewRouter(api.Deps{
		Runner:    orchestrator,
		Tools:     tool.DefaultRegistry(),
		Store:     store,
		Bus:       bus,
		JWTSecret: cfg.JWTSecret,
	})

	srv := server.NewServer(router, db, server.DefaultConfig(cfg.Addr()))

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(context.Background())
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		fmt.Fprintf(out, "Error: %v\n", err) //nolint:errcheck
		return 1
	case <-stop:
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		fmt.Fprintf(out, "Error: %v\n", err) //nolint:errcheck
		return 1
	}
	return 0
}

// runToken prints a signed history-access token for the given subject.
func runToken(args []string, out io.Writer) int {
	subject := "cli"
	if len(args) > 0 && args[0] != "" {
		subject = args[0]
	}

	token, err := pkgauth.GenerateToken(subject, pkgauth.ScopeHistoryRead)
	if err != nil {
		fmt.Fprintf(out, "Error: %v\n", err) //nolint:errcheck
		return 1
	}
	fmt.Fprintln(out, token) //nolint:errcheck
	return 0
}

// buildOrchestrator constructs the provider stack and the turn orchestrator.
// Fails when the configuration cannot produce a usable provider, the one
// fatal configuration path.
func buildOrchestrator(cfg config.Config) (*agent.Orchestrator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	router := llm.NewRouter(map[string]llm.LLMProvider{
		"groq":   llm.NewGroqProvider(llm.DefaultGroqBaseURL, cfg.GroqAPIKey, cfg.GroqModel),
		"ollama": llm.NewOllamaProvider(cfg.OllamaBaseURL, cfg.OllamaChatModel),
	}, cfg.LLMProvider)

	provider, err := router.Route(context.Background())
	if err != nil {
		return nil, err
	}

	return agent.NewOrchestrator(provider, tool.DefaultRegistry()), nil
}

func printHelp(out io.Writer) {
	helpText := `sage - conversational scientific research assistant

Usage:
  sage [question...]     Ask a single question and print the answer
  sage serve             Start the HTTP API server
  sage token [subject]   Print a signed history-access token

Options:
  --version    Show version information
  --help       Show this help message

Environment:
  GROQ_API_KEY       API key for the groq provider (required unless LLM_PROVIDER=ollama)
  LLM_PROVIDER       groq (default) or ollama
  SAGE_HOST          Bind host for serve (default 0.0.0.0)
  SAGE_PORT          Bind port for serve (default 8000)
  SAGE_HISTORY_DB    SQLite path for recorded turns (default sage.db)
  SAGE_JWT_SECRET    Enables auth on /api/history and signs tokens
  SAGE_CONFIG        Optional YAML config file

Examples:
  sage what is entropy
  sage "Calculate sqrt(16) + 4"
  sage serve`
	fmt.Fprintln(out, helpText) //nolint:errcheck
}
