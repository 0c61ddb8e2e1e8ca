package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"presentation_agent/config"
	"presentation_agent/generator"
	"presentation_agent/logger"
	"presentation_agent/observability"
	"presentation_agent/publisher"
	"presentation_agent/search"
	"presentation_agent/server"
)

var (
	version = "dev"

	configPath string
	mock       bool
)

// mockImage is returned by the static searcher in offline runs.
const mockImage = "https://upload.wikimedia.org/wikipedia/commons/thumb/a/a0/Rome_Pantheon_front.jpg/640px-Rome_Pantheon_front.jpg"

func main() {
	rootCmd := &cobra.Command{
		Use:   "presentation-agent",
		Short: "Build a slide presentation with title, image and quiz from free-form text",
		Long: `presentation-agent asks a language model to outline the input text, enrich
every slide, write a title, pick an illustrative image and create a quiz,
then writes the assembled presentation as XML and HTML.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath, "path to config.yaml")
	rootCmd.PersistentFlags().BoolVar(&mock, "mock", false, "use the offline mock model and a static image (no API keys needed)")

	rootCmd.AddCommand(newBuildCmd(), newServeCmd(), &cobra.Command{
		Use:   "version",
		Short: "Print version info",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("presentation-agent %s\n", version)
		},
	})

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newBuildCmd() *cobra.Command {
	var (
		inputPath string
		text      string
		outDir    string
	)
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build a presentation from --input (file or -) or --text",
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := readInput(cmd.InOrStdin(), inputPath, text)
			if err != nil {
				return err
			}
			cfg, log, err := setup()
			if err != nil {
				return err
			}
			defer log.Sync()
			if outDir != "" {
				cfg.OutputDir = outDir
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			shutdown, err := initTracing(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer shutdown(context.Background())

			agent, err := buildAgent(ctx, cfg, log)
			if err != nil {
				return err
			}
			log.Info("[cli] building presentation", "input_chars", len(input), "controller", cfg.Controller)
			doc, err := agent.Build(ctx, input)
			if err != nil {
				return err
			}

			pub, err := publisher.New(cfg.OutputDir, log)
			if err != nil {
				return err
			}
			res, err := pub.Publish(doc)
			if err != nil {
				return err
			}
			log.Info("[cli] build done", "title", doc.Title, "html", res.HTMLPath)
			fmt.Fprintln(cmd.OutOrStdout(), res.HTMLPath)
			return nil
		},
	}
	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "path to the input text file, - for stdin")
	cmd.Flags().StringVarP(&text, "text", "t", "", "input text")
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "output directory (overrides config.output_dir)")
	return cmd
}

func newServeCmd() *cobra.Command {
	var (
		addr    string
		timeout time.Duration
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup()
			if err != nil {
				return err
			}
			defer log.Sync()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			shutdown, err := initTracing(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer shutdown(context.Background())

			agent, err := buildAgent(ctx, cfg, log)
			if err != nil {
				return err
			}
			srv, err := server.New(agent, log, timeout)
			if err != nil {
				return err
			}
			listen := cfg.ServerAddr
			if addr != "" {
				listen = addr
			}
			if listen == "" {
				listen = ":8080"
			}
			httpSrv := &http.Server{Addr: listen, Handler: srv.Routes()}
			go func() {
				<-ctx.Done()
				sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				_ = httpSrv.Shutdown(sctx)
			}()
			log.Info("starting web server", "addr", listen)
			if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "http listen address (overrides config.server_addr)")
	cmd.Flags().DurationVar(&timeout, "build-timeout", 10*time.Minute, "deadline for one build request, 0 for none")
	return cmd
}

func setup() (config.Config, *logger.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, nil, err
	}
	if mock {
		cfg.LLM.Provider = "mock"
		cfg.Search.Provider = "static"
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, nil, err
	}
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, log, nil
}

func readInput(stdin io.Reader, path, text string) (string, error) {
	switch {
	case text != "" && path != "":
		return "", errors.New("use either --input or --text, not both")
	case text != "":
		return text, nil
	case path == "-":
		b, err := io.ReadAll(stdin)
		return string(b), err
	case path != "":
		b, err := os.ReadFile(path)
		return string(b), err
	default:
		return "", errors.New("--input or --text is required")
	}
}

func initTracing(ctx context.Context, cfg config.Config, log *logger.Logger) (func(context.Context) error, error) {
	return observability.InitTracing(ctx, log, observability.TracingConfig{
		Enabled:  cfg.Tracing.Enabled,
		Version:  version,
		Endpoint: cfg.Tracing.Endpoint,
		Insecure: cfg.Tracing.Insecure,
	})
}

func buildAgent(ctx context.Context, cfg config.Config, log *logger.Logger) (*generator.Agent, error) {
	llm, err := buildLLM(cfg)
	if err != nil {
		return nil, err
	}
	searcher, err := buildSearcher(ctx, cfg)
	if err != nil {
		return nil, err
	}
	var controller generator.Controller = generator.RuleController{}
	if cfg.Controller == "llm" {
		controller = generator.NewLLMController(llm, log, cfg.HistoryLimit)
	}
	return generator.NewAgent(llm, searcher,
		generator.WithController(controller),
		generator.WithLogger(log),
		generator.WithMaxTurns(cfg.MaxTurns),
		generator.WithRetryPolicy(generator.RetryPolicy{
			MaxAttempts:     cfg.Retry.MaxAttempts,
			InitialInterval: cfg.Retry.InitialInterval,
			MaxInterval:     cfg.Retry.MaxInterval,
			Multiplier:      cfg.Retry.Multiplier,
		}),
	)
}

func buildLLM(cfg config.Config) (generator.LLMClient, error) {
	switch cfg.LLM.Provider {
	case "mock":
		return generator.MockLLM{}, nil
	case "openai", "deepseek", "azure":
		return generator.NewOpenAILLMFromConfig(&generator.LLMSettings{
			Provider:    cfg.LLM.Provider,
			Model:       cfg.LLM.Model,
			VisionModel: cfg.LLM.VisionModel,
			APIKey:      cfg.LLM.APIKey,
			BaseURL:     cfg.LLM.BaseURL,
			APIVersion:  cfg.LLM.APIVersion,
		})
	default:
		return nil, fmt.Errorf("llm provider %s not supported", cfg.LLM.Provider)
	}
}

func buildSearcher(ctx context.Context, cfg config.Config) (generator.ImageSearcher, error) {
	switch strings.ToLower(cfg.Search.Provider) {
	case "static":
		return search.Static{Links: []string{mockImage}}, nil
	case "google":
		return search.NewGoogle(ctx, cfg.Search.APIKey, cfg.Search.CX)
	default:
		return nil, fmt.Errorf("search provider %s not supported", cfg.Search.Provider)
	}
}
