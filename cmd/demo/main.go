// Command demo exercises the bruecke provider against a running backend.
// It loads the regular configuration, builds a provider, and runs a single
// generate, stream, or embed call from the command line.
//
// Examples:
//
//	demo generate "What is the capital of France?"
//	demo stream --model gpt-4o "Count from 1 to 5"
//	demo embed "first value" "second value"
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rhuss/bruecke/pkg/api"
	"github.com/rhuss/bruecke/pkg/compat"
	"github.com/rhuss/bruecke/pkg/config"
	"github.com/rhuss/bruecke/pkg/debug"
	"github.com/rhuss/bruecke/pkg/model"
	"github.com/rhuss/bruecke/pkg/provider"
)

var (
	flagConfig        string
	flagModel         string
	flagSystem        string
	flagMaxTokens     int
	flagTemperature   float64
	flagOrchestration bool
	flagV1            bool
)

var rootCmd = &cobra.Command{
	Use:           "demo",
	Short:         "Run generation and embedding calls against a backend",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file path")
	rootCmd.PersistentFlags().StringVar(&flagModel, "model", "", "model name (default from config)")
	rootCmd.AddCommand(generateCmd, streamCmd, embedCmd)

	for _, cmd := range []*cobra.Command{generateCmd, streamCmd} {
		cmd.Flags().StringVar(&flagSystem, "system", "", "system prompt")
		cmd.Flags().IntVar(&flagMaxTokens, "max-tokens", 0, "output token limit")
		cmd.Flags().Float64Var(&flagTemperature, "temperature", 0, "sampling temperature")
		cmd.Flags().BoolVar(&flagOrchestration, "orchestration", false, "route via the orchestration dialect")
	}
	generateCmd.Flags().BoolVar(&flagV1, "v1", false, "print the result in the older v1 shape")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newProvider loads config, wires debug logging, and builds the provider.
func newProvider() (*model.Provider, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	debug.Init(cfg.Debug.Categories, cfg.Debug.Level)
	return model.NewProvider(cfg)
}

func buildOptions(cmd *cobra.Command, prompt string) model.GenerateOptions {
	opts := model.GenerateOptions{}
	if flagSystem != "" {
		opts.Messages = append(opts.Messages, api.SystemMessage(flagSystem))
	}
	opts.Messages = append(opts.Messages, api.UserMessage(api.TextPart{Text: prompt}))

	if cmd.Flags().Changed("max-tokens") {
		opts.MaxOutputTokens = &flagMaxTokens
	}
	if cmd.Flags().Changed("temperature") {
		opts.Temperature = &flagTemperature
	}
	if cmd.Flags().Changed("orchestration") {
		opts.ProviderOptions = map[string]map[string]any{
			provider.OptionsNamespace: {"useOrchestration": flagOrchestration},
		}
	}
	return opts
}

var generateCmd = &cobra.Command{
	Use:   "generate <prompt>",
	Short: "Run a non-streaming generation call",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := newProvider()
		if err != nil {
			return err
		}
		defer p.Close()

		m := p.LanguageModel(flagModel)
		result, err := m.Generate(cmd.Context(), buildOptions(cmd, args[0]))
		if err != nil {
			return err
		}

		if flagV1 {
			return printV1(result)
		}
		return printResult(m.ModelID(), result)
	},
}

var streamCmd = &cobra.Command{
	Use:   "stream <prompt>",
	Short: "Run a streaming generation call and print events as they arrive",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := newProvider()
		if err != nil {
			return err
		}
		defer p.Close()

		m := p.LanguageModel(flagModel)
		resp, err := m.Stream(cmd.Context(), buildOptions(cmd, args[0]))
		if err != nil {
			return err
		}

		for event := range resp.Events {
			switch event.Type {
			case api.EventTextDelta:
				fmt.Print(event.Delta)
			case api.EventToolCall:
				fmt.Printf("\n[tool call] %s(%s)\n", event.ToolName, event.Input)
			case api.EventFinish:
				fmt.Printf("\n[finish] reason=%s", event.FinishReason.Unified)
				if event.Usage != nil {
					fmt.Printf(" tokens=%d/%d",
						event.Usage.InputTokens.Total, event.Usage.OutputTokens.Total)
				}
				fmt.Println()
			case api.EventError:
				return event.Err
			}
		}
		return nil
	},
}

var embedCmd = &cobra.Command{
	Use:   "embed <value> [value...]",
	Short: "Embed one or more values",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := newProvider()
		if err != nil {
			return err
		}
		defer p.Close()

		m := p.EmbeddingModel(flagModel)
		result, err := m.Embed(cmd.Context(), args, nil)
		if err != nil {
			return err
		}

		for i, embedding := range result.Embeddings {
			fmt.Printf("[%d] dims=%d", i, len(embedding))
			if len(embedding) > 0 {
				preview := embedding
				if len(preview) > 4 {
					preview = preview[:4]
				}
				fmt.Printf(" head=%v", preview)
			}
			fmt.Println()
		}
		fmt.Printf("tokens=%d\n", result.Usage.Tokens)
		return nil
	},
}

func printResult(modelID string, result *api.Result) error {
	fmt.Printf("model:  %s\n", modelID)
	fmt.Printf("finish: %s\n", result.FinishReason.Unified)
	fmt.Printf("tokens: %d in / %d out\n",
		result.Usage.InputTokens.Total, result.Usage.OutputTokens.Total)
	for _, w := range result.Warnings {
		fmt.Printf("warning: %s\n", compat.ToV1Warning(w))
	}
	if text := result.Text(); text != "" {
		fmt.Printf("\n%s\n", text)
	}
	for _, tc := range result.ToolCalls() {
		fmt.Printf("\ntool call %s: %s(%s)\n", tc.ToolCallID, tc.ToolName, tc.Input)
	}
	return nil
}

func printV1(result *api.Result) error {
	v1 := compat.ToV1Result(result)
	fmt.Printf("text:          %s\n", v1.Text)
	fmt.Printf("finish_reason: %s\n", v1.FinishReason)
	fmt.Printf("usage:         %d/%d/%d\n",
		v1.Usage.PromptTokens, v1.Usage.CompletionTokens, v1.Usage.TotalTokens)
	for _, tc := range v1.ToolCalls {
		fmt.Printf("tool_call:     %s %s(%s)\n", tc.ID, tc.Name, tc.Arguments)
	}
	if len(v1.Warnings) > 0 {
		fmt.Printf("warnings:      %s\n", strings.Join(v1.Warnings, "; "))
	}
	return nil
}
