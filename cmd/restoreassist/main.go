package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/CleanExpo/RestoreAssist-sub009/internal/logger"
	"github.com/CleanExpo/RestoreAssist-sub009/pkg/citation"
	"github.com/CleanExpo/RestoreAssist-sub009/pkg/config"
	"github.com/CleanExpo/RestoreAssist-sub009/pkg/engine"
	"github.com/CleanExpo/RestoreAssist-sub009/pkg/reasoning"
	"github.com/CleanExpo/RestoreAssist-sub009/pkg/sources"
	"github.com/CleanExpo/RestoreAssist-sub009/pkg/store"
	"github.com/CleanExpo/RestoreAssist-sub009/pkg/types"
)

var version = "0.1.0"

var configFile string

func main() {
	rootCmd := &cobra.Command{
		Use:   "restoreassist",
		Short: "Regulatory citation resolution for restoration work",
		Long: `RestoreAssist resolves Australian regulatory citations for
restoration and remediation tasks.

It selects the regulations relevant to a situation, asks a reasoning
service which provisions apply, validates every cited section against
the document store, and renders properly formatted citations with
confidence scores.`,
		Version: version,
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "path to a config file")

	rootCmd.AddCommand(resolveCmd())
	rootCmd.AddCommand(batchCmd())
	rootCmd.AddCommand(validateCmd())
	rootCmd.AddCommand(normalizeCmd())
	rootCmd.AddCommand(storeCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func resolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve citations for one task description",
		Long: `Resolve the regulatory citations applicable to a single task.

Example:
  restoreassist resolve --task "Structural drying, Category 2 water damage" \
    --damage water --jurisdiction Qld --severity 2 --electrical`,
		RunE: func(cmd *cobra.Command, args []string) error {
			task, _ := cmd.Flags().GetString("task")
			asJSON, _ := cmd.Flags().GetBool("json")
			offline, _ := cmd.Flags().GetBool("offline")

			if task == "" {
				return fmt.Errorf("--task flag is required")
			}

			query, err := queryFromFlags(cmd)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			eng, cleanup, err := buildEngine(ctx, offline)
			if err != nil {
				return err
			}
			defer cleanup()

			resolved, err := eng.Resolve(ctx, task, query)
			if err != nil {
				return err
			}

			if asJSON {
				return printJSON(cmd.OutOrStdout(), resolved)
			}
			printCitations(cmd, resolved)
			fmt.Fprintf(cmd.OutOrStdout(), "\nAggregate confidence: %d\n", engine.AggregateConfidence(resolved))
			return nil
		},
	}
	addQueryFlags(cmd)
	cmd.Flags().String("task", "", "task description to resolve")
	cmd.Flags().Bool("json", false, "emit JSON instead of text")
	cmd.Flags().Bool("offline", false, "skip the reasoning service; cite nothing")
	return cmd
}

func batchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Resolve citations for a batch of tasks",
		Long: `Resolve citations for every task in a JSON batch file.

The file holds an array of items:
  [{"task_description": "...", "situational_query": {"category": "water", ...}}]

Items that fail resolve to an empty citation list; the batch itself
only fails when an item is missing its task description.

Example:
  restoreassist batch --file jobs.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			file, _ := cmd.Flags().GetString("file")
			offline, _ := cmd.Flags().GetBool("offline")
			if file == "" {
				return fmt.Errorf("--file flag is required")
			}

			raw, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("reading batch file: %w", err)
			}
			var items []engine.BatchItem
			if err := json.Unmarshal(raw, &items); err != nil {
				return fmt.Errorf("parsing batch file %q: %w", file, err)
			}

			ctx := cmd.Context()
			eng, cleanup, err := buildEngine(ctx, offline)
			if err != nil {
				return err
			}
			defer cleanup()

			fmt.Fprintf(cmd.OutOrStdout(), "Resolving %d tasks...\n", len(items))
			results, err := eng.ResolveBatch(ctx, items)
			if err != nil {
				return err
			}

			type batchResult struct {
				TaskDescription string                   `json:"taskDescription"`
				Citations       []types.ResolvedCitation `json:"citations"`
				Confidence      int                      `json:"confidence"`
			}
			out := make([]batchResult, len(results))
			for i, citations := range results {
				out[i] = batchResult{
					TaskDescription: items[i].TaskDescription,
					Citations:       citations,
					Confidence:      engine.AggregateConfidence(citations),
				}
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().String("file", "", "JSON file of batch items")
	cmd.Flags().Bool("offline", false, "skip the reasoning service; cite nothing")
	return cmd
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [citation]",
		Short: "Check a citation string against the formatting rules",
		Long: `Check an already-written citation string for formatting problems:
wrong section abbreviations, hyphenated ranges, singular markers on
ranges.

Example:
  restoreassist validate "National Construction Code 2025, s 3.2.1"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result := citation.Validate(args[0])
			if result.IsValid {
				fmt.Fprintln(cmd.OutOrStdout(), "OK")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d issue(s):\n", len(result.Issues))
			for _, issue := range result.Issues {
				fmt.Fprintf(cmd.OutOrStdout(), "  - %s\n", issue)
			}
			return fmt.Errorf("citation has formatting issues")
		},
	}
}

func normalizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "normalize [document-name]",
		Short: "Resolve a document name or alias to its canonical form",
		Long: `Resolve a free-form document name against the store: canonical
code, title, and jurisdiction.

Example:
  restoreassist normalize "wiring rules"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			documentStore, cleanup, err := openStore()
			if err != nil {
				return err
			}
			defer cleanup()

			documents, err := documentStore.ListDocuments(cmd.Context())
			if err != nil {
				return fmt.Errorf("listing documents: %w", err)
			}
			normalized, err := citation.NewNormalizer(documents).NormalizeDocumentName(args[0])
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Code:         %s\n", normalized.DocumentCode)
			fmt.Fprintf(cmd.OutOrStdout(), "Title:        %s\n", normalized.Title)
			if !normalized.Jurisdiction.IsNational() {
				fmt.Fprintf(cmd.OutOrStdout(), "Jurisdiction: %s\n", normalized.Jurisdiction)
			}
			return nil
		},
	}
}

func storeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Manage the regulatory document store",
	}
	cmd.AddCommand(storeInitCmd())
	cmd.AddCommand(storeSeedCmd())
	cmd.AddCommand(storeListCmd())
	cmd.AddCommand(storeCheckSourcesCmd())
	return cmd
}

func storeCheckSourcesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check-sources",
		Short: "Audit the source URLs recorded against stored documents",
		Long: `Probe every document's source URL and report pages that moved or
disappeared. Regulator sites are probed politely: HEAD requests, spaced
per host, with a bounded number of workers.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			asJSON, _ := cmd.Flags().GetBool("json")
			timeout, _ := cmd.Flags().GetDuration("timeout")
			concurrency, _ := cmd.Flags().GetInt("concurrency")

			cfg, err := config.Load(configFile)
			if err != nil {
				return err
			}
			log := logger.New(logger.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty})

			documentStore, cleanup, err := openStore()
			if err != nil {
				return err
			}
			defer cleanup()

			documents, err := documentStore.ListDocuments(cmd.Context())
			if err != nil {
				return fmt.Errorf("listing documents: %w", err)
			}

			checker := sources.NewChecker(sources.Options{
				Timeout:     timeout,
				Concurrency: concurrency,
			}, log)
			report := checker.CheckDocuments(cmd.Context(), documents)

			if asJSON {
				return printJSON(cmd.OutOrStdout(), report)
			}
			for _, result := range report.Results {
				if result.Status == sources.StatusSkipped {
					continue
				}
				line := fmt.Sprintf("%-28s %-8s %s", result.DocumentCode, result.Status, result.SourceURL)
				if result.Location != "" {
					line += " -> " + result.Location
				}
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\nChecked %d, broken %d\n", report.Checked, report.Broken)
			if report.Broken > 0 {
				return fmt.Errorf("%d source URL(s) need attention", report.Broken)
			}
			return nil
		},
	}
	cmd.Flags().Bool("json", false, "emit JSON instead of text")
	cmd.Flags().Duration("timeout", 0, "per-request timeout")
	cmd.Flags().Int("concurrency", 0, "number of concurrent probes")
	return cmd
}

func storeInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the store schema and load the built-in corpus",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configFile)
			if err != nil {
				return err
			}
			if cfg.StorePath == "" {
				return fmt.Errorf("store_path is not configured; set RESTOREASSIST_STORE_PATH or a config file")
			}

			s, err := store.OpenSQLite(cfg.StorePath)
			if err != nil {
				return fmt.Errorf("opening store: %w", err)
			}
			defer s.Close()

			corpus := store.DefaultCorpus()
			if err := store.Seed(cmd.Context(), s, corpus); err != nil {
				return fmt.Errorf("seeding store: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Initialized store at %s (%d documents)\n",
				cfg.StorePath, len(corpus.Documents))
			return nil
		},
	}
}

func storeSeedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load a YAML corpus file into the store",
		Long: `Load documents and sections from a YAML corpus file. Existing
documents with the same code and jurisdiction are replaced.

Example:
  restoreassist store seed --corpus qld-additions.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			corpusPath, _ := cmd.Flags().GetString("corpus")
			if corpusPath == "" {
				return fmt.Errorf("--corpus flag is required")
			}

			cfg, err := config.Load(configFile)
			if err != nil {
				return err
			}
			if cfg.StorePath == "" {
				return fmt.Errorf("store_path is not configured; set RESTOREASSIST_STORE_PATH or a config file")
			}

			corpus, err := store.LoadCorpusFile(corpusPath)
			if err != nil {
				return err
			}

			s, err := store.OpenSQLite(cfg.StorePath)
			if err != nil {
				return fmt.Errorf("opening store: %w", err)
			}
			defer s.Close()

			if err := store.Seed(cmd.Context(), s, corpus); err != nil {
				return fmt.Errorf("seeding store: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Loaded %d documents from %s\n",
				len(corpus.Documents), corpusPath)
			return nil
		},
	}
	cmd.Flags().String("corpus", "", "YAML corpus file to load")
	return cmd
}

func storeListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the documents in the store",
		RunE: func(cmd *cobra.Command, args []string) error {
			documentStore, cleanup, err := openStore()
			if err != nil {
				return err
			}
			defer cleanup()

			documents, err := documentStore.ListDocuments(cmd.Context())
			if err != nil {
				return fmt.Errorf("listing documents: %w", err)
			}
			for _, document := range documents {
				jurisdiction := "national"
				if !document.Jurisdiction.IsNational() {
					jurisdiction = string(document.Jurisdiction)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-28s %-20s %-10s %s\n",
					document.DocumentCode, document.Category, jurisdiction, document.Title)
			}
			return nil
		},
	}
}

// addQueryFlags registers the situational-query flags shared by resolve.
func addQueryFlags(cmd *cobra.Command) {
	cmd.Flags().String("damage", "water", "damage/work type (water, fire, mould, storm, sewage, smoke)")
	cmd.Flags().String("severity", "", "severity tier, e.g. 2 for Category 2 water")
	cmd.Flags().String("jurisdiction", "", "state or territory, e.g. Qld; empty means national only")
	cmd.Flags().String("region", "", "climate region override, e.g. subtropical")
	cmd.Flags().String("insurer", "", "insurer involved, if any")
	cmd.Flags().Bool("electrical", false, "the work involves electrical systems")
	cmd.Flags().StringSlice("keywords", nil, "extra keywords to rank sections against")
}

func queryFromFlags(cmd *cobra.Command) (types.SituationalQuery, error) {
	damage, _ := cmd.Flags().GetString("damage")
	severity, _ := cmd.Flags().GetString("severity")
	jurisdictionRaw, _ := cmd.Flags().GetString("jurisdiction")
	region, _ := cmd.Flags().GetString("region")
	insurer, _ := cmd.Flags().GetString("insurer")
	electrical, _ := cmd.Flags().GetBool("electrical")
	keywords, _ := cmd.Flags().GetStringSlice("keywords")

	query := types.SituationalQuery{
		Category:               damage,
		SeverityTier:           severity,
		Region:                 region,
		Insurer:                insurer,
		RequiresElectricalWork: electrical,
		Keywords:               keywords,
	}
	if jurisdictionRaw != "" {
		jurisdiction, ok := types.ParseJurisdiction(jurisdictionRaw)
		if !ok {
			return query, fmt.Errorf("unknown jurisdiction %q", jurisdictionRaw)
		}
		query.Jurisdiction = jurisdiction
	}
	return query, nil
}

// buildEngine assembles the full stack from configuration: store,
// cache, reasoning client, engine. cleanup closes whatever was opened.
func buildEngine(ctx context.Context, offline bool) (*engine.Engine, func(), error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, nil, err
	}
	log := logger.New(logger.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty})

	documentStore, cleanup, err := openStore()
	if err != nil {
		return nil, nil, err
	}

	cached, err := store.NewCachedStore(documentStore, cfg.CacheSize)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("building store cache: %w", err)
	}

	var reasoner reasoning.Client
	if offline {
		reasoner = &reasoning.StubClient{}
	} else {
		reasoner, err = reasoning.NewGeminiClient(ctx, cfg.ReasoningModel)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("building reasoning client: %w", err)
		}
	}

	footnoteStyle := citation.FootnoteFull
	if cfg.FootnoteStyle == "short" {
		footnoteStyle = citation.FootnoteShort
	}

	eng := engine.New(ctx, cached, reasoner, engine.Options{
		PerCallTimeout: cfg.PerCallTimeout,
		BatchTimeout:   cfg.BatchTimeout,
		MaxConcurrent:  cfg.MaxConcurrent,
		FootnoteStyle:  footnoteStyle,
		UnvalidatedCap: cfg.UnvalidatedCap,
		HighThreshold:  cfg.HighThreshold,
	}, log)
	return eng, cleanup, nil
}

// openStore opens the configured SQLite store, or falls back to an
// in-memory copy of the built-in corpus when no path is configured.
func openStore() (store.Store, func(), error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, nil, err
	}
	if cfg.StorePath == "" {
		memory := store.NewMemoryStore()
		store.SeedMemory(memory, store.DefaultCorpus())
		return memory, func() {}, nil
	}
	sqlite, err := store.OpenSQLite(cfg.StorePath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening store at %s: %w", cfg.StorePath, err)
	}
	return sqlite, func() { sqlite.Close() }, nil
}

func printCitations(cmd *cobra.Command, citations []types.ResolvedCitation) {
	out := cmd.OutOrStdout()
	if len(citations) == 0 {
		fmt.Fprintln(out, "No applicable citations found.")
		return
	}
	fmt.Fprintf(out, "Resolved %d citation(s):\n\n", len(citations))
	for i, c := range citations {
		marker := " "
		if !c.Validated {
			marker = "?"
		}
		fmt.Fprintf(out, "%2d. [%3d%s] %s\n", i+1, c.Confidence, marker, c.FullReference)
		fmt.Fprintf(out, "          in-text: %s\n", c.InTextCitation)
		if quoted := strings.TrimSpace(c.QuotedText); quoted != "" {
			fmt.Fprintf(out, "          context: %s\n", quoted)
		}
	}
}

func printJSON(out io.Writer, v interface{}) error {
	encoded, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(encoded))
	return err
}
