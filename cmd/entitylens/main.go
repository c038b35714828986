// entitylens: multi-source entity info aggregator
//
// Main CLI entrypoint using cobra command framework.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/seenimoa/entitylens/api"
	"github.com/seenimoa/entitylens/internal/config"
	"github.com/seenimoa/entitylens/pkg/models"
	"github.com/seenimoa/entitylens/pkg/utils"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Global config
var cfg *config.Config

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "entitylens",
	Short: "Company financials, news and opinions in one lookup",
	Long: `entitylens aggregates financial data for a company from several vendors
(Financial Modeling Prep, Finnhub, Yahoo Finance), resolves names and
ticker symbols, and pairs the result with recent news and public opinion.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		configFile, _ := cmd.Flags().GetString("config")
		if configFile != "" {
			cfg, err = config.LoadFromFile(configFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level override (debug, info, warn, error)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(lookupCmd)
	rootCmd.AddCommand(financialsCmd)
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statusCmd)
}

// withPipeline wires the pipeline for one command and tears it down after.
func withPipeline(cmd *cobra.Command, fn func(p *pipeline) error) error {
	levelOverride, _ := cmd.Flags().GetString("log-level")
	logger := newLogger(cfg, levelOverride)

	p, err := buildPipeline(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer p.close()
	return fn(p)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// --- Version Command ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "entitylens %s\n", version)
		fmt.Fprintf(cmd.OutOrStdout(), "  commit:  %s\n", commit)
		fmt.Fprintf(cmd.OutOrStdout(), "  built:   %s\n", date)
	},
}

// --- Lookup Command ---

var lookupCmd = &cobra.Command{
	Use:   "lookup [name or ticker]",
	Short: "Compose financials, news and opinions for an entity",
	Long: `Look up a company by ticker (AAPL) or name ("Apple Inc"). With
--type other, financials are skipped and only news and opinions are fetched.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		typ, _ := cmd.Flags().GetString("type")
		return withPipeline(cmd, func(p *pipeline) error {
			info := p.composer.ScrapeEntityInfo(cmd.Context(), args[0], models.ParseEntityType(typ))
			return printJSON(cmd.OutOrStdout(), info)
		})
	},
}

func init() {
	lookupCmd.Flags().String("type", string(models.EntityCompany), "entity type: company or other")
}

// --- Financials Command ---

var financialsCmd = &cobra.Command{
	Use:   "financials [ticker]",
	Short: "Fetch the aggregated financial record for a ticker",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		symbol := utils.NormalizeSymbol(args[0])
		return withPipeline(cmd, func(p *pipeline) error {
			rec := p.aggregator.Get(cmd.Context(), symbol)
			if !rec.HasData() {
				return fmt.Errorf("no financial data for %s", symbol)
			}
			return printJSON(cmd.OutOrStdout(), rec)
		})
	},
}

// --- Resolve Commands ---

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Map between company names and ticker symbols",
}

var resolveSymbolCmd = &cobra.Command{
	Use:   "symbol [company name]",
	Short: "Find the ticker symbol for a company name",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.Join(args, " ")
		return withPipeline(cmd, func(p *pipeline) error {
			symbol, ok := p.resolver.ResolveSymbol(cmd.Context(), name)
			if !ok {
				return fmt.Errorf("no symbol found for %q", name)
			}
			fmt.Fprintln(cmd.OutOrStdout(), symbol)
			return nil
		})
	},
}

var resolveNameCmd = &cobra.Command{
	Use:   "name [ticker]",
	Short: "Find the company name for a ticker symbol",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		symbol := utils.NormalizeSymbol(args[0])
		return withPipeline(cmd, func(p *pipeline) error {
			fmt.Fprintln(cmd.OutOrStdout(), p.resolver.ResolveName(cmd.Context(), symbol))
			return nil
		})
	},
}

func init() {
	resolveCmd.AddCommand(resolveSymbolCmd)
	resolveCmd.AddCommand(resolveNameCmd)
}

// --- Serve Command (API Server) ---

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		if port, _ := cmd.Flags().GetInt("port"); port != 0 {
			cfg.API.Port = port
		}
		return withPipeline(cmd, func(p *pipeline) error {
			api.Version = version
			srv := api.NewServer(cfg, api.Deps{
				Composer:   p.composer,
				Financials: p.aggregator,
				Resolver:   p.resolver,
				News:       p.news,
				Opinions:   p.opinions,
				Logger:     p.logger,
			})
			return srv.ListenAndServe(cmd.Context(), cfg.API.Addr())
		})
	},
}

func init() {
	serveCmd.Flags().Int("port", 0, "listen port (overrides api.port)")
}

// --- Status Command ---

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show configuration and API key status",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "═══════════════════════════════════════")
		fmt.Fprintln(out, "  entitylens System Status")
		fmt.Fprintln(out, "═══════════════════════════════════════")
		fmt.Fprintf(out, "  Version:       %s (%s)\n", version, commit)
		fmt.Fprintln(out)

		fmt.Fprintln(out, "  Configuration:")
		fmt.Fprintf(out, "    Cache:         %s (ttl %s)\n", cfg.Cache.Backend, cfg.Cache.TTL)
		if cfg.Cache.Backend == config.CacheRedis {
			fmt.Fprintf(out, "    Redis:         %s\n", cfg.Cache.RedisURL)
		}
		fmt.Fprintf(out, "    API Server:    %s\n", cfg.API.Addr())
		fmt.Fprintf(out, "    Logging:       %s (%s)\n", cfg.Logging.Level, cfg.Logging.Format)
		fmt.Fprintln(out)

		fmt.Fprintln(out, "  API Keys:")
		for _, k := range config.CheckAPIKeys(cfg) {
			status := "❌ not set (source skipped)"
			if k.IsSet {
				status = fmt.Sprintf("✅ set (%s: %s)", k.Source, k.Masked)
			}
			fmt.Fprintf(out, "    %-33s %s\n", k.Name+":", status)
		}

		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(out, "\n  Config problems:\n    %v\n", err)
		}
		fmt.Fprintln(out, "═══════════════════════════════════════")
		return nil
	},
}
