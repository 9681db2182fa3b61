// Package cli provides the Cobra-based CLI for storefront.
package cli

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"storefront/catalog"
	"storefront/config"
	"storefront/domain"
	"storefront/store"
)

var (
	rootCmd = &cobra.Command{
		Use:   "storefront",
		Short: "Browse, filter and serve a product catalog",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// tests inject the store directly
			if catalogStore != nil {
				return nil
			}

			if err := config.LoadEnv(); err != nil {
				return err
			}
			if cfg := viper.GetString("config"); cfg != "" {
				viper.SetConfigFile(cfg)
				if err := viper.ReadInConfig(); err != nil {
					return err
				}
			}
			setupLogging(viper.GetString("log-level"))

			var err error
			catalogStore, err = openStore()
			return err
		},
		SilenceUsage: true,
	}

	catalogStore domain.CatalogStore
)

func setupLogging(level string) {
	lvl := slog.LevelInfo
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn", "warning":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	}
	slog.SetDefault(slog.New(
		slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}),
	))
}

// openStore builds the configured catalog source, wrapped in the redis
// cache when a redis URL is set.
func openStore() (domain.CatalogStore, error) {
	kind := viper.GetString("store")
	st, err := store.NewStore(kind, viper.GetString("location"))
	if err != nil {
		return nil, err
	}
	if url := viper.GetString("redis-url"); url != "" {
		rdb, err := store.NewRedisClient(url)
		if err != nil {
			return nil, fmt.Errorf("redis url: %w", err)
		}
		st = store.NewCachedStore(st, rdb, viper.GetString("cache-key"), viper.GetDuration("cache-ttl"))
		slog.Debug("catalog cache enabled", "store", kind)
	}
	return st, nil
}

// loadCatalog fetches the full catalog, logging how long it took.
func loadCatalog(ctx context.Context) ([]domain.Product, error) {
	start := time.Now()
	all, err := catalogStore.Catalog(ctx)
	if err != nil {
		slog.Error("catalog fetch failed", "store", viper.GetString("store"), "error", err)
		return nil, err
	}
	slog.Debug("catalog loaded", "products", len(all), "duration_ms", time.Since(start).Milliseconds())
	return all, nil
}

// decodeProducts accepts a JSON array, NDJSON, a single JSON object or a
// YAML sequence.
func decodeProducts(name string, b []byte) ([]domain.Product, error) {
	btrim := bytes.TrimSpace(b)
	if len(btrim) == 0 {
		return nil, errors.New("empty file")
	}

	var products []domain.Product
	switch ext := strings.ToLower(filepath.Ext(name)); {
	case ext == ".yaml" || ext == ".yml":
		if err := yaml.Unmarshal(btrim, &products); err != nil {
			return nil, err
		}
	case btrim[0] == '[':
		if err := json.Unmarshal(btrim, &products); err != nil {
			return nil, err
		}
	case json.Valid(btrim):
		var p domain.Product
		if err := json.Unmarshal(btrim, &p); err != nil {
			return nil, err
		}
		products = append(products, p)
	default:
		scanner := bufio.NewScanner(bytes.NewReader(btrim))
		scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
		for scanner.Scan() {
			line := bytes.TrimSpace(scanner.Bytes())
			if len(line) == 0 {
				continue
			}
			var p domain.Product
			if err := json.Unmarshal(line, &p); err != nil {
				return nil, err
			}
			products = append(products, p)
		}
		if err := scanner.Err(); err != nil {
			return nil, err
		}
	}
	return products, nil
}

func init() {
	rootCmd.PersistentFlags().String("store", "memory", "catalog source: memory|file|sqlite|http")
	rootCmd.PersistentFlags().String("location", "data/products.json", "file path, database path or backend URL for the store")
	rootCmd.PersistentFlags().String("redis-url", "", "redis:// URL; caches the catalog when set")
	rootCmd.PersistentFlags().String("cache-key", "storefront:catalog", "redis key for the cached catalog")
	rootCmd.PersistentFlags().Duration("cache-ttl", store.DefaultCacheTTL, "how long the cached catalog stays valid")
	rootCmd.PersistentFlags().String("config", "", "config file")
	rootCmd.PersistentFlags().String("log-level", "info", "log level")
	rootCmd.PersistentFlags().Int("per-page", catalog.DefaultPerPage, "products per page")

	for _, name := range []string{"store", "location", "redis-url", "cache-key", "cache-ttl", "config", "log-level", "per-page"} {
		_ = viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name))
	}
	viper.SetEnvPrefix("STOREFRONT")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	// browse
	var raw catalog.RawCriteria
	var bPage int
	var bOutput string
	browseCmd := &cobra.Command{
		Use:     "browse",
		Aliases: []string{"list"},
		Short:   "Filter, sort and page through the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			all, err := loadCatalog(cmd.Context())
			if err != nil {
				return err
			}
			criteria := catalog.ParseCriteria(raw)
			view := catalog.ComputeView(all, criteria, bPage, viper.GetInt("per-page"))
			slog.Debug("view computed",
				"matched", view.TotalItems,
				"page", view.Page,
				"sort", criteria.Sort,
			)

			out := cmd.OutOrStdout()
			if ok, err := writeEncoded(out, bOutput, view); ok {
				return err
			}
			renderView(out, view)
			return nil
		},
	}
	browseCmd.Flags().StringVarP(&raw.Search, "search", "q", "", "case-insensitive search in title, brand and description")
	browseCmd.Flags().StringVar(&raw.MinPrice, "min-price", "", "minimum price (inclusive)")
	browseCmd.Flags().StringVar(&raw.MaxPrice, "max-price", "", "maximum price (inclusive)")
	browseCmd.Flags().StringSliceVar(&raw.Brands, "brand", nil, "brand to include; repeat or comma separate")
	browseCmd.Flags().StringVar(&raw.MinRating, "min-rating", "", "minimum effective rating")
	browseCmd.Flags().BoolVar(&raw.InStock, "in-stock", false, "only products with stock")
	browseCmd.Flags().StringVar(&raw.Sort, "sort", "", "default|price-asc|price-desc|rating-desc|newest")
	browseCmd.Flags().IntVar(&bPage, "page", 1, "page number")
	browseCmd.Flags().StringVarP(&bOutput, "output", "o", "table", "output format: table|json|yaml")
	rootCmd.AddCommand(browseCmd)

	// show
	var sOutput string
	showCmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show product details and reviews",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			p, err := catalogStore.Get(cmd.Context(), id)
			if err != nil {
				if domain.IsProductNotFoundError(err) {
					fmt.Fprintln(cmd.ErrOrStderr(), err)
					return nil
				}
				return err
			}
			out := cmd.OutOrStdout()
			if ok, err := writeEncoded(out, sOutput, p); ok {
				return err
			}
			renderProduct(out, p)
			return nil
		},
	}
	showCmd.Flags().StringVarP(&sOutput, "output", "o", "text", "output format: text|json|yaml")
	rootCmd.AddCommand(showCmd)

	// facets
	var fOutput string
	facetsCmd := &cobra.Command{
		Use:     "facets",
		Aliases: []string{"brands"},
		Short:   "List brands, price bounds and stock counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			all, err := loadCatalog(cmd.Context())
			if err != nil {
				return err
			}
			f := catalog.BuildFacets(all)
			out := cmd.OutOrStdout()
			if ok, err := writeEncoded(out, fOutput, f); ok {
				return err
			}
			renderFacets(out, f)
			return nil
		},
	}
	facetsCmd.Flags().StringVarP(&fOutput, "output", "o", "text", "output format: text|json|yaml")
	rootCmd.AddCommand(facetsCmd)

	// review
	var rName, rComment string
	var rRating int
	reviewCmd := &cobra.Command{
		Use:   "review <id>",
		Short: "Add a review to a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			start := time.Now()
			p, err := catalogStore.AddReview(cmd.Context(), id, domain.Review{
				ReviewerName: rName,
				Comment:      rComment,
				Rating:       rRating,
			})
			if err != nil {
				slog.Error("review failed", "product_id", id, "error", err)
				return err
			}
			slog.Info("review added", "product_id", id, "duration_ms", time.Since(start).Milliseconds())
			fmt.Fprintf(cmd.OutOrStdout(), "review added; %s is now rated %s\n", p.Title, formatRating(domain.EffectiveRating(p)))
			return nil
		},
	}
	reviewCmd.Flags().StringVar(&rName, "name", "", "reviewer name")
	reviewCmd.Flags().StringVar(&rComment, "comment", "", "review text")
	reviewCmd.Flags().IntVar(&rRating, "rating", 0, "rating 1-5 (default 5)")
	rootCmd.AddCommand(reviewCmd)

	// import
	var importFile string
	importCmd := &cobra.Command{
		Use:   "import --file <file>",
		Short: "Import products from JSON, NDJSON or YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			if importFile == "" {
				return errors.New("--file required")
			}
			b, err := os.ReadFile(importFile)
			if err != nil {
				return err
			}
			products, err := decodeProducts(importFile, b)
			if err != nil {
				return err
			}
			start := time.Now()
			err = catalogStore.BulkImport(cmd.Context(), products)
			slog.Info("import finished",
				"file", importFile,
				"products", len(products),
				"duration_ms", time.Since(start).Milliseconds(),
			)
			return err
		},
	}
	importCmd.Flags().StringVar(&importFile, "file", "", "input file")
	rootCmd.AddCommand(importCmd)

	// export
	var exportFile, exportFormat string
	exportCmd := &cobra.Command{
		Use:   "export --file <file>",
		Short: "Export the catalog to JSON or YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			if exportFile == "" {
				return errors.New("--file required")
			}
			all, err := loadCatalog(cmd.Context())
			if err != nil {
				return err
			}
			format := exportFormat
			if format == "" {
				format = strings.TrimPrefix(strings.ToLower(filepath.Ext(exportFile)), ".")
			}
			var b []byte
			switch format {
			case "yaml", "yml":
				b, err = yaml.Marshal(all)
			case "json", "":
				b, err = json.MarshalIndent(all, "", "  ")
			default:
				return fmt.Errorf("unsupported export format: %s", format)
			}
			if err != nil {
				return err
			}
			return os.WriteFile(exportFile, b, 0o644)
		},
	}
	exportCmd.Flags().StringVar(&exportFile, "file", "", "output file")
	exportCmd.Flags().StringVar(&exportFormat, "format", "", "json|yaml (default from file extension)")
	rootCmd.AddCommand(exportCmd)
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || id <= 0 {
		return 0, domain.NewInvalidProductError("id", "must be a positive integer", s)
	}
	return id, nil
}

func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the CLI with ctx available to every command.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
