package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ikkim/storefront/config"
	"github.com/ikkim/storefront/internal/app/model"
	"github.com/ikkim/storefront/internal/db"
	"github.com/ikkim/storefront/pkg/logger"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		reset bool
		yes   bool
	)

	cmd := &cobra.Command{
		Use:   "seed [catalog.yaml|catalog.xlsx]",
		Short: "Load catalog items into the storefront database",
		Long: "Seeds the sample user and a catalog into an empty database. Without a file\n" +
			"the built-in catalog is used. --reset drops every table first.",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			logger.Initialize(logger.Config{Level: "info", Format: "console", EnableColor: true})

			if err := db.Initialize(&cfg.Database); err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer db.Close()

			if reset {
				if !yes && !confirm(cmd.InOrStdin(), cmd.OutOrStdout(), "This deletes all users, carts and orders. Continue?") {
					fmt.Fprintln(cmd.OutOrStdout(), "Reset cancelled.")
					return nil
				}
				if err := db.ResetDB(db.GetDB()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Database reset with the sample user and catalog.")
				if len(args) == 0 {
					return nil
				}
			} else if err := db.Migrate(); err != nil {
				return err
			}

			if len(args) == 0 {
				return db.Seed()
			}

			items, err := readCatalog(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Total items to import: %d\n", len(items))

			if !yes && !confirm(cmd.InOrStdin(), cmd.OutOrStdout(), "Proceed with the import?") {
				fmt.Fprintln(cmd.OutOrStdout(), "Import cancelled.")
				return nil
			}

			if reset {
				// ResetDB already inserted the built-in catalog.
				if err := db.GetDB().Where("1 = 1").Delete(&model.Item{}).Error; err != nil {
					return err
				}
			}
			n, err := db.SeedItems(db.GetDB(), items)
			if err != nil {
				return fmt.Errorf("failed to import items: %w", err)
			}
			if n == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Items table is not empty; nothing imported. Use --reset to replace the catalog.")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Import completed: %d items\n", n)
			return nil
		},
	}

	cmd.Flags().BoolVar(&reset, "reset", false, "drop and recreate all tables before seeding")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func readCatalog(path string) ([]model.Item, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return db.LoadCatalogXLSX(f)
	case ".yaml", ".yml":
		return db.LoadCatalog(f)
	default:
		return nil, fmt.Errorf("unsupported catalog format %q (want .yaml or .xlsx)", filepath.Ext(path))
	}
}

func confirm(in io.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s (yes/no): ", question)
	answer, _ := bufio.NewReader(in).ReadString('\n')
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "yes" || answer == "y"
}
