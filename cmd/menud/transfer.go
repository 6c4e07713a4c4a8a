package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"menud/internal/codec"
	"menud/internal/service"
	"menud/internal/watcher"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func (a *app) importCmd() *cobra.Command {
	var replace, watch bool

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Load menu items from a JSON or YAML file",
		Long: `Loads menu items into the store. The format follows the file
extension (.json, .yaml, .yml). Items whose id already exists are skipped
unless --replace is given.

With --watch the file is imported again, replacing existing ids, every
time it changes until the process is interrupted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			c, err := codec.ForPath(path)
			if err != nil {
				return err
			}

			repo, err := a.openStore(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer repo.Close()

			svc := service.NewMenuService(repo, nil, a.cfg.Menu.Sections, a.logger)
			result, err := importFile(cmd.Context(), svc, c, path, replace)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %s: %d created, %d replaced, %d skipped\n",
				path, result.Created, result.Replaced, result.Skipped)

			if !watch {
				return nil
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			w := watcher.New(path, func() {
				result, err := importFile(ctx, svc, c, path, true)
				if err != nil {
					a.logger.Error("Re-import failed", zap.String("path", path), zap.Error(err))
					return
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Re-imported %s: %d created, %d replaced\n",
					path, result.Created, result.Replaced)
			}, a.logger)

			if err := w.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&replace, "replace", false, "overwrite items whose id already exists")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "re-import whenever the file changes")
	return cmd
}

func importFile(ctx context.Context, svc *service.MenuService, c codec.Importer, path string, replace bool) (*service.ImportResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	items, err := c.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return svc.ImportItems(ctx, items, replace)
}

func (a *app) exportCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every menu item to stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := codec.ForFormat(format)
			if err != nil {
				return err
			}

			repo, err := a.openStore(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer repo.Close()

			svc := service.NewMenuService(repo, nil, a.cfg.Menu.Sections, a.logger)
			items, err := svc.ListItems(cmd.Context())
			if err != nil {
				return err
			}

			return c.Export(items, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format: json or yaml")
	return cmd
}
