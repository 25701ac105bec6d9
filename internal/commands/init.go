package commands

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/oficina-erp/oficina/internal/catalog"
	"github.com/oficina-erp/oficina/internal/config"
	"github.com/oficina-erp/oficina/internal/gitops"
)

func newInitCommand() *cobra.Command {
	var name, backend string
	var samples, noGit bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new oficina project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(cmd.Context(), cmd, absDir, name, backend, samples, noGit)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "company name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().StringVar(&backend, "backend", config.BackendFile, "storage backend: file, memory or postgres")
	cmd.Flags().BoolVar(&samples, "samples", false, "seed the catalog with sample products")
	cmd.Flags().BoolVar(&noGit, "no-git", false, "do not initialize a git repository")

	return cmd
}

func runInit(ctx context.Context, cmd *cobra.Command, dir, name, backend string, samples, noGit bool) error {
	if _, err := os.Stat(filepath.Join(dir, config.FileName)); err == nil {
		return fmt.Errorf("%s already exists in %s", config.FileName, dir)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}

	cfg := config.Default(name)
	cfg.Storage.Backend = backend
	if err := cfg.Validate(); err != nil {
		return err
	}
	useGit := !noGit && backend == config.BackendFile
	if _, err := exec.LookPath("git"); err != nil {
		useGit = false
	}
	cfg.Git.AutoCommit = useGit

	if err := config.Save(filepath.Join(dir, config.FileName), cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(".env\n*.tmp\n"), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}

	err := withApp(ctx, dir, func(a *app) (string, error) {
		if !samples {
			return "", nil
		}
		for _, in := range catalog.SampleProducts() {
			if _, err := a.catalog.Add(ctx, in); err != nil {
				return "", fmt.Errorf("adding sample product %s: %w", in.Code, err)
			}
		}
		return "", nil
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if !useGit {
		fmt.Fprintf(out, "Initialized oficina project at %s\n", dir)
		return nil
	}

	if err := gitops.Init(ctx, dir); err != nil {
		return err
	}
	author := gitops.Author{Name: cfg.Git.AuthorName, Email: cfg.Git.AuthorEmail}
	hash, err := gitops.CommitAll(ctx, dir, "init: Initialize "+name, author)
	if err != nil {
		return fmt.Errorf("initial commit: %w", err)
	}

	fmt.Fprintf(out, "Initialized oficina project at %s (%s)\n", dir, hash)
	return nil
}
