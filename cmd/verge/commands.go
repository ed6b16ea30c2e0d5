package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	_ "github.com/rpattn/verge/internal/bundles"
	"github.com/rpattn/verge/internal/changelog"
	"github.com/rpattn/verge/internal/codegen"
	"github.com/rpattn/verge/internal/registry"
	"github.com/rpattn/verge/internal/report"
	"github.com/rpattn/verge/internal/validate"
)

var rootCmd = &cobra.Command{
	Use:   "verge",
	Short: "Derive historical API versions from a head definition and a version chain",
	Long: "verge validates a declared version chain, derives every historical " +
		"schema and route set from the head definitions, and writes them as " +
		"reviewable, deterministic Go artifacts.",
	SilenceUsage: true,
}

var generateCmd = &cobra.Command{
	Use:   "generate <bundle>",
	Short: "Validate a bundle and write its versioned artifacts",
	Args:  cobra.ExactArgs(1),
	RunE:  runGenerate,
}

var validateCmd = &cobra.Command{
	Use:   "validate <bundle>",
	Short: "Validate a bundle's version chain without writing anything",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered bundles",
	RunE: func(cmd *cobra.Command, args []string) error {
		names := registry.Names()
		if len(names) == 0 {
			fmt.Println("no bundles registered")
			return nil
		}
		fmt.Println(strings.Join(names, "\n"))
		return nil
	},
}

func init() {
	generateCmd.Flags().String("out", "", "output directory (overrides configuration)")
	generateCmd.Flags().String("report", "", "also write a version matrix workbook to this path")
	rootCmd.AddCommand(generateCmd, validateCmd, listCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	bundle, ok := registry.Lookup(args[0])
	if !ok {
		return fmt.Errorf("unknown bundle %q (registered: %s)", args[0], strings.Join(registry.Names(), ", "))
	}

	if err := validate.Chain(bundle.Chain, bundle.Schemas, bundle.Routes); err != nil {
		return err
	}
	log.Info("chain is valid", "bundle", bundle.Name, "versions", bundle.Chain.Len())
	return nil
}

func runGenerate(cmd *cobra.Command, args []string) error {
	bundle, ok := registry.Lookup(args[0])
	if !ok {
		return fmt.Errorf("unknown bundle %q (registered: %s)", args[0], strings.Join(registry.Names(), ", "))
	}

	if err := validate.Chain(bundle.Chain, bundle.Schemas, bundle.Routes); err != nil {
		return err
	}

	schemasByVersion, err := codegen.GenerateSchemas(bundle.Schemas, bundle.Chain)
	if err != nil {
		return err
	}
	routesByVersion, err := codegen.GenerateRoutes(bundle.Routes, bundle.Chain)
	if err != nil {
		return err
	}
	artifacts, err := codegen.BuildArtifacts(bundle.Chain, schemasByVersion, routesByVersion)
	if err != nil {
		return err
	}

	outDir := cfg.OutputDir
	if flag, _ := cmd.Flags().GetString("out"); flag != "" {
		outDir = flag
	}
	outDir = filepath.Join(outDir, bundle.Name)

	if err := codegen.WriteArtifacts(outDir, artifacts); err != nil {
		return err
	}
	log.Info("artifacts written", "bundle", bundle.Name, "dir", outDir, "versions", bundle.Chain.Len())

	if cfg.ChangelogPath != "" {
		content := changelog.Build(bundle.Chain, schemasByVersion, routesByVersion)
		target := filepath.Join(outDir, filepath.Base(cfg.ChangelogPath))
		if err := os.WriteFile(target, []byte(content), 0o644); err != nil {
			return fmt.Errorf("write changelog: %w", err)
		}
		log.Info("changelog written", "path", target)
	}

	reportPath := cfg.ReportPath
	if flag, _ := cmd.Flags().GetString("report"); flag != "" {
		reportPath = flag
	}
	if reportPath != "" {
		if err := report.WriteMatrix(reportPath, bundle.Chain, schemasByVersion, routesByVersion); err != nil {
			return err
		}
		log.Info("version matrix written", "path", reportPath)
	}

	return nil
}
