package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"github.com/taikocss/taikocss/internal/config"
	"github.com/taikocss/taikocss/internal/logger"
	"github.com/taikocss/taikocss/pkg/transform"
)

type buildFlags struct {
	configPath string
	themePath  string
	direction  string
	outDir     string
	sourceMaps bool
	stdout     bool
	manifest   string
}

func newBuildCmd(root *rootFlags) *cobra.Command {
	flags := &buildFlags{}

	cmd := &cobra.Command{
		Use:   "build [files...]",
		Short: "Transform source files and write their CSS artifacts",
		Long: `Build transforms each input file, erasing css()/globalCss/keyframes call
sites, and writes one content-addressed CSS artifact per extracted rule.
Artifacts already written in this run are skipped: equal styles share a hash.

Without positional files the include globs from taikocss.yaml are used.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, args, flags, root)
		},
	}

	cmd.Flags().StringVarP(&flags.configPath, "config", "c", "", "Path to taikocss.yaml")
	cmd.Flags().StringVar(&flags.themePath, "theme", "", "Path to the theme JSON file")
	cmd.Flags().StringVar(&flags.direction, "dir", "", "Text direction: ltr or rtl")
	cmd.Flags().StringVarP(&flags.outDir, "out", "o", "", "Artifact output directory")
	cmd.Flags().BoolVar(&flags.sourceMaps, "sourcemap", false, "Emit V3 source maps next to each artifact")
	cmd.Flags().BoolVar(&flags.stdout, "stdout", false, "Print rewritten sources to stdout instead of writing files")
	cmd.Flags().StringVar(&flags.manifest, "manifest", "", "Write a JSON manifest mapping inputs to emitted artifact names")

	return cmd
}

func runBuild(cmd *cobra.Command, args []string, flags *buildFlags, root *rootFlags) error {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return err
	}
	applyBuildFlags(cmd, flags, cfg)

	level := "info"
	if root.verbose {
		level = "debug"
	}
	log, err := logger.New(logger.Options{Level: level, HumanReadable: true})
	if err != nil {
		return err
	}

	files, err := resolveInputs(args, cfg)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no input files: pass paths or set include patterns in %s", config.DefaultFilename)
	}

	themeJSON := ""
	if cfg.Theme != "" {
		data, err := os.ReadFile(cfg.Theme)
		if err != nil {
			return fmt.Errorf("reading theme: %w", err)
		}
		themeJSON = string(data)
	}

	opts := transform.Options{
		ThemeJSON:  themeJSON,
		Direction:  transform.Direction(cfg.Direction),
		SourceMaps: cfg.SourceMaps,
	}

	if !flags.stdout {
		if err := os.MkdirAll(cfg.Out, 0o755); err != nil {
			return err
		}
	}

	emit := newEmitter()
	manifest := make(map[string][]string)
	ruleCount := 0

	for _, file := range files {
		source, err := os.ReadFile(file)
		if err != nil {
			return err
		}

		res, err := transform.Transform(file, string(source), opts)
		if err != nil {
			return err
		}

		log.WithFile(file).Debugf("extracted %d component, %d global, %d keyframes rules",
			len(res.CSSRules), len(res.GlobalCSS), len(res.Keyframes))
		ruleCount += len(res.CSSRules) + len(res.GlobalCSS) + len(res.Keyframes)

		names := []string{}
		for _, a := range artifactsFor(res) {
			names = append(names, a.Name)
			emit.add(a)
		}
		manifest[file] = names

		if flags.stdout {
			fmt.Fprintln(cmd.OutOrStdout(), res.Code)
			continue
		}
		outPath := filepath.Join(cfg.Out, filepath.Base(file))
		if err := os.WriteFile(outPath, []byte(res.Code), 0o644); err != nil {
			return err
		}
		if res.Map != "" {
			if err := os.WriteFile(outPath+".map", []byte(res.Map), 0o644); err != nil {
				return err
			}
		}
	}

	if !flags.stdout {
		if err := emit.flush(cfg.Out); err != nil {
			return err
		}
	}
	if flags.manifest != "" {
		if err := writeManifest(flags.manifest, manifest); err != nil {
			return err
		}
	}

	log.Infof("transformed %d files, %d rules, %d unique artifacts", len(files), ruleCount, emit.count())
	return nil
}

func applyBuildFlags(cmd *cobra.Command, flags *buildFlags, cfg *config.Config) {
	if cmd.Flags().Changed("theme") {
		cfg.Theme = flags.themePath
	}
	if cmd.Flags().Changed("dir") {
		cfg.Direction = flags.direction
	}
	if cmd.Flags().Changed("out") {
		cfg.Out = flags.outDir
	}
	if cmd.Flags().Changed("sourcemap") {
		cfg.SourceMaps = flags.sourceMaps
	}
}

// resolveInputs expands the include/exclude globs when no positional files
// are given.
func resolveInputs(args []string, cfg *config.Config) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	var files []string
	seen := make(map[string]struct{})
	for _, pattern := range cfg.Include {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("glob %q: %w", pattern, err)
		}
		for _, m := range matches {
			if _, dup := seen[m]; dup || excluded(cfg.Exclude, m) {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	sort.Strings(files)
	return files, nil
}

func excluded(patterns []string, path string) bool {
	for _, pattern := range patterns {
		if ok, err := doublestar.PathMatch(pattern, filepath.ToSlash(path)); err == nil && ok {
			return true
		}
	}
	return false
}

func writeManifest(path string, manifest map[string][]string) error {
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
