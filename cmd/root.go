package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"kvshift/internal/catalog"
	"kvshift/internal/config"
	"kvshift/internal/engine"
	"kvshift/internal/models"
	"kvshift/internal/report"
	"kvshift/internal/watcher"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	dialectFlag        string
	formatFlag         string
	convertFlag        bool
	outDirFlag         string
	watchFlag          bool
	configFlag         string
	generateConfigFlag bool
	minConfidenceFlag  float64
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "kvshift [files or directories]",
	Short: "Analyze and convert legacy Redis client code toward valkey-glide",
	Long: `kvshift scans JavaScript/TypeScript sources for ioredis or node-redis
usage patterns, scores detection confidence, and produces a migration plan
with risk and effort estimates. With --convert it also rewrites the
recognized call sites toward the valkey-glide client.

Examples:
  kvshift --dialect=ioredis src/                 # Analyze a directory
  kvshift -d node-redis app.js worker.js         # Analyze specific files
  kvshift -d ioredis --format=json src/          # JSON output
  kvshift -d ioredis --convert --out-dir=out src # Write converted sources
  kvshift --generate-config                      # Generate sample config file`,
	Run: runAnalysis,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().StringVarP(&dialectFlag, "dialect", "d", "", "Source dialect (ioredis, node-redis)")
	rootCmd.Flags().StringVarP(&formatFlag, "format", "f", "", "Output format (console, json)")
	rootCmd.Flags().BoolVar(&convertFlag, "convert", false, "Write converted sources")
	rootCmd.Flags().StringVar(&outDirFlag, "out-dir", "converted", "Directory for converted sources")
	rootCmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "Watch mode for development")
	rootCmd.Flags().StringVarP(&configFlag, "config", "c", "", "Path to configuration file")
	rootCmd.Flags().BoolVar(&generateConfigFlag, "generate-config", false, "Generate sample configuration file")
	rootCmd.Flags().Float64Var(&minConfidenceFlag, "min-confidence", -1, "Minimum pattern confidence (overrides config)")
}

func runAnalysis(cmd *cobra.Command, args []string) {
	if generateConfigFlag {
		generateConfig()
		return
	}

	cfg, err := config.LoadConfig(configFlag)
	if err != nil {
		color.Red("Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	if formatFlag != "" {
		cfg.Output.Format = formatFlag
	}
	if minConfidenceFlag >= 0 {
		cfg.Analysis.MinConfidence = minConfidenceFlag
	}

	// The dialect is the one input that is never defaulted.
	dialect, err := models.ParseDialect(dialectFlag)
	if err != nil {
		color.Red("%v\n", err)
		os.Exit(1)
	}

	if len(args) == 0 {
		args = []string{"."}
	}

	sourceFiles := collectAll(args, cfg)
	if len(sourceFiles) == 0 {
		color.Yellow("⚠️  No source files found to analyze\n")
		return
	}

	analyzer := engine.NewAnalyzer(catalog.Default(), cfg)
	reportGen := report.NewGeneratorWithConfig(cfg)

	if cfg.Output.Verbose {
		color.Cyan("🔍 Analyzing %d files against %d signatures (dialect: %s)...\n\n",
			len(sourceFiles), analyzer.CatalogSize(), dialect)
	} else {
		color.Cyan("🔍 Analyzing %d files...\n\n", len(sourceFiles))
	}

	run := func(files []string) error {
		units, err := loadUnits(files, cfg)
		if err != nil {
			return err
		}

		result := analyzer.AnalyzeUnits(units, dialect)
		output := reportGen.Generate(result)

		if cfg.Output.OutputFile != "" {
			if err := writeReportToFile(output, cfg.Output.OutputFile); err != nil {
				color.Red("Failed to write report to file: %v\n", err)
			} else {
				color.Green("📄 Report saved to: %s\n", cfg.Output.OutputFile)
			}
		} else {
			fmt.Print(output)
		}

		if convertFlag {
			return convertFiles(units, result, dialect)
		}
		return nil
	}

	if err := run(sourceFiles); err != nil {
		color.Red("Analysis failed: %v\n", err)
		os.Exit(1)
	}

	if watchFlag {
		watchAndRerun(sourceFiles, args, cfg, run)
	}
}

// convertFiles applies every detected pattern cumulatively per file and
// writes the converted text under the output directory.
func convertFiles(units []engine.SourceUnit, result *models.ProjectReport, dialect models.Dialect) error {
	converter := engine.NewConverter()

	outDir := outDirFlag
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	for i, unit := range units {
		analysis := result.Analyses[i]
		if len(analysis.Patterns) == 0 {
			continue
		}

		converted, results := converter.ConvertAll(unit.Text, analysis.Patterns, dialect)

		outPath := filepath.Join(outDir, filepath.Base(unit.Name))
		if err := os.WriteFile(outPath, []byte(converted), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", outPath, err)
		}

		color.Green("✅ Converted %s -> %s\n", unit.Name, outPath)
		for _, res := range results {
			for _, warning := range res.Warnings {
				color.Yellow("   ⚠ [%s] %s\n", warning.Kind, warning.Message)
			}
			if res.StepsSkipped > 0 {
				color.White("   %s: %d steps applied, %d skipped\n",
					res.Pattern.Type, res.StepsApplied, res.StepsSkipped)
			}
		}
	}

	return nil
}

func watchAndRerun(files []string, roots []string, cfg *config.Config, run func([]string) error) {
	log := logrus.New()
	if cfg.Output.Verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	fw, err := watcher.NewFileWatcher(cfg, log)
	if err != nil {
		color.Red("Failed to start watch mode: %v\n", err)
		os.Exit(1)
	}
	defer fw.Close()

	dirs := make([]string, 0, len(roots))
	for _, root := range roots {
		info, err := os.Stat(root)
		if err == nil && info.IsDir() {
			dirs = append(dirs, root)
		} else {
			dirs = append(dirs, filepath.Dir(root))
		}
	}

	err = fw.Watch(dirs, func(changed []string) error {
		color.Cyan("\n🔁 Change detected, re-analyzing...\n\n")
		return run(files)
	})
	if err != nil {
		color.Red("Failed to watch: %v\n", err)
		os.Exit(1)
	}

	color.Cyan("👀 Watching for changes (Ctrl+C to stop)\n")
	select {}
}

// loadUnits reads source files into memory. The engine itself never touches
// the file system.
func loadUnits(files []string, cfg *config.Config) ([]engine.SourceUnit, error) {
	units := make([]engine.SourceUnit, 0, len(files))
	maxBytes := int64(cfg.Files.MaxFileSize) * 1024

	for _, file := range files {
		info, err := os.Stat(file)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", file, err)
		}
		if maxBytes > 0 && info.Size() > maxBytes {
			color.Yellow("⚠️  Skipping %s (exceeds %d KB)\n", file, cfg.Files.MaxFileSize)
			continue
		}

		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", file, err)
		}
		units = append(units, engine.SourceUnit{Name: file, Text: string(data)})
	}

	return units, nil
}

func collectAll(args []string, cfg *config.Config) []string {
	var sourceFiles []string
	for _, arg := range args {
		files, err := collectSourceFiles(arg, cfg)
		if err != nil {
			color.Red("Error collecting files from %s: %v\n", arg, err)
			continue
		}
		sourceFiles = append(sourceFiles, files...)
	}
	return sourceFiles
}

// collectSourceFiles finds the source files under the given path that match
// the configured include globs and none of the exclude globs.
func collectSourceFiles(path string, cfg *config.Config) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		return []string{path}, nil
	}

	var sourceFiles []string
	err = filepath.Walk(path, func(filePath string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		rel, relErr := filepath.Rel(path, filePath)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)

		if info.IsDir() {
			for _, pattern := range cfg.Files.Exclude {
				// Match the directory prefix so excluded trees are skipped whole
				if matched, _ := doublestar.Match(pattern, rel+"/"); matched {
					return filepath.SkipDir
				}
				if matched, _ := doublestar.Match(strings.TrimSuffix(pattern, "/**"), rel); matched {
					return filepath.SkipDir
				}
			}
			return nil
		}

		for _, pattern := range cfg.Files.Exclude {
			if matched, _ := doublestar.Match(pattern, rel); matched {
				return nil
			}
		}

		for _, pattern := range cfg.Files.Include {
			if matched, _ := doublestar.Match(pattern, rel); matched {
				sourceFiles = append(sourceFiles, filePath)
				return nil
			}
		}

		return nil
	})

	return sourceFiles, err
}

func writeReportToFile(reportText, filePath string) error {
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	return os.WriteFile(filePath, []byte(reportText), 0644)
}

func generateConfig() {
	configPath := ".kvshift.yml"
	if err := config.GenerateConfig(configPath); err != nil {
		color.Red("Failed to generate config file: %v\n", err)
		os.Exit(1)
	}
	color.Green("✅ Generated sample configuration file: %s\n", configPath)
	color.Cyan("📝 Edit this file to customize kvshift behavior\n")
	color.Cyan("🚀 Run 'kvshift --config=%s --dialect=ioredis .' to use it\n", configPath)
}
