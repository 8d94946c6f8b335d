package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/igor37/exorg/internal/config"
	"github.com/igor37/exorg/internal/export"
	"github.com/igor37/exorg/internal/notebook"
	"github.com/igor37/exorg/internal/parser"
	"github.com/igor37/exorg/internal/resolve"
	"github.com/igor37/exorg/internal/ui"
	"github.com/igor37/exorg/internal/watch"
	"github.com/igor37/exorg/internal/writer"
)

var version = "0.4.0"

var rootCmd = &cobra.Command{
	Use:   "exorg",
	Short: "Extract source blocks from org documents",
	Long: `Tangle literate org documents: collect the #+BEGIN_SRC blocks,
expand #+INCLUDE directives, and write the code out as standalone
files or a Jupyter notebook.`,
}

var tangleCmd = &cobra.Command{
	Use:   "tangle <file>",
	Short: "Write every tangled block to its target file",
	Long: `Collects every block with a tangle target (:tangle <path>, :tangle yes
or #+FILE:), groups blocks sharing a target into one file, and writes
the files under the output directory.`,
	Args: cobra.ExactArgs(1),
	RunE: runTangle,
}

var exportCmd = &cobra.Command{
	Use:   "export [language] <file>",
	Short: "Collect blocks into a single file",
	Long: `Collects blocks by language, or by name with --block, into one output
file. Block names resolve like paths in a shell: an unambiguous prefix
is enough.

  exorg export python notes.org
  exorg export notes.org -b setup
`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runExport,
}

var jupyterCmd = &cobra.Command{
	Use:   "jupyter <file>",
	Short: "Export python blocks as a Jupyter notebook",
	Args:  cobra.ExactArgs(1),
	RunE:  runJupyter,
}

var listCmd = &cobra.Command{
	Use:   "list <file>",
	Short: "Show the expanded block table",
	Args:  cobra.ExactArgs(1),
	RunE:  runList,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.AddCommand(tangleCmd, exportCmd, jupyterCmd, listCmd)

	rootCmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	rootCmd.PersistentFlags().Bool("strict", false, "Treat recoverable document problems as hard errors")
	rootCmd.PersistentFlags().String("out-dir", "", "Directory output files are written under (defaults to .)")

	for _, cmd := range []*cobra.Command{tangleCmd, exportCmd, jupyterCmd} {
		cmd.Flags().StringP("output", "o", "", "Explicit output path")
		cmd.Flags().BoolP("dry-run", "n", false, "Report writes without touching disk")
		cmd.Flags().BoolP("watch", "w", false, "Re-run whenever a source file changes")
	}
	exportCmd.Flags().StringP("block", "b", "", "Select blocks by name instead of language")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("strict", rootCmd.PersistentFlags().Lookup("strict"))
	viper.BindPFlag("out_dir", rootCmd.PersistentFlags().Lookup("out-dir"))
}

func initConfig() {
	if err := config.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
	}
}

func newLogger() *zap.SugaredLogger {
	cfg := zap.NewDevelopmentConfig()
	if !config.GetDebug() {
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	z, err := cfg.Build()
	if err != nil {
		return zap.NewNop().Sugar()
	}
	return z.Sugar()
}

// resolveDocument runs the front half of the pipeline: read, parse and
// expand one document, then layer configured extensions onto its table.
func resolveDocument(log *zap.SugaredLogger, file string) (*resolve.Result, error) {
	p := parser.New().WithLogger(log).WithStrict(config.GetStrict())
	res, err := resolve.New().
		WithLogger(log).
		WithParser(p).
		WithMaxDepth(config.GetMaxIncludeDepth()).
		ResolveFile(file)
	if err != nil {
		return nil, err
	}
	for language, ext := range config.GetExtensions() {
		res.Langs.Register(language, ext)
	}
	return res, nil
}

// runJob executes one export pass, or keeps re-running it under --watch.
func runJob(cmd *cobra.Command, log *zap.SugaredLogger, file string, job watch.Job) error {
	if watching, _ := cmd.Flags().GetBool("watch"); watching {
		w, err := watch.New(config.GetDebounce())
		if err != nil {
			return err
		}
		defer w.Close()
		log.Infof("watching %s", file)
		return w.WithLogger(log).Run(file, job)
	}
	_, err := job()
	return err
}

func runTangle(cmd *cobra.Command, args []string) error {
	log := newLogger()
	defer log.Sync()

	file := args[0]
	output, _ := cmd.Flags().GetString("output")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	job := func() ([]string, error) {
		res, err := resolveDocument(log, file)
		if err != nil {
			return nil, err
		}
		router := export.NewRouter(res).WithLogger(log)
		groups, err := router.AllTangled()
		if err != nil {
			return res.Visited, err
		}
		if len(groups) == 0 {
			log.Warnf("%s: no block requests tangling", file)
			return res.Visited, nil
		}
		files, err := router.Assemble(groups, output)
		if err != nil {
			return res.Visited, err
		}
		_, err = writer.New(config.GetOutDir()).WithLogger(log).WithDryRun(dryRun).Write(files)
		return res.Visited, err
	}
	return runJob(cmd, log, file, job)
}

func runExport(cmd *cobra.Command, args []string) error {
	log := newLogger()
	defer log.Sync()

	block, _ := cmd.Flags().GetString("block")
	var language, file string
	switch len(args) {
	case 1:
		if block == "" {
			return fmt.Errorf("export needs a language argument or --block")
		}
		file = args[0]
	case 2:
		if block != "" {
			return fmt.Errorf("give either a language argument or --block, not both")
		}
		language, file = args[0], args[1]
	}
	output, _ := cmd.Flags().GetString("output")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	job := func() ([]string, error) {
		res, err := resolveDocument(log, file)
		if err != nil {
			return nil, err
		}
		router := export.NewRouter(res).WithLogger(log)
		var groups []*export.Group
		if block != "" {
			groups, err = router.ByName(block)
		} else {
			groups, err = router.ByLanguage(language)
		}
		if err != nil {
			return res.Visited, err
		}
		files, err := router.Assemble(groups, output)
		if err != nil {
			return res.Visited, err
		}
		_, err = writer.New(config.GetOutDir()).WithLogger(log).WithDryRun(dryRun).Write(files)
		return res.Visited, err
	}
	return runJob(cmd, log, file, job)
}

func runJupyter(cmd *cobra.Command, args []string) error {
	log := newLogger()
	defer log.Sync()

	file := args[0]
	output, _ := cmd.Flags().GetString("output")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	job := func() ([]string, error) {
		res, err := resolveDocument(log, file)
		if err != nil {
			return nil, err
		}
		groups, err := export.NewRouter(res).WithLogger(log).ByLanguage("python")
		if err != nil {
			return res.Visited, err
		}
		raw, err := notebook.New(groups[0].Blocks).JSON()
		if err != nil {
			return res.Visited, err
		}
		name := output
		if name == "" {
			name = docStem(file) + ".ipynb"
		}
		_, err = writer.New(config.GetOutDir()).WithLogger(log).WithDryRun(dryRun).
			Write([]export.File{{Name: name, Content: string(raw)}})
		return res.Visited, err
	}
	return runJob(cmd, log, file, job)
}

func runList(cmd *cobra.Command, args []string) error {
	log := newLogger()
	defer log.Sync()

	res, err := resolveDocument(log, args[0])
	if err != nil {
		return err
	}
	fmt.Println(ui.RenderBlocks(res.Blocks))
	return nil
}

// docStem is the document's base name without its extension.
func docStem(file string) string {
	base := filepath.Base(file)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func main() {
	rootCmd.Version = version
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
