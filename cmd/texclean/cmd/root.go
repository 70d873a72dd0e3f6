package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"texclean/internal/cleaner"
	"texclean/internal/config"
	"texclean/internal/editor"
	"texclean/internal/logger"
	"texclean/internal/types"
)

// version is overridden at build time with -ldflags "-X texclean/cmd/texclean/cmd.version=..."
var version = "dev"

const (
	exitOK      = 0
	exitChanged = 1
	exitError   = 2
)

type rootFlags struct {
	inPlace      bool
	output       string
	encoding     string
	keepComments bool
	parenMath    bool
	nfc          bool
	skip         []string
	backup       bool
	keepBackups  int
	configPath   string
	logFile      string
	verbose      bool
}

// app holds the I/O endpoints and per-invocation state of one command run.
type app struct {
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
	flags   rootFlags
	changed bool
	warn    lipgloss.Style
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *app {
	return &app{
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
		warn:   lipgloss.NewRenderer(stderr).NewStyle().Bold(true).Foreground(lipgloss.Color("3")),
	}
}

// newRootCmd builds the command tree bound to a.
func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "texclean [flags] [file...]",
		Short: "Clean up LaTeX sources",
		Long: `texclean rewrites LaTeX sources into a canonical style: it removes comments and
stray whitespace, replaces $$..$$ with \[..\], \over with \frac, eqnarray with align,
and applies a fixed list of other typographic fixes.

Without files, or with "-", it reads stdin. Results go to stdout unless
--in-place or --output is given.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, args)
		},
	}
	rootCmd.SetIn(a.stdin)
	rootCmd.SetOut(a.stdout)
	rootCmd.SetErr(a.stderr)

	f := rootCmd.PersistentFlags()
	f.BoolVarP(&a.flags.keepComments, "keep-comments", "c", false, "keep comments")
	f.BoolVarP(&a.flags.parenMath, "paren-math", "p", false, `replace inline $..$ with \(..\)`)
	f.BoolVar(&a.flags.nfc, "nfc", false, "NFC-normalize the input first")
	f.StringArrayVar(&a.flags.skip, "skip", nil, "disable a rule by name (repeatable)")
	f.StringVar(&a.flags.configPath, "config", "", "config file (default ~/.config/texclean/texclean.json)")
	f.StringVar(&a.flags.logFile, "log-file", "", "write log entries to this file")
	f.BoolVar(&a.flags.verbose, "verbose", false, "log at debug level")

	lf := rootCmd.Flags()
	lf.BoolVarP(&a.flags.inPlace, "in-place", "i", false, "modify all files in place")
	lf.StringVarP(&a.flags.output, "output", "o", "", "write the result to this file")
	lf.StringVarP(&a.flags.encoding, "encoding", "e", "", `encoding for reading and writing ("auto", a WHATWG label or "utf-8-bom")`)
	lf.BoolVar(&a.flags.backup, "backup", false, "with --in-place, keep a timestamped copy of each changed file")
	lf.IntVar(&a.flags.keepBackups, "keep-backups", 0, "with --backup, keep only this many copies per file (0 keeps all)")

	rootCmd.AddCommand(newRulesCmd(a))
	rootCmd.AddCommand(newConfigCmd(a))
	return rootCmd
}

// execute runs the command line args and maps the outcome to an exit code.
func (a *app) execute(args []string) int {
	rootCmd := newRootCmd(a)
	rootCmd.SetArgs(args)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(a.stderr, "texclean: %v\n", err)
		return exitError
	}
	if a.changed {
		return exitChanged
	}
	return exitOK
}

// Execute runs texclean against the process arguments and returns the exit code.
// This is called by main.main().
func Execute() int {
	return newApp(os.Stdin, os.Stdout, os.Stderr).execute(os.Args[1:])
}

// settings is the merged result of config file, environment and flags.
type settings struct {
	options  cleaner.Options
	encoding string
	logLevel logger.Level
	logFile  string
}

// loadSettings reads the config file and lets explicitly set flags override it.
func (a *app) loadSettings(cmd *cobra.Command) (*config.ConfigManager, settings, error) {
	cm, err := config.NewConfigManager(a.flags.configPath)
	if err != nil {
		return nil, settings{}, err
	}
	if err := cm.Load(); err != nil {
		return nil, settings{}, err
	}
	if err := cm.LoadError(); err != nil {
		fmt.Fprintf(a.stderr, "texclean: %s %v; using defaults\n", a.warn.Render("warning"), err)
	}
	cfg := cm.GetConfig()

	s := settings{
		options: cleaner.Options{
			KeepComments:             cfg.KeepComments,
			KeepInlineMathDelimiters: cfg.KeepInlineMathDelimiters,
			NormalizeUnicode:         cfg.NormalizeUnicode,
			SkipRules:                append([]string(nil), cm.GetSkipRules()...),
		},
		encoding: cm.GetEncoding(),
		logFile:  cm.GetLogFile(),
	}

	flags := cmd.Flags()
	if flags.Changed("keep-comments") {
		s.options.KeepComments = a.flags.keepComments
	}
	if flags.Changed("paren-math") {
		s.options.KeepInlineMathDelimiters = !a.flags.parenMath
	}
	if flags.Changed("nfc") {
		s.options.NormalizeUnicode = a.flags.nfc
	}
	s.options.SkipRules = append(s.options.SkipRules, a.flags.skip...)
	if a.flags.encoding != "" {
		s.encoding = a.flags.encoding
	}
	if a.flags.logFile != "" {
		s.logFile = a.flags.logFile
	}

	level, err := logger.ParseLevel(cm.GetLogLevel())
	if err != nil {
		return nil, settings{}, types.NewAppError(types.ErrConfig, "invalid log level", err)
	}
	if a.flags.verbose {
		level = logger.LevelDebug
	}
	s.logLevel = level

	if err := checkRuleNames(s.options.SkipRules); err != nil {
		return nil, settings{}, err
	}
	return cm, s, nil
}

// checkRuleNames rejects skip entries that name no rule, which are most likely typos.
func checkRuleNames(names []string) error {
	known := map[string]bool{}
	for _, name := range cleaner.RuleNames(cleaner.Options{}) {
		known[name] = true
	}
	for _, name := range names {
		if !known[name] {
			return types.NewAppErrorWithDetails(types.ErrInvalidInput, "unknown rule", name, nil)
		}
	}
	return nil
}

// initLogger sends entries to the log file when one is configured and to
// stderr otherwise.
func (a *app) initLogger(s settings) error {
	err := logger.Init(&logger.Config{
		LogFilePath:   s.logFile,
		MaxFileSize:   10 * 1024 * 1024,
		MaxBackups:    3,
		Level:         s.logLevel,
		EnableConsole: s.logFile == "",
		Console:       a.stderr,
	})
	if err != nil {
		return types.NewAppError(types.ErrConfig, "failed to initialize logger", err)
	}
	return nil
}

func (a *app) run(cmd *cobra.Command, args []string) error {
	_, s, err := a.loadSettings(cmd)
	if err != nil {
		return err
	}
	if err := a.initLogger(s); err != nil {
		return err
	}
	defer logger.Close()

	inputs := args
	if len(inputs) == 0 {
		inputs = []string{"-"}
	}
	if err := a.checkInputs(inputs); err != nil {
		return err
	}

	handler, err := editor.NewEncodingHandler(s.encoding)
	if err != nil {
		return err
	}

	var outputs [][]byte
	var last *editor.Document
	for _, input := range inputs {
		doc, err := a.read(handler, input)
		if err != nil {
			return err
		}

		cleaned, warnings := cleaner.Clean(doc.Text, s.options)
		a.printWarnings(doc.Path, warnings)
		logger.Info("cleaned input",
			logger.String("file", doc.Path),
			logger.String("encoding", doc.Charset.Name),
			logger.String("size", humanize.Bytes(uint64(doc.Size))),
			logger.Int("warnings", len(warnings)),
			logger.Bool("changed", cleaned != doc.Text))

		if a.flags.inPlace {
			if err := a.rewrite(doc, cleaned); err != nil {
				return err
			}
			continue
		}

		if a.flags.output != "" {
			last = doc
			outputs = append(outputs, []byte(cleaned))
			continue
		}
		data, err := doc.Encode(cleaned)
		if err != nil {
			return err
		}
		outputs = append(outputs, data)
	}

	if a.flags.inPlace {
		return nil
	}
	if a.flags.output != "" {
		if err := editor.WriteDocument(a.flags.output, last, string(outputs[0])); err != nil {
			return err
		}
		logger.Info("wrote output", logger.String("file", a.flags.output))
		return nil
	}
	if _, err := a.stdout.Write(bytes.Join(outputs, []byte("\n"))); err != nil {
		return types.NewAppError(types.ErrIO, "failed to write stdout", err)
	}
	return nil
}

func (a *app) checkInputs(inputs []string) error {
	if a.flags.inPlace && a.flags.output != "" {
		return types.NewAppError(types.ErrInvalidInput, "--in-place and --output are mutually exclusive", nil)
	}
	if a.flags.output != "" && len(inputs) > 1 {
		return types.NewAppError(types.ErrInvalidInput, "--output needs exactly one input", nil)
	}
	if a.flags.backup && !a.flags.inPlace {
		return types.NewAppError(types.ErrInvalidInput, "--backup only applies with --in-place", nil)
	}
	for _, input := range inputs {
		if input == "-" && a.flags.inPlace {
			return types.NewAppError(types.ErrInvalidInput, "cannot edit stdin in place", nil)
		}
	}
	return nil
}

func (a *app) read(handler *editor.EncodingHandler, input string) (*editor.Document, error) {
	if input == "-" {
		return handler.Read(a.stdin, "-")
	}
	return handler.ReadFile(input)
}

// rewrite replaces doc's file with cleaned when the two differ.
func (a *app) rewrite(doc *editor.Document, cleaned string) error {
	if cleaned == doc.Text {
		return nil
	}

	if a.flags.backup {
		mgr := editor.NewBackupManager("")
		if _, err := mgr.CreateBackup(doc.Path); err != nil {
			return err
		}
		if err := mgr.CleanupBackups(doc.Path, a.flags.keepBackups); err != nil {
			logger.Warn("failed to clean up backups", logger.Err(err), logger.String("file", doc.Path))
		}
	}

	if err := editor.WriteDocument(doc.Path, doc, cleaned); err != nil {
		return err
	}
	a.changed = true
	logger.Info("rewrote file", logger.String("file", doc.Path))
	return nil
}

func (a *app) printWarnings(name string, warnings []cleaner.Warning) {
	for _, w := range warnings {
		fmt.Fprintf(a.stderr, "%s: %s [%s] %s: %s\n", name, a.warn.Render("warning"), w.Rule, w.Message, w.Excerpt)
	}
}
