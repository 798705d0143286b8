package main

import (
	"context"
	"io"

	"github.com/gdamore/tcell/v2"
	apppkg "github.com/kk-code-lab/rview/internal/app"
	"github.com/kk-code-lab/rview/internal/config"
	"github.com/kk-code-lab/rview/internal/logging"
	"github.com/kk-code-lab/rview/internal/source"
	"github.com/kk-code-lab/rview/internal/source/github"
	"github.com/kk-code-lab/rview/internal/source/local"
	statepkg "github.com/kk-code-lab/rview/internal/state"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"
)

// rootOpts holds the global flags.
type rootOpts struct {
	configFile string
	repo       string
	local      string
	ref        string
	noSearch   bool
	debug      bool
	logFile    string
}

func newRootCmd() *cobra.Command {
	opts := &rootOpts{}

	cmd := &cobra.Command{
		Use:   "rview [owner/repository]",
		Short: "Browse a GitHub repository or a local directory in the terminal",
		Long: `rview shows a repository as a directory listing with breadcrumbs and a
preview pane. Source files are syntax highlighted and markdown documents are
rendered. Without arguments the repository from the config file is opened.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.browse(cmd.Context(), args)
		},
	}

	addRootFlags(cmd, opts)
	cmd.AddCommand(
		newLsCmd(opts),
		newCatCmd(opts),
	)
	return cmd
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command, opts *rootOpts) {
	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.configFile, "config", "c", "", "config file path (.yaml, .yml or .hcl)")
	flags.StringVarP(&opts.repo, "repo", "r", "", "repository to browse as owner/repository")
	flags.StringVar(&opts.local, "local", "", "browse a local directory instead of GitHub")
	flags.StringVar(&opts.ref, "ref", "", "branch, tag or commit of the repository")
	flags.BoolVar(&opts.noSearch, "no-search", false, "disable switching repositories with /")
	flags.BoolVarP(&opts.debug, "debug", "d", false, "enable debug logging")
	flags.StringVar(&opts.logFile, "log-file", "", "write logs to this file")
}

// loadConfig reads the config file and applies flag overrides. identity is
// the optional owner/repository argument.
func (o *rootOpts) loadConfig(ctx context.Context, identity string) (*config.Config, error) {
	cfg, err := config.LoadOrDefault(ctx, o.configFile)
	if err != nil {
		return nil, errors.Errorf("loading config: %w", err)
	}

	if identity == "" {
		identity = o.repo
	}
	if identity != "" {
		if err := cfg.SetIdentity(identity); err != nil {
			return nil, err
		}
		// An explicit repository replaces a configured local directory.
		cfg.Local = ""
	}
	if o.local != "" {
		cfg.Local = o.local
	}
	if o.ref != "" {
		cfg.Source.Ref = o.ref
	}
	if o.noSearch {
		cfg.SearchEnabled = false
	}
	if o.debug {
		cfg.LogLevel = zerolog.LevelDebugValue
	}
	if o.logFile != "" {
		cfg.LogFile = o.logFile
	}

	if err := config.Validate(ctx, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger builds the logger for cfg. console receives log lines when no
// log file is configured; nil discards them.
func newLogger(cfg *config.Config, console io.Writer) (zerolog.Logger, io.Closer, error) {
	level, err := cfg.Level()
	if err != nil {
		return zerolog.Nop(), nil, err
	}
	return logging.New(logging.Options{Level: level, File: cfg.LogFile, Console: console})
}

// openSource returns the source to browse and the provider used when the
// user switches repositories.
func openSource(ctx context.Context, cfg *config.Config) (source.Source, source.Provider, error) {
	if cfg.IsLocal() {
		src, err := local.NewSource(cfg.Local)
		if err != nil {
			return nil, nil, err
		}
		provider := source.ProviderFunc(func(_ context.Context, identity string) (source.Source, error) {
			return nil, errors.Errorf("cannot open %q while browsing a local directory", identity)
		})
		return src, provider, nil
	}

	id, err := cfg.Identity()
	if err != nil {
		return nil, nil, err
	}
	client, err := github.NewClient(github.ClientOptions{BaseURL: cfg.APIBaseURL, TokenEnv: cfg.TokenEnv})
	if err != nil {
		return nil, nil, err
	}
	provider := github.NewProvider(client, id, cfg.Source.Ref)
	src, err := provider.Open(ctx, id.String())
	if err != nil {
		return nil, nil, err
	}
	return src, provider, nil
}

// browse runs the interactive browser.
func (o *rootOpts) browse(ctx context.Context, args []string) error {
	identity := ""
	if len(args) == 1 {
		identity = args[0]
	}
	cfg, err := o.loadConfig(ctx, identity)
	if err != nil {
		return err
	}

	// The TUI owns the terminal, so logs only go to a file.
	logger, closer, err := newLogger(cfg, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = closer.Close()
	}()
	ctx = logging.WithContext(ctx, logger)

	src, provider, err := openSource(ctx, cfg)
	if err != nil {
		return err
	}

	opts := apppkg.Options{
		Provider: provider,
		Initial:  statepkg.NewState(src.Identity(), cfg.SearchEnabled && !cfg.IsLocal()),
		Store:    statepkg.StoreOptions{Timeout: cfg.Timeout, Hide: cfg.Hide},
		Style:    cfg.Style,
		Sources:  []source.Source{src},
	}
	if localSrc, ok := src.(*local.Source); ok {
		opts.Watch = func(onChange func()) (apppkg.DirectoryWatcher, error) {
			return local.NewWatcher(localSrc, onChange)
		}
	}

	logger.Info().Str("source", src.Identity()).Bool("local", cfg.IsLocal()).Msg("starting browser")

	// Set UTF-8 as fallback encoding for maximum compatibility
	tcell.SetEncodingFallback(tcell.EncodingFallbackUTF8)

	app, err := apppkg.NewApplication(ctx, opts)
	if err != nil {
		return errors.Errorf("initializing terminal: %w", err)
	}
	defer func() {
		_ = app.Close()
	}()

	if err := app.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// session is the resolved config, logger and source shared by the
// non-interactive commands.
type session struct {
	ctx    context.Context
	cfg    *config.Config
	src    source.Source
	closer io.Closer
}

// openSession resolves the config and opens the configured source. Logs go
// to stderr unless a log file is configured.
func (o *rootOpts) openSession(cmd *cobra.Command) (*session, error) {
	cfg, err := o.loadConfig(cmd.Context(), "")
	if err != nil {
		return nil, err
	}
	logger, closer, err := newLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}
	ctx := logging.WithContext(cmd.Context(), logger)

	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	src, _, err := openSource(ctx, cfg)
	if err != nil {
		cancel()
		_ = closer.Close()
		return nil, err
	}
	return &session{ctx: ctx, cfg: cfg, src: src, closer: closerFunc(func() error {
		cancel()
		return closer.Close()
	})}, nil
}

func (s *session) Close() error {
	return s.closer.Close()
}

type closerFunc func() error

func (f closerFunc) Close() error {
	return f()
}
