package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/coursekit/internal/api"
	"github.com/abhisek/coursekit/internal/config"
	"github.com/abhisek/coursekit/internal/logging"
	"github.com/abhisek/coursekit/internal/store"
	"github.com/spf13/cobra"
)

var (
	cfg       config.Config
	logger    = logging.Discard()
	logCloser io.Closer

	// sessionID tags every activity log row written by this invocation.
	sessionID = uuid.NewString()
)

var rootCmd = &cobra.Command{
	Use:   "coursekit",
	Short: "Terminal client for an online course backend",
	Long:  "coursekit: browse published courses, enroll, and work through a course's curriculum from the terminal.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(cmd)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logCloser != nil {
			logCloser.Close()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, "", "")
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Path to the YAML config file (overrides COURSEKIT_CONFIG)")
	pf.String("api-url", "", "Backend base URL (overrides COURSEKIT_API_URL)")
	pf.String("token", "", "Bearer token of the signed-in learner (overrides COURSEKIT_TOKEN)")
	pf.String("db", "", "Path to the SQLite activity log (overrides COURSEKIT_DB)")
	pf.String("log-file", "", "Path to the log file (overrides COURSEKIT_LOG_FILE)")
	pf.String("log-level", "", "Log level: debug, info, warn or error")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(coursesCmd)
	rootCmd.AddCommand(courseCmd)
	rootCmd.AddCommand(enrollCmd)
	rootCmd.AddCommand(enrolledCmd)
	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(learnCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(activityCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(versionCmd)
}

// setup loads configuration and opens the log file.
func setup(cmd *cobra.Command) error {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = config.DefaultPath()
	}
	c, err := config.Load(path, ".env")
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	var o config.Overrides
	o.APIURL, _ = cmd.Flags().GetString("api-url")
	o.Token, _ = cmd.Flags().GetString("token")
	o.DB, _ = cmd.Flags().GetString("db")
	o.LogFile, _ = cmd.Flags().GetString("log-file")
	o.LogLevel, _ = cmd.Flags().GetString("log-level")
	c.Apply(o)

	if err := c.Validate(); err != nil {
		return err
	}
	cfg = c

	l, closer, err := logging.Open(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	logger, logCloser = l.With("session_id", sessionID), closer
	slog.SetDefault(logger)
	logger.Debug("config loaded", "command", cmd.Name(), "api_url", cfg.APIURL, "config", path)
	return nil
}

// resolveDBPath returns the database path using --db / COURSEKIT_DB /
// the db config key, then the default XDG path.
func resolveDBPath() (string, error) {
	if cfg.DB != "" {
		return cfg.DB, store.EnsureDir(cfg.DB)
	}
	return store.DefaultDBPath()
}

// openStore opens the local activity log.
func openStore() (*store.Store, error) {
	dbPath, err := resolveDBPath()
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return st, nil
}

func tokenProvider() api.TokenProvider {
	if cfg.Token == "" {
		return api.NoToken
	}
	return api.StaticToken(cfg.Token)
}

// newClient builds the REST client. A nil events repo disables request
// recording.
func newClient(events store.EventRepo) *api.Client {
	return api.New(api.Options{
		BaseURL:   cfg.APIURL,
		Timeout:   cfg.Timeout,
		Tokens:    tokenProvider(),
		Events:    events,
		SessionID: sessionID,
		Logger:    logger,
		UserAgent: "coursekit/" + resolvedVersion(),
	})
}

// withClient opens the store, builds a recording client and calls fn.
func withClient(cmd *cobra.Command, fn func(ctx context.Context, c *api.Client) error) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()
	return fn(cmd.Context(), newClient(st.EventRepo()))
}

// requireAuth fails early when no usable token is configured.
func requireAuth(ctx context.Context) error {
	if !api.Authenticated(ctx, tokenProvider(), time.Now()) {
		return fmt.Errorf("not signed in: set COURSEKIT_TOKEN or pass --token")
	}
	return nil
}
