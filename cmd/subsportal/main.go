package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/jask/subsportal/internal/apiclient"
	"github.com/jask/subsportal/internal/auth"
	"github.com/jask/subsportal/internal/config"
	"github.com/jask/subsportal/internal/database"
	"github.com/jask/subsportal/internal/database/repository"
	"github.com/jask/subsportal/internal/devapi"
	"github.com/jask/subsportal/internal/logging"
	"github.com/jask/subsportal/internal/nav"
	"github.com/jask/subsportal/internal/secrets"
	"github.com/jask/subsportal/internal/session"
	"github.com/jask/subsportal/internal/signup"
	"github.com/jask/subsportal/internal/tui"
)

var (
	verbose bool
	route   string

	loginEmail    string
	loginPassword string
	logoutAll     bool
	whoamiRemote  bool
	devAddr       string
	devSecret     string
	configForce   bool
)

var rootCmd = &cobra.Command{
	Use:   "subsportal",
	Short: "Subcontractor portal in the terminal",
	Long: `subsportal is the subcontractor admin client.

Run without arguments to open the interactive portal: login, signup and the
dashboard. The session is kept in a local sqlite file.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRuntime(cmd.Context(), runTUI)
	},
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in without opening the portal",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRuntime(cmd.Context(), func(ctx context.Context, rt *runtime) error {
			svc := auth.NewService(rt.authenticator, rt.sessions, nil, rt.log)
			u, err := svc.Login(ctx, loginEmail, loginPassword)
			if err != nil {
				return errors.New(auth.Message(err))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "signed in as %s (%s)\n", u.Name, u.Role)
			return nil
		})
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRuntime(cmd.Context(), func(ctx context.Context, rt *runtime) error {
			if err := auth.NewService(rt.authenticator, rt.sessions, nil, rt.log).Logout(ctx); err != nil {
				return err
			}
			if logoutAll {
				keys, err := rt.kv.Keys(ctx)
				if err != nil {
					return fmt.Errorf("list stored keys: %w", err)
				}
				if err := rt.kv.Delete(ctx, keys...); err != nil {
					return fmt.Errorf("purge local storage: %w", err)
				}
				rt.log.Info("local storage purged", zap.Int("keys", len(keys)))
			}
			fmt.Fprintln(cmd.OutOrStdout(), "signed out")
			return nil
		})
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRuntime(cmd.Context(), func(ctx context.Context, rt *runtime) error {
			out := cmd.OutOrStdout()
			u := rt.sessions.Get()
			if u == nil {
				fmt.Fprintln(out, "not signed in")
				return nil
			}
			fmt.Fprintf(out, "%s (%s)\n", u.Name, u.Role)
			if !whoamiRemote {
				return nil
			}
			var me struct {
				User session.User `json:"user"`
			}
			if err := rt.client.GetJSON(ctx, "/me", &me); err != nil {
				return fmt.Errorf("remote session: %w", err)
			}
			fmt.Fprintf(out, "server: %s (%s)\n", me.User.Name, me.User.Role)
			return nil
		})
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or write the configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the effective configuration to the config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.Path()
		if _, err := os.Stat(path); err == nil && !configForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("config: %w", err)
		}
		if err := config.Save(cfg); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("config: %w", err)
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "file            %s\n", config.Path())
		fmt.Fprintf(out, "api.base_url    %s\n", cfg.API.BaseURL)
		fmt.Fprintf(out, "api.timeout     %s\n", cfg.API.Timeout)
		fmt.Fprintf(out, "auth.mode       %s\n", cfg.Auth.Mode)
		fmt.Fprintf(out, "database.path   %s\n", cfg.Database.Path)
		fmt.Fprintf(out, "log.path        %s\n", cfg.Log.Path)
		fmt.Fprintf(out, "log.level       %s\n", cfg.Log.Level)
		fmt.Fprintf(out, "ui.dev_hints    %t\n", cfg.UI.DevHints)
		return nil
	},
}

var devapiCmd = &cobra.Command{
	Use:   "devapi",
	Short: "Serve a local stand-in for the subcontractor API",
	RunE: func(cmd *cobra.Command, args []string) error {
		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		logger, err := zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		defer func() { _ = logger.Sync() }()

		gin.SetMode(gin.ReleaseMode)
		opts := []devapi.Option{devapi.WithLogger(logger)}
		if devSecret != "" {
			opts = append(opts, devapi.WithSecret(devSecret))
		}
		return devapi.New(opts...).Run(cmd.Context(), devAddr)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.Flags().StringVar(&route, "route", string(nav.RouteRoot), "screen to open")

	loginCmd.Flags().StringVar(&loginEmail, "email", "", "account email")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "account password")
	_ = loginCmd.MarkFlagRequired("email")
	_ = loginCmd.MarkFlagRequired("password")

	logoutCmd.Flags().BoolVar(&logoutAll, "all", false, "also purge every locally stored value")

	whoamiCmd.Flags().BoolVar(&whoamiRemote, "remote", false, "also ask the API who the token belongs to")

	devapiCmd.Flags().StringVar(&devAddr, "addr", ":8080", "listen address")
	devapiCmd.Flags().StringVar(&devSecret, "secret", os.Getenv("SUBSPORTAL_DEVAPI_SECRET"), "token signing secret")

	configInitCmd.Flags().BoolVar(&configForce, "force", false, "overwrite an existing file")
	configCmd.AddCommand(configInitCmd, configShowCmd)

	rootCmd.AddCommand(loginCmd, logoutCmd, whoamiCmd, configCmd, devapiCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// runtime is everything the client commands share.
type runtime struct {
	cfg           config.Config
	log           *zap.Logger
	db            *sql.DB
	kv            *repository.KVRepo
	sessions      *session.Store
	client        *apiclient.Client
	authenticator auth.Authenticator
}

func withRuntime(ctx context.Context, fn func(context.Context, *runtime) error) error {
	rt, err := openRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.close()
	return fn(ctx, rt)
}

func openRuntime(ctx context.Context) (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	log, err := logging.New(cfg.Log.Path, cfg.Log.Level, verbose)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}

	db, err := database.Prepare(ctx, cfg.Database.Path)
	if err != nil {
		_ = log.Sync()
		return nil, err
	}
	kv := repository.NewKVRepo(db)
	sessions, err := session.Open(ctx, kv,
		session.WithSealer(secrets.NewBox("subsportal")),
		session.WithExpiry(auth.Expired),
		session.WithLogger(log),
	)
	if err != nil {
		_ = db.Close()
		_ = log.Sync()
		return nil, fmt.Errorf("session: %w", err)
	}

	client := apiclient.New(cfg.API.BaseURL, sessions,
		apiclient.WithTimeout(cfg.API.Timeout),
		apiclient.WithLogger(log),
	)
	var authenticator auth.Authenticator = auth.StaticAuthenticator{}
	if cfg.Auth.Mode == config.AuthRemote {
		authenticator = auth.RemoteAuthenticator{Client: client}
	}
	log.Info("runtime ready",
		zap.String("api", client.BaseURL()),
		zap.String("auth", cfg.Auth.Mode),
		zap.String("db", cfg.Database.Path))

	return &runtime{
		cfg:           cfg,
		log:           log,
		db:            db,
		kv:            kv,
		sessions:      sessions,
		client:        client,
		authenticator: authenticator,
	}, nil
}

func (rt *runtime) close() {
	_ = rt.db.Close()
	_ = rt.log.Sync()
}

func runTUI(ctx context.Context, rt *runtime) error {
	app := tui.New(ctx, nav.Route(route), tui.Deps{
		Sessions:      rt.sessions,
		Authenticator: rt.authenticator,
		Gateway:       signup.APIGateway{Client: rt.client},
		DevHints:      rt.cfg.UI.DevHints && rt.cfg.Auth.Mode == config.AuthStatic,
		Log:           rt.log,
	})
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
