package main

import (
	"crypto/rand"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/felixbrock/logoassist/internal/admin"
	"github.com/felixbrock/logoassist/internal/app"
	"github.com/felixbrock/logoassist/internal/concept"
	"github.com/felixbrock/logoassist/internal/config"
	"github.com/felixbrock/logoassist/internal/domain"
	"github.com/felixbrock/logoassist/internal/persistence"
	"github.com/felixbrock/logoassist/internal/render"
	"github.com/felixbrock/logoassist/internal/terminal"
	"github.com/felixbrock/logoassist/internal/wizard"
	"github.com/spf13/cobra"
	_ "go.uber.org/automaxprocs"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gopkg.in/yaml.v3"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  *zap.Logger

	outDir string
	form   domain.FormData
	write  bool
)

var rootCmd = &cobra.Command{
	Use:   "logoassist",
	Short: "Guided logo concept assistant",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return err
		}

		zc := zap.NewProductionConfig()
		level, err := zap.ParseAtomicLevel(cfg.LogLevel)
		if err != nil {
			return fmt.Errorf("parsing log level: %w", err)
		}
		zc.Level = level

		logger, err = zc.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		zap.ReplaceGlobals(logger)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web wizard and admin surface",
	RunE: func(cmd *cobra.Command, args []string) error {
		seed, err := persistence.LoadSeed(cfg.SeedFile)
		if err != nil {
			return err
		}

		auth, err := adminAuth()
		if err != nil {
			return err
		}

		a := &app.App{
			Sessions: wizard.NewStore(backend(), limiter(), cfg.Session.IdleTimeout, logger),
			Admin:    admin.NewStore(seed),
			Auth:     auth,
			Log:      logger,
			Config: app.Config{
				Port:     cfg.Port,
				LogLevel: cfg.LogLevel,
			},
		}
		if cfg.Analytics.PosthogKey != "" {
			a.Tracker = persistence.NewPHRepo(cfg.Analytics.PosthogUrl, cfg.Analytics.PosthogKey)
		}
		if !auth.Enabled() {
			logger.Warn("admin login disabled: no admin.password_hash configured")
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return a.Start(ctx)
	},
}

var wizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Run the wizard in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		session := wizard.NewSession(backend(), limiter(), logger)
		runner := terminal.NewRunner(terminal.NewSurveyDriver(cmd.OutOrStdout()), session, outDir, logger)

		err := runner.Run(ctx)
		if errors.Is(err, terminal.ErrAborted) {
			return nil
		}
		return err
	},
}

var conceptsCmd = &cobra.Command{
	Use:   "concepts",
	Short: "Generate logo concepts from flags and print them as YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := wizard.ValidateStep(wizard.StepIdentity, form); err != nil {
			return err
		}
		if err := wizard.ValidateStep(wizard.StepStyle, form); err != nil {
			return err
		}

		concepts := concept.Generate(form)
		if err := concept.Validate(concepts); err != nil {
			return err
		}

		enc := yaml.NewEncoder(cmd.OutOrStdout())
		defer enc.Close()
		return enc.Encode(concepts)
	},
}

var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password [password]",
	Short: "Print the bcrypt hash to use as admin.password_hash",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var password string
		if len(args) == 1 {
			password = args[0]
		} else {
			driver := terminal.NewSurveyDriver(cmd.OutOrStdout())
			var err error
			password, err = driver.Password(cmd.Context(), terminal.InputConfig{Message: "Senha do administrador:"})
			if err != nil {
				return err
			}
		}

		hash, err := admin.HashPassword(password)
		if err != nil {
			return err
		}

		if write {
			cfg.Admin.PasswordHash = hash
			if cfg.Admin.SigningKey == "" {
				cfg.Admin.SigningKey = rand.Text()
			}
			path := cfgFile
			if path == "" {
				path = config.ProjectPath()
			}
			if err := config.Write(path, cfg); err != nil {
				return err
			}
			logger.Info("admin credential written", zap.String("path", path))
			return nil
		}

		_, err = fmt.Fprintln(cmd.OutOrStdout(), hash)
		return err
	},
}

func backend() render.Backend {
	client := &http.Client{Timeout: cfg.Render.Timeout}

	switch cfg.Render.Provider {
	case config.ProviderGemini:
		return persistence.GeminiRepo{Model: cfg.Render.GeminiModel, Client: client}
	default:
		return persistence.StabilityRepo{BaseUrl: cfg.Render.StabilityUrl, Engine: cfg.Render.Engine, Client: client}
	}
}

// limiter is shared by every session of the process; nil disables the quota.
func limiter() *rate.Limiter {
	if cfg.Render.RequestsPerMinute <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.Render.RequestsPerMinute)), max(cfg.Render.Burst, 1))
}

func adminAuth() (admin.Auth, error) {
	auth := admin.Auth{
		Username:     cfg.Admin.Username,
		PasswordHash: cfg.Admin.PasswordHash,
		SigningKey:   []byte(cfg.Admin.SigningKey),
	}

	if auth.PasswordHash != "" && len(auth.SigningKey) == 0 {
		key := make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return auth, fmt.Errorf("generating signing key: %w", err)
		}
		auth.SigningKey = key
		logger.Warn("no admin.signing_key configured, admin sessions end on restart")
	}

	return auth, nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default ./logoassist.yml)")

	wizardCmd.Flags().StringVarP(&outDir, "out", "o", ".", "directory for rendered previews")

	f := conceptsCmd.Flags()
	f.StringVar(&form.CompanyName, "company", "", "company name")
	f.StringVar(&form.Sector, "sector", "", "business sector")
	f.StringVar(&form.Values, "values", "", "brand values")
	f.StringVar(&form.PreferredColors, "colors", "", "preferred colors")
	f.StringVar(&form.GraphicElements, "elements", "", "graphic elements")
	f.StringSliceVar(&form.DesignStyle, "style", nil, "design style tags")
	f.StringVar(&form.TargetAudience, "audience", "", "target audience")
	f.StringVar(&form.Symbolism, "symbolism", "", "symbolism")
	f.StringVar(&form.Inspirations, "inspirations", "", "inspirations")

	hashPasswordCmd.Flags().BoolVarP(&write, "write", "w", false, "store the hash in the config file")

	rootCmd.AddCommand(serveCmd, wizardCmd, conceptsCmd, hashPasswordCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
