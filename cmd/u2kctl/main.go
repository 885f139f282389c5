// Command u2kctl is a terminal dashboard client for the Urgent2kay
// bill-payment/sponsorship service.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/urgent2kay/dashboard-core/internal/config"
	"github.com/urgent2kay/dashboard-core/internal/gateway"
	"github.com/urgent2kay/dashboard-core/internal/localstore"
	"github.com/urgent2kay/dashboard-core/internal/model"
	"github.com/urgent2kay/dashboard-core/internal/notify"
	"github.com/urgent2kay/dashboard-core/internal/querycache"
	"github.com/urgent2kay/dashboard-core/internal/session"
	"github.com/urgent2kay/dashboard-core/internal/wallet"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

// app holds the wired client components shared by all commands.
type app struct {
	cfg      *config.Config
	log      *zap.Logger
	sessions *session.Store
	gw       *gateway.Client
	cache    *querycache.Coordinator
	notes    *notify.Center
	bridge   *wallet.Bridge
}

var (
	cfgFile string
	verbose bool
	a       *app
)

var rootCmd = &cobra.Command{
	Use:   "u2kctl",
	Short: "Urgent2kay dashboard client",
	Long: `u2kctl is a terminal client for the Urgent2kay bill-payment and
sponsorship service: bills, bundle requests, sponsors and wallet status.

Example usage:
  u2kctl login --token <jwt>   # establish a session
  u2kctl bills list            # list your bills
  u2kctl requests              # bundle requests for your role
  u2kctl wallet status         # wallet connection and balances`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initApp()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .u2kctl.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(versionCmd)
}

// initApp loads configuration and wires the client components together:
// the session store gates and feeds the cache coordinator, the notify
// center receives mutation and wallet signals, and the wallet bridge
// watches the provider when one is configured.
func initApp() error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	log, err := buildLogger(cfg.Logging.Level, verbose)
	if err != nil {
		return err
	}

	stateDir := cfg.State.Dir
	if stateDir == "" {
		stateDir = localstore.DefaultDir()
	}
	files := localstore.New(stateDir)

	sessions := session.NewStore(files, log)
	sessions.Restore()

	notes := notify.NewCenter()
	gw := gateway.NewClient(cfg.API.BaseURL, cfg.API.Timeout, sessions, log)
	cache := querycache.New(cfg.Cache.CompensationDelay,
		querycache.WithNotifier(notes),
		querycache.WithSessionGate(sessions),
		querycache.WithLogger(log),
	)
	// session completion re-runs gated queries
	sessions.Subscribe(func(model.Session) { cache.SessionChanged() })

	bridge := wallet.New(walletProvider(cfg), cfg.Wallet.ExpectedChainID,
		wallet.WithNotifier(notes),
		wallet.WithLocalStore(files),
		wallet.WithLogger(log),
		wallet.WithTokenAddress(cfg.Wallet.TokenAddress),
		wallet.WithReloadFunc(func() {
			fmt.Fprintln(os.Stderr, "wallet network changed; restart u2kctl to rebind contracts")
			os.Exit(1)
		}),
	)

	a = &app{
		cfg:      cfg,
		log:      log,
		sessions: sessions,
		gw:       gw,
		cache:    cache,
		notes:    notes,
		bridge:   bridge,
	}
	return nil
}

// walletProvider returns a watch-only provider when one is configured,
// nil otherwise. A nil provider makes every wallet command report
// wallet-unavailable without polling or retrying.
func walletProvider(cfg *config.Config) wallet.Provider {
	if cfg.Wallet.RPCURL == "" || cfg.Wallet.Address == "" {
		return nil
	}
	return wallet.NewRPCProvider(cfg.Wallet.RPCURL, cfg.Wallet.Address, cfg.API.Timeout)
}

func buildLogger(level string, verbose bool) (*zap.Logger, error) {
	lvl := zapcore.WarnLevel
	if err := lvl.Set(level); err != nil {
		return nil, fmt.Errorf("logging.level: %w", err)
	}
	if verbose {
		lvl = zapcore.DebugLevel
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(lvl)
	zc.OutputPaths = []string{"stderr"}
	return zc.Build()
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("u2kctl %s (%s)\n", version, buildDate)
	},
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	if a != nil {
		_ = a.log.Sync()
	}
}

// timeout is the per-command deadline from the configured API timeout.
func (ap *app) timeout() time.Duration {
	if ap.cfg.API.Timeout > 0 {
		return ap.cfg.API.Timeout
	}
	return 30 * time.Second
}
