package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/amaumene/marketconf/pkg/config"
	"github.com/amaumene/marketconf/pkg/handlers"
	"github.com/amaumene/marketconf/pkg/render"
	"github.com/amaumene/marketconf/pkg/repository"
	"github.com/amaumene/marketconf/pkg/services"
	"github.com/amaumene/marketconf/pkg/validation"
	log "github.com/sirupsen/logrus"
)

const usage = `usage: marketconf <command> [flags]

commands:
  show       load, validate and print one configuration
  validate   validate one configuration, or every profile with --all
  list       list the available profiles
  chains     list the accepted chain identifiers
  probe      check that an RPC node serves the configured chain
  serve      expose the configuration over HTTP
`

// exitError carries a process exit code without an error message.
type exitError int

func (e exitError) Error() string { return fmt.Sprintf("exit status %d", int(e)) }

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		var code exitError
		if errors.As(err, &code) {
			os.Exit(int(code))
		}
		log.WithError(err).Error("marketconf failed")
		os.Exit(1)
	}
}

// options are the flags shared by every command
type options struct {
	profile         string
	dir             string
	file            string
	format          string
	all             bool
	envOverrides    bool
	noValidate      bool
	requireChecksum bool
	extraChains     []int64
	host            string
	port            string
	rpcURL          string
}

// run executes one command. Rendered output goes to stdout and logs to
// stderr, so the output can be redirected into a build.
func run(args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		fmt.Fprint(stdout, usage)
		return nil
	}
	command, args := args[0], args[1:]

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}

	var opts options
	flagSet := pflag.NewFlagSet("marketconf "+command, pflag.ContinueOnError)
	flagSet.SetOutput(stdout)
	flagSet.StringVarP(&opts.profile, "profile", "p", cfg.Profile, "profile name")
	flagSet.StringVar(&opts.dir, "dir", cfg.ProfileDir, "directory of profile files (default: embedded profiles)")
	flagSet.StringVarP(&opts.file, "file", "f", cfg.File, "single profile file; takes precedence over --profile")
	flagSet.StringVarP(&opts.format, "format", "o", "json", "output format: json, yaml, env or next")
	flagSet.BoolVar(&opts.all, "all", false, "validate every profile")
	flagSet.BoolVar(&opts.envOverrides, "env-overrides", false, "apply NFT_MARKET_CONTRACT_ADDRESS, NFT_CONTRACT_ADDRESS, CHAIN_ID, REACT_STRICT_MODE and IMAGE_DOMAINS from the environment")
	flagSet.BoolVar(&opts.noValidate, "no-validate", false, "print the configuration without validating it")
	flagSet.BoolVar(&opts.requireChecksum, "require-checksum", cfg.RequireChecksum, "reject mixed-case addresses with a wrong EIP-55 checksum")
	flagSet.Int64SliceVar(&opts.extraChains, "allow-chain", cfg.ExtraChainIDs, "additional accepted chain id (repeatable)")
	flagSet.StringVar(&opts.host, "host", cfg.Host, "listen host for serve")
	flagSet.StringVar(&opts.port, "port", cfg.Port, "listen port for serve")
	flagSet.StringVar(&opts.rpcURL, "rpc-url", "", "JSON-RPC endpoint for probe")
	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	cfg.Profile = opts.profile
	cfg.ProfileDir = opts.dir
	cfg.File = opts.file
	cfg.RequireChecksum = opts.requireChecksum
	cfg.ExtraChainIDs = opts.extraChains
	cfg.Host = opts.host
	cfg.Port = opts.port
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	if err := cfg.SetupLogging(stderr); err != nil {
		return err
	}

	repo, err := openRepository(cfg)
	if err != nil {
		return err
	}
	validator := validation.NewWithSettings(cfg.RequireChecksum, cfg.ExtraChainIDs)

	switch command {
	case "show":
		return runShow(stdout, cfg, repo, validator, opts)
	case "validate":
		return runValidate(stdout, cfg, repo, validator, opts)
	case "list":
		return runList(stdout, repo)
	case "chains":
		return runChains(stdout, validator)
	case "probe":
		return runProbe(stdout, cfg, repo, validator, opts)
	case "serve":
		return runServe(cfg, repo, validator, opts)
	default:
		fmt.Fprint(stdout, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

func openRepository(cfg *config.Config) (repository.Repository, error) {
	if cfg.ProfileDir == "" {
		return repository.NewEmbeddedRepository(), nil
	}
	return repository.NewDirRepository(cfg.ProfileDir)
}

func newProvider(cfg *config.Config, repo repository.Repository, validator *validation.Validator, opts options) (*services.ProviderService, error) {
	var providerOpts []services.ProviderOption
	if opts.envOverrides {
		overrides, err := services.LoadEnvOverrides()
		if err != nil {
			return nil, err
		}
		providerOpts = append(providerOpts, services.WithEnvOverrides(overrides))
	}
	if opts.noValidate {
		providerOpts = append(providerOpts, services.WithoutValidation())
	}

	source := services.Source{Repo: repo, Profile: cfg.Profile, File: cfg.File}
	return services.NewProviderService(source, validator, providerOpts...), nil
}

func runShow(stdout io.Writer, cfg *config.Config, repo repository.Repository, validator *validation.Validator, opts options) error {
	format, err := render.ParseFormat(opts.format)
	if err != nil {
		return err
	}

	provider, err := newProvider(cfg, repo, validator, opts)
	if err != nil {
		return err
	}
	buildCfg, err := provider.Config()
	if err != nil {
		return err
	}
	return render.Write(stdout, buildCfg, format)
}

func runValidate(stdout io.Writer, cfg *config.Config, repo repository.Repository, validator *validation.Validator, opts options) error {
	if !opts.all {
		provider, err := newProvider(cfg, repo, validator, opts)
		if err != nil {
			return err
		}
		if _, err := provider.Config(); err != nil {
			fmt.Fprintf(stdout, "%s: %v\n", provider.Source(), err)
			return exitError(1)
		}
		fmt.Fprintf(stdout, "%s: ok\n", provider.Source())
		return nil
	}

	reports, err := services.NewCatalogService(repo, validator).CheckAll()
	if err != nil {
		return err
	}

	failed := false
	for _, report := range reports {
		fmt.Fprintln(stdout, report.Summary())
		for _, msg := range report.Errors {
			fmt.Fprintf(stdout, "  - %s\n", msg)
		}
		if !report.Valid {
			failed = true
		}
	}
	if failed {
		return exitError(1)
	}
	return nil
}

func runList(stdout io.Writer, repo repository.Repository) error {
	names, err := repo.List()
	if err != nil {
		return err
	}
	for _, name := range names {
		fmt.Fprintln(stdout, name)
	}
	return nil
}

func runChains(stdout io.Writer, validator *validation.Validator) error {
	for _, n := range validator.Chains.Networks() {
		kind := "mainnet"
		if n.Testnet {
			kind = "testnet"
		}
		fmt.Fprintf(stdout, "%d\t%s\t%s\n", n.ID, n.Name, kind)
	}
	return nil
}

func runProbe(stdout io.Writer, cfg *config.Config, repo repository.Repository, validator *validation.Validator, opts options) error {
	if opts.rpcURL == "" {
		return fmt.Errorf("probe requires --rpc-url")
	}

	provider, err := newProvider(cfg, repo, validator, opts)
	if err != nil {
		return err
	}
	buildCfg, err := provider.Config()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := services.NewProbeService(cfg.GetRequestTimeout()).Probe(ctx, opts.rpcURL, buildCfg)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "%s: chain %d (%s)\n", result.URL, result.Reported, result.Latency.Round(time.Millisecond))
	return nil
}

func runServe(cfg *config.Config, repo repository.Repository, validator *validation.Validator, opts options) error {
	log.Info("Starting marketconf")

	provider, err := newProvider(cfg, repo, validator, opts)
	if err != nil {
		return err
	}
	// Fail fast: the server only starts with a valid configuration.
	if err := provider.Load(); err != nil {
		return err
	}

	handler := handlers.NewHandler(provider, services.NewCatalogService(repo, validator), cfg.APIKey, cfg.GetRequestTimeout())
	if cfg.APIKey == "" {
		log.Warn("MARKETCONF_API_KEY not set, API is unauthenticated")
	}

	server := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      handler.Routes(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("address", server.Addr).Info("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	return waitForShutdown(server, errCh)
}

// waitForShutdown waits for shutdown signals and gracefully shuts down
func waitForShutdown(server *http.Server, errCh <-chan error) error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("HTTP server failed: %w", err)
		}
		return nil
	case sig := <-sigChan:
		log.WithField("signal", sig).Info("Received shutdown signal, initiating graceful shutdown")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Error("Failed to shutdown HTTP server gracefully")
		return err
	}
	log.Info("Graceful shutdown completed")
	return nil
}
