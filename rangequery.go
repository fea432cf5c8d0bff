package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/op/go-logging"
	"github.com/spf13/cobra"

	"rangequery/cache"
	"rangequery/config"
	"rangequery/cycle"
	"rangequery/logger"
	"rangequery/router"
	"rangequery/sink"
	"rangequery/source"
	"rangequery/trees/prefix"
)

var log = logging.MustGetLogger("rangequery")

type options struct {
	configFile string
	logLevel   string
	dryRun     bool
}

func loadConfig(opts *options) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if opts.configFile != "" {
		if err := cfg.Load(opts.configFile); err != nil {
			return nil, err
		}
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}
	if opts.dryRun {
		cfg.DryRun = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := logger.InitLog(cfg.LogFile, cfg.LogLevel); err != nil {
		return nil, err
	}
	return cfg, nil
}

// the returned func releases the redis client, if any
func newEngine(cfg *config.Config) (*cycle.Engine, func()) {
	engine := cycle.NewEngine()
	engine.SetDryRun(cfg.DryRun)
	if !cfg.Redis.Enabled {
		return engine, func() {}
	}

	client := cache.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	engine.SetCache(cache.NewPrefixCache(client, cfg.Redis.TTL))
	return engine, func() { client.Close() }
}

func runCycle(cmd *cobra.Command, opts *options) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	engine, closeCache := newEngine(cfg)
	defer closeCache()

	client := &http.Client{Timeout: cfg.Source.Timeout}
	src := source.NewHTTPSource(cfg.Source.InputURL, client)
	dst := sink.NewHTTPSink(cfg.Source.OutputURL, client)

	report, err := engine.Run(cmd.Context(), src, dst)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), report.Answers)
	return nil
}

func loadDataset(ctx context.Context, cfg *config.Config) (*prefix.Table, error) {
	if cfg.MySQL.DSN == "" {
		log.Warning("mysql.dsn not set, serving an empty dataset")
		return prefix.Build(nil), nil
	}

	src, err := source.OpenMySQL(cfg.MySQL.DSN, cfg.MySQL.Table, cfg.MySQL.Timeout)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	ctx, cancel := context.WithTimeout(ctx, cfg.MySQL.Timeout)
	defer cancel()
	seq, err := src.Sequence(ctx)
	if err != nil {
		return nil, err
	}
	return prefix.Build(seq), nil
}

func serve(cmd *cobra.Command, opts *options) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	engine, closeCache := newEngine(cfg)
	defer closeCache()

	table, err := loadDataset(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	ginEngine := gin.Default()
	router.NewServer(table, engine).Register(ginEngine)
	addr := ":" + strconv.Itoa(cfg.ListenPort)
	log.Infof("listening on %s", addr)
	return ginEngine.Run(addr)
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "rangequery",
		Short:         "Answer sum and alternating-sum range queries over a sequence",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", "yaml config file")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override log-level from the config")

	run := &cobra.Command{
		Use:   "run",
		Short: "Fetch one batch from the input API, resolve it and post the results",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCycle(cmd, opts)
		},
	}
	run.Flags().BoolVar(&opts.dryRun, "dry-run", false, "print results without posting them")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve range queries over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd, opts)
		},
	}

	root.AddCommand(run, serveCmd)
	return root
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}
