package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"StockVault/internal/config"
	"StockVault/internal/logging"
	"StockVault/internal/manager"
	"StockVault/internal/model"
	"StockVault/internal/provider"
	"StockVault/internal/scheduler"
	"StockVault/internal/store"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfgPath := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	cmd, args := os.Args[1], os.Args[2:]

	if cmd == "init-config" {
		if err := config.WriteDefaults(cfgPath, "stock_pool.json"); err != nil {
			log.Fatalf("[FATAL] init config: %v", err)
		}
		log.Println("[INFO] default config and stock pool files ready")
		return
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			log.Printf("[WARN] open log file %s: %v", cfg.LogFile, err)
		} else {
			defer f.Close()
			log.SetOutput(io.MultiWriter(os.Stderr, f))
		}
	}

	// A storage-open failure at startup is unrecoverable.
	st, err := store.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("[FATAL] open store: %v", err)
	}
	defer st.Close()
	if err := st.Init(); err != nil {
		log.Fatalf("[FATAL] init schema: %v", err)
	}

	sink := logging.Default()
	prov := provider.NewAKTools(cfg.DataSource.AKToolsBaseURL, cfg.DataSource.Proxy)
	mgr := manager.New(st, prov, cfg.DataSource.MaxRetries, cfg.RetryDelay(), sink)

	switch cmd {
	case "update-data":
		runUpdateData(cfg, mgr, args)
	case "derive":
		runDerive(mgr, args)
	case "yield":
		runYield(mgr, args)
	case "scan":
		// Strategy scanning is not built yet; the CLI surface matches the
		// planned shape so scripts stay stable.
		log.Println("[INFO] scan is not implemented yet")
	case "watch":
		runWatch(cfg, mgr, sink)
	default:
		usage()
		os.Exit(2)
	}
}

func runUpdateData(cfg *config.Config, mgr *manager.Manager, args []string) {
	fs := flag.NewFlagSet("update-data", flag.ExitOnError)
	stock := fs.String("stock", "", "update a single stock code")
	poolName := fs.String("pool", config.DefaultPoolName, "update a named stock pool")
	allPools := fs.Bool("all-pools", false, "update every stock in every pool")
	kindsArg := fs.String("type", "", "comma-separated data kinds (kline,financial,dividend)")
	fs.Parse(args)

	kinds := model.AllKinds()
	if *kindsArg != "" {
		kinds = strings.Split(*kindsArg, ",")
	}

	var stocks []string
	switch {
	case *stock != "":
		stocks = []string{*stock}
	default:
		pool, err := config.LoadPool(cfg.PoolFile)
		if err != nil {
			log.Fatalf("[FATAL] load stock pool: %v", err)
		}
		if *allPools {
			stocks = pool.AllStocks()
		} else {
			stocks = pool.Stocks(*poolName)
		}
	}
	if len(stocks) == 0 {
		log.Println("[WARN] no stocks to update")
		return
	}

	mgr.UpdateBatch(stocks, kinds)
}

func runDerive(mgr *manager.Manager, args []string) {
	fs := flag.NewFlagSet("derive", flag.ExitOnError)
	stock := fs.String("stock", "", "stock code to derive bars for")
	period := fs.String("period", manager.PeriodWeekly, "derived period: weekly or monthly")
	fs.Parse(args)

	if *stock == "" {
		log.Fatalf("[FATAL] derive: -stock is required")
	}
	if err := mgr.CalculateDerivedKline(*stock, *period); err != nil {
		log.Fatalf("[FATAL] derive %s kline for %s: %v", *period, *stock, err)
	}
}

func runYield(mgr *manager.Manager, args []string) {
	fs := flag.NewFlagSet("yield", flag.ExitOnError)
	stock := fs.String("stock", "", "stock code")
	price := fs.Float64("price", 0, "current price")
	asOf := fs.String("date", time.Now().Format("2006-01-02"), "as-of date (YYYY-MM-DD)")
	fs.Parse(args)

	if *stock == "" || *price <= 0 {
		log.Fatalf("[FATAL] yield: -stock and a positive -price are required")
	}
	y, err := mgr.CalculateDynamicDividendYield(*stock, *price, *asOf)
	if err != nil {
		log.Fatalf("[FATAL] compute yield for %s: %v", *stock, err)
	}
	fmt.Printf("%s trailing dividend yield as of %s: %.2f%%\n", *stock, *asOf, y)
}

func runWatch(cfg *config.Config, mgr *manager.Manager, sink logging.Logger) {
	pool, err := config.LoadPool(cfg.PoolFile)
	if err != nil {
		log.Fatalf("[FATAL] load stock pool: %v", err)
	}
	sched := scheduler.New(mgr, pool.AllStocks(), sink)
	if err := sched.Register(cfg.Schedule.UpdateCron); err != nil {
		log.Fatalf("[FATAL] register cron task: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, refreshing now")
		go sched.RunNow()
	}

	log.Println("[INFO] StockVault watching. Press Ctrl+C to stop.")
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	log.Println("[INFO] shutdown signal received, stopping...")
}

func usage() {
	fmt.Fprintf(os.Stderr, `usage: vault <command> [flags]

commands:
  init-config   write default config.yaml and stock_pool.json
  update-data   refresh cached data (-stock | -pool | -all-pools, -type)
  derive        compute weekly/monthly bars (-stock, -period)
  yield         trailing dividend yield (-stock, -price, -date)
  scan          strategy scan (not implemented)
  watch         run the cron refresh daemon
`)
}
