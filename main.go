package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/AlephTX/ringfeed/binance"
	"github.com/AlephTX/ringfeed/config"
	"github.com/AlephTX/ringfeed/exchanges"
	"github.com/AlephTX/ringfeed/ipc"
	"github.com/AlephTX/ringfeed/marketdata"
	"github.com/AlephTX/ringfeed/ring"
	"github.com/AlephTX/ringfeed/workers"
	"github.com/joho/godotenv"
)

func main() {
	log.Println("ringfeed starting (configuration driven)...")

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("env: %v", err)
	}

	cfgPath := "config.toml"
	if p := os.Getenv("RINGFEED_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("failed to load config %s: %v", cfgPath, err)
	}

	r, err := ring.NewRing[marketdata.Tick](cfg.RingCapacity)
	if err != nil {
		log.Fatalf("ring: %v", err)
	}
	write, ok := r.TryAcquireWriter()
	if !ok {
		log.Fatal("ring: failed to acquire the sole writer handle")
	}
	log.Printf("ring: capacity %d", r.Capacity())

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var wg sync.WaitGroup

	runExchange := func(name string, run func(context.Context) error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			log.Printf("%s: starting...", name)
			if err := run(ctx); err != nil && err != context.Canceled {
				log.Printf("%s: %v", name, err)
			}
		}()
	}

	if hlCfg, ok := cfg.Exchanges["hyperliquid"]; ok && hlCfg.Enabled {
		hl := exchanges.NewHyperliquid(write)
		runExchange("hyperliquid", hl.Run)
	}

	if ltCfg, ok := cfg.Exchanges["lighter"]; ok && ltCfg.Enabled {
		lt := exchanges.NewLighter(ltCfg, write)
		runExchange("lighter", lt.Run)
	}

	if bpCfg, ok := cfg.Exchanges["backpack"]; ok && bpCfg.Enabled {
		bp := exchanges.NewBackpack(bpCfg, write)
		runExchange("backpack", bp.Run)
	}

	if edgexCfg, ok := cfg.Exchanges["edgex"]; ok && edgexCfg.Enabled {
		ex := exchanges.NewEdgeX(edgexCfg, write)
		runExchange("edgex", ex.Run)
	}

	if zeroOneCfg, ok := cfg.Exchanges["01"]; ok && zeroOneCfg.Enabled {
		z := exchanges.NewZeroOne(zeroOneCfg, write)
		runExchange("01", z.Run)
	}

	if bnCfg, ok := cfg.Exchanges["binance"]; ok && bnCfg.Enabled {
		symbols := make([]string, 0, len(bnCfg.Symbols))
		for _, exchSym := range bnCfg.Symbols {
			symbols = append(symbols, exchSym)
		}
		bn := binance.NewFeeder(symbols, write)
		runExchange("binance", bn.Run)
	}

	if len(cfg.Exchanges) == 0 {
		log.Println("no exchanges enabled in config; starting mock feeders")
		mock := exchanges.NewMockFeeder(write, marketdata.ExchangeBinance, "mock")
		runExchange("mock", mock.Run)
	}

	publisher := ipc.NewPublisher(cfg.IPCSocket, r.Reader())
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer publisher.Close()
		log.Printf("ipc: publishing to %s", cfg.IPCSocket)
		if err := publisher.Run(ctx); err != nil && err != context.Canceled {
			log.Printf("ipc: %v", err)
		}
	}()

	pool := workers.NewPool(r, cfg.WorkerCount)
	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Printf("workers: %d goroutines sharing one reader", cfg.WorkerCount)
		pool.Run(ctx)
	}()

	wg.Wait()
	log.Println("ringfeed stopped.")
}
