package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"pwmhat/internal/config"
	"pwmhat/internal/i2c"
	"pwmhat/internal/outputenable"
)

func main() {
	var configPath string
	var hold bool
	flag.StringVar(&configPath, "config", "./pca9685.yaml", "Path to YAML config")
	flag.BoolVar(&hold, "hold", false, "Keep running until signalled, then turn all outputs off")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	bus := i2c.NewBus(cfg.I2C.Bus)
	defer bus.Close()

	ctrl, err := newController(cfg, bus, outputenable.Open)
	if err != nil {
		log.Fatalf("pca9685 init failed: %v", err)
	}

	log.Printf("pca9685ctl starting")
	log.Printf("i2c bus=%s addr=0x%02X", bus.Path(), cfg.PCA9685.Address)

	if err := ctrl.Start(); err != nil {
		ctrl.Close()
		log.Fatalf("pca9685 start failed: %v", err)
	}
	if !hold {
		return
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	<-ctx.Done()

	log.Printf("pca9685ctl stopping")
	if err := ctrl.Park(); err != nil {
		log.Printf("pca9685 park failed: %v", err)
	}
	ctrl.Close()
}
