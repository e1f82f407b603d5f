// camviewd serves camera preview sessions over HTTP and websockets.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"github.com/teslashibe/go-camview/internal/config"
	applog "github.com/teslashibe/go-camview/internal/log"
	"github.com/teslashibe/go-camview/pkg/facedetect"
	"github.com/teslashibe/go-camview/pkg/facedetect/yunet"
	"github.com/teslashibe/go-camview/pkg/sensor"
	"github.com/teslashibe/go-camview/pkg/server"
	"github.com/teslashibe/go-camview/pkg/session"
)

func main() {
	cfg := parseFlags()

	applog.Init(cfg.LogLevel)

	catalog := sensor.DefaultCatalog()
	if cfg.Catalog != "" {
		var err error
		if catalog, err = sensor.LoadCatalog(cfg.Catalog); err != nil {
			log.Fatalf("❌ Sensor catalog: %v", err)
		}
	}
	fmt.Printf("📷 Sensors: %v\n", catalog.IDs())

	store := session.NewStore(catalog, cfg.Display.Density).WithFocusArea(cfg.Display.FocusAreaDP)
	srv := server.New(store, cfg.Port)

	if cfg.Detector.Enabled {
		detCfg := facedetect.DefaultConfig()
		detCfg.ModelPath = cfg.Detector.Model
		detCfg.ConfidenceThresh = cfg.Detector.Threshold
		det, err := yunet.New(detCfg)
		if err != nil {
			fmt.Printf("⚠️  Face detection disabled: %v\n", err)
		} else {
			defer det.Close()
			srv.SetDetector(det)
			fmt.Printf("🙂 Face detection: %s\n", detCfg.ModelPath)
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	errc := make(chan error, 1)
	go func() { errc <- srv.Start() }()

	select {
	case err := <-errc:
		if err != nil {
			log.Fatalf("❌ Server error: %v", err)
		}
	case <-ctx.Done():
		fmt.Println("\n👋 Shutting down...")
		if err := srv.Shutdown(); err != nil {
			applog.Warn("shutdown", "error", err)
		}
	}
}

// parseFlags merges the config file, environment and flags, in that order.
func parseFlags() config.File {
	configPath := flag.String("config", config.ConfigPath(), "YAML service config")
	port := flag.String("port", "", "Listen port (overrides CAMVIEW_PORT and the config file)")
	catalog := flag.String("catalog", "", "INI sensor catalog (overrides CAMVIEW_CATALOG)")
	model := flag.String("model", "", "YuNet ONNX model; enables face detection")
	debug := flag.Bool("debug", false, "Enable verbose debug logging")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("❌ Configuration error: %v", err)
	}

	cfg.ApplyEnv()

	if *port != "" {
		cfg.Port = *port
	}
	if *catalog != "" {
		cfg.Catalog = *catalog
	}
	if *model != "" {
		cfg.Detector.Enabled = true
		cfg.Detector.Model = *model
	}
	if *debug {
		cfg.LogLevel = "debug"
	}
	return cfg
}
