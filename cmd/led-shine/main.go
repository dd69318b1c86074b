package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/fcurrie/led-shine-golang/internal/api"
	"github.com/fcurrie/led-shine-golang/internal/config"
	"github.com/fcurrie/led-shine-golang/internal/panel"
	"github.com/fcurrie/led-shine-golang/internal/render"
	"github.com/fcurrie/led-shine-golang/internal/shader"
	"github.com/fcurrie/led-shine-golang/internal/splash"
	"github.com/fcurrie/led-shine-golang/internal/state"
	"github.com/fcurrie/led-shine-golang/pkg/hub75"
)

func init() {
	// The GL context lives on the main thread for the whole run.
	runtime.LockOSThread()
}

// display adapts the matrix to the render loop's output interface.
type display struct {
	m *hub75.Matrix
}

func (d display) Frame() panel.Canvas { return d.m.Frame() }
func (d display) Swap()               { d.m.Swap() }

func main() {
	configPath := flag.String("config", "", "Path to configuration file (defaults apply when empty)")
	flag.Parse()

	cfg := config.DefaultConfig()
	if *configPath != "" {
		loaded, err := config.LoadConfig(*configPath)
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
		cfg = loaded
	}

	log.Printf("INIT: %dx%d display, API on port %d", cfg.Display.Width, cfg.Display.Height, cfg.API.Port)

	// GL context and shader program
	glctx, err := render.NewContext(cfg.Display.Width, cfg.Display.Height)
	if err != nil {
		log.Fatalf("Failed to create GL context: %v", err)
	}
	defer glctx.Close()

	frag := shader.FragmentSource(state.SegmentCount, cfg.Render.GrayStart, cfg.Render.GrayEnd)
	pipeline, err := render.NewPipeline(cfg.Display.Width, cfg.Display.Height, shader.VertexSource(), frag)
	if err != nil {
		log.Fatalf("Failed to build render pipeline: %v", err)
	}
	defer pipeline.Close()

	// Panel chain
	matOpts := hub75.DefaultOptions()
	matOpts.Rows = cfg.Display.Height
	matOpts.Cols = cfg.Display.Width
	matOpts.PWMBits = cfg.Matrix.PWMBits
	matOpts.GPIOSlowdown = cfg.Matrix.GPIOSlowdown
	matOpts.PanelType = cfg.Matrix.PanelType
	matrix, err := hub75.Open(matOpts)
	if err != nil {
		log.Fatalf("Failed to initialize LED matrix: %v", err)
	}
	defer matrix.Close()

	mapper := panel.Mapper{
		Width:         cfg.Display.Width,
		Height:        cfg.Display.Height,
		PanelWidth:    cfg.Display.PanelWidth,
		FlipX:         cfg.Display.FlipX,
		FlipY:         cfg.Display.FlipY,
		ReversePanels: cfg.Display.ReversePanels,
	}

	// Test pattern until the first rendered frame replaces it.
	if img, err := splash.Render(cfg.Display.Width, cfg.Display.Height); err != nil {
		log.Printf("INIT: splash pattern unavailable: %v", err)
	} else {
		mapper.BlitImage(img, matrix.Frame())
		matrix.Swap()
	}

	store := state.NewStore()

	server := api.NewServer(store, cfg)
	go func() {
		if err := server.ListenAndServe(); err != nil {
			log.Fatalf("API server failed: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	loop := &render.Loop{
		Store:    store,
		Pipeline: pipeline,
		Mapper:   mapper,
		Output:   display{m: matrix},
		Policy: render.Policy{
			GrayStart:  cfg.Render.GrayStart,
			GrayEnd:    cfg.Render.GrayEnd,
			BlankAfter: cfg.Render.BlankInterval,
		},
		FPS: cfg.Render.TargetFPS,
	}

	log.Printf("RENDER: Starting frame loop at %d fps", cfg.Render.TargetFPS)
	loop.Run(ctx)

	log.Println("EXIT: Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("EXIT: API shutdown: %v", err)
	}
}
