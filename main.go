package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/automoto/bhop-mp/assets"
	"github.com/automoto/bhop-mp/config"
	"github.com/automoto/bhop-mp/network"
	"github.com/automoto/bhop-mp/registry"
	"github.com/automoto/bhop-mp/scenes"
	"github.com/automoto/bhop-mp/session"
	"github.com/automoto/bhop-mp/shared/protocol"
	"github.com/getsentry/sentry-go"
	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/sirupsen/logrus"
)

type Scene interface {
	Update() error
	Draw(screen *ebiten.Image)
}

type Game struct {
	scene Scene
}

func (g *Game) Update() error {
	return g.scene.Update()
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.scene.Draw(screen)
}

func (g *Game) Layout(width, height int) (int, int) {
	return config.C.Width, config.C.Height
}

func main() {
	os.Exit(run())
}

func run() int {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: "2006-01-02 15:04:05"})

	if err := config.LoadEnv(); err != nil {
		log.WithError(err).Error("environment")
		return 1
	}

	address := flag.String("address", "", "Relay address (host or host:port); prompts when empty")
	username := flag.String("username", "", "Player name; prompts when empty")
	level := flag.String("level", assets.BuiltinArena, "Level to play")
	listLevels := flag.Bool("levels", false, "List the available levels and exit")
	flag.BoolVar(&config.Debug.Headless, "headless", false, "Run the tick without a window")
	flag.BoolVar(&config.Debug.Verbose, "debug", false, "Enable debug logging")
	flag.Parse()

	if config.Debug.Verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	if *listLevels {
		names, err := assets.LevelNames()
		if err != nil {
			log.WithError(err).Error("list levels")
			return 1
		}
		for _, n := range names {
			fmt.Println(n)
		}
		return 0
	}

	if config.Env.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: config.Env.SentryDSN}); err != nil {
			log.WithError(err).Warn("sentry disabled")
		}
		defer sentry.Flush(5 * time.Second)
		defer sentry.Recover()
	}

	if config.Env.StatsviewAddr != "" {
		viewer.SetConfiguration(viewer.WithAddr(config.Env.StatsviewAddr))
		mgr := statsview.New()
		go mgr.Start()
		log.Infof("statsview on http://%s/debug/statsview", config.Env.StatsviewAddr)
	}

	lvl, err := assets.LoadLevel(*level)
	if err != nil {
		log.WithError(err).Error("load level")
		return 1
	}
	spawn := mgl64.Vec3(config.Spawn)
	if spawns := lvl.Spawns(); len(spawns) > 0 {
		spawn = spawns[0]
	}

	store, err := config.OpenProfileStore(config.C.AppName)
	if err != nil {
		log.WithError(err).Warn("profile will not be remembered")
	}
	profile, err := store.Load()
	if err != nil {
		log.WithError(err).Warn("saved profile ignored")
	}
	if profile.Address == "" {
		profile.Address = config.Network.DefaultAddress
	}
	if *address != "" {
		profile.Address = *address
	}
	if *username != "" {
		profile.Username = *username
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	entry := logrus.NewEntry(log)
	dial := func(ctx context.Context, addr string, join protocol.JoinRequest) (network.Relay, error) {
		c := network.NewClient(addr, join, entry)
		if err := c.Connect(ctx); err != nil {
			return nil, err
		}
		return c, nil
	}

	prompt := session.NewPrompt(os.Stdin, os.Stdout, dial)
	prompt.Ask = *address == "" || *username == ""
	relay, profile, err := prompt.Connect(ctx, profile, spawn)
	if err != nil {
		log.WithError(err).Error("no connection")
		return 1
	}
	if err := store.Save(profile); err != nil {
		log.WithError(err).Warn("profile not saved")
	}

	s := session.New(relay, lvl, registry.NewLocalPlayer(profile.Username, spawn), entry)
	s.Start(ctx, spawn)
	defer s.Close()

	if config.Debug.Headless {
		err = session.NewLoop(s, config.C.TickHz, nil).Run(ctx)
	} else {
		ebiten.SetWindowSize(config.C.Width, config.C.Height)
		ebiten.SetWindowTitle(config.C.Title)
		ebiten.SetCursorMode(ebiten.CursorModeCaptured)
		ebiten.SetTPS(config.C.TickHz)
		err = ebiten.RunGame(&Game{scene: scenes.NewPlayScene(s)})
	}

	switch {
	case err == nil, errors.Is(err, scenes.ErrQuit):
		return 0
	case errors.Is(err, network.ErrStreamTerminated):
		fmt.Fprintln(os.Stderr, "Server has stopped")
		return 1
	default:
		log.WithError(err).Error("game stopped")
		return 1
	}
}
