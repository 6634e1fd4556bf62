package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/matt-g-everett/animstudio/api"
	"github.com/matt-g-everett/animstudio/logging"
	"github.com/matt-g-everett/animstudio/stream"
	"github.com/matt-g-everett/animstudio/studio"
	"golang.org/x/sync/errgroup"
)

var version = "dev"

type app struct {
	Config   stream.Config
	Client   mqtt.Client
	Studio   *studio.Studio
	Streamer *stream.Streamer
	Logger   *logging.Logger
}

func newApp(config stream.Config, logger *logging.Logger) *app {
	a := new(app)
	a.Config = config
	a.Logger = logger

	a.Studio = studio.New(config.StudioOptions())
	a.Studio.SetLogger(logger.With("component", "studio"))
	config.Register(a.Studio)

	options := mqtt.NewClientOptions().
		AddBroker(config.Mqtt.URL).
		SetClientID(config.Mqtt.ClientID).
		SetUsername(config.Mqtt.Username).
		SetPassword(config.Mqtt.Password).
		SetKeepAlive(30 * time.Second).
		SetPingTimeout(5 * time.Second).
		SetAutoReconnect(true).
		SetOnConnectHandler(a.handleOnConnect).
		SetConnectionLostHandler(a.handleConnectionLost)
	a.Client = mqtt.NewClient(options)

	publisher := stream.NewMQTTPublisher(a.Client, config.Mqtt.QoS)
	a.Streamer = stream.NewStreamer(config, a.Studio, publisher, logger)
	for _, animation := range stream.PulseFromConfig(config.Elements) {
		a.Streamer.AddAnimation(animation)
	}

	return a
}

func (a *app) handleOnConnect(client mqtt.Client) {
	a.Logger.Info("connected to broker", "url", a.Config.Mqtt.URL, "clientId", a.Config.Mqtt.ClientID)
	if err := a.Streamer.Subscribe(client); err != nil {
		a.Logger.Error("subscribe failed", "error", err)
	}
}

func (a *app) handleConnectionLost(_ mqtt.Client, err error) {
	a.Logger.Warn("connection to broker lost", "error", err)
}

// service is a long-running part of the app. It returns when ctx is done.
type service struct {
	name string
	run  func(ctx context.Context) error
}

// runServices runs every service until ctx is done or one of them fails. A
// failure stops the others and is returned.
func runServices(ctx context.Context, logger *logging.Logger, services ...service) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, s := range services {
		s := s // per-iteration copy; go.mod targets go 1.21 (pre-1.22 loop semantics)
		g.Go(func() error {
			if err := s.run(ctx); err != nil {
				logger.Error("service failed", "service", s.name, "error", err)
				return fmt.Errorf("%s: %w", s.name, err)
			}
			return nil
		})
	}
	return g.Wait()
}

func (a *app) run(ctx context.Context) error {
	if token := a.Client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("connecting to %s: %w", a.Config.Mqtt.URL, token.Error())
	}
	defer a.Client.Disconnect(250)

	hub := api.NewHub(a.Logger.With("component", "hub"))
	a.Streamer.SetBroadcaster(hub)

	server := api.NewApi(api.Options{Listen: a.Config.API.Listen, Static: a.Config.API.Static},
		a.Streamer.Snapshots(), hub, a.Logger)

	return runServices(ctx, a.Logger,
		service{"hub", func(ctx context.Context) error {
			hub.Run(ctx)
			return nil
		}},
		service{"api", server.Serve},
		service{"streamer", a.Streamer.Run},
	)
}

func main() {
	mqtt.ERROR = log.New(os.Stdout, "", 0)

	// Parse command line parameters
	configPath := flag.String("config", "config.yaml", "YAML config file.")
	flag.Parse()

	logger := logging.Default()

	config, err := stream.LoadConfig(*configPath)
	if err != nil {
		logger.Error("loading config failed", "path", *configPath, "error", err)
		os.Exit(1)
	}

	logger = logging.New(config.Logging, version)
	logger.Info("starting", "config", *configPath, "elements", len(config.Elements))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp(config, logger).run(ctx); err != nil {
		logger.Error("stopped", "error", err)
		os.Exit(1)
	}
	logger.Info("stopped")
}
