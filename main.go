package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/middleware"

	"github.com/appetiteclub/brew/internal/assistant"
	"github.com/appetiteclub/brew/internal/events"
	"github.com/appetiteclub/brew/internal/menu"
	"github.com/appetiteclub/brew/internal/mongo"
	"github.com/appetiteclub/brew/internal/ordering"
)

const (
	appNamespace = "BREW"
	appName      = "brew"
	appVersion   = "0.1.0"
)

func main() {
	config, err := apt.LoadConfig(appNamespace, os.Args[1:])
	if err != nil {
		log.Fatalf("%s(%s) cannot setup: %v", appName, appVersion, err)
	}

	logLevel, _ := config.GetString("log.level")
	logger := apt.NewLogger(logLevel)

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	defer stop()

	hours, err := ordering.LoadWeekSchedule(config)
	if err != nil {
		log.Fatalf("%s(%s) invalid business hours configuration: %v", appName, appVersion, err)
	}

	baseRepo := mongo.NewBaseRepo(config, logger)
	err = baseRepo.Start(ctx)
	if err != nil {
		log.Fatalf("%s(%s) cannot start base repository: %v", appName, appVersion, err)
	}

	db := baseRepo.GetDatabase()
	if db == nil {
		log.Fatalf("%s(%s) cannot initialize repository database: %v", appName, appVersion, errors.New("repository database is nil"))
	}

	orderRepo := mongo.NewOrderRepo(db)
	lineRepo := mongo.NewOrderLineRepo(db)
	menuItemRepo := mongo.NewMenuItemRepo(db)

	natsURL := config.GetStringOrDef("nats.url", "nats://localhost:4222")

	pub, err := events.NewNATSPublisher(natsURL)
	if err != nil {
		log.Fatalf("%s(%s) cannot connect to NATS publisher: %v", appName, appVersion, err)
	}

	sub, err := events.NewNATSSubscriber(natsURL)
	if err != nil {
		log.Fatalf("%s(%s) cannot connect to NATS subscriber: %v", appName, appVersion, err)
	}

	board := ordering.NewOrderBoardCache()
	statusSub := ordering.NewOrderStatusSubscriber(sub, board, logger)

	clock := ordering.Clock(ordering.SystemClock)

	hd := ordering.HandlerDeps{
		Repos: ordering.Repos{
			OrderRepo: orderRepo,
			LineRepo:  lineRepo,
		},
		Carts:     ordering.NewCartStore(),
		Slots:     ordering.NewSlotGenerator(hours, clock),
		Resolver:  ordering.NewTimeResolver(hours),
		Board:     board,
		Publisher: pub,
		Clock:     clock,
	}

	orderingHandler := ordering.NewHandler(hd, config, logger)

	assistantURL, _ := config.GetString("services.assistant.url")
	var assistantClient assistant.Client
	if assistantURL != "" {
		assistantClient = assistant.NewHTTPClient(assistantURL)
	} else {
		assistantClient = assistant.NewNoopClient()
	}

	menuHandler := menu.NewHandler(menuItemRepo, assistantClient, config, logger)

	publisherLifecycle := apt.LifecycleHooks{
		OnStop: func(context.Context) error {
			return pub.Close()
		},
	}

	subLifecycle := apt.LifecycleHooks{
		OnStop: func(context.Context) error {
			return sub.Close()
		},
	}

	seedHooks := apt.LifecycleHooks{
		OnStart: menu.SeedingFunc(appName, baseRepo.GetDatabase, logger),
	}

	stack := middleware.DefaultStack(middleware.StackOptions{
		Logger:      logger,
		DisableCORS: true, // Internal API service
	})

	// Defense-in-depth: restrict to internal networks only.
	// This complements (does not replace) network policies at the infrastructure level.
	stack = append(stack, middleware.InternalOnly())

	lifecycles := []interface{}{
		apt.LifecycleHooks{OnStop: baseRepo.Stop},
		statusSub,
		publisherLifecycle,
		subLifecycle,
		seedHooks,
	}

	options := []apt.Option{
		apt.WithConfig(config),
		apt.WithLogger(logger),
		apt.WithHTTPMiddleware(stack...),
		apt.WithHTTPServerModules("web.port", orderingHandler, menuHandler),
		apt.WithLifecycle(lifecycles...),
		apt.WithHealthChecks(appName),
	}

	ms := apt.NewMicro(options...)
	logger.Infof("Starting %s(%s)", appName, appVersion)

	err = ms.Run(ctx)
	if err != nil {
		_ = baseRepo.Stop(context.Background())
		log.Fatalf("%s(%s) stopped: %v", appName, appVersion, err)
	}

	logger.Infof("%s(%s) stopped", appName, appVersion)
}
