package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"

	"github.com/ifmais/storefront/config"
	"github.com/ifmais/storefront/internal/adapter/httphandler"
	"github.com/ifmais/storefront/internal/adapter/kafka"
	"github.com/ifmais/storefront/internal/adapter/storage"
	"github.com/ifmais/storefront/internal/core/domain"
	"github.com/ifmais/storefront/internal/core/port"
	"github.com/ifmais/storefront/internal/core/service"
	"github.com/ifmais/storefront/pkg/schema"
	"github.com/twmb/franz-go/pkg/sr"
)

const snapshotBackendRedis = "redis"

type App struct {
	ctx context.Context
	cfg config.Config

	catalog     domain.Catalog
	catalogRepo storage.CatalogRepository

	snapshots port.SnapshotRepository
	redisRepo *storage.RedisSnapshotRepository

	eventsSerde  schema.Serde
	producer     *kafka.CartEventsProducer
	activityProc *kafka.CartActivityProcessor
	activityView *kafka.CartActivityView

	cart       *service.CartService
	httpServer httphandler.HTTPServer
}

func New(ctx context.Context, cfg config.Config) *App {
	app := &App{ctx: ctx, cfg: cfg}

	app.initLogger()
	app.initCatalog()
	app.initSnapshots()
	app.initBroker()
	app.initCoreService()
	app.initInboundAdapters()

	return app
}

func (app *App) initLogger() {
	opts := &slog.HandlerOptions{Level: app.cfg.LogLevel}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, opts))
	slog.SetDefault(logger)
}

func (app *App) initCatalog() {
	const op = "App.initCatalog"

	repo, err := storage.NewCatalogRepository(app.ctx, app.cfg.SQLDB)
	if err != nil {
		app.fallDown(op, err)
	}
	app.catalogRepo = repo

	catalog, err := repo.ReadCatalog(app.ctx)
	if err != nil {
		app.fallDown(op, err)
	}
	app.catalog = catalog

	slog.Info("catalog is loaded",
		"nProducts", len(catalog.Products()),
		"nCategories", len(catalog.Categories()),
	)
}

func (app *App) initSnapshots() {
	const op = "App.initSnapshots"

	if app.cfg.Cart.SnapshotBackend == snapshotBackendRedis {
		repo, err := storage.NewRedisSnapshotRepository(
			app.ctx, app.cfg.Cart.RedisAddr, app.cfg.Cart.SnapshotKey,
		)
		if err != nil {
			app.fallDown(op, err)
		}
		app.redisRepo = &repo
		app.snapshots = repo
		return
	}

	app.snapshots = storage.NewFileSnapshotRepository(
		app.cfg.Cart.SnapshotPath,
	)
}

func (app *App) initBroker() {
	const op = "App.initBroker"

	if !app.cfg.BrokerEnabled() {
		slog.Info("broker is not configured, cart activity is disabled")
		return
	}

	srClient, err := sr.NewClient(
		sr.URLs(app.cfg.Broker.SchemaRegistryURLs...),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	schemaCreater := schema.NewSchemaCreater(srClient)

	eventsSubject := app.cfg.Broker.Topics.CartEvents + "-value"
	eventsSerde, err := schema.NewSerdeCartEventV1(
		app.ctx,
		schema.SubjectOpt(eventsSubject),
		schema.SchemaIdentifierOpt(schemaCreater),
	)
	if err != nil {
		app.fallDown(op, err)
	}
	app.eventsSerde = eventsSerde

	producer, err := kafka.NewCartEventsProducer(
		kafka.ProducerClientOpt(
			app.ctx,
			app.cfg.Broker.SeedBrokers,
			app.cfg.Broker.Topics.CartEvents,
		),
		kafka.ProducerEncoderOpt(eventsSerde),
	)
	if err != nil {
		app.fallDown(op, err)
	}
	app.producer = &producer

	activityProc, err := kafka.NewCartActivityProcessor(
		app.cfg.Broker.SeedBrokers,
		app.cfg.Broker.Topics.CartEvents,
		app.cfg.Broker.Consumers.CartActivityGroup,
		eventsSerde,
	)
	if err != nil {
		app.fallDown(op, err)
	}
	app.activityProc = activityProc

	activityView, err := kafka.NewCartActivityView(
		app.cfg.Broker.SeedBrokers,
		app.cfg.Broker.Consumers.CartActivityGroup,
	)
	if err != nil {
		app.fallDown(op, err)
	}
	app.activityView = activityView
}

func (app *App) initCoreService() {
	var events port.CartEventsProducer
	if app.producer != nil {
		events = *app.producer
	}

	s := service.New(
		app.catalog,
		app.snapshots,
		events,
		app.cfg.Cart.NotificationTTL,
	)
	s.Restore(app.ctx)
	s.OnChange(func(state domain.CartState) {
		slog.Debug("cart state changed",
			"nLines", len(state.Lines),
			"total", state.Total.String(),
			"open", state.Open,
			"notification", state.Notification.Visible,
		)
	})
	app.cart = s
}

func (app *App) initInboundAdapters() {
	mux := http.NewServeMux()
	httphandler.RegisterCart(mux, app.cart, app.cart, app.cart)
	httphandler.RegisterCheckout(mux, app.cart)
	httphandler.RegisterCatalog(mux, app.cart)
	if app.activityView != nil {
		httphandler.RegisterActivity(mux, app.activityView)
	}

	handler := httphandler.AllowJSON(mux)
	app.httpServer = httphandler.NewHTTPServer(
		app.cfg.HTTPServerAddr, handler,
	)
}

func (app *App) Run(stopFn context.CancelFunc) {
	go app.httpServer.Run(stopFn)

	if app.activityProc != nil {
		var wg sync.WaitGroup
		wg.Add(1)
		go app.activityProc.Run(app.ctx, stopFn, &wg)
		wg.Wait()

		go app.activityView.Run(app.ctx)
	}

	slog.Info("application is running")
}

func (app *App) Close(ctx context.Context) {
	slog.Info("application is closing...")

	app.httpServer.Close(ctx)
	if app.activityProc != nil {
		app.activityProc.Close()
	}
	if app.producer != nil {
		app.producer.Close()
	}
	if app.redisRepo != nil {
		app.redisRepo.Close()
	}
	app.catalogRepo.Close()

	slog.Info("application is closed")
}

func (app *App) fallDown(op string, err error) {
	panic(fmt.Errorf("%s: %w", op, err))
}
