package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"
	config "github.com/trivshopy/catalog-backend/internal/cfg"
	v1Http "github.com/trivshopy/catalog-backend/internal/delivery/v1/http"
	"github.com/trivshopy/catalog-backend/internal/infrastructure/kafka"
	minioInfra "github.com/trivshopy/catalog-backend/internal/infrastructure/minio"
	s3Repo "github.com/trivshopy/catalog-backend/internal/repository/minio"
	"github.com/trivshopy/catalog-backend/internal/repository/pgdb"
	pgdbConv "github.com/trivshopy/catalog-backend/internal/repository/pgdb/converter"
	"github.com/trivshopy/catalog-backend/internal/repository/redis"
	redisConv "github.com/trivshopy/catalog-backend/internal/repository/redis/converter"
	"github.com/trivshopy/catalog-backend/internal/usecase"
	"github.com/trivshopy/catalog-backend/pkg/clients"
	"github.com/trivshopy/catalog-backend/pkg/closer"
	"github.com/trivshopy/catalog-backend/pkg/e"
	"github.com/trivshopy/catalog-backend/pkg/logger"
	"github.com/trivshopy/catalog-backend/pkg/postgres"
)

const (
	shutdownTimeout = 10 * time.Second
	initTimeout     = 10 * time.Second
	topicTimeout    = 15 * time.Second
)

// App собирает зависимости сервиса каталога и управляет их жизненным циклом.
type App struct {
	cfg    *config.Config
	logger logger.Logger

	httpSrv     *v1Http.Server
	worker      *kafka.OutboxWorker
	imagesInfra *minioInfra.MinioInfrastructure
	closer      *closer.Closer

	shutdownCancel context.CancelFunc
}

// NewApp инициализирует все зависимости: базу с миграциями, MinIO,
// Redis, Kafka и HTTP-слой. Ресурсы регистрируются в closer в порядке
// создания и закрываются в обратном.
func NewApp(cfg *config.Config, log logger.Logger) (*App, error) {
	cl := closer.NewCloser(2 * time.Second)

	// Контекст фоновых задач живёт дольше запросов и отменяется
	// последним шагом shutdown.
	shutdownCtx, shutdownCancel := context.WithCancel(context.Background())

	app := &App{
		cfg:            cfg,
		logger:         log,
		closer:         cl,
		shutdownCancel: shutdownCancel,
	}

	db, err := initPGDB(log, cfg)
	if err != nil {
		shutdownCancel()
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	cl.Add(func(ctx context.Context) error {
		db.Close()
		return nil
	})

	minioClient, err := clients.NewMinIOClient(cfg.Minio)
	if err != nil {
		shutdownCancel()
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	minioCtx, minioCancel := context.WithTimeout(context.Background(), initTimeout)
	err = clients.EnsureBucket(minioCtx, minioClient, cfg.Minio.BucketName)
	minioCancel()
	if err != nil {
		shutdownCancel()
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	redisClient := clients.NewRedisClient(cfg.Redis)
	redisCtx, redisCancel := context.WithTimeout(context.Background(), initTimeout)
	err = redisClient.Ping(redisCtx)
	redisCancel()
	if err != nil {
		shutdownCancel()
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	cl.Add(func(ctx context.Context) error {
		return redisClient.Close()
	})

	producer, err := kafka.NewProducer(log, cfg.Kafka)
	if err != nil {
		shutdownCancel()
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	if err := producer.EnsureTopic(topicTimeout); err != nil {
		shutdownCancel()
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	cl.Add(func(ctx context.Context) error {
		return producer.Close()
	})

	productRepo := pgdb.NewProductRepo(db.Pool, pgdbConv.NewProductConverter())
	categoryRepo := pgdb.NewCategoryRepo(db.Pool, pgdbConv.NewCategoryConverter())
	outboxRepo := pgdb.NewOutboxEventRepo(db.Pool, pgdbConv.NewOutboxEventConverter())
	imageRepo := s3Repo.NewImageRepo(minioClient, cfg.Minio.BucketName)
	cacheRepo := redis.NewCacheRepo(redisClient, redisConv.NewProductConverter(), cfg.Redis, log)

	app.imagesInfra = minioInfra.NewMinioInfrastructure(imageRepo, cfg.Minio, log, shutdownCtx)
	cl.Add(func(ctx context.Context) error {
		return app.imagesInfra.WaitForCleanup(ctx)
	})

	app.worker = kafka.NewOutboxWorker(outboxRepo, log, producer, db.Dsn)
	cl.Add(func(ctx context.Context) error {
		app.worker.Stop()
		return nil
	})

	productUC := usecase.NewProductUC(
		productRepo,
		categoryRepo,
		outboxRepo,
		db.Pool,
		app.imagesInfra,
		cacheRepo,
		log,
	)

	r := chi.NewRouter()
	v1Http.NewRouter(r, log, cfg.App).Init(productUC)
	app.httpSrv = v1Http.NewServer(r, cfg.Http)
	cl.Add(func(ctx context.Context) error {
		return app.httpSrv.Stop(ctx)
	})

	return app, nil
}

// Run запускает воркер и HTTP-сервер и блокируется до сигнала
// завершения или фатальной ошибки сервера.
func (a *App) Run() error {
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()
	a.worker.Start(workerCtx)

	errCh := make(chan error, 1)
	go func() {
		a.logger.Infof("HTTP server started on port %s", a.cfg.Http.Port)
		if err := a.httpSrv.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	var appErr error
	select {
	case appErr = <-errCh:
		a.logger.Errorf(appErr, "HTTP server fatal error")
	case <-shutdown:
		a.logger.Infof("Received shutdown signal, stopping gracefully...")
	}

	workerCancel()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.closer.Close(shutdownCtx); err != nil {
		a.logger.Warnf("shutdown finished with errors: %v", err)
	}
	a.shutdownCancel()

	a.logger.Infof("Application shutdown complete")
	return appErr
}

func initPGDB(log logger.Logger, cfg *config.Config) (*postgres.PgDatabase, error) {
	db, err := postgres.Connect(cfg.Db)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.RunMigrations(log); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.Ping(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return db, nil
}
