package bootstrap

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"partyup-network/internal/config"
	"partyup-network/internal/model"
	mysqlClient "partyup-network/internal/platform/mysql"
	postgresClient "partyup-network/internal/platform/postgres"
	rabbitmqClient "partyup-network/internal/platform/rabbitmq"
	"partyup-network/internal/repository"
	"partyup-network/internal/worker"
)

// App owns the process-wide handles. RabbitMQ fields stay nil when the
// request-log pipeline is disabled.
type App struct {
	Config           *config.Config
	Log              *zap.Logger
	DB               *gorm.DB
	MQConn           *amqp.Connection
	RequestLogs      *rabbitmqClient.RequestLogPublisher
	RequestLogWorker *worker.RequestLogWorker

	StartedAt time.Time
}

func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	app := &App{Config: cfg, Log: log, StartedAt: time.Now()}

	db, err := openDatabase(ctx, cfg)
	if err != nil {
		return nil, err
	}
	app.DB = db
	log.Info("database connected", zap.String("driver", cfg.Database.Driver))

	if err := db.AutoMigrate(&model.User{}, &model.AuthToken{}, &model.Friendship{}, &model.RequestLog{}); err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("auto migrate tables failed: %w", err)
	}

	if cfg.App.SeedUsers {
		if _, err := SeedUsers(repository.NewUserRepository(db), cfg.Auth.BcryptCost, log); err != nil {
			_ = app.Close()
			return nil, err
		}
	}

	if cfg.RabbitMQ.Enabled {
		if err := app.startRequestLogPipeline(ctx); err != nil {
			_ = app.Close()
			return nil, err
		}
	}

	return app, nil
}

func openDatabase(ctx context.Context, cfg *config.Config) (*gorm.DB, error) {
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		return postgresClient.New(ctx, cfg.PostgresDSN(), cfg.IsDevelopment())
	case config.DriverMySQL:
		return mysqlClient.New(ctx, cfg.MySQLDSN(), cfg.IsDevelopment())
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
}

func (a *App) startRequestLogPipeline(ctx context.Context) error {
	queue := a.Config.RabbitMQ.RequestLogQueue
	conn, err := rabbitmqClient.New(ctx, a.Config.RabbitMQ.URL, queue)
	if err != nil {
		return err
	}
	a.MQConn = conn
	a.RequestLogs = rabbitmqClient.NewRequestLogPublisher(conn, queue)

	w := worker.NewRequestLogWorker(conn, repository.NewRequestLogRepository(a.DB), queue, a.Log)
	if err := w.Start(ctx); err != nil {
		return fmt.Errorf("start request log worker failed: %w", err)
	}
	a.RequestLogWorker = w
	return nil
}

func (a *App) Close() error {
	var closeErr error
	if a.RequestLogWorker != nil {
		a.RequestLogWorker.Close()
	}
	if a.RequestLogs != nil {
		if err := a.RequestLogs.Close(); err != nil {
			closeErr = err
		}
	}
	if a.MQConn != nil && !a.MQConn.IsClosed() {
		if err := a.MQConn.Close(); err != nil {
			closeErr = err
		}
	}
	if a.DB != nil {
		sqlDB, err := a.DB.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				closeErr = err
			}
		}
	}
	return closeErr
}
