package database

import (
	"context"
	"fmt"
	"time"

	"catalog/internal/config"
	"catalog/internal/models"
	"catalog/internal/repositories"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const connectTimeout = 10 * time.Second

// Store is an opened product repository and the function releasing its connection.
type Store struct {
	Products repositories.ProductRepository
	Close    func(context.Context) error
}

// Open connects to the storage backend selected by cfg.DBDriver.
func Open(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Store, error) {
	switch cfg.DBDriver {
	case config.DriverMongo:
		client, db, err := ConnectMongo(ctx, cfg)
		if err != nil {
			return nil, err
		}
		repo := repositories.NewMongoProductRepository(db)
		if err := repo.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		log.Info().Str("database", cfg.DBName).Msg("connected to MongoDB")
		return &Store{Products: repo, Close: client.Disconnect}, nil

	case config.DriverPostgres, config.DriverSQLite:
		db, err := OpenGORM(cfg)
		if err != nil {
			return nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get sql.DB: %w", err)
		}
		log.Info().Str("driver", cfg.DBDriver).Msg("connected to SQL database")
		return &Store{
			Products: repositories.NewGORMProductRepository(db),
			Close:    func(context.Context) error { return sqlDB.Close() },
		}, nil

	case config.DriverMemory:
		log.Warn().Msg("using in-memory product storage; data is lost on restart")
		return &Store{
			Products: repositories.NewMemoryProductRepository(),
			Close:    func(context.Context) error { return nil },
		}, nil
	}
	return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
}

// ConnectMongo connects and pings MongoDB, returning the configured database.
func ConnectMongo(ctx context.Context, cfg *config.Config) (*mongo.Client, *mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	return client, client.Database(cfg.DBName), nil
}

// OpenGORM opens a postgres or sqlite database and migrates the product table.
func OpenGORM(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case config.DriverPostgres:
		dialector = postgres.Open(cfg.DatabaseDSN)
	case config.DriverSQLite:
		dialector = sqlite.Open(cfg.DatabaseDSN)
	default:
		return nil, fmt.Errorf("driver %q is not a SQL driver", cfg.DBDriver)
	}

	gormCfg := &gorm.Config{}
	if cfg.IsProduction() {
		gormCfg.Logger = gormlogger.Default.LogMode(gormlogger.Silent)
	}
	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.AutoMigrate(&models.Product{}); err != nil {
		return nil, fmt.Errorf("failed to auto-migrate database: %w", err)
	}
	return db, nil
}
