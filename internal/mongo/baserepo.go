package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/appetiteclub/apt"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	defaultMongoURL    = "mongodb://localhost:27017"
	defaultDBName      = "brew"
	defaultConnTimeout = 10 * time.Second
)

// BaseRepo owns the Mongo client shared by the collection repos. It
// connects on Start and hands out the database via GetDatabase.
type BaseRepo struct {
	client *mongo.Client
	db     *mongo.Database
	logger apt.Logger
	config *apt.Config
}

func NewBaseRepo(config *apt.Config, logger apt.Logger) *BaseRepo {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &BaseRepo{
		logger: logger,
		config: config,
	}
}

func (r *BaseRepo) Start(ctx context.Context) error {
	connString := r.stringOrDef("db.mongo.url", defaultMongoURL)
	dbName := r.stringOrDef("db.mongo.name", defaultDBName)

	timeout, err := r.connTimeout()
	if err != nil {
		return err
	}

	clientOptions := options.Client().ApplyURI(connString).
		SetConnectTimeout(timeout).
		SetServerSelectionTimeout(timeout)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return fmt.Errorf("cannot connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("cannot ping MongoDB: %w", err)
	}

	r.client = client
	r.db = client.Database(dbName)

	r.logger.Infof("Connected to MongoDB: %s, database: %s", connString, dbName)
	return nil
}

func (r *BaseRepo) Stop(ctx context.Context) error {
	if r.client != nil {
		if err := r.client.Disconnect(ctx); err != nil {
			return fmt.Errorf("cannot disconnect from MongoDB: %w", err)
		}
		r.logger.Info("Disconnected from MongoDB")
	}
	return nil
}

func (r *BaseRepo) GetDatabase() *mongo.Database {
	return r.db
}

func (r *BaseRepo) stringOrDef(key, def string) string {
	if val, _ := r.config.GetString(key); val != "" {
		return val
	}
	return def
}

func (r *BaseRepo) connTimeout() (time.Duration, error) {
	raw, _ := r.config.GetString("db.mongo.timeout")
	return parseConnTimeout(raw)
}

// parseConnTimeout reads db.mongo.timeout as a Go duration string. A
// bad value fails startup rather than silently falling back.
func parseConnTimeout(raw string) (time.Duration, error) {
	if raw == "" {
		return defaultConnTimeout, nil
	}
	timeout, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("cannot parse db.mongo.timeout %q: %w", raw, err)
	}
	return timeout, nil
}
