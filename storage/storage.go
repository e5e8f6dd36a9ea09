// Package storage opens the movie store selected by STORE_DRIVER.
package storage

import (
	"context"
	"fmt"
	"strconv"

	"moviecatalog/dynamodb"
	"moviecatalog/mongodb"
	"moviecatalog/movie"
	"moviecatalog/pkg/config"
	"moviecatalog/postgres"
)

// CloseFunc releases the store connection.
type CloseFunc func(ctx context.Context) error

func noopClose(context.Context) error { return nil }

// Open connects to the configured store and returns its movie repository.
func Open(ctx context.Context, cfg *config.Config) (movie.Repository, CloseFunc, error) {
	switch cfg.Store.Driver {
	case config.DriverMongoDB:
		return openMongoDB(ctx, cfg)
	case config.DriverDynamoDB:
		return openDynamoDB(ctx, cfg)
	case config.DriverPostgres:
		return openPostgres(cfg)
	default:
		return nil, noopClose, fmt.Errorf("storage: unknown driver %q", cfg.Store.Driver)
	}
}

func openMongoDB(ctx context.Context, cfg *config.Config) (movie.Repository, CloseFunc, error) {
	client, err := mongodb.NewClient(ctx, mongodb.Options{
		URI:            cfg.Mongo.URI,
		ConnectTimeout: cfg.Store.Timeout,
	})
	if err != nil {
		return nil, noopClose, err
	}

	repo := mongodb.NewMovieRepository(client, cfg.Mongo.Database, cfg.Mongo.Collection)
	if err := repo.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, noopClose, err
	}

	return repo, client.Disconnect, nil
}

func openDynamoDB(ctx context.Context, cfg *config.Config) (movie.Repository, CloseFunc, error) {
	client, err := dynamodb.NewClient(ctx, dynamodb.Options{
		Region:       cfg.DynamoDB.Region,
		Endpoint:     cfg.DynamoDB.Endpoint,
		AccessKey:    cfg.DynamoDB.AccessKey,
		SecretKey:    cfg.DynamoDB.SecretKey,
		SessionToken: cfg.DynamoDB.SessionToken,
	})
	if err != nil {
		return nil, noopClose, err
	}

	if cfg.DynamoDB.CreateTable {
		if err := dynamodb.CreateMoviesTable(ctx, client, cfg.DynamoDB.MoviesTable); err != nil {
			return nil, noopClose, err
		}
	}

	return dynamodb.NewMovieRepository(client, cfg.DynamoDB.MoviesTable), noopClose, nil
}

func openPostgres(cfg *config.Config) (movie.Repository, CloseFunc, error) {
	db, err := postgres.NewConnection(postgres.Options{
		DBName:   cfg.DB.Name,
		DBUser:   cfg.DB.User,
		Password: cfg.DB.Pass,
		Host:     cfg.DB.Host,
		Port:     strconv.Itoa(cfg.DB.Port),
		SSLMode:  cfg.DB.EnableSSL,
	})
	if err != nil {
		return nil, noopClose, fmt.Errorf("postgres: open connection: %w", err)
	}

	closeDB := func(context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
	return postgres.NewMovieRepository(db), closeDB, nil
}
