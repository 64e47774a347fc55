// @title           REST API Go / Fiber
// @version         1.0.0
// @description     API Docs for Products
// @BasePath        /api
// @tag.name        Products
// @tag.description API operations related to products
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/streadway/amqp"

	"productapi/internal/config"
	"productapi/internal/database"
	"productapi/internal/handlers"
	"productapi/internal/repositories"
	"productapi/internal/server"
	"productapi/internal/services"
	"productapi/pkg/rabbitmq"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "productapi",
		Short:        "Product catalog REST API",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Start the HTTP server (default)",
			RunE: func(cmd *cobra.Command, args []string) error {
				return runServe()
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Create or update the products table and exit",
			RunE: func(cmd *cobra.Command, args []string) error {
				return runMigrate()
			},
		},
		&cobra.Command{
			Use:   "events",
			Short: "Print product events from the RabbitMQ queue",
			RunE: func(cmd *cobra.Command, args []string) error {
				return runEvents()
			},
		},
	)
	return root
}

// store is the persistence handle chosen by DATABASE_URL.
type store struct {
	repo  repositories.ProductRepository
	ping  server.Pinger
	close func() error
}

// openStore connects and migrates the database, or builds the in-memory store.
func openStore(databaseURL string) (*store, error) {
	if database.IsMemory(databaseURL) {
		return &store{
			repo:  repositories.NewMemoryProductRepository(),
			ping:  func(context.Context) error { return nil },
			close: func() error { return nil },
		}, nil
	}

	db, err := database.Open(databaseURL)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		_ = database.Close(db)
		return nil, err
	}
	return &store{
		repo:  repositories.NewGORMProductRepository(db),
		ping:  func(ctx context.Context) error { return database.Ping(ctx, db) },
		close: func() error { return database.Close(db) },
	}, nil
}

func openRedis(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("could not parse redis URL: %w", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("could not ping redis: %w", err)
	}
	return client, nil
}

func runServe() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	st, err := openStore(cfg.DatabaseURL)
	if err != nil {
		log.Printf("Error connecting to the database: %v", err)
		return err
	}
	defer func() {
		if err := st.close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()
	log.Println("Database connected")

	repo := st.repo
	var cachePing server.Pinger
	if cfg.RedisURL != "" {
		client, err := openRedis(cfg.RedisURL)
		if err != nil {
			log.Printf("Warning: %v. Caching disabled.", err)
		} else {
			defer client.Close()
			repo = repositories.NewCachedProductRepository(repo, client, cfg.ProductCacheTTL)
			cachePing = func(ctx context.Context) error { return client.Ping(ctx).Err() }
			log.Println("Redis connected, product cache enabled")
		}
	}

	var events services.EventPublisher
	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL, Queue: cfg.RabbitMQQueue})
		if err != nil {
			log.Printf("Warning: %v. Product events disabled.", err)
		} else {
			defer mqClient.Close()
			events = mqClient
		}
	}

	productService := services.NewProductService(repo, events)
	productHandler := handlers.NewProductHandler(productService)

	app := server.New(server.Options{
		ProductHandler: productHandler,
		FrontendURL:    cfg.FrontendURL,
		DatabasePing:   st.ping,
		CachePing:      cachePing,
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serveErr := make(chan error, 1)
	go func() {
		log.Printf("Starting server on port %s", cfg.AppPort)
		serveErr <- app.Listen(cfg.AppPort)
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("server failed to start: %w", err)
	case <-quit:
	}

	log.Println("Shutting down server...")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
	return nil
}

func runMigrate() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	st, err := openStore(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer st.close()
	log.Println("Products table is up to date")
	return nil
}

func runEvents() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.RabbitMQURL == "" {
		return fmt.Errorf("RABBITMQ_URL is not set")
	}

	mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL, Queue: cfg.RabbitMQQueue})
	if err != nil {
		return err
	}
	defer mqClient.Close()

	log.Printf("Waiting for product events on %s. To exit press CTRL+C", cfg.RabbitMQQueue)
	return mqClient.Consume(printEvent)
}

func printEvent(msg amqp.Delivery) error {
	log.Printf("Received product event (tag %d): %s", msg.DeliveryTag, string(msg.Body))
	return nil
}
