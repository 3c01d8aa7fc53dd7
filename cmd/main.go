package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"task_tracker/internal/handlers"
	"task_tracker/internal/logger"
	"task_tracker/internal/repository"
	"task_tracker/internal/repository/db"
	"task_tracker/internal/repository/filestore"
	"task_tracker/internal/server"
	"task_tracker/internal/service"

	_ "task_tracker/docs"

	"github.com/spf13/viper"
)

// @title           Task Tracker API
// @version         1.0
// @description     Minimal task-tracking backend: register, log in, and manage your own tasks.

// @securityDefinitions.apikey BearerAuth
// @in   header
// @name Authorization

func main() {
	// init logger
	log := logger.Get(logger.InfoLevel)

	// load config.yml + env overrides
	if err := loadConfig(); err != nil {
		log.Fatalw("error reading config", "err", err)
	}

	// The original fell back to a hardcoded signing secret when none was
	// configured. That is a known defect; here a missing secret is fatal.
	signingKey := viper.GetString("jwt.secret")
	if signingKey == "" {
		log.Fatalw("jwt secret is not configured; set JWT_SECRET")
	}

	// open storage (flat JSON documents by default, sqlite as alternative)
	repos, closeStorage, err := openStorage(log)
	if err != nil {
		log.Fatalw("failed to init storage", "err", err)
	}
	defer func() {
		if cerr := closeStorage(); cerr != nil {
			log.Errorw("failed to close storage", "err", cerr)
		}
	}()

	// wire dependencies
	services := service.NewService(repos, signingKey)
	apiHandler := handlers.NewHandler(services, log)

	// start HTTP server
	srv := &server.Server{}
	runHTTPServer(srv, viper.GetString("port"), apiHandler, log)

	// graceful shutdown
	waitForShutdown(srv, log)
}

func loadConfig() error {
	viper.AddConfigPath("configs") // configs/config.yml
	viper.SetConfigName("config")

	// Secrets and the listen port may come from the environment.
	_ = viper.BindEnv("jwt.secret", "JWT_SECRET")
	_ = viper.BindEnv("port", "PORT")

	return viper.ReadInConfig()
}

// openStorage builds the repository layer for the configured driver and
// returns a close func for whatever it opened.
func openStorage(log *logger.Logger) (*repository.Repository, func() error, error) {
	driver := viper.GetString("storage.driver")
	if driver == "" {
		driver = "file"
	}

	switch driver {
	case "file":
		usersPath := viper.GetString("storage.users_path")
		if usersPath == "" {
			usersPath = "data/users.json"
		}
		tasksPath := viper.GetString("storage.tasks_path")
		if tasksPath == "" {
			tasksPath = "data/tasks.json"
		}
		store, err := filestore.Open(usersPath, tasksPath)
		if err != nil {
			return nil, nil, err
		}
		log.Infow("storage ready", "driver", driver, "users", usersPath, "tasks", tasksPath)
		return repository.NewFileRepository(store), func() error { return nil }, nil

	case "sqlite":
		path := viper.GetString("storage.sqlite_path")
		if path == "" {
			log.Infow("storage.sqlite_path not set in config; using default file", "default", "app.db")
			path = "app.db"
		}
		sqlDB, err := db.InitDB(path)
		if err != nil {
			return nil, nil, err
		}
		log.Infow("storage ready", "driver", driver, "path", path)
		return repository.NewRepository(sqlDB), sqlDB.Close, nil
	}

	log.Fatalw("unknown storage driver", "driver", driver)
	return nil, nil, nil
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		if port == "" {
			port = "8080"
		}
		if err := srv.Run(port, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// allow in-flight requests to complete
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalw("server forced to shutdown", "err", err)
	}
}
