package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/iliyamo/hostel-seat-allocation/internal/config"
	"github.com/iliyamo/hostel-seat-allocation/internal/database"
	"github.com/iliyamo/hostel-seat-allocation/internal/queue"
	"github.com/iliyamo/hostel-seat-allocation/internal/service"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap("hostel-api")
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			st, err := openStores(cfg, log)
			if err != nil {
				return err
			}
			defer st.Close()

			rdb := config.NewRedisClient(cfg.Redis)
			if rdb == nil {
				log.Warn("redis unavailable, rate limiting and caching disabled")
			} else {
				defer func() { _ = rdb.Close() }()
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			var publisher service.EventPublisher = service.NopPublisher{}
			if cfg.QueueEnabled {
				publisher = queue.NewPublisher(cfg.RabbitMQURL, log)
				consumer := queue.NewConsumer(cfg.RabbitMQURL, cfg.EventLogDir, log)
				go func() {
					if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
						log.Error("allocation consumer stopped", zap.Error(err))
					}
				}()
			}

			e, err := newServer(ctx, cfg, st, rdb, publisher, log)
			if err != nil {
				return err
			}

			addr := ":" + cfg.Port
			errCh := make(chan error, 1)
			go func() {
				log.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env), zap.String("store", cfg.StoreDriver))
				errCh <- e.Start(addr)
			}()

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			case <-ctx.Done():
			}

			log.Info("shutting down")
			sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return e.Shutdown(sctx)
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the MySQL tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap("hostel-migrate")
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()
			if cfg.StoreDriver != config.DriverMySQL {
				return errors.New("migrate requires STORE_DRIVER=mysql")
			}

			db, err := openDB(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := database.Migrate(cmd.Context(), db); err != nil {
				return err
			}
			log.Info("schema applied", zap.Int("statements", len(database.Statements())))
			return nil
		},
	}
}

func createAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an admin account",
		RunE: func(cmd *cobra.Command, args []string) error {
			username, _ := cmd.Flags().GetString("username")
			password, _ := cmd.Flags().GetString("password")

			cfg, log, err := bootstrap("hostel-admin")
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()
			if cfg.StoreDriver == config.DriverMemory {
				return errors.New("create-admin requires STORE_DRIVER=mysql; the memory store seeds ADMIN_USERNAME/ADMIN_PASSWORD at serve")
			}

			st, err := openStores(cfg, log)
			if err != nil {
				return err
			}
			defer st.Close()

			a, err := service.NewAuthService(st.Admins, authConfig(cfg), log).CreateAdmin(cmd.Context(), username, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "admin %q created with id %d\n", a.Username, a.ID)
			return nil
		},
	}
	cmd.Flags().String("username", "HostelAdmin", "admin username (doubles as its role)")
	cmd.Flags().String("password", "", "admin password")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func consumeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "consume",
		Short: "Append allocation events from RabbitMQ to the event log",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap("hostel-consumer")
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			err = queue.NewConsumer(cfg.RabbitMQURL, cfg.EventLogDir, log).Run(ctx)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
}
