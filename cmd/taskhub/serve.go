package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/avelis/taskhub/internal/api"
	"github.com/avelis/taskhub/internal/auth"
	"github.com/avelis/taskhub/internal/config"
	"github.com/avelis/taskhub/internal/metrics"
	"github.com/avelis/taskhub/internal/project"
	"github.com/avelis/taskhub/internal/report"
	"github.com/avelis/taskhub/internal/tag"
	"github.com/avelis/taskhub/internal/task"
	"github.com/avelis/taskhub/internal/team"
	"github.com/avelis/taskhub/internal/user"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the TaskHub server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return err
	}
	slog.Info("connected to database")

	m := metrics.New()
	m.RegisterDBPoolCollector(func() (total, idle, acquired int32) {
		st := pool.Stat()
		return st.TotalConns(), st.IdleConns(), st.AcquiredConns()
	})

	userStore := user.NewStore(pool)
	tagStore := tag.NewStore(pool)
	taskStore := task.NewStore(pool)
	projectStore := project.NewStore(pool)
	teamStore := team.NewStore(pool)
	reportStore := report.NewStore(pool, taskStore)

	resolver := tag.NewResolver(tagStore, m.IncTagResolveConflict)
	writer := task.NewWriter(taskStore, resolver)

	issuer := auth.NewIssuer(cfg.Auth.Secret, cfg.Auth.SignupTokenTTL, cfg.Auth.LoginTokenTTL)
	authService := auth.NewService(issuer, user.NewAuthAdapter(userStore))

	router := api.NewRouter(api.RouterDeps{
		UserStore:      userStore,
		TaskStore:      taskStore,
		TaskWriter:     writer,
		TagStore:       tagStore,
		ProjectStore:   projectStore,
		TeamStore:      teamStore,
		ReportStore:    reportStore,
		Auth:           authService,
		Issuer:         issuer,
		Metrics:        m,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-sigCh
	slog.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	return srv.Shutdown(shutdownCtx)
}
