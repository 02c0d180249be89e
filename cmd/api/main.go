package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appbook "github.com/xiebiao/horizon-library/internal/application/book"
	applibrarian "github.com/xiebiao/horizon-library/internal/application/librarian"
	"github.com/xiebiao/horizon-library/internal/domain/book"
	"github.com/xiebiao/horizon-library/internal/infrastructure/config"
	"github.com/xiebiao/horizon-library/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/horizon-library/internal/interface/http/handler"
	"github.com/xiebiao/horizon-library/internal/interface/http/middleware"
	"github.com/xiebiao/horizon-library/pkg/logger"
	"github.com/xiebiao/horizon-library/pkg/tracing"
)

// @title           Horizon Library API
// @version         1.0
// @description     图书馆目录服务：公开查询图书，馆员维护图书与封面
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:        cfg.Log.Level,
		Format:       cfg.Log.Format,
		Output:       cfg.Log.Output,
		EnableCaller: cfg.Log.EnableCaller,
	})
	if err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer func() { _ = zapLogger.Sync() }()

	if err := run(cfg, zapLogger); err != nil {
		zapLogger.Fatal("server exited", zap.Error(err))
	}
}

// run 手动依赖注入并启动服务，收到SIGINT/SIGTERM后优雅关闭
// 依赖链：Repository ← Service ← UseCase ← Handler ← Router
func run(cfg *config.Config, log *zap.Logger) error {
	gin.SetMode(cfg.Server.Mode)

	shutdownTracing, err := tracing.Init(tracing.Config{
		Enabled:     cfg.Tracing.Enabled,
		ServiceName: cfg.Tracing.ServiceName,
		Endpoint:    cfg.Tracing.Endpoint,
		SampleRatio: cfg.Tracing.SampleRatio,
		Insecure:    cfg.Tracing.Insecure,
	})
	if err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := shutdownTracing(ctx); err != nil {
			log.Warn("flush spans failed", zap.Error(err))
		}
	}()

	// 基础设施层
	db, cleanupDB, err := provideDB(cfg, log)
	if err != nil {
		return err
	}
	defer cleanupDB()
	bookRepo, closeCache, err := provideBookRepository(cfg, db, log)
	if err != nil {
		return err
	}
	defer closeCache()

	covers, err := provideCoverStore(cfg)
	if err != nil {
		return err
	}
	events, closeEvents := provideEventPublisher(cfg, log)
	defer closeEvents()

	jwtManager := provideJWTManager(cfg)

	// 领域层
	bookService := book.NewService(bookRepo, mysql.NewTxManager(db), covers, events, log)
	librarianService := provideLibrarianService(mysql.NewLibrarianRepository(db))

	// 应用层 + 接口层
	bookHandler := handler.NewBookHandler(
		appbook.NewCreateBookUseCase(bookService),
		appbook.NewUpdateBookUseCase(bookService),
		appbook.NewDeleteBookUseCase(bookService),
		appbook.NewGetBookUseCase(bookService),
		appbook.NewListBooksUseCase(bookService),
		cfg,
	)
	librarianHandler := handler.NewLibrarianHandler(applibrarian.NewLoginUseCase(librarianService, jwtManager))
	authMiddleware := middleware.NewAuthMiddleware(jwtManager)

	engine := provideRouter(cfg, log, authMiddleware, bookHandler, librarianHandler, covers)
	srv := provideServer(cfg, engine)

	serveErr := make(chan error, 1)
	go func() {
		log.Info("server starting",
			zap.String("addr", srv.Addr),
			zap.String("mode", cfg.Server.Mode),
			zap.Bool("redis", cfg.Redis.Enabled),
			zap.Bool("mq", cfg.MQ.Enabled),
			zap.Bool("tracing", cfg.Tracing.Enabled),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("启动HTTP服务失败: %w", err)
		}
	case sig := <-quit:
		log.Info("shutting down server", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}

	log.Info("server exited")
	return nil
}

func addr(port int) string {
	return fmt.Sprintf(":%d", port)
}
