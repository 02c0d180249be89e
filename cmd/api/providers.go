package main

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/xiebiao/horizon-library/internal/domain/book"
	"github.com/xiebiao/horizon-library/internal/domain/librarian"
	"github.com/xiebiao/horizon-library/internal/infrastructure/config"
	"github.com/xiebiao/horizon-library/internal/infrastructure/messaging"
	"github.com/xiebiao/horizon-library/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/horizon-library/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/horizon-library/internal/infrastructure/storage"
	"github.com/xiebiao/horizon-library/internal/interface/http/handler"
	"github.com/xiebiao/horizon-library/internal/interface/http/middleware"
	"github.com/xiebiao/horizon-library/internal/interface/http/router"
	"github.com/xiebiao/horizon-library/pkg/jwt"
	"github.com/xiebiao/horizon-library/pkg/mq"
)

// 自定义Provider：构造参数需要从Config提取，或者需要按开关决定实现
// main.go手动注入和wire.go共用这一组函数

// provideJWTManager 从配置创建JWT管理器
func provideJWTManager(cfg *config.Config) *jwt.Manager {
	return jwt.NewManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpire)
}

// provideDB MySQL连接，cleanup关闭连接池
func provideDB(cfg *config.Config, log *zap.Logger) (*gorm.DB, func(), error) {
	db, err := mysql.NewDB(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	return db, func() { closeDB(db, log) }, nil
}

func closeDB(db *gorm.DB, log *zap.Logger) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Warn("close database failed", zap.Error(err))
	}
}

// provideBookRepository 图书仓储
// redis.enabled为true时在MySQL仓储外包一层详情缓存；
// 启动时Redis不可用只告警，直接使用MySQL
func provideBookRepository(cfg *config.Config, db *gorm.DB, log *zap.Logger) (book.Repository, func(), error) {
	repo := mysql.NewBookRepository(db)
	if !cfg.Redis.Enabled {
		return repo, func() {}, nil
	}

	client, err := redis.NewClient(context.Background(), cfg.Redis, log)
	if err != nil {
		log.Warn("redis unavailable, book cache disabled", zap.Error(err))
		return repo, func() {}, nil
	}

	cleanup := func() {
		if err := client.Close(); err != nil {
			log.Warn("close redis failed", zap.Error(err))
		}
	}
	return redis.NewCachedBookRepository(repo, client, cfg.Redis.DetailTTL, log), cleanup, nil
}

// provideCoverStore 本地磁盘封面存储
func provideCoverStore(cfg *config.Config) (*storage.CoverStore, error) {
	return storage.NewLocalCoverStore(cfg.Storage)
}

// provideEventPublisher 图书事件发布
// 未启用MQ或连接失败时退化为NopPublisher，写操作不受影响
func provideEventPublisher(cfg *config.Config, log *zap.Logger) (book.EventPublisher, func()) {
	if !cfg.MQ.Enabled {
		return book.NopPublisher{}, func() {}
	}

	pub, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, cfg.MQ.ExchangeType, log)
	if err != nil {
		log.Warn("rabbitmq unavailable, book events disabled", zap.Error(err))
		return book.NopPublisher{}, func() {}
	}

	return messaging.NewBookEventPublisher(pub), func() {
		if err := pub.Close(); err != nil {
			log.Warn("close rabbitmq failed", zap.Error(err))
		}
	}
}

// provideLibrarianService 馆员服务，使用默认bcrypt成本
func provideLibrarianService(repo librarian.Repository) librarian.Service {
	return librarian.NewService(repo, librarian.DefaultBcryptCost)
}

// provideRouter 组装路由
func provideRouter(
	cfg *config.Config,
	log *zap.Logger,
	auth *middleware.AuthMiddleware,
	bookHandler *handler.BookHandler,
	librarianHandler *handler.LibrarianHandler,
	covers *storage.CoverStore,
) *gin.Engine {
	return router.New(router.Deps{
		Config:           cfg,
		Logger:           log,
		Auth:             auth,
		BookHandler:      bookHandler,
		LibrarianHandler: librarianHandler,
		Uploads:          covers.FileSystem(),
	})
}

// provideServer 创建HTTP服务器
func provideServer(cfg *config.Config, engine *gin.Engine) *http.Server {
	return &http.Server{
		Addr:         addr(cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
}
