//go:build wireinject
// +build wireinject

// Wire依赖注入配置
//
// 生成：wire gen ./cmd/api
// 生成的wire_gen.go提供InitializeServer，与main.go中的手动注入组装出同一张依赖图；
// 两边共用providers.go中的自定义Provider。

package main

import (
	"net/http"

	"github.com/google/wire"
	"go.uber.org/zap"

	appbook "github.com/xiebiao/horizon-library/internal/application/book"
	applibrarian "github.com/xiebiao/horizon-library/internal/application/librarian"
	"github.com/xiebiao/horizon-library/internal/domain/book"
	"github.com/xiebiao/horizon-library/internal/infrastructure/config"
	"github.com/xiebiao/horizon-library/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/horizon-library/internal/infrastructure/storage"
	"github.com/xiebiao/horizon-library/internal/interface/http/handler"
	"github.com/xiebiao/horizon-library/internal/interface/http/middleware"
)

// infrastructureSet 基础设施层：数据库、缓存、封面存储、事件
var infrastructureSet = wire.NewSet(
	provideDB,
	mysql.NewTxManager,
	wire.Bind(new(book.Transactor), new(*mysql.TxManager)),
	mysql.NewLibrarianRepository,
	provideBookRepository,
	provideCoverStore,
	wire.Bind(new(book.CoverStore), new(*storage.CoverStore)),
	provideEventPublisher,
)

// domainSet 领域服务
var domainSet = wire.NewSet(
	book.NewService,
	provideLibrarianService,
)

// applicationSet 用例
var applicationSet = wire.NewSet(
	appbook.NewCreateBookUseCase,
	appbook.NewUpdateBookUseCase,
	appbook.NewDeleteBookUseCase,
	appbook.NewGetBookUseCase,
	appbook.NewListBooksUseCase,
	applibrarian.NewLoginUseCase,
)

// interfaceSet JWT、中间件、Handler和路由
var interfaceSet = wire.NewSet(
	provideJWTManager,
	middleware.NewAuthMiddleware,
	handler.NewBookHandler,
	handler.NewLibrarianHandler,
	provideRouter,
	provideServer,
)

// InitializeServer 组装HTTP服务器
// 返回的cleanup关闭数据库、Redis和RabbitMQ连接
func InitializeServer(cfg *config.Config, log *zap.Logger) (*http.Server, func(), error) {
	wire.Build(
		infrastructureSet,
		domainSet,
		applicationSet,
		interfaceSet,
	)
	return nil, nil, nil
}
