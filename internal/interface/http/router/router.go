// Package router 组装Gin引擎：全局中间件 + 路由表
package router

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/xiebiao/horizon-library/docs" // swagger文档
	"github.com/xiebiao/horizon-library/internal/domain/librarian"
	"github.com/xiebiao/horizon-library/internal/infrastructure/config"
	"github.com/xiebiao/horizon-library/internal/interface/http/handler"
	"github.com/xiebiao/horizon-library/internal/interface/http/middleware"
	apperrors "github.com/xiebiao/horizon-library/pkg/errors"
	"github.com/xiebiao/horizon-library/pkg/response"
)

// multipart表单在内存中保留的上限，超出部分写临时文件
const maxMultipartMemory = 8 << 20

// Deps 路由依赖
type Deps struct {
	Config           *config.Config
	Logger           *zap.Logger
	Auth             *middleware.AuthMiddleware
	BookHandler      *handler.BookHandler
	LibrarianHandler *handler.LibrarianHandler
	Uploads          http.FileSystem // 封面文件
}

// New 创建Gin引擎并注册路由
//
// 路由分组：
// - 公开：/ping、/metrics、/swagger、/uploads、GET /api/v1/books
// - 登录（限流）：POST /api/v1/librarian/login
// - 馆员：/api/v1/librarian/books（RequireAuth + RequireRoles(librarian））
// - 学生：/api/v1/student（RequireAuth + RequireRoles(student））
func New(d Deps) *gin.Engine {
	r := gin.New()
	r.MaxMultipartMemory = maxMultipartMemory

	// 中间件顺序：日志 → Recovery（带请求级logger） → 指标 → CORS
	r.Use(
		middleware.Logger(d.Logger),
		middleware.Recovery(),
		middleware.Metrics(),
		middleware.CORS(d.Config.CORS),
	)

	// 健康检查
	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 访问 /swagger/index.html 查看API文档
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.GET(d.Config.Storage.PublicPrefix+"/*filepath", serveUploads(d.Uploads))

	loginLimiter := middleware.NewRateLimiter(d.Config.RateLimit.LoginRPS, d.Config.RateLimit.LoginBurst)

	v1 := r.Group("/api/v1")
	{
		// 图书模块（公开接口）
		books := v1.Group("/books")
		{
			books.GET("", d.BookHandler.ListBooks)
			books.GET("/:id", d.BookHandler.GetBook)
		}

		v1.POST("/librarian/login", loginLimiter.Middleware(), d.LibrarianHandler.Login)

		// 馆员模块（需要librarian角色）
		librarianArea := v1.Group("/librarian")
		librarianArea.Use(d.Auth.RequireAuth(), d.Auth.RequireRoles(librarian.RoleLibrarian))
		{
			librarianArea.POST("/books", d.BookHandler.CreateBook)
			librarianArea.PUT("/books/:id", d.BookHandler.UpdateBook)
			librarianArea.DELETE("/books/:id", d.BookHandler.DeleteBook)
		}

		v1.GET("/student", d.Auth.RequireAuth(), d.Auth.RequireRoles(librarian.RoleStudent), handler.StudentArea)
	}

	r.NoRoute(func(c *gin.Context) {
		response.ErrorWithCode(c, apperrors.ErrCodeNotFound, "接口不存在")
	})

	return r
}

// serveUploads 封面静态文件，不列目录
func serveUploads(fs http.FileSystem) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.Param("filepath")
		if name == "" || strings.HasSuffix(name, "/") {
			c.Status(http.StatusNotFound)
			return
		}
		c.FileFromFS(name, fs)
	}
}
