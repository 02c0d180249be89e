package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/horizon-library/internal/infrastructure/config"
)

// CORS 跨域资源共享中间件
// 1. Origin在白名单中才返回Access-Control-Allow-Origin
// 2. 不在白名单的跨域请求返回403
// 3. 预检请求（OPTIONS）直接返回204
// allow_credentials=true时不能与"*"一起使用，此时回显请求的Origin
func CORS(cfg config.CORSConfig) gin.HandlerFunc {
	methods := strings.Join(cfg.AllowMethods, ", ")
	headers := strings.Join(cfg.AllowHeaders, ", ")
	expose := strings.Join(cfg.ExposeHeaders, ", ")

	return func(c *gin.Context) {
		if !cfg.Enabled {
			c.Next()
			return
		}

		origin := c.GetHeader("Origin")
		if origin == "" {
			// 同源请求或非浏览器客户端
			c.Next()
			return
		}

		allowOrigin := ""
		for _, o := range cfg.AllowOrigins {
			if o == origin {
				allowOrigin = origin
				break
			}
			if o == "*" {
				allowOrigin = "*"
				if cfg.AllowCredentials {
					allowOrigin = origin
				}
				break
			}
		}
		if allowOrigin == "" {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}

		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", allowOrigin)
		h.Add("Vary", "Origin")
		h.Set("Access-Control-Allow-Methods", methods)
		h.Set("Access-Control-Allow-Headers", headers)
		if expose != "" {
			h.Set("Access-Control-Expose-Headers", expose)
		}
		if cfg.AllowCredentials {
			h.Set("Access-Control-Allow-Credentials", "true")
		}
		if cfg.MaxAge > 0 {
			h.Set("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
