// Package logger 基于zap的结构化日志
package logger

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config 日志配置
// 与config.LogConfig字段一一对应，避免pkg依赖internal包
type Config struct {
	Level        string // debug | info | warn | error
	Format       string // console | json
	Output       string // stdout | stderr | /path/to/file
	EnableCaller bool
}

// New 根据配置创建zap.Logger
// 说明：
// 1. json格式使用生产环境编码器（便于ELK/Loki采集）
// 2. console格式使用开发环境编码器（便于本地阅读）
func New(cfg Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(defaultString(cfg.Level, "info"))
	if err != nil {
		return nil, fmt.Errorf("无效的日志级别 %q: %w", cfg.Level, err)
	}

	var zc zap.Config
	switch strings.ToLower(cfg.Format) {
	case "", "json":
		zc = zap.NewProductionConfig()
	case "console":
		zc = zap.NewDevelopmentConfig()
	default:
		return nil, fmt.Errorf("无效的日志格式: %s", cfg.Format)
	}

	output := defaultString(cfg.Output, "stdout")
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.OutputPaths = []string{output}
	zc.ErrorOutputPaths = []string{"stderr"}
	zc.DisableCaller = !cfg.EnableCaller
	zc.EncoderConfig.TimeKey = "time"
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return zc.Build()
}

// NewNop 测试用的空日志
func NewNop() *zap.Logger {
	return zap.NewNop()
}

func defaultString(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// ginKey 请求级logger在gin.Context中的键
const ginKey = "logger"

// Inject 将请求级logger写入gin.Context（由日志中间件调用）
func Inject(c *gin.Context, l *zap.Logger) {
	c.Set(ginKey, l)
}

// FromGin 获取请求级logger，不存在时返回全局logger
func FromGin(c *gin.Context) *zap.Logger {
	if v, ok := c.Get(ginKey); ok {
		if l, ok := v.(*zap.Logger); ok {
			return l
		}
	}
	return zap.L()
}
