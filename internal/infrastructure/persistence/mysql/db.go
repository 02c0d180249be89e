package mysql

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/horizon-library/internal/infrastructure/config"
)

// NewDB 创建数据库连接
// 设计说明：
// 1. 使用GORM v2作为ORM框架，TranslateError把MySQL 1062转换为gorm.ErrDuplicatedKey
// 2. 配置连接池参数（MaxOpenConns、MaxIdleConns、ConnMaxLifetime）
// 3. 开发环境开启SQL日志，生产环境关闭
// 4. database.auto_migrate为true时自动迁移表结构
func NewDB(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	logLevel := logger.Silent
	if cfg.Server.Mode == "debug" {
		logLevel = logger.Info // 开发环境打印SQL
	}

	db, err := gorm.Open(mysql.Open(cfg.Database.DSN()), &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}

	// 最大打开连接数（建议：CPU核数 * 2 + 磁盘数量）
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	// 最大空闲连接数（建议：MaxOpenConns的1/4到1/2）
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	// 连接最大存活时间（防止数据库主动断开连接）
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}

	log.Info("database connected",
		zap.String("host", cfg.Database.Host),
		zap.Int("port", cfg.Database.Port),
		zap.String("dbname", cfg.Database.DBName),
	)

	if cfg.Database.AutoMigrate {
		if err := AutoMigrate(db); err != nil {
			return nil, fmt.Errorf("数据库迁移失败: %w", err)
		}
	}

	return db, nil
}

// AutoMigrate 自动迁移表结构
// AutoMigrate只会创建表、添加字段，不会删除或修改现有字段
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&LibrarianModel{},
		&BookModel{},
	)
}

// LibrarianModel GORM馆员模型
// 这是infrastructure层的数据模型，domain/librarian/entity.go是领域实体，Repository负责转换
type LibrarianModel struct {
	ID           uint      `gorm:"primaryKey"`
	Username     string    `gorm:"uniqueIndex;size:50;not null;comment:用户名"`
	PasswordHash string    `gorm:"size:255;not null;comment:密码（bcrypt加密）"`
	Role         string    `gorm:"size:20;not null;default:librarian;comment:角色"`
	CreatedAt    time.Time `gorm:"comment:创建时间"`
	UpdatedAt    time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (LibrarianModel) TableName() string {
	return "librarians"
}

// BookModel GORM图书模型
// 设计说明：
// 1. ISBN有唯一索引，是并发创建时的最终保证
// 2. 没有DeletedAt：物理删除，删除后ISBN可以重新使用
// 3. CoverImage可为NULL（没有封面）
// 4. published_date只存日期
type BookModel struct {
	ID            uint      `gorm:"primaryKey"`
	Title         string    `gorm:"index:idx_search;size:200;not null;comment:书名"`
	Author        string    `gorm:"index:idx_search;size:100;not null;comment:作者"`
	ISBN          string    `gorm:"column:isbn;uniqueIndex;size:64;not null;comment:ISBN号"`
	PublishedDate time.Time `gorm:"type:date;not null;comment:出版日期"`
	Description   string    `gorm:"type:text;comment:图书简介"`
	CoverImage    *string   `gorm:"size:500;comment:封面引用"`
	ShelfNumber   string    `gorm:"size:50;comment:书架号"`
	RowPosition   string    `gorm:"size:50;comment:排号"`
	CreatedAt     time.Time `gorm:"index;comment:创建时间"`
	UpdatedAt     time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (BookModel) TableName() string {
	return "books"
}
