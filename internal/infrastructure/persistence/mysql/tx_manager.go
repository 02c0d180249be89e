package mysql

import (
	"context"

	"gorm.io/gorm"

	apperrors "github.com/xiebiao/horizon-library/pkg/errors"
)

// txKey context中事务状态的key（私有类型，避免与其他包冲突）
type txKey struct{}

// txState 当前事务DB和提交后回调
// 嵌套事务共用最外层的回调列表，只在最外层COMMIT后执行
type txState struct {
	tx          *gorm.DB
	afterCommit *[]func()
}

// TxManager 事务管理器，实现book.Transactor
// 设计说明：
// 1. 封装GORM的Transaction方法
// 2. 通过context传递事务DB（避免全局变量）
// 3. 已在事务中时再次调用使用Savepoint（GORM嵌套事务）
// 4. AfterCommit注册的回调在最外层事务提交成功后执行，回滚时丢弃
type TxManager struct {
	db *gorm.DB
}

// NewTxManager 创建事务管理器
func NewTxManager(db *gorm.DB) *TxManager {
	return &TxManager{db: db}
}

// Transaction 执行事务
// fn中使用传入的ctx调用Repository即在同一事务中执行
// fn返回error时ROLLBACK，返回nil时COMMIT
//
// 使用示例：
//
//	err := txManager.Transaction(ctx, func(ctx context.Context) error {
//	    b, err := bookRepo.LockByID(ctx, id)
//	    if err != nil {
//	        return err
//	    }
//	    return bookRepo.Delete(ctx, b.ID)
//	})
func (m *TxManager) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	parent, nested := ctx.Value(txKey{}).(*txState)

	hooks := new([]func())
	if nested {
		hooks = parent.afterCommit
	}

	err := dbFromContext(ctx, m.db).WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, &txState{tx: tx, afterCommit: hooks}))
	})
	if err != nil {
		if !apperrors.IsAppError(err) {
			// BEGIN/COMMIT失败
			return dbError(err, "数据库事务失败")
		}
		return err
	}

	if !nested {
		for _, h := range *hooks {
			h()
		}
	}
	return nil
}

// AfterCommit 注册事务提交后执行的回调
// ctx不在事务中时立即执行，用于COMMIT后才能生效的副作用（如缓存失效）
func AfterCommit(ctx context.Context, fn func()) {
	if st, ok := ctx.Value(txKey{}).(*txState); ok {
		*st.afterCommit = append(*st.afterCommit, fn)
		return
	}
	fn()
}

// InTransaction ctx是否处于TxManager开启的事务中
func InTransaction(ctx context.Context) bool {
	_, ok := ctx.Value(txKey{}).(*txState)
	return ok
}

// dbFromContext 从context获取事务DB，没有则使用默认DB
func dbFromContext(ctx context.Context, db *gorm.DB) *gorm.DB {
	if st, ok := ctx.Value(txKey{}).(*txState); ok {
		return st.tx
	}
	return db
}
