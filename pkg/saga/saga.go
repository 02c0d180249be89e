// Package saga 实现顺序执行、失败逆序补偿的Saga编排
//
// 核心思想：
// 1. 将一个跨资源的操作拆分为多个步骤（如：写入文件 → 写入数据库）
// 2. 每个步骤可以有对应的补偿操作（如：删除刚写入的文件）
// 3. 某步失败时，按逆序执行已完成步骤的补偿操作
//
// 补偿操作必须幂等：补偿本身失败只会上报，不会重试。
package saga

import (
	"context"
	"fmt"
	"time"
)

// Step 表示Saga中的一个步骤
type Step struct {
	Name       string                          // 步骤名称（用于日志和调试）
	Action     func(ctx context.Context) error // 正向操作
	Compensate func(ctx context.Context) error // 补偿操作，可为nil
}

// StepError 步骤执行失败
// Unwrap返回步骤原始错误，调用方可以继续使用errors.Is/As判断业务错误
type StepError struct {
	Index int
	Step  string
	Err   error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("步骤[%d:%s]执行失败: %v", e.Index, e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// Saga 表示一次Saga编排
type Saga struct {
	steps    []Step        // 所有步骤
	executed []Step        // 已执行的步骤（用于补偿）
	timeout  time.Duration // 整体超时时间，0表示不限制

	onCompensateError func(step string, err error)
}

// NewSaga 创建一个新的Saga
//
// 示例：
//
//	s := saga.NewSaga(0)
//	s.AddStep("保存封面", storeCover, deleteCover)
//	s.AddStep("写入图书", insertBook, nil)
//	err := s.Execute(ctx)
func NewSaga(timeout time.Duration) *Saga {
	return &Saga{
		steps:             make([]Step, 0),
		timeout:           timeout,
		onCompensateError: func(string, error) {},
	}
}

// OnCompensateError 设置补偿失败回调（用于记录日志/指标）
func (s *Saga) OnCompensateError(fn func(step string, err error)) *Saga {
	if fn != nil {
		s.onCompensateError = fn
	}
	return s
}

// AddStep 添加一个步骤
func (s *Saga) AddStep(name string, action, compensate func(ctx context.Context) error) *Saga {
	s.steps = append(s.steps, Step{
		Name:       name,
		Action:     action,
		Compensate: compensate,
	})
	return s
}

// Execute 顺序执行所有步骤
// 任一步骤失败：逆序补偿已完成的步骤，返回*StepError
func (s *Saga) Execute(ctx context.Context) error {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	for i, step := range s.steps {
		select {
		case <-ctx.Done():
			// 补偿使用新的Context，避免补偿也被取消
			s.compensate(context.WithoutCancel(ctx))
			return &StepError{Index: i, Step: step.Name, Err: ctx.Err()}
		default:
		}

		if step.Action != nil {
			if err := step.Action(ctx); err != nil {
				s.compensate(context.WithoutCancel(ctx))
				return &StepError{Index: i, Step: step.Name, Err: err}
			}
		}

		s.executed = append(s.executed, step)
	}

	return nil
}

// compensate 逆序执行已完成步骤的补偿操作
func (s *Saga) compensate(ctx context.Context) {
	for i := len(s.executed) - 1; i >= 0; i-- {
		step := s.executed[i]
		if step.Compensate == nil {
			continue
		}
		if err := step.Compensate(ctx); err != nil {
			s.onCompensateError(step.Name, err)
		}
	}

	s.executed = nil
}
