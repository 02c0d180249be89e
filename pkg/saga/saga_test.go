package saga

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSaga_Execute_Success 所有步骤成功，不触发补偿
func TestSaga_Execute_Success(t *testing.T) {
	executed := make([]string, 0)

	s := NewSaga(5 * time.Second)
	s.AddStep("保存封面",
		func(ctx context.Context) error {
			executed = append(executed, "保存封面")
			return nil
		},
		func(ctx context.Context) error {
			executed = append(executed, "删除封面")
			return nil
		},
	)
	s.AddStep("写入图书",
		func(ctx context.Context) error {
			executed = append(executed, "写入图书")
			return nil
		},
		nil,
	)

	require.NoError(t, s.Execute(context.Background()))
	assert.Equal(t, []string{"保存封面", "写入图书"}, executed)
}

// TestSaga_Execute_FailureAndCompensate 步骤失败触发逆序补偿
func TestSaga_Execute_FailureAndCompensate(t *testing.T) {
	executed := make([]string, 0)
	errDuplicate := errors.New("duplicate")

	s := NewSaga(0)
	s.AddStep("步骤1",
		func(ctx context.Context) error { executed = append(executed, "步骤1"); return nil },
		func(ctx context.Context) error { executed = append(executed, "补偿1"); return nil },
	)
	s.AddStep("步骤2",
		func(ctx context.Context) error { executed = append(executed, "步骤2"); return nil },
		func(ctx context.Context) error { executed = append(executed, "补偿2"); return nil },
	)
	s.AddStep("步骤3",
		func(ctx context.Context) error { return errDuplicate },
		func(ctx context.Context) error { executed = append(executed, "补偿3"); return nil },
	)

	err := s.Execute(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, errDuplicate, "应能取出原始错误")

	var stepErr *StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, 2, stepErr.Index)
	assert.Equal(t, "步骤3", stepErr.Step)

	// 失败步骤本身不补偿，已完成步骤逆序补偿
	assert.Equal(t, []string{"步骤1", "步骤2", "补偿2", "补偿1"}, executed)
}

// TestSaga_CompensateError 补偿失败只上报，不中断其余补偿
func TestSaga_CompensateError(t *testing.T) {
	var reported []string
	compensated := false

	s := NewSaga(0).OnCompensateError(func(step string, err error) {
		reported = append(reported, step)
	})
	s.AddStep("A",
		func(ctx context.Context) error { return nil },
		func(ctx context.Context) error { compensated = true; return nil },
	)
	s.AddStep("B",
		func(ctx context.Context) error { return nil },
		func(ctx context.Context) error { return errors.New("disk gone") },
	)
	s.AddStep("C", func(ctx context.Context) error { return errors.New("fail") }, nil)

	require.Error(t, s.Execute(context.Background()))
	assert.Equal(t, []string{"B"}, reported)
	assert.True(t, compensated)
}

// TestSaga_Execute_Cancelled 上下文已取消时补偿已完成步骤
func TestSaga_Execute_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	compensated := false

	s := NewSaga(0)
	s.AddStep("A",
		func(ctx context.Context) error { cancel(); return nil },
		func(ctx context.Context) error {
			compensated = true
			assert.NoError(t, ctx.Err(), "补偿使用的Context不应被取消")
			return nil
		},
	)
	s.AddStep("B", func(ctx context.Context) error { return nil }, nil)

	err := s.Execute(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, compensated)
}
