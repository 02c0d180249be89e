package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/horizon-library/internal/domain/librarian"
	"github.com/xiebiao/horizon-library/internal/infrastructure/config"
	"github.com/xiebiao/horizon-library/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/horizon-library/pkg/mq"
)

type fakeSource struct {
	msgs   []mq.Message
	closed bool
}

func (f *fakeSource) Consume(ctx context.Context, handler mq.Handler) error {
	for _, m := range f.msgs {
		if err := handler(ctx, m); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeSource) Close() error {
	f.closed = true
	return nil
}

// newTestEnv sqlite内存库上的馆员服务
func newTestEnv(t *testing.T) (*env, librarian.Service) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, mysql.AutoMigrate(db))

	svc := librarian.NewService(mysql.NewLibrarianRepository(db), bcrypt.MinCost)
	e := &env{
		loadConfig: func(string) (*config.Config, error) { return &config.Config{}, nil },
		openService: func(*config.Config, *zap.Logger, int) (librarian.Service, func(), error) {
			return svc, func() {}, nil
		},
	}
	return e, svc
}

func execute(e *env, stdin string, args ...string) (string, error) {
	cmd := newRootCmd(e)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCreateAndPasswd(t *testing.T) {
	e, svc := newTestEnv(t)
	ctx := context.Background()

	out, err := execute(e, "", "create", "--username", "alice", "--password", "password123")
	require.NoError(t, err)
	assert.Contains(t, out, `created librarian "alice"`)

	_, err = svc.Login(ctx, "alice", "password123")
	require.NoError(t, err)

	t.Run("重复用户名", func(t *testing.T) {
		_, err := execute(e, "", "create", "-u", "alice", "-p", "password456")
		assert.ErrorIs(t, err, librarian.ErrUsernameDuplicate)
	})

	t.Run("密码过短", func(t *testing.T) {
		_, err := execute(e, "", "create", "-u", "bob", "-p", "short")
		assert.ErrorIs(t, err, librarian.ErrWeakPassword)
	})

	t.Run("缺少用户名", func(t *testing.T) {
		_, err := execute(e, "", "create", "-p", "password123")
		assert.Error(t, err)
	})

	t.Run("从标准输入重置密码", func(t *testing.T) {
		out, err := execute(e, "new-password-1\n", "passwd", "-u", "alice")
		require.NoError(t, err)
		assert.Contains(t, out, "password updated")

		_, err = svc.Login(ctx, "alice", "password123")
		assert.Error(t, err, "旧密码应失效")
		_, err = svc.Login(ctx, "alice", "new-password-1")
		assert.NoError(t, err)
	})

	t.Run("重置不存在的馆员", func(t *testing.T) {
		_, err := execute(e, "", "passwd", "-u", "ghost", "-p", "password123")
		assert.ErrorIs(t, err, librarian.ErrLibrarianNotFound)
	})
}

func TestEventsCmd(t *testing.T) {
	e, _ := newTestEnv(t)
	src := &fakeSource{msgs: []mq.Message{
		{RoutingKey: "book.created", Body: []byte(`{"type":"book.created","book_id":3,"isbn":"978-7","title":"三体","occurred_at":"2026-10-14T08:00:00Z"}`)},
		{RoutingKey: "book.deleted", Body: []byte("not json")},
	}}
	var boundKeys []string
	e.openConsumer = func(_ *config.Config, _ *zap.Logger, keys []string) (eventSource, error) {
		boundKeys = keys
		return src, nil
	}

	out, err := execute(e, "", "events", "--keys", "book.created,book.deleted")
	require.NoError(t, err)

	assert.Equal(t, []string{"book.created", "book.deleted"}, boundKeys)
	assert.True(t, src.closed)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "2026-10-14T08:00:00Z\tbook.created\tid=3\tisbn=978-7\ttitle=\"三体\"", lines[0])
	assert.Equal(t, "book.deleted\tnot json", lines[1])
}

func TestPrintEvent_ZoneKept(t *testing.T) {
	var buf bytes.Buffer
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.FixedZone("CST", 8*3600))
	body := []byte(`{"type":"book.updated","book_id":1,"isbn":"x","title":"t","occurred_at":"` + at.Format(time.RFC3339) + `"}`)

	printEvent(&buf, mq.Message{RoutingKey: "book.updated", Body: body})
	assert.True(t, strings.HasPrefix(buf.String(), "2026-01-02T03:04:05+08:00\tbook.updated"))
}
