package session_test

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/subsportal/internal/database"
	"github.com/jask/subsportal/internal/database/repository"
	"github.com/jask/subsportal/internal/secrets"
	"github.com/jask/subsportal/internal/session"
)

var admin = session.User{Name: "Admin", Role: session.RoleSubcontractor}

func TestStoreRoundTripMemory(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mem := session.NewMemoryStorage()
	st, err := session.Open(ctx, mem)
	require.NoError(t, err)
	require.Nil(t, st.Get())
	require.Empty(t, st.Token())

	require.NoError(t, st.SetToken(ctx, "tok"))
	require.NoError(t, st.Set(ctx, &admin))

	again, err := session.Open(ctx, mem)
	require.NoError(t, err)
	require.Equal(t, "tok", again.Token())
	require.Equal(t, &admin, again.Get())
}

func TestGetReturnsCopy(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st, err := session.Open(ctx, session.NewMemoryStorage())
	require.NoError(t, err)
	u := admin
	require.NoError(t, st.Set(ctx, &u))
	u.Name = "changed"
	got := st.Get()
	require.Equal(t, "Admin", got.Name)
	got.Name = "also changed"
	require.Equal(t, "Admin", st.Get().Name)
}

func TestSetRole(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mem := session.NewMemoryStorage()
	st, err := session.Open(ctx, mem)
	require.NoError(t, err)

	require.NoError(t, st.SetRole(ctx, "builder"))
	require.Nil(t, st.Get())

	require.NoError(t, st.Set(ctx, &session.User{Name: "Admin"}))
	require.NoError(t, st.SetRole(ctx, session.RoleSubcontractor))
	require.Equal(t, session.RoleSubcontractor, st.Get().Role)

	raw, ok, err := mem.Get(ctx, session.UserKey)
	require.NoError(t, err)
	require.True(t, ok)
	require.Contains(t, raw, `"role":"subcontractor"`)
}

func TestClearRemovesBothKeys(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mem := session.NewMemoryStorage()
	st, err := session.Open(ctx, mem)
	require.NoError(t, err)
	require.NoError(t, st.SetToken(ctx, "tok"))
	require.NoError(t, st.Set(ctx, &admin))

	require.NoError(t, st.Clear(ctx))
	require.Nil(t, st.Get())
	require.Empty(t, st.Token())
	for _, k := range []string{session.TokenKey, session.UserKey} {
		_, ok, err := mem.Get(ctx, k)
		require.NoError(t, err)
		require.False(t, ok, k)
	}
}

func TestNilAndEmptyRemove(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mem := session.NewMemoryStorage()
	st, err := session.Open(ctx, mem)
	require.NoError(t, err)
	require.NoError(t, st.SetToken(ctx, "tok"))
	require.NoError(t, st.Set(ctx, &admin))

	require.NoError(t, st.Set(ctx, nil))
	require.NoError(t, st.SetToken(ctx, ""))
	_, ok, _ := mem.Get(ctx, session.UserKey)
	require.False(t, ok)
	_, ok, _ = mem.Get(ctx, session.TokenKey)
	require.False(t, ok)
}

func TestCorruptUserDropped(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mem := session.NewMemoryStorage()
	require.NoError(t, mem.Set(ctx, session.UserKey, "{broken"))
	require.NoError(t, mem.Set(ctx, session.TokenKey, "tok"))

	st, err := session.Open(ctx, mem)
	require.NoError(t, err)
	require.Nil(t, st.Get())
	require.Equal(t, "tok", st.Token())
	_, ok, _ := mem.Get(ctx, session.UserKey)
	require.False(t, ok)
}

func TestSealedToken(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mem := session.NewMemoryStorage()
	box := secrets.NewBox("subsportal-test")
	st, err := session.Open(ctx, mem, session.WithSealer(box))
	require.NoError(t, err)
	require.NoError(t, st.SetToken(ctx, "static-admin-token-123456"))

	raw, ok, err := mem.Get(ctx, session.TokenKey)
	require.NoError(t, err)
	require.True(t, ok)
	require.False(t, strings.Contains(raw, "static-admin"))

	again, err := session.Open(ctx, mem, session.WithSealer(box))
	require.NoError(t, err)
	require.Equal(t, "static-admin-token-123456", again.Token())

	// a different key cannot open it, so the session is dropped
	require.NoError(t, mem.Set(ctx, session.UserKey, `{"name":"Admin","role":"subcontractor"}`))
	other, err := session.Open(ctx, mem, session.WithSealer(secrets.NewBox("other")))
	require.NoError(t, err)
	require.Empty(t, other.Token())
	require.Nil(t, other.Get())
}

func TestExpiryHook(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mem := session.NewMemoryStorage()
	require.NoError(t, mem.Set(ctx, session.TokenKey, "old"))
	require.NoError(t, mem.Set(ctx, session.UserKey, `{"name":"Admin","role":"subcontractor"}`))

	st, err := session.Open(ctx, mem, session.WithExpiry(func(tok string) bool { return tok == "old" }))
	require.NoError(t, err)
	require.Empty(t, st.Token())
	require.Nil(t, st.Get())
}

type failingStorage struct{ *session.MemoryStorage }

func (failingStorage) Set(context.Context, string, string) error { return errors.New("disk full") }

func TestWriteFailureKeepsCache(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st, err := session.Open(ctx, failingStorage{session.NewMemoryStorage()})
	require.NoError(t, err)
	require.Error(t, st.SetToken(ctx, "tok"))
	require.Empty(t, st.Token())
	require.Error(t, st.Set(ctx, &admin))
	require.Nil(t, st.Get())
}

func TestStoreOverSQLite(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db, err := database.Prepare(ctx, filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	kv := repository.NewKVRepo(db)

	st, err := session.Open(ctx, kv)
	require.NoError(t, err)
	require.NoError(t, st.SetToken(ctx, "tok"))
	require.NoError(t, st.Set(ctx, &admin))

	again, err := session.Open(ctx, kv)
	require.NoError(t, err)
	require.Equal(t, &admin, again.Get())
	require.Equal(t, "tok", again.Token())

	require.NoError(t, again.Clear(ctx))
	keys, err := kv.Keys(ctx)
	require.NoError(t, err)
	require.Empty(t, keys)
}
