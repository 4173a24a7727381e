package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validManifest = `[
	{"id": "rsi-ma-cross", "name": "RSI MA Cross", "entryPoint": "rsi_ma_cross.py",
	 "defaultParameters": {"rsi_period": "14"}},
	{"id": "trend-follow-ema", "entryPoint": "trend_follow_ema.py"}
]`

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "algorithms.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadValidManifest(t *testing.T) {
	cat, err := Load(writeManifest(t, validManifest))
	require.NoError(t, err)

	list := cat.List()
	require.Len(t, list, 2)
	assert.Equal(t, "rsi-ma-cross", list[0].ID)
	assert.Equal(t, "14", list[0].DefaultParameters["rsi_period"])

	m, err := cat.Lookup("trend-follow-ema")
	require.NoError(t, err)
	assert.Equal(t, "trend_follow_ema.py", m.EntryPoint)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing resource")
}

func TestLoadDuplicateID(t *testing.T) {
	_, err := Load(writeManifest(t, `[
		{"id": "a", "entryPoint": "a.py"},
		{"id": "a", "entryPoint": "b.py"}
	]`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate id")
}

func TestLoadSchemaViolations(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"not an array", `{"id": "a"}`},
		{"missing entryPoint", `[{"id": "a"}]`},
		{"empty id", `[{"id": "", "entryPoint": "a.py"}]`},
		{"non-string parameter", `[{"id": "a", "entryPoint": "a.py", "defaultParameters": {"n": 14}}]`},
		{"unknown field", `[{"id": "a", "entryPoint": "a.py", "extra": true}]`},
		{"not json", `oops`},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := Load(writeManifest(t, c.content))
			assert.Error(t, err)
		})
	}
}

func TestLookupUnknown(t *testing.T) {
	cat, err := Load(writeManifest(t, validManifest))
	require.NoError(t, err)

	_, err = cat.Lookup("nope")
	assert.ErrorIs(t, err, ErrUnknownAlgorithm)
}

func TestWatchReloadsOnChange(t *testing.T) {
	path := writeManifest(t, validManifest)
	cat, err := Load(path)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- cat.Watch(ctx) }()

	// 给 watcher 一点建立时间
	time.Sleep(100 * time.Millisecond)
	updated := `[{"id": "only-one", "entryPoint": "one.py"}]`
	require.NoError(t, os.WriteFile(path, []byte(updated), 0o644))

	require.Eventually(t, func() bool {
		list := cat.List()
		return len(list) == 1 && list[0].ID == "only-one"
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}

func TestWatchKeepsOldOnInvalidUpdate(t *testing.T) {
	path := writeManifest(t, validManifest)
	cat, err := Load(path)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = cat.Watch(ctx) }()

	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte(`not json`), 0o644))

	// 重载失败须保留旧清单
	time.Sleep(500 * time.Millisecond)
	list := cat.List()
	require.Len(t, list, 2)
	assert.Equal(t, "rsi-ma-cross", list[0].ID)
}
