package config

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wricardo/mcp-training/deepsea/game/engine"
)

const classicJSON = `{
  "name": "classic",
  "description": "Two grabbers",
  "seed": 42,
  "players": [
    {"name": "A", "strategy": "grabber", "params": {"n": 1}},
    {"name": "B", "strategy": "grabber", "params": {"n": 2}}
  ]
}`

const duelYAML = `name: duel
description: Diver against greedy
players:
  - name: Deep
    strategy: diver
    params:
      depth: 12
      n: 2
  - name: Greedy
    strategy: greedy
`

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func newTestManager(t *testing.T) (*Manager, string) {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, "classic.json", classicJSON)
	writeFile(t, dir, "duel.yaml", duelYAML)
	writeFile(t, dir, "notes.txt", "not a config")

	m, err := NewManager(dir)
	require.NoError(t, err)
	return m, dir
}

func TestNewManager(t *testing.T) {
	t.Run("missing directory", func(t *testing.T) {
		_, err := NewManager(filepath.Join(t.TempDir(), "nope"))
		assert.Error(t, err)
	})

	t.Run("empty directory falls back to built-in line-up", func(t *testing.T) {
		m, err := NewManager(t.TempDir())
		require.NoError(t, err)
		assert.Equal(t, engine.DefaultTableConfig(), m.GetDefault())
	})

	t.Run("classic is the default", func(t *testing.T) {
		m, _ := newTestManager(t)
		require.NotNil(t, m.GetDefault())
		assert.Equal(t, "classic", m.GetDefault().Name)
	})

	t.Run("first valid config when classic is missing", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "duel.yaml", duelYAML)
		m, err := NewManager(dir)
		require.NoError(t, err)
		assert.Equal(t, "duel", m.GetDefault().Name)
	})
}

func TestManager_LoadConfig(t *testing.T) {
	m, _ := newTestManager(t)

	t.Run("json by id", func(t *testing.T) {
		cfg, err := m.LoadConfig("classic")
		require.NoError(t, err)
		require.NotNil(t, cfg.Seed)
		assert.Equal(t, int64(42), *cfg.Seed)
		assert.Len(t, cfg.Players, 2)
		assert.Equal(t, 2, cfg.Players[1].Params["n"])
	})

	t.Run("yaml by id and by filename", func(t *testing.T) {
		byID, err := m.LoadConfig("duel")
		require.NoError(t, err)
		byFile, err := m.LoadConfig("duel.yaml")
		require.NoError(t, err)
		assert.Same(t, byID, byFile)
		assert.Equal(t, "diver", byID.Players[0].Strategy)
		assert.Equal(t, 12, byID.Players[0].Params["depth"])
		assert.Nil(t, byID.Seed)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := m.LoadConfig("missing")
		assert.ErrorIs(t, err, ErrConfigNotFound)
		_, err = m.LoadConfig("../classic")
		assert.ErrorIs(t, err, ErrConfigNotFound)
	})
}

func TestManager_ValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"unknown field", "extra.json", `{"name":"x","description":"d","players":[{"strategy":"greedy"}],"oxygen":30}`},
		{"no players", "empty.json", `{"name":"x","description":"d","players":[]}`},
		{"too many players", "crowd.yaml", "name: x\ndescription: d\nplayers:\n" +
			"  - strategy: greedy\n  - strategy: greedy\n  - strategy: greedy\n" +
			"  - strategy: greedy\n  - strategy: greedy\n  - strategy: greedy\n  - strategy: greedy\n"},
		{"negative param", "neg.json", `{"name":"x","description":"d","players":[{"strategy":"grabber","params":{"n":-1}}]}`},
		{"unknown strategy", "shark.yaml", "name: x\ndescription: d\nplayers:\n  - strategy: shark\n"},
		{"unknown param", "param.json", `{"name":"x","description":"d","players":[{"strategy":"greedy","params":{"n":1}}]}`},
		{"duplicate names", "dup.json", `{"name":"x","description":"d","players":[{"name":"a","strategy":"greedy"},{"name":"A","strategy":"random"}]}`},
		{"broken yaml", "broken.yaml", "name: [unclosed\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, tt.file, tt.content)
			m, err := NewManager(dir)
			require.NoError(t, err)

			_, err = m.LoadConfig(tt.file)
			assert.Error(t, err)
		})
	}

	t.Run("schema errors wrap ErrInvalidConfig", func(t *testing.T) {
		_, err := ParseTableConfig([]byte(`{"name":"x","players":[]}`), "x.json")
		assert.True(t, errors.Is(err, ErrInvalidConfig), "got %v", err)
	})
}

func TestManager_ListConfigs(t *testing.T) {
	m, dir := newTestManager(t)
	writeFile(t, dir, "bad.json", `{"name":"bad"}`)

	configs, err := m.ListConfigs()
	require.NoError(t, err)
	require.Len(t, configs, 2)

	assert.Equal(t, "classic", configs[0].ConfigID)
	assert.Equal(t, "classic.json", configs[0].Filename)
	assert.Equal(t, []string{"grabber(n=1)", "grabber(n=2)"}, configs[0].Strategies)

	assert.Equal(t, "duel", configs[1].ConfigID)
	assert.Equal(t, 2, configs[1].Players)
}

func TestManager_SaveConfig(t *testing.T) {
	m, dir := newTestManager(t)
	seed := int64(7)
	cfg := &engine.TableConfig{
		Name:        "trio",
		Description: "Three seats",
		Seed:        &seed,
		Players: []engine.PlayerSpec{
			{Name: "One", Strategy: "grabber", Params: map[string]int{"n": 3}},
			{Name: "Two", Strategy: "random"},
			{Name: "Three", Strategy: "greedy", Params: map[string]int{"depth": 20}},
		},
	}

	for _, name := range []string{"trio", "trio-yaml.yaml"} {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, m.SaveConfig(name, cfg))
			m.RefreshCache()

			loaded, err := m.LoadConfig(name)
			require.NoError(t, err)
			assert.Equal(t, cfg.Players, loaded.Players)
			require.NotNil(t, loaded.Seed)
			assert.Equal(t, seed, *loaded.Seed)
		})
	}

	_, err := os.Stat(filepath.Join(dir, "trio.json"))
	assert.NoError(t, err)

	err = m.SaveConfig("bad", &engine.TableConfig{Name: "bad", Description: "d"})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestManager_SetDefaultAndRefresh(t *testing.T) {
	m, dir := newTestManager(t)

	require.NoError(t, m.SetDefault("duel"))
	assert.Equal(t, "duel", m.GetDefault().Name)
	assert.ErrorIs(t, m.SetDefault("missing"), ErrConfigNotFound)

	before, _ := m.LoadConfig("classic")
	writeFile(t, dir, "classic.json", `{"name":"classic","description":"Solo","players":[{"strategy":"greedy"}]}`)

	cached, _ := m.LoadConfig("classic")
	assert.Same(t, before, cached)

	m.RefreshCache()
	fresh, err := m.LoadConfig("classic")
	require.NoError(t, err)
	assert.Len(t, fresh.Players, 1)
	assert.Equal(t, "Solo", m.GetDefault().Description)
}

func TestManager_ConcurrentAccess(t *testing.T) {
	m, _ := newTestManager(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := "classic"
			if i%2 == 0 {
				name = "duel"
			}
			if _, err := m.LoadConfig(name); err != nil {
				t.Errorf("LoadConfig(%s) failed: %v", name, err)
			}
			if i%5 == 0 {
				m.RefreshCache()
			}
		}(i)
	}
	wg.Wait()
}
