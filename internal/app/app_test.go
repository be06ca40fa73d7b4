package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arabic-reader/internal/config"
	"arabic-reader/internal/domain"
)

const coreDictionary = `entries:
  - id: k1
    pos: word
    word: كتاب
    definition: book
  - id: v1
    pos: verb
    past: ذهب
    present: يذهب
    definition: to go
`

func testConfig(t *testing.T) *config.AppConfig {
	dir := t.TempDir()
	t.Setenv("ARABIC_READER_HOME", dir)
	core := filepath.Join(dir, "core.yaml")
	require.NoError(t, os.WriteFile(core, []byte(coreDictionary), 0o644))
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`dictionaries:
  - name: core
    path: `+core+`
  - name: user
    path: `+filepath.Join(dir, "user.yaml")+`
lexicon:
  writable: user
`), 0o644))
	cfg, err := config.Load(cfgPath)
	require.NoError(t, err)
	return cfg
}

func TestBuildDefaultStack(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)
	a, err := Build(ctx, cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, a.Close()) })

	id, err := a.Service.Submit(ctx, "ذهب إلى الكتاب")
	require.NoError(t, err)
	doc, err := a.Service.Open(ctx, id)
	require.NoError(t, err)
	words := lo.Reject(doc.Tokens, func(t domain.AnnotatedToken, _ int) bool { return t.IsDelimiter })
	require.Len(t, words, 3)
	assert.True(t, words[0].ExactMatch)
	assert.False(t, words[1].Matched)
	assert.True(t, words[2].Matched)

	_, err = a.Service.Add(ctx, domain.EntryForm{
		PartOfSpeech: lo.ToPtr("word"),
		Word:         lo.ToPtr("قلم"),
		Definition:   lo.ToPtr("pen"),
	})
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(os.Getenv("ARABIC_READER_HOME"), "user.yaml"))

	families, err := a.Registry.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestBuildRejectsMissingDSN(t *testing.T) {
	cfg := testConfig(t)
	cfg.Dictionaries = append(cfg.Dictionaries, config.DictionaryConfig{
		Name:     "shared",
		Type:     "postgres",
		Postgres: &config.PostgresConfig{DSNEnv: "READER_TEST_UNSET_DSN", Table: "lexicon_entries"},
	})
	_, err := Build(context.Background(), cfg, nil)
	assert.ErrorContains(t, err, "READER_TEST_UNSET_DSN is not set")
}
