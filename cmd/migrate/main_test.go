package main

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookgraph/internal/config"
	"bookgraph/internal/infrastructure/database"
)

func TestSelectTargets(t *testing.T) {
	cfg := &config.Config{
		AuthorDB: &database.DBConfig{Name: "authors"},
		BookDB:   &database.DBConfig{Name: "books"},
	}

	all, err := selectTargets(cfg, "all")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "authors", all[0].db.Name)
	assert.Equal(t, "books", all[1].db.Name)

	only, err := selectTargets(cfg, "books")
	require.NoError(t, err)
	require.Len(t, only, 1)

	_, err = selectTargets(cfg, "orders")
	assert.Error(t, err)
}

func TestEmbeddedMigrationsPresent(t *testing.T) {
	cfg := &config.Config{AuthorDB: &database.DBConfig{}, BookDB: &database.DBConfig{}}
	targets, err := selectTargets(cfg, "all")
	require.NoError(t, err)

	for _, tg := range targets {
		files, err := fs.Glob(tg.fs, tg.dir+"/*.sql")
		require.NoError(t, err)
		assert.NotEmpty(t, files, tg.dir)
	}
}
