package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/syssam/sqlauto/compiler/gen"
	"github.com/syssam/sqlauto/compiler/load"
	"github.com/syssam/sqlauto/dialect"
	"github.com/syssam/sqlauto/dialect/sql"
)

// execute runs the root command with args and returns its error.
func execute(t *testing.T, args ...string) error {
	t.Helper()
	cmd := newRootCmd()
	cmd.SetArgs(append(args, "--env-file", ""))
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	return cmd.ExecuteContext(context.Background())
}

func usersData() *load.TableData {
	return &load.TableData{
		Tables: map[string]*load.Table{
			"users": {Name: "users", Columns: []*load.Column{
				{Name: "id", Type: "INTEGER", PrimaryKey: true, AutoIncrement: true},
				{Name: "email", Type: "TEXT"},
			}},
		},
	}
}

func TestLoadSettings(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		s, err := loadSettings("")
		require.NoError(t, err)
		assert.Equal(t, *gen.DefaultConfig(), s.Config)
		assert.Empty(t, s.Dialect)
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "sqlauto.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
dialect: postgres
dsn: postgres://localhost/app
lang: ts
directory: ./src/models
caseModel: p
tables: [users, posts]
spaces: false
`), 0o644))

		s, err := loadSettings(path)
		require.NoError(t, err)
		assert.Equal(t, "postgres", s.Dialect)
		assert.Equal(t, "postgres://localhost/app", s.dsn())
		assert.Equal(t, gen.LangTS, s.Lang)
		assert.Equal(t, "./src/models", s.Directory)
		assert.Equal(t, gen.CasePascal, s.CaseModel)
		assert.Equal(t, []string{"users", "posts"}, s.Tables)
		assert.False(t, s.Spaces)
		assert.Equal(t, 2, s.Indentation, "unset keys keep their default")
		assert.True(t, s.Pluralize)
	})

	t.Run("invalid", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "sqlauto.yaml")
		require.NoError(t, os.WriteFile(path, []byte("lang: coffee\n"), 0o644))
		_, err := loadSettings(path)
		assert.ErrorIs(t, err, gen.ErrMissingConfig)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := loadSettings(filepath.Join(t.TempDir(), "none.yaml"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestSettingsDSNFromEnv(t *testing.T) {
	t.Setenv(dsnEnv, "file:env.db")
	s, err := loadSettings("")
	require.NoError(t, err)
	assert.Equal(t, "file:env.db", s.dsn())
}

func TestConfigFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sqlauto.yaml")
	require.NoError(t, os.WriteFile(path, []byte("lang: esm\ndirectory: out\ntables: [a]\nindentation: 4\n"), 0o644))
	a := &app{cfgFile: path, log: zap.NewNop()}

	tests := []struct {
		name  string
		args  []string
		check func(*testing.T, *settings)
	}{
		{
			name: "config file only",
			check: func(t *testing.T, s *settings) {
				assert.Equal(t, gen.LangESM, s.Lang)
				assert.Equal(t, []string{"a"}, s.Tables)
				assert.Equal(t, 4, s.Indentation)
			},
		},
		{
			name: "flags override",
			args: []string{"-l", "ts", "-t", "b,c", "--caseProp", "c", "--noAlias", "--noPluralize"},
			check: func(t *testing.T, s *settings) {
				assert.Equal(t, gen.LangTS, s.Lang)
				assert.Equal(t, "out", s.Directory)
				assert.Equal(t, []string{"b", "c"}, s.Tables)
				assert.Equal(t, gen.CaseCamel, s.CaseProp)
				assert.True(t, s.NoAlias)
				assert.False(t, s.Pluralize)
			},
		},
		{
			name: "spaces keeps configured width",
			args: []string{"--spaces=false"},
			check: func(t *testing.T, s *settings) {
				assert.False(t, s.Spaces)
				assert.Equal(t, 4, s.Indentation)
			},
		},
		{
			name: "source flags",
			args: []string{"-e", "sqlite", "--dsn", "file:app.db", "-i", "tables.yaml", "-T", "migrations"},
			check: func(t *testing.T, s *settings) {
				assert.Equal(t, "sqlite", s.Dialect)
				assert.Equal(t, "file:app.db", s.DSN)
				assert.Equal(t, "tables.yaml", s.Input)
				assert.Equal(t, []string{"migrations"}, s.SkipTables)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f configFlags
			cmd := &cobra.Command{Use: "test"}
			f.register(cmd)
			require.NoError(t, cmd.ParseFlags(tt.args))

			s, err := f.settings(cmd, a)
			require.NoError(t, err)
			tt.check(t, s)
		})
	}

	t.Run("invalid flag value", func(t *testing.T) {
		var f configFlags
		cmd := &cobra.Command{Use: "test"}
		f.register(cmd)
		require.NoError(t, cmd.ParseFlags([]string{"--caseModel", "k"}))
		_, err := f.settings(cmd, a)
		assert.ErrorIs(t, err, gen.ErrMissingConfig)
	})
}

func TestGenerateFromInput(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "tables.yaml")
	require.NoError(t, load.WriteFile(input, usersData()))
	out := filepath.Join(dir, "models")

	require.NoError(t, execute(t, "generate", "--input", input, "-o", out, "-l", "ts", "--caseModel", "p", "--singularize"))

	model, err := os.ReadFile(filepath.Join(out, "user.ts"))
	require.NoError(t, err)
	assert.Contains(t, string(model), "export class User extends Model")
	init, err := os.ReadFile(filepath.Join(out, "init-models.ts"))
	require.NoError(t, err)
	assert.Contains(t, string(init), "const User = _User.initModel(sequelize);")
}

func TestGenerateErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no source", []string{"generate"}, "missing --dialect or --input"},
		{"no dsn", []string{"generate", "--dialect", "sqlite"}, "missing --dsn or $SQLAUTO_DSN"},
		{"unknown dialect", []string{"generate", "--dialect", "oracle", "--dsn", "x"}, `unsupported dialect "oracle"`},
		{"bad lang", []string{"generate", "-l", "coffee"}, "unsupported language"},
		{"watch without input", []string{"generate", "--dialect", "sqlite", "--dsn", "file:watch?mode=memory", "--watch"}, "--watch requires --input"},
		{"watch checked before connecting", []string{"generate", "--dialect", "postgres", "--dsn", "postgres://127.0.0.1:1/none?connect_timeout=1", "--watch"}, "--watch requires --input"},
		{"inspect without out", []string{"inspect", "--dialect", "sqlite"}, "missing --out"},
		{"inspect bad format", []string{"inspect", "--out", "tables.txt"}, "unsupported"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(dsnEnv, "")
			err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestInspectThenGenerate(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "app.db")
	drv, err := sql.Open(dialect.SQLite, "file:"+db)
	require.NoError(t, err)
	_, err = drv.DB().Exec(`
CREATE TABLE users (id INTEGER PRIMARY KEY AUTOINCREMENT, email TEXT NOT NULL);
CREATE TABLE posts (id INTEGER PRIMARY KEY, user_id INTEGER REFERENCES users(id), title TEXT);
CREATE TABLE migrations (version INTEGER PRIMARY KEY);
`)
	require.NoError(t, err)
	require.NoError(t, drv.Close())

	doc := filepath.Join(dir, "tables.json")
	require.NoError(t, execute(t, "inspect", "--dialect", "sqlite", "--dsn", "file:"+db, "-T", "migrations", "--out", doc))

	td, err := load.ReadFile(doc)
	require.NoError(t, err)
	assert.Len(t, td.Tables, 2)
	require.Len(t, td.Relations, 1)
	assert.Equal(t, "users", td.Relations[0].ParentTable)
	assert.Equal(t, "posts", td.Relations[0].ChildTable)

	out := filepath.Join(dir, "models")
	require.NoError(t, execute(t, "generate", "--input", doc, "-o", out))
	init, err := os.ReadFile(filepath.Join(out, "init-models.js"))
	require.NoError(t, err)
	assert.Contains(t, string(init), `  posts.belongsTo(users, { as: "user", foreignKey: "user_id"});`)
	assert.Contains(t, string(init), `  users.hasMany(posts, { as: "posts", foreignKey: "user_id"`)
	assert.FileExists(t, filepath.Join(out, "users.js"))
	assert.FileExists(t, filepath.Join(out, "posts.js"))
	assert.NoFileExists(t, filepath.Join(out, "migrations.js"))

	t.Run("from database", func(t *testing.T) {
		out := filepath.Join(dir, "direct")
		t.Setenv(dsnEnv, "file:"+db)
		require.NoError(t, execute(t, "generate", "--dialect", "sqlite", "-o", out, "-l", "esm", "-t", "users"))
		assert.FileExists(t, filepath.Join(out, "users.js"))
		assert.NoFileExists(t, filepath.Join(out, "posts.js"))
	})
}

func TestWatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tables.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tables: {}\n"), 0o644))
	a := &app{log: zap.NewNop(), debounce: 10 * time.Millisecond}

	ctx, cancel := context.WithCancel(context.Background())
	runs := make(chan struct{}, 16)
	done := make(chan error, 1)
	go func() {
		done <- a.watch(ctx, path, func(context.Context) error {
			runs <- struct{}{}
			return nil
		})
	}()

	// The watcher starts asynchronously; keep touching the file until it
	// reports a change.
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()
	timeout := time.After(5 * time.Second)
wait:
	for {
		select {
		case <-runs:
			break wait
		case <-tick.C:
			require.NoError(t, os.WriteFile(path, []byte("tables: {}\n"), 0o644))
		case <-timeout:
			t.Fatal("no run after writing the watched file")
		}
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}
