package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/idilsaglam/todolist/internal/config"
	"github.com/idilsaglam/todolist/internal/kv"
	"github.com/idilsaglam/todolist/internal/kv/filekv"
	"github.com/idilsaglam/todolist/internal/kv/memkv"
	"github.com/idilsaglam/todolist/internal/kv/rediskv"
	"github.com/idilsaglam/todolist/internal/kv/sqlitekv"
	"github.com/idilsaglam/todolist/internal/persist"
	"github.com/idilsaglam/todolist/internal/todo"
	"github.com/idilsaglam/todolist/internal/ui"
)

// Options carries what the router needs from main.
type Options struct {
	Config *config.Config
	Logger zerolog.Logger
	Out    io.Writer
	Err    io.Writer
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func Run(args []string, opt Options) int {
	if opt.Config == nil {
		opt.Config = config.Default()
	}
	if opt.Out == nil {
		opt.Out = os.Stdout
	}
	if opt.Err == nil {
		opt.Err = os.Stderr
	}
	r := &runner{opt: opt, theme: ui.ThemeByName(opt.Config.Theme)}

	if len(args) == 0 {
		r.help()
		return 2
	}
	cmd, a := args[0], args[1:]

	switch cmd {
	case "help", "-h", "--help":
		r.help()
		return 0

	case "ls":
		return r.withStore(r.doList)

	case "tui":
		return r.withStore(r.doTUI)

	case "add":
		if len(a) == 0 {
			r.fail("usage: todo add <text...>")
			return 2
		}
		text := strings.Join(a, " ")
		return r.withStore(func(st *todo.Store) int { return r.doAdd(st, text) })

	case "done", "rm":
		if len(a) != 1 {
			r.fail(fmt.Sprintf("usage: todo %s <id>", cmd))
			return 2
		}
		id, err := strconv.Atoi(a[0])
		if err != nil {
			r.fail(cmd + ": not a number: " + a[0])
			return 2
		}
		if cmd == "done" {
			return r.withStore(func(st *todo.Store) int { return r.doToggle(st, id) })
		}
		return r.withStore(func(st *todo.Store) int { return r.doRemove(st, id) })

	case "clear":
		return r.withStore(r.doClear)
	}

	r.fail("unknown subcommand: " + cmd)
	fmt.Fprintln(r.opt.Err)
	r.help()
	return 2
}

// PrintHelp writes usage to stdout.
func PrintHelp() {
	(&runner{opt: Options{Out: os.Stdout}}).help()
}

type runner struct {
	opt   Options
	theme ui.Theme
}

func (r *runner) help() {
	fmt.Fprint(r.opt.Out, `todo - a tiny to-do list

Usage:
  todo [flags] <subcommand> [args]

Subcommands:
  add <text...>      Add a new item (text can be multiple words)
  ls                 List items
  tui                Interactive list (a add, space toggle, d delete, q quit)
  done <id>          Toggle complete for the item with this id
  rm <id>            Delete the item with this id
  clear              Delete every item and the stored snapshot

Examples:
  todo add "Buy milk"
  todo ls
  todo done 2
  todo rm 3
`)
}

func (r *runner) ok(msg string)   { ui.OK(r.opt.Out, r.theme, msg) }
func (r *runner) fail(msg string) { ui.Fail(r.opt.Err, r.theme, msg) }

// withStore opens the configured backend, loads the store, runs fn and
// drains pending writes before closing everything.
func (r *runner) withStore(fn func(*todo.Store) int) int {
	logger := r.opt.Logger.With().Str("component", "cli").Logger()
	backend, err := openBackend(r.opt.Config, r.opt.Logger)
	if err != nil {
		logger.Error().Err(err).Str("backend", r.opt.Config.Backend).Msg("open backend")
		r.fail("open storage: " + err.Error())
		return 1
	}
	defer backend.Close()

	w := persist.NewWriter(persist.NewAdapter(backend, r.opt.Config.Key, r.opt.Logger))
	st := todo.New(w, r.opt.Logger)

	var failed int
	st.OnPersist(func(res persist.Result) {
		if res.Err != nil {
			failed++
		}
	})

	st.Load(context.Background())
	code := fn(st)
	st.Close()

	// Close drained the writer, so the hook is done running.
	if failed > 0 && code == 0 {
		r.fail("changes were not saved, see the log for details")
		return 1
	}
	return code
}

func (r *runner) doList(st *todo.Store) int {
	fmt.Fprintln(r.opt.Out, ui.ListView(r.theme, st.List(), r.opt.Config.Group))
	return 0
}

func (r *runner) doTUI(st *todo.Store) int {
	if err := ui.Run(st, r.theme); err != nil {
		r.fail("tui: " + err.Error())
		return 1
	}
	return 0
}

func (r *runner) doAdd(st *todo.Store, text string) int {
	it, ok := st.Add(text)
	if !ok {
		r.fail("add: empty text")
		return 2
	}
	r.ok(fmt.Sprintf("added #%d", it.ID))
	return 0
}

func (r *runner) doToggle(st *todo.Store, id int) int {
	it, ok := st.Toggle(id)
	if !ok {
		r.notFound(id)
		return 2
	}
	if it.Complete {
		r.ok(fmt.Sprintf("#%d complete", id))
	} else {
		r.ok(fmt.Sprintf("#%d pending", id))
	}
	return 0
}

func (r *runner) doRemove(st *todo.Store, id int) int {
	if _, ok := st.Delete(id); !ok {
		r.notFound(id)
		return 2
	}
	r.ok(fmt.Sprintf("removed #%d", id))
	return 0
}

func (r *runner) doClear(st *todo.Store) int {
	n := len(st.List())
	st.Clear()
	r.ok(fmt.Sprintf("cleared %d items", n))
	return 0
}

func (r *runner) notFound(id int) {
	r.fail(fmt.Sprintf("no item with id %d", id))
	fmt.Fprintln(r.opt.Err, r.theme.Muted.Render("Hint: run `todo ls` to see ids"))
}

// openBackend selects the key-value store named by the config.
func openBackend(cfg *config.Config, logger zerolog.Logger) (kv.Store, error) {
	switch cfg.Backend {
	case kv.BackendFile:
		return filekv.New(cfg.DataDir)
	case kv.BackendSQLite:
		return sqlitekv.New(cfg.SQLitePath, logger)
	case kv.BackendRedis:
		return rediskv.New(cfg.RedisURL, "todo")
	case kv.BackendMemory:
		return memkv.New(), nil
	}
	return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
}
