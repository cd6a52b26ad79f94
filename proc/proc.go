package proc

import (
	"github.com/sillowww/keeper/rbx"
	"github.com/sillowww/keeper/store"
	"github.com/sillowww/keeper/sys"
	"github.com/sillowww/keeper/vision"
)

// Env holds the dependencies the background watchers need, built once
// in main alongside the command environment.
type Env struct {
	Cfg    *sys.Config
	Store  *store.Store
	Roblox *rbx.Client
	Vision *vision.Client
}

var env *Env

// Register wires the background watchers into the loader. Watchers
// whose configuration is incomplete decline to start instead of
// erroring at runtime.
func Register(e *Env) {
	env = e

	registerForumWatcher()
	registerCatWatch()
}
