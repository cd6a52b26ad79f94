package home

import (
	"github.com/sillowww/keeper/rbx"
	"github.com/sillowww/keeper/store"
	"github.com/sillowww/keeper/sys"
	"github.com/sillowww/keeper/vision"
)

// Env holds the shared dependencies every command handler needs. It is
// built once in main and passed in explicitly instead of living in
// package globals scattered across files.
type Env struct {
	Cfg      *sys.Config
	Store    *store.Store
	Roblox   *rbx.Client
	Bloxlink *rbx.BloxlinkClient
	Vision   *vision.Client
}

var env *Env

// Register wires every command, component and modal handler into the
// loader. Commands that need credentials the config does not carry are
// skipped rather than registered broken.
func Register(e *Env) {
	env = e

	registerPing()
	registerBug()
	registerConfig()
	registerMessage()
	registerCatLeaderboard()
	registerCodes()
	registerHighlight()

	if e.Cfg.RobloxConfigured() {
		registerUser()
		registerSearch()
		if e.Cfg.BloxlinkConfigured() {
			registerGetAccount()
		}
	} else {
		sys.LogRoblox("ROBLOX_API_KEY not set, lookup commands disabled")
	}
}
