package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/sillowww/keeper/home"
	"github.com/sillowww/keeper/proc"
	"github.com/sillowww/keeper/rbx"
	"github.com/sillowww/keeper/store"
	"github.com/sillowww/keeper/sys"
	"github.com/sillowww/keeper/vision"
)

func main() {
	// Parse flags
	silent := flag.Bool("silent", false, "Disable all log output")
	flag.Parse()

	if *silent {
		sys.SetSilentMode(true)
	}

	// 1. Check for and kill old process
	if pidData, err := os.ReadFile(".bot.pid"); err == nil {
		if oldPid, err := strconv.Atoi(string(pidData)); err == nil && oldPid != os.Getpid() {
			if process, err := os.FindProcess(oldPid); err == nil {
				// Check if it's still running
				if err := process.Signal(syscall.Signal(0)); err == nil {
					sys.LogInfo("Killing running instance... (PID: %d)", oldPid)
					if err := process.Signal(syscall.SIGTERM); err == nil {
						// Wait for it to exit (up to 5 seconds)
						for i := 0; i < 50; i++ {
							if err := process.Signal(syscall.Signal(0)); err != nil {
								break // Process is gone
							}
							time.Sleep(100 * time.Millisecond)
						}
						sys.LogInfo("Old instance terminated.")
					} else {
						sys.LogWarn("Failed to kill old instance: %v", err)
					}
				}
			}
		}
	}

	// 2. Write PID file
	pid := os.Getpid()
	if err := os.WriteFile(".bot.pid", []byte(fmt.Sprintf("%d", pid)), 0644); err != nil {
		sys.LogWarn("Failed to write PID file: %v", err)
	}
	defer os.Remove(".bot.pid")

	// 3. Setup shutdown signal
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)

	// 4. Run bot (blocks until shutdown signal)
	if err := run(sc); err != nil {
		sys.LogFatal("%v", err)
	}
}

func run(shutdownChan <-chan os.Signal) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sys.SetAppContext(ctx)

	// Load configuration
	cfg, err := sys.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize database
	mongoClient, err := store.Connect(ctx, cfg.MongoURI)
	if err != nil {
		return fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	defer func() {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer disconnectCancel()
		if err := mongoClient.Disconnect(disconnectCtx); err != nil {
			sys.LogWarn("Failed to disconnect mongodb: %v", err)
		}
	}()

	st := store.New(mongoClient.Database(cfg.MongoDatabase))
	if err := st.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	sys.LogDatabase(sys.MsgDatabaseConnected, cfg.MongoDatabase)

	// External clients. Unconfigured ones stay nil or inert and the
	// features that need them are skipped at registration time.
	roblox := rbx.NewClient(cfg.RobloxAPIKey, cfg.RobloxCookie, sys.HttpClient)
	var bloxlink *rbx.BloxlinkClient
	if cfg.BloxlinkConfigured() {
		bloxlink = rbx.NewBloxlinkClient(cfg.BloxlinkToken, sys.HttpClient)
	}
	vis := vision.NewClient(cfg.VisionAPIKey, sys.HttpClient)

	// Register all commands, components, modals and daemons
	home.Register(&home.Env{
		Cfg:      cfg,
		Store:    st,
		Roblox:   roblox,
		Bloxlink: bloxlink,
		Vision:   vis,
	})
	proc.Register(&proc.Env{
		Cfg:    cfg,
		Store:  st,
		Roblox: roblox,
		Vision: vis,
	})

	// Create Discord client
	client, err := sys.CreateClient(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to create discord client: %w", err)
	}
	defer client.Close(context.Background())

	// Background command registration (parallel)
	go func() {
		if err := sys.RegisterCommands(client, cfg.GuildID); err != nil {
			sys.LogError("Background command registration failed: %v", err)
		}
	}()

	if err := client.OpenGateway(ctx); err != nil {
		return fmt.Errorf("failed to open gateway: %w", err)
	}

	<-shutdownChan
	fmt.Println()
	sys.LogInfo("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	sys.ShutdownDaemons(shutdownCtx)

	return nil
}
