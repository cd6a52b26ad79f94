package sys

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

var (
	// Style definitions
	infoColor      = color.New(color.FgHiBlack)
	warnColor      = color.New(color.FgHiYellow)
	errorColor     = color.New(color.FgHiRed)
	fatalColor     = color.New(color.FgHiRed, color.Bold)
	databaseColor  = color.New(color.FgHiBlack)
	intakeColor    = color.New(color.FgHiMagenta)
	forumColor     = color.New(color.FgHiMagenta)
	catColor       = color.New(color.FgHiMagenta)
	highlightColor = color.New(color.FgHiMagenta)
	robloxColor    = color.New(color.FgHiCyan)
	visionColor    = color.New(color.FgHiCyan)

	IsSilent  = false
	LogToFile = false

	// Global default logger
	Logger *slog.Logger

	// Log file handling
	logFile *os.File
	logMu   sync.Mutex
)

func init() {
	// Initialize with a default handler immediately (Stdout only)
	InitLogger(false, false)
}

// InitLogger initializes the global structured logger
func InitLogger(silent bool, saveToFile bool) {
	logMu.Lock()
	defer logMu.Unlock()

	IsSilent = silent
	LogToFile = saveToFile
	level := slog.LevelInfo
	if strings.ToLower(os.Getenv("DEBUG")) == "true" {
		level = slog.LevelDebug
	}

	// Clean up previous file if it exists (e.g. during reload)
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}

	var writer io.Writer = os.Stdout
	var err error

	// Open log file if requested
	if LogToFile {
		// Determine log file name from executable name
		exePath, exeErr := os.Executable()
		logName := "keeper.log" // Fallback
		if exeErr == nil {
			logName = filepath.Base(exePath) + ".log"
		}

		logFile, err = os.OpenFile(logName, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open %s: %v\n", logName, err)
		} else {
			writer = io.MultiWriter(os.Stdout, logFile)
		}
	}

	// Force colors to be enabled even if writing to a file/pipe avoids detection
	color.NoColor = false

	handler := NewBotLogHandler(writer, &BotLogHandlerOptions{
		Silent: IsSilent,
		Level:  level,
	})
	Logger = slog.New(handler)
	slog.SetDefault(Logger)
}

func SetSilentMode(silent bool) {
	InitLogger(silent, LogToFile)
}

// --- Log Functions ---

func LogInfo(format string, v ...interface{}) {
	slog.Info(fmt.Sprintf(format, v...))
}

func LogWarn(format string, v ...interface{}) {
	slog.Warn(fmt.Sprintf(format, v...))
}

func LogError(format string, v ...interface{}) {
	slog.Error(fmt.Sprintf(format, v...))
}

func LogFatal(format string, v ...interface{}) {
	msg := fmt.Sprintf(format, v...)
	slog.Log(context.Background(), slog.LevelError+4, msg) // Custom Fatal level
	os.Exit(1)
}

func LogDebug(format string, v ...interface{}) {
	slog.Debug(fmt.Sprintf(format, v...))
}

func LogDatabase(format string, v ...interface{}) {
	slog.Info(fmt.Sprintf(format, v...), slog.String("component", "database"))
}

func LogIntake(format string, v ...interface{}) {
	slog.Info(fmt.Sprintf(format, v...), slog.String("component", "intake"))
}

func LogForum(format string, v ...interface{}) {
	slog.Info(fmt.Sprintf(format, v...), slog.String("component", "forum"))
}

func LogCat(format string, v ...interface{}) {
	slog.Info(fmt.Sprintf(format, v...), slog.String("component", "cat"))
}

func LogHighlight(format string, v ...interface{}) {
	slog.Info(fmt.Sprintf(format, v...), slog.String("component", "highlight"))
}

func LogRoblox(format string, v ...interface{}) {
	slog.Info(fmt.Sprintf(format, v...), slog.String("component", "roblox"))
}

func LogVision(format string, v ...interface{}) {
	slog.Info(fmt.Sprintf(format, v...), slog.String("component", "vision"))
}

func LogCustom(tag string, tagColor *color.Color, format string, v ...interface{}) {
	slog.Info(fmt.Sprintf(format, v...), slog.String("component", tag))
}

// --- Custom Slog Handler ---

type BotLogHandlerOptions struct {
	Silent bool
	Level  slog.Leveler
}

type BotLogHandler struct {
	w    io.Writer
	opts *BotLogHandlerOptions
	mu   *sync.Mutex
}

func NewBotLogHandler(w io.Writer, opts *BotLogHandlerOptions) *BotLogHandler {
	if opts == nil {
		opts = &BotLogHandlerOptions{Level: slog.LevelInfo}
	}
	return &BotLogHandler{
		w:    w,
		opts: opts,
		mu:   &sync.Mutex{},
	}
}

func (h *BotLogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	if h.opts.Silent {
		return false
	}
	return level >= h.opts.Level.Level()
}

func (h *BotLogHandler) Handle(ctx context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.opts.Silent {
		return nil
	}

	timeStr := time.Now().Format("15:04:05")
	var levelStr string
	var levelColor *color.Color

	switch {
	case r.Level >= slog.LevelError+4: // Fatal
		levelStr = "FATAL"
		levelColor = fatalColor
	case r.Level >= slog.LevelError:
		levelStr = "ERROR"
		levelColor = errorColor
	case r.Level >= slog.LevelWarn:
		levelStr = "WARN"
		levelColor = warnColor
	case r.Level >= slog.LevelInfo:
		levelStr = "INFO"
		levelColor = infoColor
	}

	// Extract component if present
	component := ""
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == "component" {
			component = strings.ToUpper(a.Value.String())
			return false
		}
		return true
	})

	// Output: 15:04:05 [INFO] [COMPONENT] Message
	// Timestamp is always printed in default color.
	fmt.Fprintf(h.w, "%s", timeStr)

	if component != "" {
		// Component-specific logs: Level tag (if not INFO) is isolated, Message bleeds component color
		if levelStr != "INFO" {
			fmt.Fprintf(h.w, " %s", levelColor.Sprintf("[%s]", levelStr))
		}
		compColor := getComponentColor(component)
		fmt.Fprintf(h.w, " %s\n", compColor.Sprint(fmt.Sprintf("[%s] %s", component, r.Message)))
	} else {
		// General logs: Level tag color bleeds into the message
		fmt.Fprintf(h.w, " %s\n", levelColor.Sprint(fmt.Sprintf("[%s] %s", levelStr, r.Message)))
	}

	return nil
}

func (h *BotLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler { return h }
func (h *BotLogHandler) WithGroup(name string) slog.Handler       { return h }

func getComponentColor(name string) *color.Color {
	switch name {
	case "DATABASE":
		return databaseColor
	case "INTAKE":
		return intakeColor
	case "FORUM":
		return forumColor
	case "CAT":
		return catColor
	case "HIGHLIGHT":
		return highlightColor
	case "ROBLOX":
		return robloxColor
	case "VISION":
		return visionColor
	default:
		return color.New(color.FgCyan)
	}
}

// @src
const (
	// Configuration
	MsgConfigFailedToLoad  = "Failed to load config: %v"
	MsgConfigMissingToken  = "DISCORD_TOKEN is not set in .env file"
	MsgConfigMissingMongo  = "MONGO_URI is not set in .env file"
	MsgConfigBadProjects   = "failed to load project definitions: %w"
	MsgConfigProjectsEmpty = "no projects defined in %s"

	// Data layer
	MsgDatabaseConnecting = "Connecting to MongoDB..."
	MsgDatabaseConnected  = "Connected to MongoDB (database: %s)"
	MsgDatabaseDisconnect = "Disconnected from MongoDB"

	// Command Registry
	MsgLoaderSyncCommands       = "Syncing commands... (Mode: %s)"
	MsgLoaderUpToDate           = "Commands are up to date. (Hash: %s)"
	MsgLoaderPanicRecovered     = "Recovered from panic in handler: %v"
	MsgLoaderProdStarting       = "Registering global commands..."
	MsgLoaderProdFail           = "failed to register global commands: %w"
	MsgLoaderProdRegistered     = "Registered global command: /%s"
	MsgLoaderDevStarting        = "Registering guild commands to %s..."
	MsgLoaderDevFail            = "Guild command registration failed: %v"
	MsgLoaderDevRegistered      = "Registered guild command: /%s"
	MsgLoaderDevGlobalClear     = "Clearing stale global commands..."
	MsgLoaderDevGlobalClearFail = "Failed to clear global commands: %v"
	MsgLoaderCleanup            = "Clearing stale commands from previous guild %s"

	// Bot lifecycle
	MsgBotStarting      = "Starting %s..."
	MsgBotReady         = "%s is ready! (ID: %s) (PID: %d)"
	MsgBotKillingOld    = "Killing running instance... (PID: %d)"
	MsgBotOldTerminated = "Old instance terminated."
	MsgBotRegisterFail  = "Command registration failed: %v"
	MsgGenericError     = "%v"

	// Daemons
	MsgDaemonStarting = "Starting..."

	// Bug report intake
	MsgIntakeRespondError = "Failed to respond: %v"
	MsgIntakeCreated      = "bug #%d created by %s (project: %s)"
	MsgIntakeMediaSaved   = "bug #%d: saved %d/%d media attachments (%d bytes)"
	MsgIntakeMediaFail    = "bug #%d: failed to ingest %s: %v"
	MsgIntakePublishFail  = "bug #%d: publish failed: %v"
	MsgIntakePublished    = "bug #%d published to channel %s"
	MsgIntakeThreadFail   = "bug #%d: thread creation failed: %v"
	MsgIntakeActionDone   = "bug #%d %s by %s"
	MsgIntakeActionDenied = "bug #%d: %s denied for %s"
	MsgIntakeEditFields   = "bug #%d edited by %s (changed: %s)"
	MsgIntakeTombstoned   = "bug #%d tombstoned by %s (%d media removed)"
	MsgIntakeRerenderFail = "bug #%d: card re-render failed: %v"
	MsgIntakeCleanupFail  = "bug #%d: best-effort cleanup failed: %v"
	MsgIntakeStorageError = "storage error: %v"

	// User-facing bug replies
	MsgBugUnknownAction  = "❌ unrecognized action."
	MsgBugNotFound       = "❌ bug report not found."
	MsgBugNoPermission   = "❌ you don't have permission to do this."
	MsgBugClosedNoEdit   = "❌ cannot edit a closed bug."
	MsgBugClosed         = "✅ bug #%d closed."
	MsgBugReopened       = "✅ bug #%d reopened."
	MsgBugDeleted        = "✅ bug #%d deleted."
	MsgBugUpdated        = "✅ bug #%d updated!"
	MsgBugSubmitted      = "✅ bug report submitted! %s"
	MsgBugPartialSuccess = "⚠️ bug #%d was saved, but publishing it failed. a moderator can retry later."
	MsgBugMediaPartial   = "⚠️ bug #%d was saved, but some attachments could not be stored."

	// Config command
	MsgConfigRoleAdded   = "config: manager role %s added in guild %s"
	MsgConfigRoleRemoved = "config: manager role %s removed in guild %s"
	MsgConfigChannelSet  = "config: %s set to %s in guild %s"

	// Forum watcher
	MsgForumPolling     = "polling group %d forum (channel %s) every %s"
	MsgForumNewPost     = "new post %s by %s"
	MsgForumFlagged     = "post %s flagged (matched %q)"
	MsgForumPollError   = "poll failed: %v"
	MsgForumNotifyError = "failed to notify channel: %v"
	MsgForumStopped     = "stopped"

	// Cat channel watcher
	MsgCatPointAwarded = "awarded %d point(s) to %s in guild %s"
	MsgCatNotACat      = "message %s had no cat, ignoring"
	MsgCatVisionError  = "classification failed, counting image anyway: %v"

	// Roblox
	MsgRobloxLookupFail = "lookup failed for %s: %v"

	// Highlights
	MsgHighlightReposted = "reposted %s to highlights channel %s"
	MsgHighlightFail     = "repost failed: %v"
)
