package sys

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/joho/godotenv"
)

type Config struct {
	Token   string
	GuildID string

	MongoURI      string
	MongoDatabase string

	ProjectsPath string
	Projects     *ProjectMap

	DeveloperID snowflake.ID

	// Roblox platform credentials. Lookup commands are disabled when unset.
	RobloxAPIKey string
	RobloxCookie string

	// Bloxlink account-linking service.
	BloxlinkToken string

	// Google Cloud Vision. Cat detection degrades to "any image counts"
	// when unset.
	VisionAPIKey string

	// Cat channel watcher.
	CatChannelID snowflake.ID

	// Forum watcher.
	ForumEnabled       bool
	ForumGroupID       int64
	ForumGroupName     string
	ForumChannelID     string
	ForumNotifyChannel snowflake.ID
	ForumPollInterval  time.Duration

	Silent bool
}

// LoadConfig initializes the configuration from environment variables.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	token := os.Getenv("DISCORD_TOKEN")

	mongoURI := os.Getenv("MONGO_URI")
	mongoDB := os.Getenv("MONGO_DATABASE")
	if mongoDB == "" {
		mongoDB = "keeper"
	}

	projectsPath := os.Getenv("PROJECTS_PATH")
	if projectsPath == "" {
		projectsPath = "projects.json"
	}

	silent, _ := strconv.ParseBool(os.Getenv("SILENT"))

	pollInterval := 2 * time.Minute
	if raw := os.Getenv("FORUM_POLL_INTERVAL"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil {
			pollInterval = d
		}
	}

	cfg := &Config{
		Token:              token,
		GuildID:            os.Getenv("GUILD_ID"),
		MongoURI:           mongoURI,
		MongoDatabase:      mongoDB,
		ProjectsPath:       projectsPath,
		DeveloperID:        parseSnowflake(os.Getenv("DEVELOPER_ID")),
		RobloxAPIKey:       os.Getenv("ROBLOX_API_KEY"),
		RobloxCookie:       os.Getenv("ROBLOX_COOKIE"),
		BloxlinkToken:      os.Getenv("BLOXLINK_TOKEN"),
		VisionAPIKey:       os.Getenv("VISION_API_KEY"),
		CatChannelID:       parseSnowflake(os.Getenv("CAT_CHANNEL_ID")),
		ForumGroupID:       parseInt64(os.Getenv("FORUM_GROUP_ID")),
		ForumGroupName:     os.Getenv("FORUM_GROUP_NAME"),
		ForumChannelID:     os.Getenv("FORUM_CHANNEL_ID"),
		ForumNotifyChannel: parseSnowflake(os.Getenv("FORUM_NOTIFY_CHANNEL_ID")),
		ForumPollInterval:  pollInterval,
		Silent:             silent,
	}
	cfg.ForumEnabled = cfg.ForumGroupID != 0 && cfg.ForumChannelID != "" && cfg.ForumNotifyChannel != 0

	projects, err := LoadProjects(projectsPath)
	if err != nil {
		return nil, fmt.Errorf(MsgConfigBadProjects, err)
	}
	cfg.Projects = projects

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.Silent {
		SetSilentMode(true)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Token == "" {
		return fmt.Errorf(MsgConfigMissingToken)
	}
	if c.MongoURI == "" {
		return fmt.Errorf(MsgConfigMissingMongo)
	}
	if c.GuildID != "" && (len(c.GuildID) < 17 || len(c.GuildID) > 20) {
		return fmt.Errorf("invalid GUILD_ID: must be a valid Snowflake")
	}
	return nil
}

// RobloxConfigured reports whether the Roblox lookup commands can be enabled.
func (c *Config) RobloxConfigured() bool {
	return c.RobloxAPIKey != ""
}

// BloxlinkConfigured reports whether Discord-to-Roblox resolution is available.
func (c *Config) BloxlinkConfigured() bool {
	return c.BloxlinkToken != ""
}

func parseSnowflake(s string) snowflake.ID {
	if s == "" {
		return 0
	}
	id, err := snowflake.Parse(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return id
}

func parseInt64(s string) int64 {
	if s == "" {
		return 0
	}
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0
	}
	return n
}
