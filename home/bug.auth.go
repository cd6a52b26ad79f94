package home

import (
	"slices"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/snowflake/v2"
	"github.com/sillowww/keeper/store"
)

// canManageReport decides whether an actor may mutate a report. The
// author always can. Everyone else needs Manage Guild, guild ownership,
// or one of the community's configured manager roles. Evaluated fresh on
// every action since roles change between clicks.
func canManageReport(actorID string, reportUserID string, perms discord.Permissions, ownerID string, roleIDs []string, managerRoles []string) bool {
	if actorID == reportUserID {
		return true
	}
	if perms.Has(discord.PermissionManageGuild) {
		return true
	}
	if ownerID != "" && actorID == ownerID {
		return true
	}
	for _, role := range roleIDs {
		if slices.Contains(managerRoles, role) {
			return true
		}
	}
	return false
}

// hasManagerPermissions checks the non-author arm of canManageReport:
// Manage Guild, guild ownership, or a configured manager role.
func hasManagerPermissions(client *bot.Client, guildID *snowflake.ID, member *discord.ResolvedMember, guildCfg *store.Guild) bool {
	if member == nil || guildID == nil {
		return false
	}

	ownerID := ""
	if guild, ok := client.Caches.Guild(*guildID); ok {
		ownerID = guild.OwnerID.String()
	}

	roleIDs := make([]string, 0, len(member.RoleIDs))
	for _, id := range member.RoleIDs {
		roleIDs = append(roleIDs, id.String())
	}

	var managerRoles []string
	if guildCfg != nil {
		managerRoles = guildCfg.ManagerRoles
	}

	// An empty author id can never match a real actor, so this reduces
	// to the permission checks alone.
	return canManageReport(member.User.ID.String(), "", member.Permissions, ownerID, roleIDs, managerRoles)
}

// memberCanManage gathers the live role and permission context from an
// interaction's member and applies canManageReport.
func memberCanManage(client *bot.Client, guildID *snowflake.ID, member *discord.ResolvedMember, report *store.Report, guildCfg *store.Guild) bool {
	if member == nil || guildID == nil {
		return false
	}
	if member.User.ID.String() == report.UserID {
		return true
	}
	return hasManagerPermissions(client, guildID, member, guildCfg)
}

func actorCanManage(event *events.ComponentInteractionCreate, report *store.Report, guildCfg *store.Guild) bool {
	return memberCanManage(event.Client(), event.GuildID(), event.Member(), report, guildCfg)
}

func modalActorCanManage(event *events.ModalSubmitInteractionCreate, report *store.Report, guildCfg *store.Guild) bool {
	return memberCanManage(event.Client(), event.GuildID(), event.Member(), report, guildCfg)
}
