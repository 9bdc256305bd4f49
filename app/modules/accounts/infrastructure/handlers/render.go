package accountshandlers

import (
	"fmt"
	"strconv"
	"strings"

	accountsservice "github.com/Black-And-White-Club/accounts-bot/app/modules/accounts/application"
	accountsdomain "github.com/Black-And-White-Club/accounts-bot/app/modules/accounts/domain"
	accountsevents "github.com/Black-And-White-Club/accounts-bot/app/modules/accounts/domain/events"
	"github.com/Black-And-White-Club/accounts-bot/internal/embed"
	"github.com/Black-And-White-Club/accounts-bot/internal/localization"
)

const (
	donatorIconURL = "https://cdn.discordapp.com/emojis/421969679561785354.png"
	donateURL      = "https://patreon.com/mikibot"
	mekosEmoji     = "<:mekos:421972155484471296>"
)

func renderProfile(l *localization.Locale, v *accountsservice.ProfileView) rendered {
	icon := ""
	if v.Donator {
		icon = donatorIconURL
	}

	e := embed.New().
		SetDescription(v.Title).
		SetAuthor(l.GetString("miki_global_profile_user_header", v.User.Username), icon, donateURL).
		SetThumbnail(v.User.AvatarURL).
		SetColor(v.Color)

	var local strings.Builder
	local.WriteString(experienceBlock(l, v.Local, v.ShowBar))
	local.WriteString(l.GetString("miki_module_accounts_information_reputation", v.Reputation))
	e.AddInlineField(l.GetString("miki_generic_information"), local.String())

	e.AddInlineField(l.GetString("miki_generic_global_information"), strings.TrimSuffix(experienceBlock(l, v.Global, v.ShowBar), "\n"))
	e.AddInlineField(l.GetString("miki_generic_mekos"), l.FormatNumber(v.Currency)+" "+mekosEmoji)

	achievements := l.GetString("miki_placeholder_null")
	if len(v.Achievements) > 0 {
		icons := make([]string, 0, len(v.Achievements))
		for _, a := range v.Achievements {
			icons = append(icons, a.Icon)
		}
		achievements = strings.Join(icons, " ")
	}
	e.AddInlineField(l.GetString("miki_generic_achievements"), achievements)

	return rendered{embed: e.Build()}
}

// experienceBlock renders the level line, the optional bar and the rank line.
func experienceBlock(l *localization.Locale, v accountsservice.ExperienceView, showBar bool) string {
	var b strings.Builder
	b.WriteString(l.GetString("miki_module_accounts_information_level", v.Progress.Level, v.Progress.Experience, v.Progress.Next))
	if showBar {
		b.WriteString(accountsdomain.DefaultProgressBar.Render(v.Progress.Current, v.Progress.Span))
		b.WriteString("\n")
	}
	rank := l.GetString("rank_unknown")
	if v.Ranked {
		rank = l.FormatNumber(int64(v.Rank))
	}
	b.WriteString(l.GetString("miki_module_accounts_information_rank", rank))
	return b.String()
}

func renderReputation(l *localization.Locale, v *accountsservice.ReputationView) rendered {
	if v.Info != nil {
		e := embed.New().
			SetTitle(l.GetString("miki_module_accounts_rep_header")).
			SetDescription(l.GetString("miki_module_accounts_rep_description")).
			AddInlineField(l.GetString("miki_module_accounts_rep_total_received"), l.FormatNumber(v.Info.TotalReceived)).
			AddInlineField(l.GetString("miki_module_accounts_rep_reset"), l.FormatDuration(v.Info.ResetIn)).
			AddInlineField(l.GetString("miki_module_accounts_rep_remaining"), strconv.Itoa(v.Info.PointsLeft))
		return rendered{embed: e.Build()}
	}

	e := embed.New().
		SetTitle(l.GetString("miki_module_accounts_rep_header"))
	if len(v.Given) > 0 {
		e.SetDescription(l.GetString("rep_success"))
	}
	for _, g := range v.Given {
		e.AddInlineField(g.User.Username, fmt.Sprintf("%s => %s (+%d)", l.FormatNumber(g.Old), l.FormatNumber(g.New), g.Amount))
	}
	e.AddInlineField(l.GetString("miki_module_accounts_rep_points_left"), strconv.Itoa(v.PointsLeft))
	if v.MentionedSelf {
		e.SetFooter(l.GetString("warning_mention_self"))
	}
	return rendered{embed: e.Build()}
}

func renderLeaderboard(l *localization.Locale, v *accountsservice.LeaderboardView) rendered {
	e := embed.New().
		SetAuthor(l.GetString("leaderboard_header", v.Query.Type.Title()), "", v.URL).
		SetColor(embed.RGB(255, 140, 0)).
		SetFooter(l.GetString("page_index", v.Page.CurrentPage+1, accountsdomain.DisplayPageCount(v.Page.TotalPages)))

	if len(v.Page.Items) == 0 {
		e.SetDescription(l.GetString("miki_placeholder_null"))
	} else {
		lines := make([]string, 0, len(v.Page.Items))
		for i, item := range v.Page.Items {
			lines = append(lines, l.GetString("leaderboard_entry", accountsdomain.EntryRank(v.Page.CurrentPage, i), item.Name, item.Value))
		}
		e.SetDescription(strings.Join(lines, "\n"))
	}

	out := rendered{embed: e.Build()}
	if len(v.Chart) > 0 {
		const name = "leaderboard.png"
		e.SetImage("attachment://" + name)
		out.attachment = &accountsevents.Attachment{Name: name, Data: v.Chart}
	}
	return out
}

func renderMekos(l *localization.Locale, v *accountsservice.MekosView) rendered {
	e := embed.New().
		SetTitle(l.GetString("mekos_header")).
		SetDescription(l.GetString("miki_user_mekos", v.User.Username, v.Balance)).
		SetColor(embed.RGBf(1, 0.5, 0.7))
	return rendered{embed: e.Build()}
}

func renderGive(l *localization.Locale, v *accountsservice.GiveView) rendered {
	e := embed.New().
		SetTitle(l.GetString("give_header")).
		SetDescription(l.GetString("give_description", v.Sender.Username, v.Receiver.Username, v.Amount)).
		SetColor(embed.RGB(255, 140, 0))
	return rendered{embed: e.Build()}
}

func renderDaily(l *localization.Locale, v *accountsservice.DailyView) rendered {
	e := embed.New().
		SetTitle(l.GetString("daily_header")).
		SetDescription(l.GetString("daily_received", "**"+l.FormatNumber(v.Amount)+"**", "`"+l.FormatNumber(v.Balance)+"`")).
		SetColor(embed.RGB(253, 216, 136))
	if v.Streak > 0 {
		e.AddInlineField(l.GetString("daily_streak_header"), l.GetString("daily_streak", v.Streak))
	}
	return rendered{embed: e.Build()}
}

func renderBackgroundPurchase(l *localization.Locale, v *accountsservice.BackgroundPurchaseView) rendered {
	if v.MissingID {
		return rendered{embed: embed.Error(l.GetString("background_missing_id")).Build()}
	}
	if v.Purchased {
		return rendered{embed: embed.Success(l.GetString("background_purchased")).Build()}
	}

	e := embed.New().
		SetTitle(l.GetString("background_buy_header")).
		SetImage(v.Background.ImageURL)
	if v.Background.Price > 0 {
		e.SetDescription(l.GetString("background_preview_price", v.Background.Price, v.Background.ID))
	} else {
		e.SetDescription(l.GetString("background_preview_not_for_sale"))
	}
	return rendered{embed: e.Build()}
}

func renderBackgroundSet(l *localization.Locale, _ *accountsservice.BackgroundPurchaseView) rendered {
	return rendered{embed: embed.Success(l.GetString("background_set")).Build()}
}

func renderBackgroundsOwned(l *localization.Locale, v *accountsservice.BackgroundsOwnedView) rendered {
	ids := make([]string, 0, len(v.IDs))
	for _, id := range v.IDs {
		ids = append(ids, "`"+strconv.Itoa(id)+"`")
	}
	description := strings.Join(ids, ",")
	if description == "" {
		description = l.GetString("miki_placeholder_null")
	}
	e := embed.New().
		SetTitle(l.GetString("background_owned_header", v.User.Username)).
		SetDescription(description)
	return rendered{embed: e.Build()}
}

func renderColor(l *localization.Locale, v *accountsservice.ColorView) rendered {
	if v.Help {
		return rendered{embed: embed.New().
			SetTitle(l.GetString("color_help_header_" + v.Layer)).
			SetDescription(l.GetString("color_help_" + v.Layer)).
			Build()}
	}
	return rendered{embed: embed.Success(l.GetString("color_changed", v.Layer, v.Hex)).Build()}
}

func renderAchievements(l *localization.Locale, v *accountsservice.AchievementsView) rendered {
	e := embed.New().
		SetAuthor(l.GetString("achievements_header", v.User.Username), v.User.AvatarURL, "").
		SetColor(embed.RGB(255, 255, 255))

	lines := make([]string, 0, len(v.Items))
	for _, a := range v.Items {
		lines = append(lines, fmt.Sprintf("%s | `%-15s%3d pts` | 📅 %s", a.Icon, a.ResourceName, a.Points, a.UnlockedAt.Format("2006-01-02")))
	}
	body := strings.Join(lines, "\n")
	if body == "" {
		body = l.GetString("miki_placeholder_null")
	}
	e.AddInlineField(l.GetString("achievement_total_points", v.TotalPoints), body)
	return rendered{embed: e.Build()}
}

func renderSyncName(l *localization.Locale, _ *accountsservice.SyncNameView) rendered {
	e := embed.New().
		SetTitle(l.GetString("sync_header")).
		SetDescription(l.GetString("sync_success", "name"))
	return rendered{embed: e.Build()}
}

func renderExpCard(v *accountsservice.ExpCardView) rendered {
	const name = "exp.png"
	e := embed.New().SetImage("attachment://" + name)
	return rendered{embed: e.Build(), attachment: &accountsevents.Attachment{Name: name, Data: v.Image}}
}
