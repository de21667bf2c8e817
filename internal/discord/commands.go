package discord

import "github.com/bwmarrin/discordgo"

var listLimitMin = float64(1)

func scopeChoices() []*discordgo.ApplicationCommandOptionChoice {
	return []*discordgo.ApplicationCommandOptionChoice{
		{Name: "自分のみ (User)", Value: "user"},
		{Name: "このチャンネル (Channel)", Value: "channel"},
		{Name: "サーバー全体 (Server)", Value: "server"},
	}
}

// Commands returns the slash command tree registered on startup.
func Commands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        "remind",
			Description: "リマインダーを管理するよ。",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Name:        "add",
					Description: "新しいリマインダーを登録するよ (キーは自動生成: 8文字)。",
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Options: []*discordgo.ApplicationCommandOption{
						{
							Name:        "time",
							Description: "通知時刻 (例: 「2026-01-15 12:00」「10分後」)",
							Type:        discordgo.ApplicationCommandOptionString,
							Required:    true,
						},
						{
							Name:        "content",
							Description: "リマインド内容 (1-2000文字)",
							Type:        discordgo.ApplicationCommandOptionString,
							Required:    true,
						},
						{
							Name:        "scope",
							Description: "公開範囲 (デフォルト: user)",
							Type:        discordgo.ApplicationCommandOptionString,
							Choices:     scopeChoices(),
						},
						{
							Name:         "channel",
							Description:  "通知先チャンネル (scope=server の場合は必須)",
							Type:         discordgo.ApplicationCommandOptionChannel,
							ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText},
						},
						{
							Name:        "visibility",
							Description: "応答の可視性 (デフォルト: ephemeral)",
							Type:        discordgo.ApplicationCommandOptionString,
							Choices: []*discordgo.ApplicationCommandOptionChoice{
								{Name: "自分のみに表示 (Ephemeral)", Value: "ephemeral"},
								{Name: "全員に表示 (Public)", Value: "public"},
							},
						},
						{
							Name:        "recurring",
							Description: "繰り返しの設定 (デフォルト: off)",
							Type:        discordgo.ApplicationCommandOptionString,
							Choices: []*discordgo.ApplicationCommandOptionChoice{
								{Name: "しない (Off)", Value: "off"},
								{Name: "毎日 (Daily)", Value: "daily"},
								{Name: "毎週 (Weekly)", Value: "weekly"},
								{Name: "毎月 (Monthly)", Value: "monthly"},
							},
						},
						{
							Name:        "timezone",
							Description: "時刻の解釈に使うタイムゾーン (例: Asia/Tokyo)",
							Type:        discordgo.ApplicationCommandOptionString,
						},
					},
				},
				{
					Name:        "list",
					Description: "リマインダーの一覧を見るよ。",
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Options: []*discordgo.ApplicationCommandOption{
						{
							Name:        "scope",
							Description: "一覧表示する公開範囲",
							Type:        discordgo.ApplicationCommandOptionString,
							Required:    true,
							Choices:     scopeChoices(),
						},
						{
							Name:        "query",
							Description: "キーまたは内容で検索します",
							Type:        discordgo.ApplicationCommandOptionString,
						},
						{
							Name:        "limit",
							Description: "表示件数 (デフォルト: 50)",
							Type:        discordgo.ApplicationCommandOptionInteger,
							MinValue:    &listLimitMin,
						},
					},
				},
				{
					Name:        "delete",
					Description: "リマインダーを削除するよ。",
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Options: []*discordgo.ApplicationCommandOption{
						{
							Name:        "key",
							Description: "削除するリマインダーのキー",
							Type:        discordgo.ApplicationCommandOptionString,
							Required:    true,
						},
						{
							Name:        "scope",
							Description: "公開範囲",
							Type:        discordgo.ApplicationCommandOptionString,
							Required:    true,
							Choices:     scopeChoices(),
						},
						{
							Name:        "confirm",
							Description: "確認なしで削除を実行しますか？ (デフォルト: false)",
							Type:        discordgo.ApplicationCommandOptionBoolean,
						},
					},
				},
			},
		},
	}
}

// RegisterCommands registers the command tree globally.
func RegisterCommands(session *discordgo.Session) error {
	for _, cmd := range Commands() {
		if _, err := session.ApplicationCommandCreate(session.State.User.ID, "", cmd); err != nil {
			return err
		}
	}
	return nil
}
