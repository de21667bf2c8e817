// Package format holds the user-facing message templates. The bot speaks
// casual Japanese in its fairy persona.
package format

import (
	"fmt"
	"time"
)

const (
	ErrReminderNotConfigured = "リマインダー機能は今は使えないみたいだよ。"
	ErrGeneric               = "エラーが起きたよ。ログを見てね。"
	ErrKeyGenerationFailed   = "キーがうまく作れなかったよ。もう一回試してね。"
	ErrInvalidTimezone       = "❌ タイムゾーンの指定が正しくないよ。例: Asia/Tokyo / JST / +09:00"
	ErrInvalidTime           = "❌ 時刻の指定が正しくないよ。「10分後」や「2026-01-11 15:00」みたいに書いてね。"

	AdminRequiredForCreate        = "サーバー全体のリマインダーは管理者だけだよ。"
	AdminRequiredForDelete        = "サーバー全体のリマインダー削除は管理者だけだよ。"
	ChannelRequiredForServerScope = "サーバー全体なら通知チャンネルを選んでね。"
	NotFound                      = "該当するリマインダーが見つからないよ。"
	ListEmpty                     = "登録されているリマインダーはないよ。"
	AlreadyDeleted                = "このリマインダーはもう消えてるみたいだよ。"
	DeleteConfirmLabel            = "削除する"
)

// ContentPreviewLength limits how much of a reminder body shows in lists.
const ContentPreviewLength = 30

func Notification(content string) string {
	return fmt.Sprintf("やっほ、リマインダーだよ！\n\n**内容:**\n %s", content)
}

func Created(key, displayDate string) string {
	return fmt.Sprintf("✅ リマインダーを登録したよ！\n**キー:** %s\n**次回通知:** %s", key, displayDate)
}

func ListItem(key, contentPreview, displayDate string) string {
	return fmt.Sprintf("- `%s`: %s... (通知: %s)", key, contentPreview, displayDate)
}

func ListHeader(scope string, total, displayed int, listContent string) string {
	return fmt.Sprintf("**リマインダー一覧 (%s) - %d件中%d件表示だよ**\n%s", scope, total, displayed, listContent)
}

func DeleteConfirm(key string) string {
	return fmt.Sprintf("本当にリマインダー「%s」を削除する？一度消したら戻せないよ。", key)
}

func DeleteSuccess(key string) string {
	return fmt.Sprintf("✅ リマインダー「%s」を削除したよ。", key)
}

// DiscordTimestamp renders an instant as a Discord timestamp token.
// Style "F" is a full date-time, "R" a relative one.
func DiscordTimestamp(t time.Time, style string) string {
	return fmt.Sprintf("<t:%d:%s>", t.Unix(), style)
}
