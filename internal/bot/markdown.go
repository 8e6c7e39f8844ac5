package bot

import "regexp"

// markdownReservedRe matches every character Telegram's MarkdownV2 dialect
// reserves: _ * [ ] ( ) ~ ` > # + - = | { } . !
var markdownReservedRe = regexp.MustCompile("[_*\\[\\]()~`>#+\\-=|{}.!]")

// escapeMarkdownV2 backslash-prefixes each reserved character so
// backend-supplied text stays valid inside a MarkdownV2 reply.
func escapeMarkdownV2(text string) string {
	return markdownReservedRe.ReplaceAllString(text, `\$0`)
}
