// Package telegram provides Telegram Bot API integration for sending round digests.
//
// Messages are sent with plain HTTP requests to the sendMessage method using HTML
// parse mode. Authentication requires a bot token (from @BotFather) and chat ID.
package telegram
