// Package notifier posts round digests to notification channels.
//
// Digests can be printed (dry run), tweeted, or sent to a Telegram chat. Every
// channel implements Notifier, so the CLI picks one by name.
package notifier
