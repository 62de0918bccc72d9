// Package appfs embeds the application's static assets: database migrations
// and email templates.
package appfs

import "embed"

//go:embed migrations all:templates
var FS embed.FS
