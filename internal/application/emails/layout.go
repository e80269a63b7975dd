package emails

import (
	"fmt"
	"strings"
	"time"
)

const (
	themePrimary   = "#1D4ED8"
	themeTextMuted = "#6B7280"
	themeBgBody    = "#F3F4F6"
)

// renderLayout wraps a notification in the shared HTML email shell.
func renderLayout(title, text, link string) string {
	year := time.Now().Year()
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>%s</title>
  <style>
    body { margin: 0; padding: 0; background-color: %s; font-family: -apple-system, 'Segoe UI', Roboto, Helvetica, Arial, sans-serif; }
    .card { width: 600px; max-width: 100%%; margin: 40px auto; background: #ffffff; border-radius: 8px; padding: 32px 40px; }
    .card h2 { color: #111827; font-size: 22px; margin: 0 0 16px 0; }
    .card p { color: #374151; font-size: 16px; line-height: 1.6; margin: 0 0 24px 0; }
    .button { display: inline-block; background-color: %s; color: #ffffff !important; padding: 12px 28px; text-decoration: none; border-radius: 6px; font-weight: 600; }
    .footer { color: %s; font-size: 13px; text-align: center; margin: 24px 0; }
  </style>
</head>
<body>
  <div class="card">
    <h2>%s</h2>
    <p>%s</p>
    <a class="button" href="%s">View Auction</a>
  </div>
  <p class="footer">© %d Car Auction Marketplace</p>
</body>
</html>`,
		EscapeHTML(title), themeBgBody, themePrimary, themeTextMuted,
		EscapeHTML(title), EscapeHTML(text), link, year)
}

// EscapeHTML escapes HTML specials for safe interpolation.
func EscapeHTML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, "\"", "&quot;")
	return s
}
