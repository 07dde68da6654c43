package common

import (
	"github.com/ternarybob/banner"
)

// PrintBanner displays the startup banner on stdout.
func PrintBanner(version, portalURL, feedURL string) {
	b := banner.New().SetStyle(banner.StyleDouble).SetWidth(64)
	b.PrintTopLine()
	b.PrintCenteredText("Filing Ideas")
	b.PrintSeparatorLine()
	b.PrintKeyValue("Version", version, 8)
	b.PrintKeyValue("Portal", portalURL, 8)
	b.PrintKeyValue("Feed", feedURL, 8)
	b.PrintBottomLine()
}
