package playback

import (
	"fmt"
	"strings"

	"link-verifier/core/reconcile"

	"github.com/PuerkitoBio/goquery"
)

// indicatorSelectors match the containers the player renders when a video
// cannot be played. YouTube keeps some of them in the DOM with the hidden
// attribute while the video plays normally.
var indicatorSelectors = []string{
	"yt-playability-error-supported-renderers",
	".ytp-error",
}

// reasonSelectors locate the human-readable reason inside an indicator.
var reasonSelectors = []string{
	"#reason",
	".ytp-error-content-wrap-reason",
}

// ExtractStatus inspects a rendered watch page and returns reconcile.PlaybackOK
// when no visible error indicator is present, otherwise the reason text.
func ExtractStatus(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse rendered page: %w", err)
	}

	for _, sel := range indicatorSelectors {
		var status string
		doc.Find(sel).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			if isHidden(s) {
				return true
			}
			status = reason(s)
			return status == ""
		})
		if status != "" {
			return status, nil
		}
	}
	return reconcile.PlaybackOK, nil
}

func reason(s *goquery.Selection) string {
	for _, sel := range reasonSelectors {
		if text := collapse(s.Find(sel).First().Text()); text != "" {
			return text
		}
	}
	return collapse(s.Text())
}

func isHidden(s *goquery.Selection) bool {
	if _, ok := s.Attr("hidden"); ok {
		return true
	}
	style, _ := s.Attr("style")
	return strings.Contains(strings.ReplaceAll(style, " ", ""), "display:none")
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
