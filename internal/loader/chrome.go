package loader

import (
	"context"
	"strings"
	"time"

	"cruisescanner/logger"
	"cruisescanner/pkg/errors"

	"github.com/chromedp/chromedp"
)

// removeOverlaysJS strips cookie and consent overlays that sit on top of
// the listing grid and swallow scroll events.
const removeOverlaysJS = `
	(function() {
		var blockers = document.querySelectorAll("[id*='cookie'], [class*='cookie'], [id*='consent'], [class*='consent']");
		blockers.forEach(function(el) { el.remove(); });
		var backdrop = document.querySelector(".fpw_backdrop");
		if (backdrop) backdrop.remove();
		return blockers.length;
	})()`

// clickShowMoreJS clicks the first visible "Show more"/"Load more" button
// and reports whether one was clicked.
const clickShowMoreJS = `
	(function() {
		var buttons = document.querySelectorAll('button');
		for (var i = 0; i < buttons.length; i++) {
			var text = buttons[i].textContent || '';
			if ((text.indexOf('Show more') !== -1 || text.indexOf('Load more') !== -1) &&
					buttons[i].offsetParent !== null) {
				buttons[i].click();
				return true;
			}
		}
		return false;
	})()`

// ChromeLoader renders the target page in headless Chrome, scrolling and
// expanding the infinite listing grid before splitting it into cards.
type ChromeLoader struct {
	url          string
	scrollRounds int
	pageWait     time.Duration
}

// NewChromeLoader creates a chromedp-backed page loader
func NewChromeLoader(url string, scrollRounds int, pageWait time.Duration) *ChromeLoader {
	return &ChromeLoader{
		url:          url,
		scrollRounds: scrollRounds,
		pageWait:     pageWait,
	}
}

// Name returns the loader name
func (l *ChromeLoader) Name() string {
	return "chrome"
}

// Cards renders the page and returns one text blob per listing card.
func (l *ChromeLoader) Cards(ctx context.Context) ([]string, error) {
	log := logger.ForLoader(l.Name())

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", "new"),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("window-size", "1920,1080"),
		chromedp.Flag("lang", "en-GB"),
		chromedp.UserAgent("Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 "+
			"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	// Suppress chromedp log noise
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancelBrowser()

	log.Info().Str("url", l.url).Msg("Navigating to listing page")

	var removed int
	if err := chromedp.Run(browserCtx,
		chromedp.Navigate(l.url),
		chromedp.Sleep(l.pageWait),
		chromedp.Evaluate(removeOverlaysJS, &removed),
	); err != nil {
		return nil, errors.NewNetwork(l.Name(), "failed to load page", err)
	}
	if removed > 0 {
		log.Debug().Int("overlays", removed).Msg("Removed consent overlays")
	}

	if err := l.scrollToEnd(browserCtx, log); err != nil {
		return nil, err
	}

	var pageHTML string
	if err := chromedp.Run(browserCtx, chromedp.OuterHTML("html", &pageHTML)); err != nil {
		return nil, errors.NewNetwork(l.Name(), "failed to capture page HTML", err)
	}

	cards, err := CardsFromHTML(strings.NewReader(pageHTML))
	if err != nil {
		return nil, err
	}

	log.Info().Int("cards", len(cards)).Msg("Collected listing cards")
	return cards, nil
}

// scrollToEnd scrolls the grid and clicks load-more buttons until the page
// height stops growing for three consecutive rounds.
func (l *ChromeLoader) scrollToEnd(ctx context.Context, log *logger.Logger) error {
	var lastHeight float64
	if err := chromedp.Run(ctx, chromedp.Evaluate(`document.body.scrollHeight`, &lastHeight)); err != nil {
		return errors.NewNetwork(l.Name(), "failed to read page height", err)
	}

	noChange := 0
	for round := 0; round < l.scrollRounds; round++ {
		var clicked bool
		if err := chromedp.Run(ctx,
			chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight)`, nil),
			chromedp.Sleep(2*time.Second),
			chromedp.Evaluate(clickShowMoreJS, &clicked),
		); err != nil {
			return errors.NewNetwork(l.Name(), "scroll round failed", err)
		}
		if clicked {
			log.Debug().Int("round", round+1).Msg("Clicked load-more button")
			if err := chromedp.Run(ctx, chromedp.Sleep(3*time.Second)); err != nil {
				return errors.NewNetwork(l.Name(), "scroll round failed", err)
			}
		}

		var height float64
		if err := chromedp.Run(ctx, chromedp.Evaluate(`document.body.scrollHeight`, &height)); err != nil {
			return errors.NewNetwork(l.Name(), "failed to read page height", err)
		}

		if height == lastHeight && !clicked {
			noChange++
			if noChange >= 3 {
				break
			}
		} else {
			noChange = 0
			lastHeight = height
		}
	}

	return nil
}
