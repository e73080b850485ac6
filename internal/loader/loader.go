package loader

import (
	"context"
	"io"
	"strings"

	"cruisescanner/helpers"
	"cruisescanner/pkg/errors"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// cardAncestorHops is how many parents to climb from a "Duration" label to
// reach the listing card wrapper. Matches the depth the target page nests
// its label spans at.
const cardAncestorHops = 4

// durationLabel anchors card discovery: every listing card on the target
// page carries exactly one visible "Duration" label.
const durationLabel = "Duration"

// Loader produces one raw text blob per listing card for a run
type Loader interface {
	// Cards returns the card texts for this run
	Cards(ctx context.Context) ([]string, error)

	// Name returns the loader's name for logging
	Name() string
}

// CardsFromHTML splits a rendered page into per-card text blobs. Cards are
// located by their "Duration" label, then widened to the enclosing wrapper
// element. Identical blobs (one card carrying several labels) collapse to one.
func CardsFromHTML(r io.Reader) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, errors.NewParsing("loader", "failed to parse page HTML", err)
	}

	doc.Find("script, style").Remove()

	seen := make(map[string]struct{})
	var cards []string

	doc.Find("*").Each(func(_ int, s *goquery.Selection) {
		if !strings.Contains(ownText(s), durationLabel) {
			return
		}

		card := s
		for i := 0; i < cardAncestorHops; i++ {
			parent := card.Parent()
			if parent.Length() == 0 {
				break
			}
			name := goquery.NodeName(parent)
			if name == "body" || name == "html" || name == "#document" {
				break
			}
			card = parent
		}

		text := textWithSpaces(card)
		if text == "" {
			return
		}
		if _, dup := seen[text]; dup {
			return
		}
		seen[text] = struct{}{}
		cards = append(cards, text)
	})

	return cards, nil
}

// ownText returns only the direct text children of a selection, so a label
// is attributed to the element holding it rather than every ancestor.
func ownText(s *goquery.Selection) string {
	var b strings.Builder
	for _, n := range s.Nodes {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				b.WriteString(c.Data)
			}
		}
	}
	return b.String()
}

// textWithSpaces extracts all text under a selection with single spaces
// between fragments, the shape the field extractor's patterns expect.
func textWithSpaces(s *goquery.Selection) string {
	var parts []string

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if t := helpers.CollapseWhitespace(n.Data); t != "" {
				parts = append(parts, t)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range s.Nodes {
		walk(n)
	}

	return strings.Join(parts, " ")
}
