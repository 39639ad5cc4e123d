package cataas

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ParseHTMLCard extracts the embedded image reference from an html=true
// response. base resolves relative src attributes.
func ParseHTMLCard(base, markup string) (*HTMLCard, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	card := &HTMLCard{Markup: markup}
	src, ok := doc.Find("img").First().Attr("src")
	if !ok || strings.TrimSpace(src) == "" {
		return card, nil
	}

	resolved, err := resolveRef(base, strings.TrimSpace(src))
	if err != nil {
		return card, nil
	}
	card.ImageURL = resolved.String()
	card.CataasID = idFromPath(resolved.Path)
	return card, nil
}

func resolveRef(base, ref string) (*url.URL, error) {
	refURL, err := url.Parse(ref)
	if err != nil {
		return nil, err
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return refURL, nil
	}
	return baseURL.ResolveReference(refURL), nil
}

// idFromPath returns the image id from a /cat/<id>[/...] path. Comma-joined
// tag lists are not ids.
func idFromPath(path string) string {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	if len(segments) < 2 || segments[0] != pathCat {
		return ""
	}
	candidate := segments[1]
	if candidate == "" || candidate == pathGIF || candidate == pathSays || strings.Contains(candidate, ",") {
		return ""
	}
	return candidate
}
