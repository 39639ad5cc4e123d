package cataas

import (
	"net/url"
	"strings"
)

// DefaultDomain is the public cataas endpoint.
const DefaultDomain = "https://cataas.com"

const (
	pathCat  = "cat"
	pathGIF  = "gif"
	pathSays = "says"
	pathAPI  = "api"
	pathTags = "tags"
)

// URL builds a request URL against DefaultDomain.
func URL(path PathParams, query QueryParams) string {
	return BuildURL(DefaultDomain, path, query)
}

// BuildURL maps path and query parameters onto a cat URL under domain.
// It performs no validation; combinations the API rejects still produce a URL.
func BuildURL(domain string, path PathParams, query QueryParams) string {
	var b strings.Builder
	b.WriteString(strings.TrimRight(domain, "/"))
	b.WriteString("/" + pathCat)

	if path.ID != "" {
		b.WriteString("/" + path.ID)
	} else if tags := joinTags(path.Tags); tags != "" {
		b.WriteString("/" + tags)
	}

	if path.GIF {
		b.WriteString("/" + pathGIF)
	}

	if path.Text != "" {
		b.WriteString("/" + pathSays + "/" + url.PathEscape(path.Text))
	}

	if encoded := query.Values().Encode(); encoded != "" {
		b.WriteString("?" + encoded)
	}
	return b.String()
}

// TagsURL returns the tag vocabulary endpoint under domain.
func TagsURL(domain string) string {
	return strings.TrimRight(domain, "/") + "/" + pathAPI + "/" + pathTags
}

func joinTags(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	escaped := make([]string, 0, len(tags))
	for _, tag := range tags {
		escaped = append(escaped, url.PathEscape(tag))
	}
	return strings.Join(escaped, ",")
}
