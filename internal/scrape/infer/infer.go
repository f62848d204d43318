// Package infer derives a company name when a layout gives none.
package infer

import (
	"net/url"
	"regexp"
	"strings"

	"portfolio-engine/internal/scrape/util"
)

// Unknown is returned when neither description nor website carry a name.
const Unknown = "Unknown"

// one to four capitalized tokens
const phrase = `([A-Z][A-Za-z0-9&.+-]*(?:\s+[A-Z][A-Za-z0-9&.+-]*){0,3})`

var (
	possessiveRe = regexp.MustCompile(`^` + phrase + `['’]s\b`)
	verbRe       = regexp.MustCompile(`\b` + phrase + `\s+(?:is|are|provides|develops|builds|offers|delivers|enables)\b`)
)

// CompanyName tries, in order: a leading possessive phrase, a capitalized
// phrase before a descriptive verb, the website's first host label.
func CompanyName(description, website string) string {
	description = util.CleanText(description)
	if description != "" {
		if m := possessiveRe.FindStringSubmatch(description); m != nil {
			return strings.TrimSpace(m[1])
		}
		if m := verbRe.FindStringSubmatch(description); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	if name := FromWebsite(website); name != "" {
		return name
	}
	return Unknown
}

// FromWebsite turns "https://www.sun-peak.example.com" into "Sun Peak".
func FromWebsite(website string) string {
	website = strings.TrimSpace(website)
	if website == "" {
		return ""
	}
	if !strings.Contains(website, "://") {
		website = "http://" + website
	}
	u, err := url.Parse(website)
	if err != nil {
		return ""
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	if host == "" {
		return ""
	}
	label, _, _ := strings.Cut(host, ".")
	label = strings.NewReplacer("-", " ", "_", " ").Replace(label)
	return util.Title(label)
}
