package site

import (
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"reelcheck/internal/extract"
	"reelcheck/internal/scoring"
)

// ParseSearch reads the suggestion list of a search page. Relative links are
// resolved against base.
func ParseSearch(r io.Reader, base *url.URL) ([]scoring.Candidate, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}
	var out []scoring.Candidate
	doc.Find(".search-suggestion").Each(func(_ int, s *goquery.Selection) {
		text := normSpace(s.Text())
		if text == "" {
			return
		}
		href, ok := s.Attr("href")
		if !ok {
			href, _ = s.Find("a[href]").First().Attr("href")
		}
		out = append(out, scoring.Candidate{Text: text, Ref: resolveURL(base, href)})
	})
	return out, nil
}

// ParsePage flattens every date span of a release page into fields.
func ParsePage(r io.Reader) ([]extract.Field, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}
	var fields []extract.Field
	doc.Find("span.semibold").Each(func(_ int, s *goquery.Selection) {
		text := normSpace(s.Text())
		if text == "" {
			return
		}
		field := extract.Field{
			Text:  text,
			Label: normSpace(s.NextAllFiltered("span").First().Text()),
		}
		if alt, ok := s.Parent().Parent().Find("img[alt]").First().Attr("alt"); ok {
			field.Icon = strings.TrimSpace(alt)
		}
		field.Container = ancestorClasses(s)
		fields = append(fields, field)
	})
	return fields, nil
}

// ancestorClasses joins the classes of every enclosing div, nearest first.
func ancestorClasses(s *goquery.Selection) string {
	var classes []string
	s.ParentsFiltered("div[class]").Each(func(_ int, div *goquery.Selection) {
		class, _ := div.Attr("class")
		classes = append(classes, strings.Fields(class)...)
	})
	return strings.Join(classes, " ")
}

func resolveURL(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if base == nil {
		return ref.String()
	}
	return base.ResolveReference(ref).String()
}

func normSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
