package report

import (
	_ "embed"
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"

	"github.com/spf13/afero"

	"reelcheck/internal/engine"
	"reelcheck/internal/fileutil"
)

//go:embed report.html.tmpl
var reportTemplate string

var pageTemplate = template.Must(template.New("report").Parse(reportTemplate))

// Page is the data behind one HTML report.
type Page struct {
	Title      string
	Records    []engine.Record
	Stats      Stats
	Generated  time.Time
	Background string
	// OmbiURL is the Ombi web root used for per-title links.
	OmbiURL string
}

type card struct {
	Title       string
	Overview    string
	PosterURL   string
	Theater     string
	Digital     string
	Status      string
	StatusClass string
	Filter      string
	OmbiLink    string
	SiteLink    string
}

type view struct {
	Title      string
	Generated  string
	Background string
	Stats      Stats
	Cards      []card
}

// RenderHTML writes the report page to w.
func RenderHTML(w io.Writer, page Page) error {
	v := view{
		Title:      page.Title,
		Generated:  page.Generated.Format("2006-01-02 15:04"),
		Background: strings.TrimSpace(page.Background),
		Stats:      page.Stats,
	}
	if v.Title == "" {
		v.Title = "Movie Download Status"
	}
	if v.Stats == (Stats{}) && len(page.Records) > 0 {
		v.Stats = Count(page.Records)
	}
	ombiRoot := strings.TrimRight(strings.TrimSpace(page.OmbiURL), "/")
	for _, rec := range page.Records {
		c := card{
			Title:       rec.Title,
			Overview:    rec.Overview,
			PosterURL:   rec.PosterURL,
			Theater:     rec.TheaterDate.Or("TBD"),
			Digital:     rec.DigitalDate.Or("TBD"),
			Status:      rec.Status.String(),
			StatusClass: "status-" + strings.ToLower(rec.Status.String()),
			Filter:      filterBucket(rec.Status),
			SiteLink:    rec.SourceURL,
		}
		if ombiRoot != "" && rec.TMDBID > 0 {
			c.OmbiLink = fmt.Sprintf("%s/details/movie/%d", ombiRoot, rec.TMDBID)
		}
		v.Cards = append(v.Cards, c)
	}
	if err := pageTemplate.Execute(w, v); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	return nil
}

// WriteHTMLFile renders page to path, replacing any previous report atomically.
func WriteHTMLFile(path string, page Page) error {
	return fileutil.WriteAtomic(afero.NewOsFs(), path, 0o644, func(w io.Writer) error {
		return RenderHTML(w, page)
	})
}
