package newspilot

import (
	"bytes"
	"fmt"
	"html/template"
	"strconv"
	"strings"
	"time"
)

const defaultTitleTemplate = "{name} - Week {week}"

// Newsletter is one assembled publication: the resolved article list in
// final order plus the rendered HTML document.
type Newsletter struct {
	Title       string
	Filename    string
	Articles    []Article
	HTML        string
	GeneratedAt time.Time
}

// NewsletterTitle substitutes {name} and {week} in the tenant's title
// template. {week} is the ISO week number of the generation time.
func NewsletterTitle(branding Branding, now time.Time) string {
	tmpl := branding.NewsletterTitleTemplate
	if tmpl == "" {
		tmpl = defaultTitleTemplate
	}
	name := branding.ApplicationName
	if name == "" {
		name = "Newsletter"
	}
	_, week := now.ISOWeek()

	title := strings.ReplaceAll(tmpl, "{name}", name)
	title = strings.ReplaceAll(title, "{week}", strconv.Itoa(week))
	return title
}

// newsletterFilename builds the canonical document name, e.g.
// "HTC_Week_05_2026.html".
func newsletterFilename(shortName string, now time.Time) string {
	_, week := now.ISOWeek()
	if shortName == "" {
		shortName = "Newsletter"
	}
	return fmt.Sprintf("%s_Week_%02d_%d.html", shortName, week, now.Year())
}

// AssemblePublication resolves the session's selection against its article
// pool and renders the publishable document with the tenant's branding.
// Stale selection ids are dropped silently; ending up with zero articles is
// a user-facing validation error, never an empty document.
func AssemblePublication(sess *Session, branding Branding, shortName string, now time.Time) (*Newsletter, error) {
	articles := sess.SelectedArticles()
	if len(articles) == 0 {
		return nil, ErrNothingSelected
	}

	title := NewsletterTitle(branding, now)
	html, err := renderNewsletterHTML(articles, title, branding, now)
	if err != nil {
		return nil, fmt.Errorf("failed to render newsletter: %w", err)
	}

	return &Newsletter{
		Title:       title,
		Filename:    newsletterFilename(shortName, now),
		Articles:    articles,
		HTML:        html,
		GeneratedAt: now,
	}, nil
}

var newsletterTemplate = template.Must(template.New("newsletter").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}}</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 800px; margin: 0 auto; padding: 20px; background-color: #f5f5f5; }
        .newsletter-container { background-color: white; padding: 30px; border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        .header { border-bottom: 3px solid #2c3e50; padding-bottom: 20px; margin-bottom: 30px; }
        .header h1 { color: #2c3e50; margin: 0; font-size: 28px; }
        .header .subtitle { color: #7f8c8d; font-size: 14px; margin-top: 5px; }
        .date-info { text-align: center; color: #7f8c8d; font-size: 12px; margin-bottom: 20px; }
        .article { margin-bottom: 40px; padding-bottom: 20px; border-bottom: 1px solid #e0e0e0; }
        .article:last-child { border-bottom: none; }
        .article-title { font-size: 20px; font-weight: bold; margin-bottom: 10px; color: #2c3e50; }
        .article-title a { color: #2c3e50; text-decoration: none; }
        .article-meta { font-size: 12px; color: #7f8c8d; margin-bottom: 10px; }
        .article-snippet { color: #555; margin-top: 10px; line-height: 1.6; }
        .article-link { display: inline-block; margin-top: 10px; padding: 8px 16px; background-color: #3498db; color: white; text-decoration: none; border-radius: 4px; font-size: 14px; }
        .footer { margin-top: 40px; padding-top: 20px; border-top: 2px solid #e0e0e0; text-align: center; font-size: 12px; color: #7f8c8d; }
        .footer a { color: #3498db; text-decoration: none; }
    </style>
</head>
<body>
    <div class="newsletter-container">
        <div class="header">
            <h1>{{.Title}}</h1>
            <div class="subtitle">{{.ApplicationName}}</div>
        </div>
        <div class="date-info">Generated on {{.GeneratedOn}}</div>
{{range .Articles}}
        <div class="article">
            <div class="article-title"><a href="{{.URL}}" target="_blank">{{.Title}}</a></div>
            <div class="article-meta">{{.Source}} | {{.PublishedDate}}</div>
            {{if .Snippet}}<div class="article-snippet">{{.Snippet}}</div>{{end}}
            <a href="{{.URL}}" target="_blank" class="article-link">Read Full Article</a>
        </div>
{{end}}
        <div class="footer">
            <p>{{.FooterText}}</p>
            {{if .FooterURL}}<p><a href="{{.FooterURL}}" target="_blank">{{.FooterURLDisplay}}</a></p>{{end}}
        </div>
    </div>
</body>
</html>
`))

type newsletterData struct {
	Title            string
	ApplicationName  string
	GeneratedOn      string
	Articles         []Article
	FooterText       string
	FooterURL        string
	FooterURLDisplay string
}

func renderNewsletterHTML(articles []Article, title string, branding Branding, now time.Time) (string, error) {
	display := branding.FooterURLDisplay
	if display == "" {
		display = branding.FooterURL
	}

	var buf bytes.Buffer
	err := newsletterTemplate.Execute(&buf, newsletterData{
		Title:            title,
		ApplicationName:  branding.ApplicationName,
		GeneratedOn:      now.Format("January 2, 2006"),
		Articles:         articles,
		FooterText:       branding.FooterText,
		FooterURL:        branding.FooterURL,
		FooterURLDisplay: display,
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
