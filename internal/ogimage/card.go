// Package ogimage renders the site's OpenGraph cards to PNG with headless Chrome.
package ogimage

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Card dimensions in CSS pixels.
const (
	Width  = 1200
	Height = 630
)

// Field limits.
const (
	MaxTitleLength    = 64
	MaxSubtitleLength = 120
)

// Defaults matching the site header.
const (
	DefaultTitle    = "zerx.dev"
	DefaultSubtitle = "全栈开发者 · Web Developer"
)

//go:embed card.html.tmpl
var cardSource string

var cardTemplate = template.Must(template.New("card").Parse(cardSource))

// Card is the content of one OpenGraph image.
type Card struct {
	Title    string
	Subtitle string
}

// Validate checks field lengths.
func (c Card) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Title, validation.Required, validation.RuneLength(1, MaxTitleLength)),
		validation.Field(&c.Subtitle, validation.RuneLength(0, MaxSubtitleLength)),
	)
}

type cardData struct {
	Name     string
	Suffix   string
	Subtitle string
	Width    int
	Height   int
}

// splitTitle separates a domain-like title into its name and ".tld" suffix,
// which the card draws in different colors.
func splitTitle(title string) (name, suffix string) {
	if i := strings.LastIndex(title, "."); i > 0 && i < len(title)-1 && !strings.Contains(title[i:], " ") {
		return title[:i], title[i:]
	}
	return title, ""
}

// HTML returns the standalone HTML page for c.
func (c Card) HTML() (string, error) {
	if err := c.Validate(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidCard, err)
	}

	name, suffix := splitTitle(strings.TrimSpace(c.Title))
	var buf bytes.Buffer
	err := cardTemplate.Execute(&buf, cardData{
		Name:     name,
		Suffix:   suffix,
		Subtitle: strings.TrimSpace(c.Subtitle),
		Width:    Width,
		Height:   Height,
	})
	if err != nil {
		return "", fmt.Errorf("executing card template: %w", err)
	}
	return buf.String(), nil
}
