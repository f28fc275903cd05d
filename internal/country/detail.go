package country

import (
	"math"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Placeholder is rendered for any field the record does not carry.
const Placeholder = "N/A"

// Detail is the display form of a Country with every field resolved to
// text. Missing data degrades to Placeholder.
type Detail struct {
	Name         string       `json:"name"`
	OfficialName string       `json:"official_name"`
	FlagURL      string       `json:"flag_url"`
	Capital      string       `json:"capital"`
	Region       string       `json:"region"`
	Population   string       `json:"population"`
	Area         string       `json:"area"`
	Timezone     string       `json:"timezone"`
	Currencies   string       `json:"currencies"`
	Languages    []string     `json:"languages"`
	SummaryTitle string       `json:"summary_title"`
	Coordinates  *Coordinates `json:"coordinates,omitempty"`
}

// Present builds the Detail for c.
func Present(c Country) Detail {
	printer := message.NewPrinter(language.English)

	d := Detail{
		Name:       orPlaceholder(c.Name, "Unknown"),
		Capital:    orPlaceholder(c.FirstCapital(), Placeholder),
		Region:     orPlaceholder(c.Region, Placeholder),
		Population: Placeholder,
		Area:       Placeholder,
		Timezone:   Placeholder,
		Currencies: Placeholder,
		Languages:  []string{Placeholder},
	}
	d.OfficialName = orPlaceholder(c.OfficialName, d.Name)
	d.FlagURL = orPlaceholder(c.Flags.PNG, c.Flags.SVG)

	if c.Population > 0 {
		d.Population = printer.Sprintf("%d", c.Population)
	}
	if c.Area != nil && *c.Area > 0 {
		d.Area = formatArea(printer, *c.Area) + " km²"
	}
	if len(c.Timezones) > 0 && c.Timezones[0] != "" {
		d.Timezone = c.Timezones[0]
	}
	if names := currencyNames(c.Currencies); len(names) > 0 {
		d.Currencies = strings.Join(names, ", ")
	}
	if langs := languageNames(c.Languages); len(langs) > 0 {
		d.Languages = langs
	}

	d.SummaryTitle = d.Name
	if capital := c.FirstCapital(); capital != "" {
		d.SummaryTitle = capital
	}
	if coords, ok := c.Coordinates(); ok {
		d.Coordinates = &coords
	}
	return d
}

// formatArea groups the integer part and keeps up to three fraction digits.
func formatArea(p *message.Printer, area float64) string {
	rounded := math.Round(area*1000) / 1000
	text := strconv.FormatFloat(rounded, 'f', -1, 64)
	whole, frac, _ := strings.Cut(text, ".")
	n, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return text
	}
	out := p.Sprintf("%d", n)
	if frac != "" {
		out += "." + frac
	}
	return out
}

func currencyNames(currencies map[string]Currency) []string {
	codes := make([]string, 0, len(currencies))
	for code := range currencies {
		codes = append(codes, code)
	}
	slices.Sort(codes)
	var names []string
	for _, code := range codes {
		if name := currencies[code].Name; name != "" {
			names = append(names, name)
		}
	}
	return names
}

func languageNames(languages map[string]string) []string {
	codes := make([]string, 0, len(languages))
	for code := range languages {
		codes = append(codes, code)
	}
	slices.Sort(codes)
	var names []string
	for _, code := range codes {
		if name := languages[code]; name != "" {
			names = append(names, name)
		}
	}
	return names
}

func orPlaceholder(v, placeholder string) string {
	if strings.TrimSpace(v) == "" {
		return placeholder
	}
	return v
}
