package flixpatrol

import (
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/MaheshSharan/FlixPatrol-API/services/rankings/internal/model"
)

var (
	// ErrSectionNotFound means the page has no heading for the section.
	ErrSectionNotFound = errors.New("flixpatrol: section not found")
	// ErrNoRows means the section table held no usable rows.
	ErrNoRows = errors.New("flixpatrol: no rows in section")
	// ErrLayout means the heading exists but the table around it does not.
	ErrLayout = errors.New("flixpatrol: unexpected page layout")
)

// IsAbsent reports whether err means "no data" rather than a failure.
func IsAbsent(err error) bool {
	return errors.Is(err, ErrSectionNotFound) || errors.Is(err, ErrNoRows)
}

// ParseSection extracts the ranked rows that belong to the h3 heading whose
// text equals section. The table lives in the div that wraps the heading's
// "grid" container.
func ParseSection(r io.Reader, section string) ([]model.RawItem, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}

	var header *goquery.Selection
	doc.Find("h3").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if strings.TrimSpace(s.Text()) == section {
			header = s
			return false
		}
		return true
	})
	if header == nil {
		return nil, ErrSectionNotFound
	}

	grid := header.ParentsFiltered("div.grid").First()
	if grid.Length() == 0 {
		return nil, ErrLayout
	}
	block := grid.ParentsFiltered("div").First()
	if block.Length() == 0 {
		return nil, ErrLayout
	}
	tbody := block.Find("tbody").First()
	if tbody.Length() == 0 {
		return nil, ErrLayout
	}

	var items []model.RawItem
	tbody.Find("tr").Each(func(_ int, row *goquery.Selection) {
		if it, ok := parseRow(row); ok {
			items = append(items, it)
		}
	})
	if len(items) == 0 {
		return nil, ErrNoRows
	}
	return items, nil
}

func parseRow(row *goquery.Selection) (model.RawItem, bool) {
	cells := row.Find("td.table-td")
	anchor := row.Find("a").First()
	if cells.Length() == 0 || anchor.Length() == 0 {
		return model.RawItem{}, false
	}

	rankText := strings.TrimRight(strippedText(cells.First()), ".")
	if !isDigits(rankText) {
		return model.RawItem{}, false
	}
	rank, err := strconv.Atoi(rankText)
	if err != nil {
		return model.RawItem{}, false
	}

	tenure := "N/A"
	if cells.Length() > 1 {
		tenure = strippedText(cells.Last())
	}
	return model.RawItem{Rank: rank, Title: strippedText(anchor), Tenure: tenure}, true
}

// strippedText joins the trimmed text nodes under s with no separator.
func strippedText(s *goquery.Selection) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(strings.TrimSpace(n.Data))
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range s.Nodes {
		walk(n)
	}
	return b.String()
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
