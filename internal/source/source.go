// Package source extracts an ingredient list from a file on disk so it can
// prefill the TUI input or feed the one-shot analyze command.
package source

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ledongthuc/pdf"
)

// DefaultSelector matches the ingredient blocks of common recipe and
// product pages.
const DefaultSelector = `#ingredients, .ingredients, [itemprop="recipeIngredient"], [itemprop="ingredients"]`

// ErrNoIngredients is returned when a source holds no usable text.
var ErrNoIngredients = errors.New("no ingredients found in source")

var extraneousWhitespace = regexp.MustCompile(`\s+`)

// Options tune extraction.
type Options struct {
	// Selector picks the HTML elements holding ingredients. Empty means
	// DefaultSelector.
	Selector string
}

// Read loads ingredients from path, choosing the extractor by extension:
// .html/.htm through goquery, .pdf through the pdf text layer, anything else
// verbatim.
func Read(path string, opts Options) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		f, err := os.Open(path)
		if err != nil {
			return "", fmt.Errorf("failed to open html: %w", err)
		}
		defer f.Close()
		return ReadHTML(f, opts.Selector)
	case ".pdf":
		return ReadPDF(path)
	default:
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", path, err)
		}
		return ReadText(strings.NewReader(string(data)))
	}
}

// ReadText returns r's content unchanged, failing only when it is blank.
func ReadText(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(string(data)) == "" {
		return "", ErrNoIngredients
	}
	return string(data), nil
}

// ReadHTML extracts the first element matching selector. List items inside
// it are joined with ", ", nested lists contributing their own items;
// otherwise its condensed text is returned.
func ReadHTML(r io.Reader, selector string) (string, error) {
	if selector == "" {
		selector = DefaultSelector
	}
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", fmt.Errorf("failed to parse html: %w", err)
	}
	block := doc.Find(selector).First()
	if block.Length() == 0 {
		return "", fmt.Errorf("%w: nothing matches selector %q", ErrNoIngredients, selector)
	}

	var items []string
	block.Find("li").Each(func(_ int, li *goquery.Selection) {
		if text := condense(strings.Join(itemText(li, nil), " ")); text != "" {
			items = append(items, text)
		}
	})
	if len(items) > 0 {
		return strings.Join(items, ", "), nil
	}

	text := condense(block.Text())
	if text == "" {
		return "", ErrNoIngredients
	}
	return text, nil
}

// itemText collects the text nodes under sel as separate words, leaving out
// nested lists whose items are read on their own.
func itemText(sel *goquery.Selection, words []string) []string {
	sel.Contents().Each(func(_ int, c *goquery.Selection) {
		switch goquery.NodeName(c) {
		case "#text":
			words = append(words, c.Text())
		case "ul", "ol":
		default:
			words = itemText(c, words)
		}
	})
	return words
}

// ReadPDF extracts the plain text layer of the document at path.
func ReadPDF(path string) (string, error) {
	file, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open pdf: %w", err)
	}
	defer file.Close()

	content, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("failed to extract pdf text: %w", err)
	}

	var builder strings.Builder
	if _, err := io.Copy(&builder, content); err != nil {
		return "", err
	}

	text := condense(builder.String())
	if text == "" {
		return "", ErrNoIngredients
	}
	return text, nil
}

func condense(s string) string {
	return strings.TrimSpace(extraneousWhitespace.ReplaceAllString(s, " "))
}
