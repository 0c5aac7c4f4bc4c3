package crawler

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Element is a node of a loaded page that can be queried further
type Element interface {
	// Find returns every descendant matching selector, in document order
	Find(selector string) []Element
	// First returns the first descendant matching selector
	First(selector string) (Element, bool)
	// Attr returns the value of the named attribute
	Attr(name string) (string, bool)
	// Text returns the combined text content
	Text() string
	// HasClass reports whether the element carries the class
	HasClass(class string) bool
}

// PageDocument is a loaded results page
type PageDocument interface {
	Element
	// URL is the address the page was loaded from, used to resolve links
	URL() string
}

type selection struct {
	sel *goquery.Selection
}

func (s selection) Find(selector string) []Element {
	found := s.sel.Find(selector)
	elements := make([]Element, 0, found.Length())
	found.Each(func(_ int, item *goquery.Selection) {
		elements = append(elements, selection{sel: item})
	})
	return elements
}

func (s selection) First(selector string) (Element, bool) {
	found := s.sel.Find(selector).First()
	if found.Length() == 0 {
		return nil, false
	}
	return selection{sel: found}, true
}

func (s selection) Attr(name string) (string, bool) {
	return s.sel.Attr(name)
}

func (s selection) Text() string {
	return s.sel.Text()
}

func (s selection) HasClass(class string) bool {
	return s.sel.HasClass(class)
}

// Document is a PageDocument backed by a goquery tree. The live browser
// session snapshots the rendered DOM into one; tests build them from fixtures.
type Document struct {
	selection
	url string
}

// NewDocument parses HTML from r. pageURL is used to resolve relative links.
func NewDocument(r io.Reader, pageURL string) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("HTML parse error: %w", err)
	}
	return &Document{selection: selection{sel: doc.Selection}, url: pageURL}, nil
}

// NewDocumentFromString is NewDocument for an in-memory page
func NewDocumentFromString(html, pageURL string) (*Document, error) {
	return NewDocument(strings.NewReader(html), pageURL)
}

// URL implements PageDocument
func (d *Document) URL() string {
	return d.url
}

// ResolveURL makes href absolute against the page URL
func ResolveURL(pageURL, href string) (string, error) {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return "", err
	}
	if ref.IsAbs() {
		return ref.String(), nil
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return "", err
	}
	if !base.IsAbs() {
		return "", fmt.Errorf("cannot resolve %q against relative page URL %q", href, pageURL)
	}
	return base.ResolveReference(ref).String(), nil
}
