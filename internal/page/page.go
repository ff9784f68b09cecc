// Package page implements the DOM-query side of the pipeline: locating
// the description list and the per-slide image references inside a
// fetched product page. The fetch engine only talks to this package
// through the DescriptionExtractor and ImageResolver interfaces.
package page

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Document is a parsed product page.
type Document struct {
	doc *goquery.Document
}

// SlideRef is one resolvable image reference: the slide index and its
// raw src attribute as found in the page.
type SlideRef struct {
	Slide int
	Src   string
}

// DescriptionExtractor yields the ordered source-language description
// lines of a page.
type DescriptionExtractor interface {
	DescriptionLines(doc *Document) []string
}

// ImageResolver yields the ordered (slide, src) pairs present on a
// page for the given slide range.
type ImageResolver interface {
	SlideRefs(doc *Document, minSlide, maxSlide int) []SlideRef
}

// Parse builds a Document from raw page bytes.
func Parse(body []byte) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}
	return &Document{doc: doc}, nil
}

const descriptionListSelector = "ul.p-item_info_indt"

// Extractor implements both DOM-query interfaces against the catalog
// site's product page structure.
type Extractor struct{}

// NewExtractor returns the site extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// DescriptionLines returns the non-blank texts of the description
// list's items, in document order. A missing list yields nil.
func (Extractor) DescriptionLines(doc *Document) []string {
	var lines []string
	doc.doc.Find(descriptionListSelector).First().Find("li").Each(func(_ int, li *goquery.Selection) {
		text := strings.TrimSpace(li.Text())
		if text != "" {
			lines = append(lines, text)
		}
	})
	return lines
}

// SlideRefs returns the (slide, src) pairs for every slide index in
// [minSlide, maxSlide] whose tagged element carries an img with a
// non-empty src. Slides without one are simply absent from the result.
func (Extractor) SlideRefs(doc *Document, minSlide, maxSlide int) []SlideRef {
	var refs []SlideRef
	for slide := minSlide; slide <= maxSlide; slide++ {
		sel := doc.doc.Find(fmt.Sprintf(`[data-slide="%d"]`, slide)).First()
		if sel.Length() == 0 {
			continue
		}
		src, ok := sel.Find("img").First().Attr("src")
		if !ok || strings.TrimSpace(src) == "" {
			continue
		}
		refs = append(refs, SlideRef{Slide: slide, Src: src})
	}
	return refs
}
