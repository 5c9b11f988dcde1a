package source

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"

	"cssspec/css"
)

// Document is decoded content of an item ready for analysis.
type Document struct {
	// Stylesheets in document order, a CSS file has exactly one.
	Stylesheets []string
	// Inline holds declarations of style attributes.
	Inline []string
	// Charset used to decode content.
	Charset string
}

// Load reads and decodes item. Undecodable stylesheets are returned as is
// with a warning logged.
func Load(it Item, log *zap.Logger) (*Document, error) {
	if log == nil {
		log = zap.NewNop()
	}
	data, err := it.Read()
	if err != nil {
		return nil, err
	}
	if it.IsHTML() {
		doc, err := ParseHTML(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("unable to parse html: %w", err)
		}
		return doc, nil
	}

	text, cs, err := css.Decode(data)
	if err != nil {
		log.Warn("Unable to decode stylesheet, using raw content", zap.String("file", it.Name), zap.Error(err))
	}
	return &Document{Stylesheets: []string{text}, Charset: cs}, nil
}

// ParseHTML collects bodies of <style> elements and values of style
// attributes. Encoding is detected from BOM, meta tags or content.
func ParseHTML(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	enc, name, _ := charset.DetermineEncoding(data, "text/html")
	decoded, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return nil, fmt.Errorf("unable to decode %s document: %w", name, err)
	}

	doc := &Document{Charset: name}
	z := html.NewTokenizer(bytes.NewReader(decoded))
	inStyle := false
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if err := z.Err(); err != io.EOF {
				return doc, err
			}
			return doc, nil

		case html.StartTagToken, html.SelfClosingTagToken:
			tn, hasAttr := z.TagName()
			if tt == html.StartTagToken && string(tn) == "style" {
				inStyle = true
			}
			for hasAttr {
				var key, val []byte
				key, val, hasAttr = z.TagAttr()
				if string(key) == "style" && strings.TrimSpace(string(val)) != "" {
					doc.Inline = append(doc.Inline, string(val))
				}
			}

		case html.EndTagToken:
			if tn, _ := z.TagName(); string(tn) == "style" {
				inStyle = false
			}

		case html.TextToken:
			if inStyle {
				if text := z.Text(); len(bytes.TrimSpace(text)) > 0 {
					doc.Stylesheets = append(doc.Stylesheets, string(text))
				}
			}
		}
	}
}
