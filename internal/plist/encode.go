package plist

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

const (
	// xmlHeader opens every XML property list.
	xmlHeader = `<?xml version="1.0" encoding="UTF-8"?>` + "\n" +
		`<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">` + "\n" +
		`<plist version="1.0">` + "\n"

	// xmlFooter closes the plist element.
	xmlFooter = "</plist>\n"

	// indentUnit is the indentation of nested elements.
	indentUnit = "\t"
)

// Marshal returns the XML property list encoding of doc.
func Marshal(doc *Document) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// WriteFile serializes doc to path, replacing any existing file.
func WriteFile(path string, doc *Document, mode os.FileMode) error {
	data, err := Marshal(doc)
	if err != nil {
		return err
	}

	if err = os.WriteFile(filepath.Clean(path), data, mode); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	return nil
}

// WriteTo writes the XML property list encoding of the document to w.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	if d == nil || d.Root == nil || d.Root.Kind != KindDict {
		return 0, ErrUnbalanced
	}

	cw := &countingWriter{w: bufio.NewWriter(w)}

	cw.writeString(xmlHeader)
	encodeNode(cw, d.Root, 0)
	cw.writeString(xmlFooter)

	if cw.err == nil {
		cw.err = cw.w.Flush()
	}

	if cw.err != nil {
		return cw.n, fmt.Errorf("encode property list: %w", cw.err)
	}

	return cw.n, nil
}

func encodeNode(cw *countingWriter, node *Node, depth int) {
	indent := strings.Repeat(indentUnit, depth)

	switch node.Kind {
	case KindString:
		cw.writeString(indent + "<string>")
		cw.escape(node.Str)
		cw.writeString("</string>\n")
	case KindBool:
		if node.Bool {
			cw.writeString(indent + "<true/>\n")
		} else {
			cw.writeString(indent + "<false/>\n")
		}
	case KindArray:
		if len(node.Items) == 0 {
			cw.writeString(indent + "<array/>\n")
			return
		}

		cw.writeString(indent + "<array>\n")

		for _, item := range node.Items {
			encodeNode(cw, item, depth+1)
		}

		cw.writeString(indent + "</array>\n")
	case KindDict:
		if len(node.Entries) == 0 {
			cw.writeString(indent + "<dict/>\n")
			return
		}

		cw.writeString(indent + "<dict>\n")

		for _, entry := range node.Entries {
			cw.writeString(indent + indentUnit + "<key>")
			cw.escape(entry.Key)
			cw.writeString("</key>\n")
			encodeNode(cw, entry.Value, depth+1)
		}

		cw.writeString(indent + "</dict>\n")
	}
}

// countingWriter remembers the first write error and the number of bytes written.
type countingWriter struct {
	// w is the buffered destination.
	w *bufio.Writer
	// n is the number of bytes written so far.
	n int64
	// err is the first write error.
	err error
}

func (c *countingWriter) Write(p []byte) (int, error) {
	if c.err != nil {
		return 0, c.err
	}

	n, err := c.w.Write(p)
	c.n += int64(n)
	c.err = err

	return n, err
}

func (c *countingWriter) writeString(s string) {
	_, _ = c.Write([]byte(s))
}

// escape writes s as character data. Only the markup characters are
// replaced, so line breaks and tabs stay verbatim; characters XML cannot
// carry become U+FFFD.
func (c *countingWriter) escape(s string) {
	if c.err != nil {
		return
	}

	var b strings.Builder

	b.Grow(len(s))

	for _, r := range s {
		switch {
		case r == '&':
			b.WriteString("&amp;")
		case r == '<':
			b.WriteString("&lt;")
		case r == '>':
			b.WriteString("&gt;")
		case !isXMLChar(r):
			b.WriteRune(utf8.RuneError)
		default:
			b.WriteRune(r)
		}
	}

	c.writeString(b.String())
}

// isXMLChar reports whether r is in the XML 1.0 Char production.
func isXMLChar(r rune) bool {
	return r == '\t' || r == '\n' || r == '\r' ||
		(r >= 0x20 && r <= 0xD7FF) ||
		(r >= 0xE000 && r <= 0xFFFD) ||
		(r >= 0x10000 && r <= 0x10FFFF)
}
