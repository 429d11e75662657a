// Package html provides a Normaliser implementation for HTML documents.
// It extracts readable text from HTML, dropping tags, scripts and styles
// and decoding entities, so each block element becomes its own paragraph.
package html
