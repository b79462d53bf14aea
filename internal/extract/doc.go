// Package extract turns source documents into narration-ready plain text.
// PDFs go through pdfcpu content extraction, web pages through an HTML
// prose walker, and pasted text straight through. All sources share the
// same minimum-length floor and citation-stripping cleanup.
package extract
