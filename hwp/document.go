// Package hwp composes the cfb and record packages into a single
// Document type: open a file, read its FileHeader metadata, and iterate
// section streams for paragraph text and tables.
package hwp

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/richardlehane/msoleps"

	"github.com/gohwp/hwp5/cfb"
	"github.com/gohwp/hwp5/record"
)

const (
	fileHeaderStream  = "FileHeader"
	summaryInfoStream = "\x05HwpSummaryInformation"
	sectionStreamFmt  = "BodyText/Section%d"
)

// Document is an open HWP 5.x file: the underlying CFB store plus the
// FileHeader metadata read at construction time.
type Document struct {
	store *cfb.Store
	Info  record.FileInfo
}

// Open opens path as a CFB container and reads its FileHeader.
func Open(path string) (*Document, error) {
	store, err := cfb.Open(path)
	if err != nil {
		return nil, err
	}
	doc, err := newDocument(store)
	if err != nil {
		store.Close()
		return nil, err
	}
	return doc, nil
}

func newDocument(store *cfb.Store) (*Document, error) {
	raw, err := store.ReadStream(fileHeaderStream)
	if err != nil {
		return nil, fmt.Errorf("hwp: reading FileHeader: %w", err)
	}
	info, err := record.ParseFileHeader(raw)
	if err != nil {
		return nil, fmt.Errorf("hwp: parsing FileHeader: %w", err)
	}
	return &Document{store: store, Info: info}, nil
}

// Close releases the underlying CFB store.
func (d *Document) Close() error {
	return d.store.Close()
}

// Section holds the extracted content of one BodyText/SectionN stream.
type Section struct {
	Index      int
	Paragraphs []string
	Tables     []*record.Table
}

// Sections iterates BodyText/Section0, BodyText/Section1, ... until the
// next index is absent, parsing each in turn.
func (d *Document) Sections() ([]Section, error) {
	var out []Section
	for i := 0; ; i++ {
		path := fmt.Sprintf(sectionStreamFmt, i)
		if !d.store.Exists(path) {
			break
		}
		raw, err := d.store.ReadStream(path)
		if err != nil {
			return out, fmt.Errorf("hwp: reading %s: %w", path, err)
		}
		paragraphs, tables := record.Parse(raw, d.Info.Compressed)
		out = append(out, Section{Index: i, Paragraphs: paragraphs, Tables: tables})
	}
	return out, nil
}

// SummaryInfo is the subset of the OLE SummaryInformation property set
// this package surfaces: document metadata carried alongside the body
// text and tables, not the body content itself.
type SummaryInfo struct {
	Title       string
	Subject     string
	Author      string
	LastSavedBy string
}

// SummaryInfo reads and parses the \x05HwpSummaryInformation stream, the
// same [MS-OSHARED] property-set layout Microsoft Office's .doc/.xls
// files carry under the same stream name. It returns (nil, nil) when the
// stream is absent, since summary metadata is optional.
func (d *Document) SummaryInfo() (*SummaryInfo, error) {
	raw, err := d.store.ReadStream(summaryInfoStream)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("hwp: reading summary info: %w", err)
	}

	props, err := msoleps.New(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("hwp: parsing summary info: %w", err)
	}

	info := &SummaryInfo{}
	for _, p := range props.Property {
		switch p.Name {
		case "Title":
			info.Title = p.String()
		case "Subject":
			info.Subject = p.String()
		case "Author":
			info.Author = p.String()
		case "LastSavedBy":
			info.LastSavedBy = p.String()
		}
	}
	return info, nil
}

func isNotFound(err error) bool {
	var cfbErr *cfb.Error
	return errors.As(err, &cfbErr) && cfbErr.Kind == cfb.KindNotFound
}
