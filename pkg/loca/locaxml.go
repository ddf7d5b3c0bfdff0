package loca

import (
	"encoding/xml"
	"fmt"
	"io"
)

type xmlContentList struct {
	XMLName xml.Name     `xml:"contentList"`
	Content []xmlContent `xml:"content"`
}

type xmlContent struct {
	ContentUID string `xml:"contentuid,attr"`
	Version    uint16 `xml:"version,attr"`
	Text       string `xml:",chardata"`
}

// DecodeXML parses a <contentList> document into entries, in document order.
func DecodeXML(r io.Reader) ([]Entry, error) {
	var list xmlContentList
	if err := xml.NewDecoder(r).Decode(&list); err != nil {
		return nil, fmt.Errorf("loca: parsing xml: %w", err)
	}
	entries := make([]Entry, 0, len(list.Content))
	for _, c := range list.Content {
		entries = append(entries, Entry{Handle: c.ContentUID, Version: c.Version, Text: c.Text})
	}
	return entries, nil
}

// EncodeXML serialises entries as a <contentList> document, mirroring binary
// entry order exactly (spec.md §4.4).
func EncodeXML(w io.Writer, entries []Entry) error {
	list := xmlContentList{}
	for _, e := range entries {
		list.Content = append(list.Content, xmlContent{ContentUID: e.Handle, Version: e.Version, Text: e.Text})
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(list); err != nil {
		return fmt.Errorf("loca: encoding xml: %w", err)
	}
	return enc.Flush()
}
