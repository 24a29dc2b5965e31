package word

import (
	"archive/zip"
	"bytes"
	"fmt"
	"sort"
	"time"
)

// zipEpoch stamps every entry so identical input produces identical bytes.
var zipEpoch = time.Date(1980, time.January, 1, 0, 0, 0, 0, time.UTC)

const stylesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:docDefaults><w:rPrDefault><w:rPr><w:rFonts w:ascii="Calibri" w:hAnsi="Calibri" w:cs="Calibri"/><w:sz w:val="22"/></w:rPr></w:rPrDefault><w:pPrDefault><w:pPr><w:spacing w:after="160" w:line="259" w:lineRule="auto"/></w:pPr></w:pPrDefault></w:docDefaults>
<w:style w:type="paragraph" w:default="1" w:styleId="Normal"><w:name w:val="Normal"/><w:qFormat/></w:style>
<w:style w:type="paragraph" w:styleId="Title"><w:name w:val="Title"/><w:basedOn w:val="Normal"/><w:next w:val="Normal"/><w:qFormat/><w:pPr><w:spacing w:after="240"/></w:pPr><w:rPr><w:b/><w:sz w:val="52"/></w:rPr></w:style>
<w:style w:type="paragraph" w:styleId="Subtitle"><w:name w:val="Subtitle"/><w:basedOn w:val="Normal"/><w:next w:val="Normal"/><w:qFormat/><w:rPr><w:i/><w:color w:val="595959"/><w:sz w:val="28"/></w:rPr></w:style>
<w:style w:type="paragraph" w:styleId="Heading1"><w:name w:val="heading 1"/><w:basedOn w:val="Normal"/><w:next w:val="Normal"/><w:qFormat/><w:pPr><w:keepNext/><w:spacing w:before="240" w:after="120"/><w:outlineLvl w:val="0"/></w:pPr><w:rPr><w:b/><w:sz w:val="32"/></w:rPr></w:style>
<w:style w:type="table" w:default="1" w:styleId="TableNormal"><w:name w:val="Normal Table"/><w:tblPr><w:tblInd w:w="0" w:type="dxa"/><w:tblCellMar><w:top w:w="0" w:type="dxa"/><w:left w:w="108" w:type="dxa"/><w:bottom w:w="0" w:type="dxa"/><w:right w:w="108" w:type="dxa"/></w:tblCellMar></w:tblPr></w:style>
<w:style w:type="table" w:styleId="TableGrid"><w:name w:val="Table Grid"/><w:basedOn w:val="TableNormal"/><w:pPr><w:spacing w:after="0" w:line="240" w:lineRule="auto"/></w:pPr><w:tblPr><w:tblBorders><w:top w:val="single" w:sz="4" w:space="0" w:color="auto"/><w:left w:val="single" w:sz="4" w:space="0" w:color="auto"/><w:bottom w:val="single" w:sz="4" w:space="0" w:color="auto"/><w:right w:val="single" w:sz="4" w:space="0" w:color="auto"/><w:insideH w:val="single" w:sz="4" w:space="0" w:color="auto"/><w:insideV w:val="single" w:sz="4" w:space="0" w:color="auto"/></w:tblBorders></w:tblPr></w:style>
</w:styles>`

const (
	ctDocument = "application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"
	ctStyles   = "application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"
	ctCore     = "application/vnd.openxmlformats-package.core-properties+xml"
	ctRels     = "application/vnd.openxmlformats-package.relationships+xml"
)

// media is an embedded raster part.
type media struct {
	name string // file name under word/media
	ext  string
	data []byte
	rel  string
}

// pkg collects the parts of one .docx file.
type pkg struct {
	title   string
	creator string
	created time.Time
	doc     documentXML
	media   []media
}

func (p *pkg) addMedia(ext string, data []byte) media {
	n := len(p.media) + 1
	m := media{
		name: fmt.Sprintf("image%d.%s", n, ext),
		ext:  ext,
		data: data,
		// rId1 is the styles part.
		rel: fmt.Sprintf("rId%d", n+1),
	}
	p.media = append(p.media, m)
	return m
}

func (p *pkg) contentTypes() contentTypesXML {
	exts := map[string]bool{}
	for _, m := range p.media {
		exts[m.ext] = true
	}
	sorted := make([]string, 0, len(exts))
	for ext := range exts {
		sorted = append(sorted, ext)
	}
	sort.Strings(sorted)

	ct := contentTypesXML{Defaults: []defaultTypeXML{
		{Extension: "rels", ContentType: ctRels},
		{Extension: "xml", ContentType: "application/xml"},
	}}
	for _, ext := range sorted {
		ct.Defaults = append(ct.Defaults, defaultTypeXML{Extension: ext, ContentType: "image/" + ext})
	}
	ct.Overrides = []overrideTypeXML{
		{PartName: "/word/document.xml", ContentType: ctDocument},
		{PartName: "/word/styles.xml", ContentType: ctStyles},
		{PartName: "/docProps/core.xml", ContentType: ctCore},
	}
	return ct
}

func (p *pkg) documentRels() relationshipsXML {
	rels := relationshipsXML{Rels: []relationshipXML{{ID: "rId1", Type: relStyles, Target: "styles.xml"}}}
	for _, m := range p.media {
		rels.Rels = append(rels.Rels, relationshipXML{ID: m.rel, Type: relImage, Target: "media/" + m.name})
	}
	return rels
}

func (p *pkg) coreProps() corePropsXML {
	core := corePropsXML{
		XmlnsCP:     nsCP,
		XmlnsDC:     nsDC,
		XmlnsDCTerm: nsDCTerms,
		XmlnsXSI:    nsXSI,
		Title:       p.title,
		Creator:     p.creator,
	}
	if !p.created.IsZero() {
		stamp := p.created.UTC().Format(time.RFC3339)
		core.Created = &w3cDate{Type: "dcterms:W3CDTF", Value: stamp}
		core.Modified = &w3cDate{Type: "dcterms:W3CDTF", Value: stamp}
	}
	return core
}

// bytes writes the zip container. Entry order is fixed.
func (p *pkg) bytes() ([]byte, error) {
	type part struct {
		name string
		data []byte
	}
	var parts []part
	add := func(name string, v any) error {
		data, err := marshalPart(v)
		if err != nil {
			return fmt.Errorf("encode %s: %w", name, err)
		}
		parts = append(parts, part{name, data})
		return nil
	}

	if err := add("[Content_Types].xml", p.contentTypes()); err != nil {
		return nil, err
	}
	if err := add("_rels/.rels", relationshipsXML{Rels: []relationshipXML{
		{ID: "rId1", Type: relOfficeDocument, Target: "word/document.xml"},
		{ID: "rId2", Type: relCoreProps, Target: "docProps/core.xml"},
	}}); err != nil {
		return nil, err
	}
	if err := add("docProps/core.xml", p.coreProps()); err != nil {
		return nil, err
	}
	if err := add("word/document.xml", p.doc); err != nil {
		return nil, err
	}
	parts = append(parts, part{"word/styles.xml", []byte(stylesXML)})
	if err := add("word/_rels/document.xml.rels", p.documentRels()); err != nil {
		return nil, err
	}
	for _, m := range p.media {
		parts = append(parts, part{"word/media/" + m.name, m.data})
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, pt := range parts {
		w, err := zw.CreateHeader(&zip.FileHeader{Name: pt.name, Method: zip.Deflate, Modified: zipEpoch})
		if err != nil {
			return nil, fmt.Errorf("create %s: %w", pt.name, err)
		}
		if _, err := w.Write(pt.data); err != nil {
			return nil, fmt.Errorf("write %s: %w", pt.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close package: %w", err)
	}
	return buf.Bytes(), nil
}
