package word

import "encoding/xml"

// Namespaces written on the package parts. Element and attribute names carry
// their prefix in the Local part, so encoding/xml emits them verbatim.
const (
	nsW       = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	nsR       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsWP      = "http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing"
	nsA       = "http://schemas.openxmlformats.org/drawingml/2006/main"
	nsPic     = "http://schemas.openxmlformats.org/drawingml/2006/picture"
	nsCP      = "http://schemas.openxmlformats.org/package/2006/metadata/core-properties"
	nsDC      = "http://purl.org/dc/elements/1.1/"
	nsDCTerms = "http://purl.org/dc/terms/"
	nsXSI     = "http://www.w3.org/2001/XMLSchema-instance"

	nsContentTypes  = "http://schemas.openxmlformats.org/package/2006/content-types"
	nsRelationships = "http://schemas.openxmlformats.org/package/2006/relationships"

	relOfficeDocument = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	relCoreProps      = "http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties"
	relStyles         = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles"
	relImage          = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"
)

// documentXML is word/document.xml.
type documentXML struct {
	XMLName xml.Name `xml:"w:document"`
	XmlnsW  string   `xml:"xmlns:w,attr"`
	XmlnsR  string   `xml:"xmlns:r,attr"`
	XmlnsWP string   `xml:"xmlns:wp,attr"`
	XmlnsA  string   `xml:"xmlns:a,attr"`
	XmlnsPi string   `xml:"xmlns:pic,attr"`
	Body    bodyXML  `xml:"w:body"`
}

// bodyXML keeps paragraphs and tables in one ordered slice; each block names
// itself through its XMLName.
type bodyXML struct {
	Blocks  []any
	Section sectionXML `xml:"w:sectPr"`
}

type sectionXML struct {
	PageSize   pageSizeXML   `xml:"w:pgSz"`
	PageMargin pageMarginXML `xml:"w:pgMar"`
}

type pageSizeXML struct {
	W int64 `xml:"w:w,attr"`
	H int64 `xml:"w:h,attr"`
}

type pageMarginXML struct {
	Top    int64 `xml:"w:top,attr"`
	Right  int64 `xml:"w:right,attr"`
	Bottom int64 `xml:"w:bottom,attr"`
	Left   int64 `xml:"w:left,attr"`
	Header int64 `xml:"w:header,attr"`
	Footer int64 `xml:"w:footer,attr"`
	Gutter int64 `xml:"w:gutter,attr"`
}

type valXML struct {
	Val string `xml:"w:val,attr"`
}

type emptyXML struct{}

// paragraphXML is <w:p>.
type paragraphXML struct {
	XMLName xml.Name           `xml:"w:p"`
	Props   *paragraphPropsXML `xml:"w:pPr"`
	Runs    []runXML
}

type paragraphPropsXML struct {
	Style  *valXML    `xml:"w:pStyle"`
	Indent *indentXML `xml:"w:ind"`
	Jc     *valXML    `xml:"w:jc"`
}

type indentXML struct {
	Left int64 `xml:"w:left,attr"`
}

// runXML is <w:r>.
type runXML struct {
	XMLName xml.Name     `xml:"w:r"`
	Props   *runPropsXML `xml:"w:rPr"`
	Break   *breakXML    `xml:"w:br"`
	Text    *textXML     `xml:"w:t"`
	Drawing *drawingXML  `xml:"w:drawing"`
}

type runPropsXML struct {
	Bold *emptyXML `xml:"w:b"`
}

type breakXML struct {
	Type string `xml:"w:type,attr,omitempty"`
}

type textXML struct {
	Space string `xml:"xml:space,attr,omitempty"`
	Value string `xml:",chardata"`
}

// tableXML is <w:tbl>.
type tableXML struct {
	XMLName xml.Name      `xml:"w:tbl"`
	Props   tablePropsXML `xml:"w:tblPr"`
	Grid    tableGridXML  `xml:"w:tblGrid"`
	Rows    []tableRowXML `xml:"w:tr"`
}

type tablePropsXML struct {
	Style   valXML          `xml:"w:tblStyle"`
	Width   widthXML        `xml:"w:tblW"`
	Borders tableBordersXML `xml:"w:tblBorders"`
}

type widthXML struct {
	W    int64  `xml:"w:w,attr"`
	Type string `xml:"w:type,attr"`
}

type tableBordersXML struct {
	Top     borderXML `xml:"w:top"`
	Left    borderXML `xml:"w:left"`
	Bottom  borderXML `xml:"w:bottom"`
	Right   borderXML `xml:"w:right"`
	InsideH borderXML `xml:"w:insideH"`
	InsideV borderXML `xml:"w:insideV"`
}

type borderXML struct {
	Val   string `xml:"w:val,attr"`
	Size  int    `xml:"w:sz,attr,omitempty"`
	Space string `xml:"w:space,attr,omitempty"`
	Color string `xml:"w:color,attr,omitempty"`
}

type tableGridXML struct {
	Cols []widthOnlyXML `xml:"w:gridCol"`
}

type widthOnlyXML struct {
	W int64 `xml:"w:w,attr"`
}

type tableRowXML struct {
	Cells []tableCellXML `xml:"w:tc"`
}

type tableCellXML struct {
	Props      cellPropsXML `xml:"w:tcPr"`
	Paragraphs []paragraphXML
}

type cellPropsXML struct {
	Width   widthXML    `xml:"w:tcW"`
	Shading *shadingXML `xml:"w:shd"`
}

type shadingXML struct {
	Val   string `xml:"w:val,attr"`
	Color string `xml:"w:color,attr"`
	Fill  string `xml:"w:fill,attr"`
}

// drawingXML is an inline picture anchored in a run.
type drawingXML struct {
	Inline inlineXML `xml:"wp:inline"`
}

type inlineXML struct {
	DistT   int64      `xml:"distT,attr"`
	DistB   int64      `xml:"distB,attr"`
	DistL   int64      `xml:"distL,attr"`
	DistR   int64      `xml:"distR,attr"`
	Extent  extentXML  `xml:"wp:extent"`
	DocPr   docPrXML   `xml:"wp:docPr"`
	Graphic graphicXML `xml:"a:graphic"`
}

type extentXML struct {
	Cx int64 `xml:"cx,attr"`
	Cy int64 `xml:"cy,attr"`
}

type docPrXML struct {
	ID   int    `xml:"id,attr"`
	Name string `xml:"name,attr"`
}

type graphicXML struct {
	Data graphicDataXML `xml:"a:graphicData"`
}

type graphicDataXML struct {
	URI string `xml:"uri,attr"`
	Pic picXML `xml:"pic:pic"`
}

type picXML struct {
	NvPicPr  nvPicPrXML  `xml:"pic:nvPicPr"`
	BlipFill blipFillXML `xml:"pic:blipFill"`
	SpPr     spPrXML     `xml:"pic:spPr"`
}

type nvPicPrXML struct {
	CNvPr    docPrXML `xml:"pic:cNvPr"`
	CNvPicPr emptyXML `xml:"pic:cNvPicPr"`
}

type blipFillXML struct {
	Blip    blipXML    `xml:"a:blip"`
	Stretch stretchXML `xml:"a:stretch"`
}

type blipXML struct {
	Embed string `xml:"r:embed,attr"`
}

type stretchXML struct {
	FillRect emptyXML `xml:"a:fillRect"`
}

type spPrXML struct {
	Xfrm xfrmXML     `xml:"a:xfrm"`
	Geom prstGeomXML `xml:"a:prstGeom"`
}

type xfrmXML struct {
	Off offXML    `xml:"a:off"`
	Ext extentXML `xml:"a:ext"`
}

type offXML struct {
	X int64 `xml:"x,attr"`
	Y int64 `xml:"y,attr"`
}

type prstGeomXML struct {
	Prst  string   `xml:"prst,attr"`
	AvLst emptyXML `xml:"a:avLst"`
}

// Package-level parts.

type contentTypesXML struct {
	XMLName   xml.Name          `xml:"http://schemas.openxmlformats.org/package/2006/content-types Types"`
	Defaults  []defaultTypeXML  `xml:"Default"`
	Overrides []overrideTypeXML `xml:"Override"`
}

type defaultTypeXML struct {
	Extension   string `xml:"Extension,attr"`
	ContentType string `xml:"ContentType,attr"`
}

type overrideTypeXML struct {
	PartName    string `xml:"PartName,attr"`
	ContentType string `xml:"ContentType,attr"`
}

type relationshipsXML struct {
	XMLName xml.Name          `xml:"http://schemas.openxmlformats.org/package/2006/relationships Relationships"`
	Rels    []relationshipXML `xml:"Relationship"`
}

type relationshipXML struct {
	ID     string `xml:"Id,attr"`
	Type   string `xml:"Type,attr"`
	Target string `xml:"Target,attr"`
}

type corePropsXML struct {
	XMLName     xml.Name `xml:"cp:coreProperties"`
	XmlnsCP     string   `xml:"xmlns:cp,attr"`
	XmlnsDC     string   `xml:"xmlns:dc,attr"`
	XmlnsDCTerm string   `xml:"xmlns:dcterms,attr"`
	XmlnsXSI    string   `xml:"xmlns:xsi,attr"`
	Title       string   `xml:"dc:title"`
	Creator     string   `xml:"dc:creator,omitempty"`
	Created     *w3cDate `xml:"dcterms:created"`
	Modified    *w3cDate `xml:"dcterms:modified"`
}

type w3cDate struct {
	Type  string `xml:"xsi:type,attr"`
	Value string `xml:",chardata"`
}

func marshalPart(v any) ([]byte, error) {
	out, err := xml.Marshal(v)
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), out...), nil
}
