package models

// DocumentKind identifies how an uploaded file is decoded.
type DocumentKind string

const (
	KindPDF     DocumentKind = "pdf"
	KindDOCX    DocumentKind = "docx"
	KindDOC     DocumentKind = "doc"
	KindXLSX    DocumentKind = "xlsx"
	KindXLS     DocumentKind = "xls"
	KindUnknown DocumentKind = "unknown"
)

// Extension returns the canonical file extension, or "" for KindUnknown.
func (k DocumentKind) Extension() string {
	switch k {
	case KindPDF, KindDOCX, KindDOC, KindXLSX, KindXLS:
		return "." + string(k)
	default:
		return ""
	}
}

func (k DocumentKind) IsSpreadsheet() bool {
	return k == KindXLSX || k == KindXLS
}

// StoredDocument describes a résumé persisted in the blob store.
type StoredDocument struct {
	FileID    string
	FileName  string
	Container string
	Kind      DocumentKind
	Size      int
}
