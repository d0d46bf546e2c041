package view

import (
	"embed"
	"html/template"

	"menuboard/model"
)

//go:embed templates/menu.gohtml
var templateFS embed.FS

// PageTemplate is the template name used with gin's HTML renderer.
const PageTemplate = "menu.gohtml"

// ParseTemplates parses the embedded page template.
func ParseTemplates() (*template.Template, error) {
	return template.ParseFS(templateFS, "templates/"+PageTemplate)
}

// NavItem is one sidebar entry. Only the menu entry is active; the rest are
// placeholders with no behavior.
type NavItem struct {
	Label  string
	Active bool
}

var navItems = []NavItem{
	{Label: "ข้อมูลคำสั่งซื้อ"},
	{Label: "ข้อมูลเมนู", Active: true},
	{Label: "สถานะของหุ่นยนต์"},
	{Label: "เมนูที่ขายไปวันนี้"},
	{Label: "รายการยอดขาย"},
}

// Row is one table line.
type Row struct {
	Key      string
	Index    int
	Name     string
	Price    string
	Cost     string
	ImageURL string
	NoImage  string
}

// Rows formats records for the table. Image paths are resolved against baseURL.
func Rows(records []model.MenuRecord, baseURL string) []Row {
	rows := make([]Row, 0, len(records))
	for i, rec := range records {
		row := Row{
			Key:   rec.ID,
			Index: i + 1,
			Name:  rec.Name,
			Price: rec.PriceLabel() + " " + CurrencyLabel,
			Cost:  rec.CostLabel() + " " + CurrencyLabel,
		}
		if rec.HasImage() {
			row.ImageURL = baseURL + rec.Image
		} else {
			row.NoImage = MsgNoImage
		}
		rows = append(rows, row)
	}
	return rows
}

// Page is the data handed to the page template.
type Page struct {
	Nav           []NavItem
	Draft         model.FormDraft
	ImageName     string
	Loading       bool
	LoadingText   string
	Error         string
	Notice        string
	Rows          []Row
	EmptyText     string
	SaveDisabled  bool
	ImageAccept   string
	ExportEnabled bool
}

// NewPage builds template data from a state snapshot.
func NewPage(st State, baseURL string) Page {
	p := Page{
		Nav:           navItems,
		Draft:         st.Draft,
		Loading:       st.Loading,
		LoadingText:   MsgLoading,
		Error:         st.Error,
		Notice:        st.Notice,
		Rows:          Rows(st.Menus, baseURL),
		EmptyText:     MsgEmptyList,
		SaveDisabled:  st.Loading,
		ImageAccept:   ImageTypeJPEG + "," + ImageTypePNG,
		ExportEnabled: len(st.Menus) > 0,
	}
	if st.Draft.Image != nil {
		p.ImageName = st.Draft.Image.Filename
	}
	return p
}
