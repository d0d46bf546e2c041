package model

// ImageFile is an image picked in the form, held in memory until it is sent.
type ImageFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// FormDraft is the unsaved form input. Price and cost stay raw text until the
// server parses them.
type FormDraft struct {
	Name  string
	Price string
	Cost  string
	Image *ImageFile
}

// IsEmpty reports whether every field is unset.
func (d FormDraft) IsEmpty() bool {
	return d.Name == "" && d.Price == "" && d.Cost == "" && d.Image == nil
}
