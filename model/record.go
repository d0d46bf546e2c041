package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// MenuRecord is a menu entry as seen by the UI. It is only ever built by
// ParseMenuRecords so every instance has passed the shape checks.
type MenuRecord struct {
	ID    string
	Name  string
	Price float64
	Cost  float64
	Image string

	// PriceText and CostText hold amounts the server sent as strings,
	// exactly as received.
	PriceText string
	CostText  string
}

// PriceLabel is the price as it should be displayed.
func (r MenuRecord) PriceLabel() string {
	if r.PriceText != "" {
		return r.PriceText
	}
	return FormatAmount(r.Price)
}

// CostLabel is the cost as it should be displayed.
func (r MenuRecord) CostLabel() string {
	if r.CostText != "" {
		return r.CostText
	}
	return FormatAmount(r.Cost)
}

// HasImage reports whether the server returned an image path.
func (r MenuRecord) HasImage() bool {
	return r.Image != ""
}

type rawRecord struct {
	ID    json.RawMessage `json:"id"`
	Name  *string         `json:"name"`
	Price json.RawMessage `json:"price"`
	Cost  json.RawMessage `json:"cost"`
	Image *string         `json:"image"`
}

// ParseMenuRecords decodes a GET /menus body. Any element that does not look
// like a menu record fails the whole batch.
func ParseMenuRecords(data []byte) ([]MenuRecord, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("menu list must be a JSON array")
	}

	var raw []rawRecord
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, fmt.Errorf("decode menu list: %w", err)
	}

	records := make([]MenuRecord, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for i, r := range raw {
		rec, err := r.toRecord()
		if err != nil {
			return nil, fmt.Errorf("menu %d: %w", i, err)
		}
		if _, dup := seen[rec.ID]; dup {
			return nil, fmt.Errorf("menu %d: duplicate id %q", i, rec.ID)
		}
		seen[rec.ID] = struct{}{}
		records = append(records, rec)
	}
	return records, nil
}

func (r rawRecord) toRecord() (MenuRecord, error) {
	id, err := parseID(r.ID)
	if err != nil {
		return MenuRecord{}, err
	}
	if r.Name == nil || strings.TrimSpace(*r.Name) == "" {
		return MenuRecord{}, fmt.Errorf("name is missing")
	}
	price, priceText, err := parseNumber("price", r.Price)
	if err != nil {
		return MenuRecord{}, err
	}
	cost, costText, err := parseNumber("cost", r.Cost)
	if err != nil {
		return MenuRecord{}, err
	}

	rec := MenuRecord{
		ID:        id,
		Name:      *r.Name,
		Price:     price,
		Cost:      cost,
		PriceText: priceText,
		CostText:  costText,
	}
	if r.Image != nil {
		rec.Image = *r.Image
	}
	return rec, nil
}

// parseID accepts numeric and string ids and keeps them as text.
func parseID(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", fmt.Errorf("id is missing")
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if s == "" {
			return "", fmt.Errorf("id is empty")
		}
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("id must be a string or number")
	}
	return n.String(), nil
}

// parseNumber accepts JSON numbers and numeric strings. For strings the
// text is returned too so it can be shown unchanged.
func parseNumber(field string, raw json.RawMessage) (float64, string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, "", fmt.Errorf("%s is missing", field)
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f, "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		text := strings.TrimSpace(s)
		if f, err := strconv.ParseFloat(text, 64); err == nil {
			return f, text, nil
		}
	}
	return 0, "", fmt.Errorf("%s must be numeric", field)
}

// FormatAmount renders a price or cost without trailing zeros.
func FormatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
