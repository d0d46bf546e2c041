// Package view holds the state and presentation of the menu management page.
//
// A Manager owns one page's state: the form draft, the last fetched menu list
// and the loading and error flags. It reaches the menu API only through the
// MenuAPI interface, so it can be exercised without a server or a browser.
package view

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"menuboard/model"
)

// User-facing messages.
const (
	MsgFetchFailed     = "ไม่สามารถดึงข้อมูลเมนูได้ กรุณาลองใหม่อีกครั้ง"
	MsgSaveFailed      = "ไม่สามารถบันทึกเมนูได้ กรุณาลองใหม่อีกครั้ง"
	MsgMissingFields   = "กรุณากรอกข้อมูลชื่อเมนู ราคา และต้นทุนให้ครบถ้วน"
	MsgInvalidImage    = "กรุณาเลือกไฟล์รูปภาพที่เป็น JPEG หรือ PNG เท่านั้น"
	MsgImageTooLarge   = "ไฟล์รูปภาพมีขนาดใหญ่เกินไป กรุณาเลือกไฟล์ที่เล็กลง"
	MsgImageUnreadable = "ไม่สามารถอ่านไฟล์รูปภาพได้ กรุณาเลือกไฟล์ใหม่"
	MsgBusy            = "กำลังดำเนินการอยู่ กรุณารอสักครู่"
	MsgLoading         = "กำลังโหลดข้อมูล..."
	MsgEmptyList       = "ยังไม่มีเมนูในระบบ"
	MsgNoImage         = "ไม่มีรูป"
	CurrencyLabel      = "บาท"
	ImageTypeJPEG      = "image/jpeg"
	ImageTypePNG       = "image/png"
	operationFetchMenu = "fetch"
	operationSaveMenu  = "save"
)

// ErrBusy is returned by SaveMenu while another operation is in flight.
var ErrBusy = errors.New("another menu operation is in progress")

// ValidationError blocks a save before any request is made.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// MenuAPI is the data layer the Manager depends on.
type MenuAPI interface {
	ListMenus(ctx context.Context) ([]model.MenuRecord, error)
	CreateMenu(ctx context.Context, draft model.FormDraft) (string, error)
}

// State is a point-in-time copy of a Manager's state for rendering.
type State struct {
	Draft   model.FormDraft
	Menus   []model.MenuRecord
	Loading bool
	Error   string
	Notice  string
}

// Manager is the state behind one menu management page.
type Manager struct {
	api MenuAPI

	// op serializes fetch and save.
	op sync.Mutex

	mu      sync.Mutex
	draft   model.FormDraft
	menus   []model.MenuRecord
	loading bool
	err     string
	notice  string
	mounted bool
}

func NewManager(api MenuAPI) *Manager {
	return &Manager{api: api}
}

// Mount runs the initial fetch the first time the page is shown.
func (m *Manager) Mount(ctx context.Context) {
	m.mu.Lock()
	first := !m.mounted
	m.mounted = true
	m.mu.Unlock()

	if first {
		_ = m.FetchMenuList(ctx)
	}
}

// FetchMenuList replaces the list with the server's. On failure the previous
// list is kept and the error message is set.
func (m *Manager) FetchMenuList(ctx context.Context) error {
	m.op.Lock()
	defer m.op.Unlock()
	return m.fetchLocked(ctx)
}

func (m *Manager) fetchLocked(ctx context.Context) error {
	m.begin()
	menus, err := m.api.ListMenus(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.loading = false
	if err != nil {
		slog.Error("failed to fetch menu list", "error", err)
		menuOperations.WithLabelValues(operationFetchMenu, "failure").Inc()
		m.err = MsgFetchFailed
		return err
	}
	menuOperations.WithLabelValues(operationFetchMenu, "success").Inc()
	m.menus = menus
	return nil
}

// ValidateDraft checks the required fields and the declared image type.
// Price and cost are not parsed here; the server decides what is numeric.
func ValidateDraft(draft model.FormDraft) error {
	if draft.Name == "" || draft.Price == "" || draft.Cost == "" {
		return &ValidationError{Message: MsgMissingFields}
	}
	if draft.Image != nil && draft.Image.ContentType != ImageTypeJPEG && draft.Image.ContentType != ImageTypePNG {
		return &ValidationError{Message: MsgInvalidImage}
	}
	return nil
}

// SaveMenu sends the current draft. On success the server's message becomes
// the notice, the draft is cleared unless it was edited meanwhile, and the
// list is fetched again. On failure the draft is left as it was.
func (m *Manager) SaveMenu(ctx context.Context) (string, error) {
	if !m.op.TryLock() {
		m.SetNotice(MsgBusy)
		return "", ErrBusy
	}
	defer m.op.Unlock()

	draft := m.Draft()
	if err := ValidateDraft(draft); err != nil {
		m.SetNotice(err.Error())
		menuOperations.WithLabelValues(operationSaveMenu, "rejected").Inc()
		return "", err
	}

	m.begin()
	message, err := m.api.CreateMenu(ctx, draft)

	m.mu.Lock()
	m.loading = false
	if err != nil {
		m.err = MsgSaveFailed
		m.mu.Unlock()
		slog.Error("failed to save menu", "name", draft.Name, "error", err)
		menuOperations.WithLabelValues(operationSaveMenu, "failure").Inc()
		return "", err
	}
	m.notice = message
	if sameDraft(m.draft, draft) {
		m.draft = model.FormDraft{}
	}
	m.mu.Unlock()

	menuOperations.WithLabelValues(operationSaveMenu, "success").Inc()
	slog.Info("menu saved", "name", draft.Name)

	_ = m.fetchLocked(ctx)
	return message, nil
}

// sameDraft compares field values and image identity.
func sameDraft(a, b model.FormDraft) bool {
	return a.Name == b.Name && a.Price == b.Price && a.Cost == b.Cost && a.Image == b.Image
}

// Cancel clears the draft. It never touches the network.
func (m *Manager) Cancel() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.draft = model.FormDraft{}
}

// UpdateDraft applies a form post. A nil image keeps the one already picked.
func (m *Manager) UpdateDraft(name, price, cost string, image *model.ImageFile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.draft.Name = name
	m.draft.Price = price
	m.draft.Cost = cost
	if image != nil {
		m.draft.Image = image
	}
}

// Draft returns a copy of the current draft.
func (m *Manager) Draft() model.FormDraft {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.draft
}

// Snapshot copies the state and consumes the pending notice.
func (m *Manager) Snapshot() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	st := State{
		Draft:   m.draft,
		Menus:   append([]model.MenuRecord(nil), m.menus...),
		Loading: m.loading,
		Error:   m.err,
		Notice:  m.notice,
	}
	m.notice = ""
	return st
}

// Menus returns a copy of the last fetched list.
func (m *Manager) Menus() []model.MenuRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.MenuRecord(nil), m.menus...)
}

func (m *Manager) begin() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loading = true
	m.err = ""
}

// SetNotice queues a one-shot message for the next render.
func (m *Manager) SetNotice(msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notice = msg
}
