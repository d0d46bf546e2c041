package controller

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"menuboard/model"
	"menuboard/utils"
	"menuboard/view"

	"github.com/gin-gonic/gin"
)

const (
	SessionCookie = "menuboard_session"
	xlsxMIME      = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// ViewController serves the menu management page.
type ViewController struct {
	Sessions      *view.Sessions
	BaseURL       string
	MaxImageBytes int64
	SessionTTL    time.Duration
}

func NewViewController(sessions *view.Sessions, baseURL string, maxImageBytes int64, sessionTTL time.Duration) *ViewController {
	return &ViewController{
		Sessions:      sessions,
		BaseURL:       baseURL,
		MaxImageBytes: maxImageBytes,
		SessionTTL:    sessionTTL,
	}
}

// manager resolves the caller's session, issuing a cookie for new ones.
func (vc *ViewController) manager(c *gin.Context) *view.Manager {
	current, _ := c.Cookie(SessionCookie)
	id, m := vc.Sessions.Get(current)
	if id != current {
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(SessionCookie, id, int(vc.SessionTTL.Seconds()), "/", "", c.Request.TLS != nil, true)
	}
	return m
}

func (vc *ViewController) render(c *gin.Context, status int, m *view.Manager) {
	c.HTML(status, view.PageTemplate, view.NewPage(m.Snapshot(), vc.BaseURL))
}

// Index renders the page, fetching the menu list on the first visit.
func (vc *ViewController) Index(c *gin.Context) {
	m := vc.manager(c)
	m.Mount(c.Request.Context())
	vc.render(c, http.StatusOK, m)
}

// Save applies the posted form to the draft and submits it.
func (vc *ViewController) Save(c *gin.Context) {
	m := vc.manager(c)

	image, status, notice, err := vc.readImage(c)
	if err != nil {
		slog.Warn("rejecting image upload", "requestID", utils.GetRequestID(c), "error", err)
		m.UpdateDraft(c.PostForm("name"), c.PostForm("price"), c.PostForm("cost"), nil)
		m.SetNotice(notice)
		vc.render(c, status, m)
		return
	}
	m.UpdateDraft(c.PostForm("name"), c.PostForm("price"), c.PostForm("cost"), image)

	_, err = m.SaveMenu(c.Request.Context())
	var verr *view.ValidationError
	switch {
	case errors.As(err, &verr):
		vc.render(c, http.StatusUnprocessableEntity, m)
	case errors.Is(err, view.ErrBusy):
		vc.render(c, http.StatusConflict, m)
	default:
		c.Redirect(http.StatusSeeOther, "/")
	}
}

// Cancel clears the draft.
func (vc *ViewController) Cancel(c *gin.Context) {
	vc.manager(c).Cancel()
	c.Redirect(http.StatusSeeOther, "/")
}

// Refresh fetches the menu list again.
func (vc *ViewController) Refresh(c *gin.Context) {
	_ = vc.manager(c).FetchMenuList(c.Request.Context())
	c.Redirect(http.StatusSeeOther, "/")
}

// Export downloads the current list snapshot as a workbook. Without a live
// session the workbook only carries the header row.
func (vc *ViewController) Export(c *gin.Context) {
	var menus []model.MenuRecord
	if id, err := c.Cookie(SessionCookie); err == nil {
		if m, ok := vc.Sessions.Lookup(id); ok {
			menus = m.Menus()
		}
	}

	var buf bytes.Buffer
	if err := view.ExportWorkbook(&buf, menus, vc.BaseURL); err != nil {
		slog.Error("failed to export menus", "error", err)
		c.String(http.StatusInternalServerError, "export failed")
		return
	}
	c.Header("Content-Disposition", `attachment; filename="menus.xlsx"`)
	c.Data(http.StatusOK, xlsxMIME, buf.Bytes())
}

// Health reports liveness.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// readImage returns the picked file, or nil when the form carries none. A
// rejected file comes back with the status and the notice to show.
func (vc *ViewController) readImage(c *gin.Context) (*model.ImageFile, int, string, error) {
	header, err := c.FormFile("image")
	if err != nil || header.Filename == "" {
		return nil, http.StatusOK, "", nil
	}
	if vc.MaxImageBytes > 0 && header.Size > vc.MaxImageBytes {
		return nil, http.StatusRequestEntityTooLarge, view.MsgImageTooLarge,
			fmt.Errorf("image larger than %d bytes", vc.MaxImageBytes)
	}

	f, err := header.Open()
	if err != nil {
		return nil, http.StatusBadRequest, view.MsgImageUnreadable, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, http.StatusBadRequest, view.MsgImageUnreadable, err
	}
	return &model.ImageFile{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, http.StatusOK, "", nil
}
