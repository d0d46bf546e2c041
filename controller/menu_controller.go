package controller

import (
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"menuboard/database"
	"menuboard/model"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

const (
	UploadURLPrefix = "/uploads"

	msgMenuAdded     = "เพิ่มเมนูสำเร็จ"
	msgBulkMenuAdded = "นำเข้าเมนูสำเร็จ"
)

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
}

// MenuController serves the reference menu API.
type MenuController struct {
	Store         database.MenuStore
	UploadDir     string
	MaxImageBytes int64
}

func NewMenuController(store database.MenuStore, uploadDir string, maxImageBytes int64) *MenuController {
	return &MenuController{Store: store, UploadDir: uploadDir, MaxImageBytes: maxImageBytes}
}

// ListMenus answers GET /menus with a bare JSON array.
func (mc *MenuController) ListMenus(c *gin.Context) {
	menus, err := mc.Store.List(c.Request.Context())
	if err != nil {
		slog.Error("failed to list menus", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to fetch menus",
		})
		return
	}
	c.JSON(http.StatusOK, menus)
}

// AddMenu handles POST /add-menu with multipart fields name, price, cost and
// an optional image.
func (mc *MenuController) AddMenu(c *gin.Context) {
	name := strings.TrimSpace(c.PostForm("name"))
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Menu name is required",
		})
		return
	}

	price, err := parseAmount(c.PostForm("price"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid or missing price",
		})
		return
	}

	cost, err := parseAmount(c.PostForm("cost"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid or missing cost",
		})
		return
	}

	menu := model.Menu{Name: name, Price: price, Cost: cost}

	file, err := c.FormFile("image")
	if err == nil {
		path, status, err := mc.saveImage(c, file)
		if err != nil {
			c.JSON(status, gin.H{
				"success": false,
				"error":   err.Error(),
			})
			return
		}
		menu.Image = path
	}

	if err := mc.Store.Create(c.Request.Context(), &menu); err != nil {
		if menu.Image != "" {
			mc.removeImage(menu.Image)
		}
		slog.Error("failed to create menu", "name", name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   fmt.Sprintf("Failed to create menu: %v", err),
		})
		return
	}

	slog.Info("menu created", "id", menu.ID, "name", menu.Name, "hasImage", menu.Image != "")
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": msgMenuAdded,
		"data":    menu,
	})
}

// BulkAddMenu imports menus from the first sheet of an uploaded workbook.
// The first row is a header; columns are name, price, cost.
func (mc *MenuController) BulkAddMenu(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Excel file is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Unable to open Excel file"})
		return
	}
	defer file.Close()

	xl, err := excelize.OpenReader(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Failed to parse Excel file"})
		return
	}
	defer xl.Close()

	sheet := xl.GetSheetName(0)
	rows, err := xl.GetRows(sheet)
	if err != nil || len(rows) < 2 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Excel must have at least one row of data"})
		return
	}

	var menus []model.Menu
	skipped := 0
	for rowIndex, row := range rows[1:] {
		menu, err := menuFromRow(row)
		if err != nil {
			skipped++
			slog.Warn("skipping excel row", "row", rowIndex+2, "error", err)
			continue
		}
		menus = append(menus, menu)
	}

	if len(menus) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "No valid rows found"})
		return
	}

	if err := mc.Store.CreateBatch(c.Request.Context(), menus); err != nil {
		slog.Error("failed to insert menus", "count", len(menus), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to insert menus"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": msgBulkMenuAdded,
		"count":   len(menus),
		"skipped": skipped,
	})
}

func menuFromRow(row []string) (model.Menu, error) {
	if len(row) < 3 {
		return model.Menu{}, fmt.Errorf("incomplete row")
	}
	name := strings.TrimSpace(row[0])
	if name == "" {
		return model.Menu{}, fmt.Errorf("name is empty")
	}
	price, err := parseAmount(row[1])
	if err != nil {
		return model.Menu{}, fmt.Errorf("invalid price %q", row[1])
	}
	cost, err := parseAmount(row[2])
	if err != nil {
		return model.Menu{}, fmt.Errorf("invalid cost %q", row[2])
	}
	return model.Menu{Name: name, Price: price, Cost: cost}, nil
}

func parseAmount(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, fmt.Errorf("negative amount")
	}
	return v, nil
}

// saveImage validates the upload by size and sniffed content and stores it
// under UploadDir. It returns the public path.
func (mc *MenuController) saveImage(c *gin.Context, file *multipart.FileHeader) (string, int, error) {
	if mc.MaxImageBytes > 0 && file.Size > mc.MaxImageBytes {
		return "", http.StatusBadRequest, fmt.Errorf("Image size exceeds %dMB limit", mc.MaxImageBytes>>20)
	}

	src, err := file.Open()
	if err != nil {
		return "", http.StatusBadRequest, fmt.Errorf("Unable to read image")
	}
	mtype, err := mimetype.DetectReader(src)
	src.Close()
	if err != nil {
		return "", http.StatusBadRequest, fmt.Errorf("Unable to read image")
	}

	ext, ok := allowedImageTypes[mtype.String()]
	if !ok {
		return "", http.StatusBadRequest, fmt.Errorf("Invalid file type, only JPG/JPEG/PNG allowed")
	}

	if err := os.MkdirAll(mc.UploadDir, 0755); err != nil {
		return "", http.StatusInternalServerError, fmt.Errorf("Failed to create upload directory: %v", err)
	}

	newFileName := fmt.Sprintf("menu-%d%s", time.Now().UnixNano(), ext)
	if err := c.SaveUploadedFile(file, filepath.Join(mc.UploadDir, newFileName)); err != nil {
		return "", http.StatusInternalServerError, fmt.Errorf("Failed to save image: %v", err)
	}
	return UploadURLPrefix + "/" + newFileName, http.StatusOK, nil
}

func (mc *MenuController) removeImage(publicPath string) {
	name := strings.TrimPrefix(publicPath, UploadURLPrefix+"/")
	if err := os.Remove(filepath.Join(mc.UploadDir, name)); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to remove orphaned image", "path", publicPath, "error", err)
	}
}
