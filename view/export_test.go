package view

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"menuboard/model"
)

func TestExportWorkbook(t *testing.T) {
	var buf bytes.Buffer
	err := ExportWorkbook(&buf, []model.MenuRecord{
		latte,
		{ID: "2", Name: "Mocha", Price: 65.5, Cost: 25, Image: "/uploads/mocha.png"},
	}, testBaseURL)
	require.NoError(t, err)

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(exportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"#", "ชื่อเมนู", "ราคา", "ต้นทุน", "รูปภาพ"}, rows[0])
	assert.Equal(t, []string{"1", "Latte", "60", "20", "ไม่มีรูป"}, rows[1])
	assert.Equal(t, "http://localhost:5000/uploads/mocha.png", rows[2][4])
}
