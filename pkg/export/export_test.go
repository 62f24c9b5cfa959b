package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/rbc-sheets-api/pkg/sheets"
)

var sample = Table{
	Title:   "Courses",
	Headers: []string{"ID", "Course Name", "Fee"},
	Rows: []sheets.Row{
		{"ID": "1", "Course Name": "Basic, Computer", "Fee": "5000"},
		{"ID": "2", "Course Name": "Tally"},
	},
}

func TestCSVRender(t *testing.T) {
	out, err := CSV{}.Render(sample)
	require.NoError(t, err)
	assert.Equal(t, "ID,Course Name,Fee\n1,\"Basic, Computer\",5000\n2,Tally,\n", string(out))
}

func TestPDFRender(t *testing.T) {
	out, err := PDF{}.Render(sample)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestRenderRequiresHeaders(t *testing.T) {
	_, err := CSV{}.Render(Table{})
	assert.Error(t, err)
	_, err = PDF{}.Render(Table{})
	assert.Error(t, err)
}

func TestForFormat(t *testing.T) {
	r, err := ForFormat("")
	require.NoError(t, err)
	assert.Equal(t, "csv", r.Extension())

	r, err = ForFormat("PDF")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", r.ContentType())

	_, err = ForFormat("xlsx")
	assert.Error(t, err)
}
