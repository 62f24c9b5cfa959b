package sheets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tuition struct {
	ID     string  `sheet:"ID"`
	Name   string  `sheet:"Course Name"`
	Fee    float64 `sheet:"Fee"`
	Seats  int     `sheet:"Seats"`
	Secret string  `sheet:"-"`
	plain  string
}

func TestDecodeParsesNumbers(t *testing.T) {
	var out tuition
	require.NoError(t, Decode(Row{"ID": "1", "Course Name": "Tally", "Fee": "4500.50", "Seats": "x"}, &out))
	assert.Equal(t, "Tally", out.Name)
	assert.Equal(t, 4500.5, out.Fee)
	assert.Equal(t, 0, out.Seats)
}

func TestDecodeRejectsNonPointer(t *testing.T) {
	assert.Error(t, Decode(Row{}, tuition{}))
}

func TestEncodeFormatsNumbers(t *testing.T) {
	row, err := Encode(tuition{ID: "1", Name: "DCA", Fee: 5000, Seats: 30, Secret: "s", plain: "p"})
	require.NoError(t, err)
	assert.Equal(t, Row{"ID": "1", "Course Name": "DCA", "Fee": "5000", "Seats": "30"}, row)
}
