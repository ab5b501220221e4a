package encoding_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"github.com/MrJamesThe3rd/birr/internal/encoding"
)

func TestDecodeText_UTF8Passthrough(t *testing.T) {
	input := "Receiver YEABSERA MELAKU\nAmount 500.00 ETB\n"

	got, err := encoding.DecodeText([]byte(input))
	require.NoError(t, err)
	assert.Equal(t, input, got)
}

func TestDecodeText_NormalizesLineEndings(t *testing.T) {
	got, err := encoding.DecodeText([]byte("Receiver ABEBE\r\nAccount 1****1517\rDone"))
	require.NoError(t, err)
	assert.Equal(t, "Receiver ABEBE\nAccount 1****1517\nDone", got)
}

func TestDecodeText_UTF8BOM(t *testing.T) {
	input := append([]byte{0xEF, 0xBB, 0xBF}, []byte("Reference No. FTAB12CD34EF\n")...)

	got, err := encoding.DecodeText(input)
	require.NoError(t, err)
	assert.Equal(t, "Reference No. FTAB12CD34EF\n", got)
}

func TestDecodeText_UTF16LE(t *testing.T) {
	enc := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder()
	input, err := enc.Bytes([]byte("Payment Date Oct 14 2026\n"))
	require.NoError(t, err)

	got, err := encoding.DecodeText(input)
	require.NoError(t, err)
	assert.Equal(t, "Payment Date Oct 14 2026\n", got)
}

func TestDecodeText_Latin1(t *testing.T) {
	latin1, err := charmap.Windows1252.NewEncoder().Bytes([]byte("Café Receiver\n"))
	require.NoError(t, err)

	got, err := encoding.DecodeText(latin1)
	require.NoError(t, err)
	assert.Equal(t, "Café Receiver\n", got)
}
