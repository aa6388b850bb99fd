package pdf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsPDF(t *testing.T) {
	assert.True(t, IsPDF([]byte("%PDF-1.7\n...")))
	assert.True(t, IsPDF([]byte("\n%PDF-1.4")))
	assert.False(t, IsPDF([]byte("PK\x03\x04")))
	assert.False(t, IsPDF(nil))
}

func TestExtractText_RejectsNonPDF(t *testing.T) {
	_, err := ExtractText([]byte("hello world"))
	assert.ErrorIs(t, err, ErrNotPDF)
}

func TestExtractText_TruncatedDocumentErrors(t *testing.T) {
	_, err := ExtractText([]byte("%PDF-1.4\n1 0 obj\n<<>>\n"))
	assert.Error(t, err)
}
