package plaintext

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/chatlens/internal/core/domain"
	"github.com/custodia-labs/chatlens/internal/core/ports/driven"
)

func TestNormaliser_Metadata(t *testing.T) {
	n := New()

	assert.Equal(t, "whatsapp-text", n.Name())
	assert.Equal(t, []string{".txt"}, n.SupportedExtensions())
	assert.Contains(t, n.SupportedMIMETypes(), "text/plain")
	assert.Equal(t, 50, n.Priority())
}

func TestNormalise_Success(t *testing.T) {
	content := "[15/01/2025, 10:30] Alice: hi\nsecond line"
	raw := domain.NewRawFile("chat.txt", "text/plain", []byte(content))

	result, err := New().Normalise(context.Background(), raw)

	require.NoError(t, err)
	assert.False(t, result.Structured)
	assert.Equal(t, content, result.Text)
	assert.Nil(t, result.Messages)
}

func TestNormalise_StripsBOM(t *testing.T) {
	raw := domain.NewRawFile("chat.txt", "", append([]byte{0xEF, 0xBB, 0xBF}, "hello"...))

	result, err := New().Normalise(context.Background(), raw)

	require.NoError(t, err)
	assert.Equal(t, "hello", result.Text)
}

func TestNormalise_Errors(t *testing.T) {
	n := New()

	_, err := n.Normalise(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = n.Normalise(context.Background(), domain.NewRawFile("chat.txt", "", []byte{}))
	assert.ErrorIs(t, err, domain.ErrEmptyInput)
}

func TestInterfaceCompliance(t *testing.T) {
	var _ driven.Normaliser = (*Normaliser)(nil)
}
