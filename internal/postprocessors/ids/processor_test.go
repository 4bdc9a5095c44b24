package ids

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/chatlens/internal/core/domain"
)

func TestProcess_AssignsUUIDs(t *testing.T) {
	out, err := New().Process(context.Background(), []domain.Message{{Body: "a"}, {Body: "b"}})

	require.NoError(t, err)
	require.Len(t, out, 2)
	_, err = uuid.Parse(out[0].ID)
	assert.NoError(t, err)
	assert.NotEqual(t, out[0].ID, out[1].ID)
}

func TestProcess_KeepsExistingIDs(t *testing.T) {
	out, err := New().Process(context.Background(), []domain.Message{{ID: "keep-me"}})

	require.NoError(t, err)
	assert.Equal(t, "keep-me", out[0].ID)
}

func TestName(t *testing.T) {
	assert.Equal(t, "ids", New().Name())
}
