package pagination_test

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/apphgio/tools_platform_app/internal/utils/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursorRoundTrip(t *testing.T) {
	createdAt := time.Date(2025, 6, 15, 10, 30, 0, 123456789, time.UTC)
	id := "log-abc-123"

	token := pagination.EncodeCursor(createdAt, id)
	gotTime, gotID, err := pagination.DecodeCursor(token)

	require.NoError(t, err)
	assert.True(t, createdAt.Equal(gotTime))
	assert.Equal(t, id, gotID)
}

func TestCursorRoundTripWithSeparatorInID(t *testing.T) {
	// SplitN keeps any later separators inside the ID part.
	createdAt := time.Now().UTC()
	id := "weird|id|with|pipes"

	token := pagination.EncodeCursor(createdAt, id)
	_, gotID, err := pagination.DecodeCursor(token)

	require.NoError(t, err)
	assert.Equal(t, id, gotID)
}

func TestDecodeCursorInvalidBase64(t *testing.T) {
	_, _, err := pagination.DecodeCursor("not base64 at all!!!")
	assert.Error(t, err)
}

func TestDecodeCursorMissingSeparator(t *testing.T) {
	token := base64.StdEncoding.EncodeToString([]byte("no-separator-here"))
	_, _, err := pagination.DecodeCursor(token)
	assert.Error(t, err)
}

func TestDecodeCursorBadTimestamp(t *testing.T) {
	token := base64.StdEncoding.EncodeToString([]byte("yesterday|some-id"))
	_, _, err := pagination.DecodeCursor(token)
	assert.Error(t, err)
}
