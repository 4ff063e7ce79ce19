package identifier

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("matches expected format", func(t *testing.T) {
		id := New("INV")
		assert.Regexp(t, regexp.MustCompile(`^INV-\d{6}-[A-Z0-9]{4}$`), id)
	})

	t.Run("embeds the current date", func(t *testing.T) {
		now := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
		id := newAt("CLT", now)
		require.Len(t, id, len("CLT-240315-XXXX"))
		assert.Equal(t, "CLT-240315-", id[:11])
	})

	t.Run("suffix stays within the uppercase alphanumeric alphabet", func(t *testing.T) {
		suffixPattern := regexp.MustCompile(`^[A-Z0-9]{4}$`)
		for i := 0; i < 200; i++ {
			id := New("CLT")
			assert.Regexp(t, suffixPattern, id[len(id)-4:])
		}
	})
}
