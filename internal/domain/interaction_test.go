package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"inkwell/internal/domain"
)

func TestParseAction(t *testing.T) {
	t.Run("Returns the canonical constant", func(t *testing.T) {
		buf := []byte(" Follow ")
		a, err := domain.ParseAction(string(buf))
		assert.NoError(t, err)
		assert.Equal(t, domain.ActionFollow, a)

		copy(buf, "xxxxxxxx")
		assert.Equal(t, "follow", string(a))
	})

	t.Run("Rejects unknown actions", func(t *testing.T) {
		_, err := domain.ParseAction("share")
		assert.ErrorIs(t, err, domain.ErrUnsupportedAction)

		_, err = domain.ParseAction("")
		assert.ErrorIs(t, err, domain.ErrUnsupportedAction)
	})
}
