package migrations

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFS(t *testing.T) {
	for _, driver := range []string{"postgres", "mysql"} {
		t.Run(driver, func(t *testing.T) {
			fsys, err := FS(driver)
			require.NoError(t, err)

			up, err := fs.Glob(fsys, "*.up.sql")
			require.NoError(t, err)
			down, err := fs.Glob(fsys, "*.down.sql")
			require.NoError(t, err)

			assert.NotEmpty(t, up)
			assert.Len(t, down, len(up))

			data, err := fs.ReadFile(fsys, up[0])
			require.NoError(t, err)
			assert.Contains(t, string(data), "vault_credentials")
		})
	}

	t.Run("unsupported", func(t *testing.T) {
		_, err := FS("sqlite")
		assert.Error(t, err)
	})
}
