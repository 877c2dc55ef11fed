package products

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCachedReaderServesCacheUntilFileChanges(t *testing.T) {
	path := writeCatalog(t, catalogJSON)
	c, err := NewCachedReader(NewFileReader(path), zap.NewNop())
	require.NoError(t, err)
	defer c.Close()

	list, err := c.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 3)

	require.NoError(t, os.WriteFile(path, []byte(`[{"id":"only","name":"Only","category":"other","price":1,"unit":"each","description":""}]`), 0o644))

	assert.Eventually(t, func() bool {
		list, err := c.List(context.Background())
		return err == nil && len(list) == 1 && list[0].ID == "only"
	}, 5*time.Second, 20*time.Millisecond)
}

func TestCachedReaderReturnsCopies(t *testing.T) {
	c, err := NewCachedReader(NewFileReader(writeCatalog(t, catalogJSON)), zap.NewNop())
	require.NoError(t, err)
	defer c.Close()

	first, err := c.List(context.Background())
	require.NoError(t, err)
	first[0].Name = "changed"

	second, err := c.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Catfish Fillet", second[0].Name)
}
