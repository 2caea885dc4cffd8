package path

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRootPathHasGoMod(t *testing.T) {
	_, err := os.Stat(filepath.Join(RootPath(), "go.mod"))
	assert.NoError(t, err)
}

func TestResolve(t *testing.T) {
	assert.Equal(t, "", Resolve("/srv/costlens", ""))
	assert.Equal(t, "/etc/costlens.yaml", Resolve("/srv/costlens", "/etc/costlens.yaml"))
	assert.Equal(t, "/srv/costlens/.env", Resolve("/srv/costlens", ".env"))
	assert.Equal(t, "/srv/costlens/conf/dev.yaml", Resolve("/srv/costlens", "dev.yaml", "conf"))
}
