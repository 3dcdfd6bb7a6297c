package service

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/classtrack/classtrack-backend/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUploadService() *UploadService {
	return NewUploadService(&config.Config{UploadDir: filepath.FromSlash("/srv/classtrack/uploads")})
}

func TestDiskPathResolvesUnderUploadRoot(t *testing.T) {
	svc := newTestUploadService()

	got, err := svc.DiskPath("/uploads/submissions/10/2/abc.pdf")
	require.NoError(t, err)
	assert.Equal(t, filepath.FromSlash("/srv/classtrack/uploads/submissions/10/2/abc.pdf"), got)
}

func TestDiskPathRejectsEscapingPaths(t *testing.T) {
	svc := newTestUploadService()

	for _, stored := range []string{
		"/uploads/../../../../etc/passwd",
		"/uploads/..",
		"/uploads/submissions/../../secret",
		"/uploads//etc/passwd",
	} {
		got, err := svc.DiskPath(stored)
		require.ErrorIs(t, err, ErrBadFileName, "stored path %q", stored)
		assert.Empty(t, got)
	}
}

func TestDiskPathNeverLeavesUploadDir(t *testing.T) {
	svc := newTestUploadService()
	root := svc.cfg.UploadDir + string(filepath.Separator)

	// Whatever DiskPath accepts must stay inside the upload root.
	for _, stored := range []string{
		"/uploads/submissions/10/2/abc.pdf",
		"/uploads/a/./b.txt",
		"/uploads/a/b/../c.txt",
	} {
		got, err := svc.DiskPath(stored)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(got, root), "resolved %q from %q", got, stored)
	}
}

func TestValidAttachmentName(t *testing.T) {
	valid := []string{"abc.pdf", "550e8400-e29b-41d4-a716-446655440000.docx", "noext"}
	invalid := []string{"", ".", "..", "../x.pdf", "a/b.pdf", `a\b.pdf`, "/abs.pdf"}

	for _, name := range valid {
		assert.True(t, validAttachmentName(name), "name %q", name)
	}
	for _, name := range invalid {
		assert.False(t, validAttachmentName(name), "name %q", name)
	}
}
