package view

import (
	"bytes"
	"testing"

	"github.com/leca/picvault/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, p Page) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, p))
	return buf.String()
}

func TestRenderLoginForm(t *testing.T) {
	out := render(t, Page{})

	assert.Contains(t, out, `action="/login"`)
	assert.Contains(t, out, `type="password"`)
	assert.NotContains(t, out, `enctype="multipart/form-data"`)
	assert.NotContains(t, out, "/logout")
}

func TestRenderEmptyGallery(t *testing.T) {
	out := render(t, Page{LoggedIn: true})

	assert.Contains(t, out, `enctype="multipart/form-data"`)
	assert.Contains(t, out, `href="/logout"`)
	assert.Contains(t, out, "No pictures uploaded yet.")
	assert.NotContains(t, out, `action="/login"`)
}

func TestRenderGallery(t *testing.T) {
	out := render(t, Page{
		LoggedIn: true,
		Images: []*model.Image{
			{ID: 2, Filename: "my cat.png", UploadedAt: "2024-05-01 12:30:00"},
			{ID: 1, Filename: "<script>.png", UploadedAt: "2024-04-30 08:00:00"},
		},
	})

	assert.Contains(t, out, `src="/uploads/my%20cat.png"`)
	assert.Contains(t, out, `href="/download/2"`)
	assert.Contains(t, out, `href="/delete/1"`)
	assert.Contains(t, out, "Uploaded: 2024-05-01 12:30:00")
	assert.Contains(t, out, "&lt;script&gt;.png")
	assert.NotContains(t, out, "<script>.png")
	assert.NotContains(t, out, "No pictures uploaded yet.")
	assert.Less(t, bytes.Index([]byte(out), []byte("my cat.png")), bytes.Index([]byte(out), []byte("&lt;script&gt;.png")))
}
