package upload

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		mediaType string
		name      string
		want      Category
	}{
		{"image/jpeg", "a.jpg", CategoryImage},
		{"image/png", "a.png", CategoryImage},
		{"image/gif", "a.gif", CategoryImage},
		{"image/webp", "a.webp", CategoryImage},
		{"IMAGE/PNG; charset=binary", "a.png", CategoryImage},
		{"video/mp4", "a.mp4", CategoryVideo},
		{"video/mpeg", "a.mpeg", CategoryVideo},
		{"video/quicktime", "a.mov", CategoryVideo},
		{"video/x-msvideo", "a.avi", CategoryVideo},
		{"application/pdf", "a.pdf", CategoryDocument},
		{"application/vnd.android.package-archive", "app", CategoryPackage},
		{"application/octet-stream", "release.apk", CategoryPackage},
		{"application/zip", "Release.APK", CategoryPackage},
		{"", "release.apk", CategoryPackage},
		{"image/png", "looks-like.apk", CategoryImage},
	}

	for _, tt := range tests {
		t.Run(tt.mediaType+"|"+tt.name, func(t *testing.T) {
			got, err := Classify(tt.mediaType, tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassify_Unsupported(t *testing.T) {
	for _, tt := range []struct{ mediaType, name string }{
		{"application/x-msdownload", "setup.exe"},
		{"application/octet-stream", "setup.exe"},
		{"image/svg+xml", "logo.svg"},
		{"text/plain", "notes.txt"},
		{"", "noext"},
		{"application/octet-stream", "app.apk.exe"},
	} {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Classify(tt.mediaType, tt.name)
			var unsupported *UnsupportedTypeError
			require.True(t, errors.As(err, &unsupported), "got %v", err)
			assert.Equal(t, tt.mediaType, unsupported.MediaType)
			assert.Contains(t, err.Error(), "Invalid file type")
		})
	}
}

func TestDefaultPolicy_Limits(t *testing.T) {
	p := DefaultPolicy()

	assert.Equal(t, int64(10485760), p.Limit(CategoryImage))
	assert.Equal(t, int64(15728640), p.Limit(CategoryVideo))
	assert.Equal(t, int64(15728640), p.Limit(CategoryDocument))
	assert.Equal(t, Unlimited, p.Limit(CategoryPackage))
}

func TestPolicy_CheckSize(t *testing.T) {
	p := DefaultPolicy()

	assert.NoError(t, p.CheckSize(CategoryImage, 0))
	assert.NoError(t, p.CheckSize(CategoryImage, 10*MiB))
	assert.NoError(t, p.CheckSize(CategoryVideo, 15*MiB))
	assert.NoError(t, p.CheckSize(CategoryPackage, 5<<30))

	err := p.CheckSize(CategoryImage, 10*MiB+1)
	var tooBig *SizeExceededError
	require.True(t, errors.As(err, &tooBig))
	assert.Equal(t, int64(10*MiB+1), tooBig.Actual)
	assert.Equal(t, int64(10*MiB), tooBig.Limit)
	assert.Equal(t, CategoryImage, tooBig.Category)
	assert.Equal(t, "File too large. Maximum size for image files is 10 MB", err.Error())

	err = p.CheckSize(CategoryDocument, 16*MiB)
	require.True(t, errors.As(err, &tooBig))
	assert.Equal(t, int64(15*MiB), tooBig.Limit)
}

func TestCategory_Label(t *testing.T) {
	assert.Equal(t, "Image", CategoryImage.Label())
	assert.Equal(t, "Video", CategoryVideo.Label())
	assert.Equal(t, "Document", CategoryDocument.Label())
	assert.Equal(t, "Package", CategoryPackage.Label())
	assert.Equal(t, "", Category("").Label())
}
