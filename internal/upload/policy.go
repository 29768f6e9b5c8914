// Package upload implements the upload, fetch and delete endpoints together
// with the type/size policy and naming scheme they enforce.
package upload

import (
	"fmt"
	"strings"
)

// Category classifies an upload and selects its size limit.
type Category string

const (
	CategoryImage    Category = "image"
	CategoryVideo    Category = "video"
	CategoryDocument Category = "document"
	CategoryPackage  Category = "package"
)

// Label is the capitalised form used in response messages.
func (c Category) Label() string {
	if c == "" {
		return ""
	}
	return strings.ToUpper(string(c[:1])) + string(c[1:])
}

// Unlimited marks a category that is exempt from size checks.
const Unlimited int64 = -1

const (
	// MiB is 1024*1024 bytes.
	MiB int64 = 1 << 20

	apkMediaType = "application/vnd.android.package-archive"
	apkSuffix    = ".apk"
)

// mediaTypes is the allow-list of declared media types. Package archives are
// classified separately because clients rarely declare them correctly.
var mediaTypes = map[string]Category{
	"image/jpeg":      CategoryImage,
	"image/png":       CategoryImage,
	"image/gif":       CategoryImage,
	"image/webp":      CategoryImage,
	"video/mp4":       CategoryVideo,
	"video/mpeg":      CategoryVideo,
	"video/quicktime": CategoryVideo,
	"video/x-msvideo": CategoryVideo,
	"application/pdf": CategoryDocument,
	apkMediaType:      CategoryPackage,
}

// Policy holds the per-category size limits. It is built once at startup and
// never mutated.
type Policy struct {
	limits map[Category]int64
}

// DefaultPolicy returns the production limits: 10 MiB for images, 15 MiB for
// videos and documents, no limit for package archives.
func DefaultPolicy() Policy {
	return NewPolicy(10*MiB, 15*MiB, 15*MiB)
}

// NewPolicy builds a policy with the given limits. Package archives are always
// unlimited.
func NewPolicy(image, video, document int64) Policy {
	return Policy{limits: map[Category]int64{
		CategoryImage:    image,
		CategoryVideo:    video,
		CategoryDocument: document,
		CategoryPackage:  Unlimited,
	}}
}

// Limit returns the maximum byte size for c, or Unlimited.
func (p Policy) Limit(c Category) int64 {
	if limit, ok := p.limits[c]; ok {
		return limit
	}
	return Unlimited
}

// UnsupportedTypeError rejects a file whose type is not on the allow-list.
type UnsupportedTypeError struct {
	MediaType string
	Name      string
}

func (e *UnsupportedTypeError) Error() string {
	return "Invalid file type. Only images (JPEG, PNG, GIF, WEBP), videos (MP4, MPEG, MOV, AVI), PDF documents and APK files are allowed"
}

// SizeExceededError rejects a file that is larger than its category allows.
type SizeExceededError struct {
	Category Category
	Actual   int64
	Limit    int64
}

func (e *SizeExceededError) Error() string {
	return fmt.Sprintf("File too large. Maximum size for %s files is %s", e.Category, FormatFileSize(e.Limit))
}

// Classify returns the category for a declared media type and original file
// name. The media type decides first; a .apk name is the only fallback.
func Classify(mediaType, name string) (Category, error) {
	mt := normalizeMediaType(mediaType)
	if c, ok := mediaTypes[mt]; ok {
		return c, nil
	}
	if strings.HasSuffix(strings.ToLower(name), apkSuffix) {
		return CategoryPackage, nil
	}
	return "", &UnsupportedTypeError{MediaType: mediaType, Name: name}
}

// CheckSize verifies size against the category's limit.
func (p Policy) CheckSize(c Category, size int64) error {
	limit := p.Limit(c)
	if limit == Unlimited || size <= limit {
		return nil
	}
	return &SizeExceededError{Category: c, Actual: size, Limit: limit}
}

// normalizeMediaType drops parameters and case so "Image/PNG; charset=x"
// matches "image/png".
func normalizeMediaType(mt string) string {
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = mt[:i]
	}
	return strings.ToLower(strings.TrimSpace(mt))
}
