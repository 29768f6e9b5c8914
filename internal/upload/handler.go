package upload

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
	"github.com/go-chi/chi/v5"

	"github.com/radif/uploads/internal/metrics"
	"github.com/radif/uploads/internal/response"
	"github.com/radif/uploads/internal/storage"
)

// Accepted multipart field names. FieldFile wins when both are present.
const (
	FieldFile  = "file"
	FieldImage = "image"
)

// PublicPrefix is the path under which stored assets are served.
const PublicPrefix = "/uploads/"

const (
	defaultMultipartMemory = 32 << 20
	maxDeleteBody          = 1 << 20

	// fallbackContentType is served for anything outside the upload allow-list.
	fallbackContentType = "application/octet-stream"
)

// Client-facing messages.
const (
	msgNoFile           = "No file uploaded"
	msgUploadFailed     = "Error uploading file"
	msgNotFound         = "File not found"
	msgInvalidName      = "Invalid filename"
	msgFetchFailed      = "Error retrieving file"
	msgFilenameRequired = "Filename is required in request body"
	msgDeleted          = "File deleted successfully"
	msgDeleteFailed     = "Error deleting file"
)

// UploadedFile describes one decoded submission. It lives for a single request.
type UploadedFile struct {
	Field        string
	OriginalName string
	MediaType    string
	StorageName  string
	Size         int64
	Category     Category
}

// Options tunes a Handler. Zero values fall back to sensible defaults.
type Options struct {
	Namer           *Namer
	Metrics         metrics.Recorder
	Logger          *slog.Logger
	MultipartMemory int64
}

// Handler holds HTTP handlers for the upload endpoints.
type Handler struct {
	store           storage.Storage
	policy          Policy
	namer           *Namer
	metrics         metrics.Recorder
	log             *slog.Logger
	multipartMemory int64
}

// NewHandler creates a new upload Handler over store, enforcing policy.
func NewHandler(store storage.Storage, policy Policy, opts Options) *Handler {
	h := &Handler{
		store:           store,
		policy:          policy,
		namer:           opts.Namer,
		metrics:         opts.Metrics,
		log:             opts.Logger,
		multipartMemory: opts.MultipartMemory,
	}
	if h.namer == nil {
		h.namer = NewNamer()
	}
	if h.metrics == nil {
		h.metrics = metrics.Nop{}
	}
	if h.log == nil {
		h.log = slog.Default()
	}
	if h.multipartMemory <= 0 {
		h.multipartMemory = defaultMultipartMemory
	}
	return h
}

type uploadResponse struct {
	response.Envelope
	Filename      string   `json:"filename"      example:"file-1718000000000-482913650.png"`
	Path          string   `json:"path"          example:"http://localhost:8009/uploads/file-1718000000000-482913650.png"`
	Size          int64    `json:"size"          example:"204800"`
	FormattedSize string   `json:"formattedSize" example:"200 KB"`
	MimeType      string   `json:"mimetype"      example:"image/png"`
	Type          Category `json:"type"          example:"image"`
	Field         string   `json:"field"         example:"file"`
}

type sizeExceededResponse struct {
	response.Envelope
	ActualSize       int64  `json:"actualSize"       example:"12582912"`
	FormattedSize    string `json:"formattedSize"    example:"12 MB"`
	MaxSize          int64  `json:"maxSize"          example:"10485760"`
	FormattedMaxSize string `json:"formattedMaxSize" example:"10 MB"`
}

type deleteRequest struct {
	Filename string `json:"filename" example:"file-1718000000000-482913650.png"`
}

type deleteResponse struct {
	response.Envelope
	Filename string `json:"filename" example:"file-1718000000000-482913650.png"`
}

// Upload godoc
//
//	@Summary		Upload a file
//	@Description	Accepts one file under the "file" field (or the "image" alias). Images up to 10 MB, videos and PDFs up to 15 MB, APK packages without limit.
//	@Tags			uploads
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			file	formData	file	false	"File to upload"
//	@Param			image	formData	file	false	"Alias of file"
//	@Success		201		{object}	uploadResponse
//	@Failure		400		{object}	sizeExceededResponse
//	@Failure		500		{object}	response.Envelope
//	@Router			/upload [post]
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseMultipartForm(h.multipartMemory); err != nil {
		if spoolFailed(err) {
			h.log.ErrorContext(ctx, "multipart spool failed", "error", err)
			h.metrics.RecordUpload("", metrics.OutcomeError, 0)
			response.InternalError(w, msgUploadFailed)
			return
		}
		h.log.WarnContext(ctx, "multipart body rejected", "error", err)
	}
	if r.MultipartForm != nil {
		defer func() { _ = r.MultipartForm.RemoveAll() }()
	}

	field, fh := pickFile(r.MultipartForm)
	if fh == nil {
		h.metrics.RecordUpload("", metrics.OutcomeInvalid, 0)
		response.BadRequest(w, msgNoFile)
		return
	}

	file := &UploadedFile{
		Field:        field,
		OriginalName: fh.Filename,
		MediaType:    fh.Header.Get("Content-Type"),
	}

	category, err := Classify(file.MediaType, file.OriginalName)
	if err != nil {
		h.log.InfoContext(ctx, "upload rejected: unsupported type",
			"original", file.OriginalName, "mimetype", file.MediaType)
		h.metrics.RecordUpload("", metrics.OutcomeUnsupported, 0)
		response.BadRequest(w, err.Error())
		return
	}
	file.Category = category

	if err := h.persist(ctx, file, fh); err != nil {
		var tooBig *SizeExceededError
		if errors.As(err, &tooBig) {
			h.log.InfoContext(ctx, "upload rejected: too large",
				"original", file.OriginalName, "category", category,
				"size", humanize.IBytes(uint64(tooBig.Actual)), "limit", humanize.IBytes(uint64(tooBig.Limit)))
			h.metrics.RecordUpload(string(category), metrics.OutcomeSizeExceeded, 0)
			response.JSON(w, http.StatusBadRequest, sizeExceededResponse{
				Envelope:         response.Envelope{Success: false, Message: tooBig.Error()},
				ActualSize:       tooBig.Actual,
				FormattedSize:    FormatFileSize(tooBig.Actual),
				MaxSize:          tooBig.Limit,
				FormattedMaxSize: FormatFileSize(tooBig.Limit),
			})
			return
		}
		if errors.Is(err, storage.ErrInvalidName) {
			h.log.InfoContext(ctx, "upload rejected: invalid name", "original", file.OriginalName)
			h.metrics.RecordUpload(string(category), metrics.OutcomeInvalid, 0)
			response.BadRequest(w, msgInvalidName)
			return
		}
		h.log.ErrorContext(ctx, "upload failed", "original", file.OriginalName, "error", err)
		h.metrics.RecordUpload(string(category), metrics.OutcomeError, 0)
		response.InternalError(w, msgUploadFailed)
		return
	}

	h.log.InfoContext(ctx, "upload stored",
		"name", file.StorageName, "field", file.Field, "category", category, "size", humanize.IBytes(uint64(file.Size)))
	h.metrics.RecordUpload(string(category), metrics.OutcomeAccepted, file.Size)

	response.JSON(w, http.StatusCreated, uploadResponse{
		Envelope:      response.Envelope{Success: true, Message: category.Label() + " uploaded successfully"},
		Filename:      file.StorageName,
		Path:          publicURL(r, file.StorageName),
		Size:          file.Size,
		FormattedSize: FormatFileSize(file.Size),
		MimeType:      file.MediaType,
		Type:          category,
		Field:         file.Field,
	})
}

// persist names the file, writes it and enforces the size limit on the bytes
// actually received. Whatever the outcome, an error means nothing was left in
// the store.
func (h *Handler) persist(ctx context.Context, file *UploadedFile, fh *multipart.FileHeader) error {
	src, err := fh.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	name, err := h.namer.Name(file.Field, file.OriginalName)
	if err != nil {
		return err
	}

	// Write at most limit+1 bytes; anything past that is only counted.
	limit := h.policy.Limit(file.Category)
	var body io.Reader = src
	if limit != Unlimited {
		body = io.LimitReader(src, limit+1)
	}

	written, err := h.store.Save(ctx, name, body)
	if err != nil {
		return err
	}

	size := written
	if limit != Unlimited && written > limit {
		rest, err := io.Copy(io.Discard, src)
		size += rest
		if err != nil {
			return errors.Join(err, h.discard(ctx, name))
		}
	}

	if err := h.policy.CheckSize(file.Category, size); err != nil {
		if rmErr := h.discard(ctx, name); rmErr != nil {
			return rmErr
		}
		return err
	}

	file.StorageName = name
	file.Size = size
	return nil
}

// discard removes a rejected file. It ignores the request context so a client
// hanging up cannot leave an orphan behind.
func (h *Handler) discard(ctx context.Context, name string) error {
	err := h.store.Delete(context.WithoutCancel(ctx), name)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return err
	}
	return nil
}

// Serve godoc
//
//	@Summary		Fetch a stored file
//	@Tags			uploads
//	@Produce		octet-stream
//	@Param			filename	path		string	true	"Stored file name"
//	@Success		200			{file}		binary
//	@Failure		400			{object}	response.Envelope
//	@Failure		404			{object}	response.Envelope
//	@Failure		500			{object}	response.Envelope
//	@Router			/uploads/{filename} [get]
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// Stored bytes are client supplied and must never execute in a browser.
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Content-Security-Policy", "sandbox")

	name, ok := filenameParam(r)
	if !ok {
		h.metrics.RecordFetch(metrics.OutcomeInvalid)
		response.BadRequest(w, msgInvalidName)
		return
	}

	obj, err := h.store.Open(ctx, name)
	switch {
	case errors.Is(err, storage.ErrInvalidName):
		h.log.WarnContext(ctx, "fetch rejected: invalid name", "name", name)
		h.metrics.RecordFetch(metrics.OutcomeInvalid)
		response.BadRequest(w, msgInvalidName)
		return
	case errors.Is(err, storage.ErrNotFound):
		h.metrics.RecordFetch(metrics.OutcomeNotFound)
		response.NotFound(w, msgNotFound)
		return
	case err != nil:
		h.log.ErrorContext(ctx, "fetch failed", "name", name, "error", err)
		h.metrics.RecordFetch(metrics.OutcomeError)
		response.InternalError(w, msgFetchFailed)
		return
	}
	defer obj.Close()

	ctype, err := contentType(obj)
	if err != nil {
		h.log.ErrorContext(ctx, "fetch failed", "name", name, "error", err)
		h.metrics.RecordFetch(metrics.OutcomeError)
		response.InternalError(w, msgFetchFailed)
		return
	}

	h.metrics.RecordFetch(metrics.OutcomeServed)
	w.Header().Set("Content-Type", ctype)
	http.ServeContent(w, r, obj.Name, obj.ModTime, obj)
}

// Delete godoc
//
//	@Summary		Delete a stored file
//	@Tags			uploads
//	@Accept			json
//	@Produce		json
//	@Param			request	body		deleteRequest	true	"Stored file name"
//	@Success		200		{object}	deleteResponse
//	@Failure		400		{object}	response.Envelope
//	@Failure		404		{object}	response.Envelope
//	@Failure		500		{object}	response.Envelope
//	@Router			/delete [post]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req deleteRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxDeleteBody)).Decode(&req); err != nil || strings.TrimSpace(req.Filename) == "" {
		h.metrics.RecordDelete(metrics.OutcomeInvalid)
		response.BadRequest(w, msgFilenameRequired)
		return
	}

	err := h.store.Delete(ctx, req.Filename)
	switch {
	case errors.Is(err, storage.ErrInvalidName):
		h.log.WarnContext(ctx, "delete rejected: invalid name", "name", req.Filename)
		h.metrics.RecordDelete(metrics.OutcomeInvalid)
		response.BadRequest(w, msgInvalidName)
		return
	case errors.Is(err, storage.ErrNotFound):
		h.metrics.RecordDelete(metrics.OutcomeNotFound)
		response.NotFound(w, msgNotFound)
		return
	case err != nil:
		h.log.ErrorContext(ctx, "delete failed", "name", req.Filename, "error", err)
		h.metrics.RecordDelete(metrics.OutcomeError)
		response.InternalError(w, msgDeleteFailed)
		return
	}

	h.log.InfoContext(ctx, "file deleted", "name", req.Filename)
	h.metrics.RecordDelete(metrics.OutcomeDeleted)
	response.JSON(w, http.StatusOK, deleteResponse{
		Envelope: response.Envelope{Success: true, Message: msgDeleted},
		Filename: req.Filename,
	})
}

// pickFile returns the first file under FieldFile, else under FieldImage.
func pickFile(form *multipart.Form) (string, *multipart.FileHeader) {
	if form == nil {
		return "", nil
	}
	for _, field := range []string{FieldFile, FieldImage} {
		if files := form.File[field]; len(files) > 0 {
			return field, files[0]
		}
	}
	return "", nil
}

// filenameParam returns the decoded {filename} route parameter.
func filenameParam(r *http.Request) (string, bool) {
	name := chi.URLParam(r, "filename")
	if r.URL.RawPath == "" {
		return name, true
	}
	decoded, err := url.PathUnescape(name)
	if err != nil {
		return "", false
	}
	return decoded, true
}

// publicURL builds the absolute URL for name from the inbound request.
func publicURL(r *http.Request, name string) string {
	scheme := "http"
	if r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https") {
		scheme = "https"
	}
	return scheme + "://" + r.Host + PublicPrefix + url.PathEscape(name)
}

// contentType only ever answers with a type from the upload allow-list: the
// extension's type when listed, else the sniffed type when listed, else
// application/octet-stream. obj is rewound afterwards.
func contentType(obj *storage.Object) (string, error) {
	if ct := mime.TypeByExtension(filepath.Ext(obj.Name)); servable(ct) {
		return ct, nil
	}
	m, err := mimetype.DetectReader(obj)
	if err != nil {
		return "", err
	}
	if _, err := obj.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	if servable(m.String()) {
		return m.String(), nil
	}
	return fallbackContentType, nil
}

func servable(ct string) bool {
	_, ok := mediaTypes[normalizeMediaType(ct)]
	return ok
}

// spoolFailed reports whether a ParseMultipartForm error came from writing
// the body to temporary files rather than from the body itself.
func spoolFailed(err error) bool {
	var pathErr *fs.PathError
	return errors.As(err, &pathErr)
}
