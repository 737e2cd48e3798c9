package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/services"
)

const (
	maxJSONBody      = 1 << 20
	maxMultipartBody = services.MaxImages*services.MaxImageSize + 1<<20
	multipartMemory  = 32 << 20
)

func isMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "multipart/form-data"
}

// decodeJSON reads a single JSON document from the body into dst. Errors produced by a
// field's own UnmarshalJSON are returned unchanged.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var apiErr *errs.ApiErr
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &apiErr):
			return apiErr
		case errors.As(err, &maxErr):
			return errs.NewMaxBodySizeExceededError(maxErr.Limit)
		default:
			return errs.NewMalformedPayloadError("JSON", err)
		}
	}
	return nil
}

// parseMultipart bounds the body to what MaxImages full-size images plus fields can take.
func parseMultipart(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxMultipartBody)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return errs.NewMaxBodySizeExceededError(maxErr.Limit)
		}
		return errs.NewMalformedPayloadError("multipart", err)
	}
	return nil
}

// readUploads loads and validates the files sent under field. Requests without a
// multipart body have no uploads.
func readUploads(r *http.Request, field string, max int) ([]services.Upload, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}

	headers := r.MultipartForm.File[field]
	if len(headers) > max {
		return nil, errs.NewInvalidFieldError(field, fmt.Sprintf("Maximum %d images allowed", max))
	}

	uploads := make([]services.Upload, 0, len(headers))
	for _, header := range headers {
		if header.Size > services.MaxImageSize {
			return nil, errs.NewMaxBodySizeExceededError(services.MaxImageSize)
		}

		f, err := header.Open()
		if err != nil {
			return nil, errs.NewMalformedPayloadError("multipart", err)
		}
		data, err := io.ReadAll(io.LimitReader(f, services.MaxImageSize+1))
		f.Close()
		if err != nil {
			return nil, errs.NewMalformedPayloadError("multipart", err)
		}

		upload := services.Upload{Filename: header.Filename, Data: data}
		if err := services.ValidateImage(upload); err != nil {
			return nil, err
		}
		uploads = append(uploads, upload)
	}
	return uploads, nil
}

// formString returns nil when key was not sent at all, so form bodies patch like JSON ones.
func formString(r *http.Request, key string) *string {
	if r.MultipartForm == nil {
		return nil
	}
	values, ok := r.MultipartForm.Value[key]
	if !ok || len(values) == 0 {
		return nil
	}
	v := values[0]
	return &v
}

func formInt(r *http.Request, key string) (*int, error) {
	s := formString(r, key)
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(*s))
	if err != nil {
		return nil, errs.NewInvalidFieldError(key, fmt.Sprintf("%s must be a number", key))
	}
	return &n, nil
}

func formBool(r *http.Request, key string) (*bool, error) {
	s := formString(r, key)
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(*s))
	if err != nil {
		return nil, errs.NewInvalidFieldError(key, fmt.Sprintf("%s must be true or false", key))
	}
	return &b, nil
}

// blank reports whether an optional field is missing or only whitespace.
func blank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}
