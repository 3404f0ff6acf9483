package handler

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/dtroode/places-server/internal/apierror"
)

// multipartOverhead is the allowance for form fields and boundaries on top
// of the image size limit.
const multipartOverhead = 1 << 20

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name, _, _ := strings.Cut(f.Tag.Get("json"), ","); name != "" && name != "-" {
			return name
		}
		return strings.ToLower(f.Name)
	})
	return v
}

// validationError turns validator failures into one client-facing message.
func validationError(err error) *apierror.APIError {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return apierror.NewErrValidation("invalid inputs passed, please check your data")
	}

	msgs := make([]string, 0, len(errs))
	for _, fe := range errs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", fe.Field()))
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s must be at least %s characters long", fe.Field(), fe.Param()))
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s characters long", fe.Field(), fe.Param()))
		case "email":
			msgs = append(msgs, fmt.Sprintf("%s must be a valid email", fe.Field()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", fe.Field()))
		}
	}
	return apierror.NewErrValidation("invalid inputs passed: " + strings.Join(msgs, "; "))
}

func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, apierror.NewErrValidation(fmt.Sprintf("invalid %s", name))
	}
	return id, nil
}

// parseMultipart limits the body to maxImageBytes plus form overhead and
// parses it. The returned file must be closed by the caller.
func parseMultipart(w http.ResponseWriter, r *http.Request, maxImageBytes int64) (multipart.File, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImageBytes+multipartOverhead)
	if err := r.ParseMultipartForm(maxImageBytes + multipartOverhead); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, apierror.NewErrValidation("request body is too large")
		}
		return nil, apierror.NewErrValidation("invalid multipart form")
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		_ = r.MultipartForm.RemoveAll()
		return nil, apierror.NewErrValidation("invalid inputs passed: image is required")
	}
	return file, nil
}

func formValue(r *http.Request, key string) string {
	return strings.TrimSpace(r.FormValue(key))
}
