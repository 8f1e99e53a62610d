package httpadapter

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/oapi-codegen/runtime"

	"github.com/kirillkom/doc-classifier/internal/core/domain"
)

const maxJSONBodyBytes = 1 << 20

// pathInt64 binds a numeric path parameter such as a category or criterion id.
func pathInt64(r *http.Request, name string) (int64, error) {
	var id int64
	err := runtime.BindStyledParameterWithOptions("simple", name, r.PathValue(name), &id, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	})
	if err != nil {
		return 0, domain.WrapError(domain.ErrInvalidInput, "bind path parameter", err)
	}
	if id <= 0 {
		return 0, domain.WrapError(domain.ErrInvalidInput, "bind path parameter", fmt.Errorf("%s must be positive", name))
	}
	return id, nil
}

func pathString(r *http.Request, name string) (string, error) {
	var value string
	err := runtime.BindStyledParameterWithOptions("simple", name, r.PathValue(name), &value, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	})
	if err != nil {
		return "", domain.WrapError(domain.ErrInvalidInput, "bind path parameter", err)
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return "", domain.WrapError(domain.ErrInvalidInput, "bind path parameter", fmt.Errorf("%s is required", name))
	}
	return value, nil
}

// queryInt64 binds an optional numeric query parameter; absent yields zero.
func queryInt64(r *http.Request, name string) (int64, error) {
	var value int64
	if err := runtime.BindQueryParameter("form", true, false, name, r.URL.Query(), &value); err != nil {
		return 0, domain.WrapError(domain.ErrInvalidInput, "bind query parameter", err)
	}
	if value < 0 {
		return 0, domain.WrapError(domain.ErrInvalidInput, "bind query parameter", fmt.Errorf("%s must be positive", name))
	}
	return value, nil
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			return err
		}
		if errors.Is(err, io.EOF) {
			return domain.WrapError(domain.ErrInvalidInput, "decode json", errors.New("request body is empty"))
		}
		return domain.WrapError(domain.ErrInvalidInput, "decode json", err)
	}
	return nil
}
