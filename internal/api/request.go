package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// decodeBody reads a JSON body into dst and checks its `validate` tags. Both
// failures wrap ErrBadRequest.
func decodeBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errors.Join(ErrBadRequest, err)
	}
	if err := validate.Struct(dst); err != nil {
		return errors.Join(ErrBadRequest, err)
	}
	return nil
}
