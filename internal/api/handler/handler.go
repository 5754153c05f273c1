package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/roomstack/roombook/internal/api/middleware"
	"github.com/roomstack/roombook/internal/api/response"
	"github.com/roomstack/roombook/internal/domain"
)

var validate = validator.New()

// bindJSON decodes the request body into dst and runs struct validation.
// On failure it writes the error response and returns false.
func bindJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		response.BadRequest(w, "invalid request body")
		return false
	}

	if err := validate.Struct(dst); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			response.BadRequest(w, validationMessages(validationErrors))
			return false
		}
		response.BadRequest(w, err.Error())
		return false
	}

	return true
}

func validationMessages(errs validator.ValidationErrors) map[string]string {
	messages := make(map[string]string)
	for _, e := range errs {
		field := e.Field()
		switch e.Tag() {
		case "required":
			messages[field] = "field is required"
		case "email":
			messages[field] = "invalid email format"
		case "min":
			messages[field] = "must be at least " + e.Param()
		case "max":
			messages[field] = "must be at most " + e.Param()
		default:
			messages[field] = "validation failed on " + e.Tag()
		}
	}
	return messages
}

// uuidParam parses a UUID path parameter. On failure it writes the error
// response and returns false.
func uuidParam(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		response.BadRequest(w, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

// requirePrincipal fetches the authenticated principal set by the auth
// middleware.
func requirePrincipal(w http.ResponseWriter, r *http.Request) (domain.Principal, bool) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		response.Unauthorized(w, "authentication required")
		return domain.Principal{}, false
	}
	return principal, true
}
