package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/studyplan-api/internal/api/shared"
	"github.com/phrazzld/studyplan-api/internal/domain"
	"github.com/phrazzld/studyplan-api/internal/generation"
	"github.com/phrazzld/studyplan-api/internal/service"
	"github.com/phrazzld/studyplan-api/internal/service/auth"
	"github.com/phrazzld/studyplan-api/internal/service/card_review"
	"github.com/phrazzld/studyplan-api/internal/service/planner"
	"github.com/phrazzld/studyplan-api/internal/store"
)

const genericErrorMessage = "An unexpected error occurred"

// MapErrorToStatusCode maps internal errors to HTTP status codes without
// exposing their types to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusInternalServerError

	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrWrongTokenType),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized

	case errors.Is(err, card_review.ErrCardNotOwned),
		errors.Is(err, service.ErrNotOwned),
		errors.Is(err, planner.ErrItemNotOwned):
		return http.StatusForbidden

	case errors.Is(err, card_review.ErrCardNotFound),
		errors.Is(err, service.ErrCardNotFound),
		errors.Is(err, service.ErrItemNotFound),
		errors.Is(err, planner.ErrItemNotFound),
		errors.Is(err, generation.ErrSheetNotFound),
		store.IsNotFoundError(err):
		return http.StatusNotFound

	case errors.Is(err, planner.ErrActiveItemLimit),
		errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	case errors.Is(err, planner.ErrCommitmentInfeasible):
		return http.StatusUnprocessableEntity

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, generation.ErrInvalidSpreadsheet):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a client-facing message for err. Validation
// failures keep their domain description; everything else gets a fixed text.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return genericErrorMessage
	}

	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrWrongTokenType):
		return "Invalid token"
	case errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, domain.ErrUnauthorized):
		return "Authentication required"

	case errors.Is(err, card_review.ErrCardNotOwned),
		errors.Is(err, service.ErrNotOwned),
		errors.Is(err, planner.ErrItemNotOwned):
		return "You do not have access to this resource"

	case errors.Is(err, card_review.ErrCardNotFound),
		errors.Is(err, service.ErrCardNotFound),
		errors.Is(err, store.ErrFlashcardNotFound):
		return "Flashcard not found"
	case errors.Is(err, service.ErrItemNotFound),
		errors.Is(err, planner.ErrItemNotFound),
		errors.Is(err, store.ErrLearningItemNotFound):
		return "Learning item not found"
	case errors.Is(err, store.ErrProfileNotFound):
		return "Profile not found"
	case errors.Is(err, generation.ErrSheetNotFound):
		return "Sheet not found"
	case store.IsNotFoundError(err):
		return "Resource not found"

	case errors.Is(err, planner.ErrActiveItemLimit):
		return "Active learning item limit reached"
	case errors.Is(err, store.ErrDuplicate):
		return "Resource already exists"

	case errors.Is(err, planner.ErrCommitmentInfeasible):
		return "Study plan is not feasible"

	case errors.Is(err, generation.ErrInvalidSpreadsheet):
		return "Invalid spreadsheet"
	case errors.Is(err, domain.ErrInvalidID):
		if detail, ok := validationDetail(err); ok {
			return "Invalid ID: " + detail
		}
		return "Invalid ID"
	case errors.Is(err, domain.ErrValidation):
		if detail, ok := validationDetail(err); ok {
			return "Validation error: " + detail
		}
		return "Validation error"
	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	default:
		return genericErrorMessage
	}
}

// HandleAPIError writes the mapped status and safe message for err and logs
// the redacted details. fallback replaces the generic 500 message when set.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && fallback != "" {
		message = fallback
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err)
}

// SanitizeValidationError turns request struct validation failures into a
// short message naming the first offending field.
func SanitizeValidationError(err error) string {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return fmt.Sprintf("Invalid %s: %s", fe.Field(), validationTagMessage(fe.Tag()))
	}
	if detail, ok := validationDetail(err); ok {
		return "Validation error: " + detail
	}
	return "Validation error"
}

func validationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min", "gte", "gt":
		return "too small"
	case "max", "lte", "lt":
		return "too large"
	case "oneof":
		return "invalid value"
	case "dive":
		return "invalid element"
	default:
		return "validation failed"
	}
}

// validationDetail extracts the domain-authored description of a validation
// failure. Only ValidationError values and direct "%w: detail" wrappers of
// the domain sentinels are trusted; other wrapped text is never surfaced.
func validationDetail(err error) (string, bool) {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		if ve.Field == "" {
			return ve.Message, ve.Message != ""
		}
		return ve.Field + " " + ve.Message, true
	}
	return sentinelDetail(err)
}

func sentinelDetail(err error) (string, bool) {
	switch u := err.(type) {
	case interface{ Unwrap() error }:
		inner := u.Unwrap()
		if inner == domain.ErrValidation || inner == domain.ErrInvalidID {
			detail := strings.TrimPrefix(err.Error(), inner.Error()+": ")
			return detail, detail != "" && detail != err.Error()
		}
		if inner != nil {
			return sentinelDetail(inner)
		}
	case interface{ Unwrap() []error }:
		for _, inner := range u.Unwrap() {
			if inner == domain.ErrValidation || inner == domain.ErrInvalidID {
				continue
			}
			if detail, ok := sentinelDetail(inner); ok {
				return detail, true
			}
		}
	}
	return "", false
}
