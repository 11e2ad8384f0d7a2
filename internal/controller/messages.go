package controller

import (
	"fmt"

	"admin-console/internal/client"
	"admin-console/internal/models"
	"admin-console/internal/resource"
)

// MsgSessionExpired replaces the load error after a 401 or 403.
const MsgSessionExpired = "Your session has expired or is invalid. Please log in again."

type operation string

const (
	opLoad   operation = "load"
	opCreate operation = "create"
	opUpdate operation = "update"
	opDelete operation = "delete"
)

func loadFailedMessage(def resource.Definition) string {
	return fmt.Sprintf("Failed to load %s. Please try again later.", def.Plural)
}

func loadFailedToast(def resource.Definition) string {
	return fmt.Sprintf("Failed to load the %s list.", def.Singular)
}

func successMessage(def resource.Definition, op operation) string {
	switch op {
	case opCreate:
		return def.Capitalized() + " added successfully!"
	case opUpdate:
		return def.Capitalized() + " updated successfully!"
	default:
		return def.Capitalized() + " deleted successfully!"
	}
}

func validationToast(def resource.Definition, op operation) string {
	if op == opCreate {
		return fmt.Sprintf("Failed to create %s. Please check your form.", def.Singular)
	}
	return fmt.Sprintf("Failed to update %s. Please check your form.", def.Singular)
}

func failureToast(def resource.Definition, op operation) string {
	switch op {
	case opCreate:
		return fmt.Sprintf("Failed to add new %s. Please try again.", def.Singular)
	case opUpdate:
		return fmt.Sprintf("Failed to update %s. Please try again.", def.Singular)
	default:
		return fmt.Sprintf("Failed to delete %s. Please try again.", def.Singular)
	}
}

// FieldErrorsFrom maps a 422 response onto a field error map: the "errors"
// object first (first message per field), then flat "data" messages when the
// resource has a classifier for them, then "message" as the general error.
func FieldErrorsFrom(def resource.Definition, apiErr *client.APIError) models.FieldErrors {
	switch {
	case apiErr.FieldErrors != nil:
		out := make(models.FieldErrors, len(apiErr.FieldErrors))
		for field, msgs := range apiErr.FieldErrors {
			if len(msgs) > 0 {
				out[field] = msgs[0]
			}
		}
		return out
	case len(apiErr.Messages) > 0 && def.ClassifyMessages != nil:
		return def.ClassifyMessages(apiErr.Messages)
	case apiErr.Message != "":
		return models.FieldErrors{models.GeneralError: apiErr.Message}
	default:
		return models.FieldErrors{}
	}
}
