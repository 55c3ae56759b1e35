package api

import (
	"errors"
	"net/http"

	"github.com/openfroyo/farmplan/pkg/domain"
	"github.com/openfroyo/farmplan/pkg/policy"
)

// ProblemDocument is the common error-response shape of spec §7: every
// error path, regardless of class, reshapes down to this body.
type ProblemDocument struct {
	Status          int                 `json:"status"`
	Title           string              `json:"title"`
	Detail          string              `json:"detail"`
	Code            string              `json:"code,omitempty"`
	Errors          []ValidationIssueDoc `json:"errors,omitempty"`
	ConstraintHints []string            `json:"constraint_hints,omitempty"`
}

// ValidationIssueDoc is one field-level validation failure, mirroring
// domain.ValidationIssue in the wire shape.
type ValidationIssueDoc struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// classStatus maps a PlanError's class to the HTTP status spec §7
// assigns it. Domain errors are further mapped by their code (404,
// 503, 409, otherwise 400).
func classStatus(class domain.ErrorClass, code string) int {
	switch class {
	case domain.ClassValidation:
		return http.StatusUnprocessableEntity
	case domain.ClassDomain:
		switch code {
		case domain.ErrCodeNotFound:
			return http.StatusNotFound
		case domain.ErrCodeUnavailable:
			return http.StatusServiceUnavailable
		case domain.ErrCodeConflict:
			return http.StatusConflict
		default:
			return http.StatusBadRequest
		}
	case domain.ClassInfeasible, domain.ClassTimeout:
		// Both are in-band outcomes at the transport level (spec §7
		// "Infeasibility is not an exception"); a bare PlanError of
		// this class reaching the edge (outside a result body) still
		// needs a status, so it is treated as an accepted-but-empty
		// response.
		return http.StatusOK
	case domain.ClassInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// problemFromError renders any error into the common problem document,
// sanitizing internal errors and never leaking a stack trace or driver
// message to the client (spec §7 "Propagation policy").
func problemFromError(err error) ProblemDocument {
	var pe *domain.PlanError
	if errors.As(err, &pe) {
		doc := ProblemDocument{
			Status: classStatus(pe.Class, pe.Code),
			Title:  titleForClass(pe.Class),
			Detail: pe.Message,
			Code:   pe.Code,
		}
		if pe.Class == domain.ClassInternal {
			doc.Detail = "an internal error occurred"
		}
		if hints, ok := pe.Details["constraint_hints"].([]string); ok {
			doc.ConstraintHints = hints
		}
		return doc
	}
	return ProblemDocument{
		Status: http.StatusInternalServerError,
		Title:  "Internal Error",
		Detail: "an internal error occurred",
	}
}

func titleForClass(class domain.ErrorClass) string {
	switch class {
	case domain.ClassValidation:
		return "Validation Error"
	case domain.ClassDomain:
		return "Request Refused"
	case domain.ClassInfeasible:
		return "No Feasible Solution"
	case domain.ClassTimeout:
		return "Deadline Exceeded"
	case domain.ClassInternal:
		return "Internal Error"
	default:
		return "Error"
	}
}

// problemFromPolicy renders a rejected policy.Result as a 403 problem
// document, one error entry per blocking violation.
func problemFromPolicy(result *policy.Result) ProblemDocument {
	issues := make([]ValidationIssueDoc, 0, len(result.Violations))
	for _, v := range result.Violations {
		issues = append(issues, ValidationIssueDoc{Path: v.Policy, Message: v.Message})
	}
	return ProblemDocument{
		Status: http.StatusForbidden,
		Title:  "Request Refused",
		Detail: "the submitted plan was rejected by admission policy",
		Code:   "POLICY_REJECTED",
		Errors: issues,
	}
}

// problemFromValidation renders domain.ValidatePlan's issue list into a
// 422 problem document (spec §7 "validation errors additionally carry
// errors").
func problemFromValidation(issues []domain.ValidationIssue) ProblemDocument {
	docIssues := make([]ValidationIssueDoc, 0, len(issues))
	for _, i := range issues {
		docIssues = append(docIssues, ValidationIssueDoc{Path: i.Field, Message: i.Message})
	}
	return ProblemDocument{
		Status: http.StatusUnprocessableEntity,
		Title:  "Validation Error",
		Detail: "the submitted plan failed validation",
		Code:   domain.ErrCodeValidation,
		Errors: docIssues,
	}
}
