// Package reconcile maps backend answers onto what the console shows: a
// short toast, a persistent inline message and, on success, the record used
// to refresh the matching view before the next fetch.
package reconcile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"ops-console/internal/client"
	"ops-console/internal/form"
	"ops-console/internal/models"
	"ops-console/internal/render"
)

type Kind string

const (
	KindSuccess           Kind = "success"
	KindValidationFailure Kind = "validation_failure"
	KindNotFound          Kind = "not_found"
	KindBackendRejected   Kind = "backend_rejected"
	KindTransportFailure  Kind = "transport_failure"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

type Outcome struct {
	Kind       Kind              `json:"kind"`
	Operation  string            `json:"operation"`
	Level      Level             `json:"level"`
	Toast      string            `json:"toast"`
	Message    string            `json:"message"`
	Raw        string            `json:"raw,omitempty"`
	Code       string            `json:"code,omitempty"`
	HTTPStatus int               `json:"http_status,omitempty"`
	Fields     []form.FieldError `json:"fields,omitempty"`
	// ID and Status are the canonical values taken from the response body.
	ID     string         `json:"id,omitempty"`
	Status string         `json:"status,omitempty"`
	Record *models.Record `json:"record,omitempty"`
	Data   any            `json:"data,omitempty"`
}

func (o Outcome) OK() bool {
	return o.Kind == KindSuccess
}

// Input is what the reconciler needs to know about the request that was sent.
type Input struct {
	// Key is the identifier the user typed: order, picklist or transfer ID,
	// or the SKU for stock operations.
	Key      string
	Order    *models.CreateOrder
	Transfer *models.CreateTransfer
	Receipt  *models.GoodsReceipt
}

type Reconciler struct {
	fmt render.Formatter
}

func New(f render.Formatter) *Reconciler {
	return &Reconciler{fmt: f}
}

// Reconcile classifies one backend response for op.
func (r *Reconciler) Reconcile(op client.Operation, in Input, resp *client.Response) Outcome {
	t := templateFor(op)

	if resp.OK() {
		body, err := decodeBody(resp.Body)
		if err != nil {
			return r.Malformed(op, resp.StatusCode, err)
		}

		out := Outcome{Kind: KindSuccess, Operation: string(op), Level: LevelSuccess, HTTPStatus: resp.StatusCode}
		if t.success != nil {
			if err := t.success(r, in, body, &out); err != nil {
				return r.Malformed(op, resp.StatusCode, err)
			}
		}
		return out
	}

	return r.failure(op, t, in, resp)
}

// Transport turns an unreachable backend into an outcome. Nothing is retried.
func (r *Reconciler) Transport(op client.Operation, err error) Outcome {
	t := templateFor(op)

	return Outcome{
		Kind:      KindTransportFailure,
		Operation: string(op),
		Level:     LevelError,
		Toast:     t.generic,
		Message:   "Error: " + err.Error(),
		Raw:       err.Error(),
	}
}

// Malformed reports a 2xx body the console could not read.
func (r *Reconciler) Malformed(op client.Operation, status int, err error) Outcome {
	t := templateFor(op)

	return Outcome{
		Kind:       KindBackendRejected,
		Operation:  string(op),
		Level:      LevelError,
		HTTPStatus: status,
		Toast:      t.generic,
		Message:    t.generic,
		Raw:        err.Error(),
	}
}

// Invalid reports a form that never left the console.
func (r *Reconciler) Invalid(op client.Operation, failure *form.Failure) Outcome {
	return Outcome{
		Kind:      KindValidationFailure,
		Operation: string(op),
		Level:     LevelWarning,
		Toast:     failure.Message,
		Message:   failure.Message,
		Fields:    failure.Fields,
	}
}

func (r *Reconciler) failure(op client.Operation, t template, in Input, resp *client.Response) Outcome {
	env := DecodeError(resp.Body)

	out := Outcome{
		Operation:  string(op),
		Level:      LevelError,
		HTTPStatus: resp.StatusCode,
		Code:       env.Code,
		Raw:        env.Detail(),
	}

	switch {
	case resp.StatusCode >= http.StatusInternalServerError:
		out.Kind = KindTransportFailure
		out.Message = fmt.Sprintf("Error: HTTP %d: %s", resp.StatusCode, env.Raw)
		out.Toast = t.generic
		return out
	case env.Code == CodeNotFound || resp.StatusCode == http.StatusNotFound:
		out.Kind = KindNotFound
		out.Message = t.generic
		if t.notFound != nil && in.Key != "" {
			out.Message = t.notFound(in.Key)
		}
	case env.Code == CodeValidationError:
		out.Kind = KindBackendRejected
		out.Message = rejected(t, env)
	default:
		out.Kind = KindBackendRejected
		out.Message = t.generic
	}

	out.Toast = out.Message

	return out
}

func rejected(t template, env Envelope) string {
	if env.Message == "" {
		return fmt.Sprintf("The %s was rejected. Please review the entered values and try again.", t.noun)
	}

	return fmt.Sprintf("The %s was rejected: %s", t.noun, strings.TrimSuffix(env.Message, "."))
}

// decodeBody reads a success body. An empty body is an empty object.
func decodeBody(raw []byte) (map[string]any, error) {
	body := map[string]any{}
	if len(bytes.TrimSpace(raw)) == 0 {
		return body, nil
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return body, nil
}

func str(body map[string]any, key string) string {
	switch v := body[key].(type) {
	case string:
		return v
	case float64:
		return fmt.Sprint(v)
	}

	return ""
}

// StatusCode is the console API status used to answer with o.
func (o Outcome) StatusCode() int {
	switch o.Kind {
	case KindSuccess:
		return http.StatusOK
	case KindValidationFailure:
		return http.StatusUnprocessableEntity
	case KindNotFound:
		return http.StatusNotFound
	case KindBackendRejected:
		if o.HTTPStatus >= 400 && o.HTTPStatus < 500 {
			return o.HTTPStatus
		}
		return http.StatusBadGateway
	}

	return http.StatusBadGateway
}
