package reconcile

import (
	"bytes"
	"encoding/json"
	"strings"
)

const (
	CodeNotFound        = "NOT_FOUND"
	CodeValidationError = "VALIDATION_ERROR"
)

// codeAliases folds the spellings different backends use onto the codes the
// console knows.
var codeAliases = map[string]string{
	"NOT_FOUND":          CodeNotFound,
	"RESOURCE_NOT_FOUND": CodeNotFound,
	"MODEL_ID_NOT_FOUND": CodeNotFound,
	"VALIDATION_ERROR":   CodeValidationError,
	"INVALID_REQUEST":    CodeValidationError,
}

// Envelope is a decoded error body. Code is empty when the body carried no
// recognizable code; Raw always holds the body as text.
type Envelope struct {
	Code       string
	Message    string
	Raw        string
	Structured bool
}

// Known reports whether the code is part of the console vocabulary.
func (e Envelope) Known() bool {
	return e.Code == CodeNotFound || e.Code == CodeValidationError
}

// Detail is the most specific human-readable piece of the error.
func (e Envelope) Detail() string {
	switch {
	case e.Message != "":
		return e.Message
	case e.Code != "":
		return e.Code
	}

	return e.Raw
}

// DecodeError reads error bodies of the shapes the backend produces:
//
//	{"detail": "{\"error\":\"NOT_FOUND\"}"}          detail is JSON in a string
//	{"detail": {"error": {"type": "NOT_FOUND"}}}      detail is an object
//	{"detail": [{"loc": [...], "msg": "..."}]}        request validation
//	{"error": "VALIDATION_ERROR", "message": "..."}   flat
//	SKU not found                                     plain text
func DecodeError(body []byte) Envelope {
	env := Envelope{Raw: strings.TrimSpace(string(body))}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(body, &top); err != nil {
		env.Message = env.Raw
		return env
	}

	env.fill(top)

	if detail, ok := top["detail"]; ok {
		env.fromDetail(detail)
	}

	env.Code = normalizeCode(env.Code)

	return env
}

func (e *Envelope) fromDetail(raw json.RawMessage) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return
	}

	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return
		}

		var nested map[string]json.RawMessage
		if err := json.Unmarshal([]byte(s), &nested); err == nil {
			e.fill(nested)
			return
		}

		e.Message = strings.TrimSpace(s)
		e.Structured = true
	case '{':
		var nested map[string]json.RawMessage
		if err := json.Unmarshal(raw, &nested); err == nil {
			e.fill(nested)
		}
	case '[':
		var items []struct {
			Msg string `json:"msg"`
		}
		if err := json.Unmarshal(raw, &items); err != nil {
			return
		}

		msgs := make([]string, 0, len(items))
		for _, it := range items {
			if it.Msg != "" {
				msgs = append(msgs, it.Msg)
			}
		}
		e.Code = CodeValidationError
		e.Message = strings.Join(msgs, "; ")
		e.Structured = true
	}
}

// fill reads "error"/"code"/"message" keys. "error" may itself be an object
// with "type" and "message".
func (e *Envelope) fill(m map[string]json.RawMessage) {
	for _, key := range []string{"error", "code"} {
		raw, ok := m[key]
		if !ok {
			continue
		}

		var s string
		if err := json.Unmarshal(raw, &s); err == nil && s != "" {
			e.Code = s
			e.Structured = true
			break
		}

		var obj struct {
			Type    string `json:"type"`
			Code    string `json:"code"`
			Message string `json:"message"`
		}
		if err := json.Unmarshal(raw, &obj); err == nil {
			if obj.Type != "" {
				e.Code = obj.Type
			} else if obj.Code != "" {
				e.Code = obj.Code
			}
			if obj.Message != "" {
				e.Message = obj.Message
			}
			e.Structured = e.Code != "" || e.Message != ""
			break
		}
	}

	if raw, ok := m["message"]; ok {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil && s != "" {
			e.Message = s
			e.Structured = true
		}
	}
}

func normalizeCode(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if known, ok := codeAliases[code]; ok {
		return known
	}

	return code
}
