package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

type Parameter map[string]string

func (p Parameter) ToReader() (io.Reader, string, error) {
	return bytes.NewBufferString(p.Encode()), "application/x-www-form-urlencoded", nil
}

// Encode returns the parameters sorted by key, spaces escaped as %20.
func (p Parameter) Encode() string {
	values := url.Values{}
	for key, value := range p {
		values.Set(key, value)
	}

	return strings.ReplaceAll(values.Encode(), "+", "%20")
}

type JSON map[string]any

type Array []any

func (j JSON) ToReader() (io.Reader, string, error) {
	b, err := json.Marshal(j)
	if err != nil {
		return nil, "", err
	}
	return bytes.NewBuffer(b), "application/json", nil
}

func (m JSON) GetJSON(key string) (JSON, error) {
	value, err := m.Get(key)
	if err != nil {
		return nil, err
	}

	if value == nil {
		return nil, nil
	}

	switch t := value.(type) {
	case JSON:
		return t, nil
	case map[string]any:
		return JSON(t), nil
	}

	return nil, fmt.Errorf("invalid type of field %s (%T)", key, value)
}

func (m JSON) GetArray(key string) (Array, error) {
	value, err := m.Get(key)
	if err != nil {
		return nil, err
	}

	if value == nil {
		return nil, nil
	}

	switch t := value.(type) {
	case Array:
		return t, nil
	case []any:
		return Array(t), nil
	}

	return nil, fmt.Errorf("invalid type of field %s", key)
}

func (m JSON) GetString(key string) (string, error) {
	value, err := m.Get(key)
	if err != nil {
		return "", err
	}

	if value == nil {
		return "", nil
	}

	if s, ok := value.(string); ok {
		return s, nil
	}

	return "", fmt.Errorf("invalid type of field %s (%T)", key, value)
}

// Text returns the field formatted as a string whatever its JSON type is.
// Missing and null fields return an empty string.
func (m JSON) Text(key string) string {
	value, err := m.Get(key)
	if err != nil || value == nil {
		return ""
	}

	switch t := value.(type) {
	case string:
		return t
	case float64:
		if t == float64(int64(t)) {
			return fmt.Sprint(int64(t))
		}
	}

	return fmt.Sprint(value)
}

func (m JSON) Get(key string) (any, error) {
	key, subKey, found := strings.Cut(key, ".")

	value, ok := m[key]
	if !ok {
		return nil, fmt.Errorf("not found field %s", key)
	}

	if found {
		if mvalue, ok := value.(map[string]any); ok {
			return JSON(mvalue).Get(subKey)
		}
		return nil, fmt.Errorf("invalid type of field %s (%T)", key, value)
	}

	return value, nil
}

// JSONAt returns the element at index i of an array if it is an object.
func (a Array) JSONAt(i int) (JSON, bool) {
	if i < 0 || i >= len(a) {
		return nil, false
	}

	m, ok := a[i].(map[string]any)
	return JSON(m), ok
}

func bytesToJSON(body []byte) (JSON, error) {
	result := JSON{}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, err
	}

	return result, nil
}

func bytesToArray(body []byte) (Array, error) {
	result := Array{}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, err
	}

	return result, nil
}

type Response struct {
	Code    int
	Header  http.Header
	RawBody []byte

	// Body is either JSON, Array or nil when the payload is not JSON.
	Body any
}

func (r *Response) OK() bool {
	return r.Code >= 200 && r.Code < 300
}

func (r *Response) JSON() (JSON, bool) {
	j, ok := r.Body.(JSON)
	return j, ok
}

func (r *Response) Array() (Array, bool) {
	a, ok := r.Body.(Array)
	return a, ok
}
