package core

import (
	"encoding/json"
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"time"
)

type EncodedBody struct {
	Body        []byte
	ContentType string
}

// EncodeBody renders data for the wire using bodyType. Form bodies repeat the
// key for every array element (ids=1&ids=2); JSON bodies are plain documents.
func EncodeBody(bodyType BodyType, data map[string]any) (EncodedBody, error) {
	if bodyType == "" {
		bodyType = BodyTypeJSON
	}
	switch bodyType {
	case BodyTypeForm:
		return EncodedBody{
			Body:        []byte(EncodeQuery(data)),
			ContentType: bodyType.ContentType(),
		}, nil
	case BodyTypeJSON:
		if data == nil {
			data = map[string]any{}
		}
		body, err := json.Marshal(data)
		if err != nil {
			return EncodedBody{}, fmt.Errorf("core: encode json body: %w", err)
		}
		return EncodedBody{
			Body:        body,
			ContentType: bodyType.ContentType(),
		}, nil
	default:
		return EncodedBody{}, fmt.Errorf("core: unsupported body type %q", bodyType)
	}
}

// EncodeQuery form-encodes data. Nested maps use parent[child] keys.
func EncodeQuery(data map[string]any) string {
	return FormValues(data).Encode()
}

func FormValues(data map[string]any) url.Values {
	values := url.Values{}
	for key, value := range data {
		if key == "" {
			continue
		}
		appendFormValue(values, key, value)
	}
	return values
}

func appendFormValue(values url.Values, key string, value any) {
	switch typed := value.(type) {
	case nil:
		values.Add(key, "")
		return
	case string:
		values.Add(key, typed)
		return
	case []byte:
		values.Add(key, string(typed))
		return
	case bool:
		values.Add(key, strconv.FormatBool(typed))
		return
	case json.Number:
		values.Add(key, typed.String())
		return
	case time.Time:
		values.Add(key, typed.UTC().Format(time.RFC3339))
		return
	case map[string]any:
		for child, item := range typed {
			appendFormValue(values, key+"["+child+"]", item)
		}
		return
	case map[string]string:
		for child, item := range typed {
			values.Add(key+"["+child+"]", item)
		}
		return
	case fmt.Stringer:
		values.Add(key, typed.String())
		return
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			appendFormValue(values, key, rv.Index(i).Interface())
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		values.Add(key, strconv.FormatInt(rv.Int(), 10))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		values.Add(key, strconv.FormatUint(rv.Uint(), 10))
	case reflect.Float32, reflect.Float64:
		values.Add(key, strconv.FormatFloat(rv.Float(), 'f', -1, 64))
	case reflect.Pointer:
		if rv.IsNil() {
			values.Add(key, "")
			return
		}
		appendFormValue(values, key, rv.Elem().Interface())
	default:
		values.Add(key, fmt.Sprint(value))
	}
}
