package httpclient

import (
	"encoding/json"
	"fmt"
	"maps"
	"net/url"
	"reflect"
	"strings"
	"time"
)

// Credentials is an HTTP Basic username and password pair.
type Credentials struct {
	Username string
	Password string
}

// RequestOptions describes one outgoing request. It is built per call and
// never shared between calls. GET requests carry Params and no Data; every
// other method carries Data and no Params.
type RequestOptions struct {
	Method  string
	URL     string
	BaseURL string
	Headers map[string]string
	Timeout time.Duration
	Params  map[string]any
	Data    any
	Auth    *Credentials
}

// FullURL joins BaseURL and URL.
func (o RequestOptions) FullURL() string {
	return ResolveURL(o.BaseURL, o.URL)
}

// Clone returns a copy whose header and param maps can be changed freely.
func (o RequestOptions) Clone() RequestOptions {
	o.Headers = maps.Clone(o.Headers)
	o.Params = maps.Clone(o.Params)
	if o.Auth != nil {
		creds := *o.Auth
		o.Auth = &creds
	}
	return o
}

// ResolveURL joins base and path with exactly one slash between them.
// An absolute http(s) path is returned unchanged, an empty one yields base.
func ResolveURL(base, path string) string {
	if path == "" {
		return base
	}
	if base == "" || strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}

// EncodeParams converts query parameters into url.Values. Nil values are
// dropped, slices repeat the key, maps and structs are sent as JSON.
func EncodeParams(params map[string]any) url.Values {
	values := make(url.Values, len(params))
	for key, v := range params {
		if v == nil {
			continue
		}
		switch val := v.(type) {
		case string:
			values.Add(key, val)
		case []string:
			for _, s := range val {
				values.Add(key, s)
			}
		case time.Time:
			values.Add(key, val.Format(time.RFC3339Nano))
		case fmt.Stringer:
			values.Add(key, val.String())
		default:
			rv := reflect.ValueOf(v)
			switch rv.Kind() {
			case reflect.Slice, reflect.Array:
				for i := 0; i < rv.Len(); i++ {
					values.Add(key, paramString(rv.Index(i).Interface()))
				}
			default:
				values.Add(key, paramString(v))
			}
		}
	}
	return values
}

func paramString(v any) string {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map, reflect.Struct:
		if data, err := json.Marshal(v); err == nil {
			return string(data)
		}
	}
	return fmt.Sprint(v)
}
