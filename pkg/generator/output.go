package generator

import (
	"fmt"
	"reflect"
	"strings"
)

// outputKind はプロバイダの戻り値の形を表します。
type outputKind int

const (
	kindUnknown outputKind = iota
	// kindDirect は URL 文字列そのもの
	kindDirect
	// kindWrapped は URL を保持するオブジェクト
	kindWrapped
	// kindList は上記のいずれかを要素に持つ列
	kindList
)

func (k outputKind) String() string {
	switch k {
	case kindDirect:
		return "direct"
	case kindWrapped:
		return "wrapped"
	case kindList:
		return "list"
	default:
		return "unknown"
	}
}

// urlProvider は URL() メソッドで取得先を公開する結果オブジェクトです。
type urlProvider interface {
	URL() string
}

// NormalizeOutput はプロバイダの戻り値を、ダウンロード可能な1つの URL に正規化します。
// 直接の文字列・URL を包んだオブジェクト・それらの列の3通りを受け付け、列の場合は先頭要素を使うのだ。
func NormalizeOutput(raw any) (string, error) {
	kind := classify(raw)
	switch kind {
	case kindDirect:
		return nonEmpty(reflect.ValueOf(raw).String())
	case kindWrapped:
		u, ok := unwrapURL(raw)
		if !ok {
			return "", fmt.Errorf("result object has no url field (%T)", raw)
		}
		return nonEmpty(u)
	case kindList:
		first, ok := firstElement(raw)
		if !ok {
			return "", fmt.Errorf("provider returned an empty result list")
		}
		if classify(first) == kindList {
			return "", fmt.Errorf("nested result lists are not supported")
		}
		return NormalizeOutput(first)
	default:
		return "", fmt.Errorf("unsupported result shape %T", raw)
	}
}

func classify(raw any) outputKind {
	switch v := raw.(type) {
	case nil:
		return kindUnknown
	case string:
		return kindDirect
	case urlProvider, map[string]any, map[string]string:
		return kindWrapped
	case []any, []string, []map[string]any:
		return kindList
	default:
		rv := reflect.ValueOf(v)
		switch rv.Kind() {
		case reflect.String:
			return kindDirect
		case reflect.Slice, reflect.Array:
			return kindList
		case reflect.Map, reflect.Struct, reflect.Pointer:
			return kindWrapped
		}
		return kindUnknown
	}
}

func unwrapURL(raw any) (string, bool) {
	switch v := raw.(type) {
	case urlProvider:
		return v.URL(), true
	case map[string]any:
		s, ok := v["url"].(string)
		return s, ok
	case map[string]string:
		s, ok := v["url"]
		return s, ok
	}

	rv := reflect.ValueOf(raw)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return "", false
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Struct:
		f := rv.FieldByNameFunc(func(name string) bool { return strings.EqualFold(name, "url") })
		if f.IsValid() && f.Kind() == reflect.String {
			return f.String(), true
		}
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return "", false
		}
		f := rv.MapIndex(reflect.ValueOf("url").Convert(rv.Type().Key()))
		if f.IsValid() {
			if s, ok := f.Interface().(string); ok {
				return s, true
			}
		}
	}
	return "", false
}

func firstElement(raw any) (any, bool) {
	rv := reflect.ValueOf(raw)
	if rv.Len() == 0 {
		return nil, false
	}
	return rv.Index(0).Interface(), true
}

func nonEmpty(u string) (string, error) {
	u = strings.TrimSpace(u)
	if u == "" {
		return "", fmt.Errorf("provider returned an empty url")
	}
	return u, nil
}
