package sheets

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

const tagName = "sheet"

// Decode copies row cells into the struct pointed to by dst using `sheet:"Header"` tags.
// Numeric cells that do not parse decode as zero.
func Decode(row Row, dst interface{}) error {
	v := reflect.ValueOf(dst)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("sheets: decode target must be a struct pointer, got %T", dst)
	}
	v = v.Elem()
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		header := headerOf(t.Field(i))
		if header == "" {
			continue
		}
		raw := strings.TrimSpace(row[header])
		field := v.Field(i)
		switch field.Kind() {
		case reflect.String:
			field.SetString(row[header])
		case reflect.Float32, reflect.Float64:
			f, _ := strconv.ParseFloat(raw, 64)
			field.SetFloat(f)
		case reflect.Int, reflect.Int32, reflect.Int64:
			n, _ := strconv.ParseInt(raw, 10, 64)
			field.SetInt(n)
		case reflect.Bool:
			b, _ := strconv.ParseBool(raw)
			field.SetBool(b)
		default:
			return fmt.Errorf("sheets: unsupported field kind %s for %q", field.Kind(), header)
		}
	}
	return nil
}

// Encode renders a tagged struct as a Row.
func Encode(src interface{}) (Row, error) {
	v := reflect.ValueOf(src)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil, fmt.Errorf("sheets: encode source must be a struct, got %T", src)
	}
	t := v.Type()
	row := make(Row, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		header := headerOf(t.Field(i))
		if header == "" {
			continue
		}
		field := v.Field(i)
		switch field.Kind() {
		case reflect.String:
			row[header] = field.String()
		case reflect.Float32, reflect.Float64:
			row[header] = FormatNumber(field.Float())
		case reflect.Int, reflect.Int32, reflect.Int64:
			row[header] = strconv.FormatInt(field.Int(), 10)
		case reflect.Bool:
			row[header] = strconv.FormatBool(field.Bool())
		default:
			return nil, fmt.Errorf("sheets: unsupported field kind %s for %q", field.Kind(), header)
		}
	}
	return row, nil
}

// FormatNumber writes f without trailing zeros, e.g. 5000 or 12.5.
func FormatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func headerOf(f reflect.StructField) string {
	if !f.IsExported() {
		return ""
	}
	tag := f.Tag.Get(tagName)
	if tag == "-" {
		return ""
	}
	return tag
}
