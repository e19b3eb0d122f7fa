package utils

import (
	"math"
	"reflect"
)

func setInt(f *reflect.Value, value interface{}) {
	switch cmd := value.(type) {
	case int:
		f.SetInt(int64(cmd))
	case int8:
		f.SetInt(int64(cmd))
	case int16:
		f.SetInt(int64(cmd))
	case int32:
		f.SetInt(int64(cmd))
	case int64:
		f.SetInt(cmd)
	case uint:
		f.SetInt(int64(cmd))
	case uint8:
		f.SetInt(int64(cmd))
	case uint16:
		f.SetInt(int64(cmd))
	case uint32:
		f.SetInt(int64(cmd))
	case uint64:
		f.SetInt(int64(cmd))
	case float32:
		f.SetInt(int64(cmd))
	case float64:
		f.SetInt(int64(cmd))
	}
}

func setUint(f *reflect.Value, value interface{}) {
	switch cmd := value.(type) {
	case int:
		f.SetUint(uint64(math.Abs(float64(cmd))))
	case int8:
		f.SetUint(uint64(math.Abs(float64(cmd))))
	case int16:
		f.SetUint(uint64(math.Abs(float64(cmd))))
	case int32:
		f.SetUint(uint64(math.Abs(float64(cmd))))
	case int64:
		f.SetUint(uint64(math.Abs(float64(cmd))))
	case uint:
		f.SetUint(uint64(cmd))
	case uint8:
		f.SetUint(uint64(cmd))
	case uint16:
		f.SetUint(uint64(cmd))
	case uint32:
		f.SetUint(uint64(cmd))
	case uint64:
		f.SetUint(cmd)
	case float32:
		f.SetUint(uint64(math.Abs(float64(cmd))))
	case float64:
		f.SetUint(uint64(math.Abs(cmd)))
	}
}

func setStructPropertyByName(name string, value interface{}, dst interface{}) {
	dstValue := reflect.ValueOf(dst)
	s := dstValue.Elem()
	if s.Kind() != reflect.Struct {
		return
	}

	f := s.FieldByName(name)
	if !f.IsValid() || !f.CanSet() {
		return
	}

	switch f.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		setUint(&f, value)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		setInt(&f, value)
	case reflect.Bool:
		if b, ok := value.(bool); ok {
			f.SetBool(b)
		}
	case reflect.String:
		if str, ok := value.(string); ok {
			f.SetString(str)
		}
	case reflect.Struct:
		// nested configuration sections arrive as nested JSON objects
		if nested, ok := value.(map[string]interface{}); ok {
			SetStructProperties(nested, f.Addr().Interface())
		}
	}
}

// SetStructProperties applies the values of srcMap to same-named fields of
// the struct dst points to. Numeric values may arrive as float64 (JSON),
// unknown keys and unsupported kinds are ignored.
func SetStructProperties(srcMap map[string]interface{}, dst interface{}) {
	for key, value := range srcMap {
		setStructPropertyByName(key, value, dst)
	}
}
