package attrly

import (
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// DefaultTimeLayout is used for time parsing when a field tag specifies none.
const DefaultTimeLayout = time.RFC3339

var (
	timeType      = reflect.TypeOf(time.Time{})
	byteSliceType = reflect.TypeOf([]byte(nil))
)

// coerce converts a leaf value to the target type; assignable values pass
// through unchanged, scalars follow the usual widening/parsing rules.
func coerce(value interface{}, target reflect.Type, timeLayout string) (interface{}, error) {
	if value == nil {
		return nil, nil
	}
	srcType := reflect.TypeOf(value)
	if srcType == target || srcType.AssignableTo(target) {
		return value, nil
	}
	src := reflect.ValueOf(value)
	switch target.Kind() {
	case reflect.String:
		return coerceString(src)
	case reflect.Bool:
		return coerceBool(src)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		ret, err := coerceInt(src)
		if err != nil {
			return nil, err
		}
		return reflect.ValueOf(ret).Convert(target).Interface(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		ret, err := coerceUint(src)
		if err != nil {
			return nil, err
		}
		return reflect.ValueOf(ret).Convert(target).Interface(), nil
	case reflect.Float32, reflect.Float64:
		ret, err := coerceFloat(src)
		if err != nil {
			return nil, err
		}
		return reflect.ValueOf(ret).Convert(target).Interface(), nil
	}
	if target == timeType {
		return coerceTime(src, timeLayout)
	}
	if target == byteSliceType && src.Kind() == reflect.String {
		return []byte(src.String()), nil
	}
	if srcType.ConvertibleTo(target) {
		return src.Convert(target).Interface(), nil
	}
	return nil, errors.Errorf("cannot convert %s to %s", srcType, target)
}

func coerceString(src reflect.Value) (interface{}, error) {
	switch src.Kind() {
	case reflect.String:
		return src.String(), nil
	case reflect.Bool:
		return strconv.FormatBool(src.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(src.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(src.Uint(), 10), nil
	case reflect.Float32:
		return strconv.FormatFloat(src.Float(), 'f', -1, 32), nil
	case reflect.Float64:
		return strconv.FormatFloat(src.Float(), 'f', -1, 64), nil
	case reflect.Slice:
		if src.Type().Elem().Kind() == reflect.Uint8 {
			return string(src.Bytes()), nil
		}
	}
	return nil, errors.Errorf("cannot convert %s to string", src.Type())
}

func coerceBool(src reflect.Value) (interface{}, error) {
	switch src.Kind() {
	case reflect.Bool:
		return src.Bool(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return src.Int() != 0, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return src.Uint() != 0, nil
	case reflect.Float32, reflect.Float64:
		return src.Float() != 0, nil
	case reflect.String:
		ret, err := strconv.ParseBool(src.String())
		if err != nil {
			return nil, errors.Wrapf(err, "cannot convert %q to bool", src.String())
		}
		return ret, nil
	}
	return nil, errors.Errorf("cannot convert %s to bool", src.Type())
}

func coerceInt(src reflect.Value) (int64, error) {
	switch src.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return src.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int64(src.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return int64(src.Float()), nil
	case reflect.Bool:
		if src.Bool() {
			return 1, nil
		}
		return 0, nil
	case reflect.String:
		text := src.String()
		if strings.Contains(text, ".") {
			ret, err := strconv.ParseFloat(text, 64)
			if err != nil {
				return 0, errors.Wrapf(err, "cannot convert %q to int", text)
			}
			return int64(ret), nil
		}
		ret, err := strconv.ParseInt(text, 0, 64)
		if err != nil {
			return 0, errors.Wrapf(err, "cannot convert %q to int", text)
		}
		return ret, nil
	}
	return 0, errors.Errorf("cannot convert %s to int", src.Type())
}

func coerceUint(src reflect.Value) (uint64, error) {
	switch src.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return src.Uint(), nil
	}
	ret, err := coerceInt(src)
	if err != nil {
		return 0, err
	}
	if ret < 0 {
		return 0, errors.Errorf("cannot convert negative value %d to uint", ret)
	}
	return uint64(ret), nil
}

func coerceFloat(src reflect.Value) (float64, error) {
	switch src.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(src.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(src.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return src.Float(), nil
	case reflect.String:
		ret, err := strconv.ParseFloat(src.String(), 64)
		if err != nil {
			return 0, errors.Wrapf(err, "cannot convert %q to float", src.String())
		}
		return ret, nil
	}
	return 0, errors.Errorf("cannot convert %s to float", src.Type())
}

func coerceTime(src reflect.Value, timeLayout string) (interface{}, error) {
	switch src.Kind() {
	case reflect.String:
		text := src.String()
		layouts := []string{DefaultTimeLayout, time.RFC3339Nano, "2006-01-02 15:04:05", "2006-01-02"}
		if timeLayout != "" {
			layouts = append([]string{timeLayout}, layouts...)
		}
		var err error
		for _, layout := range layouts {
			var ret time.Time
			if ret, err = time.Parse(layout, text); err == nil {
				return ret, nil
			}
		}
		return nil, errors.Wrapf(err, "cannot parse time %q", text)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return time.Unix(src.Int(), 0), nil
	case reflect.Float32, reflect.Float64:
		seconds := int64(src.Float())
		nanos := int64((src.Float() - float64(seconds)) * 1e9)
		return time.Unix(seconds, nanos), nil
	}
	return nil, errors.Errorf("cannot convert %s to time.Time", src.Type())
}
