package config

import (
	"reflect"
	"strconv"
	"time"

	"github.com/go-viper/mapstructure/v2"
)

var durationType = reflect.TypeOf(time.Duration(0))

// MillisecondsHook decodes bare numbers into durations in milliseconds.
// Numeric strings, as they arrive from environment variables, count as
// numbers. Other values pass through.
func MillisecondsHook(from, to reflect.Type, data any) (any, error) {
	if to != durationType || from == durationType {
		return data, nil
	}
	v := reflect.ValueOf(data)
	switch from.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return time.Duration(v.Int()) * time.Millisecond, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return time.Duration(v.Uint()) * time.Millisecond, nil
	case reflect.Float32, reflect.Float64:
		return time.Duration(v.Float() * float64(time.Millisecond)), nil
	case reflect.String:
		if f, err := strconv.ParseFloat(v.String(), 64); err == nil {
			return time.Duration(f * float64(time.Millisecond)), nil
		}
	}
	return data, nil
}

// DecodeHook is the hook chain used for every configuration decode.
// It extends viper's default chain with MillisecondsHook.
func DecodeHook() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		MillisecondsHook,
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)
}
