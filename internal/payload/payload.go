package payload

// Helpers for reading fields out of decoded JSON bodies. Numbers arrive as
// float64 after json.Unmarshal into map[string]any.

func Has(m map[string]any, k string) bool {
	v, ok := m[k]
	return ok && v != nil
}

func Str(m map[string]any, k string) string {
	s, _ := m[k].(string)
	return s
}

func Int(m map[string]any, k string) int64 {
	if f, ok := m[k].(float64); ok {
		return int64(f)
	}
	return 0
}

func Num(m map[string]any, k string) float64 {
	f, _ := m[k].(float64)
	return f
}
