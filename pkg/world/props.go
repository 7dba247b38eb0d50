package world

// Props is the free-form property bag a placed object is authored with.
// Values are heterogeneous scalars; consumers read the specific keys they
// care about through the typed getters and fail closed (absent or
// mistyped values read as not-present, never panic).
type Props map[string]any

func (p Props) Float(key string) (float64, bool) {
	switch v := p[key].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}

func (p Props) Bool(key string) (bool, bool) {
	v, ok := p[key].(bool)
	return v, ok
}

func (p Props) String(key string) (string, bool) {
	v, ok := p[key].(string)
	return v, ok
}

func (p Props) Clone() Props {
	if p == nil {
		return nil
	}
	clone := make(Props, len(p))
	for key, value := range p {
		clone[key] = value
	}
	return clone
}
