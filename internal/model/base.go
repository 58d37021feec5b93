package model

// JSONMap represents a generic JSON object
type JSONMap map[string]interface{}

// Copy returns a shallow copy of the map.
func (m JSONMap) Copy() JSONMap {
	out := make(JSONMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
