package collection

// refKey is the nested external-source subobject the backend embeds in
// collection entries.
const refKey = "card"

// Normalize flattens nested card-reference objects throughout a decoded JSON
// value: the reference's display name is collapsed one level up as
// "card_name" and the nested object removed, so the model always sees flat,
// consistent records.
func Normalize(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		if ref, ok := val[refKey].(map[string]interface{}); ok {
			if name, ok := ref["name"].(string); ok {
				val[refKey+"_name"] = name
			}
			delete(val, refKey)
		}
		for k, child := range val {
			val[k] = Normalize(child)
		}
		return val
	case []interface{}:
		for i, child := range val {
			val[i] = Normalize(child)
		}
		return val
	default:
		return v
	}
}
