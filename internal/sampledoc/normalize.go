package sampledoc

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/redbco/docsynth/internal/value"
)

// Normalize converts a SampleDocument's raw BSON-decoded map into a
// NormalizedDocument: structurally identical, but every BSON-only type is
// rewritten to a JSON-compatible value.Value and recorded in TypeHints
// keyed by its dotted path.
func Normalize(doc SampleDocument) NormalizedDocument {
	hints := make(map[string]TypeHint)
	v := normalizeValue("", doc.Raw, hints)
	return NormalizedDocument{
		CollectionName: doc.CollectionName,
		SampledAt:      doc.SampledAt,
		SampleIndex:    doc.SampleIndex,
		Value:          v,
		TypeHints:      hints,
	}
}

func normalizeValue(path string, raw interface{}, hints map[string]TypeHint) value.Value {
	switch t := raw.(type) {
	case nil:
		return value.NewNull()
	case bool:
		return value.NewBool(t)
	case int32:
		return value.NewInt(int64(t))
	case int64:
		return value.NewInt(t)
	case int:
		return value.NewInt(int64(t))
	case float64:
		return value.NewFloat(t)
	case float32:
		return value.NewFloat(float64(t))
	case string:
		return value.NewString(t)

	case primitive.ObjectID:
		recordHint(hints, path, "objectId")
		return value.NewObjectID(t.Hex())

	case primitive.DateTime:
		recordHint(hints, path, "date")
		return value.NewDateTime(t.Time())

	case primitive.Timestamp:
		recordHint(hints, path, "timestamp")
		return value.NewDateTime(primitive.DateTime(int64(t.T) * 1000).Time())

	case primitive.Decimal128:
		recordHint(hints, path, "decimal128")
		return value.NewDecimal128(t.String())

	case primitive.Binary:
		recordHint(hints, path, "binData")
		return value.NewBinary(t.Data)

	case primitive.Regex:
		recordHint(hints, path, "regex")
		return value.NewString(t.Pattern)

	case []interface{}:
		items := make([]value.Value, len(t))
		for i, item := range t {
			items[i] = normalizeValue(path, item, hints)
		}
		return value.NewArray(items)

	case primitive.A:
		items := make([]value.Value, len(t))
		for i, item := range t {
			items[i] = normalizeValue(path, item, hints)
		}
		return value.NewArray(items)

	case map[string]interface{}:
		return normalizeObject(path, t, hints)

	case primitive.M:
		return normalizeObject(path, map[string]interface{}(t), hints)

	case primitive.D:
		m := make(map[string]interface{}, len(t))
		order := make([]string, 0, len(t))
		for _, e := range t {
			m[e.Key] = e.Value
			order = append(order, e.Key)
		}
		obj := normalizeObject(path, m, hints)
		obj.ObjKeys = order
		return obj

	default:
		// Unknown/exotic BSON type: fall back to its string form rather
		// than aborting the whole normalization pass.
		recordHint(hints, path, fmt.Sprintf("%T", t))
		return value.NewString(fmt.Sprintf("%v", t))
	}
}

func normalizeObject(path string, m map[string]interface{}, hints map[string]TypeHint) value.Value {
	obj := make(map[string]value.Value, len(m))
	for k, raw := range m {
		childPath := value.JoinPath(path, k)
		obj[k] = normalizeValue(childPath, raw, hints)
	}
	return value.NewObject(obj)
}

func recordHint(hints map[string]TypeHint, path, originalType string) {
	if path == "" {
		return
	}
	hint, ok := LookupBinaryType(originalType)
	if !ok {
		hint = TypeHint{OriginalType: originalType, JSONSchemaType: "string"}
	}
	hints[path] = hint
}
