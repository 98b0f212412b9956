package sampledoc

// binaryTypeMapping is the "known function table" the spec's §1 non-goal
// refers to: a small, fixed map from a BSON/MongoDB type name to the
// JSON-Schema type/format it normalizes to. This module does not attempt
// a general multi-database type system — MongoDB is the only source/sink
// this spec drives, so the table stays intentionally narrow.
var binaryTypeMapping = map[string]TypeHint{
	"objectId":   {OriginalType: "objectId", JSONSchemaType: "string", JSONSchemaFormat: "objectid"},
	"date":       {OriginalType: "date", JSONSchemaType: "string", JSONSchemaFormat: "date-time"},
	"timestamp":  {OriginalType: "timestamp", JSONSchemaType: "string", JSONSchemaFormat: "date-time"},
	"decimal128": {OriginalType: "decimal128", JSONSchemaType: "string", JSONSchemaFormat: "decimal"},
	"binData":    {OriginalType: "binData", JSONSchemaType: "string", JSONSchemaFormat: "base64"},
	"regex":      {OriginalType: "regex", JSONSchemaType: "string", JSONSchemaFormat: ""},
}

// LookupBinaryType returns the TypeHint for a known BSON binary-only type
// name, or false if originalType is not in the table (i.e. it already
// normalizes to a plain JSON primitive and needs no hint).
func LookupBinaryType(originalType string) (TypeHint, bool) {
	hint, ok := binaryTypeMapping[originalType]
	return hint, ok
}
