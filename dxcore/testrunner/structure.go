/*
   Copyright 2025 The DIRPX Authors

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package testrunner

import dxerrors "dirpx.dev/promptpm/dxcore/errors"

// StructureType names the shape a "structure" assertion expects rendered
// output to parse as.
type StructureType int

const (
	// JSONObject expects the rendered output to parse as a JSON object.
	// This is the default when a structure assertion does not name a type.
	JSONObject StructureType = iota
	// JSONArray expects the rendered output to parse as a JSON array.
	JSONArray
)

const (
	jsonObjectStr = "json_object"
	jsonArrayStr  = "json_array"
)

// String returns the wire representation of t.
func (t StructureType) String() string {
	switch t {
	case JSONObject:
		return jsonObjectStr
	case JSONArray:
		return jsonArrayStr
	default:
		return "unknown"
	}
}

// Valid reports whether t is a known structure type.
func (t StructureType) Valid() bool {
	return t == JSONObject || t == JSONArray
}

// ParseStructureType parses s into a StructureType. An empty string is not
// accepted here; callers default to JSONObject before parsing when a
// structure assertion omits "type".
func ParseStructureType(s string) (StructureType, error) {
	switch s {
	case jsonObjectStr:
		return JSONObject, nil
	case jsonArrayStr:
		return JSONArray, nil
	default:
		return 0, &dxerrors.ParseError{Type: "StructureType", Value: s}
	}
}
