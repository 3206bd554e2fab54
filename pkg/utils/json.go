package utils

import (
	"bytes"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// PrettyJSON serializa o valor com indentação, para logs e relatórios.
// Falhas de serialização retornam string vazia
func PrettyJSON(in any) string {
	buffer, err := json.Marshal(in)
	if err != nil {
		return ""
	}

	var out bytes.Buffer
	if err := jsonIndent(&out, buffer); err != nil {
		return string(buffer)
	}

	return out.String()
}

func jsonIndent(out *bytes.Buffer, in []byte) error {
	var v any
	if err := json.Unmarshal(in, &v); err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
