package llm

import (
	"encoding/json"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

// stripFence removes a ```json ... ``` wrapper if the model added one.
func stripFence(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.Trim(s, "`")
	s = strings.TrimSpace(s)
	if len(s) >= 4 && strings.EqualFold(s[:4], "json") {
		s = s[4:]
	}
	return strings.TrimSpace(s)
}

// decodeStrict is used by the relevance gates: anything but valid JSON of
// the expected shape is an error.
func decodeStrict[T any](raw string) (T, error) {
	var out T
	err := json.Unmarshal([]byte(stripFence(raw)), &out)
	return out, err
}

// decodeLenient retries once through jsonrepair. Only for name extraction,
// where a repaired answer cannot let an irrelevant company through.
func decodeLenient[T any](raw string) (T, error) {
	s := stripFence(raw)
	var out T
	err := json.Unmarshal([]byte(s), &out)
	if err == nil {
		return out, nil
	}
	repaired, rerr := jsonrepair.JSONRepair(s)
	if rerr != nil {
		return out, err
	}
	var again T
	if err := json.Unmarshal([]byte(repaired), &again); err != nil {
		return out, err
	}
	return again, nil
}
