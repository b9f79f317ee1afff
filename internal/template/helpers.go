package template

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
)

// marshalJSON marshals an interface to JSON with proper formatting
func (r *Renderer) marshalJSON(v interface{}) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}

func (r *Renderer) base64Encode(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}

func (r *Renderer) base64Decode(s string) (string, error) {
	decoded, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}

// indent prefixes every line of s except a trailing empty one.
func (r *Renderer) indent(prefix, s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line != "" || i < len(lines)-1 {
			lines[i] = prefix + line
		}
	}
	return strings.Join(lines, "\n")
}

func (r *Renderer) sha256Hash(s string) string {
	return fmt.Sprintf("%x", sha256.Sum256([]byte(s)))
}
