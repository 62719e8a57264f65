package classifier

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonrepair"

	"github.com/user/autothread/internal/types"
)

// parseClassification decodes model output into a Classification. Models
// occasionally wrap the object in a code fence or emit slightly broken JSON,
// so the fence is stripped and jsonrepair is tried before giving up.
func parseClassification(raw string) (*types.Classification, error) {
	body := stripFence(strings.TrimSpace(raw))
	if body == "" {
		return nil, fmt.Errorf("empty model output")
	}

	var out types.Classification
	if err := json.Unmarshal([]byte(body), &out); err != nil {
		repaired, repairErr := jsonrepair.JSONRepair(body)
		if repairErr != nil {
			return nil, fmt.Errorf("decode classification: %w", err)
		}
		if err := json.Unmarshal([]byte(repaired), &out); err != nil {
			return nil, fmt.Errorf("decode repaired classification: %w", err)
		}
	}

	out.ShortTitle = strings.TrimSpace(out.ShortTitle)
	if out.ShortTitle == "" {
		return nil, fmt.Errorf("classification has empty short_title")
	}
	return &out, nil
}

func stripFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
