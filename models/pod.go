package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// PODPaths is the ordered list of proof-of-delivery document URLs of a trip.
// The canonical stored form is a JSON array; older rows may hold a bare URL
// or a comma-joined list and are normalized when read.
type PODPaths []string

// ParsePODPaths normalizes any stored pod_path representation into a list.
func ParsePODPaths(raw string) PODPaths {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "null" {
		return PODPaths{}
	}

	var list []string
	if err := json.Unmarshal([]byte(raw), &list); err == nil {
		return compactPaths(list)
	}
	var single string
	if err := json.Unmarshal([]byte(raw), &single); err == nil {
		return compactPaths([]string{single})
	}

	return compactPaths(strings.Split(raw, ","))
}

func compactPaths(in []string) PODPaths {
	out := PODPaths{}
	for _, p := range in {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Canonical reports whether raw is already stored as a JSON array of strings.
func Canonical(raw string) bool {
	var list []string
	return json.Unmarshal([]byte(strings.TrimSpace(raw)), &list) == nil && list != nil
}

// Union appends the urls not already present, keeping existing order.
func (p PODPaths) Union(urls []string) PODPaths {
	seen := make(map[string]struct{}, len(p))
	out := make(PODPaths, 0, len(p)+len(urls))
	for _, u := range p {
		seen[u] = struct{}{}
		out = append(out, u)
	}
	for _, u := range urls {
		u = strings.TrimSpace(u)
		if u == "" {
			continue
		}
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	return out
}

// Latest returns the most recently appended URL.
func (p PODPaths) Latest() (string, bool) {
	if len(p) == 0 {
		return "", false
	}
	return p[len(p)-1], true
}

func (p PODPaths) Status() PODStatus {
	if len(p) > 0 {
		return PODReceived
	}
	return PODPending
}

func (p PODPaths) Value() (driver.Value, error) {
	if p == nil {
		p = PODPaths{}
	}
	b, err := json.Marshal([]string(p))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (p *PODPaths) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*p = PODPaths{}
	case string:
		*p = ParsePODPaths(v)
	case []byte:
		*p = ParsePODPaths(string(v))
	default:
		return fmt.Errorf("unsupported pod_path type %T", src)
	}
	return nil
}

// PODPayload is the body of a POD append request: either a single URL or a
// list of URLs.
type PODPayload struct {
	URLs []string
}

func (p *PODPayload) UnmarshalJSON(data []byte) error {
	var body map[string]json.RawMessage
	if err := json.Unmarshal(data, &body); err != nil {
		return err
	}
	for _, key := range []string{"pod_url", "pod_urls", "url", "urls"} {
		raw, ok := body[key]
		if !ok {
			continue
		}
		var one string
		if err := json.Unmarshal(raw, &one); err == nil {
			p.URLs = append(p.URLs, one)
			continue
		}
		var many []string
		if err := json.Unmarshal(raw, &many); err != nil {
			return fmt.Errorf("%s must be a string or an array of strings", key)
		}
		p.URLs = append(p.URLs, many...)
	}
	return nil
}
