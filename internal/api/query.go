package api

import "net/url"

// Query holds list filters such as page, per_page, search or batch_id.
type Query map[string]string

// Encode renders the non-empty filters in key order.
func (q Query) Encode() string {
	if len(q) == 0 {
		return ""
	}
	values := make(url.Values, len(q))
	for key, value := range q {
		if value == "" {
			continue
		}
		values.Set(key, value)
	}
	return values.Encode()
}

func QueryFromValues(values url.Values) Query {
	q := make(Query, len(values))
	for key, vals := range values {
		if len(vals) > 0 {
			q[key] = vals[0]
		}
	}
	return q
}
