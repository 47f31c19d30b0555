package store

import "fmt"

// IDsOf converts a mixed list of raw ids and records into the non-empty ids
// they carry, in input order. Nil entries, empty strings and records without an
// id are skipped. Any other element type fails with ErrInvalidArgument. The
// result is nil when no ids remain.
func IDsOf(idsOrValues ...any) ([]string, error) {
	if len(idsOrValues) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(idsOrValues))
	for _, p := range idsOrValues {
		switch v := p.(type) {
		case nil:
		case string:
			if v != "" {
				ids = append(ids, v)
			}
		case Record:
			if isNil(v) {
				continue
			}
			if id := v.GetID(); id != "" {
				ids = append(ids, id)
			}
		default:
			return nil, fmt.Errorf("%w: invalid id or value of type %T", ErrInvalidArgument, p)
		}
	}

	if len(ids) == 0 {
		return nil, nil
	}
	return ids, nil
}

// compactIDs drops empty ids. The input is returned as-is when nothing needs
// dropping, so callers must not modify the result.
func compactIDs(ids []string) []string {
	for i, id := range ids {
		if id != "" {
			continue
		}
		out := make([]string, i, len(ids)-1)
		copy(out, ids[:i])
		for _, rest := range ids[i+1:] {
			if rest != "" {
				out = append(out, rest)
			}
		}
		return out
	}
	return ids
}

// compactValues drops nil records and records without an id.
func compactValues[T Record](values []T) []T {
	for i, v := range values {
		if idOf(v) != "" {
			continue
		}
		out := make([]T, i, len(values)-1)
		copy(out, values[:i])
		for _, rest := range values[i+1:] {
			if idOf(rest) != "" {
				out = append(out, rest)
			}
		}
		return out
	}
	return values
}
