package station

import (
	"strings"

	"github.com/google/uuid"
)

// Resolution is the outcome of matching caller-supplied station references
// against the full catalog.
type Resolution struct {
	Stations  []*Station
	Unmatched []string
}

func (r Resolution) IDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(r.Stations))
	for _, s := range r.Stations {
		ids = append(ids, s.ID())
	}
	return ids
}

// SplitRefs flattens references that may arrive as a list, a CSV string or a mix of both.
func SplitRefs(raw []string) []string {
	var refs []string
	for _, r := range raw {
		for _, part := range strings.Split(r, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				refs = append(refs, part)
			}
		}
	}
	return refs
}

// Resolve maps each reference to a catalog station. A reference is tried as a UUID
// first, then as a case-insensitive exact name, then as a case-insensitive substring
// of a name. The first catalog entry wins on ambiguity; duplicates are collapsed.
func Resolve(refs []string, catalog []*Station) Resolution {
	byID := make(map[uuid.UUID]*Station, len(catalog))
	for _, s := range catalog {
		byID[s.ID()] = s
	}

	var res Resolution
	seen := make(map[uuid.UUID]struct{}, len(refs))
	for _, ref := range refs {
		s := match(ref, byID, catalog)
		if s == nil {
			res.Unmatched = append(res.Unmatched, ref)
			continue
		}
		if _, dup := seen[s.ID()]; dup {
			continue
		}
		seen[s.ID()] = struct{}{}
		res.Stations = append(res.Stations, s)
	}
	return res
}

func match(ref string, byID map[uuid.UUID]*Station, catalog []*Station) *Station {
	if id, err := uuid.Parse(ref); err == nil {
		return byID[id]
	}

	needle := strings.ToLower(strings.TrimSpace(ref))
	for _, s := range catalog {
		if strings.ToLower(s.Name()) == needle {
			return s
		}
	}
	for _, s := range catalog {
		if strings.Contains(strings.ToLower(s.Name()), needle) {
			return s
		}
	}
	return nil
}

// Names lists the catalog for not-found responses.
func Names(catalog []*Station) []string {
	names := make([]string, 0, len(catalog))
	for _, s := range catalog {
		names = append(names, s.Name())
	}
	return names
}
