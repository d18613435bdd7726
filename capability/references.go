package capability

import "fmt"

// References applies a reference-extraction key-path to a configuration
// value, returning every resource identifier it harvests. An empty path
// harvests all embedded template reference forms found anywhere within
// content (see FindRefs); a non-empty path descends one key at a time,
// unioning across list elements.
//
// Deviation from the reference implementation (documented in SPEC_FULL.md
// §9): lists are always flattened into the result here, including when the
// path is still non-empty. The reference implementation instead wraps that
// case in a fresh per-element list (relying on a later, separate flatten()
// call to un-nest); doing the union inline avoids depending on that second
// pass altogether.
func References(content interface{}, path Path) ([]string, error) {
	if len(path) == 0 {
		switch v := content.(type) {
		case string:
			return []string{v}, nil
		case []interface{}:
			var result []string
			for _, elem := range v {
				sub, err := References(elem, path)
				if err != nil {
					return nil, err
				}
				result = append(result, sub...)
			}
			return result, nil
		default:
			return FindRefs(content)
		}
	}

	switch v := content.(type) {
	case []interface{}:
		var result []string
		for _, elem := range v {
			sub, err := References(elem, path)
			if err != nil {
				return nil, err
			}
			result = append(result, sub...)
		}
		return result, nil
	case map[string]interface{}:
		next, ok := v[path[0]]
		if !ok {
			return nil, nil
		}
		return References(next, path[1:])
	default:
		return nil, nil
	}
}

// FindRefs scans a portion of configuration for the reference forms defined
// in SPEC_FULL.md §6 ({"Ref": id}, {"!Ref": id}, {"Fn::GetAtt": ...}) and
// returns the list of resource identifiers they name.
func FindRefs(elem interface{}) ([]string, error) {
	switch v := elem.(type) {
	case map[string]interface{}:
		var refs []string
		for key, val := range v {
			switch key {
			case "Ref", "!Ref":
				id, ok := val.(string)
				if !ok {
					return nil, fmt.Errorf("%w: Ref value must be a string, got %v", ErrMalformedValue, val)
				}
				refs = append(refs, id)
			case "Fn::GetAtt":
				id, err := parseGetAtt(val)
				if err != nil {
					return nil, err
				}
				refs = append(refs, id)
			default:
				sub, err := FindRefs(val)
				if err != nil {
					return nil, err
				}
				refs = append(refs, sub...)
			}
		}
		return refs, nil
	case []interface{}:
		var refs []string
		for _, e := range v {
			sub, err := FindRefs(e)
			if err != nil {
				return nil, err
			}
			refs = append(refs, sub...)
		}
		return refs, nil
	case string, bool, float64, int, int64, nil:
		return nil, nil
	default:
		return nil, fmt.Errorf("%w: unexpected configuration value type %T", ErrMalformedValue, elem)
	}
}

// parseGetAtt extracts the referenced resource id from a Fn::GetAtt value,
// which is either "<id>.Arn" or ["<id>", "Arn", ...]; only the first list
// element (or the portion before the dot) is harvested.
func parseGetAtt(val interface{}) (string, error) {
	switch v := val.(type) {
	case string:
		for i := 0; i < len(v); i++ {
			if v[i] == '.' {
				return v[:i], nil
			}
		}
		return "", fmt.Errorf("%w: Fn::GetAtt string %q missing \".Arn\"-style suffix", ErrMalformedValue, v)
	case []interface{}:
		if len(v) == 0 {
			return "", fmt.Errorf("%w: Fn::GetAtt list is empty", ErrMalformedValue)
		}
		id, ok := v[0].(string)
		if !ok {
			return "", fmt.Errorf("%w: Fn::GetAtt list's first element must be a string, got %v", ErrMalformedValue, v[0])
		}
		return id, nil
	default:
		return "", fmt.Errorf("%w: Fn::GetAtt must be a string or list, got %v", ErrMalformedValue, val)
	}
}

// FindDependencies scans a resource's full template entry (Properties plus
// sibling keys such as DependsOn) for ordering dependencies, recognizing
// Ref, !Ref, and DependsOn uniformly. This generalizes the reference
// implementation's find_deps, which only recognized !Ref (documented
// deviation, SPEC_FULL.md §9).
func FindDependencies(elem interface{}) ([]string, error) {
	switch v := elem.(type) {
	case map[string]interface{}:
		var deps []string
		for key, val := range v {
			switch key {
			case "Ref", "!Ref":
				id, ok := val.(string)
				if !ok {
					return nil, fmt.Errorf("%w: Ref value must be a string, got %v", ErrMalformedValue, val)
				}
				deps = append(deps, id)
			case "DependsOn":
				ids, err := dependsOnList(val)
				if err != nil {
					return nil, err
				}
				deps = append(deps, ids...)
			default:
				sub, err := FindDependencies(val)
				if err != nil {
					return nil, err
				}
				deps = append(deps, sub...)
			}
		}
		return deps, nil
	case []interface{}:
		var deps []string
		for _, e := range v {
			sub, err := FindDependencies(e)
			if err != nil {
				return nil, err
			}
			deps = append(deps, sub...)
		}
		return deps, nil
	case string, bool, float64, int, int64, nil:
		return nil, nil
	default:
		return nil, fmt.Errorf("%w: unexpected configuration value type %T", ErrMalformedValue, elem)
	}
}

// dependsOnList normalizes a DependsOn value (a string or list of strings)
// into a list of dependency target ids.
func dependsOnList(val interface{}) ([]string, error) {
	switch v := val.(type) {
	case string:
		return []string{v}, nil
	case []interface{}:
		ids := make([]string, 0, len(v))
		for _, e := range v {
			id, ok := e.(string)
			if !ok {
				return nil, fmt.Errorf("%w: DependsOn element must be a string, got %v", ErrMalformedValue, e)
			}
			ids = append(ids, id)
		}
		return ids, nil
	default:
		return nil, fmt.Errorf("%w: DependsOn must be a string or list of strings, got %v", ErrMalformedValue, val)
	}
}
